package models

import "time"

// VardiyaArsiv: onaylanan vardiyanın tüm hesaplanmış raporlarının donmuş JSON kopyası.
// Onay sonrası ham satırlar temizlendiğinde raporlama için otorite arşivdir.
type VardiyaArsiv struct {
	ID         uint   `gorm:"primaryKey"`
	VardiyaID  uint   `gorm:"uniqueIndex;not null"`
	SnapshotID string `gorm:"size:36;not null"` // uuid

	// Hesaplanmış raporlar (karşılaştırma + fark + tank) JSON olarak
	RaporJSON string `gorm:"type:jsonb;not null"`
	// Ham satırların (satışlar, endeksler, tanklar) geri yükleme kopyası.
	// Boş olabilir (eski arşivler); o durumda geri alma toplam-düzeltme fallback'ine düşer.
	HamVeriJSON string `gorm:"type:jsonb"`

	// Özet toplamlar (arşiv üzerinden hızlı listeleme için denormalize)
	OtomasyonToplam float64 `gorm:"default:0"`
	TahsilatToplam  float64 `gorm:"default:0"`
	Fark            float64 `gorm:"default:0"`

	CreatedAt time.Time
}

type TemizlikDurum string

const (
	TemizlikBekliyor   TemizlikDurum = "pending"
	TemizlikTamamlandi TemizlikDurum = "done"
	TemizlikBasarisiz  TemizlikDurum = "failed" // deneme limiti aşıldı, loglanır ve bırakılır
)

// ArsivTemizlikIsi: onay transaction'ı içinde yazılan outbox kaydı.
// Ham veri temizliği ayrı worker tarafından best-effort yürütülür;
// başarısızlık onayın geçerliliğini etkilemez.
type ArsivTemizlikIsi struct {
	ID        uint          `gorm:"primaryKey"`
	VardiyaID uint          `gorm:"uniqueIndex;not null"`
	Durum     TemizlikDurum `gorm:"size:20;index;not null;default:pending"`
	Deneme    int           `gorm:"default:0"`
	SonHata   string        `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
