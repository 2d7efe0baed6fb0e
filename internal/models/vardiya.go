package models

import "time"

type VardiyaDurum string

const (
	VardiyaAcik          VardiyaDurum = "open"             // düzenlenebilir
	VardiyaOnayBekliyor  VardiyaDurum = "pending_approval" // onaya gönderildi
	VardiyaOnaylandi     VardiyaDurum = "approved"
	VardiyaReddedildi    VardiyaDurum = "rejected" // düzenlenebilir, tekrar onaya gönderilebilir
	VardiyaSilmeBekliyor VardiyaDurum = "pending_deletion"
	VardiyaSilindi       VardiyaDurum = "deleted" // soft delete, veri tutulur
)

// DuzenlenebilirMi: pusula/gider girişine açık durumlar
func (d VardiyaDurum) DuzenlenebilirMi() bool {
	return d == VardiyaAcik || d == VardiyaReddedildi
}

// Vardiya: bir istasyonun bir operasyon dönemi
type Vardiya struct {
	ID         uint `gorm:"primaryKey"`
	IstasyonID uint `gorm:"index;not null"`
	Istasyon   Istasyon

	Baslangic time.Time `gorm:"index;not null"`
	Bitis     time.Time

	Durum VardiyaDurum `gorm:"size:20;index;not null;default:open"`

	// Toplamlar (onaya gönderimde/onayda hesaplanıp yazılır)
	PompaToplam  float64 `gorm:"default:0"`
	MarketToplam float64 `gorm:"default:0"`
	GenelToplam  float64 `gorm:"default:0"`
	Fark         float64 `gorm:"default:0"`

	// Kaynak dosya (otomasyon import'u ise)
	DosyaAdi string `gorm:"size:255"`
	// Ham ZIP byte'larının SHA-256 hash'i; silinmemiş vardiyalar arasında tekil (dedupe anahtarı).
	// Unique index yok: silinen vardiyanın hash'i yeniden kullanılabilir, kontrol transaction içinde yapılır.
	DosyaHash string `gorm:"size:64;index"`

	// Silme talebi metadata'sı
	SilmeTalepEdenID *uint
	SilmeTalepNedeni string `gorm:"size:255"`
	SilmeTalepZamani *time.Time

	// Onay bilgisi
	OnaylayanID *uint
	OnayZamani  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MarketVardiya: aynı istasyon/gün için market tarafının vardiyası.
// Pompa mutabakatına sadece toplamı enjekte edilir (fark formülündeki marketToplam).
type MarketVardiya struct {
	ID         uint `gorm:"primaryKey"`
	IstasyonID uint `gorm:"index;not null"`
	Istasyon   Istasyon
	Tarih      time.Time `gorm:"index;not null"` // gün bazlı
	Toplam     float64   `gorm:"default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
