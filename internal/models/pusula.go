package models

import "time"

// Sistem üretimi diğer-ödeme satırı etiketleri
const (
	EtiketMobilOdeme = "Mobil Ödeme"
	EtiketPompaPuan  = "Pompa Puan"
)

// Pusula: bir pompacının vardiya için elle beyan ettiği tahsilat.
// Vardiya düzenlenebilir durumdayken (vardiya, personel) başına tek pusula olur.
type Pusula struct {
	ID         uint `gorm:"primaryKey"`
	VardiyaID  uint `gorm:"index;not null"`
	PersonelID uint `gorm:"index;not null"`
	Personel   Personel

	Nakit      float64 `gorm:"default:0"`
	KartToplam float64 `gorm:"default:0"`
	// Eski kayıtlar: banka kırılımı JSON blob'u [{"banka":"X","tutar":10}]
	// Yeni kayıtlar KartDetaylar tablosunu kullanır; okuma tarafı ikisini de destekler.
	KartDetayJSON string `gorm:"type:jsonb"`

	KartDetaylar  []PusulaKartDetay
	DigerOdemeler []PusulaDigerOdeme
	Veresiyeler   []PusulaVeresiye

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PusulaKartDetay: kredi kartı tahsilatının banka kırılımı (tipli satır)
type PusulaKartDetay struct {
	ID        uint    `gorm:"primaryKey"`
	PusulaID  uint    `gorm:"index;not null"`
	Banka     string  `gorm:"size:100;not null"`
	Tutar     float64 `gorm:"not null"`
	CreatedAt time.Time
}

// PusulaDigerOdeme: etiketli diğer-ödeme satırı.
// SistemUretimi=true satırlar mutabakat tarafından üretilir (Mobil Ödeme, Pompa Puan)
// ve kullanıcı tarafından silinemez.
type PusulaDigerOdeme struct {
	ID            uint    `gorm:"primaryKey"`
	PusulaID      uint    `gorm:"index;not null"`
	Etiket        string  `gorm:"size:100;not null"`
	Tutar         float64 `gorm:"not null"`
	SistemUretimi bool    `gorm:"default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PusulaVeresiye: müşteri cari kartına yazılan veresiye satışı.
// Vardiya onayında cari harekete dönüşür.
type PusulaVeresiye struct {
	ID         uint `gorm:"primaryKey"`
	PusulaID   uint `gorm:"index;not null"`
	CariKartID uint `gorm:"index;not null"`
	CariKart   CariKart
	Tutar      float64 `gorm:"not null"`
	Aciklama   string  `gorm:"size:255"`
	Plaka      string  `gorm:"size:20"`
	CreatedAt  time.Time
}
