package models

import "time"

// CariKart: veresiye müşterisinin cari hesabı
type CariKart struct {
	ID         uint `gorm:"primaryKey"`
	IstasyonID uint `gorm:"index;not null"`
	Istasyon   Istasyon
	Unvan      string  `gorm:"size:150;not null"`
	Telefon    string  `gorm:"size:50"`
	Bakiye     float64 `gorm:"default:0"` // borç bakiyesi; veresiye arttırır, tahsilat azaltır
	Aktif      bool    `gorm:"default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CariHareketTip string

const (
	CariHareketBorc     CariHareketTip = "borc"     // veresiye satış (bakiye artar)
	CariHareketTahsilat CariHareketTip = "tahsilat" // ödeme (bakiye azalır)
)

// CariHareket: cari kart hareketi. Vardiya onayından gelen kayıtlar VardiyaID taşır;
// aynı vardiya için ikinci kez kayıt atılmaz (idempotency bekçisi).
type CariHareket struct {
	ID         uint `gorm:"primaryKey"`
	CariKartID uint `gorm:"index;not null"`
	CariKart   CariKart
	VardiyaID  *uint          `gorm:"index"`
	Tip        CariHareketTip `gorm:"size:20;not null"`
	Tutar      float64        `gorm:"not null"`
	Aciklama   string         `gorm:"size:255"`
	CreatedAt  time.Time
}
