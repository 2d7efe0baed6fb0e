package models

import "time"

// YakitTipi: kanonik yakıt tanımı.
// Vendor export'larındaki ham kod/isimler sayısal kod veya anahtar kelime ile eşleşir.
type YakitTipi struct {
	ID  uint   `gorm:"primaryKey"`
	Ad  string `gorm:"size:100;not null;unique"`
	Kod int    `gorm:"index;not null"` // vendor sayısal kodu
	// Virgülle ayrılmış anahtar kelimeler (ör: "KURSUNSUZ,BENZIN,95")
	AnahtarKelimeler string `gorm:"size:255"`
	Aktif            bool   `gorm:"default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
