package models

import "time"

// Sirket: istasyonların bağlı olduğu şirket (onay yetkisi şirket bazında scope'lanır)
type Sirket struct {
	ID        uint   `gorm:"primaryKey"`
	Ad        string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Istasyonlar []Istasyon
}

type Istasyon struct {
	ID       uint `gorm:"primaryKey"`
	SirketID uint `gorm:"index;not null"`
	Sirket   Sirket
	Ad       string `gorm:"size:100;not null"`
	// Otomasyon export dosyasındaki istasyon kodu
	Kod string `gorm:"size:50;uniqueIndex;not null"`
	// İstasyonun kendi filo/taşıt tanıma kodu; bu koda kesilen satışlar pompacı satışıdır
	KendiFiloKodu string `gorm:"size:50"`
	Aktif         bool   `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
