package models

import "time"

// VardiyaGider: vardiya kasasından yapılan nakit gider (beklenen kasayı düşürür,
// fark formülünde tahsilat tarafına eklenir)
type VardiyaGider struct {
	ID        uint    `gorm:"primaryKey"`
	VardiyaID uint    `gorm:"index;not null"`
	Aciklama  string  `gorm:"size:255;not null"`
	Tutar     float64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
