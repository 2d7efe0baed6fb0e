package models

import "time"

// Personel: kanonik pompacı kimliği.
// Anahtar (tag) zamanla başka personele devredilebilir; SonAnahtarDegisimi
// kronoloji çapasıdır; eski tarihli batch'ler güncel sahipliği bozamaz.
type Personel struct {
	ID         uint `gorm:"primaryKey"`
	IstasyonID uint `gorm:"index;not null"`
	Istasyon   Istasyon

	Ad string `gorm:"size:100;not null;index"`

	// Güncel anahtar/tag id (boş olabilir: anahtarı devredilmiş personel)
	Anahtar string `gorm:"size:50;index"`
	// Devredilen önceki anahtar
	OncekiAnahtar string `gorm:"size:50"`
	// Son anahtar değişiminin zamanı
	SonAnahtarDegisimi *time.Time

	Aktif bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
