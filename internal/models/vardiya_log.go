package models

import "time"

// VardiyaLog: durum geçişlerinin append-only izi. Asla güncellenmez, asla silinmez.
type VardiyaLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	VardiyaID uint `gorm:"index;not null"`

	UserID   uint
	UserName string `gorm:"size:100"` // denormalize

	EskiDurum VardiyaDurum `gorm:"size:20"`
	YeniDurum VardiyaDurum `gorm:"size:20"`

	// Geçiş nedeni / notu (red nedeni, silme talebi nedeni, gönderim anındaki fark vb.)
	Neden string `gorm:"size:500"`
}
