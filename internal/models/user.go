package models

import "time"

type UserRole string

const (
	RoleSuperAdmin    UserRole = "super_admin"
	RoleSirketSahibi  UserRole = "sirket_sahibi"  // şirket sahibi: onay/red/silme onayı
	RoleIstasyonAdmin UserRole = "istasyon_admin" // istasyon sorumlusu
	RolePersonel      UserRole = "personel"       // istasyon personeli: vardiya girişi
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	SirketID     *uint
	Sirket       *Sirket
	IstasyonID   *uint
	Istasyon     *Istasyon
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// YetkiliMi: onay/red/silme-onayı yetkisi var mı
func (u UserRole) YetkiliMi() bool {
	return u == RoleSuperAdmin || u == RoleSirketSahibi || u == RoleIstasyonAdmin
}
