package auth

import (
	"fmt"
	"strings"

	"akaryakit-backend/internal/config"
	"akaryakit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	CtxUserIDKey     = "user_id"
	CtxUserNameKey   = "user_name"
	CtxUserRoleKey   = "user_role"
	CtxSirketIDKey   = "sirket_id"
	CtxIstasyonIDKey = "istasyon_id"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("geçersiz imzalama yöntemi")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz veya süresi dolmuş token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token çözümlenemedi")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxSirketIDKey, claims.SirketID)
		c.Locals(CtxIstasyonIDKey, claims.IstasyonID)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	}
}

// Aktor: servis katmanına taşınan kimlik + scope bilgisi
type Aktor struct {
	UserID     uint
	Ad         string
	Rol        models.UserRole
	SirketID   *uint
	IstasyonID *uint
}

// AktorFromCtx: JWT claim'lerinden aktör kur (kullanıcı adı DB'den doldurulur)
func AktorFromCtx(c *fiber.Ctx, db *gorm.DB) (Aktor, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Aktor{}, fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}
	role, _ := c.Locals(CtxUserRoleKey).(models.UserRole)

	var sirketID, istasyonID *uint
	if v, ok := c.Locals(CtxSirketIDKey).(*uint); ok {
		sirketID = v
	}
	if v, ok := c.Locals(CtxIstasyonIDKey).(*uint); ok {
		istasyonID = v
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return Aktor{}, fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return Aktor{
		UserID:     userID,
		Ad:         user.Name,
		Rol:        role,
		SirketID:   sirketID,
		IstasyonID: istasyonID,
	}, nil
}
