package admin

import (
	"akaryakit-backend/internal/database"
	"akaryakit-backend/internal/fueltype"
	"akaryakit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type YakitTipiRequest struct {
	Ad               string `json:"ad"`
	Kod              int    `json:"kod"`
	AnahtarKelimeler string `json:"anahtar_kelimeler"`
}

// -------------------------------------------------
// POST /api/admin/yakit-tipleri
// Yeni tanım sonrası resolver cache'i tazelenir
// -------------------------------------------------
func CreateYakitTipiHandler(resolver *fueltype.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body YakitTipiRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Ad == "" || body.Kod == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ad ve kod zorunlu")
		}

		tip := models.YakitTipi{
			Ad:               body.Ad,
			Kod:              body.Kod,
			AnahtarKelimeler: body.AnahtarKelimeler,
			Aktif:            true,
		}
		if err := database.DB.Create(&tip).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yakıt tipi oluşturulamadı")
		}

		if err := resolver.Refresh(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yakıt cache'i tazelenemedi")
		}
		return c.Status(fiber.StatusCreated).JSON(tip)
	}
}

// -------------------------------------------------
// GET /api/admin/yakit-tipleri
// -------------------------------------------------
func ListYakitTipleriHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tipler []models.YakitTipi
		if err := database.DB.Order("kod").Find(&tipler).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yakıt tipleri listelenemedi")
		}
		return c.JSON(tipler)
	}
}

// -------------------------------------------------
// POST /api/admin/yakit-tipleri/refresh  (manuel cache invalidation)
// -------------------------------------------------
func RefreshYakitCacheHandler(resolver *fueltype.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := resolver.Refresh(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yakıt cache'i tazelenemedi")
		}
		return c.JSON(fiber.Map{"durum": "tazelendi"})
	}
}
