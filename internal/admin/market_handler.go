package admin

import (
	"time"

	"akaryakit-backend/internal/database"
	"akaryakit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MarketVardiyaRequest struct {
	IstasyonID uint    `json:"istasyon_id"`
	Tarih      string  `json:"tarih"` // "2025-12-09"
	Toplam     float64 `json:"toplam"`
}

// -------------------------------------------------
// POST /api/market-vardiyalari
// Aynı istasyon/gün için pompa mutabakatına market toplamı enjekte edilir
// -------------------------------------------------
func CreateMarketVardiyaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MarketVardiyaRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.IstasyonID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "istasyon_id zorunlu")
		}

		tarih, err := time.ParseInLocation("2006-01-02", body.Tarih, time.Local)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı YYYY-AA-GG olmalı")
		}

		mv := models.MarketVardiya{
			IstasyonID: body.IstasyonID,
			Tarih:      tarih,
			Toplam:     body.Toplam,
		}
		if err := database.DB.Create(&mv).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Market vardiyası oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(mv)
	}
}

// -------------------------------------------------
// GET /api/market-vardiyalari?istasyon_id=
// -------------------------------------------------
func ListMarketVardiyalariHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.MarketVardiya{}).Order("tarih DESC")
		if s := c.Query("istasyon_id"); s != "" {
			q = q.Where("istasyon_id = ?", s)
		}

		var vardiyalar []models.MarketVardiya
		if err := q.Limit(200).Find(&vardiyalar).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Market vardiyaları listelenemedi")
		}
		return c.JSON(vardiyalar)
	}
}
