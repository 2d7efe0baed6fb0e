package gider

import (
	"strconv"

	"akaryakit-backend/internal/database"
	"akaryakit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type GiderRequest struct {
	VardiyaID uint    `json:"vardiya_id"`
	Aciklama  string  `json:"aciklama"`
	Tutar     float64 `json:"tutar"`
}

// -------------------------------------------------
// POST /api/vardiya-giderleri
// Vardiya kasasından nakit gider; fark formülünde tahsilat tarafına eklenir
// -------------------------------------------------
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GiderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Tutar <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tutar 0'dan büyük olmalı")
		}
		if body.Aciklama == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Açıklama zorunlu")
		}

		var v models.Vardiya
		if err := database.DB.First(&v, body.VardiyaID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vardiya bulunamadı")
		}
		if !v.Durum.DuzenlenebilirMi() {
			return fiber.NewError(fiber.StatusConflict, "Vardiya bu durumda düzenlenemez: "+string(v.Durum))
		}

		g := models.VardiyaGider{
			VardiyaID: body.VardiyaID,
			Aciklama:  body.Aciklama,
			Tutar:     body.Tutar,
		}
		if err := database.DB.Create(&g).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(g)
	}
}

// -------------------------------------------------
// GET /api/vardiyalar/:id/giderler
// -------------------------------------------------
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vardiyaID, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz vardiya id")
		}

		var giderler []models.VardiyaGider
		if err := database.DB.Where("vardiya_id = ?", uint(vardiyaID)).
			Order("id").Find(&giderler).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giderler listelenemedi")
		}
		return c.JSON(giderler)
	}
}

// -------------------------------------------------
// DELETE /api/vardiya-giderleri/:id
// -------------------------------------------------
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz gider id")
		}

		var g models.VardiyaGider
		if err := database.DB.First(&g, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider bulunamadı")
		}

		var v models.Vardiya
		if err := database.DB.First(&v, g.VardiyaID).Error; err == nil && !v.Durum.DuzenlenebilirMi() {
			return fiber.NewError(fiber.StatusConflict, "Vardiya bu durumda düzenlenemez: "+string(v.Durum))
		}

		if err := database.DB.Delete(&g).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
