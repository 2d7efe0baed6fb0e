package admin

import (
	"strconv"

	"akaryakit-backend/internal/database"
	"akaryakit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type IstasyonRequest struct {
	SirketID      uint   `json:"sirket_id"`
	Ad            string `json:"ad"`
	Kod           string `json:"kod"`
	KendiFiloKodu string `json:"kendi_filo_kodu"`
	Aktif         *bool  `json:"aktif"`
}

// -------------------------------------------------
// POST /api/admin/sirketler
// -------------------------------------------------
func CreateSirketHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Ad string `json:"ad"`
		}
		if err := c.BodyParser(&body); err != nil || body.Ad == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Şirket adı zorunlu")
		}

		sirket := models.Sirket{Ad: body.Ad}
		if err := database.DB.Create(&sirket).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şirket oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(sirket)
	}
}

// -------------------------------------------------
// POST /api/admin/istasyonlar
// -------------------------------------------------
func CreateIstasyonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body IstasyonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Ad == "" || body.Kod == "" || body.SirketID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ad, kod ve sirket_id zorunlu")
		}

		istasyon := models.Istasyon{
			SirketID:      body.SirketID,
			Ad:            body.Ad,
			Kod:           body.Kod,
			KendiFiloKodu: body.KendiFiloKodu,
			Aktif:         true,
		}
		if err := database.DB.Create(&istasyon).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstasyon oluşturulamadı (kod tekil olmalı)")
		}
		return c.Status(fiber.StatusCreated).JSON(istasyon)
	}
}

// -------------------------------------------------
// GET /api/admin/istasyonlar
// -------------------------------------------------
func ListIstasyonlarHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var istasyonlar []models.Istasyon
		if err := database.DB.Order("ad").Find(&istasyonlar).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstasyonlar listelenemedi")
		}
		return c.JSON(istasyonlar)
	}
}

// -------------------------------------------------
// PUT /api/admin/istasyonlar/:id
// -------------------------------------------------
func UpdateIstasyonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istasyon id")
		}

		var istasyon models.Istasyon
		if err := database.DB.First(&istasyon, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "İstasyon bulunamadı")
		}

		var body IstasyonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Ad != "" {
			istasyon.Ad = body.Ad
		}
		if body.Kod != "" {
			istasyon.Kod = body.Kod
		}
		if body.KendiFiloKodu != "" {
			istasyon.KendiFiloKodu = body.KendiFiloKodu
		}
		if body.Aktif != nil {
			istasyon.Aktif = *body.Aktif
		}

		if err := database.DB.Save(&istasyon).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstasyon güncellenemedi")
		}
		return c.JSON(istasyon)
	}
}
