package admin

import (
	"strconv"

	"akaryakit-backend/internal/database"
	"akaryakit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CariKartRequest struct {
	IstasyonID uint   `json:"istasyon_id"`
	Unvan      string `json:"unvan"`
	Telefon    string `json:"telefon"`
}

// -------------------------------------------------
// POST /api/cari-kartlar
// -------------------------------------------------
func CreateCariKartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CariKartRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Unvan == "" || body.IstasyonID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Unvan ve istasyon_id zorunlu")
		}

		kart := models.CariKart{
			IstasyonID: body.IstasyonID,
			Unvan:      body.Unvan,
			Telefon:    body.Telefon,
			Aktif:      true,
		}
		if err := database.DB.Create(&kart).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Cari kart oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(kart)
	}
}

// -------------------------------------------------
// GET /api/cari-kartlar?istasyon_id=
// -------------------------------------------------
func ListCariKartlarHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.CariKart{}).Order("unvan")
		if s := c.Query("istasyon_id"); s != "" {
			q = q.Where("istasyon_id = ?", s)
		}

		var kartlar []models.CariKart
		if err := q.Find(&kartlar).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Cari kartlar listelenemedi")
		}
		return c.JSON(kartlar)
	}
}

// -------------------------------------------------
// GET /api/cari-kartlar/:id/hareketler
// -------------------------------------------------
func ListCariHareketlerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz cari kart id")
		}

		var hareketler []models.CariHareket
		if err := database.DB.Where("cari_kart_id = ?", uint(id)).
			Order("id DESC").Limit(200).Find(&hareketler).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hareketler listelenemedi")
		}
		return c.JSON(hareketler)
	}
}
