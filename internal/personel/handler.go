package personel

import (
	"strconv"

	"akaryakit-backend/internal/database"
	"akaryakit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------------------------------
// GET /api/personeller?istasyon_id=
// Kayıtlar importer tarafından otomatik açılır; burası sadece yönetim yüzeyi
// -------------------------------------------------
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Personel{}).Order("ad")
		if s := c.Query("istasyon_id"); s != "" {
			q = q.Where("istasyon_id = ?", s)
		}

		var personeller []models.Personel
		if err := q.Find(&personeller).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personeller listelenemedi")
		}
		return c.JSON(personeller)
	}
}

// -------------------------------------------------
// PUT /api/personeller/:id
// Ad düzeltme ve pasife alma; anahtar alanlarına dokunulmaz (importer yönetir)
// -------------------------------------------------
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz personel id")
		}

		var p models.Personel
		if err := database.DB.First(&p, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}

		var body struct {
			Ad    string `json:"ad"`
			Aktif *bool  `json:"aktif"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Ad != "" {
			p.Ad = body.Ad
		}
		if body.Aktif != nil {
			p.Aktif = *body.Aktif
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel güncellenemedi")
		}
		return c.JSON(p)
	}
}
