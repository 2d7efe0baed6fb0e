package reconcile

import (
	"strconv"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/database"
	"akaryakit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ArsivOkuyucu: onaylı vardiyalar için donmuş raporu veren kaynak
// (arşiv paketinden enjekte edilir)
type ArsivOkuyucu func(vardiyaID uint) (*Sonuc, bool)

// -------------------------------------------------
// GET /api/vardiya/:id/mutabakat
// Onaylı vardiyada otorite arşivdir; diğer durumlarda canlı hesaplanır.
// -------------------------------------------------
func RaporHandler(calc *Calculator, arsivden ArsivOkuyucu) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz vardiya id")
		}
		vardiyaID := uint(id)

		var vardiya models.Vardiya
		if err := database.DB.First(&vardiya, vardiyaID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vardiya bulunamadı")
		}

		if vardiya.Durum == models.VardiyaOnaylandi {
			if sonuc, ok := arsivden(vardiyaID); ok {
				return c.JSON(fiber.Map{"kaynak": "arsiv", "rapor": sonuc})
			}
			// Arşiv yoksa (beklenmedik) canlı hesaplamaya düş
		}

		sonuc, err := calc.Hesapla(database.DB, vardiyaID)
		if err != nil {
			if e, ok := apperr.As(err); ok {
				return fiber.NewError(e.HTTPStatus(), e.Message)
			}
			return err
		}

		return c.JSON(fiber.Map{"kaynak": "canli", "rapor": sonuc})
	}
}
