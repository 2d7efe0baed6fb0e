package importer

import (
	"io"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/auth"
	"akaryakit-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

// -------------------------------------------------
// POST /api/vardiya/import  (multipart, alan adı "file")
// -------------------------------------------------
func ImportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aktor, err := auth.AktorFromCtx(c, database.DB)
		if err != nil {
			return err
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ZIP dosyası eksik (alan adı: file)")
		}

		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya açılamadı")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya okunamadı")
		}

		vardiya, err := svc.ImportFile(fh.Filename, data, aktor.IstasyonID)
		if err != nil {
			if e, ok := apperr.As(err); ok {
				return c.Status(e.HTTPStatus()).JSON(fiber.Map{
					"error":      e.Message,
					"error_code": string(e.Kind),
					"ref_id":     e.RefID,
				})
			}
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"vardiya_id":  vardiya.ID,
			"istasyon_id": vardiya.IstasyonID,
			"baslangic":   vardiya.Baslangic,
			"bitis":       vardiya.Bitis,
			"dosya_hash":  vardiya.DosyaHash,
		})
	}
}
