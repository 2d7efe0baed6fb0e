package vardiya

import (
	"strconv"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/archive"
	"akaryakit-backend/internal/auth"
	"akaryakit-backend/internal/database"
	"akaryakit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NedenRequest struct {
	Neden string `json:"neden"`
}

func idParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz vardiya id")
	}
	return uint(id), nil
}

func servisHatasi(err error) error {
	if e, ok := apperr.As(err); ok {
		return fiber.NewError(e.HTTPStatus(), e.Message)
	}
	return err
}

// -------------------------------------------------
// GET /api/vardiyalar?istasyon_id=&durum=
// -------------------------------------------------
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Vardiya{}).Order("baslangic DESC")

		if s := c.Query("istasyon_id"); s != "" {
			q = q.Where("istasyon_id = ?", s)
		}
		if s := c.Query("durum"); s != "" {
			q = q.Where("durum = ?", s)
		} else {
			q = q.Where("durum <> ?", models.VardiyaSilindi)
		}

		var vardiyalar []models.Vardiya
		if err := q.Limit(200).Find(&vardiyalar).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vardiyalar listelenemedi")
		}
		return c.JSON(vardiyalar)
	}
}

// -------------------------------------------------
// GET /api/vardiyalar/:id
// -------------------------------------------------
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}

		var v models.Vardiya
		if err := database.DB.Preload("Istasyon").First(&v, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vardiya bulunamadı")
		}
		return c.JSON(v)
	}
}

// -------------------------------------------------
// GET /api/vardiyalar/:id/loglar  (append-only denetim izi)
// -------------------------------------------------
func LogListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}

		var loglar []models.VardiyaLog
		if err := database.DB.Where("vardiya_id = ?", id).Order("id").Find(&loglar).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Loglar okunamadı")
		}
		return c.JSON(loglar)
	}
}

// -------------------------------------------------
// GET /api/vardiyalar/:id/arsiv  (donmuş rapor; arşiv yoksa null)
// -------------------------------------------------
func ArsivHandler(store *archive.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}

		sonuc, ok := store.Oku(database.DB, id)
		if !ok {
			return c.JSON(nil)
		}
		return c.JSON(sonuc)
	}
}

// -------------------------------------------------
// POST /api/vardiyalar/:id/onaya-gonder
// -------------------------------------------------
func OnayaGonderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		aktor, err := auth.AktorFromCtx(c, database.DB)
		if err != nil {
			return err
		}
		if err := svc.OnayaGonder(aktor, id); err != nil {
			return servisHatasi(err)
		}
		return c.JSON(fiber.Map{"durum": models.VardiyaOnayBekliyor})
	}
}

// -------------------------------------------------
// POST /api/vardiyalar/:id/onayla
// -------------------------------------------------
func OnaylaHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		aktor, err := auth.AktorFromCtx(c, database.DB)
		if err != nil {
			return err
		}
		if err := svc.Onayla(aktor, id); err != nil {
			return servisHatasi(err)
		}
		return c.JSON(fiber.Map{"durum": models.VardiyaOnaylandi})
	}
}

// -------------------------------------------------
// POST /api/vardiyalar/:id/reddet
// -------------------------------------------------
func ReddetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		var body NedenRequest
		if err := c.BodyParser(&body); err != nil || body.Neden == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Red nedeni zorunlu")
		}
		aktor, err := auth.AktorFromCtx(c, database.DB)
		if err != nil {
			return err
		}
		if err := svc.Reddet(aktor, id, body.Neden); err != nil {
			return servisHatasi(err)
		}
		return c.JSON(fiber.Map{"durum": models.VardiyaReddedildi})
	}
}

// -------------------------------------------------
// POST /api/vardiyalar/:id/silme-talebi
// -------------------------------------------------
func SilmeTalepHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		var body NedenRequest
		if err := c.BodyParser(&body); err != nil || body.Neden == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Silme nedeni zorunlu")
		}
		aktor, err := auth.AktorFromCtx(c, database.DB)
		if err != nil {
			return err
		}
		if err := svc.SilmeTalepEt(aktor, id, body.Neden); err != nil {
			return servisHatasi(err)
		}
		return c.JSON(fiber.Map{"durum": models.VardiyaSilmeBekliyor})
	}
}

// -------------------------------------------------
// POST /api/vardiyalar/:id/silme-onayla
// -------------------------------------------------
func SilmeOnaylaHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		aktor, err := auth.AktorFromCtx(c, database.DB)
		if err != nil {
			return err
		}
		if err := svc.SilmeOnayla(aktor, id); err != nil {
			return servisHatasi(err)
		}
		return c.JSON(fiber.Map{"durum": models.VardiyaSilindi})
	}
}

// -------------------------------------------------
// POST /api/vardiyalar/:id/silme-reddet
// -------------------------------------------------
func SilmeReddetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		aktor, err := auth.AktorFromCtx(c, database.DB)
		if err != nil {
			return err
		}
		if err := svc.SilmeReddet(aktor, id); err != nil {
			return servisHatasi(err)
		}
		return c.JSON(fiber.Map{"durum": models.VardiyaAcik})
	}
}

// -------------------------------------------------
// POST /api/vardiyalar/:id/onay-geri-al
// -------------------------------------------------
func OnayGeriAlHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		aktor, err := auth.AktorFromCtx(c, database.DB)
		if err != nil {
			return err
		}
		if err := svc.OnayGeriAl(aktor, id); err != nil {
			return servisHatasi(err)
		}
		return c.JSON(fiber.Map{"durum": models.VardiyaOnayBekliyor})
	}
}
