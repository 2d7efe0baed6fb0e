package pusula

import (
	"strconv"

	"akaryakit-backend/internal/database"
	"akaryakit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type KartDetayRequest struct {
	Banka string  `json:"banka"`
	Tutar float64 `json:"tutar"`
}

type DigerOdemeRequest struct {
	Etiket string  `json:"etiket"`
	Tutar  float64 `json:"tutar"`
}

type VeresiyeRequest struct {
	CariKartID uint    `json:"cari_kart_id"`
	Tutar      float64 `json:"tutar"`
	Aciklama   string  `json:"aciklama"`
	Plaka      string  `json:"plaka"`
}

type PusulaRequest struct {
	VardiyaID  uint    `json:"vardiya_id"`
	PersonelID uint    `json:"personel_id"`
	Nakit      float64 `json:"nakit"`
	KartToplam float64 `json:"kart_toplam"`

	KartDetaylar  []KartDetayRequest  `json:"kart_detaylar"`
	DigerOdemeler []DigerOdemeRequest `json:"diger_odemeler"`
	Veresiyeler   []VeresiyeRequest   `json:"veresiyeler"`
}

// duzenlenebilirVardiya: pusula girişi yalnızca open/rejected vardiyada
func duzenlenebilirVardiya(vardiyaID uint) (*models.Vardiya, error) {
	var v models.Vardiya
	if err := database.DB.First(&v, vardiyaID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Vardiya bulunamadı")
	}
	if !v.Durum.DuzenlenebilirMi() {
		return nil, fiber.NewError(fiber.StatusConflict, "Vardiya bu durumda düzenlenemez: "+string(v.Durum))
	}
	return &v, nil
}

// -------------------------------------------------
// POST /api/pusulalar
// (vardiya, personel) başına tek pusula; varsa üstüne yazmak yerine 409 döner
// -------------------------------------------------
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PusulaRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.VardiyaID == 0 || body.PersonelID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "vardiya_id ve personel_id zorunlu")
		}

		if _, err := duzenlenebilirVardiya(body.VardiyaID); err != nil {
			return err
		}

		var mevcut models.Pusula
		err := database.DB.Where("vardiya_id = ? AND personel_id = ?", body.VardiyaID, body.PersonelID).
			First(&mevcut).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict, "Bu personel için pusula zaten var")
		}
		if err != gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusInternalServerError, "Pusula kontrolü başarısız")
		}

		p := models.Pusula{
			VardiyaID:     body.VardiyaID,
			PersonelID:    body.PersonelID,
			Nakit:         body.Nakit,
			KartToplam:    body.KartToplam,
			KartDetayJSON: "null",
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			return altKayitlariYaz(tx, &p, &body)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pusula kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": p.ID})
	}
}

// -------------------------------------------------
// PUT /api/pusulalar/:id
// Kullanıcı girişli alanlar yenilenir; sistem üretimi satırlar korunur
// -------------------------------------------------
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz pusula id")
		}

		var p models.Pusula
		if err := database.DB.First(&p, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pusula bulunamadı")
		}

		if _, err := duzenlenebilirVardiya(p.VardiyaID); err != nil {
			return err
		}

		var body PusulaRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&p).Updates(map[string]interface{}{
				"nakit":       body.Nakit,
				"kart_toplam": body.KartToplam,
			}).Error; err != nil {
				return err
			}

			// Eski alt kayıtları sil; sistem üretimi satırlar silinmekten korunur
			if err := tx.Where("pusula_id = ?", p.ID).Delete(&models.PusulaKartDetay{}).Error; err != nil {
				return err
			}
			if err := tx.Where("pusula_id = ? AND sistem_uretimi = ?", p.ID, false).
				Delete(&models.PusulaDigerOdeme{}).Error; err != nil {
				return err
			}
			if err := tx.Where("pusula_id = ?", p.ID).Delete(&models.PusulaVeresiye{}).Error; err != nil {
				return err
			}

			return altKayitlariYaz(tx, &p, &body)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pusula güncellenemedi")
		}

		return c.JSON(fiber.Map{"id": p.ID})
	}
}

// -------------------------------------------------
// GET /api/vardiyalar/:id/pusulalar
// -------------------------------------------------
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vardiyaID, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz vardiya id")
		}

		var pusulalar []models.Pusula
		if err := database.DB.
			Preload("Personel").Preload("KartDetaylar").Preload("DigerOdemeler").Preload("Veresiyeler").
			Where("vardiya_id = ?", uint(vardiyaID)).Find(&pusulalar).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pusulalar listelenemedi")
		}
		return c.JSON(pusulalar)
	}
}

// -------------------------------------------------
// DELETE /api/pusulalar/:id
// -------------------------------------------------
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz pusula id")
		}

		var p models.Pusula
		if err := database.DB.First(&p, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Pusula bulunamadı")
		}

		if _, err := duzenlenebilirVardiya(p.VardiyaID); err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("pusula_id = ?", p.ID).Delete(&models.PusulaKartDetay{}).Error; err != nil {
				return err
			}
			if err := tx.Where("pusula_id = ?", p.ID).Delete(&models.PusulaDigerOdeme{}).Error; err != nil {
				return err
			}
			if err := tx.Where("pusula_id = ?", p.ID).Delete(&models.PusulaVeresiye{}).Error; err != nil {
				return err
			}
			return tx.Delete(&p).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pusula silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func altKayitlariYaz(tx *gorm.DB, p *models.Pusula, body *PusulaRequest) error {
	for _, d := range body.KartDetaylar {
		if d.Banka == "" || d.Tutar <= 0 {
			continue
		}
		if err := tx.Create(&models.PusulaKartDetay{
			PusulaID: p.ID, Banka: d.Banka, Tutar: d.Tutar,
		}).Error; err != nil {
			return err
		}
	}
	for _, d := range body.DigerOdemeler {
		if d.Etiket == "" || d.Tutar <= 0 {
			continue
		}
		if err := tx.Create(&models.PusulaDigerOdeme{
			PusulaID: p.ID, Etiket: d.Etiket, Tutar: d.Tutar, SistemUretimi: false,
		}).Error; err != nil {
			return err
		}
	}
	for _, v := range body.Veresiyeler {
		if v.CariKartID == 0 || v.Tutar <= 0 {
			continue
		}
		if err := tx.Create(&models.PusulaVeresiye{
			PusulaID: p.ID, CariKartID: v.CariKartID, Tutar: v.Tutar,
			Aciklama: v.Aciklama, Plaka: v.Plaka,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
