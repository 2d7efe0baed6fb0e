package ledger

import (
	"fmt"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/models"

	"gorm.io/gorm"
)

// Post: cari karta bakiye arttıran tek hareket yazar (veresiye satış).
func Post(tx *gorm.DB, cariKartID uint, tutar float64, aciklama string, vardiyaID *uint) error {
	var kart models.CariKart
	if err := tx.First(&kart, cariKartID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("cari kart bulunamadı: %d", cariKartID)
		}
		return apperr.Persistence(err, "cari kart okunamadı")
	}

	hareket := models.CariHareket{
		CariKartID: cariKartID,
		VardiyaID:  vardiyaID,
		Tip:        models.CariHareketBorc,
		Tutar:      tutar,
		Aciklama:   aciklama,
	}
	if err := tx.Create(&hareket).Error; err != nil {
		return apperr.Persistence(err, "cari hareket yazılamadı")
	}

	if err := tx.Model(&kart).Update("bakiye", gorm.Expr("bakiye + ?", tutar)).Error; err != nil {
		return apperr.Persistence(err, "cari bakiye güncellenemedi")
	}
	return nil
}

// PostVardiyaVeresiyeleri: vardiyanın tüm pusula veresiyelerini cari hesaplara işler.
// Idempotency bekçisi: bu vardiyayı referans alan herhangi bir hareket varsa
// tamamı atlanır (retry'da çift kayıt olmaz).
func PostVardiyaVeresiyeleri(tx *gorm.DB, vardiyaID uint) error {
	var mevcut int64
	if err := tx.Model(&models.CariHareket{}).
		Where("vardiya_id = ?", vardiyaID).Count(&mevcut).Error; err != nil {
		return apperr.Persistence(err, "cari hareket kontrolü başarısız")
	}
	if mevcut > 0 {
		return nil // zaten işlenmiş
	}

	var veresiyeler []models.PusulaVeresiye
	if err := tx.Joins("JOIN pusulas ON pusulas.id = pusula_veresiyes.pusula_id").
		Where("pusulas.vardiya_id = ?", vardiyaID).
		Find(&veresiyeler).Error; err != nil {
		return apperr.Persistence(err, "veresiyeler okunamadı")
	}

	id := vardiyaID
	for _, v := range veresiyeler {
		aciklama := v.Aciklama
		if aciklama == "" {
			aciklama = fmt.Sprintf("Vardiya #%d veresiye satış", vardiyaID)
		}
		if err := Post(tx, v.CariKartID, v.Tutar, aciklama, &id); err != nil {
			return err
		}
	}
	return nil
}
