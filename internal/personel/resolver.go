package personel

import (
	"fmt"
	"strings"
	"time"

	"akaryakit-backend/internal/models"

	"gorm.io/gorm"
)

// ResolveAttendant: import batch'indeki ham (anahtar, ad) çiftini kalıcı Personel
// kaydına eşler; eşleşme yoksa yeni Personel yaratır.
//
// Batch'ler kronolojik sırayla gelmeyebilir (backfill). Anahtar devri gibi kimlik
// mutasyonları bu yüzden "bu batch bildiğimden daha mı yeni?" kontrolüne bağlanır:
// vardiya başlangıcı, mevcut sahibin son anahtar değişiminden eskiyse batch'teki
// devir yok sayılır ve güncel sahiplik değişmez.
func ResolveAttendant(tx *gorm.DB, istasyonID uint, anahtar, ad string, vardiyaBaslangic time.Time) (uint, error) {
	anahtar = strings.TrimSpace(anahtar)
	ad = strings.TrimSpace(ad)

	if anahtar == "" && ad == "" {
		return 0, fmt.Errorf("personel anahtarı ve adı boş")
	}

	// Eski tarihli batch'te yok sayılan devirden kalan anahtar başka kimseye yazılmaz
	anahtarBayat := false

	// 1) Anahtar güncel bir personele ait mi?
	if anahtar != "" {
		var sahip models.Personel
		err := tx.Where("istasyon_id = ? AND anahtar = ?", istasyonID, anahtar).First(&sahip).Error
		if err == nil {
			if ad == "" || adEsit(sahip.Ad, ad) {
				return sahip.ID, nil
			}

			// 2) Anahtar devri: batch, güncel sahipliğin kaydından yeni mi?
			if sahip.SonAnahtarDegisimi == nil || vardiyaBaslangic.After(*sahip.SonAnahtarDegisimi) {
				// Anahtarı mevcut sahipten al; yeni sahip aşağıda kurulur
				zaman := vardiyaBaslangic
				guncelleme := map[string]interface{}{
					"anahtar":              "",
					"onceki_anahtar":       sahip.Anahtar,
					"son_anahtar_degisimi": &zaman,
				}
				if err := tx.Model(&sahip).Updates(guncelleme).Error; err != nil {
					return 0, fmt.Errorf("anahtar devri uygulanamadı: %w", err)
				}
			} else {
				// Batch eski: devir yok sayılır, anahtar sahibinde kalır
				anahtarBayat = true
			}
		} else if err != gorm.ErrRecordNotFound {
			return 0, err
		}
	}

	// 3) Ad ile eşleşme
	if ad != "" {
		var kisi models.Personel
		err := tx.Where("istasyon_id = ? AND ad = ?", istasyonID, ad).First(&kisi).Error
		if err == nil {
			// Farklı anahtar taşıyorsa aynı kronoloji kuralıyla üzerine yaz
			if anahtar != "" && !anahtarBayat && kisi.Anahtar != anahtar {
				if kisi.SonAnahtarDegisimi == nil || vardiyaBaslangic.After(*kisi.SonAnahtarDegisimi) {
					zaman := vardiyaBaslangic
					guncelleme := map[string]interface{}{
						"anahtar":              anahtar,
						"onceki_anahtar":       kisi.Anahtar,
						"son_anahtar_degisimi": &zaman,
					}
					if err := tx.Model(&kisi).Updates(guncelleme).Error; err != nil {
						return 0, fmt.Errorf("anahtar güncellenemedi: %w", err)
					}
				}
			}
			return kisi.ID, nil
		}
		if err != gorm.ErrRecordNotFound {
			return 0, err
		}
	}

	// 4) Yeni personel
	yeniAnahtar := anahtar
	if anahtarBayat {
		yeniAnahtar = ""
	}
	zaman := vardiyaBaslangic
	yeni := models.Personel{
		IstasyonID:         istasyonID,
		Ad:                 ad,
		Anahtar:            yeniAnahtar,
		SonAnahtarDegisimi: &zaman,
		Aktif:              true,
	}
	if yeni.Ad == "" {
		yeni.Ad = "BILINMEYEN " + anahtar
	}
	if err := tx.Create(&yeni).Error; err != nil {
		return 0, fmt.Errorf("personel oluşturulamadı: %w", err)
	}
	return yeni.ID, nil
}

func adEsit(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
