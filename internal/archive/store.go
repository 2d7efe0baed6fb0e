package archive

import (
	"encoding/json"
	"strings"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/models"
	"akaryakit-backend/internal/reconcile"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HamVeri: arşivde tutulan ham satır kopyası; geri alma bu kopyadan restore eder
type HamVeri struct {
	Satislar  []models.OtomasyonSatis `json:"satislar"`
	Filolar   []models.FiloSatis      `json:"filolar"`
	Endeksler []models.PompaEndeks    `json:"endeksler"`
	Tanklar   []models.TankEnvanter   `json:"tanklar"`
}

type Store struct{}

func NewStore() *Store { return &Store{} }

// Olustur: onay anındaki tüm hesaplanmış raporları ve ham satır kopyasını dondurur,
// temizlik işini outbox'a yazar. Onay transaction'ının parçasıdır: yarım arşiv
// gözlemlenemez.
func (s *Store) Olustur(tx *gorm.DB, vardiyaID uint, sonuc *reconcile.Sonuc) error {
	raporJSON, err := json.Marshal(sonuc)
	if err != nil {
		return apperr.Persistence(err, "rapor serileştirilemedi")
	}

	var ham HamVeri
	if err := tx.Where("vardiya_id = ?", vardiyaID).Find(&ham.Satislar).Error; err != nil {
		return apperr.Persistence(err, "satış kopyası okunamadı")
	}
	if err := tx.Where("vardiya_id = ?", vardiyaID).Find(&ham.Filolar).Error; err != nil {
		return apperr.Persistence(err, "filo kopyası okunamadı")
	}
	if err := tx.Where("vardiya_id = ?", vardiyaID).Find(&ham.Endeksler).Error; err != nil {
		return apperr.Persistence(err, "endeks kopyası okunamadı")
	}
	if err := tx.Where("vardiya_id = ?", vardiyaID).Find(&ham.Tanklar).Error; err != nil {
		return apperr.Persistence(err, "tank kopyası okunamadı")
	}

	hamJSON, err := json.Marshal(ham)
	if err != nil {
		return apperr.Persistence(err, "ham veri serileştirilemedi")
	}

	arsiv := models.VardiyaArsiv{
		VardiyaID:       vardiyaID,
		SnapshotID:      uuid.NewString(),
		RaporJSON:       string(raporJSON),
		HamVeriJSON:     string(hamJSON),
		OtomasyonToplam: sonuc.Fark.OtomasyonToplam,
		TahsilatToplam:  sonuc.Fark.TahsilatToplam,
		Fark:            sonuc.Fark.Fark,
	}
	if err := tx.Create(&arsiv).Error; err != nil {
		return apperr.Persistence(err, "arşiv yazılamadı")
	}

	is := models.ArsivTemizlikIsi{VardiyaID: vardiyaID, Durum: models.TemizlikBekliyor}
	if err := tx.Create(&is).Error; err != nil {
		return apperr.Persistence(err, "temizlik işi yazılamadı")
	}

	return nil
}

// Oku: donmuş raporu döner; arşiv yoksa (nil, false)
func (s *Store) Oku(db *gorm.DB, vardiyaID uint) (*reconcile.Sonuc, bool) {
	var arsiv models.VardiyaArsiv
	if err := db.Where("vardiya_id = ?", vardiyaID).First(&arsiv).Error; err != nil {
		return nil, false
	}

	var sonuc reconcile.Sonuc
	if err := json.Unmarshal([]byte(arsiv.RaporJSON), &sonuc); err != nil {
		return nil, false
	}
	return &sonuc, true
}

// Geri: onay geri alınırken arşivi söker.
// Ham veri kopyası varsa ve satırlar temizlenmişse restore eder; kopya yoksa
// vardiya toplamları arşiv özetinden düzeltilir (dokümante fallback, hata değil).
// Bekleyen temizlik işi de iptal edilir.
func (s *Store) Geri(tx *gorm.DB, vardiyaID uint) error {
	var arsiv models.VardiyaArsiv
	if err := tx.Where("vardiya_id = ?", vardiyaID).First(&arsiv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("vardiya arşivi bulunamadı: %d", vardiyaID)
		}
		return apperr.Persistence(err, "arşiv okunamadı")
	}

	restoreEdildi := false
	if blob := strings.TrimSpace(arsiv.HamVeriJSON); blob != "" && blob != "null" {
		var ham HamVeri
		if err := json.Unmarshal([]byte(blob), &ham); err == nil {
			var mevcut int64
			tx.Model(&models.OtomasyonSatis{}).Where("vardiya_id = ?", vardiyaID).Count(&mevcut)
			if mevcut == 0 {
				// Temizlik çalışmış: satırları kopyadan geri yükle
				if err := hamVeriYukle(tx, &ham); err != nil {
					return err
				}
			}
			restoreEdildi = true
		}
	}

	if !restoreEdildi {
		// Kopyasız eski arşiv: hesaplanan toplamlar vardiya üzerinde düzeltilir
		guncelleme := map[string]interface{}{
			"pompa_toplam": arsiv.OtomasyonToplam,
			"genel_toplam": arsiv.OtomasyonToplam,
			"fark":         arsiv.Fark,
		}
		if err := tx.Model(&models.Vardiya{}).Where("id = ?", vardiyaID).
			Updates(guncelleme).Error; err != nil {
			return apperr.Persistence(err, "vardiya toplamları düzeltilemedi")
		}
	}

	if err := tx.Where("vardiya_id = ? AND durum = ?", vardiyaID, models.TemizlikBekliyor).
		Delete(&models.ArsivTemizlikIsi{}).Error; err != nil {
		return apperr.Persistence(err, "temizlik işi iptal edilemedi")
	}

	if err := tx.Delete(&arsiv).Error; err != nil {
		return apperr.Persistence(err, "arşiv silinemedi")
	}
	return nil
}

func hamVeriYukle(tx *gorm.DB, ham *HamVeri) error {
	for i := range ham.Satislar {
		ham.Satislar[i].ID = 0
		if err := tx.Create(&ham.Satislar[i]).Error; err != nil {
			return apperr.Persistence(err, "satış geri yüklenemedi")
		}
	}
	for i := range ham.Filolar {
		ham.Filolar[i].ID = 0
		if err := tx.Create(&ham.Filolar[i]).Error; err != nil {
			return apperr.Persistence(err, "filo satışı geri yüklenemedi")
		}
	}
	for i := range ham.Endeksler {
		ham.Endeksler[i].ID = 0
		if err := tx.Create(&ham.Endeksler[i]).Error; err != nil {
			return apperr.Persistence(err, "endeks geri yüklenemedi")
		}
	}
	for i := range ham.Tanklar {
		ham.Tanklar[i].ID = 0
		if err := tx.Create(&ham.Tanklar[i]).Error; err != nil {
			return apperr.Persistence(err, "tank envanteri geri yüklenemedi")
		}
	}
	return nil
}
