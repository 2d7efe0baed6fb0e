package importer

import (
	"fmt"
	"strconv"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/fueltype"
	"akaryakit-backend/internal/models"
	"akaryakit-backend/internal/personel"

	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	yakitlar *fueltype.Resolver
	mobilKod string
}

func NewService(db *gorm.DB, yakitlar *fueltype.Resolver, mobilKod string) *Service {
	return &Service{db: db, yakitlar: yakitlar, mobilKod: mobilKod}
}

// ImportFile: bir otomasyon export dosyasını uçtan uca işler.
// Tüm persist tek transaction içindedir: herhangi bir hata hiçbir satır
// yazılmadan batch'i düşürür.
//
// İstasyon çözümü: önce dosyadaki istasyon kodu, yoksa yükleyen kullanıcının
// atanmış istasyonu. İkisi de yoksa fatal.
func (s *Service) ImportFile(dosyaAdi string, data []byte, yukleyenIstasyonID *uint) (*models.Vardiya, error) {
	dosya, err := ParseZip(data)
	if err != nil {
		return nil, err
	}

	istasyon, err := s.istasyonCozumle(dosya.Rapor.Parametreler.IstasyonKod, yukleyenIstasyonID)
	if err != nil {
		return nil, err
	}

	batch, err := Normalize(dosya, istasyon.KendiFiloKodu, s.mobilKod)
	if err != nil {
		return nil, err
	}

	var vardiya *models.Vardiya
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Aynı dosyanın eşzamanlı iki yüklemesi arasındaki yarışı önlemek için
		// hash bazlı advisory lock (Postgres); dedupe kontrolü kilidin ardından yapılır
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", dosya.Hash).Error; err != nil {
				return apperr.Persistence(err, "dosya kilidi alınamadı")
			}
		}

		var mevcut models.Vardiya
		err := tx.Where("dosya_hash = ? AND durum <> ?", dosya.Hash, models.VardiyaSilindi).
			First(&mevcut).Error
		if err == nil {
			return apperr.Duplicate(mevcut.ID, "bu dosya daha önce işlenmiş (vardiya #%d)", mevcut.ID)
		}
		if err != gorm.ErrRecordNotFound {
			return apperr.Persistence(err, "dedupe kontrolü başarısız")
		}

		v := models.Vardiya{
			IstasyonID: istasyon.ID,
			Baslangic:  batch.Baslangic,
			Bitis:      batch.Bitis,
			Durum:      models.VardiyaAcik,
			DosyaAdi:   dosyaAdi,
			DosyaHash:  dosya.Hash,
		}
		for _, k := range batch.Satislar {
			v.PompaToplam += k.Tutar
		}
		for _, k := range batch.FiloSatislar {
			v.PompaToplam += k.Tutar
		}
		v.GenelToplam = v.PompaToplam

		if err := tx.Create(&v).Error; err != nil {
			return apperr.Persistence(err, "vardiya oluşturulamadı")
		}

		for _, k := range batch.Satislar {
			personelID, err := personel.ResolveAttendant(tx, istasyon.ID, k.PersonelAnahtar, k.PersonelAd, batch.Baslangic)
			if err != nil {
				return apperr.Validation("personel çözümlenemedi (fiş %s): %v", k.FisNo, err)
			}

			satis := models.OtomasyonSatis{
				VardiyaID:       v.ID,
				PompaNo:         k.PompaNo,
				TabancaNo:       k.TabancaNo,
				YakitAdi:        k.YakitAdi,
				Litre:           k.Litre,
				BirimFiyat:      k.BirimFiyat,
				Tutar:           k.Tutar,
				FisNo:           k.FisNo,
				Plaka:           k.Plaka,
				PersonelAnahtar: k.PersonelAnahtar,
				PersonelID:      &personelID,
				PuanTutar:       k.PuanTutar,
				SadakatKartNo:   k.SadakatKartNo,
				MobilOdemeTutar: k.MobilOdemeTutar,
			}
			satis.YakitTipiID = s.yakitBul(k.YakitKod, k.YakitAdi)
			if err := tx.Create(&satis).Error; err != nil {
				return apperr.Persistence(err, "satış kaydedilemedi")
			}
		}

		for _, k := range batch.FiloSatislar {
			fs := models.FiloSatis{
				VardiyaID:   v.ID,
				FiloKod:     k.FiloKod,
				FiloAd:      k.FiloAd,
				PompaNo:     k.PompaNo,
				TabancaNo:   k.TabancaNo,
				YakitAdi:    k.YakitAdi,
				Litre:       k.Litre,
				BirimFiyat:  k.BirimFiyat,
				Tutar:       k.Tutar,
				FisNo:       k.FisNo,
				Plaka:       k.Plaka,
				PersonelAdi: k.PersonelAd,
			}
			fs.YakitTipiID = s.yakitBul(k.YakitKod, k.YakitAdi)
			if err := tx.Create(&fs).Error; err != nil {
				return apperr.Persistence(err, "filo satışı kaydedilemedi")
			}
		}

		for _, k := range batch.Endeksler {
			e := models.PompaEndeks{
				VardiyaID:       v.ID,
				PompaNo:         k.PompaNo,
				TabancaNo:       k.TabancaNo,
				BaslangicEndeks: k.BaslangicEndeks,
				BitisEndeks:     k.BitisEndeks,
			}
			e.YakitTipiID = s.yakitBul(k.YakitKod, "")
			if err := tx.Create(&e).Error; err != nil {
				return apperr.Persistence(err, "pompa endeksi kaydedilemedi")
			}
		}

		for _, k := range batch.Tanklar {
			t := models.TankEnvanter{
				VardiyaID:       v.ID,
				TankNo:          k.TankNo,
				AcilisStok:      k.AcilisStok,
				KapanisStok:     k.KapanisStok,
				Dolum:           k.Dolum,
				BeklenenTuketim: k.BeklenenTuketim,
				SatilanLitre:    k.SatilanLitre,
				FarkLitre:       k.FarkLitre,
			}
			t.YakitTipiID = s.yakitBul(k.YakitKod, "")
			if err := tx.Create(&t).Error; err != nil {
				return apperr.Persistence(err, "tank envanteri kaydedilemedi")
			}
		}

		kayit := models.VardiyaLog{
			VardiyaID: v.ID,
			UserName:  "otomasyon-import",
			EskiDurum: "",
			YeniDurum: models.VardiyaAcik,
			Neden:     fmt.Sprintf("Dosya işlendi: %s", dosyaAdi),
		}
		if err := tx.Create(&kayit).Error; err != nil {
			return apperr.Persistence(err, "vardiya logu yazılamadı")
		}

		vardiya = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vardiya, nil
}

func (s *Service) istasyonCozumle(kod string, yukleyenIstasyonID *uint) (*models.Istasyon, error) {
	var istasyon models.Istasyon

	if kod != "" {
		if err := s.db.Where("kod = ?", kod).First(&istasyon).Error; err == nil {
			if !istasyon.Aktif {
				return nil, apperr.Validation("istasyon pasif: %s", kod)
			}
			return &istasyon, nil
		}
	}

	if yukleyenIstasyonID != nil {
		if err := s.db.First(&istasyon, *yukleyenIstasyonID).Error; err == nil {
			if !istasyon.Aktif {
				return nil, apperr.Validation("istasyon pasif: %s", istasyon.Kod)
			}
			return &istasyon, nil
		}
	}

	return nil, apperr.Validation("istasyon çözümlenemedi (dosya kodu: %q)", kod)
}

// yakitBul: ham kodu/adı kanonik yakıta çevirir; çözülemezse nil döner
// (zorunlu değil, ham değer ayrıca saklanır)
func (s *Service) yakitBul(kod int, ad string) *uint {
	if kod != 0 {
		if t, ok := s.yakitlar.Resolve(strconv.Itoa(kod)); ok {
			return &t.ID
		}
	}
	if ad != "" {
		if t, ok := s.yakitlar.Resolve(ad); ok {
			return &t.ID
		}
	}
	return nil
}
