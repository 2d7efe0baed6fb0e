package vardiya

import (
	"fmt"
	"log"
	"time"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/archive"
	"akaryakit-backend/internal/auth"
	"akaryakit-backend/internal/ledger"
	"akaryakit-backend/internal/models"
	"akaryakit-backend/internal/notify"
	"akaryakit-backend/internal/reconcile"

	"gorm.io/gorm"
)

// Service: vardiya yaşam döngüsü state machine'i.
//
//	open -> pending_approval -> {approved | rejected}
//	rejected -> pending_approval (yeniden gönderim)
//	{open, rejected, pending_approval} -> pending_deletion -> {deleted | open}
//	approved -> pending_approval (yetkili geri alma, arşiv sökülür)
//
// deleted ve approved terminaldir (approved'un tek çıkışı yetkili geri almadır).
type Service struct {
	db       *gorm.DB
	calc     *reconcile.Calculator
	arsiv    *archive.Store
	notifier notify.Notifier
}

func NewService(db *gorm.DB, calc *reconcile.Calculator, arsiv *archive.Store, notifier notify.Notifier) *Service {
	return &Service{db: db, calc: calc, arsiv: arsiv, notifier: notifier}
}

// OnayaGonder: open/rejected vardiyayı onaya gönderir.
// Kendi istasyonunun personeli veya yetkili yapabilir; gönderim anındaki fark
// denetim için log'a yazılır.
func (s *Service) OnayaGonder(aktor auth.Aktor, vardiyaID uint) error {
	var v models.Vardiya
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		v, err = s.vardiyaGetir(tx, vardiyaID)
		if err != nil {
			return err
		}
		if err := s.istasyonKapsami(tx, aktor, &v); err != nil {
			return err
		}
		if !v.Durum.DuzenlenebilirMi() {
			return apperr.InvalidState("vardiya %s durumunda onaya gönderilemez", v.Durum)
		}

		sonuc, err := s.calc.Hesapla(tx, vardiyaID)
		if err != nil {
			return err
		}

		eski := v.Durum
		guncelleme := map[string]interface{}{
			"durum":         models.VardiyaOnayBekliyor,
			"fark":          sonuc.Fark.Fark,
			"pompa_toplam":  sonuc.Fark.OtomasyonToplam,
			"market_toplam": sonuc.Fark.MarketToplam,
			"genel_toplam":  sonuc.Fark.OtomasyonToplam + sonuc.Fark.MarketToplam,
		}
		if err := tx.Model(&v).Updates(guncelleme).Error; err != nil {
			return apperr.Persistence(err, "vardiya güncellenemedi")
		}

		return s.logYaz(tx, &v, aktor, eski, models.VardiyaOnayBekliyor,
			fmt.Sprintf("Onaya gönderildi (fark: %.2f)", sonuc.Fark.Fark))
	})
	if err != nil {
		return err
	}

	s.bildir(notify.OlayOnayaGonderildi, &v)
	return nil
}

// Onayla: tek atomik iş birimi.
// (1) durum + onaylayan damgası, (2) veresiyelerin cari hesaplara işlenmesi
// (vardiya başına idempotent), (3) donmuş arşiv + temizlik outbox kaydı.
// Herhangi biri düşerse geçişin tamamı geri alınır; ilk onaylayan kazanır.
func (s *Service) Onayla(aktor auth.Aktor, vardiyaID uint) error {
	var v models.Vardiya
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		v, err = s.vardiyaGetir(tx, vardiyaID)
		if err != nil {
			return err
		}
		if err := s.onayYetkisi(tx, aktor, &v); err != nil {
			return err
		}
		if v.Durum != models.VardiyaOnayBekliyor {
			return apperr.InvalidState("yalnızca onay bekleyen vardiya onaylanabilir (durum: %s)", v.Durum)
		}

		// Rapor onay damgasından önce hesaplanır (sistem satırları hâlâ yazılabilir)
		sonuc, err := s.calc.Hesapla(tx, vardiyaID)
		if err != nil {
			return err
		}

		simdi := time.Now()
		res := tx.Model(&models.Vardiya{}).
			Where("id = ? AND durum = ?", vardiyaID, models.VardiyaOnayBekliyor).
			Updates(map[string]interface{}{
				"durum":         models.VardiyaOnaylandi,
				"onaylayan_id":  aktor.UserID,
				"onay_zamani":   &simdi,
				"fark":          sonuc.Fark.Fark,
				"pompa_toplam":  sonuc.Fark.OtomasyonToplam,
				"market_toplam": sonuc.Fark.MarketToplam,
				"genel_toplam":  sonuc.Fark.OtomasyonToplam + sonuc.Fark.MarketToplam,
			})
		if res.Error != nil {
			return apperr.Persistence(res.Error, "vardiya onaylanamadı")
		}
		if res.RowsAffected == 0 {
			// Yarış: başka bir onaylayan önce davrandı
			return apperr.InvalidState("vardiya bu arada başka bir işlemle değişti")
		}

		if err := ledger.PostVardiyaVeresiyeleri(tx, vardiyaID); err != nil {
			return err
		}

		if err := s.arsiv.Olustur(tx, vardiyaID, sonuc); err != nil {
			return err
		}

		return s.logYaz(tx, &v, aktor, models.VardiyaOnayBekliyor, models.VardiyaOnaylandi, "Onaylandı")
	})
	if err != nil {
		return err
	}

	s.bildir(notify.OlayOnaylandi, &v)
	return nil
}

// Reddet: onay bekleyen vardiyayı nedenle birlikte rejected durumuna döndürür
// (open değil); vardiya düzenlenebilir kalır ve yeniden gönderilebilir.
func (s *Service) Reddet(aktor auth.Aktor, vardiyaID uint, neden string) error {
	var v models.Vardiya
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		v, err = s.vardiyaGetir(tx, vardiyaID)
		if err != nil {
			return err
		}
		if err := s.onayYetkisi(tx, aktor, &v); err != nil {
			return err
		}
		if v.Durum != models.VardiyaOnayBekliyor {
			return apperr.InvalidState("yalnızca onay bekleyen vardiya reddedilebilir (durum: %s)", v.Durum)
		}

		if err := tx.Model(&v).Update("durum", models.VardiyaReddedildi).Error; err != nil {
			return apperr.Persistence(err, "vardiya güncellenemedi")
		}

		return s.logYaz(tx, &v, aktor, models.VardiyaOnayBekliyor, models.VardiyaReddedildi,
			"Reddedildi: "+neden)
	})
	if err != nil {
		return err
	}

	s.bildir(notify.OlayReddedildi, &v)
	return nil
}

// SilmeTalepEt: iki fazlı silmenin ilk adımı.
// open/rejected/pending_approval'dan yapılabilir; onaylı vardiya önce geri alınmalıdır.
func (s *Service) SilmeTalepEt(aktor auth.Aktor, vardiyaID uint, neden string) error {
	var v models.Vardiya
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		v, err = s.vardiyaGetir(tx, vardiyaID)
		if err != nil {
			return err
		}
		if err := s.istasyonKapsami(tx, aktor, &v); err != nil {
			return err
		}
		switch v.Durum {
		case models.VardiyaAcik, models.VardiyaReddedildi, models.VardiyaOnayBekliyor:
			// ok
		case models.VardiyaOnaylandi:
			return apperr.InvalidState("onaylanmış vardiya için silme talep edilemez; önce onay geri alınmalı")
		default:
			return apperr.InvalidState("vardiya %s durumunda silme talep edilemez", v.Durum)
		}

		eski := v.Durum
		simdi := time.Now()
		guncelleme := map[string]interface{}{
			"durum":               models.VardiyaSilmeBekliyor,
			"silme_talep_eden_id": aktor.UserID,
			"silme_talep_nedeni":  neden,
			"silme_talep_zamani":  &simdi,
		}
		if err := tx.Model(&v).Updates(guncelleme).Error; err != nil {
			return apperr.Persistence(err, "vardiya güncellenemedi")
		}

		return s.logYaz(tx, &v, aktor, eski, models.VardiyaSilmeBekliyor, "Silme talebi: "+neden)
	})
	if err != nil {
		return err
	}

	s.bildir(notify.OlaySilmeTalebi, &v)
	return nil
}

// SilmeOnayla: yetkili silme talebini onaylar; soft delete, veri tutulur.
func (s *Service) SilmeOnayla(aktor auth.Aktor, vardiyaID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		v, err := s.vardiyaGetir(tx, vardiyaID)
		if err != nil {
			return err
		}
		if err := s.onayYetkisi(tx, aktor, &v); err != nil {
			return err
		}
		if v.Durum != models.VardiyaSilmeBekliyor {
			return apperr.InvalidState("silme onayı yalnızca silme bekleyen vardiyada (durum: %s)", v.Durum)
		}

		if err := tx.Model(&v).Update("durum", models.VardiyaSilindi).Error; err != nil {
			return apperr.Persistence(err, "vardiya güncellenemedi")
		}

		return s.logYaz(tx, &v, aktor, models.VardiyaSilmeBekliyor, models.VardiyaSilindi, "Silme onaylandı")
	})
}

// SilmeReddet: silme talebi reddedilir; vardiya open'a döner, talep metadata'sı temizlenir.
func (s *Service) SilmeReddet(aktor auth.Aktor, vardiyaID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		v, err := s.vardiyaGetir(tx, vardiyaID)
		if err != nil {
			return err
		}
		if err := s.onayYetkisi(tx, aktor, &v); err != nil {
			return err
		}
		if v.Durum != models.VardiyaSilmeBekliyor {
			return apperr.InvalidState("silme reddi yalnızca silme bekleyen vardiyada (durum: %s)", v.Durum)
		}

		guncelleme := map[string]interface{}{
			"durum":               models.VardiyaAcik,
			"silme_talep_eden_id": nil,
			"silme_talep_nedeni":  "",
			"silme_talep_zamani":  nil,
		}
		if err := tx.Model(&v).Updates(guncelleme).Error; err != nil {
			return apperr.Persistence(err, "vardiya güncellenemedi")
		}

		return s.logYaz(tx, &v, aktor, models.VardiyaSilmeBekliyor, models.VardiyaAcik, "Silme talebi reddedildi")
	})
}

// OnayGeriAl: onaylı vardiyayı pending_approval'a döndürür; arşiv bağlantısı
// temizlenir, ham veriler arşiv kopyasından best-effort geri yüklenir.
func (s *Service) OnayGeriAl(aktor auth.Aktor, vardiyaID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		v, err := s.vardiyaGetir(tx, vardiyaID)
		if err != nil {
			return err
		}
		if err := s.onayYetkisi(tx, aktor, &v); err != nil {
			return err
		}

		res := tx.Model(&models.Vardiya{}).
			Where("id = ? AND durum = ?", vardiyaID, models.VardiyaOnaylandi).
			Updates(map[string]interface{}{
				"durum":        models.VardiyaOnayBekliyor,
				"onaylayan_id": nil,
				"onay_zamani":  nil,
			})
		if res.Error != nil {
			return apperr.Persistence(res.Error, "vardiya güncellenemedi")
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("yalnızca onaylanmış vardiyanın onayı geri alınabilir (durum: %s)", v.Durum)
		}

		if err := s.arsiv.Geri(tx, vardiyaID); err != nil {
			return err
		}

		return s.logYaz(tx, &v, aktor, models.VardiyaOnaylandi, models.VardiyaOnayBekliyor, "Onay geri alındı")
	})
}

// --- yardımcılar ---

func (s *Service) vardiyaGetir(tx *gorm.DB, id uint) (models.Vardiya, error) {
	var v models.Vardiya
	if err := tx.Preload("Istasyon").First(&v, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return v, apperr.NotFound("vardiya bulunamadı: %d", id)
		}
		return v, apperr.Persistence(err, "vardiya okunamadı")
	}
	return v, nil
}

// istasyonKapsami: kendi istasyonunun personeli veya şirket/istasyon yetkilisi
func (s *Service) istasyonKapsami(tx *gorm.DB, aktor auth.Aktor, v *models.Vardiya) error {
	switch aktor.Rol {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleSirketSahibi:
		if aktor.SirketID != nil && *aktor.SirketID == v.Istasyon.SirketID {
			return nil
		}
	case models.RoleIstasyonAdmin, models.RolePersonel:
		if aktor.IstasyonID != nil && *aktor.IstasyonID == v.IstasyonID {
			return nil
		}
	}
	return apperr.Authorization("bu vardiya için yetkiniz yok")
}

// onayYetkisi: onay/red/silme-onayı/geri-alma şirket kapsamındaki yetkililere açıktır
func (s *Service) onayYetkisi(tx *gorm.DB, aktor auth.Aktor, v *models.Vardiya) error {
	if !aktor.Rol.YetkiliMi() {
		return apperr.Authorization("bu işlem yetkili rol gerektirir")
	}
	switch aktor.Rol {
	case models.RoleSuperAdmin:
		return nil
	case models.RoleSirketSahibi:
		if aktor.SirketID != nil && *aktor.SirketID == v.Istasyon.SirketID {
			return nil
		}
	case models.RoleIstasyonAdmin:
		if aktor.IstasyonID != nil && *aktor.IstasyonID == v.IstasyonID {
			return nil
		}
	}
	return apperr.Authorization("bu vardiyanın şirketi için yetkiniz yok")
}

func (s *Service) logYaz(tx *gorm.DB, v *models.Vardiya, aktor auth.Aktor, eski, yeni models.VardiyaDurum, neden string) error {
	kayit := models.VardiyaLog{
		VardiyaID: v.ID,
		UserID:    aktor.UserID,
		UserName:  aktor.Ad,
		EskiDurum: eski,
		YeniDurum: yeni,
		Neden:     neden,
	}
	if err := tx.Create(&kayit).Error; err != nil {
		return apperr.Persistence(err, "vardiya logu yazılamadı")
	}
	return nil
}

// bildir: fire-and-forget; bildirim hatası geçiş sonucunu etkilemez
func (s *Service) bildir(olay notify.Olay, v *models.Vardiya) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Bildir(olay, v); err != nil {
		log.Printf("[WARN] Bildirim gönderilemedi (vardiya #%d, %s): %v", v.ID, olay, err)
	}
}
