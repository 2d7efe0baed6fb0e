package vardiya

import (
	"testing"
	"time"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/archive"
	"akaryakit-backend/internal/auth"
	"akaryakit-backend/internal/models"
	"akaryakit-backend/internal/notify"
	"akaryakit-backend/internal/reconcile"
	"akaryakit-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// sayanNotifier: gönderilen olayları kaydeder
type sayanNotifier struct {
	olaylar []notify.Olay
}

func (n *sayanNotifier) Bildir(olay notify.Olay, v *models.Vardiya) error {
	n.olaylar = append(n.olaylar, olay)
	return nil
}

type ortam struct {
	db       *gorm.DB
	svc      *Service
	notifier *sayanNotifier

	sirket   models.Sirket
	istasyon models.Istasyon
	vardiya  models.Vardiya
	ali      models.Personel
	kart     models.CariKart

	pompaciAktor auth.Aktor
	yetkiliAktor auth.Aktor
}

func ortamKur(t *testing.T) *ortam {
	t.Helper()
	db := testutil.NewDB(t)

	o := &ortam{db: db, notifier: &sayanNotifier{}}

	o.sirket = models.Sirket{Ad: "Test Petrol"}
	require.NoError(t, db.Create(&o.sirket).Error)
	o.istasyon = models.Istasyon{SirketID: o.sirket.ID, Ad: "Merkez", Kod: "IST-001", Aktif: true}
	require.NoError(t, db.Create(&o.istasyon).Error)

	o.vardiya = models.Vardiya{
		IstasyonID: o.istasyon.ID,
		Baslangic:  time.Date(2025, 12, 9, 8, 0, 0, 0, time.Local),
		Durum:      models.VardiyaAcik,
	}
	require.NoError(t, db.Create(&o.vardiya).Error)

	o.ali = models.Personel{IstasyonID: o.istasyon.ID, Ad: "ALI VELI", Anahtar: "KEY-A", Aktif: true}
	require.NoError(t, db.Create(&o.ali).Error)

	o.kart = models.CariKart{IstasyonID: o.istasyon.ID, Unvan: "Yilmaz Nakliyat", Aktif: true}
	require.NoError(t, db.Create(&o.kart).Error)

	// 1000'lik satış, 900 nakit + 300 veresiye tahsilat
	require.NoError(t, db.Create(&models.OtomasyonSatis{
		VardiyaID: o.vardiya.ID, Litre: 25, Tutar: 1000, PersonelID: &o.ali.ID,
	}).Error)
	pusula := models.Pusula{VardiyaID: o.vardiya.ID, PersonelID: o.ali.ID, Nakit: 900, KartDetayJSON: "null"}
	require.NoError(t, db.Create(&pusula).Error)
	require.NoError(t, db.Create(&models.PusulaVeresiye{
		PusulaID: pusula.ID, CariKartID: o.kart.ID, Tutar: 300,
	}).Error)

	o.pompaciAktor = auth.Aktor{UserID: 10, Ad: "Pompacı", Rol: models.RolePersonel, IstasyonID: &o.istasyon.ID}
	o.yetkiliAktor = auth.Aktor{UserID: 20, Ad: "Patron", Rol: models.RoleSirketSahibi, SirketID: &o.sirket.ID}

	calc := reconcile.NewCalculator("MOBILODEME", 100)
	o.svc = NewService(db, calc, archive.NewStore(), o.notifier)
	return o
}

func (o *ortam) durum(t *testing.T) models.VardiyaDurum {
	t.Helper()
	var v models.Vardiya
	require.NoError(t, o.db.First(&v, o.vardiya.ID).Error)
	return v.Durum
}

func TestOnayaGonder(t *testing.T) {
	o := ortamKur(t)

	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))
	assert.Equal(t, models.VardiyaOnayBekliyor, o.durum(t))

	var v models.Vardiya
	require.NoError(t, o.db.First(&v, o.vardiya.ID).Error)
	// (900 + 300) - 1000 = 200 fazla
	assert.InDelta(t, 200.0, v.Fark, 1e-9)
	assert.InDelta(t, 1000.0, v.PompaToplam, 1e-9)

	var kayit models.VardiyaLog
	require.NoError(t, o.db.Where("vardiya_id = ? AND yeni_durum = ?",
		o.vardiya.ID, models.VardiyaOnayBekliyor).First(&kayit).Error)
	assert.Contains(t, kayit.Neden, "200.00")

	assert.Equal(t, []notify.Olay{notify.OlayOnayaGonderildi}, o.notifier.olaylar)
}

func TestOnayaGonderYanlisDurum(t *testing.T) {
	o := ortamKur(t)
	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))

	err := o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestOnayaGonderBaskaIstasyonunPersoneli(t *testing.T) {
	o := ortamKur(t)
	yabanci := uint(99)
	aktor := auth.Aktor{UserID: 11, Rol: models.RolePersonel, IstasyonID: &yabanci}

	err := o.svc.OnayaGonder(aktor, o.vardiya.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestOnayla(t *testing.T) {
	o := ortamKur(t)
	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))

	require.NoError(t, o.svc.Onayla(o.yetkiliAktor, o.vardiya.ID))
	assert.Equal(t, models.VardiyaOnaylandi, o.durum(t))

	var v models.Vardiya
	require.NoError(t, o.db.First(&v, o.vardiya.ID).Error)
	require.NotNil(t, v.OnaylayanID)
	assert.EqualValues(t, 20, *v.OnaylayanID)
	assert.NotNil(t, v.OnayZamani)

	// Veresiye cari hesaba işlendi
	var kart models.CariKart
	require.NoError(t, o.db.First(&kart, o.kart.ID).Error)
	assert.InDelta(t, 300.0, kart.Bakiye, 1e-9)

	// Arşiv ve temizlik outbox'ı yazıldı
	var arsiv models.VardiyaArsiv
	require.NoError(t, o.db.Where("vardiya_id = ?", o.vardiya.ID).First(&arsiv).Error)
	var is models.ArsivTemizlikIsi
	require.NoError(t, o.db.Where("vardiya_id = ?", o.vardiya.ID).First(&is).Error)
	assert.Equal(t, models.TemizlikBekliyor, is.Durum)

	assert.Equal(t, []notify.Olay{notify.OlayOnayaGonderildi, notify.OlayOnaylandi}, o.notifier.olaylar)
}

func TestOnaylaYetkisizRol(t *testing.T) {
	o := ortamKur(t)
	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))

	err := o.svc.Onayla(o.pompaciAktor, o.vardiya.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestOnaylaBaskaSirketinYetkilisi(t *testing.T) {
	o := ortamKur(t)
	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))

	yabanci := uint(99)
	aktor := auth.Aktor{UserID: 21, Rol: models.RoleSirketSahibi, SirketID: &yabanci}
	err := o.svc.Onayla(aktor, o.vardiya.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestOnaylaSadecePendingden(t *testing.T) {
	o := ortamKur(t)

	err := o.svc.Onayla(o.yetkiliAktor, o.vardiya.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	assert.Equal(t, models.VardiyaAcik, o.durum(t))
}

func TestOnaylaIkinciOnayReddedilir(t *testing.T) {
	o := ortamKur(t)
	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))
	require.NoError(t, o.svc.Onayla(o.yetkiliAktor, o.vardiya.ID))

	err := o.svc.Onayla(o.yetkiliAktor, o.vardiya.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))

	// Veresiye ikinci kez işlenmedi
	var kart models.CariKart
	require.NoError(t, o.db.First(&kart, o.kart.ID).Error)
	assert.InDelta(t, 300.0, kart.Bakiye, 1e-9)
}

func TestReddetVeYenidenGonder(t *testing.T) {
	o := ortamKur(t)
	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))

	require.NoError(t, o.svc.Reddet(o.yetkiliAktor, o.vardiya.ID, "Fark açıklanmalı"))
	assert.Equal(t, models.VardiyaReddedildi, o.durum(t))

	var kayit models.VardiyaLog
	require.NoError(t, o.db.Where("vardiya_id = ? AND yeni_durum = ?",
		o.vardiya.ID, models.VardiyaReddedildi).First(&kayit).Error)
	assert.Contains(t, kayit.Neden, "Fark açıklanmalı")

	// Reddedilen vardiya düzenlenebilir ve yeniden gönderilebilir
	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))
	assert.Equal(t, models.VardiyaOnayBekliyor, o.durum(t))
}

func TestSilmeAkisi(t *testing.T) {
	o := ortamKur(t)

	require.NoError(t, o.svc.SilmeTalepEt(o.pompaciAktor, o.vardiya.ID, "Çift import"))
	assert.Equal(t, models.VardiyaSilmeBekliyor, o.durum(t))

	var v models.Vardiya
	require.NoError(t, o.db.First(&v, o.vardiya.ID).Error)
	require.NotNil(t, v.SilmeTalepEdenID)
	assert.EqualValues(t, 10, *v.SilmeTalepEdenID)
	assert.Equal(t, "Çift import", v.SilmeTalepNedeni)

	require.NoError(t, o.svc.SilmeOnayla(o.yetkiliAktor, o.vardiya.ID))
	assert.Equal(t, models.VardiyaSilindi, o.durum(t))

	// Soft delete: satırlar yerinde
	var adet int64
	require.NoError(t, o.db.Model(&models.OtomasyonSatis{}).
		Where("vardiya_id = ?", o.vardiya.ID).Count(&adet).Error)
	assert.EqualValues(t, 1, adet)
}

func TestSilmeReddet(t *testing.T) {
	o := ortamKur(t)

	require.NoError(t, o.svc.SilmeTalepEt(o.pompaciAktor, o.vardiya.ID, "Çift import"))
	require.NoError(t, o.svc.SilmeReddet(o.yetkiliAktor, o.vardiya.ID))

	var v models.Vardiya
	require.NoError(t, o.db.First(&v, o.vardiya.ID).Error)
	assert.Equal(t, models.VardiyaAcik, v.Durum)
	assert.Nil(t, v.SilmeTalepEdenID)
	assert.Empty(t, v.SilmeTalepNedeni)
	assert.Nil(t, v.SilmeTalepZamani)
}

func TestSilmeTalepOnayliVardiyada(t *testing.T) {
	o := ortamKur(t)
	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))
	require.NoError(t, o.svc.Onayla(o.yetkiliAktor, o.vardiya.ID))

	err := o.svc.SilmeTalepEt(o.pompaciAktor, o.vardiya.ID, "yanlış")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	assert.Contains(t, err.Error(), "geri alınmalı")
}

func TestOnayGeriAl(t *testing.T) {
	o := ortamKur(t)
	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))
	require.NoError(t, o.svc.Onayla(o.yetkiliAktor, o.vardiya.ID))

	require.NoError(t, o.svc.OnayGeriAl(o.yetkiliAktor, o.vardiya.ID))
	assert.Equal(t, models.VardiyaOnayBekliyor, o.durum(t))

	var v models.Vardiya
	require.NoError(t, o.db.First(&v, o.vardiya.ID).Error)
	assert.Nil(t, v.OnaylayanID)
	assert.Nil(t, v.OnayZamani)

	// Arşiv sökülür, bekleyen temizlik işi iptal edilir
	var adet int64
	require.NoError(t, o.db.Model(&models.VardiyaArsiv{}).
		Where("vardiya_id = ?", o.vardiya.ID).Count(&adet).Error)
	assert.EqualValues(t, 0, adet)
	require.NoError(t, o.db.Model(&models.ArsivTemizlikIsi{}).
		Where("vardiya_id = ?", o.vardiya.ID).Count(&adet).Error)
	assert.EqualValues(t, 0, adet)
}

func TestOnayGeriAlTemizlikSonrasi(t *testing.T) {
	o := ortamKur(t)
	require.NoError(t, o.svc.OnayaGonder(o.pompaciAktor, o.vardiya.ID))
	require.NoError(t, o.svc.Onayla(o.yetkiliAktor, o.vardiya.ID))

	// Temizlik çalıştı: ham satırlar silindi
	archive.NewPurgeWorker(o.db, time.Minute).Calistir()
	var adet int64
	require.NoError(t, o.db.Model(&models.OtomasyonSatis{}).
		Where("vardiya_id = ?", o.vardiya.ID).Count(&adet).Error)
	require.EqualValues(t, 0, adet)

	require.NoError(t, o.svc.OnayGeriAl(o.yetkiliAktor, o.vardiya.ID))
	assert.Equal(t, models.VardiyaOnayBekliyor, o.durum(t))

	// Ham satırlar arşiv kopyasından geri geldi
	var satislar []models.OtomasyonSatis
	require.NoError(t, o.db.Where("vardiya_id = ?", o.vardiya.ID).Find(&satislar).Error)
	require.Len(t, satislar, 1)
	assert.InDelta(t, 1000.0, satislar[0].Tutar, 1e-9)
}

func TestOnayGeriAlOnaysizVardiyada(t *testing.T) {
	o := ortamKur(t)

	err := o.svc.OnayGeriAl(o.yetkiliAktor, o.vardiya.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}
