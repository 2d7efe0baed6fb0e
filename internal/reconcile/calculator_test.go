package reconcile

import (
	"testing"
	"time"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/models"
	"akaryakit-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sahne struct {
	db       *gorm.DB
	istasyon models.Istasyon
	vardiya  models.Vardiya
	ali      models.Personel
}

func sahneKur(t *testing.T) *sahne {
	t.Helper()
	db := testutil.NewDB(t)

	sirket := models.Sirket{Ad: "Test Petrol"}
	require.NoError(t, db.Create(&sirket).Error)
	istasyon := models.Istasyon{SirketID: sirket.ID, Ad: "Merkez", Kod: "IST-001", Aktif: true}
	require.NoError(t, db.Create(&istasyon).Error)

	vardiya := models.Vardiya{
		IstasyonID: istasyon.ID,
		Baslangic:  time.Date(2025, 12, 9, 8, 0, 0, 0, time.Local),
		Bitis:      time.Date(2025, 12, 9, 16, 0, 0, 0, time.Local),
		Durum:      models.VardiyaAcik,
	}
	require.NoError(t, db.Create(&vardiya).Error)

	ali := models.Personel{IstasyonID: istasyon.ID, Ad: "ALI VELI", Anahtar: "KEY-A", Aktif: true}
	require.NoError(t, db.Create(&ali).Error)

	return &sahne{db: db, istasyon: istasyon, vardiya: vardiya, ali: ali}
}

func (s *sahne) satis(t *testing.T, tutar, litre float64) {
	t.Helper()
	require.NoError(t, s.db.Create(&models.OtomasyonSatis{
		VardiyaID:  s.vardiya.ID,
		PompaNo:    1,
		TabancaNo:  1,
		Litre:      litre,
		Tutar:      tutar,
		PersonelID: &s.ali.ID,
	}).Error)
}

func (s *sahne) pusula(t *testing.T, nakit, kart float64) models.Pusula {
	t.Helper()
	p := models.Pusula{
		VardiyaID:     s.vardiya.ID,
		PersonelID:    s.ali.ID,
		Nakit:         nakit,
		KartToplam:    kart,
		KartDetayJSON: "null",
	}
	require.NoError(t, s.db.Create(&p).Error)
	return p
}

func TestHesaplaVardiyaYok(t *testing.T) {
	db := testutil.NewDB(t)
	calc := NewCalculator("MOBILODEME", 100)

	_, err := calc.Hesapla(db, 42)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestHesaplaFarkFormulu(t *testing.T) {
	s := sahneKur(t)
	calc := NewCalculator("MOBILODEME", 100)

	s.satis(t, 1000, 25)
	s.pusula(t, 600, 350) // tahsilat 950: 50 açık

	require.NoError(t, s.db.Create(&models.FiloSatis{
		VardiyaID: s.vardiya.ID, FiloKod: "FLEET-X", FiloAd: "Nakliyat", Litre: 10, Tutar: 400,
	}).Error)
	require.NoError(t, s.db.Create(&models.VardiyaGider{
		VardiyaID: s.vardiya.ID, Aciklama: "Çay ocağı", Tutar: 30,
	}).Error)
	require.NoError(t, s.db.Create(&models.MarketVardiya{
		IstasyonID: s.istasyon.ID,
		Tarih:      time.Date(2025, 12, 9, 0, 0, 0, 0, time.Local),
		Toplam:     200,
	}).Error)

	sonuc, err := calc.Hesapla(s.db, s.vardiya.ID)
	require.NoError(t, err)

	f := sonuc.Fark
	assert.InDelta(t, 1400.0, f.OtomasyonToplam, 1e-9) // 1000 pompacı + 400 filo
	assert.InDelta(t, 400.0, f.FiloToplam, 1e-9)
	assert.InDelta(t, 950.0, f.TahsilatToplam, 1e-9)
	assert.InDelta(t, 30.0, f.GiderToplam, 1e-9)
	assert.InDelta(t, 200.0, f.MarketToplam, 1e-9)
	// (950 + 400 + 30) - (1400 + 200) = -220
	assert.InDelta(t, -220.0, f.Fark, 1e-9)
	assert.Equal(t, FarkAcik, f.FarkDurum)
	assert.True(t, f.Kritik) // |fark| >= 100
}

func TestHesaplaFarkDurumlari(t *testing.T) {
	tests := []struct {
		ad       string
		nakit    float64
		beklenen FarkDurum
		kritik   bool
	}{
		{"tolerans icinde denk", 999.5, FarkDenk, false},
		{"acik", 950, FarkAcik, false},
		{"fazla", 1050, FarkFazla, false},
		{"kritik acik", 850, FarkAcik, true},
	}

	for _, tt := range tests {
		t.Run(tt.ad, func(t *testing.T) {
			s := sahneKur(t)
			calc := NewCalculator("MOBILODEME", 100)

			s.satis(t, 1000, 25)
			s.pusula(t, tt.nakit, 0)

			sonuc, err := calc.Hesapla(s.db, s.vardiya.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.beklenen, sonuc.Fark.FarkDurum)
			assert.Equal(t, tt.kritik, sonuc.Fark.Kritik)
		})
	}
}

func TestHesaplaMobilOdemeTekSayim(t *testing.T) {
	s := sahneKur(t)
	calc := NewCalculator("MOBILODEME", 100)

	// 100'lük satışın 40'ı mobil kanaldan tahsil edilmiş
	require.NoError(t, s.db.Create(&models.OtomasyonSatis{
		VardiyaID:       s.vardiya.ID,
		Litre:           2.5,
		Tutar:           100,
		PersonelID:      &s.ali.ID,
		MobilOdemeTutar: 40,
	}).Error)
	s.pusula(t, 60, 0)

	sonuc, err := calc.Hesapla(s.db, s.vardiya.ID)
	require.NoError(t, err)

	// Otomasyon toplamına satış bir kez girer
	assert.InDelta(t, 100.0, sonuc.Fark.OtomasyonToplam, 1e-9)
	// Sistem satırı tahsilata 40 ekler: 60 nakit + 40 mobil = 100, fark 0
	assert.InDelta(t, 100.0, sonuc.Fark.TahsilatToplam, 1e-9)
	assert.InDelta(t, 0.0, sonuc.Fark.Fark, 1e-9)
	assert.InDelta(t, 40.0, sonuc.Karsilastirma.Kanallar.MobilOdeme, 1e-9)

	var satirlar []models.PusulaDigerOdeme
	require.NoError(t, s.db.Where("sistem_uretimi = ?", true).Find(&satirlar).Error)
	require.Len(t, satirlar, 1)
	assert.Equal(t, models.EtiketMobilOdeme, satirlar[0].Etiket)
	assert.InDelta(t, 40.0, satirlar[0].Tutar, 1e-9)
}

func TestHesaplaSistemSatiriIdempotent(t *testing.T) {
	s := sahneKur(t)
	calc := NewCalculator("MOBILODEME", 100)

	require.NoError(t, s.db.Create(&models.OtomasyonSatis{
		VardiyaID: s.vardiya.ID, Tutar: 100, PersonelID: &s.ali.ID,
		MobilOdemeTutar: 40, PuanTutar: 5,
	}).Error)

	for i := 0; i < 3; i++ {
		_, err := calc.Hesapla(s.db, s.vardiya.ID)
		require.NoError(t, err)
	}

	var adet int64
	require.NoError(t, s.db.Model(&models.PusulaDigerOdeme{}).
		Where("sistem_uretimi = ?", true).Count(&adet).Error)
	assert.EqualValues(t, 2, adet) // bir mobil + bir puan satırı

	// Kaynak veri değişirse satır tazelenir, kopyalanmaz
	require.NoError(t, s.db.Model(&models.OtomasyonSatis{}).
		Where("vardiya_id = ?", s.vardiya.ID).Update("mobil_odeme_tutar", 55).Error)
	_, err := calc.Hesapla(s.db, s.vardiya.ID)
	require.NoError(t, err)

	var satir models.PusulaDigerOdeme
	require.NoError(t, s.db.Where("etiket = ? AND sistem_uretimi = ?", models.EtiketMobilOdeme, true).
		First(&satir).Error)
	assert.InDelta(t, 55.0, satir.Tutar, 1e-9)
}

func TestHesaplaEskiFormatMobilKayitlar(t *testing.T) {
	s := sahneKur(t)
	calc := NewCalculator("MOBILODEME", 100)

	require.NoError(t, s.db.Create(&models.OtomasyonSatis{
		VardiyaID: s.vardiya.ID, PompaNo: 3, Tutar: 500, PersonelID: &s.ali.ID,
	}).Error)
	// Eski format: mobil ödeme filo tablosunda, pompacı adıyla
	require.NoError(t, s.db.Create(&models.FiloSatis{
		VardiyaID: s.vardiya.ID, FiloKod: "MOBILODEME", PompaNo: 3, Tutar: 120, PersonelAdi: "ALI VELI",
	}).Error)

	sonuc, err := calc.Hesapla(s.db, s.vardiya.ID)
	require.NoError(t, err)

	// Mobil kod filo özetine ve filo toplamına katılmaz
	assert.Empty(t, sonuc.Karsilastirma.Filolar)
	assert.InDelta(t, 0.0, sonuc.Fark.FiloToplam, 1e-9)
	assert.InDelta(t, 500.0, sonuc.Fark.OtomasyonToplam, 1e-9)
	assert.InDelta(t, 120.0, sonuc.Karsilastirma.Kanallar.MobilOdeme, 1e-9)
}

func TestHesaplaBankaKirilimi(t *testing.T) {
	s := sahneKur(t)
	calc := NewCalculator("MOBILODEME", 100)
	s.satis(t, 1000, 25)

	// Tipli kırılım
	p1 := s.pusula(t, 0, 700)
	require.NoError(t, s.db.Create(&models.PusulaKartDetay{PusulaID: p1.ID, Banka: "Ziraat", Tutar: 400}).Error)
	require.NoError(t, s.db.Create(&models.PusulaKartDetay{PusulaID: p1.ID, Banka: "İş Bankası", Tutar: 300}).Error)

	// İkinci pompacı: legacy JSON blob
	veli := models.Personel{IstasyonID: s.istasyon.ID, Ad: "VELI CAN", Aktif: true}
	require.NoError(t, s.db.Create(&veli).Error)
	require.NoError(t, s.db.Create(&models.Pusula{
		VardiyaID:     s.vardiya.ID,
		PersonelID:    veli.ID,
		KartToplam:    150,
		KartDetayJSON: `[{"banka":"Ziraat","tutar":150}]`,
	}).Error)

	// Üçüncü pompacı: kırılımsız kart
	ayse := models.Personel{IstasyonID: s.istasyon.ID, Ad: "AYSE YILMAZ", Aktif: true}
	require.NoError(t, s.db.Create(&ayse).Error)
	require.NoError(t, s.db.Create(&models.Pusula{
		VardiyaID:     s.vardiya.ID,
		PersonelID:    ayse.ID,
		KartToplam:    90,
		KartDetayJSON: "null",
	}).Error)

	sonuc, err := calc.Hesapla(s.db, s.vardiya.ID)
	require.NoError(t, err)

	bankalar := map[string]float64{}
	for _, b := range sonuc.Karsilastirma.Bankalar {
		bankalar[b.Banka] = b.Tutar
	}
	assert.InDelta(t, 550.0, bankalar["Ziraat"], 1e-9) // 400 tipli + 150 legacy
	assert.InDelta(t, 300.0, bankalar["İş Bankası"], 1e-9)
	assert.InDelta(t, 90.0, bankalar["Detaysız"], 1e-9)
}

func TestHesaplaPersonelSatirlari(t *testing.T) {
	s := sahneKur(t)
	calc := NewCalculator("MOBILODEME", 100)

	s.satis(t, 600, 15)
	s.satis(t, 400, 10)
	p := s.pusula(t, 500, 450)

	kart := models.CariKart{IstasyonID: s.istasyon.ID, Unvan: "Yilmaz Nakliyat", Aktif: true}
	require.NoError(t, s.db.Create(&kart).Error)
	require.NoError(t, s.db.Create(&models.PusulaVeresiye{
		PusulaID: p.ID, CariKartID: kart.ID, Tutar: 80,
	}).Error)

	sonuc, err := calc.Hesapla(s.db, s.vardiya.ID)
	require.NoError(t, err)

	require.Len(t, sonuc.Karsilastirma.Personeller, 1)
	satir := sonuc.Karsilastirma.Personeller[0]
	assert.Equal(t, "ALI VELI", satir.PersonelAd)
	assert.Equal(t, 2, satir.SatisAdet)
	assert.InDelta(t, 25.0, satir.Litre, 1e-9)
	assert.InDelta(t, 1000.0, satir.OtomasyonToplam, 1e-9)
	assert.InDelta(t, 1030.0, satir.PusulaToplam, 1e-9) // 500 + 450 + 80
	assert.InDelta(t, 30.0, satir.Fark, 1e-9)
	assert.InDelta(t, 80.0, sonuc.Karsilastirma.Kanallar.Veresiye, 1e-9)
}

func TestHesaplaOnayliVardiyadaSatirUretmez(t *testing.T) {
	s := sahneKur(t)
	calc := NewCalculator("MOBILODEME", 100)

	require.NoError(t, s.db.Create(&models.OtomasyonSatis{
		VardiyaID: s.vardiya.ID, Tutar: 100, PersonelID: &s.ali.ID, MobilOdemeTutar: 40,
	}).Error)
	require.NoError(t, s.db.Model(&models.Vardiya{}).Where("id = ?", s.vardiya.ID).
		Update("durum", models.VardiyaOnaylandi).Error)

	_, err := calc.Hesapla(s.db, s.vardiya.ID)
	require.NoError(t, err)

	var adet int64
	require.NoError(t, s.db.Model(&models.PusulaDigerOdeme{}).Count(&adet).Error)
	assert.EqualValues(t, 0, adet)
}
