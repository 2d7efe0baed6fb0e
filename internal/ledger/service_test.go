package ledger

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

func cariKur(t *testing.T, db *gorm.DB) models.CariKart {
	t.Helper()
	sirket := models.Sirket{Ad: "Test Petrol"}
	require.NoError(t, db.Create(&sirket).Error)
	istasyon := models.Istasyon{SirketID: sirket.ID, Ad: "Merkez", Kod: "IST-001", Aktif: true}
	require.NoError(t, db.Create(&istasyon).Error)

	kart := models.CariKart{IstasyonID: istasyon.ID, Unvan: "Yilmaz Nakliyat", Aktif: true}
	require.NoError(t, db.Create(&kart).Error)
	return kart
}

func TestPost(t *testing.T) {
	db := testutil.NewDB(t)
	kart := cariKur(t, db)

	require.NoError(t, Post(db, kart.ID, 250, "veresiye satış", nil))
	require.NoError(t, Post(db, kart.ID, 100, "veresiye satış", nil))

	var guncel models.CariKart
	require.NoError(t, db.First(&guncel, kart.ID).Error)
	assert.InDelta(t, 350.0, guncel.Bakiye, 1e-9)

	var hareketler []models.CariHareket
	require.NoError(t, db.Where("cari_kart_id = ?", kart.ID).Find(&hareketler).Error)
	require.Len(t, hareketler, 2)
	assert.Equal(t, models.CariHareketBorc, hareketler[0].Tip)
}

func TestPostKartYok(t *testing.T) {
	db := testutil.NewDB(t)

	err := Post(db, 42, 250, "veresiye", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestPostVardiyaVeresiyeleri(t *testing.T) {
	db := testutil.NewDB(t)
	kart := cariKur(t, db)

	vardiya := models.Vardiya{IstasyonID: kart.IstasyonID, Baslangic: time.Now(), Durum: models.VardiyaOnayBekliyor}
	require.NoError(t, db.Create(&vardiya).Error)
	personel := models.Personel{IstasyonID: kart.IstasyonID, Ad: "ALI VELI", Aktif: true}
	require.NoError(t, db.Create(&personel).Error)

	pusula := models.Pusula{VardiyaID: vardiya.ID, PersonelID: personel.ID, KartDetayJSON: "null"}
	require.NoError(t, db.Create(&pusula).Error)
	require.NoError(t, db.Create(&models.PusulaVeresiye{
		PusulaID: pusula.ID, CariKartID: kart.ID, Tutar: 300, Plaka: "34 ABC 123",
	}).Error)
	require.NoError(t, db.Create(&models.PusulaVeresiye{
		PusulaID: pusula.ID, CariKartID: kart.ID, Tutar: 120, Aciklama: "Mazot",
	}).Error)

	require.NoError(t, PostVardiyaVeresiyeleri(db, vardiya.ID))

	var guncel models.CariKart
	require.NoError(t, db.First(&guncel, kart.ID).Error)
	assert.InDelta(t, 420.0, guncel.Bakiye, 1e-9)

	var hareketler []models.CariHareket
	require.NoError(t, db.Where("vardiya_id = ?", vardiya.ID).Find(&hareketler).Error)
	assert.Len(t, hareketler, 2)

	// Idempotency: ikinci çağrı hiçbir şey eklemez
	require.NoError(t, PostVardiyaVeresiyeleri(db, vardiya.ID))

	require.NoError(t, db.First(&guncel, kart.ID).Error)
	assert.InDelta(t, 420.0, guncel.Bakiye, 1e-9)
	var adet int64
	require.NoError(t, db.Model(&models.CariHareket{}).Count(&adet).Error)
	assert.EqualValues(t, 2, adet)
}

func TestPostVardiyaVeresiyeleriBosVardiya(t *testing.T) {
	db := testutil.NewDB(t)
	kart := cariKur(t, db)

	vardiya := models.Vardiya{IstasyonID: kart.IstasyonID, Baslangic: time.Now(), Durum: models.VardiyaOnayBekliyor}
	require.NoError(t, db.Create(&vardiya).Error)

	require.NoError(t, PostVardiyaVeresiyeleri(db, vardiya.ID))

	var adet int64
	require.NoError(t, db.Model(&models.CariHareket{}).Count(&adet).Error)
	assert.EqualValues(t, 0, adet)
}
