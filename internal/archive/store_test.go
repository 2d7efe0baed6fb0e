package archive

import (
	"testing"
	"time"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/models"
	"akaryakit-backend/internal/reconcile"
	"akaryakit-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func vardiyaKur(t *testing.T, db *gorm.DB) models.Vardiya {
	t.Helper()
	sirket := models.Sirket{Ad: "Test Petrol"}
	require.NoError(t, db.Create(&sirket).Error)
	istasyon := models.Istasyon{SirketID: sirket.ID, Ad: "Merkez", Kod: "IST-001", Aktif: true}
	require.NoError(t, db.Create(&istasyon).Error)

	v := models.Vardiya{IstasyonID: istasyon.ID, Baslangic: time.Now(), Durum: models.VardiyaOnayBekliyor}
	require.NoError(t, db.Create(&v).Error)

	require.NoError(t, db.Create(&models.OtomasyonSatis{VardiyaID: v.ID, Tutar: 1000, Litre: 25}).Error)
	require.NoError(t, db.Create(&models.FiloSatis{VardiyaID: v.ID, FiloKod: "FLEET-X", Tutar: 400}).Error)
	require.NoError(t, db.Create(&models.PompaEndeks{VardiyaID: v.ID, PompaNo: 1, BitisEndeks: 5025}).Error)
	require.NoError(t, db.Create(&models.TankEnvanter{VardiyaID: v.ID, TankNo: 1, SatilanLitre: 25}).Error)
	return v
}

func ornekSonuc(vardiyaID uint) *reconcile.Sonuc {
	return &reconcile.Sonuc{
		Karsilastirma: &reconcile.KarsilastirmaRaporu{
			VardiyaID:       vardiyaID,
			OtomasyonToplam: 1400,
			TahsilatToplam:  1380,
		},
		Fark: &reconcile.FarkRaporu{
			VardiyaID:       vardiyaID,
			OtomasyonToplam: 1400,
			TahsilatToplam:  1380,
			Fark:            -20,
			FarkDurum:       reconcile.FarkAcik,
		},
	}
}

func TestOlusturVeOku(t *testing.T) {
	db := testutil.NewDB(t)
	v := vardiyaKur(t, db)
	store := NewStore()

	require.NoError(t, store.Olustur(db, v.ID, ornekSonuc(v.ID)))

	var arsiv models.VardiyaArsiv
	require.NoError(t, db.Where("vardiya_id = ?", v.ID).First(&arsiv).Error)
	assert.NotEmpty(t, arsiv.SnapshotID)
	assert.InDelta(t, 1400.0, arsiv.OtomasyonToplam, 1e-9)

	// Onayla birlikte temizlik işi outbox'a düşer
	var is models.ArsivTemizlikIsi
	require.NoError(t, db.Where("vardiya_id = ?", v.ID).First(&is).Error)
	assert.Equal(t, models.TemizlikBekliyor, is.Durum)

	sonuc, ok := store.Oku(db, v.ID)
	require.True(t, ok)
	assert.InDelta(t, -20.0, sonuc.Fark.Fark, 1e-9)
	assert.Equal(t, reconcile.FarkAcik, sonuc.Fark.FarkDurum)
	assert.Equal(t, v.ID, sonuc.Karsilastirma.VardiyaID)
}

func TestOkuArsivYok(t *testing.T) {
	db := testutil.NewDB(t)

	_, ok := NewStore().Oku(db, 42)
	assert.False(t, ok)
}

func TestGeriTemizlikOncesi(t *testing.T) {
	db := testutil.NewDB(t)
	v := vardiyaKur(t, db)
	store := NewStore()

	require.NoError(t, store.Olustur(db, v.ID, ornekSonuc(v.ID)))
	require.NoError(t, store.Geri(db, v.ID))

	// Ham satırlar yerinde, kopyadan çoğaltılmamış
	var adet int64
	require.NoError(t, db.Model(&models.OtomasyonSatis{}).Where("vardiya_id = ?", v.ID).Count(&adet).Error)
	assert.EqualValues(t, 1, adet)

	// Arşiv ve bekleyen iş sökülmüş
	require.NoError(t, db.Model(&models.VardiyaArsiv{}).Where("vardiya_id = ?", v.ID).Count(&adet).Error)
	assert.EqualValues(t, 0, adet)
	require.NoError(t, db.Model(&models.ArsivTemizlikIsi{}).Where("vardiya_id = ?", v.ID).Count(&adet).Error)
	assert.EqualValues(t, 0, adet)
}

func TestGeriTemizlikSonrasiRestore(t *testing.T) {
	db := testutil.NewDB(t)
	v := vardiyaKur(t, db)
	store := NewStore()

	require.NoError(t, store.Olustur(db, v.ID, ornekSonuc(v.ID)))

	worker := NewPurgeWorker(db, time.Minute)
	worker.Calistir()

	var adet int64
	require.NoError(t, db.Model(&models.OtomasyonSatis{}).Where("vardiya_id = ?", v.ID).Count(&adet).Error)
	require.EqualValues(t, 0, adet)

	require.NoError(t, store.Geri(db, v.ID))

	// Satırlar arşiv kopyasından geri gelir
	var satislar []models.OtomasyonSatis
	require.NoError(t, db.Where("vardiya_id = ?", v.ID).Find(&satislar).Error)
	require.Len(t, satislar, 1)
	assert.InDelta(t, 1000.0, satislar[0].Tutar, 1e-9)

	require.NoError(t, db.Model(&models.FiloSatis{}).Where("vardiya_id = ?", v.ID).Count(&adet).Error)
	assert.EqualValues(t, 1, adet)
	require.NoError(t, db.Model(&models.PompaEndeks{}).Where("vardiya_id = ?", v.ID).Count(&adet).Error)
	assert.EqualValues(t, 1, adet)
	require.NoError(t, db.Model(&models.TankEnvanter{}).Where("vardiya_id = ?", v.ID).Count(&adet).Error)
	assert.EqualValues(t, 1, adet)
}

func TestGeriArsivYok(t *testing.T) {
	db := testutil.NewDB(t)

	err := NewStore().Geri(db, 42)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestPurgeWorker(t *testing.T) {
	db := testutil.NewDB(t)
	v := vardiyaKur(t, db)
	store := NewStore()
	require.NoError(t, store.Olustur(db, v.ID, ornekSonuc(v.ID)))

	worker := NewPurgeWorker(db, time.Minute)
	worker.Calistir()

	var is models.ArsivTemizlikIsi
	require.NoError(t, db.Where("vardiya_id = ?", v.ID).First(&is).Error)
	assert.Equal(t, models.TemizlikTamamlandi, is.Durum)

	for _, model := range []interface{}{
		&models.OtomasyonSatis{}, &models.FiloSatis{}, &models.PompaEndeks{}, &models.TankEnvanter{},
	} {
		var adet int64
		require.NoError(t, db.Model(model).Where("vardiya_id = ?", v.ID).Count(&adet).Error)
		assert.EqualValues(t, 0, adet)
	}

	// Arşiv ve vardiya kaydı yerinde kalır
	var arsivAdet int64
	require.NoError(t, db.Model(&models.VardiyaArsiv{}).Where("vardiya_id = ?", v.ID).Count(&arsivAdet).Error)
	assert.EqualValues(t, 1, arsivAdet)

	// İkinci geçiş işlenmiş işi tekrar ele almaz
	worker.Calistir()
	require.NoError(t, db.Where("vardiya_id = ?", v.ID).First(&is).Error)
	assert.Equal(t, models.TemizlikTamamlandi, is.Durum)
}
