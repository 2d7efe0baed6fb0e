package importer

import (
	"strings"
	"testing"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/fueltype"
	"akaryakit-backend/internal/models"
	"akaryakit-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func kurulum(t *testing.T) (*gorm.DB, *Service, models.Istasyon) {
	t.Helper()
	db := testutil.NewDB(t)

	sirket := models.Sirket{Ad: "Test Petrol A.S."}
	require.NoError(t, db.Create(&sirket).Error)

	istasyon := models.Istasyon{
		SirketID:      sirket.ID,
		Ad:            "Merkez",
		Kod:           "IST-001",
		KendiFiloKodu: "OWN",
		Aktif:         true,
	}
	require.NoError(t, db.Create(&istasyon).Error)

	require.NoError(t, db.Create(&models.YakitTipi{Ad: "Motorin", Kod: 5, Aktif: true}).Error)

	svc := NewService(db, fueltype.NewResolver(db), "MOBILODEME")
	return db, svc, istasyon
}

func TestImportFile(t *testing.T) {
	db, svc, istasyon := kurulum(t)

	data := ziple(t, map[string]string{"rapor.xml": ornekXML})
	v, err := svc.ImportFile("vardiya-091225.zip", data, nil)
	require.NoError(t, err)

	assert.Equal(t, istasyon.ID, v.IstasyonID)
	assert.Equal(t, models.VardiyaAcik, v.Durum)
	assert.InDelta(t, 1000.0, v.PompaToplam, 1e-9)
	assert.Len(t, v.DosyaHash, 64)

	var satislar []models.OtomasyonSatis
	require.NoError(t, db.Where("vardiya_id = ?", v.ID).Find(&satislar).Error)
	require.Len(t, satislar, 1)
	require.NotNil(t, satislar[0].PersonelID)
	require.NotNil(t, satislar[0].YakitTipiID) // kod 5 -> Motorin

	var kisi models.Personel
	require.NoError(t, db.First(&kisi, *satislar[0].PersonelID).Error)
	assert.Equal(t, "ALI VELI", kisi.Ad)
	assert.Equal(t, "KEY-A", kisi.Anahtar)

	var endeksler []models.PompaEndeks
	require.NoError(t, db.Where("vardiya_id = ?", v.ID).Find(&endeksler).Error)
	assert.Len(t, endeksler, 1)

	var loglar []models.VardiyaLog
	require.NoError(t, db.Where("vardiya_id = ?", v.ID).Find(&loglar).Error)
	require.Len(t, loglar, 1)
	assert.Equal(t, "otomasyon-import", loglar[0].UserName)
}

func TestImportFileDedupe(t *testing.T) {
	db, svc, _ := kurulum(t)

	data := ziple(t, map[string]string{"rapor.xml": ornekXML})
	ilk, err := svc.ImportFile("a.zip", data, nil)
	require.NoError(t, err)

	// Aynı byte'lar, farklı dosya adı: yine de duplicate
	_, err = svc.ImportFile("b.zip", append([]byte(nil), data...), nil)
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindDuplicate, e.Kind)
	assert.Equal(t, ilk.ID, e.RefID)

	var adet int64
	require.NoError(t, db.Model(&models.Vardiya{}).Count(&adet).Error)
	assert.EqualValues(t, 1, adet)
}

func TestImportFileSilinenHashYenidenKullanilir(t *testing.T) {
	db, svc, _ := kurulum(t)

	data := ziple(t, map[string]string{"rapor.xml": ornekXML})
	ilk, err := svc.ImportFile("a.zip", data, nil)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Vardiya{}).Where("id = ?", ilk.ID).
		Update("durum", models.VardiyaSilindi).Error)

	ikinci, err := svc.ImportFile("a.zip", data, nil)
	require.NoError(t, err)
	assert.NotEqual(t, ilk.ID, ikinci.ID)
}

func TestImportFileIstasyonCozumu(t *testing.T) {
	t.Run("dosya kodu yoksa yukleyenin istasyonu", func(t *testing.T) {
		_, svc, istasyon := kurulum(t)

		kodsuz := strings.Replace(ornekXML, "<IstasyonKod>IST-001</IstasyonKod>", "", 1)
		data := ziple(t, map[string]string{"rapor.xml": kodsuz})

		v, err := svc.ImportFile("a.zip", data, &istasyon.ID)
		require.NoError(t, err)
		assert.Equal(t, istasyon.ID, v.IstasyonID)
	})

	t.Run("cozumsuz istasyon fatal", func(t *testing.T) {
		_, svc, _ := kurulum(t)

		kodsuz := strings.Replace(ornekXML, "IST-001", "YOK-999", 1)
		data := ziple(t, map[string]string{"rapor.xml": kodsuz})

		_, err := svc.ImportFile("a.zip", data, nil)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("pasif istasyon reddedilir", func(t *testing.T) {
		db, svc, istasyon := kurulum(t)
		require.NoError(t, db.Model(&models.Istasyon{}).Where("id = ?", istasyon.ID).
			Update("aktif", false).Error)

		data := ziple(t, map[string]string{"rapor.xml": ornekXML})
		_, err := svc.ImportFile("a.zip", data, nil)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestImportFileBozukBatchHicbirSeyYazmaz(t *testing.T) {
	db, svc, _ := kurulum(t)

	// İkinci satış tutarsız: litre x fiyat 1000, beyan 900
	bozuk := strings.Replace(ornekXML, "</Satislar>", `
    <Satis>
      <FisNo>F-2</FisNo>
      <PompaNo>1</PompaNo>
      <TabancaNo>2</TabancaNo>
      <Litre>25000</Litre>
      <BirimFiyat>40000</BirimFiyat>
      <Tutar>90000</Tutar>
      <Personel><Anahtar>KEY-A</Anahtar><Ad>ALI VELI</Ad></Personel>
    </Satis>
  </Satislar>`, 1)
	data := ziple(t, map[string]string{"rapor.xml": bozuk})

	_, err := svc.ImportFile("a.zip", data, nil)
	require.Error(t, err)

	var adet int64
	require.NoError(t, db.Model(&models.Vardiya{}).Count(&adet).Error)
	assert.EqualValues(t, 0, adet)
	require.NoError(t, db.Model(&models.OtomasyonSatis{}).Count(&adet).Error)
	assert.EqualValues(t, 0, adet)
}
