package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"akaryakit-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSayac atomic.Int64

// NewDB: her test için izole in-memory sqlite veritabanı
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	// ":memory:" her bağlantıda ayrı veritabanı açar; havuzdaki ikinci bağlantı
	// (ör. transaction sürerken yapılan sorgu) boş veritabanı görür. Test başına
	// benzersiz adlı shared-cache veritabanı tüm bağlantıları aynı DB'de toplar.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSayac.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	err = db.AutoMigrate(
		&models.Sirket{},
		&models.Istasyon{},
		&models.User{},
		&models.YakitTipi{},
		&models.Personel{},
		&models.Vardiya{},
		&models.MarketVardiya{},
		&models.OtomasyonSatis{},
		&models.FiloSatis{},
		&models.PompaEndeks{},
		&models.TankEnvanter{},
		&models.Pusula{},
		&models.PusulaKartDetay{},
		&models.PusulaDigerOdeme{},
		&models.PusulaVeresiye{},
		&models.VardiyaGider{},
		&models.CariKart{},
		&models.CariHareket{},
		&models.VardiyaArsiv{},
		&models.ArsivTemizlikIsi{},
		&models.VardiyaLog{},
	)
	if err != nil {
		t.Fatalf("test migration hatası: %v", err)
	}
	return db
}
