package database

import (
	"log"

	"akaryakit-backend/internal/config"
	"akaryakit-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// Pusula kart kırılımı migration'ı: eski kayıtlar kart detayını JSON blob'unda tutuyordu.
	// Tipli kart_detay tablosu AutoMigrate ile gelir; eski blob'lar okuma tarafında desteklenir,
	// burada sadece NULL blob'ları geçerli JSON'a çeviriyoruz.
	if DB.Migrator().HasTable(&models.Pusula{}) {
		if DB.Migrator().HasColumn(&models.Pusula{}, "kart_detay_json") {
			DB.Exec("UPDATE pusulas SET kart_detay_json = 'null' WHERE kart_detay_json IS NULL OR kart_detay_json = ''")
		}
	}

	err = DB.AutoMigrate(
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
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
