package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Otomasyon export dosyalarının izlendiği kök klasör (istasyon kodu başına bir alt klasör)
	WatchDir string
	// Klasör tarama aralığı
	PollInterval time.Duration

	// Mobil ödeme aggregator'ları için rezerve filo kodu
	MobilOdemeFiloKodu string
	// Kritik fark eşiği (öncelikli inceleme için)
	KritikFarkEsigi float64
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:        getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=akaryakit port=5432 sslmode=disable"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		CORSOrigins:        getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		WatchDir:           getEnv("WATCH_DIR", "./otomasyon-dosyalari"),
		PollInterval:       getEnvDuration("POLL_INTERVAL", 30*time.Second),
		MobilOdemeFiloKodu: getEnv("MOBIL_ODEME_FILO_KODU", "MOBILODEME"),
		KritikFarkEsigi:    getEnvFloat("KRITIK_FARK_ESIGI", 100),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=akaryakit port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("[WARN] %s geçersiz süre formatı, varsayılan kullanılıyor: %s", key, def)
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[WARN] %s geçersiz sayı formatı, varsayılan kullanılıyor: %v", key, def)
	}
	return def
}
