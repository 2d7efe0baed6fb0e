package main

import (
	"context"
	"log"
	"strings"

	"akaryakit-backend/internal/admin"
	"akaryakit-backend/internal/archive"
	"akaryakit-backend/internal/auth"
	"akaryakit-backend/internal/config"
	"akaryakit-backend/internal/database"
	"akaryakit-backend/internal/fueltype"
	"akaryakit-backend/internal/gider"
	"akaryakit-backend/internal/importer"
	"akaryakit-backend/internal/models"
	"akaryakit-backend/internal/notify"
	"akaryakit-backend/internal/personel"
	"akaryakit-backend/internal/pusula"
	"akaryakit-backend/internal/reconcile"
	"akaryakit-backend/internal/vardiya"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	yakitlar := fueltype.NewResolver(database.DB)
	if err := yakitlar.Refresh(); err != nil {
		log.Println("Yakıt tipleri yüklenemedi:", err)
	}

	calc := reconcile.NewCalculator(cfg.MobilOdemeFiloKodu, cfg.KritikFarkEsigi)
	arsiv := archive.NewStore()
	vardiyaSvc := vardiya.NewService(database.DB, calc, arsiv, notify.LogNotifier{})
	importSvc := importer.NewService(database.DB, yakitlar, cfg.MobilOdemeFiloKodu)

	ctx := context.Background()

	poller := importer.NewPoller(importSvc, cfg.WatchDir, cfg.PollInterval)
	go poller.Run(ctx)

	purge := archive.NewPurgeWorker(database.DB, cfg.PollInterval)
	go purge.Run(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // otomasyon ZIP yüklemeleri için
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Şirket / istasyon yönetimi
	adminRoutes.Post("/sirketler", admin.CreateSirketHandler())
	adminRoutes.Post("/istasyonlar", admin.CreateIstasyonHandler())
	adminRoutes.Get("/istasyonlar", admin.ListIstasyonlarHandler())
	adminRoutes.Put("/istasyonlar/:id", admin.UpdateIstasyonHandler())

	// Yakıt tipi tanımları
	adminRoutes.Post("/yakit-tipleri", admin.CreateYakitTipiHandler(yakitlar))
	adminRoutes.Get("/yakit-tipleri", admin.ListYakitTipleriHandler())
	adminRoutes.Post("/yakit-tipleri/refresh", admin.RefreshYakitCacheHandler(yakitlar))

	// Otomasyon dosyası import (manuel yükleme; klasör izleyici de aynı servisi kullanır)
	protected.Post("/vardiyalar/import", importer.ImportHandler(importSvc))

	// Vardiya listesi ve detay
	protected.Get("/vardiyalar", vardiya.ListHandler())
	protected.Get("/vardiyalar/:id", vardiya.GetHandler())
	protected.Get("/vardiyalar/:id/rapor", reconcile.RaporHandler(calc, func(id uint) (*reconcile.Sonuc, bool) {
		return arsiv.Oku(database.DB, id)
	}))
	protected.Get("/vardiyalar/:id/loglar", vardiya.LogListHandler())
	protected.Get("/vardiyalar/:id/arsiv", vardiya.ArsivHandler(arsiv))

	// Onay akışı
	protected.Post("/vardiyalar/:id/onaya-gonder", vardiya.OnayaGonderHandler(vardiyaSvc))
	protected.Post("/vardiyalar/:id/onayla", vardiya.OnaylaHandler(vardiyaSvc))
	protected.Post("/vardiyalar/:id/reddet", vardiya.ReddetHandler(vardiyaSvc))
	protected.Post("/vardiyalar/:id/onay-geri-al", vardiya.OnayGeriAlHandler(vardiyaSvc))

	// İki aşamalı silme
	protected.Post("/vardiyalar/:id/silme-talebi", vardiya.SilmeTalepHandler(vardiyaSvc))
	protected.Post("/vardiyalar/:id/silme-onayla", vardiya.SilmeOnaylaHandler(vardiyaSvc))
	protected.Post("/vardiyalar/:id/silme-reddet", vardiya.SilmeReddetHandler(vardiyaSvc))

	// Pusulalar
	protected.Post("/pusulalar", pusula.CreateHandler())
	protected.Put("/pusulalar/:id", pusula.UpdateHandler())
	protected.Delete("/pusulalar/:id", pusula.DeleteHandler())
	protected.Get("/vardiyalar/:id/pusulalar", pusula.ListHandler())

	// Vardiya giderleri
	protected.Post("/vardiya-giderleri", gider.CreateHandler())
	protected.Delete("/vardiya-giderleri/:id", gider.DeleteHandler())
	protected.Get("/vardiyalar/:id/giderler", gider.ListHandler())

	// Personel
	protected.Get("/personeller", personel.ListHandler())
	protected.Put("/personeller/:id", personel.UpdateHandler())

	// Cari kartlar
	protected.Post("/cari-kartlar", admin.CreateCariKartHandler())
	protected.Get("/cari-kartlar", admin.ListCariKartlarHandler())
	protected.Get("/cari-kartlar/:id/hareketler", admin.ListCariHareketlerHandler())

	// Market vardiyaları
	protected.Post("/market-vardiyalari", admin.CreateMarketVardiyaHandler())
	protected.Get("/market-vardiyalari", admin.ListMarketVardiyalariHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
