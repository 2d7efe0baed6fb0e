package archive

import (
	"context"
	"log"
	"time"

	"akaryakit-backend/internal/models"

	"gorm.io/gorm"
)

// Temizlik işi deneme limiti; aşılınca iş failed işaretlenir ve bırakılır
const maxDeneme = 5

// PurgeWorker: onay transaction'ının outbox'a yazdığı temizlik işlerini
// best-effort yürütür. Ham satırların silinmesi onayın geçerliliğini
// etkilemez; başarısızlık loglanır, sonsuza dek retry edilmez.
type PurgeWorker struct {
	db     *gorm.DB
	aralik time.Duration
}

func NewPurgeWorker(db *gorm.DB, aralik time.Duration) *PurgeWorker {
	return &PurgeWorker{db: db, aralik: aralik}
}

func (w *PurgeWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.aralik)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Calistir()
		}
	}
}

// Calistir: bekleyen işleri tek geçişte işler
func (w *PurgeWorker) Calistir() {
	var isler []models.ArsivTemizlikIsi
	if err := w.db.Where("durum = ?", models.TemizlikBekliyor).
		Order("id").Limit(50).Find(&isler).Error; err != nil {
		log.Printf("[WARN] Temizlik işleri okunamadı: %v", err)
		return
	}

	for _, is := range isler {
		if err := w.temizle(is.VardiyaID); err != nil {
			is.Deneme++
			is.SonHata = err.Error()
			if is.Deneme >= maxDeneme {
				is.Durum = models.TemizlikBasarisiz
				log.Printf("[WARN] Vardiya #%d ham veri temizliği %d denemede başarısız, bırakılıyor: %v",
					is.VardiyaID, is.Deneme, err)
			} else {
				log.Printf("[WARN] Vardiya #%d ham veri temizliği başarısız (deneme %d): %v",
					is.VardiyaID, is.Deneme, err)
			}
			w.db.Save(&is)
			continue
		}

		is.Durum = models.TemizlikTamamlandi
		is.SonHata = ""
		w.db.Save(&is)
		log.Printf("Vardiya #%d ham verileri temizlendi (arşiv otorite)", is.VardiyaID)
	}
}

func (w *PurgeWorker) temizle(vardiyaID uint) error {
	return w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vardiya_id = ?", vardiyaID).Delete(&models.OtomasyonSatis{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vardiya_id = ?", vardiyaID).Delete(&models.FiloSatis{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vardiya_id = ?", vardiyaID).Delete(&models.PompaEndeks{}).Error; err != nil {
			return err
		}
		return tx.Where("vardiya_id = ?", vardiyaID).Delete(&models.TankEnvanter{}).Error
	})
}
