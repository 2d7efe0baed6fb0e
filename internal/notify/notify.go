package notify

import (
	"log"

	"akaryakit-backend/internal/models"
)

type Olay string

const (
	OlayOnayaGonderildi Olay = "onaya_gonderildi"
	OlayOnaylandi       Olay = "onaylandi"
	OlayReddedildi      Olay = "reddedildi"
	OlaySilmeTalebi     Olay = "silme_talebi"
)

// Notifier: durum geçişlerinde fire-and-forget bildirim.
// Hata, state machine sonucunu asla etkilemez; çağıran loglayıp yutar.
type Notifier interface {
	Bildir(olay Olay, vardiya *models.Vardiya) error
}

// LogNotifier: varsayılan implementasyon; push altyapısı dış kolaboratördür
type LogNotifier struct{}

func (LogNotifier) Bildir(olay Olay, vardiya *models.Vardiya) error {
	log.Printf("Bildirim: vardiya #%d (istasyon %d) -> %s", vardiya.ID, vardiya.IstasyonID, olay)
	return nil
}
