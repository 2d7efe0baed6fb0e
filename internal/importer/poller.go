package importer

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"akaryakit-backend/internal/apperr"

	"github.com/google/uuid"
)

// Poller: istasyon başına izleme klasörlerini sabit aralıkla tarar.
// Kök klasörün altında istasyon kodu başına bir alt klasör beklenir.
// Bir tick içinde bir istasyonun dosyaları sıralı, farklı istasyonlar
// eşzamanlı işlenir (ayrık vardiya satırlarına dokunurlar).
type Poller struct {
	svc      *Service
	kokDizin string
	aralik   time.Duration
}

func NewPoller(svc *Service, kokDizin string, aralik time.Duration) *Poller {
	return &Poller{svc: svc, kokDizin: kokDizin, aralik: aralik}
}

func (p *Poller) Run(ctx context.Context) {
	log.Printf("Dosya izleyici başladı: %s (aralık %s)", p.kokDizin, p.aralik)

	ticker := time.NewTicker(p.aralik)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Dosya izleyici durduruldu")
			return
		case <-ticker.C:
			p.tara()
		}
	}
}

func (p *Poller) tara() {
	girisler, err := os.ReadDir(p.kokDizin)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] İzleme klasörü okunamadı: %v", err)
		}
		return
	}

	var wg sync.WaitGroup
	for _, g := range girisler {
		if !g.IsDir() {
			continue
		}
		dizin := filepath.Join(p.kokDizin, g.Name())
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.istasyonuTara(dizin)
		}()
	}
	wg.Wait()
}

func (p *Poller) istasyonuTara(dizin string) {
	girisler, err := os.ReadDir(dizin)
	if err != nil {
		log.Printf("[WARN] Klasör okunamadı %s: %v", dizin, err)
		return
	}

	var dosyalar []string
	for _, g := range girisler {
		if g.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(g.Name()), ".zip") {
			dosyalar = append(dosyalar, g.Name())
		}
	}
	sort.Strings(dosyalar)

	for _, ad := range dosyalar {
		p.dosyaIsle(dizin, ad)
	}
}

func (p *Poller) dosyaIsle(dizin, ad string) {
	yol := filepath.Join(dizin, ad)

	// Dosyayı işleme adına rename ile sahiplen: hâlâ yazılmakta olan ya da
	// başka bir tick'in sahiplendiği dosya atlanır
	islemYolu := yol + ".islem-" + uuid.NewString()[:8]
	if err := os.Rename(yol, islemYolu); err != nil {
		log.Printf("[WARN] Dosya sahiplenilemedi, atlanıyor %s: %v", ad, err)
		return
	}

	data, err := os.ReadFile(islemYolu)
	if err != nil {
		log.Printf("[WARN] Dosya okunamadı %s: %v", ad, err)
		p.tasi(islemYolu, dizin, "hatali", ad)
		return
	}

	vardiya, err := p.svc.ImportFile(ad, data, nil)
	if err != nil {
		if e, ok := apperr.As(err); ok && e.Kind == apperr.KindDuplicate {
			log.Printf("Dosya zaten işlenmiş, atlanıyor %s (vardiya #%d)", ad, e.RefID)
		} else {
			log.Printf("[WARN] Dosya işlenemedi %s: %v", ad, err)
		}
		p.tasi(islemYolu, dizin, "hatali", ad)
		return
	}

	log.Printf("Dosya işlendi %s -> vardiya #%d", ad, vardiya.ID)
	p.tasi(islemYolu, dizin, "islendi", ad)
}

func (p *Poller) tasi(kaynak, dizin, altDizin, ad string) {
	hedefDizin := filepath.Join(dizin, altDizin)
	if err := os.MkdirAll(hedefDizin, 0o755); err != nil {
		log.Printf("[WARN] Klasör oluşturulamadı %s: %v", hedefDizin, err)
		return
	}
	if err := os.Rename(kaynak, filepath.Join(hedefDizin, ad)); err != nil {
		log.Printf("[WARN] Dosya taşınamadı %s: %v", ad, err)
	}
}
