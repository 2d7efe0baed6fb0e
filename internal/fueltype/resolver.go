package fueltype

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"akaryakit-backend/internal/models"

	"gorm.io/gorm"
)

// Resolver: ham vendor yakıt kodu/adını kanonik YakitTipi'ne çevirir.
// Read-through cache'tir; tablo değiştiğinde Refresh() ile tazelenir.
type Resolver struct {
	db *gorm.DB

	mu       sync.RWMutex
	kodlar   map[int]*models.YakitTipi
	tipler   []*models.YakitTipi
	yuklendi bool
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Refresh: cache'i veritabanından yeniden yükler (invalidation hook).
func (r *Resolver) Refresh() error {
	var tipler []*models.YakitTipi
	if err := r.db.Where("aktif = ?", true).Find(&tipler).Error; err != nil {
		return err
	}

	kodlar := make(map[int]*models.YakitTipi, len(tipler))
	for _, t := range tipler {
		kodlar[t.Kod] = t
	}

	r.mu.Lock()
	r.kodlar = kodlar
	r.tipler = tipler
	r.yuklendi = true
	r.mu.Unlock()
	return nil
}

// Resolve: ham değeri (sayısal kod veya serbest metin) kanonik yakıta eşler.
// Büyük/küçük harf ve boşluk duyarsızdır; önce sayısal kod, sonra anahtar kelime denenir.
func (r *Resolver) Resolve(ham string) (*models.YakitTipi, bool) {
	r.mu.RLock()
	yuklendi := r.yuklendi
	r.mu.RUnlock()
	if !yuklendi {
		if err := r.Refresh(); err != nil {
			return nil, false
		}
	}

	temiz := normalize(ham)
	if temiz == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Sayısal kod eşleşmesi
	if kod, err := strconv.Atoi(temiz); err == nil {
		if t, ok := r.kodlar[kod]; ok {
			return t, true
		}
	}

	// Anahtar kelime eşleşmesi
	for _, t := range r.tipler {
		if normalize(t.Ad) == temiz {
			return t, true
		}
		for _, kelime := range strings.Split(t.AnahtarKelimeler, ",") {
			k := normalize(kelime)
			if k != "" && strings.Contains(temiz, k) {
				return t, true
			}
		}
	}

	return nil, false
}

// ResolveKod: vendor sayısal kodunu doğrudan eşler.
func (r *Resolver) ResolveKod(kod int) (*models.YakitTipi, bool) {
	return r.Resolve(strconv.Itoa(kod))
}

// normalize: Türkçe büyük harfe çevirir, tüm boşlukları atar
func normalize(s string) string {
	s = strings.ToUpperSpecial(unicode.TurkishCase, strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
