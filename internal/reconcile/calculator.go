package reconcile

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"akaryakit-backend/internal/apperr"
	"akaryakit-backend/internal/models"

	"gorm.io/gorm"
)

// Fark durumu toleransı (1 para birimi)
const farkTolerans = 1.0

// Detaysız kart tahsilatlarının toplandığı kova
const bankaDetaysiz = "Detaysız"

type Calculator struct {
	mobilKod   string
	kritikEsik float64
}

func NewCalculator(mobilKod string, kritikEsik float64) *Calculator {
	return &Calculator{mobilKod: mobilKod, kritikEsik: kritikEsik}
}

// Hesapla: vardiyanın mutabakat raporlarını üretir.
// Vardiya düzenlenebilir veya onay bekliyorsa önce sistem üretimi pusula
// satırları (Mobil Ödeme, Pompa Puan) idempotent şekilde yazılır.
func (c *Calculator) Hesapla(db *gorm.DB, vardiyaID uint) (*Sonuc, error) {
	var vardiya models.Vardiya
	if err := db.First(&vardiya, vardiyaID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("vardiya bulunamadı: %d", vardiyaID)
		}
		return nil, apperr.Persistence(err, "vardiya okunamadı")
	}

	if vardiya.Durum != models.VardiyaOnaylandi && vardiya.Durum != models.VardiyaSilindi {
		if err := c.uretilenSatirlariYaz(db, &vardiya); err != nil {
			return nil, err
		}
	}

	var satislar []models.OtomasyonSatis
	if err := db.Where("vardiya_id = ?", vardiyaID).Find(&satislar).Error; err != nil {
		return nil, apperr.Persistence(err, "satışlar okunamadı")
	}

	var filolar []models.FiloSatis
	if err := db.Where("vardiya_id = ?", vardiyaID).Find(&filolar).Error; err != nil {
		return nil, apperr.Persistence(err, "filo satışları okunamadı")
	}

	var pusulalar []models.Pusula
	if err := db.Preload("Personel").Preload("DigerOdemeler").Preload("Veresiyeler").Preload("KartDetaylar").
		Where("vardiya_id = ?", vardiyaID).Find(&pusulalar).Error; err != nil {
		return nil, apperr.Persistence(err, "pusulalar okunamadı")
	}

	var giderler []models.VardiyaGider
	if err := db.Where("vardiya_id = ?", vardiyaID).Find(&giderler).Error; err != nil {
		return nil, apperr.Persistence(err, "giderler okunamadı")
	}

	var tanklar []models.TankEnvanter
	if err := db.Where("vardiya_id = ?", vardiyaID).Find(&tanklar).Error; err != nil {
		return nil, apperr.Persistence(err, "tank envanteri okunamadı")
	}

	// Personel bazında otomasyon toplamları
	tipPersonel := map[uint]*PersonelSatiri{}
	var otomasyonToplam float64
	for _, s := range satislar {
		otomasyonToplam += s.Tutar
		if s.PersonelID == nil {
			continue
		}
		satir, ok := tipPersonel[*s.PersonelID]
		if !ok {
			satir = &PersonelSatiri{PersonelID: *s.PersonelID}
			tipPersonel[*s.PersonelID] = satir
		}
		satir.SatisAdet++
		satir.Litre += s.Litre
		satir.OtomasyonToplam += s.Tutar
	}

	// Filo özeti: rezerve mobil ödeme kodu hariç; o tutarlar zaten
	// pompacı pusulasındaki sistem satırında sayılır
	tipFilo := map[string]*FiloSatiri{}
	var filoToplam float64
	for _, f := range filolar {
		if strings.EqualFold(f.FiloKod, c.mobilKod) {
			continue
		}
		otomasyonToplam += f.Tutar
		filoToplam += f.Tutar
		satir, ok := tipFilo[f.FiloKod]
		if !ok {
			satir = &FiloSatiri{FiloKod: f.FiloKod, FiloAd: f.FiloAd}
			tipFilo[f.FiloKod] = satir
		}
		satir.Adet++
		satir.Litre += f.Litre
		satir.Tutar += f.Tutar
	}

	// Pusulalar: tahsilat, kanal ve banka kırılımı
	var kanallar KanalDagilimi
	tipBanka := map[string]float64{}
	var tahsilatToplam float64
	for _, p := range pusulalar {
		satir, ok := tipPersonel[p.PersonelID]
		if !ok {
			satir = &PersonelSatiri{PersonelID: p.PersonelID}
			tipPersonel[p.PersonelID] = satir
		}
		if satir.PersonelAd == "" {
			satir.PersonelAd = p.Personel.Ad
		}

		satir.Nakit = p.Nakit
		satir.Kart = p.KartToplam
		kanallar.Nakit += p.Nakit
		kanallar.Kart += p.KartToplam

		for _, d := range p.DigerOdemeler {
			satir.DigerOdeme += d.Tutar
			switch {
			case d.SistemUretimi && d.Etiket == models.EtiketMobilOdeme:
				kanallar.MobilOdeme += d.Tutar
			case d.SistemUretimi && d.Etiket == models.EtiketPompaPuan:
				kanallar.Puan += d.Tutar
			default:
				kanallar.DigerOdeme += d.Tutar
			}
		}
		for _, v := range p.Veresiyeler {
			satir.Veresiye += v.Tutar
			kanallar.Veresiye += v.Tutar
		}

		satir.PusulaToplam = satir.Nakit + satir.Kart + satir.DigerOdeme + satir.Veresiye
		tahsilatToplam += satir.PusulaToplam

		bankaKirilimEkle(tipBanka, &p)
	}

	// Personel adlarını doldur (pusulasız personel)
	for id, satir := range tipPersonel {
		if satir.PersonelAd == "" {
			var kisi models.Personel
			if err := db.First(&kisi, id).Error; err == nil {
				satir.PersonelAd = kisi.Ad
			}
		}
		satir.Fark = satir.PusulaToplam - satir.OtomasyonToplam
	}

	var giderToplam float64
	for _, g := range giderler {
		giderToplam += g.Tutar
	}

	marketToplam := c.marketToplami(db, &vardiya)

	fark := (tahsilatToplam + filoToplam + giderToplam) - (otomasyonToplam + marketToplam)

	farkDurum := FarkDenk
	switch {
	case fark < -farkTolerans:
		farkDurum = FarkAcik
	case fark > farkTolerans:
		farkDurum = FarkFazla
	}

	karsilastirma := &KarsilastirmaRaporu{
		VardiyaID:       vardiya.ID,
		IstasyonID:      vardiya.IstasyonID,
		Personeller:     personelSirali(tipPersonel),
		Filolar:         filoSirali(tipFilo),
		Kanallar:        kanallar,
		Bankalar:        bankaSirali(tipBanka),
		Tanklar:         tankSatirlari(tanklar),
		OtomasyonToplam: otomasyonToplam,
		FiloToplam:      filoToplam,
		TahsilatToplam:  tahsilatToplam,
		GiderToplam:     giderToplam,
		MarketToplam:    marketToplam,
	}

	farkRaporu := &FarkRaporu{
		VardiyaID:       vardiya.ID,
		OtomasyonToplam: otomasyonToplam,
		MarketToplam:    marketToplam,
		TahsilatToplam:  tahsilatToplam,
		FiloToplam:      filoToplam,
		GiderToplam:     giderToplam,
		Fark:            fark,
		FarkDurum:       farkDurum,
		Kritik:          math.Abs(fark) >= c.kritikEsik,
	}

	return &Sonuc{Karsilastirma: karsilastirma, Fark: farkRaporu}, nil
}

// uretilenSatirlariYaz: mobil ödeme ve puan tahsilatlarını pompacı pusulalarına
// sistem satırı olarak yazar. Idempotenttir: mevcut satır güncellenir, kopya
// oluşturulmaz.
func (c *Calculator) uretilenSatirlariYaz(db *gorm.DB, vardiya *models.Vardiya) error {
	var satislar []models.OtomasyonSatis
	if err := db.Where("vardiya_id = ?", vardiya.ID).Find(&satislar).Error; err != nil {
		return apperr.Persistence(err, "satışlar okunamadı")
	}

	mobil := map[uint]float64{}
	puan := map[uint]float64{}
	// pompa no -> personel (eski format mobil kayıtlarının pompa eşleşmesi için)
	pompaPersonel := map[int]uint{}
	for _, s := range satislar {
		if s.PersonelID == nil {
			continue
		}
		if s.MobilOdemeTutar > 0 {
			mobil[*s.PersonelID] += s.MobilOdemeTutar
		}
		if s.PuanTutar > 0 {
			puan[*s.PersonelID] += s.PuanTutar
		}
		pompaPersonel[s.PompaNo] = *s.PersonelID
	}

	// Eski format: mobil ödeme kayıtları filo tablosunda. Önce pompacı adıyla,
	// olmazsa pompa numarasıyla eşleştirilir.
	var eskiMobil []models.FiloSatis
	if err := db.Where("vardiya_id = ? AND filo_kod = ?", vardiya.ID, c.mobilKod).Find(&eskiMobil).Error; err != nil {
		return apperr.Persistence(err, "filo satışları okunamadı")
	}
	for _, f := range eskiMobil {
		var hedef *uint
		if f.PersonelAdi != "" {
			var kisi models.Personel
			if err := db.Where("istasyon_id = ? AND ad = ?", vardiya.IstasyonID, f.PersonelAdi).
				First(&kisi).Error; err == nil {
				hedef = &kisi.ID
			}
		}
		if hedef == nil {
			if id, ok := pompaPersonel[f.PompaNo]; ok {
				hedef = &id
			}
		}
		if hedef != nil {
			mobil[*hedef] += f.Tutar
		}
	}

	for personelID, tutar := range mobil {
		if err := sistemSatiriYaz(db, vardiya.ID, personelID, models.EtiketMobilOdeme, tutar); err != nil {
			return err
		}
	}
	for personelID, tutar := range puan {
		if err := sistemSatiriYaz(db, vardiya.ID, personelID, models.EtiketPompaPuan, tutar); err != nil {
			return err
		}
	}
	return nil
}

// sistemSatiriYaz: personelin pusulasına tek bir sistem satırı yazar;
// pusula yoksa yaratır, satır varsa tutarı tazeler
func sistemSatiriYaz(db *gorm.DB, vardiyaID, personelID uint, etiket string, tutar float64) error {
	var pusula models.Pusula
	err := db.Where("vardiya_id = ? AND personel_id = ?", vardiyaID, personelID).First(&pusula).Error
	if err == gorm.ErrRecordNotFound {
		pusula = models.Pusula{VardiyaID: vardiyaID, PersonelID: personelID, KartDetayJSON: "null"}
		if err := db.Create(&pusula).Error; err != nil {
			return apperr.Persistence(err, "pusula oluşturulamadı")
		}
	} else if err != nil {
		return apperr.Persistence(err, "pusula okunamadı")
	}

	var satir models.PusulaDigerOdeme
	err = db.Where("pusula_id = ? AND etiket = ? AND sistem_uretimi = ?", pusula.ID, etiket, true).
		First(&satir).Error
	if err == gorm.ErrRecordNotFound {
		satir = models.PusulaDigerOdeme{
			PusulaID:      pusula.ID,
			Etiket:        etiket,
			Tutar:         tutar,
			SistemUretimi: true,
		}
		return db.Create(&satir).Error
	}
	if err != nil {
		return apperr.Persistence(err, "pusula satırı okunamadı")
	}
	if satir.Tutar != tutar {
		return db.Model(&satir).Update("tutar", tutar).Error
	}
	return nil
}

// marketToplami: aynı istasyon/gün için market vardiyası varsa toplamını enjekte eder
func (c *Calculator) marketToplami(db *gorm.DB, vardiya *models.Vardiya) float64 {
	gun := time.Date(vardiya.Baslangic.Year(), vardiya.Baslangic.Month(), vardiya.Baslangic.Day(),
		0, 0, 0, 0, vardiya.Baslangic.Location())

	var market models.MarketVardiya
	err := db.Where("istasyon_id = ? AND tarih >= ? AND tarih < ?",
		vardiya.IstasyonID, gun, gun.AddDate(0, 0, 1)).First(&market).Error
	if err != nil {
		return 0
	}
	return market.Toplam
}

// bankaKirilimEkle: tipli kart detay satırları, yoksa legacy JSON blob,
// o da yoksa "Detaysız" kovası
func bankaKirilimEkle(tipBanka map[string]float64, p *models.Pusula) {
	if len(p.KartDetaylar) > 0 {
		for _, d := range p.KartDetaylar {
			tipBanka[d.Banka] += d.Tutar
		}
		return
	}

	if blob := strings.TrimSpace(p.KartDetayJSON); blob != "" && blob != "null" {
		var detaylar []struct {
			Banka string  `json:"banka"`
			Tutar float64 `json:"tutar"`
		}
		if err := json.Unmarshal([]byte(blob), &detaylar); err == nil && len(detaylar) > 0 {
			for _, d := range detaylar {
				tipBanka[d.Banka] += d.Tutar
			}
			return
		}
	}

	if p.KartToplam > 0 {
		tipBanka[bankaDetaysiz] += p.KartToplam
	}
}

func personelSirali(m map[uint]*PersonelSatiri) []PersonelSatiri {
	out := make([]PersonelSatiri, 0, len(m))
	for _, s := range m {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PersonelAd < out[j].PersonelAd })
	return out
}

func filoSirali(m map[string]*FiloSatiri) []FiloSatiri {
	out := make([]FiloSatiri, 0, len(m))
	for _, s := range m {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiloKod < out[j].FiloKod })
	return out
}

func bankaSirali(m map[string]float64) []BankaSatiri {
	out := make([]BankaSatiri, 0, len(m))
	for banka, tutar := range m {
		out = append(out, BankaSatiri{Banka: banka, Tutar: tutar})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Banka < out[j].Banka })
	return out
}

func tankSatirlari(tanklar []models.TankEnvanter) []TankSatiri {
	out := make([]TankSatiri, 0, len(tanklar))
	for _, t := range tanklar {
		out = append(out, TankSatiri{
			TankNo:          t.TankNo,
			AcilisStok:      t.AcilisStok,
			KapanisStok:     t.KapanisStok,
			Dolum:           t.Dolum,
			BeklenenTuketim: t.BeklenenTuketim,
			SatilanLitre:    t.SatilanLitre,
			FarkLitre:       t.FarkLitre,
		})
	}
	return out
}
