package importer

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"akaryakit-backend/internal/apperr"
)

const (
	// Ondalık ölçek başlıkta bildirilmemişse varsayılan
	varsayilanOndalik = 2

	// litre x birimFiyat == tutar doğrulama toleransı (1 para birimi)
	tutarTolerans = 1.0

	// Bu eşiğin üstündeki totalizer okuması daha ince birimde raporlanmış sayılır
	// ve 100'e bölünür
	endeksMakulEsik = 1e9
)

// Dosya: ZIP'ten çözülmüş ham rapor + içerik hash'i
type Dosya struct {
	Rapor *VardiyaRaporXML
	Hash  string
}

// Batch: normalize edilmiş import batch'i
type Batch struct {
	IstasyonKod string
	Baslangic   time.Time
	Bitis       time.Time

	Satislar     []SatisKalemi // pompacı satışları
	FiloSatislar []FiloKalemi
	Endeksler    []EndeksKalemi
	Tanklar      []TankKalemi
}

type SatisKalemi struct {
	FisNo     string
	PompaNo   int
	TabancaNo int

	YakitKod int
	YakitAdi string

	Litre      float64
	BirimFiyat float64
	Tutar      float64

	Plaka string

	PersonelAnahtar string
	PersonelAd      string

	SadakatKartNo string
	PuanTutar     float64
	// Mobil ödeme ile tahsil edilen kısım; genel toplama katlanmaz
	MobilOdemeTutar float64
}

type FiloKalemi struct {
	FiloKod string
	FiloAd  string

	FisNo     string
	PompaNo   int
	TabancaNo int

	YakitKod int
	YakitAdi string

	Litre      float64
	BirimFiyat float64
	Tutar      float64

	Plaka string
	// Satışı yapan pompacının adı (varsa); eski format mobil kayıtlarının
	// eşleştirilmesinde kullanılır
	PersonelAd string
}

type EndeksKalemi struct {
	PompaNo   int
	TabancaNo int
	YakitKod  int

	BaslangicEndeks float64
	BitisEndeks     float64
}

type TankKalemi struct {
	TankNo   int
	YakitKod int

	AcilisStok  float64
	KapanisStok float64
	Dolum       float64

	BeklenenTuketim float64
	SatilanLitre    float64
	FarkLitre       float64
}

// ParseZip: ham ZIP byte'larını çözer. ZIP içinde tam olarak bir XML girdisi
// beklenir; eksiği de fazlası da fatal'dır. Hash, dedupe anahtarı olarak
// ham ZIP byte'ları üzerinden hesaplanır.
func ParseZip(data []byte) (*Dosya, error) {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperr.Validation("ZIP dosyası açılamadı: %v", err)
	}

	var xmlDosyalar []*zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			xmlDosyalar = append(xmlDosyalar, f)
		}
	}
	if len(xmlDosyalar) == 0 {
		return nil, apperr.Validation("ZIP içinde XML dosyası yok")
	}
	if len(xmlDosyalar) > 1 {
		return nil, apperr.Validation("ZIP içinde birden fazla XML dosyası var (%d adet)", len(xmlDosyalar))
	}

	rc, err := xmlDosyalar[0].Open()
	if err != nil {
		return nil, apperr.Validation("XML girdisi okunamadı: %v", err)
	}
	defer rc.Close()

	rapor, err := decodeXML(rc)
	if err != nil && err != io.EOF {
		return nil, apperr.Validation("XML çözümlenemedi: %v", err)
	}
	if rapor == nil {
		return nil, apperr.Validation("XML içeriği boş")
	}

	return &Dosya{Rapor: rapor, Hash: hash}, nil
}

// Normalize: ham raporu sınıflandırılmış, ölçeklenmiş batch'e çevirir.
//
// Sınıflandırma: filo kodu boşsa, istasyonun kendi koduysa ya da satışta sadakat
// kartlı puan kullanımı varsa pompacı satışıdır. Rezerve mobil ödeme kodu da
// depolama açısından pompacı satışı sayılır; ödenen tutar MobilOdemeTutar yan
// alanına yazılır ki mutabakat çift saymasın. Geri kalanı filo satışıdır.
//
// Herhangi bir tutarsız satış tüm batch'i düşürür; finansal veride sessiz
// atlama yapılmaz.
func Normalize(d *Dosya, kendiFiloKodu, mobilKod string) (*Batch, error) {
	p := d.Rapor.Parametreler

	litreB := olcek(p.LitreOndalik)
	fiyatB := olcek(p.FiyatOndalik)
	tutarB := olcek(p.TutarOndalik)

	baslangic, err := parseZaman(p.Baslangic)
	if err != nil {
		return nil, apperr.Validation("vardiya başlangıç zamanı çözümlenemedi: %q", p.Baslangic)
	}
	bitis, err := parseZaman(p.Bitis)
	if err != nil {
		return nil, apperr.Validation("vardiya bitiş zamanı çözümlenemedi: %q", p.Bitis)
	}

	b := &Batch{
		IstasyonKod: strings.TrimSpace(p.IstasyonKod),
		Baslangic:   baslangic,
		Bitis:       bitis,
	}

	// pompa/tabanca başına satılan litre (endeks başlangıcı türetmek için)
	satilanLitre := map[[2]int]float64{}

	for i, s := range d.Rapor.Satislar {
		litre := float64(s.Litre) / litreB
		birimFiyat := float64(s.BirimFiyat) / fiyatB
		tutar := float64(s.Tutar) / tutarB
		puan := float64(s.PuanTutar) / tutarB
		mobil := float64(s.MobilOdemeTutar) / tutarB

		filoKod := strings.TrimSpace(s.Filo.Kod)
		sadakatli := puan > 0 && strings.TrimSpace(s.SadakatKartNo) != ""
		mobilSatis := mobilKod != "" && strings.EqualFold(filoKod, mobilKod)

		pompaciSatisi := filoKod == "" ||
			strings.EqualFold(filoKod, kendiFiloKodu) ||
			sadakatli || // puanlı satış etiketi ne olursa olsun pompacı satışıdır
			mobilSatis

		satilanLitre[[2]int{s.PompaNo, s.TabancaNo}] += litre

		if !pompaciSatisi {
			b.FiloSatislar = append(b.FiloSatislar, FiloKalemi{
				FiloKod:    filoKod,
				FiloAd:     strings.TrimSpace(s.Filo.Ad),
				FisNo:      s.FisNo,
				PompaNo:    s.PompaNo,
				TabancaNo:  s.TabancaNo,
				YakitKod:   s.YakitKod,
				YakitAdi:   s.YakitAdi,
				Litre:      litre,
				BirimFiyat: birimFiyat,
				Tutar:      tutar,
				Plaka:      s.Plaka,
				PersonelAd: strings.TrimSpace(s.Personel.Ad),
			})
			continue
		}

		// Doğrulama: litre x birimFiyat, beyan edilen tutarla tutarlı olmalı
		if fark := math.Abs(litre*birimFiyat - tutar); fark > tutarTolerans {
			return nil, apperr.Validation(
				"satış %d (fiş %s): litre x birim fiyat (%.2f) beyan edilen tutarla (%.2f) uyuşmuyor",
				i+1, s.FisNo, litre*birimFiyat, tutar)
		}

		// Rezerve mobil kod: tutarın tamamı mobil kanaldan tahsil edilmiştir
		if mobilSatis && mobil == 0 {
			mobil = tutar
		}

		b.Satislar = append(b.Satislar, SatisKalemi{
			FisNo:           s.FisNo,
			PompaNo:         s.PompaNo,
			TabancaNo:       s.TabancaNo,
			YakitKod:        s.YakitKod,
			YakitAdi:        strings.TrimSpace(s.YakitAdi),
			Litre:           litre,
			BirimFiyat:      birimFiyat,
			Tutar:           tutar,
			Plaka:           s.Plaka,
			PersonelAnahtar: strings.TrimSpace(s.Personel.Anahtar),
			PersonelAd:      strings.TrimSpace(s.Personel.Ad),
			SadakatKartNo:   strings.TrimSpace(s.SadakatKartNo),
			PuanTutar:       puan,
			MobilOdemeTutar: mobil,
		})
	}

	// Endeks reconstrüksiyonu: bitiş okuması elementten, başlangıç türetilir
	for _, t := range d.Rapor.Tabancalar {
		bitisEndeks := t.Endeks
		// Makul olmayan büyüklük: daha ince birimde raporlanmış kabul edilir
		if bitisEndeks > endeksMakulEsik {
			bitisEndeks = bitisEndeks / 100
		}
		satilan := satilanLitre[[2]int{t.PompaNo, t.TabancaNo}]
		b.Endeksler = append(b.Endeksler, EndeksKalemi{
			PompaNo:         t.PompaNo,
			TabancaNo:       t.TabancaNo,
			YakitKod:        t.YakitKod,
			BaslangicEndeks: bitisEndeks - satilan,
			BitisEndeks:     bitisEndeks,
		})
	}

	for _, t := range d.Rapor.Tanklar {
		acilis := float64(t.AcilisStok) / litreB
		kapanis := float64(t.KapanisStok) / litreB
		dolum := float64(t.Dolum) / litreB
		satilan := float64(t.Satilan) / litreB

		beklenen := acilis + dolum - kapanis
		b.Tanklar = append(b.Tanklar, TankKalemi{
			TankNo:          t.TankNo,
			YakitKod:        t.YakitKod,
			AcilisStok:      acilis,
			KapanisStok:     kapanis,
			Dolum:           dolum,
			BeklenenTuketim: beklenen,
			SatilanLitre:    satilan,
			// pozitif: kayıp, negatif: kayıtsız fazla
			FarkLitre: beklenen - satilan,
		})
	}

	return b, nil
}

func olcek(n *int) float64 {
	if n == nil {
		return math.Pow10(varsayilanOndalik)
	}
	return math.Pow10(*n)
}

func parseZaman(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("boş zaman")
	}
	for _, format := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "02.01.2006 15:04:05"} {
		if t, err := time.ParseInLocation(format, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bilinmeyen zaman formatı: %q", s)
}
