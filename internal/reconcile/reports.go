package reconcile

// Rapor sonuç tipleri: canlı hesaplama ve arşiv serileştirme aynı struct'ları
// paylaşır; arşivdeki donmuş JSON bu şemadadır.

type FarkDurum string

const (
	FarkDenk  FarkDurum = "denk"  // |fark| <= tolerans
	FarkAcik  FarkDurum = "acik"  // kasa açığı (negatif)
	FarkFazla FarkDurum = "fazla" // kasa fazlası (pozitif)
)

// PersonelSatiri: pompacı bazında otomasyon-pusula karşılaştırması
type PersonelSatiri struct {
	PersonelID uint    `json:"personel_id"`
	PersonelAd string  `json:"personel_ad"`
	SatisAdet  int     `json:"satis_adet"`
	Litre      float64 `json:"litre"`

	OtomasyonToplam float64 `json:"otomasyon_toplam"`

	Nakit        float64 `json:"nakit"`
	Kart         float64 `json:"kart"`
	DigerOdeme   float64 `json:"diger_odeme"`
	Veresiye     float64 `json:"veresiye"`
	PusulaToplam float64 `json:"pusula_toplam"`

	Fark float64 `json:"fark"` // pusula - otomasyon
}

// FiloSatiri: filo kodu bazında özet (rezerve mobil ödeme kodu hariç)
type FiloSatiri struct {
	FiloKod string  `json:"filo_kod"`
	FiloAd  string  `json:"filo_ad"`
	Adet    int     `json:"adet"`
	Litre   float64 `json:"litre"`
	Tutar   float64 `json:"tutar"`
}

// KanalDagilimi: ödeme kanalı kırılımı
type KanalDagilimi struct {
	Nakit      float64 `json:"nakit"`
	Kart       float64 `json:"kart"`
	MobilOdeme float64 `json:"mobil_odeme"`
	Puan       float64 `json:"puan"`
	DigerOdeme float64 `json:"diger_odeme"` // sistem üretimi olmayan diğer satırlar
	Veresiye   float64 `json:"veresiye"`
}

// BankaSatiri: kredi kartı tahsilatının banka kırılımı.
// Kırılımsız kart tutarları "Detaysız" altında toplanır.
type BankaSatiri struct {
	Banka string  `json:"banka"`
	Tutar float64 `json:"tutar"`
}

type TankSatiri struct {
	TankNo          int     `json:"tank_no"`
	AcilisStok      float64 `json:"acilis_stok"`
	KapanisStok     float64 `json:"kapanis_stok"`
	Dolum           float64 `json:"dolum"`
	BeklenenTuketim float64 `json:"beklenen_tuketim"`
	SatilanLitre    float64 `json:"satilan_litre"`
	FarkLitre       float64 `json:"fark_litre"`
}

// KarsilastirmaRaporu: vardiyanın tam karşılaştırma görünümü
type KarsilastirmaRaporu struct {
	VardiyaID  uint `json:"vardiya_id"`
	IstasyonID uint `json:"istasyon_id"`

	Personeller []PersonelSatiri `json:"personeller"`
	Filolar     []FiloSatiri     `json:"filolar"`
	Kanallar    KanalDagilimi    `json:"kanallar"`
	Bankalar    []BankaSatiri    `json:"bankalar"`
	Tanklar     []TankSatiri     `json:"tanklar"`

	OtomasyonToplam float64 `json:"otomasyon_toplam"`
	FiloToplam      float64 `json:"filo_toplam"`
	TahsilatToplam  float64 `json:"tahsilat_toplam"`
	GiderToplam     float64 `json:"gider_toplam"`
	MarketToplam    float64 `json:"market_toplam"`
}

// FarkRaporu: fark özeti.
// fark = (tahsilat + filo + gider) - (otomasyon + market)
type FarkRaporu struct {
	VardiyaID uint `json:"vardiya_id"`

	OtomasyonToplam float64 `json:"otomasyon_toplam"`
	MarketToplam    float64 `json:"market_toplam"`
	TahsilatToplam  float64 `json:"tahsilat_toplam"`
	FiloToplam      float64 `json:"filo_toplam"`
	GiderToplam     float64 `json:"gider_toplam"`

	Fark      float64   `json:"fark"`
	FarkDurum FarkDurum `json:"fark_durum"`
	// |fark| kritik eşiği aştı: öncelikli inceleme
	Kritik bool `json:"kritik"`
}

// Sonuc: hesaplamanın tamamı; arşive bu yapı serileştirilir
type Sonuc struct {
	Karsilastirma *KarsilastirmaRaporu `json:"karsilastirma"`
	Fark          *FarkRaporu          `json:"fark"`
}
