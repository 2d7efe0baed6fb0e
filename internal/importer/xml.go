package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Vendor otomasyon export'unun XML şeması.
// Legacy tek-byte kodlama (windows-1254 / iso-8859-9) ile gelir.

type VardiyaRaporXML struct {
	XMLName      xml.Name        `xml:"VardiyaRapor"`
	Parametreler ParametrelerXML `xml:"Parametreler"`
	Satislar     []SatisXML      `xml:"Satislar>Satis"`
	Tabancalar   []TabancaXML    `xml:"Tabancalar>Tabanca"`
	Tanklar      []TankXML       `xml:"Tanklar>Tank"`
}

// ParametrelerXML: global başlık. Ondalık alanlar 10^n ölçeğini bildirir;
// eksikse varsayılan ölçek 2'dir.
type ParametrelerXML struct {
	IstasyonKod  string `xml:"IstasyonKod"`
	FiyatOndalik *int   `xml:"FiyatOndalik"`
	TutarOndalik *int   `xml:"TutarOndalik"`
	LitreOndalik *int   `xml:"LitreOndalik"`
	Baslangic    string `xml:"Baslangic"`
	Bitis        string `xml:"Bitis"`
}

type SatisXML struct {
	FisNo     string `xml:"FisNo"`
	PompaNo   int    `xml:"PompaNo"`
	TabancaNo int    `xml:"TabancaNo"`

	YakitKod int    `xml:"YakitKod"`
	YakitAdi string `xml:"YakitAdi"`

	// Başlıktaki ölçekle bölünecek ham tamsayılar
	Litre      int64 `xml:"Litre"`
	BirimFiyat int64 `xml:"BirimFiyat"`
	Tutar      int64 `xml:"Tutar"`

	Plaka string `xml:"Plaka"`

	Filo     FiloXML     `xml:"Filo"`
	Personel PersonelXML `xml:"Personel"`

	SadakatKartNo   string `xml:"SadakatKartNo"`
	PuanTutar       int64  `xml:"PuanTutar"`
	MobilOdemeTutar int64  `xml:"MobilOdemeTutar"`
}

type FiloXML struct {
	Kod string `xml:"Kod"`
	Ad  string `xml:"Ad"`
}

type PersonelXML struct {
	Anahtar string `xml:"Anahtar"`
	Ad      string `xml:"Ad"`
}

// TabancaXML: tabanca başına totalizer bitiş okuması
type TabancaXML struct {
	PompaNo   int     `xml:"PompaNo"`
	TabancaNo int     `xml:"TabancaNo"`
	YakitKod  int     `xml:"YakitKod"`
	Endeks    float64 `xml:"Endeks"`
}

type TankXML struct {
	TankNo      int   `xml:"TankNo"`
	YakitKod    int   `xml:"YakitKod"`
	AcilisStok  int64 `xml:"AcilisStok"`
	KapanisStok int64 `xml:"KapanisStok"`
	Dolum       int64 `xml:"Dolum"`
	Satilan     int64 `xml:"Satilan"`
}

// decodeXML: legacy tek-byte charset'leri destekleyen XML çözümü
func decodeXML(r io.Reader) (*VardiyaRaporXML, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "windows-1254", "cp1254":
			return charmap.Windows1254.NewDecoder().Reader(input), nil
		case "iso-8859-9", "latin5":
			return charmap.ISO8859_9.NewDecoder().Reader(input), nil
		case "utf-8", "":
			return input, nil
		default:
			return nil, fmt.Errorf("desteklenmeyen karakter seti: %s", charset)
		}
	}

	var rapor VardiyaRaporXML
	if err := dec.Decode(&rapor); err != nil {
		return nil, err
	}
	return &rapor, nil
}
