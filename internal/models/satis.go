package models

import "time"

// OtomasyonSatis: pompacıya atfedilen tek pompa/tabanca satışı.
// Mobil ödeme aggregator koduna kesilen satışlar da burada saklanır;
// ödenen tutar genel toplama katlanmaz, MobilOdemeTutar yan alanında taşınır.
type OtomasyonSatis struct {
	ID        uint `gorm:"primaryKey"`
	VardiyaID uint `gorm:"index;not null"`

	PompaNo     int `gorm:"not null"`
	TabancaNo   int `gorm:"not null"`
	YakitTipiID *uint
	YakitTipi   *YakitTipi
	YakitAdi    string `gorm:"size:100"` // ham vendor değeri

	Litre      float64 `gorm:"not null"`
	BirimFiyat float64 `gorm:"not null"`
	Tutar      float64 `gorm:"not null"`

	FisNo string `gorm:"size:50"`
	Plaka string `gorm:"size:20"`

	PersonelAnahtar string `gorm:"size:50"` // ham anahtar/tag
	PersonelID      *uint  `gorm:"index"`
	Personel        *Personel

	// Sadakat puanı ile ödenen kısım
	PuanTutar     float64 `gorm:"default:0"`
	SadakatKartNo string  `gorm:"size:50"`

	// Mobil ödeme ile tahsil edilen kısım (yan alan, bkz. mutabakattaki çift sayım notu)
	MobilOdemeTutar float64 `gorm:"default:0"`

	CreatedAt time.Time
}

// FiloSatis: istasyonun kendi kodu dışındaki bir filo/taşıt koduna kesilen satış
type FiloSatis struct {
	ID        uint `gorm:"primaryKey"`
	VardiyaID uint `gorm:"index;not null"`

	FiloKod string `gorm:"size:50;index;not null"`
	FiloAd  string `gorm:"size:100"`

	PompaNo     int `gorm:"not null"`
	TabancaNo   int `gorm:"not null"`
	YakitTipiID *uint
	YakitTipi   *YakitTipi
	YakitAdi    string `gorm:"size:100"`

	Litre      float64 `gorm:"not null"`
	BirimFiyat float64 `gorm:"not null"`
	Tutar      float64 `gorm:"not null"`

	FisNo string `gorm:"size:50"`
	Plaka string `gorm:"size:20"`

	// Eski format export'larda mobil ödeme kayıtları filo tablosuna düşer;
	// pompacı adı eşleştirme için taşınır
	PersonelAdi string `gorm:"size:100"`

	CreatedAt time.Time
}

// PompaEndeks: vardiya için pompa/tabanca/yakıt bazında totalizer başlangıç-bitiş okuması.
// Türetilmiş veridir, kasa mutabakatında otorite değildir.
type PompaEndeks struct {
	ID        uint `gorm:"primaryKey"`
	VardiyaID uint `gorm:"index;not null"`

	PompaNo     int `gorm:"not null"`
	TabancaNo   int `gorm:"not null"`
	YakitTipiID *uint
	YakitTipi   *YakitTipi

	BaslangicEndeks float64 `gorm:"not null"`
	BitisEndeks     float64 `gorm:"not null"`

	CreatedAt time.Time
}

// TankEnvanter: tank bazında açılış/kapanış stoğu ve fark
type TankEnvanter struct {
	ID        uint `gorm:"primaryKey"`
	VardiyaID uint `gorm:"index;not null"`

	TankNo      int `gorm:"not null"`
	YakitTipiID *uint
	YakitTipi   *YakitTipi

	AcilisStok  float64 `gorm:"not null"`
	KapanisStok float64 `gorm:"not null"`
	Dolum       float64 `gorm:"default:0"` // vardiya içinde yapılan ikmal

	// beklenenTuketim = acilis + dolum - kapanis
	BeklenenTuketim float64 `gorm:"default:0"`
	SatilanLitre    float64 `gorm:"default:0"`
	// fark = beklenenTuketim - satilan; pozitif: kayıp, negatif: kayıtsız fazla (ör. girilmemiş dolum)
	FarkLitre float64 `gorm:"default:0"`

	CreatedAt time.Time
}
