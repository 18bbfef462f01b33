package model

import (
	"fmt"
	"time"
)

type CarStatus string

const (
	StatusAanbod   CarStatus = "aanbod"   // te koop
	StatusVerkocht CarStatus = "verkocht" // verkocht, blijft zichtbaar op de verkocht-pagina
)

// Car is one vehicle in the dealership inventory. Field names follow the
// Dutch wire format the website consumes (merk = make, bouwjaar = build
// year, prijs = price in whole euros, kilometerstand = odometer in km).
// Optional attributes are pointers so "not specified" survives round-trips.
type Car struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Merk           string    `gorm:"not null;index" json:"merk"`
	Model          string    `gorm:"not null" json:"model"`
	Type           *string   `json:"type,omitempty"`
	VoertuigType   *string   `json:"voertuig_type,omitempty"`
	Kleur          *string   `json:"kleur,omitempty"`
	Bouwjaar       int       `gorm:"not null" json:"bouwjaar"`
	Kilometerstand *int      `json:"kilometerstand,omitempty"`
	Prijs          int       `gorm:"not null" json:"prijs"`
	Omschrijving   string    `gorm:"type:text" json:"omschrijving"`
	Techniek       *string   `gorm:"type:text" json:"techniek,omitempty"`
	Opties         []string  `gorm:"serializer:json" json:"opties"`
	Transmissie    *string   `json:"transmissie,omitempty"`
	BrandstofType  *string   `json:"brandstof_type,omitempty"`

	MotorCC          *int     `json:"motor_cc,omitempty"`
	MotorCilinders   *int     `json:"motor_cilinders,omitempty"`
	VermogenPK       *int     `json:"vermogen_pk,omitempty"`
	GewichtKG        *int     `json:"gewicht_kg,omitempty"`
	TopsnelheidKMH   *int     `json:"topsnelheid_kmh,omitempty"`
	Acceleratie0_100 *float64 `json:"acceleratie_0_100,omitempty"`
	Zitplaatsen      *int     `json:"zitplaatsen,omitempty"`
	Deuren           *int     `json:"deuren,omitempty"`

	Status                CarStatus `gorm:"type:varchar(20);default:'aanbod';index" json:"status"`
	BinnenkortBeschikbaar bool      `json:"binnenkort_beschikbaar"`
	Gereserveerd          bool      `json:"gereserveerd"`
	BTWAuto               bool      `json:"btw_auto"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Images []CarImage `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"car_images"`
}

func (Car) TableName() string {
	return "cars"
}

// SpecItem is one labeled row on the vehicle detail page.
type SpecItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SpecList renders the optional technical attributes that are actually
// present, in display order. This is the single format-or-omit point:
// nil fields simply produce no row, so callers never null-check.
func (c *Car) SpecList() []SpecItem {
	var specs []SpecItem

	add := func(label, value string) {
		specs = append(specs, SpecItem{Label: label, Value: value})
	}

	if c.Kilometerstand != nil {
		add("Kilometerstand", fmt.Sprintf("%d km", *c.Kilometerstand))
	}
	if c.Transmissie != nil {
		add("Transmissie", *c.Transmissie)
	}
	if c.BrandstofType != nil {
		add("Brandstof", *c.BrandstofType)
	}
	if c.Kleur != nil {
		add("Kleur", *c.Kleur)
	}
	if c.MotorCC != nil {
		add("Cilinderinhoud", fmt.Sprintf("%d cc", *c.MotorCC))
	}
	if c.MotorCilinders != nil {
		add("Cilinders", fmt.Sprintf("%d", *c.MotorCilinders))
	}
	if c.VermogenPK != nil {
		add("Vermogen", fmt.Sprintf("%d pk", *c.VermogenPK))
	}
	if c.GewichtKG != nil {
		add("Gewicht", fmt.Sprintf("%d kg", *c.GewichtKG))
	}
	if c.TopsnelheidKMH != nil {
		add("Topsnelheid", fmt.Sprintf("%d km/u", *c.TopsnelheidKMH))
	}
	if c.Acceleratie0_100 != nil {
		add("0-100 km/u", fmt.Sprintf("%.1f s", *c.Acceleratie0_100))
	}
	if c.Zitplaatsen != nil {
		add("Zitplaatsen", fmt.Sprintf("%d", *c.Zitplaatsen))
	}
	if c.Deuren != nil {
		add("Deuren", fmt.Sprintf("%d", *c.Deuren))
	}

	return specs
}
