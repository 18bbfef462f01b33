package service

import (
	"sort"
	"strings"

	"github.com/kraakman/autoservice-backend/internal/app/model"
)

type CarSort string

const (
	CarSortCreatedAt      CarSort = "created_at"
	CarSortPrijs          CarSort = "prijs"
	CarSortBouwjaar       CarSort = "bouwjaar"
	CarSortKilometerstand CarSort = "kilometerstand"
)

// CarFilterSpec describes one filtered inventory query. Range bounds are
// inclusive. An empty string means the criterion is not applied. The max
// bounds are pointers because 0 is a real cap: nil means uncapped, and a
// set max below the min matches nothing.
type CarFilterSpec struct {
	Search        string
	Merk          string
	BrandstofType string
	Transmissie   string
	MinPrijs      int
	MaxPrijs      *int
	MinBouwjaar   int
	MaxBouwjaar   *int
	SortBy        CarSort
	SortAscending bool
}

// CarFilterOptions are the choices the filter UI offers, derived from the
// unfiltered inventory so options never disappear while filtering.
type CarFilterOptions struct {
	Merken         []string `json:"merken"`
	BrandstofTypes []string `json:"brandstof_types"`
	Transmissies   []string `json:"transmissies"`
	MinPrijs       int      `json:"min_prijs"`
	MaxPrijs       int      `json:"max_prijs"`
	MinBouwjaar    int      `json:"min_bouwjaar"`
	MaxBouwjaar    int      `json:"max_bouwjaar"`
}

// DefaultFilterSpec is what a fresh page load uses: no criteria, range
// bounds wide open at the derived extremes, newest first.
func DefaultFilterSpec(opts CarFilterOptions) CarFilterSpec {
	maxPrijs := opts.MaxPrijs
	maxBouwjaar := opts.MaxBouwjaar
	return CarFilterSpec{
		MinPrijs:    opts.MinPrijs,
		MaxPrijs:    &maxPrijs,
		MinBouwjaar: opts.MinBouwjaar,
		MaxBouwjaar: &maxBouwjaar,
		SortBy:      CarSortCreatedAt,
	}
}

// ApplyCarFilter filters and sorts the inventory in memory. The input
// slice is not modified. An inverted range (min > max) matches nothing.
func ApplyCarFilter(cars []model.Car, spec CarFilterSpec) []model.Car {
	result := make([]model.Car, 0, len(cars))

	search := strings.ToLower(strings.TrimSpace(spec.Search))

	for _, car := range cars {
		if !matchesSearch(&car, search) {
			continue
		}
		if spec.Merk != "" && car.Merk != spec.Merk {
			continue
		}
		if spec.BrandstofType != "" && (car.BrandstofType == nil || *car.BrandstofType != spec.BrandstofType) {
			continue
		}
		if spec.Transmissie != "" && (car.Transmissie == nil || *car.Transmissie != spec.Transmissie) {
			continue
		}
		if car.Prijs < spec.MinPrijs || (spec.MaxPrijs != nil && car.Prijs > *spec.MaxPrijs) {
			continue
		}
		if car.Bouwjaar < spec.MinBouwjaar || (spec.MaxBouwjaar != nil && car.Bouwjaar > *spec.MaxBouwjaar) {
			continue
		}
		result = append(result, car)
	}

	sortCars(result, spec)
	return result
}

// matchesSearch checks merk, model and type for a case-insensitive
// substring match.
func matchesSearch(car *model.Car, search string) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(car.Merk), search) {
		return true
	}
	if strings.Contains(strings.ToLower(car.Model), search) {
		return true
	}
	if car.Type != nil && strings.Contains(strings.ToLower(*car.Type), search) {
		return true
	}
	return false
}

func sortCars(cars []model.Car, spec CarFilterSpec) {
	key := func(car *model.Car) int64 {
		switch spec.SortBy {
		case CarSortPrijs:
			return int64(car.Prijs)
		case CarSortBouwjaar:
			return int64(car.Bouwjaar)
		case CarSortKilometerstand:
			if car.Kilometerstand == nil {
				return 0
			}
			return int64(*car.Kilometerstand)
		default:
			if car.CreatedAt.IsZero() {
				return 0
			}
			return car.CreatedAt.Unix()
		}
	}

	sort.SliceStable(cars, func(i, j int) bool {
		a, b := key(&cars[i]), key(&cars[j])
		if spec.SortAscending {
			return a < b
		}
		return a > b
	})
}

// DeriveFilterOptions computes the filter choices from the unfiltered
// inventory: sorted distinct values, unspecified attributes skipped, and
// the price and build year extremes.
func DeriveFilterOptions(cars []model.Car) CarFilterOptions {
	opts := CarFilterOptions{
		Merken:         []string{},
		BrandstofTypes: []string{},
		Transmissies:   []string{},
	}

	merken := make(map[string]bool)
	brandstoffen := make(map[string]bool)
	transmissies := make(map[string]bool)

	for i, car := range cars {
		if car.Merk != "" {
			merken[car.Merk] = true
		}
		if car.BrandstofType != nil && *car.BrandstofType != "" {
			brandstoffen[*car.BrandstofType] = true
		}
		if car.Transmissie != nil && *car.Transmissie != "" {
			transmissies[*car.Transmissie] = true
		}

		if i == 0 {
			opts.MinPrijs, opts.MaxPrijs = car.Prijs, car.Prijs
			opts.MinBouwjaar, opts.MaxBouwjaar = car.Bouwjaar, car.Bouwjaar
			continue
		}
		if car.Prijs < opts.MinPrijs {
			opts.MinPrijs = car.Prijs
		}
		if car.Prijs > opts.MaxPrijs {
			opts.MaxPrijs = car.Prijs
		}
		if car.Bouwjaar < opts.MinBouwjaar {
			opts.MinBouwjaar = car.Bouwjaar
		}
		if car.Bouwjaar > opts.MaxBouwjaar {
			opts.MaxBouwjaar = car.Bouwjaar
		}
	}

	for merk := range merken {
		opts.Merken = append(opts.Merken, merk)
	}
	for brandstof := range brandstoffen {
		opts.BrandstofTypes = append(opts.BrandstofTypes, brandstof)
	}
	for transmissie := range transmissies {
		opts.Transmissies = append(opts.Transmissies, transmissie)
	}
	sort.Strings(opts.Merken)
	sort.Strings(opts.BrandstofTypes)
	sort.Strings(opts.Transmissies)

	return opts
}
