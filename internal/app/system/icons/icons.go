// Package icons defines the closed set of icon identifiers the portal front
// ends know how to draw. Stored icon names are parsed at the boundary so an
// unknown name is a validation error instead of a silent fallback icon.
package icons

import (
	"fmt"
	"sort"
	"strings"
)

// Icon is a validated icon identifier.
type Icon string

// Set groups icons by where they may be used.
type Set int

const (
	// SectorIcons decorate sector heroes and navigation.
	SectorIcons Set = iota
	// StatisticIcons decorate headline figures on sector pages.
	StatisticIcons
)

const (
	Wheat         Icon = "wheat"
	GraduationCap Icon = "graduation-cap"
	HeartPulse    Icon = "heart-pulse"
	Building      Icon = "building"
	Factory       Icon = "factory"
	Fish          Icon = "fish"
	Leaf          Icon = "leaf"
	Droplets      Icon = "droplets"
	Zap           Icon = "zap"
	Palette       Icon = "palette"
	Trophy        Icon = "trophy"
	Plane         Icon = "plane"
	ShoppingBag   Icon = "shopping-bag"
	Truck         Icon = "truck"

	Users      Icon = "users"
	TrendingUp Icon = "trending-up"
	MapPin     Icon = "map-pin"
	Banknote   Icon = "banknote"
	Briefcase  Icon = "briefcase"
	Tractor    Icon = "tractor"
	School     Icon = "school"
	Hospital   Icon = "hospital"
	BarChart   Icon = "bar-chart"
	Calendar   Icon = "calendar"
)

var sets = map[Set]map[Icon]string{
	SectorIcons: {
		Wheat:         "Agricultura",
		GraduationCap: "Educação",
		HeartPulse:    "Saúde",
		Building:      "Urbanismo",
		Factory:       "Indústria",
		Fish:          "Pescas",
		Leaf:          "Ambiente",
		Droplets:      "Água e Saneamento",
		Zap:           "Energia",
		Palette:       "Cultura",
		Trophy:        "Desporto",
		Plane:         "Turismo",
		ShoppingBag:   "Comércio",
		Truck:         "Transportes",
	},
	StatisticIcons: {
		Users:      "Pessoas",
		TrendingUp: "Crescimento",
		MapPin:     "Localização",
		Banknote:   "Investimento",
		Briefcase:  "Emprego",
		Tractor:    "Produção",
		School:     "Escolas",
		Hospital:   "Unidades de saúde",
		BarChart:   "Indicador",
		Calendar:   "Ano",
		Wheat:      "Colheita",
		Fish:       "Pescado",
		Droplets:   "Água",
		Zap:        "Energia",
	},
}

// Parse validates name against the given set.
func Parse(set Set, name string) (Icon, error) {
	icon := Icon(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := sets[set][icon]; !ok {
		return "", fmt.Errorf("unknown icon %q", name)
	}
	return icon, nil
}

// Valid reports whether name belongs to the set.
func Valid(set Set, name string) bool {
	_, err := Parse(set, name)
	return err == nil
}

// Label returns the human label of an icon in a set.
func Label(set Set, icon Icon) string {
	return sets[set][icon]
}

// All returns the icons of a set sorted by identifier.
func All(set Set) []Icon {
	out := make([]Icon, 0, len(sets[set]))
	for icon := range sets[set] {
		out = append(out, icon)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
