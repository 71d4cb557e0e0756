// Package demographics computes the derived fields of a population history
// record. The values are computed once, when the record is submitted, and
// stored with it; editing an earlier year does not recompute later years.
package demographics

import (
	"math"

	"github.com/dalemusser/municipio/internal/domain/models"
)

// DefaultAreaKm2 is the municipal area used for density.
const DefaultAreaKm2 = 9532.0

// Density returns inhabitants per km², rounded to two decimals. A
// non-positive area falls back to DefaultAreaKm2.
func Density(population int64, areaKm2 float64) float64 {
	if areaKm2 <= 0 {
		areaKm2 = DefaultAreaKm2
	}
	return Round2(float64(population) / areaKm2)
}

// GrowthRate returns the percentage change from year-1 to year, rounded to
// two decimals. It is 0 when there is no record for year-1 or when that
// record's population is 0.
func GrowthRate(year int, population int64, records []models.PopulationRecord) float64 {
	prev, ok := find(records, year-1)
	if !ok || prev.Population == 0 {
		return 0
	}
	return Round2(float64(population-prev.Population) / float64(prev.Population) * 100)
}

// Derive fills GrowthRate and Density on rec using the other known records.
// A record with the same id as rec is ignored so an edit does not compare
// the year with its own stale value.
func Derive(rec models.PopulationRecord, others []models.PopulationRecord, areaKm2 float64) models.PopulationRecord {
	filtered := make([]models.PopulationRecord, 0, len(others))
	for _, o := range others {
		if !rec.ID.IsZero() && o.ID == rec.ID {
			continue
		}
		filtered = append(filtered, o)
	}
	rec.GrowthRate = GrowthRate(rec.Year, rec.Population, filtered)
	rec.Density = Density(rec.Population, areaKm2)
	return rec
}

// Latest returns the record with the highest year.
func Latest(records []models.PopulationRecord) (models.PopulationRecord, bool) {
	var best models.PopulationRecord
	found := false
	for _, r := range records {
		if !found || r.Year > best.Year {
			best, found = r, true
		}
	}
	return best, found
}

// Summary converts a record into the settings snapshot shown on the site.
func Summary(rec models.PopulationRecord) models.Demographics {
	return models.Demographics{
		Year:       rec.Year,
		Population: rec.Population,
		GrowthRate: rec.GrowthRate,
		Density:    rec.Density,
	}
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func find(records []models.PopulationRecord, year int) (models.PopulationRecord, bool) {
	for _, r := range records {
		if r.Year == year {
			return r, true
		}
	}
	return models.PopulationRecord{}, false
}
