package demographics

import (
	"testing"

	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDensity(t *testing.T) {
	tests := []struct {
		name string
		pop  int64
		area float64
		want float64
	}{
		{"municipal default area", 100000, DefaultAreaKm2, 10.49},
		{"zero area falls back", 100000, 0, 10.49},
		{"zero population", 0, DefaultAreaKm2, 0},
		{"exact", 500, 100, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Density(tt.pop, tt.area); got != tt.want {
				t.Errorf("Density(%d, %v) = %v, want %v", tt.pop, tt.area, got, tt.want)
			}
		})
	}
}

func TestGrowthRate(t *testing.T) {
	history := []models.PopulationRecord{
		{Year: 2023, Population: 1000},
		{Year: 2021, Population: 0},
	}
	tests := []struct {
		name string
		year int
		pop  int64
		want float64
	}{
		{"previous year present", 2024, 1050, 5.00},
		{"no previous year", 2023, 1000, 0},
		{"previous year population zero", 2022, 700, 0},
		{"decline", 2024, 900, -10},
		{"rounded", 2024, 1001, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GrowthRate(tt.year, tt.pop, history); got != tt.want {
				t.Errorf("GrowthRate(%d, %d) = %v, want %v", tt.year, tt.pop, got, tt.want)
			}
		})
	}
}

func TestDerive_IgnoresOwnRow(t *testing.T) {
	id := primitive.NewObjectID()
	others := []models.PopulationRecord{
		{ID: primitive.NewObjectID(), Year: 2023, Population: 1000},
		{ID: id, Year: 2024, Population: 999999},
	}
	rec := Derive(models.PopulationRecord{ID: id, Year: 2024, Population: 1050}, others, DefaultAreaKm2)
	if rec.GrowthRate != 5 {
		t.Errorf("GrowthRate = %v, want 5", rec.GrowthRate)
	}
	if rec.Density != 0.11 {
		t.Errorf("Density = %v, want 0.11", rec.Density)
	}
}

func TestLatest(t *testing.T) {
	if _, ok := Latest(nil); ok {
		t.Error("Latest(nil) reported a record")
	}
	rec, ok := Latest([]models.PopulationRecord{{Year: 2020}, {Year: 2024}, {Year: 2022}})
	if !ok || rec.Year != 2024 {
		t.Errorf("Latest() = %d, %v; want 2024, true", rec.Year, ok)
	}
	if s := Summary(rec); s.Year != 2024 {
		t.Errorf("Summary().Year = %d, want 2024", s.Year)
	}
}
