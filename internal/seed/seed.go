package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
	"gorm.io/gorm"
)

type seedFactor struct {
	activityName string
	scope        int
	co2ePerUnit  float64
	activityUnit string
	source       string
	validFrom    string
	validTo      string
}

// Baseline factor catalog applied to empty databases. Versioned windows
// mirror common national conversion-factor publications; valid_to left
// empty means the version is still current.
var defaultFactors = []seedFactor{
	{"Diesel", 1, 2.68, "litre", "DEFRA 2023", "2023-01-01", "2023-12-31"},
	{"Diesel", 1, 2.71, "litre", "DEFRA 2024", "2024-01-01", ""},
	{"Petrol", 1, 2.31, "litre", "DEFRA 2023", "2023-01-01", "2023-12-31"},
	{"Petrol", 1, 2.33, "litre", "DEFRA 2024", "2024-01-01", ""},
	{"Natural Gas", 1, 2.02, "m3", "DEFRA 2023", "2023-01-01", ""},
	{"Electricity", 2, 0.21, "kWh", "Grid average 2023", "2023-01-01", "2023-12-31"},
	{"Electricity", 2, 0.19, "kWh", "Grid average 2024", "2024-01-01", ""},
	{"Business Travel - Flight", 3, 0.15, "km", "DEFRA 2023", "2023-01-01", ""},
	{"Freight - Road", 3, 0.11, "tonne-km", "DEFRA 2023", "2023-01-01", ""},
}

// EnsureDefaultFactors seeds the baseline factor catalog when the
// factors table is empty. Existing catalogs are never touched.
func EnsureDefaultFactors(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("emission_factors").Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, sf := range defaultFactors {
			validFrom, err := factordomain.ParseDate(sf.validFrom)
			if err != nil {
				return err
			}
			var validTo *time.Time
			if sf.validTo != "" {
				parsed, err := factordomain.ParseDate(sf.validTo)
				if err != nil {
					return err
				}
				validTo = &parsed
			}

			factor := factordomain.EmissionFactor{
				ID:           node.Generate(),
				ActivityName: sf.activityName,
				Scope:        sf.scope,
				CO2ePerUnit:  sf.co2ePerUnit,
				ActivityUnit: sf.activityUnit,
				Source:       sf.source,
				ValidFrom:    validFrom,
				ValidTo:      validTo,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Create(&factor).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
