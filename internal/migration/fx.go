package migration

import (
	"strings"

	"github.com/verdantio/carbonledger/internal/config"
	emissiondomain "github.com/verdantio/carbonledger/internal/emission/domain"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
	metricdomain "github.com/verdantio/carbonledger/internal/metric/domain"
	"github.com/verdantio/carbonledger/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if strings.EqualFold(cfg.DBType, "postgres") {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Versioned migrations target postgres; other dialects
			// (sqlite for local runs) derive the schema from the models.
			if err := conn.AutoMigrate(
				&factordomain.EmissionFactor{},
				&emissiondomain.EmissionRecord{},
				&metricdomain.BusinessMetric{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDefaultFactors {
			if err := seed.EnsureDefaultFactors(conn); err != nil {
				return err
			}
		}
		return nil
	}),
)
