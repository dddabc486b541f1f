package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gene2phenotype/g2pbackend/models"
)

// InitGormDB initializes and returns a GORM database instance
func InitGormDB(dataSourceName string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("GORM Database initialized successfully at", dataSourceName)
	return db, nil
}

// AutoMigrateModels can be called after InitGormDB to migrate schemas
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.AttribType{},
		&models.Attrib{},
		&models.Sequence{},
		&models.Locus{},
		&models.Disease{},
		&models.DiseaseOntologyTerm{},
		&models.OntologyTerm{},
		&models.Publication{},
		&models.CVMolecularMechanism{},
		&models.Panel{},
		&models.G2PStableID{},
		&models.LocusGenotypeDisease{},
		&models.LGDPanel{},
		&models.LGDPublication{},
		&models.LGDPhenotype{},
		&models.LGDPhenotypeSummary{},
		&models.LGDVariantType{},
		&models.LGDVariantTypeComment{},
		&models.LGDVariantTypeDescription{},
		&models.LGDVariantGenccConsequence{},
		&models.LGDCrossCuttingModifier{},
		&models.LGDMechanismSynopsis{},
		&models.LGDMechanismEvidence{},
		&models.LGDComment{},
		&models.CurationData{},
		&models.User{},
		&models.UserPanel{},
		&models.PanelInvite{},
		&models.HistoryEntry{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	log.Println("GORM AutoMigrate completed successfully.")
	return nil
}
