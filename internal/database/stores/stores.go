package stores

import (
	"gorm.io/gorm"

	"github.com/pynezz/gungnir/internal/database"
	"github.com/pynezz/gungnir/internal/database/models"

	ansi "github.com/pynezz/pynezzentials"
)

type Stores struct {
	ScanStore   *database.DataStore[models.ScanRequest]
	ResultStore *database.DataStore[models.ScanResult]
	VulnStore   *database.DataStore[models.Vulnerability]

	// Add more stores here if neccessary
	// One store per model (/ table in the database)
}

// New initializes one store per model on the scan database
func New(db *gorm.DB) (*Stores, error) {
	ansi.PrintInfo("Initializing stores...")

	scanStore, err := database.NewDataStore[models.ScanRequest](db, models.SCAN_REQUESTS)
	if err != nil {
		return nil, err
	}

	resultStore, err := database.NewDataStore[models.ScanResult](db, models.SCAN_RESULTS)
	if err != nil {
		return nil, err
	}

	vulnStore, err := database.NewDataStore[models.Vulnerability](db, models.VULNERABILITIES)
	if err != nil {
		return nil, err
	}

	ansi.PrintSuccess("Initialized all stores")

	return &Stores{
		ScanStore:   scanStore,
		ResultStore: resultStore,
		VulnStore:   vulnStore,
	}, nil
}
