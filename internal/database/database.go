package database

/*
	The gorm library is used to interact with the database.
	One sqlite file holds the scan requests, scan results and
	vulnerabilities. I'll be referring to the database setup as the
	"data store" to differentiate it from the database logic.
*/

import (
	"errors"
	"fmt"

	"github.com/pynezz/gungnir/internal/database/models"
	"github.com/pynezz/gungnir/internal/util"
	"github.com/pynezz/gungnir/pkg/types"
	"gorm.io/driver/sqlite" // Sqlite driver based on CGO
	"gorm.io/gorm"
)

// Store is the generic document-store interface the pipeline talks to
type Store[T any] interface {
	Name() string
	Insert(record T) error
	FindOne(filter map[string]interface{}) (*T, error)
	FindMany(filter map[string]interface{}, order string, limit int) ([]T, error)
	UpdateFields(filter map[string]interface{}, patch map[string]interface{}) (int64, error)
	Count(filter map[string]interface{}) (int64, error)
}

// Generic repository implementation
type DataStore[StoreType any] struct {
	name string
	db   *gorm.DB
}

func (s *DataStore[T]) Name() string {
	return s.name
}

// InitDB opens the sqlite database at the given path and automigrates
// the given tables. config is optional.
func InitDB(path string, config ...gorm.Config) (*gorm.DB, error) {
	dbConf := gorm.Config{}
	if c := len(config); c != 0 {
		dbConf = config[0]
	}

	if path == "" {
		return nil, fmt.Errorf("database path missing")
	}

	util.PrintInfo("Initializing scan database: " + path)

	db, err := gorm.Open(sqlite.Open(path), &dbConf)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models.GetModels()...); err != nil {
		return nil, err
	}

	db = db.Session(&gorm.Session{CreateBatchSize: 100})

	return db, nil
}

// NewDataStore wraps a table of the given model type
func NewDataStore[StoreType any](db *gorm.DB, name string) (*DataStore[StoreType], error) {
	if db == nil {
		return nil, fmt.Errorf("nil database handle for store %s", name)
	}
	return &DataStore[StoreType]{db: db, name: name}, nil
}

// Insert stores a record
func (s *DataStore[T]) Insert(record T) error {
	result := s.db.Create(&record)
	return result.Error
}

// FindOne returns the first record matching the filter, or
// types.ErrNotFound when there is none
func (s *DataStore[T]) FindOne(filter map[string]interface{}) (*T, error) {
	var record T
	result := s.db.Where(filter).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, result.Error
	}
	return &record, nil
}

// FindMany returns records matching the filter. order is a plain SQL
// order clause ("created_at desc"), empty means engine order.
// limit <= 0 means no limit.
func (s *DataStore[T]) FindMany(filter map[string]interface{}, order string, limit int) ([]T, error) {
	var records []T
	tx := s.db.Model(new(T))
	if len(filter) > 0 {
		tx = tx.Where(filter)
	}
	if order != "" {
		tx = tx.Order(order)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	result := tx.Find(&records)
	return records, result.Error
}

// UpdateFields patches all records matching the filter and reports how
// many rows changed. The caller decides whether zero rows is an error,
// which is what lets the state machine guard its transitions.
func (s *DataStore[T]) UpdateFields(filter map[string]interface{}, patch map[string]interface{}) (int64, error) {
	var instance T
	result := s.db.Model(&instance).Where(filter).Updates(patch)
	return result.RowsAffected, result.Error
}

// Count returns the number of records matching the filter
func (s *DataStore[T]) Count(filter map[string]interface{}) (int64, error) {
	var instance T
	var count int64
	tx := s.db.Model(&instance)
	if len(filter) > 0 {
		tx = tx.Where(filter)
	}
	result := tx.Count(&count)
	return count, result.Error
}
