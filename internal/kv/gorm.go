package kv

import (
	"errors"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Blob is the single table behind the gorm-backed store.
type Blob struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}

// GormStore persists blobs through gorm. SQLite is the default driver
// (single-device shop), MySQL is selected with DB_DRIVER=mysql + DB_DSN.
type GormStore struct {
	db *gorm.DB
}

// Open connects and migrates the blobs table.
func Open() (*GormStore, error) {
	driver := os.Getenv("DB_DRIVER")

	var dial gorm.Dialector
	switch driver {
	case "mysql":
		dsn := os.Getenv("DB_DSN")
		if dsn == "" {
			return nil, errors.New("DB_DSN not set for mysql driver")
		}
		dial = mysql.Open(dsn)
	default:
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "pos.db"
		}
		dial = sqlite.Open(path)
	}

	// Wait for the DB to be ready (matters for mysql in docker setups)
	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(dial, &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, err
	}

	log.Println("✅ Storage ready")
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(key string, out any) (bool, error) {
	var blob Blob
	err := s.db.First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, decode(blob.Value, out)
}

func (s *GormStore) Set(key string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return err
	}
	blob := Blob{Key: key, Value: raw, UpdatedAt: time.Now()}
	return s.db.Save(&blob).Error
}

func (s *GormStore) Remove(key string) error {
	return s.db.Delete(&Blob{}, "key = ?", key).Error
}
