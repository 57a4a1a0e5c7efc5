package internal

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MustDB connects to Postgres, retrying until the deadline (the database
// container often comes up after the app), then migrates the schema.
func MustDB(url string) *gorm.DB {
	var db *gorm.DB
	var err error

	deadline := time.Now().Add(30 * time.Second)
	for {
		db, err = gorm.Open(postgres.Open(url), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.SetMaxOpenConns(10)
				if pingErr := sqlDB.Ping(); pingErr == nil {
					break
				}
				err = dbErr
			}
		}

		if time.Now().After(deadline) {
			log.Fatalf("failed to connect DB after retries: %v", err)
		}
		time.Sleep(1 * time.Second)
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		log.Fatalf("auto-migrate failed: %v", err)
	}

	return db
}
