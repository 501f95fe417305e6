package config

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tastebook/internal/utils"
)

// ConnectDB opens the embedded database file, shared by all repositories
// for the lifetime of the process.
func ConnectDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(utils.GetConfig("DB_NAME")), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
		return nil, err
	}

	// WAL keeps concurrent request handling from serializing on the file.
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA foreign_keys=ON")

	return db, nil
}
