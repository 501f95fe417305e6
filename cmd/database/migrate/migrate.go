package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"tastebook/entities"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		log.Fatalf("Error migrating recipe database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Comment{}); err != nil {
		log.Fatalf("Error migrating comment database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
