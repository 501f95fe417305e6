package main

import (
	"log"

	"tastebook/cmd/config"
	migration "tastebook/cmd/database/migrate"
	"tastebook/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up app: %v", err)
	}

	if err := app.Listen(":" + utils.GetConfig("SERVER_PORT")); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
