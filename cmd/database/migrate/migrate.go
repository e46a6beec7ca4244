package migration

import (
	entities2 "MenuLens/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities2.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.Transaction{}); err != nil {
		log.Fatalf("Error migrating transaction database: %v", err)
		return err
	}

	// CanonicalMenu must exist before MenuScan for the foreign key.
	if err := db.AutoMigrate(&entities2.CanonicalMenu{}); err != nil {
		log.Fatalf("Error migrating canonical menu database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.MenuScan{}); err != nil {
		log.Fatalf("Error migrating menu scan database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities2.MenuDish{}); err != nil {
		log.Fatalf("Error migrating menu dish database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
