package db

import (
	"fmt"
	"log"

	"chemlab_inventory/config"
	"chemlab_inventory/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func ConnectDB(cfg config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.HazardCategory{},
		&models.StorageLocation{},
		&models.Chemical{},
		&models.InventoryItem{},
		&models.User{},
		&models.ChemicalRequest{},
		&models.BorrowHistory{},
		&models.Notification{},
	); err != nil {
		return err
	}

	// Availability is computed from requests currently borrowed; keep that
	// scan narrow.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_borrowed_by_chemical
	  ON %s (chemical_id)
	  WHERE status = 'borrowed';
	`, models.RequestTable, models.RequestTable)).Error; err != nil {
		return err
	}

	return seedReferenceData(db)
}

// seedReferenceData inserts the default hazard categories and storage
// locations on first start. Existing rows are left alone.
func seedReferenceData(db *gorm.DB) error {
	hazards := []models.HazardCategory{
		{Name: "Flammable", Description: "Easily ignitable substances", ColorCode: "#FF4444"},
		{Name: "Toxic", Description: "Poisonous substances", ColorCode: "#9B59B6"},
		{Name: "Corrosive", Description: "Substances that cause burns", ColorCode: "#F39C12"},
		{Name: "Oxidizing", Description: "Substances that may cause or intensify fire", ColorCode: "#E74C3C"},
		{Name: "Explosive", Description: "Substances that may explode", ColorCode: "#C0392B"},
		{Name: "Irritant", Description: "Substances causing irritation", ColorCode: "#3498DB"},
		{Name: "Carcinogenic", Description: "Cancer-causing substances", ColorCode: "#8E44AD"},
		{Name: "Environmental Hazard", Description: "Harmful to environment", ColorCode: "#27AE60"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&hazards).Error; err != nil {
		return err
	}

	var n int64
	if err := db.Model(&models.StorageLocation{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	locations := []models.StorageLocation{
		{LocationName: "Main Lab", Building: "Building A", Room: "Lab 101", Cabinet: "Cabinet 1", Shelf: "Shelf A", CapacityLiters: 100},
		{LocationName: "Main Lab", Building: "Building A", Room: "Lab 101", Cabinet: "Cabinet 1", Shelf: "Shelf B", CapacityLiters: 100},
		{LocationName: "Main Lab", Building: "Building A", Room: "Lab 101", Cabinet: "Cabinet 2", Shelf: "Shelf A", CapacityLiters: 100},
		{LocationName: "Cold Storage", Building: "Building A", Room: "Lab 102", Cabinet: "Refrigerator 1", Shelf: "Shelf 1", CapacityLiters: 50},
		{LocationName: "Acid Storage", Building: "Building A", Room: "Lab 103", Cabinet: "Acid Cabinet", Shelf: "Shelf A", CapacityLiters: 75},
		{LocationName: "Flammable Storage", Building: "Building B", Room: "Storage Room", Cabinet: "Flammable Cabinet", Shelf: "Shelf 1", CapacityLiters: 150},
	}
	return db.Create(&locations).Error
}
