package models

import "time"

const (
	ChemicalTable = "chem_chemicals"
	HazardTable   = "chem_hazard_categories"
	LocationTable = "chem_storage_locations"
)

type HazardCategory struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
	ColorCode   string `gorm:"size:10" json:"colorCode,omitempty"`
}

func (HazardCategory) TableName() string { return HazardTable }

// StorageLocation is reference data: rows are seeded or added by admins and
// never deleted, since inventory rows point at them.
type StorageLocation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LocationName   string    `gorm:"size:120;not null" json:"locationName"`
	Building       string    `gorm:"size:120" json:"building,omitempty"`
	Room           string    `gorm:"size:120" json:"room,omitempty"`
	Cabinet        string    `gorm:"size:120" json:"cabinet,omitempty"`
	Shelf          string    `gorm:"size:120" json:"shelf,omitempty"`
	CapacityLiters float64   `json:"capacityLiters,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (StorageLocation) TableName() string { return LocationTable }

type Chemical struct {
	ID               uint     `gorm:"primaryKey" json:"id"`
	Name             string   `gorm:"size:255;not null;index" json:"name"`
	ChemicalFormula  string   `gorm:"size:120" json:"chemicalFormula,omitempty"`
	CASNumber        string   `gorm:"column:cas_number;uniqueIndex;size:32" json:"casNumber,omitempty"`
	MolecularWeight  float64  `json:"molecularWeight,omitempty"`
	Description      string   `gorm:"size:500" json:"description,omitempty"`
	Supplier         string   `gorm:"size:255" json:"supplier,omitempty"`
	HazardCategoryID *uint    `gorm:"index" json:"hazardCategoryId,omitempty"`
	HazardCategory   *HazardCategory `gorm:"foreignKey:HazardCategoryID" json:"hazardCategory,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Chemical) TableName() string { return ChemicalTable }
