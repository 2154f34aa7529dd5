package models

import "time"

const InventoryTable = "chem_inventory"

// InventoryItem is one received batch of a chemical. Quantity is never
// decremented by the borrow workflow: borrowed requests reduce availability
// as a virtual reservation, computed by the ledger on demand.
type InventoryItem struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	ChemicalID        uint    `gorm:"index;not null" json:"chemicalId"`
	Quantity          float64 `gorm:"not null" json:"quantity"`
	Unit              string  `gorm:"size:20;not null" json:"unit"`
	StorageLocationID *uint   `gorm:"index" json:"storageLocationId,omitempty"`
	BatchNumber       string  `gorm:"size:64" json:"batchNumber,omitempty"`

	ExpiryDate   *time.Time `gorm:"type:date" json:"expiryDate,omitempty"`
	ReceivedDate *time.Time `gorm:"type:date" json:"receivedDate,omitempty"`
	Cost         float64    `json:"cost,omitempty"`
	Notes        string     `gorm:"size:500" json:"notes,omitempty"`

	Chemical        *Chemical        `gorm:"foreignKey:ChemicalID;constraint:OnDelete:CASCADE" json:"chemical,omitempty"`
	StorageLocation *StorageLocation `gorm:"foreignKey:StorageLocationID" json:"storageLocation,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (InventoryItem) TableName() string { return InventoryTable }
