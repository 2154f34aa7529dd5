package db

import (
	"context"
	"fmt"
	"time"

	"chemlab_inventory/models"

	"gorm.io/gorm"
)

// Availability is the ledger view of a chemical: everything on the shelves
// minus what is out with students. An unknown chemical yields zero totals.
type Availability struct {
	TotalQuantity    float64 `json:"totalQuantity"`
	BorrowedQuantity float64 `json:"borrowedQuantity"`
	Available        float64 `json:"available"`
}

func (r *Repo) GetAvailable(ctx context.Context, chemicalID uint) (Availability, error) {
	return availability(r.DB.WithContext(ctx), chemicalID)
}

// availability runs against a plain handle or an open transaction, so the
// workflow can read the ledger under the same lock it mutates with.
func availability(tx *gorm.DB, chemicalID uint) (Availability, error) {
	var av Availability

	if err := tx.Model(&models.InventoryItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("chemical_id = ?", chemicalID).
		Scan(&av.TotalQuantity).Error; err != nil {
		return Availability{}, err
	}

	if err := tx.Model(&models.ChemicalRequest{}).
		Select("COALESCE(SUM(quantity_requested), 0)").
		Where("chemical_id = ? AND status = ?", chemicalID, models.StatusBorrowed).
		Scan(&av.BorrowedQuantity).Error; err != nil {
		return Availability{}, err
	}

	av.Available = av.TotalQuantity - av.BorrowedQuantity
	return av, nil
}

// Stock mutations

func (r *Repo) AddInventoryItem(ctx context.Context, it *models.InventoryItem) error {
	if it.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be non-negative", ErrValidation)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ch models.Chemical
		if err := tx.First(&ch, "id = ?", it.ChemicalID).Error; err != nil {
			return err
		}
		return tx.Create(it).Error
	})
}

func (r *Repo) UpdateInventoryQuantity(ctx context.Context, id uint, quantity float64) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must be non-negative", ErrValidation)
	}
	res := r.DB.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) DeleteInventoryItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) ListInventoryForChemical(ctx context.Context, chemicalID uint) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.DB.WithContext(ctx).
		Preload("StorageLocation").
		Where("chemical_id = ?", chemicalID).
		Order("received_date DESC").
		Find(&items).Error
	return items, err
}

type InventorySummary struct {
	TotalChemicals      int64 `json:"totalChemicals"`
	TotalInventoryItems int64 `json:"totalInventoryItems"`
	ExpiredItems        int64 `json:"expiredItems"`
	ExpiringSoon        int64 `json:"expiringSoon"`
}

func (r *Repo) GetInventorySummary(ctx context.Context) (InventorySummary, error) {
	var s InventorySummary
	db := r.DB.WithContext(ctx)
	now := time.Now().UTC()

	if err := db.Model(&models.Chemical{}).Count(&s.TotalChemicals).Error; err != nil {
		return InventorySummary{}, err
	}
	if err := db.Model(&models.InventoryItem{}).Count(&s.TotalInventoryItems).Error; err != nil {
		return InventorySummary{}, err
	}
	if err := db.Model(&models.InventoryItem{}).
		Where("expiry_date < ?", now).
		Count(&s.ExpiredItems).Error; err != nil {
		return InventorySummary{}, err
	}
	if err := db.Model(&models.InventoryItem{}).
		Where("expiry_date >= ? AND expiry_date < ?", now, now.AddDate(0, 0, 30)).
		Count(&s.ExpiringSoon).Error; err != nil {
		return InventorySummary{}, err
	}
	return s, nil
}
