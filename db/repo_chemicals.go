package db

import (
	"context"
	"strings"

	"chemlab_inventory/models"

	"gorm.io/gorm"
)

// Chemicals

func (r *Repo) CreateChemical(ctx context.Context, ch *models.Chemical) error {
	return r.DB.WithContext(ctx).Create(ch).Error
}

func (r *Repo) FindChemicalByID(ctx context.Context, id uint) (*models.Chemical, error) {
	var ch models.Chemical
	if err := r.DB.WithContext(ctx).
		Preload("HazardCategory").
		First(&ch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *Repo) ListChemicals(ctx context.Context) ([]models.Chemical, error) {
	var chems []models.Chemical
	err := r.DB.WithContext(ctx).
		Preload("HazardCategory").
		Order("name").
		Find(&chems).Error
	return chems, err
}

type UpdateChemicalInput struct {
	Name             string
	ChemicalFormula  string
	CASNumber        string
	MolecularWeight  float64
	Description      string
	Supplier         string
	HazardCategoryID *uint
}

func (r *Repo) UpdateChemical(ctx context.Context, id uint, in UpdateChemicalInput) error {
	res := r.DB.WithContext(ctx).Model(&models.Chemical{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":               in.Name,
			"chemical_formula":   in.ChemicalFormula,
			"cas_number":         in.CASNumber,
			"molecular_weight":   in.MolecularWeight,
			"description":        in.Description,
			"supplier":           in.Supplier,
			"hazard_category_id": in.HazardCategoryID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteChemical removes the chemical and its inventory rows in one
// transaction. Requests referencing it stay for the audit trail.
func (r *Repo) DeleteChemical(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ch models.Chemical
		if err := lockForUpdate(tx).First(&ch, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("chemical_id = ?", id).Delete(&models.InventoryItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ch).Error
	})
}

// SearchChemicals matches name, formula or CAS number.
func (r *Repo) SearchChemicals(ctx context.Context, q string) ([]models.Chemical, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Chemical{}, nil
	}
	like := "%" + strings.ToLower(q) + "%"
	var chems []models.Chemical
	err := r.DB.WithContext(ctx).
		Preload("HazardCategory").
		Where("LOWER(name) LIKE ? OR LOWER(chemical_formula) LIKE ? OR LOWER(cas_number) LIKE ?", like, like, like).
		Order("name").
		Find(&chems).Error
	return chems, err
}

// Reference data

func (r *Repo) ListHazardCategories(ctx context.Context) ([]models.HazardCategory, error) {
	var hs []models.HazardCategory
	err := r.DB.WithContext(ctx).Order("name").Find(&hs).Error
	return hs, err
}

func (r *Repo) ListStorageLocations(ctx context.Context) ([]models.StorageLocation, error) {
	var ls []models.StorageLocation
	err := r.DB.WithContext(ctx).Order("location_name, cabinet, shelf").Find(&ls).Error
	return ls, err
}
