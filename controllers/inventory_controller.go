package controllers

import (
	"errors"
	"net/http"
	"time"

	"chemlab_inventory/app"
	"chemlab_inventory/db"
	"chemlab_inventory/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InventoryController struct{ *Srv }

func NewInventoryController(s *Srv) *InventoryController { return &InventoryController{Srv: s} }

func (ic *InventoryController) Summary(c *gin.Context) {
	s, err := ic.Repo.GetInventorySummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

// ForChemical returns the chemical's inventory rows plus the ledger totals.
func (ic *InventoryController) ForChemical(c *gin.Context) {
	chemicalID, ok := idParam(c, "chemicalId")
	if !ok {
		return
	}
	items, err := ic.Repo.ListInventoryForChemical(c.Request.Context(), chemicalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	av, err := ic.Repo.GetAvailable(c.Request.Context(), chemicalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items, "availability": av})
}

type addInventoryRequest struct {
	ChemicalID        uint       `json:"chemicalId" binding:"required"`
	Quantity          float64    `json:"quantity"`
	Unit              string     `json:"unit" binding:"required"`
	StorageLocationID *uint      `json:"storageLocationId"`
	BatchNumber       string     `json:"batchNumber"`
	ExpiryDate        *time.Time `json:"expiryDate"`
	ReceivedDate      *time.Time `json:"receivedDate"`
	Cost              float64    `json:"cost"`
	Notes             string     `json:"notes"`
}

func (ic *InventoryController) Add(c *gin.Context) {
	var in addInventoryRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	item := &models.InventoryItem{
		ChemicalID:        in.ChemicalID,
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		StorageLocationID: in.StorageLocationID,
		BatchNumber:       in.BatchNumber,
		ExpiryDate:        in.ExpiryDate,
		ReceivedDate:      in.ReceivedDate,
		Cost:              in.Cost,
		Notes:             in.Notes,
	}
	err := ic.Repo.AddInventoryItem(c.Request.Context(), item)
	switch {
	case errors.Is(err, db.ErrValidation):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "chemical not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, app.H{"item": item})
	}
}

type updateQuantityRequest struct {
	Quantity *float64 `json:"quantity" binding:"required"`
}

func (ic *InventoryController) UpdateQuantity(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in updateQuantityRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	err := ic.Repo.UpdateInventoryQuantity(c.Request.Context(), id, *in.Quantity)
	switch {
	case errors.Is(err, db.ErrValidation):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "inventory item not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, app.H{"ok": true})
	}
}

func (ic *InventoryController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := ic.Repo.DeleteInventoryItem(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, app.H{"error": "inventory item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
