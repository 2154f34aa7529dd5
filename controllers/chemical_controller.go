package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"chemlab_inventory/app"
	"chemlab_inventory/db"
	"chemlab_inventory/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ChemicalController struct{ *Srv }

func NewChemicalController(s *Srv) *ChemicalController { return &ChemicalController{Srv: s} }

func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return 0, false
	}
	return uint(v), true
}

func (cc *ChemicalController) List(c *gin.Context) {
	chems, err := cc.Repo.ListChemicals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"chemicals": chems})
}

func (cc *ChemicalController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ch, err := cc.Repo.FindChemicalByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, app.H{"error": "chemical not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"chemical": ch})
}

type chemicalRequest struct {
	Name             string  `json:"name" binding:"required"`
	ChemicalFormula  string  `json:"chemicalFormula"`
	CASNumber        string  `json:"casNumber"`
	MolecularWeight  float64 `json:"molecularWeight"`
	Description      string  `json:"description"`
	Supplier         string  `json:"supplier"`
	HazardCategoryID *uint   `json:"hazardCategoryId"`
}

func (cc *ChemicalController) Create(c *gin.Context) {
	var in chemicalRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	ch := &models.Chemical{
		Name:             in.Name,
		ChemicalFormula:  in.ChemicalFormula,
		CASNumber:        in.CASNumber,
		MolecularWeight:  in.MolecularWeight,
		Description:      in.Description,
		Supplier:         in.Supplier,
		HazardCategoryID: in.HazardCategoryID,
	}
	if err := cc.Repo.CreateChemical(c.Request.Context(), ch); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"chemical": ch})
}

func (cc *ChemicalController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in chemicalRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	err := cc.Repo.UpdateChemical(c.Request.Context(), id, db.UpdateChemicalInput{
		Name:             in.Name,
		ChemicalFormula:  in.ChemicalFormula,
		CASNumber:        in.CASNumber,
		MolecularWeight:  in.MolecularWeight,
		Description:      in.Description,
		Supplier:         in.Supplier,
		HazardCategoryID: in.HazardCategoryID,
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, app.H{"error": "chemical not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (cc *ChemicalController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := cc.Repo.DeleteChemical(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, app.H{"error": "chemical not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (cc *ChemicalController) Search(c *gin.Context) {
	chems, err := cc.Repo.SearchChemicals(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"chemicals": chems})
}

func (cc *ChemicalController) ListHazards(c *gin.Context) {
	hs, err := cc.Repo.ListHazardCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"hazards": hs})
}

func (cc *ChemicalController) ListLocations(c *gin.Context) {
	ls, err := cc.Repo.ListStorageLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"locations": ls})
}
