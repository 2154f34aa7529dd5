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

type RequestController struct{ *Srv }

func NewRequestController(s *Srv) *RequestController { return &RequestController{Srv: s} }

// workflowStatus maps repo errors onto HTTP statuses: business-rule
// violations are 4xx, anything else is a storage failure.
func workflowStatus(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrValidation),
		errors.Is(err, db.ErrInsufficientStock),
		errors.Is(err, db.ErrInvalidTransition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type createRequestBody struct {
	ChemicalID         uint       `json:"chemicalId" binding:"required"`
	QuantityRequested  float64    `json:"quantityRequested" binding:"required"`
	Unit               string     `json:"unit" binding:"required"`
	Purpose            string     `json:"purpose" binding:"required"`
	RequiredDate       *time.Time `json:"requiredDate"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate"`
}

func (rc *RequestController) Create(c *gin.Context) {
	uid, ok := app.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in createRequestBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	req, err := rc.Repo.CreateRequest(c.Request.Context(), db.CreateRequestInput{
		StudentID:          uid,
		ChemicalID:         in.ChemicalID,
		QuantityRequested:  in.QuantityRequested,
		Unit:               in.Unit,
		Purpose:            in.Purpose,
		RequiredDate:       in.RequiredDate,
		ExpectedReturnDate: in.ExpectedReturnDate,
	})
	if err != nil {
		c.JSON(workflowStatus(err), app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"id": req.ID, "request": req})
}

// List returns all requests for admins (optionally ?status=), own requests
// for students.
func (rc *RequestController) List(c *gin.Context) {
	uid, ok := app.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	role, _ := c.Get(app.CtxRole)

	var (
		reqs []models.ChemicalRequest
		err  error
	)
	if role == models.RoleAdmin {
		reqs, err = rc.Repo.ListRequests(c.Request.Context(), c.Query("status"))
	} else {
		reqs, err = rc.Repo.ListRequestsByStudent(c.Request.Context(), uid)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

func (rc *RequestController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	uid, _ := app.UserID(c)
	role, _ := c.Get(app.CtxRole)

	req, err := rc.Repo.FindRequestByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, app.H{"error": "request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if role != models.RoleAdmin && req.StudentID != uid {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, app.H{"request": req})
}

type approveBody struct {
	AdminNotes string `json:"adminNotes"`
}

func (rc *RequestController) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	uid, _ := app.UserID(c)
	var in approveBody
	_ = c.ShouldBindJSON(&in)

	req, err := rc.Repo.ApproveRequest(c.Request.Context(), id, uid, in.AdminNotes)
	if err != nil {
		c.JSON(workflowStatus(err), app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"request": req})
}

type rejectBody struct {
	RejectionReason string `json:"rejectionReason" binding:"required"`
}

func (rc *RequestController) Reject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	uid, _ := app.UserID(c)
	var in rejectBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	req, err := rc.Repo.RejectRequest(c.Request.Context(), id, uid, in.RejectionReason)
	if err != nil {
		c.JSON(workflowStatus(err), app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"request": req})
}

type markBorrowedBody struct {
	InventoryID       uint   `json:"inventoryId" binding:"required"`
	ConditionAtBorrow string `json:"conditionAtBorrow"`
	Notes             string `json:"notes"`
}

func (rc *RequestController) MarkBorrowed(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in markBorrowedBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	req, err := rc.Repo.MarkBorrowed(c.Request.Context(), id, in.InventoryID, in.ConditionAtBorrow, in.Notes)
	if err != nil {
		c.JSON(workflowStatus(err), app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"request": req})
}

type markReturnedBody struct {
	ConditionAtReturn string `json:"conditionAtReturn"`
	Notes             string `json:"notes"`
}

func (rc *RequestController) MarkReturned(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in markReturnedBody
	_ = c.ShouldBindJSON(&in)

	req, err := rc.Repo.MarkReturned(c.Request.Context(), id, in.ConditionAtReturn, in.Notes)
	if err != nil {
		c.JSON(workflowStatus(err), app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"request": req})
}

// Borrowed lists currently-out requests: all of them for admins, own for
// students.
func (rc *RequestController) Borrowed(c *gin.Context) {
	uid, ok := app.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	role, _ := c.Get(app.CtxRole)

	var student *uint
	if role != models.RoleAdmin {
		student = &uid
	}
	reqs, err := rc.Repo.ListBorrowed(c.Request.Context(), student)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

func (rc *RequestController) History(c *gin.Context) {
	uid, ok := app.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	role, _ := c.Get(app.CtxRole)

	var student *uint
	if role != models.RoleAdmin {
		student = &uid
	}
	hs, err := rc.Repo.ListBorrowHistory(c.Request.Context(), student)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"history": hs})
}
