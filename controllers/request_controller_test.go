package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"chemlab_inventory/app"
	"chemlab_inventory/db"
	"chemlab_inventory/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	repo    *db.Repo
	router  *gin.Engine
	student *models.User
	admin   *models.User
}

// newTestEnv builds the workflow routes on an in-memory database, with a
// stub auth middleware so tests choose the acting user per request via
// headers.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	repo := db.NewRepo(conn)

	ctx := context.Background()
	student := &models.User{Username: "alice", Email: "alice@lab.test", PasswordHash: "x", FullName: "Alice", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, repo.CreateUser(ctx, student))
	admin := &models.User{Username: "boss", Email: "boss@lab.test", PasswordHash: "x", FullName: "Boss", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, repo.CreateUser(ctx, admin))

	s := &Srv{Repo: repo}
	rc := NewRequestController(s)
	ic := NewInventoryController(s)

	asUser := func(u *models.User) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(app.CtxUserID, u.ID)
			c.Set(app.CtxUsername, u.Username)
			c.Set(app.CtxRole, u.Role)
			c.Next()
		}
	}

	r := gin.New()
	r.POST("/api/requests", asUser(student), rc.Create)
	r.GET("/api/requests", asUser(student), rc.List)
	r.PUT("/api/requests/:id/approve", asUser(admin), rc.Approve)
	r.PUT("/api/requests/:id/reject", asUser(admin), rc.Reject)
	r.PUT("/api/requests/:id/mark-borrowed", asUser(admin), rc.MarkBorrowed)
	r.PUT("/api/requests/:id/mark-returned", asUser(admin), rc.MarkReturned)
	r.GET("/api/inventory/:chemicalId", asUser(student), ic.ForChemical)

	return &testEnv{repo: repo, router: r, student: student, admin: admin}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func requestPath(id uint, action string) string {
	return fmt.Sprintf("/api/requests/%d/%s", id, action)
}

func requestInventoryPath(chemicalID uint) string {
	return fmt.Sprintf("/api/inventory/%d", chemicalID)
}

func TestRequestLifecycleOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	eth := &models.Chemical{Name: "Ethanol", CASNumber: "64-17-5"}
	require.NoError(t, e.repo.CreateChemical(ctx, eth))
	item := &models.InventoryItem{ChemicalID: eth.ID, Quantity: 5.0, Unit: "L"}
	require.NoError(t, e.repo.AddInventoryItem(ctx, item))

	// Too much: 400, no row created.
	w := e.do(t, http.MethodPost, "/api/requests", gin.H{
		"chemicalId": eth.ID, "quantityRequested": 6.0, "unit": "L", "purpose": "distillation",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")

	// Within stock: 201 with the new id.
	w = e.do(t, http.MethodPost, "/api/requests", gin.H{
		"chemicalId": eth.ID, "quantityRequested": 3.0, "unit": "L", "purpose": "distillation",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	// Approve, then hand out.
	w = e.do(t, http.MethodPut, requestPath(created.ID, "approve"), gin.H{"adminNotes": "ok"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPut, requestPath(created.ID, "mark-borrowed"), gin.H{
		"inventoryId": item.ID, "conditionAtBorrow": "sealed",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Ledger reflects the reservation.
	w = e.do(t, http.MethodGet, requestInventoryPath(eth.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inv struct {
		Availability db.Availability `json:"availability"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.Equal(t, 5.0, inv.Availability.TotalQuantity)
	assert.Equal(t, 3.0, inv.Availability.BorrowedQuantity)

	// Return closes the loop.
	w = e.do(t, http.MethodPut, requestPath(created.ID, "mark-returned"), gin.H{"conditionAtReturn": "fine"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Double return is an illegal transition: 400.
	w = e.do(t, http.MethodPut, requestPath(created.ID, "mark-returned"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApproveUnknownRequestIs404(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPut, requestPath(999, "approve"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRejectWithoutReasonIs400(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	eth := &models.Chemical{Name: "Ethanol", CASNumber: "64-17-5"}
	require.NoError(t, e.repo.CreateChemical(ctx, eth))
	require.NoError(t, e.repo.AddInventoryItem(ctx, &models.InventoryItem{ChemicalID: eth.ID, Quantity: 5.0, Unit: "L"}))

	req, err := e.repo.CreateRequest(ctx, db.CreateRequestInput{
		StudentID: e.student.ID, ChemicalID: eth.ID,
		QuantityRequested: 1.0, Unit: "L", Purpose: "x",
	})
	require.NoError(t, err)

	w := e.do(t, http.MethodPut, requestPath(req.ID, "reject"), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentListSeesOwnRequestsOnly(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	eth := &models.Chemical{Name: "Ethanol", CASNumber: "64-17-5"}
	require.NoError(t, e.repo.CreateChemical(ctx, eth))
	require.NoError(t, e.repo.AddInventoryItem(ctx, &models.InventoryItem{ChemicalID: eth.ID, Quantity: 5.0, Unit: "L"}))

	other := &models.User{Username: "bob", Email: "bob@lab.test", PasswordHash: "x", FullName: "Bob", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, e.repo.CreateUser(ctx, other))

	_, err := e.repo.CreateRequest(ctx, db.CreateRequestInput{
		StudentID: e.student.ID, ChemicalID: eth.ID, QuantityRequested: 1, Unit: "L", Purpose: "x",
	})
	require.NoError(t, err)
	_, err = e.repo.CreateRequest(ctx, db.CreateRequestInput{
		StudentID: other.ID, ChemicalID: eth.ID, QuantityRequested: 1, Unit: "L", Purpose: "x",
	})
	require.NoError(t, err)

	w := e.do(t, http.MethodGet, "/api/requests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Requests []models.ChemicalRequest `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Requests, 1)
	assert.Equal(t, e.student.ID, out.Requests[0].StudentID)
}
