package db

import (
	"context"
	"fmt"
	"testing"

	"chemlab_inventory/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestRepo opens a fresh in-memory database with the full schema and
// seeded reference data.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	return NewRepo(conn)
}

func createUser(t *testing.T, r *Repo, username, role string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@lab.test",
		PasswordHash: "x",
		FullName:     username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

var casSeq int

func createChemical(t *testing.T, r *Repo, name string) *models.Chemical {
	t.Helper()
	casSeq++
	ch := &models.Chemical{
		Name:      name,
		CASNumber: fmt.Sprintf("64-17-%d", casSeq),
	}
	require.NoError(t, r.CreateChemical(context.Background(), ch))
	return ch
}

func addStock(t *testing.T, r *Repo, chemicalID uint, quantity float64, unit string) *models.InventoryItem {
	t.Helper()
	it := &models.InventoryItem{ChemicalID: chemicalID, Quantity: quantity, Unit: unit}
	require.NoError(t, r.AddInventoryItem(context.Background(), it))
	return it
}
