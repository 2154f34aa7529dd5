package db

import (
	"context"
	"testing"

	"chemlab_inventory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRequest(t *testing.T, r *Repo, studentID, chemicalID uint, qty float64) *models.ChemicalRequest {
	t.Helper()
	req, err := r.CreateRequest(context.Background(), CreateRequestInput{
		StudentID:         studentID,
		ChemicalID:        chemicalID,
		QuantityRequested: qty,
		Unit:              "L",
		Purpose:           "titration experiment",
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequestInsufficientStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	student := createUser(t, r, "alice", models.RoleStudent)
	eth := createChemical(t, r, "Ethanol")
	addStock(t, r, eth.ID, 5.0, "L")

	_, err := r.CreateRequest(ctx, CreateRequestInput{
		StudentID:         student.ID,
		ChemicalID:        eth.ID,
		QuantityRequested: 6.0,
		Unit:              "L",
		Purpose:           "too greedy",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// No row was created.
	var n int64
	require.NoError(t, r.DB.Model(&models.ChemicalRequest{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateRequestPendingDoesNotReserve(t *testing.T) {
	r := newTestRepo(t)
	student := createUser(t, r, "alice", models.RoleStudent)
	eth := createChemical(t, r, "Ethanol")
	addStock(t, r, eth.ID, 5.0, "L")

	req := newRequest(t, r, student.ID, eth.ID, 3.0)
	assert.Equal(t, models.StatusPending, req.Status)

	// A pending request is not a reservation yet.
	av, err := r.GetAvailable(context.Background(), eth.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, av.TotalQuantity)
	assert.Equal(t, 0.0, av.BorrowedQuantity)
}

func TestCreateRequestValidation(t *testing.T) {
	r := newTestRepo(t)
	student := createUser(t, r, "alice", models.RoleStudent)
	eth := createChemical(t, r, "Ethanol")
	addStock(t, r, eth.ID, 5.0, "L")

	_, err := r.CreateRequest(context.Background(), CreateRequestInput{
		StudentID:         student.ID,
		ChemicalID:        eth.ID,
		QuantityRequested: -1,
		Unit:              "L",
		Purpose:           "x",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = r.CreateRequest(context.Background(), CreateRequestInput{
		StudentID:         student.ID,
		ChemicalID:        eth.ID,
		QuantityRequested: 1,
		Unit:              "L",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateRequestUnknownChemical(t *testing.T) {
	r := newTestRepo(t)
	student := createUser(t, r, "alice", models.RoleStudent)

	_, err := r.CreateRequest(context.Background(), CreateRequestInput{
		StudentID:         student.ID,
		ChemicalID:        999,
		QuantityRequested: 1,
		Unit:              "L",
		Purpose:           "x",
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateRequestNotifiesAdmins(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	student := createUser(t, r, "alice", models.RoleStudent)
	admin1 := createUser(t, r, "admin1", models.RoleAdmin)
	admin2 := createUser(t, r, "admin2", models.RoleAdmin)
	eth := createChemical(t, r, "Ethanol")
	addStock(t, r, eth.ID, 5.0, "L")

	newRequest(t, r, student.ID, eth.ID, 2.0)

	for _, admin := range []*models.User{admin1, admin2} {
		ns, err := r.ListNotifications(ctx, admin.ID, false)
		require.NoError(t, err)
		require.Len(t, ns, 1)
		assert.Equal(t, "New Chemical Request", ns[0].Title)
		assert.Equal(t, models.NotifRequestCreated, ns[0].Type)
	}
	// The student gets nothing on create.
	ns, err := r.ListNotifications(ctx, student.ID, false)
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestApprove(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	student := createUser(t, r, "alice", models.RoleStudent)
	admin := createUser(t, r, "boss", models.RoleAdmin)
	eth := createChemical(t, r, "Ethanol")
	addStock(t, r, eth.ID, 5.0, "L")
	req := newRequest(t, r, student.ID, eth.ID, 3.0)

	got, err := r.ApproveRequest(ctx, req.ID, admin.ID, "be careful")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, admin.ID, *got.ApprovedBy)
	assert.NotNil(t, got.ApprovalDate)
	assert.Equal(t, "be careful", got.AdminNotes)

	ns, err := r.ListNotifications(ctx, student.ID, false)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Contains(t, ns[0].Title, "Approved")
}

func TestRejectRequiresReason(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	student := createUser(t, r, "alice", models.RoleStudent)
	admin := createUser(t, r, "boss", models.RoleAdmin)
	eth := createChemical(t, r, "Ethanol")
	addStock(t, r, eth.ID, 5.0, "L")
	req := newRequest(t, r, student.ID, eth.ID, 3.0)

	_, err := r.RejectRequest(ctx, req.ID, admin.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	got, err := r.RejectRequest(ctx, req.ID, admin.ID, "not enough justification")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, "not enough justification", got.RejectionReason)
}

func TestIllegalTransitionsLeaveStatusUnchanged(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	student := createUser(t, r, "alice", models.RoleStudent)
	admin := createUser(t, r, "boss", models.RoleAdmin)
	eth := createChemical(t, r, "Ethanol")
	item := addStock(t, r, eth.ID, 5.0, "L")
	req := newRequest(t, r, student.ID, eth.ID, 3.0)

	// Borrowing straight from pending is not a legal edge.
	_, err := r.MarkBorrowed(ctx, req.ID, item.ID, "sealed", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Returning from pending is not either.
	_, err = r.MarkReturned(ctx, req.ID, "fine", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := r.FindRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	// rejected is terminal: no approve afterwards.
	_, err = r.RejectRequest(ctx, req.ID, admin.ID, "no")
	require.NoError(t, err)
	_, err = r.ApproveRequest(ctx, req.ID, admin.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err = r.FindRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
}

func TestBorrowAndReturnLifecycle(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	student := createUser(t, r, "alice", models.RoleStudent)
	admin := createUser(t, r, "boss", models.RoleAdmin)
	eth := createChemical(t, r, "Ethanol")
	item := addStock(t, r, eth.ID, 5.0, "L")
	req := newRequest(t, r, student.ID, eth.ID, 3.0)

	_, err := r.ApproveRequest(ctx, req.ID, admin.ID, "")
	require.NoError(t, err)

	got, err := r.MarkBorrowed(ctx, req.ID, item.ID, "sealed bottle", "handle with gloves")
	require.NoError(t, err)
	assert.Equal(t, models.StatusBorrowed, got.Status)

	// Exactly one history row, copying the request's quantities.
	hist, err := r.FindBorrowHistoryByRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, hist.QuantityBorrowed)
	assert.Equal(t, "L", hist.Unit)
	assert.Equal(t, "sealed bottle", hist.ConditionAtBorrow)
	require.NotNil(t, hist.InventoryID)
	assert.Equal(t, item.ID, *hist.InventoryID)
	assert.Nil(t, hist.ActualReturnDate)

	// Borrowed requests reduce availability without touching stock.
	av, err := r.GetAvailable(ctx, eth.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, av.TotalQuantity)
	assert.Equal(t, 3.0, av.BorrowedQuantity)
	assert.Equal(t, 2.0, av.Available)

	// A second request for more than the remainder fails now.
	_, err = r.CreateRequest(ctx, CreateRequestInput{
		StudentID: student.ID, ChemicalID: eth.ID,
		QuantityRequested: 2.5, Unit: "L", Purpose: "x",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	got, err = r.MarkReturned(ctx, req.ID, "half empty", "spilled a bit")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReturned, got.Status)
	assert.NotNil(t, got.ActualReturnDate)

	// Same history row updated in place, never a second one.
	var n int64
	require.NoError(t, r.DB.Model(&models.BorrowHistory{}).Where("request_id = ?", req.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	hist, err = r.FindBorrowHistoryByRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.NotNil(t, hist.ActualReturnDate)
	assert.Equal(t, "half empty", hist.ConditionAtReturn)
	assert.Equal(t, "spilled a bit", hist.Notes)

	// Availability is back to the full amount.
	av, err = r.GetAvailable(ctx, eth.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, av.BorrowedQuantity)
	assert.Equal(t, 5.0, av.Available)

	// returned is terminal.
	_, err = r.MarkReturned(ctx, req.ID, "again", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// One notification per transition for the student.
	ns, err := r.ListNotifications(ctx, student.ID, false)
	require.NoError(t, err)
	assert.Len(t, ns, 3) // approved, borrowed, returned
}

func TestMarkBorrowedWrongInventory(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	student := createUser(t, r, "alice", models.RoleStudent)
	admin := createUser(t, r, "boss", models.RoleAdmin)
	eth := createChemical(t, r, "Ethanol")
	ace := createChemical(t, r, "Acetone")
	addStock(t, r, eth.ID, 5.0, "L")
	aceItem := addStock(t, r, ace.ID, 2.0, "L")
	req := newRequest(t, r, student.ID, eth.ID, 1.0)

	_, err := r.ApproveRequest(ctx, req.ID, admin.ID, "")
	require.NoError(t, err)

	// Handing out a batch of a different chemical is rejected.
	_, err = r.MarkBorrowed(ctx, req.ID, aceItem.ID, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	// Unknown inventory item.
	_, err = r.MarkBorrowed(ctx, req.ID, 999, "", "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := r.FindRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestListRequestsAndBorrowed(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	alice := createUser(t, r, "alice", models.RoleStudent)
	bob := createUser(t, r, "bob", models.RoleStudent)
	admin := createUser(t, r, "boss", models.RoleAdmin)
	eth := createChemical(t, r, "Ethanol")
	item := addStock(t, r, eth.ID, 10.0, "L")

	r1 := newRequest(t, r, alice.ID, eth.ID, 2.0)
	newRequest(t, r, bob.ID, eth.ID, 1.0)

	_, err := r.ApproveRequest(ctx, r1.ID, admin.ID, "")
	require.NoError(t, err)
	_, err = r.MarkBorrowed(ctx, r1.ID, item.ID, "", "")
	require.NoError(t, err)

	all, err := r.ListRequests(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := r.ListRequests(ctx, models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, bob.ID, pending[0].StudentID)

	mine, err := r.ListRequestsByStudent(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	out, err := r.ListBorrowed(ctx, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, r1.ID, out[0].ID)

	outBob, err := r.ListBorrowed(ctx, &bob.ID)
	require.NoError(t, err)
	assert.Empty(t, outBob)
}
