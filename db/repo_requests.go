package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chemlab_inventory/models"

	"gorm.io/gorm"
)

// Request workflow. Every transition runs in one transaction with the
// request (or chemical) row locked, so the status guard and the availability
// check hold until commit. Notifications go out after commit and are best
// effort: a failed insert never rolls back the transition.

type CreateRequestInput struct {
	StudentID          uint
	ChemicalID         uint
	QuantityRequested  float64
	Unit               string
	Purpose            string
	RequiredDate       *time.Time
	ExpectedReturnDate *time.Time
}

func (r *Repo) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.ChemicalRequest, error) {
	if in.QuantityRequested <= 0 {
		return nil, fmt.Errorf("%w: quantity_requested must be positive", ErrValidation)
	}
	if strings.TrimSpace(in.Unit) == "" {
		return nil, fmt.Errorf("%w: unit is required", ErrValidation)
	}
	if strings.TrimSpace(in.Purpose) == "" {
		return nil, fmt.Errorf("%w: purpose is required", ErrValidation)
	}

	req := &models.ChemicalRequest{
		StudentID:          in.StudentID,
		ChemicalID:         in.ChemicalID,
		QuantityRequested:  in.QuantityRequested,
		Unit:               in.Unit,
		Purpose:            in.Purpose,
		RequiredDate:       in.RequiredDate,
		ExpectedReturnDate: in.ExpectedReturnDate,
		Status:             models.StatusPending,
	}

	var chem models.Chemical
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Locking the chemical row serializes concurrent requests for the
		// same chemical, so two callers cannot both pass the check below.
		if err := lockForUpdate(tx).First(&chem, "id = ?", in.ChemicalID).Error; err != nil {
			return err
		}
		av, err := availability(tx, in.ChemicalID)
		if err != nil {
			return err
		}
		if in.QuantityRequested > av.Available {
			return fmt.Errorf("%w: requested %.2f %s, available %.2f",
				ErrInsufficientStock, in.QuantityRequested, in.Unit, av.Available)
		}
		return tx.Create(req).Error
	})
	if err != nil {
		return nil, err
	}

	r.notifyAdmins(ctx, "New Chemical Request",
		fmt.Sprintf("A student requested %.2f %s of %s.", req.QuantityRequested, req.Unit, chem.Name),
		models.NotifRequestCreated, req.ID)
	return req, nil
}

func (r *Repo) ApproveRequest(ctx context.Context, requestID, adminID uint, adminNotes string) (*models.ChemicalRequest, error) {
	req, err := r.transition(ctx, requestID, models.StatusPending, func(tx *gorm.DB, req *models.ChemicalRequest) error {
		now := time.Now().UTC()
		return tx.Model(req).Updates(map[string]interface{}{
			"status":        models.StatusApproved,
			"approved_by":   adminID,
			"approval_date": now,
			"admin_notes":   adminNotes,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	r.notifyStudent(ctx, req, "Request Approved",
		fmt.Sprintf("Your chemical request #%d has been approved.", req.ID),
		models.NotifRequestApproved)
	return req, nil
}

func (r *Repo) RejectRequest(ctx context.Context, requestID, adminID uint, reason string) (*models.ChemicalRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection_reason is required", ErrValidation)
	}

	req, err := r.transition(ctx, requestID, models.StatusPending, func(tx *gorm.DB, req *models.ChemicalRequest) error {
		now := time.Now().UTC()
		return tx.Model(req).Updates(map[string]interface{}{
			"status":           models.StatusRejected,
			"approved_by":      adminID,
			"approval_date":    now,
			"rejection_reason": reason,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	r.notifyStudent(ctx, req, "Request Rejected",
		fmt.Sprintf("Your chemical request #%d has been rejected: %s", req.ID, reason),
		models.NotifRequestRejected)
	return req, nil
}

func (r *Repo) MarkBorrowed(ctx context.Context, requestID, inventoryID uint, conditionAtBorrow, notes string) (*models.ChemicalRequest, error) {
	req, err := r.transition(ctx, requestID, models.StatusApproved, func(tx *gorm.DB, req *models.ChemicalRequest) error {
		var item models.InventoryItem
		if err := tx.First(&item, "id = ?", inventoryID).Error; err != nil {
			return err
		}
		if item.ChemicalID != req.ChemicalID {
			return fmt.Errorf("%w: inventory item %d holds a different chemical", ErrValidation, inventoryID)
		}

		if err := tx.Model(req).Update("status", models.StatusBorrowed).Error; err != nil {
			return err
		}
		hist := models.BorrowHistory{
			RequestID:          req.ID,
			StudentID:          req.StudentID,
			ChemicalID:         req.ChemicalID,
			QuantityBorrowed:   req.QuantityRequested,
			Unit:               req.Unit,
			BorrowDate:         time.Now().UTC(),
			ExpectedReturnDate: req.ExpectedReturnDate,
			ConditionAtBorrow:  conditionAtBorrow,
			InventoryID:        &inventoryID,
			Notes:              notes,
		}
		return tx.Create(&hist).Error
	})
	if err != nil {
		return nil, err
	}

	r.notifyStudent(ctx, req, "Chemical Borrowed",
		fmt.Sprintf("Request #%d is now marked as borrowed. Expected return: %s.",
			req.ID, dateOrDash(req.ExpectedReturnDate)),
		models.NotifRequestBorrowed)
	return req, nil
}

func (r *Repo) MarkReturned(ctx context.Context, requestID uint, conditionAtReturn, notes string) (*models.ChemicalRequest, error) {
	req, err := r.transition(ctx, requestID, models.StatusBorrowed, func(tx *gorm.DB, req *models.ChemicalRequest) error {
		now := time.Now().UTC()
		if err := tx.Model(req).Updates(map[string]interface{}{
			"status":             models.StatusReturned,
			"actual_return_date": now,
		}).Error; err != nil {
			return err
		}
		// Exactly one history row exists per borrowed request; update it in
		// place rather than appending a second one.
		update := map[string]interface{}{
			"actual_return_date":  now,
			"condition_at_return": conditionAtReturn,
		}
		if strings.TrimSpace(notes) != "" {
			update["notes"] = notes
		}
		res := tx.Model(&models.BorrowHistory{}).
			Where("request_id = ?", req.ID).
			Updates(update)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.notifyStudent(ctx, req, "Return Recorded",
		fmt.Sprintf("Request #%d has been marked as returned. Thank you.", req.ID),
		models.NotifRequestReturned)
	return req, nil
}

// transition loads and locks the request, guards the current status and runs
// mutate inside the same transaction. The refreshed request is returned.
func (r *Repo) transition(ctx context.Context, requestID uint, fromStatus string, mutate func(tx *gorm.DB, req *models.ChemicalRequest) error) (*models.ChemicalRequest, error) {
	var req models.ChemicalRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&req, "id = ?", requestID).Error; err != nil {
			return err
		}
		if req.Status != fromStatus {
			return fmt.Errorf("%w: request %d is %s, not %s",
				ErrInvalidTransition, requestID, req.Status, fromStatus)
		}
		if err := mutate(tx, &req); err != nil {
			return err
		}
		// Re-read so callers see exactly what was committed.
		return tx.First(&req, "id = ?", requestID).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

// Queries

func (r *Repo) FindRequestByID(ctx context.Context, id uint) (*models.ChemicalRequest, error) {
	var req models.ChemicalRequest
	if err := r.DB.WithContext(ctx).
		Preload("Student").
		Preload("Chemical").
		Preload("Approver").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListRequests returns all requests, optionally filtered by status.
func (r *Repo) ListRequests(ctx context.Context, status string) ([]models.ChemicalRequest, error) {
	q := r.DB.WithContext(ctx).
		Preload("Student").
		Preload("Chemical").
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reqs []models.ChemicalRequest
	err := q.Find(&reqs).Error
	return reqs, err
}

func (r *Repo) ListRequestsByStudent(ctx context.Context, studentID uint) ([]models.ChemicalRequest, error) {
	var reqs []models.ChemicalRequest
	err := r.DB.WithContext(ctx).
		Preload("Chemical").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// ListBorrowed returns requests currently out, for one student or for all.
func (r *Repo) ListBorrowed(ctx context.Context, studentID *uint) ([]models.ChemicalRequest, error) {
	q := r.DB.WithContext(ctx).
		Preload("Student").
		Preload("Chemical").
		Where("status = ?", models.StatusBorrowed).
		Order("expected_return_date")
	if studentID != nil {
		q = q.Where("student_id = ?", *studentID)
	}
	var reqs []models.ChemicalRequest
	err := q.Find(&reqs).Error
	return reqs, err
}

func (r *Repo) ListBorrowHistory(ctx context.Context, studentID *uint) ([]models.BorrowHistory, error) {
	q := r.DB.WithContext(ctx).Order("borrow_date DESC")
	if studentID != nil {
		q = q.Where("student_id = ?", *studentID)
	}
	var hs []models.BorrowHistory
	err := q.Find(&hs).Error
	return hs, err
}

func (r *Repo) FindBorrowHistoryByRequest(ctx context.Context, requestID uint) (*models.BorrowHistory, error) {
	var h models.BorrowHistory
	if err := r.DB.WithContext(ctx).Where("request_id = ?", requestID).First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}
