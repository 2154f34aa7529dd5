package models

import "time"

const (
	RequestTable = "chem_requests"
	HistoryTable = "chem_borrow_history"
)

// Request lifecycle. Legal edges: pending→approved, pending→rejected,
// approved→borrowed, borrowed→returned. rejected and returned are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusBorrowed = "borrowed"
	StatusReturned = "returned"
)

type ChemicalRequest struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	StudentID         uint    `gorm:"index;not null" json:"studentId"`
	ChemicalID        uint    `gorm:"index;not null" json:"chemicalId"`
	QuantityRequested float64 `gorm:"not null" json:"quantityRequested"`
	Unit              string  `gorm:"size:20;not null" json:"unit"`
	Purpose           string  `gorm:"size:500;not null" json:"purpose"`

	RequiredDate       *time.Time `gorm:"type:date" json:"requiredDate,omitempty"`
	ExpectedReturnDate *time.Time `gorm:"type:date" json:"expectedReturnDate,omitempty"`
	ActualReturnDate   *time.Time `gorm:"type:date" json:"actualReturnDate,omitempty"`

	Status          string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ApprovedBy      *uint      `json:"approvedBy,omitempty"`
	ApprovalDate    *time.Time `json:"approvalDate,omitempty"`
	RejectionReason string     `gorm:"size:500" json:"rejectionReason,omitempty"`
	AdminNotes      string     `gorm:"size:500" json:"adminNotes,omitempty"`

	Student  *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Chemical *Chemical `gorm:"foreignKey:ChemicalID" json:"chemical,omitempty"`
	Approver *User     `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ChemicalRequest) TableName() string { return RequestTable }

// BorrowHistory is 1:1 with a request ever having reached "borrowed".
// Append-only except for the return-time fields.
type BorrowHistory struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	RequestID        uint    `gorm:"uniqueIndex;not null" json:"requestId"`
	StudentID        uint    `gorm:"index;not null" json:"studentId"`
	ChemicalID       uint    `gorm:"index;not null" json:"chemicalId"`
	QuantityBorrowed float64 `gorm:"not null" json:"quantityBorrowed"`
	Unit             string  `gorm:"size:20;not null" json:"unit"`

	BorrowDate         time.Time  `gorm:"index;not null" json:"borrowDate"`
	ExpectedReturnDate *time.Time `gorm:"type:date" json:"expectedReturnDate,omitempty"`
	ActualReturnDate   *time.Time `json:"actualReturnDate,omitempty"`

	ConditionAtBorrow string `gorm:"size:255" json:"conditionAtBorrow,omitempty"`
	ConditionAtReturn string `gorm:"size:255" json:"conditionAtReturn,omitempty"`

	InventoryID *uint  `gorm:"index" json:"inventoryId,omitempty"`
	Notes       string `gorm:"size:500" json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BorrowHistory) TableName() string { return HistoryTable }
