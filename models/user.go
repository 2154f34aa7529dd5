package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

const UserTable = "chem_users"

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FullName     string `gorm:"size:255;not null" json:"fullName"`
	Role         string `gorm:"size:20;not null;default:'student'" json:"role"`

	StudentID   string `gorm:"size:64" json:"studentId,omitempty"`
	Department  string `gorm:"size:120" json:"department,omitempty"`
	PhoneNumber string `gorm:"size:32" json:"phoneNumber,omitempty"`

	IsActive    bool       `gorm:"not null;default:true" json:"isActive"`
	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
