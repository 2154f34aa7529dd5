package app

import (
	"context"
	"log"

	"chemlab_inventory/config"
	"chemlab_inventory/db"
	"chemlab_inventory/models"

	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstAdmin creates the initial admin account from environment
// configuration when no admin exists yet.
func BootstrapFirstAdmin(ctx context.Context, cfg config.Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Printf("bootstrap: count admins: %v", err)
		return
	}
	if n > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("bootstrap: hash password: %v", err)
		return
	}
	u := &models.User{
		Username:     cfg.BootstrapEmail,
		Email:        cfg.BootstrapEmail,
		PasswordHash: string(hash),
		FullName:     "Lab Administrator",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap: create admin: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] created first admin %s (id=%d)", u.Email, u.ID)
}
