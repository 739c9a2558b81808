package repository

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"rubberops-backend/internal/domain"
)

// SeedManager inserts a bootstrap manager account when none exists, so a fresh
// deployment can log in and create the rest of the users.
func (r UserRepository) SeedManager(ctx context.Context, email, password string) error {
	var count int
	if err := r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM users WHERE role=$1 AND deleted_at IS NULL
	`, domain.RoleManager).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.DB.Pool.Exec(ctx, `
		INSERT INTO users (name, email, role, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4, now(), now())
		ON CONFLICT DO NOTHING
	`, "Operations Manager", email, domain.RoleManager, string(hash))
	return err
}
