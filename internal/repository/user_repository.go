package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"rubberops-backend/internal/db"
	"rubberops-backend/internal/domain"
)

type UserRepository struct {
	DB *db.Postgres
}

type CreateUserParams struct {
	Name         string
	Email        string
	Phone        string
	Role         domain.UserRole
	StaffID      *string
	PasswordHash *string
}

func (r UserRepository) Create(ctx context.Context, p CreateUserParams) (*domain.User, error) {
	query := `
		INSERT INTO users (name, email, phone, role, staff_id, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, now(), now())
		RETURNING id, name, email, phone, role, staff_id, rfid_uid, password_hash, created_at, updated_at
	`
	row := r.DB.Pool.QueryRow(ctx, query, p.Name, p.Email, p.Phone, p.Role, p.StaffID, p.PasswordHash)
	return scanUser(row)
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone, role, staff_id, rfid_uid, password_hash, created_at, updated_at
		FROM users
		WHERE email=$1 AND deleted_at IS NULL
	`
	return r.getOne(ctx, query, email)
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone, role, staff_id, rfid_uid, password_hash, created_at, updated_at
		FROM users
		WHERE id=$1 AND deleted_at IS NULL
	`
	return r.getOne(ctx, query, id)
}

// GetByRFIDUid resolves a badge scan to its user.
func (r UserRepository) GetByRFIDUid(ctx context.Context, uid string) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone, role, staff_id, rfid_uid, password_hash, created_at, updated_at
		FROM users
		WHERE rfid_uid=$1 AND deleted_at IS NULL
	`
	return r.getOne(ctx, query, uid)
}

func (r UserRepository) ListStaff(ctx context.Context) ([]domain.User, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, email, phone, role, staff_id, rfid_uid, password_hash, created_at, updated_at
		FROM users
		WHERE role=$1 AND deleted_at IS NULL
		ORDER BY name ASC
	`, domain.RoleStaff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// AssignRFID attaches (or replaces) the RFID badge uid on a user. The partial
// unique index rejects a uid already attached elsewhere.
func (r UserRepository) AssignRFID(ctx context.Context, userID int64, uid string) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE users SET rfid_uid=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, userID, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE users SET password_hash=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, query, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&role,
		&u.StaffID,
		&u.RFIDUid,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}
