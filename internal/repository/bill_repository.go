package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"rubberops-backend/internal/db"
	"rubberops-backend/internal/domain"
)

type BillRepository struct {
	DB *db.Postgres
}

type CreateBillParams struct {
	CustomerUserID  *int64
	CustomerName    string
	CustomerPhone   string
	SampleID        string
	DRCPercent      float64
	BarrelCount     int
	LatexVolume     float64
	MarketRate      float64
	TotalAmount     float64
	AccountantNotes string
	CreatedBy       int64
}

func (r BillRepository) Create(ctx context.Context, p CreateBillParams) (*domain.Bill, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('bill_number_seq')`).Scan(&seq); err != nil {
		return nil, err
	}
	number := fmt.Sprintf("RB-%d-%05d", time.Now().Year(), seq)

	var b domain.Bill
	err = tx.QueryRow(ctx, `
		INSERT INTO bills
		(bill_number, customer_user_id, customer_name, customer_phone, sample_id,
		 drc_percent, barrel_count, latex_volume, market_rate, total_amount,
		 status, accountant_notes, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, now(), now())
		RETURNING id, created_at, updated_at
	`, number, p.CustomerUserID, p.CustomerName, p.CustomerPhone, p.SampleID,
		p.DRCPercent, p.BarrelCount, p.LatexVolume, p.MarketRate, p.TotalAmount,
		domain.BillPending, p.AccountantNotes, p.CreatedBy).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	b.BillNumber = number
	b.CustomerUserID = p.CustomerUserID
	b.CustomerName = p.CustomerName
	b.CustomerPhone = p.CustomerPhone
	b.SampleID = p.SampleID
	b.DRCPercent = p.DRCPercent
	b.BarrelCount = p.BarrelCount
	b.LatexVolume = p.LatexVolume
	b.MarketRate = p.MarketRate
	b.TotalAmount = p.TotalAmount
	b.Status = domain.BillPending
	b.AccountantNotes = p.AccountantNotes
	b.CreatedBy = &p.CreatedBy
	return &b, nil
}

func (r BillRepository) GetByID(ctx context.Context, id int64) (*domain.Bill, error) {
	row := r.DB.Pool.QueryRow(ctx, billSelect+` WHERE id=$1 AND deleted_at IS NULL`, id)
	bill, err := scanBill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return bill, nil
}

// SetStatus records a manager decision on a pending bill. Returns ErrNotFound
// when the bill is missing or no longer pending, so callers can distinguish a
// stale transition from success.
func (r BillRepository) SetStatus(ctx context.Context, id int64, status domain.BillStatus, verifiedBy int64, notes string) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE bills
		SET status=$2, verified_by=$3, verified_at=now(), accountant_notes=$4, updated_at=now()
		WHERE id=$1 AND status=$5 AND deleted_at IS NULL
	`, id, status, verifiedBy, notes, domain.BillPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r BillRepository) List(ctx context.Context, startDate, endDate *time.Time, limit int) ([]domain.Bill, error) {
	if limit <= 0 {
		limit = 200
	}
	query := billSelect + ` WHERE deleted_at IS NULL`
	args := []any{}
	if startDate != nil {
		args = append(args, *startDate)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if endDate != nil {
		args = append(args, endDate.AddDate(0, 0, 1))
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))
	return r.list(ctx, query, args...)
}

func (r BillRepository) ListByCustomer(ctx context.Context, customerUserID int64) ([]domain.Bill, error) {
	return r.list(ctx, billSelect+`
		WHERE customer_user_id=$1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
	`, customerUserID)
}

func (r BillRepository) list(ctx context.Context, query string, args ...any) ([]domain.Bill, error) {
	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

const billSelect = `
	SELECT id, bill_number, customer_user_id, customer_name, customer_phone, sample_id,
	       drc_percent, barrel_count, latex_volume, market_rate, total_amount,
	       status, accountant_notes, created_by, verified_by, verified_at, created_at, updated_at
	FROM bills`

func scanBill(row interface {
	Scan(dest ...any) error
}) (*domain.Bill, error) {
	var (
		b      domain.Bill
		status string
	)
	if err := row.Scan(
		&b.ID,
		&b.BillNumber,
		&b.CustomerUserID,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.SampleID,
		&b.DRCPercent,
		&b.BarrelCount,
		&b.LatexVolume,
		&b.MarketRate,
		&b.TotalAmount,
		&status,
		&b.AccountantNotes,
		&b.CreatedBy,
		&b.VerifiedBy,
		&b.VerifiedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Status = domain.BillStatus(status)
	return &b, nil
}
