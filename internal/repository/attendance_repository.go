package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"rubberops-backend/internal/db"
	"rubberops-backend/internal/domain"
)

type AttendanceRepository struct {
	DB *db.Postgres
}

// CheckIn opens a session for staff on the given day. The partial unique index
// on (staff_id, attendance_date) for open rows makes the second concurrent
// writer fail with a unique violation instead of inserting a duplicate.
func (r AttendanceRepository) CheckIn(ctx context.Context, staffID int64, day time.Time, source domain.AttendanceSource, notes string) (*domain.Attendance, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO attendance (staff_id, attendance_date, check_in, status, source, notes, created_at)
		VALUES ($1, $2, now(), $3, $4, $5, now())
		RETURNING id, staff_id, attendance_date, check_in, check_out, status, source, notes, created_at
	`, staffID, day.Format(dateLayout), domain.AttendancePresent, source, notes)
	return scanAttendance(row)
}

// CheckOut closes the open session for staff on the given day. Returns
// ErrNotFound when no session is open.
func (r AttendanceRepository) CheckOut(ctx context.Context, staffID int64, day time.Time) (*domain.Attendance, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE attendance SET check_out = now()
		WHERE staff_id=$1 AND attendance_date=$2 AND check_out IS NULL
		RETURNING id, staff_id, attendance_date, check_in, check_out, status, source, notes, created_at
	`, staffID, day.Format(dateLayout))
	a, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// HasOpen reports whether staff has an open session on the given day.
func (r AttendanceRepository) HasOpen(ctx context.Context, staffID int64, day time.Time) (bool, error) {
	var open bool
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM attendance
			WHERE staff_id=$1 AND attendance_date=$2 AND check_out IS NULL
		)
	`, staffID, day.Format(dateLayout)).Scan(&open)
	return open, err
}

// ListByDate returns all records for a day with staff display fields resolved,
// optionally filtered by check-in source.
func (r AttendanceRepository) ListByDate(ctx context.Context, day time.Time, source *domain.AttendanceSource) ([]domain.Attendance, error) {
	query := `
		SELECT a.id, a.staff_id, u.name, u.staff_id, a.attendance_date, a.check_in, a.check_out,
		       a.status, a.source, a.notes, a.created_at
		FROM attendance a
		JOIN users u ON u.id = a.staff_id
		WHERE a.attendance_date = $1
	`
	args := []any{day.Format(dateLayout)}
	if source != nil {
		args = append(args, *source)
		query += ` AND a.source = $2`
	}
	query += ` ORDER BY a.check_in ASC, a.id ASC`
	return r.listResolved(ctx, query, args...)
}

// ListMonth returns all records within the calendar month, for reports.
func (r AttendanceRepository) ListMonth(ctx context.Context, month time.Time) ([]domain.Attendance, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return r.listResolved(ctx, `
		SELECT a.id, a.staff_id, u.name, u.staff_id, a.attendance_date, a.check_in, a.check_out,
		       a.status, a.source, a.notes, a.created_at
		FROM attendance a
		JOIN users u ON u.id = a.staff_id
		WHERE a.attendance_date >= $1
		  AND a.attendance_date < $1 + interval '1 month'
		ORDER BY a.attendance_date ASC, a.check_in ASC
	`, start)
}

func (r AttendanceRepository) listResolved(ctx context.Context, query string, args ...any) ([]domain.Attendance, error) {
	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Attendance
	for rows.Next() {
		var (
			a      domain.Attendance
			status string
			source string
		)
		if err := rows.Scan(&a.ID, &a.StaffID, &a.StaffName, &a.StaffCode, &a.Date,
			&a.CheckIn, &a.CheckOut, &status, &source, &a.Notes, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Status = domain.AttendanceStatus(status)
		a.Source = domain.AttendanceSource(source)
		items = append(items, a)
	}
	return items, rows.Err()
}

const dateLayout = "2006-01-02"

func scanAttendance(row interface {
	Scan(dest ...any) error
}) (*domain.Attendance, error) {
	var (
		a      domain.Attendance
		status string
		source string
	)
	if err := row.Scan(&a.ID, &a.StaffID, &a.Date, &a.CheckIn, &a.CheckOut,
		&status, &source, &a.Notes, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Status = domain.AttendanceStatus(status)
	a.Source = domain.AttendanceSource(source)
	return &a, nil
}
