package repository

import (
	"context"

	"rubberops-backend/internal/db"
)

type DashboardRepository struct {
	DB *db.Postgres
}

type DashboardSummary struct {
	PendingBills      int64
	VerifiedBills     int64
	TodayBilledAmount float64
	PresentStaffToday int64
	OpenTasks         int64
}

// Summary aggregates the figures the manager dashboard shows for today.
func (r DashboardRepository) Summary(ctx context.Context) (DashboardSummary, error) {
	var s DashboardSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending')  AS pending_bills,
			COUNT(*) FILTER (WHERE status = 'verified') AS verified_bills,
			COALESCE(SUM(total_amount) FILTER (WHERE created_at::date = CURRENT_DATE), 0) AS today_billed
		FROM bills
		WHERE deleted_at IS NULL
	`).Scan(&s.PendingBills, &s.VerifiedBills, &s.TodayBilledAmount)
	if err != nil {
		return s, err
	}

	err = r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT staff_id)
		FROM attendance
		WHERE attendance_date = CURRENT_DATE AND status = 'present'
	`).Scan(&s.PresentStaffToday)
	if err != nil {
		return s, err
	}

	err = r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM delivery_tasks
		WHERE deleted_at IS NULL AND status IN ('assigned', 'in-progress')
	`).Scan(&s.OpenTasks)
	return s, err
}
