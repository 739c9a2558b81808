package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"rubberops-backend/internal/db"
	"rubberops-backend/internal/domain"
)

type TaskRepository struct {
	DB *db.Postgres
}

type CreateTaskParams struct {
	Title          string
	AssignedTo     int64
	CustomerUserID int64
	PickupAddress  string
	DropAddress    string
	PickupLat      *float64
	PickupLng      *float64
	Notes          string
	ScheduledFor   *time.Time
	CreatedBy      int64
}

func (r TaskRepository) Create(ctx context.Context, p CreateTaskParams) (*domain.DeliveryTask, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO delivery_tasks
		(title, assigned_to, customer_user_id, pickup_address, drop_address,
		 pickup_lat, pickup_lng, status, notes, scheduled_for, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, now(), now())
		RETURNING id, created_at, updated_at
	`, p.Title, p.AssignedTo, p.CustomerUserID, p.PickupAddress, p.DropAddress,
		p.PickupLat, p.PickupLng, domain.TaskAssigned, p.Notes, p.ScheduledFor, p.CreatedBy)

	var t domain.DeliveryTask
	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Title = p.Title
	t.AssignedTo = p.AssignedTo
	t.CustomerUserID = p.CustomerUserID
	t.PickupAddress = p.PickupAddress
	t.DropAddress = p.DropAddress
	t.PickupLat = p.PickupLat
	t.PickupLng = p.PickupLng
	t.Status = domain.TaskAssigned
	t.Notes = p.Notes
	t.ScheduledFor = p.ScheduledFor
	t.CreatedBy = &p.CreatedBy
	return &t, nil
}

func (r TaskRepository) GetByID(ctx context.Context, id int64) (*domain.DeliveryTask, error) {
	row := r.DB.Pool.QueryRow(ctx, taskSelect+` WHERE t.id=$1 AND t.deleted_at IS NULL`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

// SetStatus moves a task from an expected status to the next one. The WHERE
// clause on the current status keeps concurrent advancers from both winning.
func (r TaskRepository) SetStatus(ctx context.Context, id int64, from, to domain.TaskStatus) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE delivery_tasks SET status=$3, updated_at=now()
		WHERE id=$1 AND status=$2 AND deleted_at IS NULL
	`, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r TaskRepository) ListByAssignee(ctx context.Context, staffID int64) ([]domain.DeliveryTask, error) {
	return r.list(ctx, taskSelect+`
		WHERE t.assigned_to=$1 AND t.deleted_at IS NULL
		ORDER BY t.created_at DESC, t.id DESC
	`, staffID)
}

func (r TaskRepository) ListRecent(ctx context.Context, limit int) ([]domain.DeliveryTask, error) {
	return r.list(ctx, taskSelect+`
		WHERE t.deleted_at IS NULL
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $1
	`, limit)
}

func (r TaskRepository) list(ctx context.Context, query string, args ...any) ([]domain.DeliveryTask, error) {
	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DeliveryTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

const taskSelect = `
	SELECT t.id, t.title, t.assigned_to, a.name, t.customer_user_id, c.name,
	       t.pickup_address, t.drop_address, t.pickup_lat, t.pickup_lng,
	       t.status, t.notes, t.scheduled_for, t.created_by, t.created_at, t.updated_at
	FROM delivery_tasks t
	JOIN users a ON a.id = t.assigned_to
	JOIN users c ON c.id = t.customer_user_id`

func scanTask(row interface {
	Scan(dest ...any) error
}) (*domain.DeliveryTask, error) {
	var (
		t      domain.DeliveryTask
		status string
	)
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.AssignedTo,
		&t.AssigneeName,
		&t.CustomerUserID,
		&t.CustomerName,
		&t.PickupAddress,
		&t.DropAddress,
		&t.PickupLat,
		&t.PickupLng,
		&status,
		&t.Notes,
		&t.ScheduledFor,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	return &t, nil
}
