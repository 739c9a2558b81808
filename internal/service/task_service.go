package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/repository"
)

var (
	ErrInvalidTaskInput = errors.New("invalid task input")
	ErrNotAssignee      = errors.New("not the assigned staff")
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

// TaskStore is the slice of the task repository the service needs.
type TaskStore interface {
	Create(ctx context.Context, p repository.CreateTaskParams) (*domain.DeliveryTask, error)
	GetByID(ctx context.Context, id int64) (*domain.DeliveryTask, error)
	SetStatus(ctx context.Context, id int64, from, to domain.TaskStatus) error
	ListByAssignee(ctx context.Context, staffID int64) ([]domain.DeliveryTask, error)
	ListRecent(ctx context.Context, limit int) ([]domain.DeliveryTask, error)
}

type TaskService struct {
	Tasks TaskStore
	Users UserStore
	Logs  AuditLogger
}

type AssignTaskInput struct {
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
	CreatorName    string
}

// Assign creates a delivery task. Both user references must resolve at
// creation time, and the assignee must be staff.
func (s TaskService) Assign(ctx context.Context, in AssignTaskInput) (*domain.DeliveryTask, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidTaskInput)
	}
	if in.PickupAddress == "" || in.DropAddress == "" {
		return nil, fmt.Errorf("%w: pickupAddress and dropAddress are required", ErrInvalidTaskInput)
	}

	assignee, err := s.Users.GetByID(ctx, in.AssignedTo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignedTo does not resolve to a user", ErrInvalidTaskInput)
		}
		return nil, err
	}
	if assignee.Role != domain.RoleStaff {
		return nil, fmt.Errorf("%w: assignee %s is not staff", ErrInvalidTaskInput, assignee.Name)
	}
	if _, err := s.Users.GetByID(ctx, in.CustomerUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: customerUserId does not resolve to a user", ErrInvalidTaskInput)
		}
		return nil, err
	}

	task, err := s.Tasks.Create(ctx, repository.CreateTaskParams{
		Title:          in.Title,
		AssignedTo:     in.AssignedTo,
		CustomerUserID: in.CustomerUserID,
		PickupAddress:  in.PickupAddress,
		DropAddress:    in.DropAddress,
		PickupLat:      in.PickupLat,
		PickupLng:      in.PickupLng,
		Notes:          in.Notes,
		ScheduledFor:   in.ScheduledFor,
		CreatedBy:      in.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	task.AssigneeName = assignee.Name

	if s.Logs != nil {
		_, _ = s.Logs.Create(ctx, repository.CreateActivityLogInput{
			Title:     "Task assigned",
			Message:   fmt.Sprintf("task %q assigned to %s", task.Title, assignee.Name),
			Actor:     in.CreatorName,
			Type:      domain.LogInfo,
			Timestamp: time.Now(),
		})
	}
	return task, nil
}

// Advance moves a task along assigned -> in-progress -> completed, or cancels
// a non-terminal task. Only the assignee or a manager may advance it.
func (s TaskService) Advance(ctx context.Context, taskID, actorID int64, actorRole domain.UserRole, next domain.TaskStatus) (*domain.DeliveryTask, error) {
	task, err := s.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleManager && task.AssignedTo != actorID {
		return nil, ErrNotAssignee
	}
	if !task.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, task.Status, next)
	}
	if err := s.Tasks.SetStatus(ctx, taskID, task.Status, next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Someone else moved it first.
			return nil, fmt.Errorf("%w: task status changed concurrently", ErrInvalidTransition)
		}
		return nil, err
	}
	return s.Tasks.GetByID(ctx, taskID)
}

func (s TaskService) ListByAssignee(ctx context.Context, staffID int64) ([]domain.DeliveryTask, error) {
	return s.Tasks.ListByAssignee(ctx, staffID)
}

func (s TaskService) ListRecent(ctx context.Context, limit int) ([]domain.DeliveryTask, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.Tasks.ListRecent(ctx, limit)
}
