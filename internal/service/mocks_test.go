package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/repository"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, p repository.CreateUserParams) (*domain.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByRFIDUid(ctx context.Context, uid string) (*domain.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

type MockBillStore struct {
	mock.Mock
}

func (m *MockBillStore) Create(ctx context.Context, p repository.CreateBillParams) (*domain.Bill, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillStore) GetByID(ctx context.Context, id int64) (*domain.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillStore) SetStatus(ctx context.Context, id int64, status domain.BillStatus, verifiedBy int64, notes string) error {
	args := m.Called(ctx, id, status, verifiedBy, notes)
	return args.Error(0)
}

func (m *MockBillStore) List(ctx context.Context, startDate, endDate *time.Time, limit int) ([]domain.Bill, error) {
	args := m.Called(ctx, startDate, endDate, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillStore) ListByCustomer(ctx context.Context, customerUserID int64) ([]domain.Bill, error) {
	args := m.Called(ctx, customerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

type MockAttendanceStore struct {
	mock.Mock
}

func (m *MockAttendanceStore) CheckIn(ctx context.Context, staffID int64, day time.Time, source domain.AttendanceSource, notes string) (*domain.Attendance, error) {
	args := m.Called(ctx, staffID, day, source, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}

func (m *MockAttendanceStore) CheckOut(ctx context.Context, staffID int64, day time.Time) (*domain.Attendance, error) {
	args := m.Called(ctx, staffID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}

func (m *MockAttendanceStore) HasOpen(ctx context.Context, staffID int64, day time.Time) (bool, error) {
	args := m.Called(ctx, staffID, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceStore) ListByDate(ctx context.Context, day time.Time, source *domain.AttendanceSource) ([]domain.Attendance, error) {
	args := m.Called(ctx, day, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attendance), args.Error(1)
}

func (m *MockAttendanceStore) ListMonth(ctx context.Context, month time.Time) ([]domain.Attendance, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attendance), args.Error(1)
}

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, p repository.CreateTaskParams) (*domain.DeliveryTask, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryTask), args.Error(1)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.DeliveryTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryTask), args.Error(1)
}

func (m *MockTaskStore) SetStatus(ctx context.Context, id int64, from, to domain.TaskStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockTaskStore) ListByAssignee(ctx context.Context, staffID int64) ([]domain.DeliveryTask, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeliveryTask), args.Error(1)
}

func (m *MockTaskStore) ListRecent(ctx context.Context, limit int) ([]domain.DeliveryTask, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeliveryTask), args.Error(1)
}

type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) Create(ctx context.Context, in repository.CreateActivityLogInput) (int64, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(int64), args.Error(1)
}
