package service

import (
	"context"
	"errors"
	"time"

	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/repository"
)

var (
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrNoOpenSession    = errors.New("no open attendance session")
	ErrUnknownBadge     = errors.New("unknown rfid badge")
)

// AttendanceStore is the slice of the attendance repository the service needs.
type AttendanceStore interface {
	CheckIn(ctx context.Context, staffID int64, day time.Time, source domain.AttendanceSource, notes string) (*domain.Attendance, error)
	CheckOut(ctx context.Context, staffID int64, day time.Time) (*domain.Attendance, error)
	HasOpen(ctx context.Context, staffID int64, day time.Time) (bool, error)
	ListByDate(ctx context.Context, day time.Time, source *domain.AttendanceSource) ([]domain.Attendance, error)
	ListMonth(ctx context.Context, month time.Time) ([]domain.Attendance, error)
}

type AttendanceService struct {
	Records AttendanceStore
	Users   UserStore
	Now     func() time.Time
}

func (s AttendanceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CheckIn opens today's session for staff. A unique violation from the store
// means an open session already exists and surfaces as ErrAlreadyCheckedIn;
// the original record is left untouched.
func (s AttendanceService) CheckIn(ctx context.Context, staffID int64, source domain.AttendanceSource, notes string) (*domain.Attendance, error) {
	rec, err := s.Records.CheckIn(ctx, staffID, s.now(), source, notes)
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	return rec, nil
}

// CheckOut closes today's open session for staff.
func (s AttendanceService) CheckOut(ctx context.Context, staffID int64) (*domain.Attendance, error) {
	rec, err := s.Records.CheckOut(ctx, staffID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}
	return rec, nil
}

// ScanResult reports what a badge scan did.
type ScanResult struct {
	Record *domain.Attendance
	Staff  *domain.User
	Action string // "check-in" or "check-out"
}

// Scan handles an RFID reader event: resolve the badge to a user, then toggle
// between check-in and check-out for today.
func (s AttendanceService) Scan(ctx context.Context, rfidUid string) (*ScanResult, error) {
	user, err := s.Users.GetByRFIDUid(ctx, rfidUid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownBadge
		}
		return nil, err
	}

	today := s.now()
	open, err := s.Records.HasOpen(ctx, user.ID, today)
	if err != nil {
		return nil, err
	}
	if open {
		rec, err := s.Records.CheckOut(ctx, user.ID, today)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Session was closed between the probe and the update.
				return nil, ErrNoOpenSession
			}
			return nil, err
		}
		return &ScanResult{Record: rec, Staff: user, Action: "check-out"}, nil
	}

	rec, err := s.Records.CheckIn(ctx, user.ID, today, domain.SourceRFID, "")
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	return &ScanResult{Record: rec, Staff: user, Action: "check-in"}, nil
}

func (s AttendanceService) ListByDate(ctx context.Context, day time.Time, source *domain.AttendanceSource) ([]domain.Attendance, error) {
	return s.Records.ListByDate(ctx, day, source)
}

func (s AttendanceService) ListMonth(ctx context.Context, month time.Time) ([]domain.Attendance, error) {
	return s.Records.ListMonth(ctx, month)
}
