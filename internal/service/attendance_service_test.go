package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/repository"
)

var fixedDay = time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedDay }

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

func TestCheckInOpensSession(t *testing.T) {
	records := new(MockAttendanceStore)
	svc := AttendanceService{Records: records, Now: fixedNow}

	want := &domain.Attendance{ID: 1, StaffID: 4, Source: domain.SourceManual, Status: domain.AttendancePresent}
	records.On("CheckIn", mock.Anything, int64(4), fixedDay, domain.SourceManual, "").Return(want, nil)

	rec, err := svc.CheckIn(context.Background(), 4, domain.SourceManual, "")
	require.NoError(t, err)
	assert.Equal(t, want, rec)
}

func TestSecondCheckInSameDayConflicts(t *testing.T) {
	records := new(MockAttendanceStore)
	svc := AttendanceService{Records: records, Now: fixedNow}

	// The store's unique index rejects the second open session; the service
	// surfaces it as a conflict and the first record is untouched.
	records.On("CheckIn", mock.Anything, int64(4), fixedDay, domain.SourceManual, "").Return(nil, uniqueViolation())

	_, err := svc.CheckIn(context.Background(), 4, domain.SourceManual, "")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestCheckOutWithoutOpenSession(t *testing.T) {
	records := new(MockAttendanceStore)
	svc := AttendanceService{Records: records, Now: fixedNow}

	records.On("CheckOut", mock.Anything, int64(4), fixedDay).Return(nil, repository.ErrNotFound)

	_, err := svc.CheckOut(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNoOpenSession)
}

func TestScanTogglesCheckInThenOut(t *testing.T) {
	records := new(MockAttendanceStore)
	users := new(MockUserStore)
	svc := AttendanceService{Records: records, Users: users, Now: fixedNow}

	staff := &domain.User{ID: 9, Name: "R. Iyer", Role: domain.RoleStaff}
	users.On("GetByRFIDUid", mock.Anything, "04AB11").Return(staff, nil)

	records.On("HasOpen", mock.Anything, int64(9), fixedDay).Return(false, nil).Once()
	records.On("CheckIn", mock.Anything, int64(9), fixedDay, domain.SourceRFID, "").
		Return(&domain.Attendance{ID: 1, StaffID: 9, Source: domain.SourceRFID}, nil).Once()

	res, err := svc.Scan(context.Background(), "04AB11")
	require.NoError(t, err)
	assert.Equal(t, "check-in", res.Action)
	assert.Equal(t, domain.SourceRFID, res.Record.Source)

	out := fixedDay.Add(8 * time.Hour)
	records.On("HasOpen", mock.Anything, int64(9), fixedDay).Return(true, nil).Once()
	records.On("CheckOut", mock.Anything, int64(9), fixedDay).
		Return(&domain.Attendance{ID: 1, StaffID: 9, Source: domain.SourceRFID, CheckOut: &out}, nil).Once()

	res, err = svc.Scan(context.Background(), "04AB11")
	require.NoError(t, err)
	assert.Equal(t, "check-out", res.Action)
	require.NotNil(t, res.Record.CheckOut)
}

func TestScanUnknownBadge(t *testing.T) {
	users := new(MockUserStore)
	svc := AttendanceService{Users: users, Now: fixedNow}

	users.On("GetByRFIDUid", mock.Anything, "FFFFFF").Return(nil, repository.ErrNotFound)

	_, err := svc.Scan(context.Background(), "FFFFFF")
	assert.ErrorIs(t, err, ErrUnknownBadge)
}
