package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/repository"
)

func TestComputeTotal(t *testing.T) {
	// 1200 L at 12% DRC and rate 110 is 144 dry kg at 110.
	assert.Equal(t, 15840.0, ComputeTotal(1200, 12, 110))

	// Deterministic: re-deriving reproduces the value exactly.
	a := ComputeTotal(873.4, 31.7, 104.25)
	b := ComputeTotal(873.4, 31.7, 104.25)
	assert.Equal(t, a, b)

	// Non-negative for valid inputs and rounded to two decimals.
	got := ComputeTotal(10.5, 33.3, 99.99)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.InDelta(t, 349.62, got, 0.001)
}

func TestCreateBillRejectsInvalidInput(t *testing.T) {
	svc := BillService{}

	cases := []CreateBillInput{
		{CustomerName: "", LatexVolume: 100, DRCPercent: 30, MarketRate: 100},
		{CustomerName: "A", LatexVolume: 0, DRCPercent: 30, MarketRate: 100},
		{CustomerName: "A", LatexVolume: -5, DRCPercent: 30, MarketRate: 100},
		{CustomerName: "A", LatexVolume: 100, DRCPercent: 0, MarketRate: 100},
		{CustomerName: "A", LatexVolume: 100, DRCPercent: 120, MarketRate: 100},
		{CustomerName: "A", LatexVolume: 100, DRCPercent: 30, MarketRate: 0},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidBillInput, "%+v", in)
	}
}

func TestCreateBillComputesTotal(t *testing.T) {
	bills := new(MockBillStore)
	users := new(MockUserStore)
	svc := BillService{Bills: bills, Users: users}

	customerID := int64(7)
	users.On("GetByID", mock.Anything, customerID).Return(&domain.User{ID: customerID, Role: domain.RoleCustomer}, nil)
	bills.On("Create", mock.Anything, mock.MatchedBy(func(p repository.CreateBillParams) bool {
		return p.TotalAmount == 15840.0 && p.CustomerName == "Latex Traders"
	})).Return(&domain.Bill{ID: 1, BillNumber: "RB-2026-00001", TotalAmount: 15840, Status: domain.BillPending}, nil)

	bill, err := svc.Create(context.Background(), CreateBillInput{
		CustomerUserID: &customerID,
		CustomerName:   "Latex Traders",
		LatexVolume:    1200,
		DRCPercent:     12,
		MarketRate:     110,
		CreatedBy:      3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BillPending, bill.Status)
	assert.Equal(t, 15840.0, bill.TotalAmount)
	bills.AssertExpectations(t)
}

func TestCreateBillUnknownCustomer(t *testing.T) {
	bills := new(MockBillStore)
	users := new(MockUserStore)
	svc := BillService{Bills: bills, Users: users}

	customerID := int64(99)
	users.On("GetByID", mock.Anything, customerID).Return(nil, repository.ErrNotFound)

	_, err := svc.Create(context.Background(), CreateBillInput{
		CustomerUserID: &customerID,
		CustomerName:   "Ghost",
		LatexVolume:    100,
		DRCPercent:     30,
		MarketRate:     100,
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	bills.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVerifyPendingBill(t *testing.T) {
	bills := new(MockBillStore)
	logs := new(MockAuditLogger)
	svc := BillService{Bills: bills, Logs: logs}

	pending := &domain.Bill{ID: 5, BillNumber: "RB-2026-00005", Status: domain.BillPending, AccountantNotes: "ok"}
	verified := &domain.Bill{ID: 5, BillNumber: "RB-2026-00005", Status: domain.BillVerified}
	bills.On("GetByID", mock.Anything, int64(5)).Return(pending, nil).Once()
	bills.On("SetStatus", mock.Anything, int64(5), domain.BillVerified, int64(2), "ok").Return(nil)
	bills.On("GetByID", mock.Anything, int64(5)).Return(verified, nil).Once()
	logs.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)

	bill, err := svc.Verify(context.Background(), 5, domain.BillVerified, 2, "Manager M", "")
	require.NoError(t, err)
	assert.Equal(t, domain.BillVerified, bill.Status)
	bills.AssertExpectations(t)
	logs.AssertExpectations(t)
}

func TestVerifyClosedTransitionSet(t *testing.T) {
	bills := new(MockBillStore)
	svc := BillService{Bills: bills}

	// Terminal statuses never transition again.
	bills.On("GetByID", mock.Anything, int64(6)).Return(&domain.Bill{ID: 6, Status: domain.BillVerified}, nil)
	_, err := svc.Verify(context.Background(), 6, domain.BillRejected, 2, "Manager M", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Only verified/rejected are valid targets.
	_, err = svc.Verify(context.Background(), 6, domain.BillPending, 2, "Manager M", "")
	assert.ErrorIs(t, err, ErrInvalidBillInput)

	bills.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyUnknownBill(t *testing.T) {
	bills := new(MockBillStore)
	svc := BillService{Bills: bills}

	bills.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)
	_, err := svc.Verify(context.Background(), 404, domain.BillVerified, 2, "Manager M", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
