package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/repository"
)

var (
	ErrInvalidBillInput  = errors.New("invalid bill input")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// BillStore is the slice of the bill repository the service needs.
type BillStore interface {
	Create(ctx context.Context, p repository.CreateBillParams) (*domain.Bill, error)
	GetByID(ctx context.Context, id int64) (*domain.Bill, error)
	SetStatus(ctx context.Context, id int64, status domain.BillStatus, verifiedBy int64, notes string) error
	List(ctx context.Context, startDate, endDate *time.Time, limit int) ([]domain.Bill, error)
	ListByCustomer(ctx context.Context, customerUserID int64) ([]domain.Bill, error)
}

type BillService struct {
	Bills BillStore
	Users UserStore
	Logs  AuditLogger
}

type CreateBillInput struct {
	CustomerUserID  *int64
	CustomerName    string
	CustomerPhone   string
	SampleID        string
	DRCPercent      float64
	BarrelCount     int
	LatexVolume     float64
	MarketRate      float64
	AccountantNotes string
	CreatedBy       int64
}

// ComputeTotal derives the bill amount from the lab sample: dry rubber
// kilograms (volume times DRC fraction) at the market rate, rounded to two
// decimals so re-deriving from stored fields reproduces the stored value.
func ComputeTotal(latexVolume, drcPercent, marketRate float64) float64 {
	total := latexVolume * (drcPercent / 100) * marketRate
	return math.Round(total*100) / 100
}

func (s BillService) Create(ctx context.Context, in CreateBillInput) (*domain.Bill, error) {
	if in.CustomerName == "" {
		return nil, fmt.Errorf("%w: customerName is required", ErrInvalidBillInput)
	}
	if in.LatexVolume <= 0 {
		return nil, fmt.Errorf("%w: latexVolume must be positive", ErrInvalidBillInput)
	}
	if in.DRCPercent <= 0 || in.DRCPercent > 100 {
		return nil, fmt.Errorf("%w: drcPercent must be in (0, 100]", ErrInvalidBillInput)
	}
	if in.MarketRate <= 0 {
		return nil, fmt.Errorf("%w: marketRate must be positive", ErrInvalidBillInput)
	}
	if in.CustomerUserID != nil {
		if _, err := s.Users.GetByID(ctx, *in.CustomerUserID); err != nil {
			return nil, err
		}
	}

	return s.Bills.Create(ctx, repository.CreateBillParams{
		CustomerUserID:  in.CustomerUserID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		SampleID:        in.SampleID,
		DRCPercent:      in.DRCPercent,
		BarrelCount:     in.BarrelCount,
		LatexVolume:     in.LatexVolume,
		MarketRate:      in.MarketRate,
		TotalAmount:     ComputeTotal(in.LatexVolume, in.DRCPercent, in.MarketRate),
		AccountantNotes: in.AccountantNotes,
		CreatedBy:       in.CreatedBy,
	})
}

// Verify moves a pending bill to verified or rejected. The transition set is
// closed: terminal statuses never go back to pending.
func (s BillService) Verify(ctx context.Context, billID int64, status domain.BillStatus, verifiedBy int64, verifierName, notes string) (*domain.Bill, error) {
	if status != domain.BillVerified && status != domain.BillRejected {
		return nil, fmt.Errorf("%w: status must be verified or rejected", ErrInvalidBillInput)
	}

	bill, err := s.Bills.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status != domain.BillPending {
		return nil, fmt.Errorf("%w: bill is already %s", ErrInvalidTransition, bill.Status)
	}
	if notes == "" {
		notes = bill.AccountantNotes
	}
	if err := s.Bills.SetStatus(ctx, billID, status, verifiedBy, notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the race with another verifier.
			return nil, fmt.Errorf("%w: bill is no longer pending", ErrInvalidTransition)
		}
		return nil, err
	}

	if s.Logs != nil {
		_, _ = s.Logs.Create(ctx, repository.CreateActivityLogInput{
			Title:     "Bill " + string(status),
			Message:   fmt.Sprintf("bill %s marked %s", bill.BillNumber, status),
			Actor:     verifierName,
			Type:      domain.LogInfo,
			Timestamp: time.Now(),
		})
	}

	return s.Bills.GetByID(ctx, billID)
}

func (s BillService) List(ctx context.Context, startDate, endDate *time.Time, limit int) ([]domain.Bill, error) {
	return s.Bills.List(ctx, startDate, endDate, limit)
}

func (s BillService) ListForCustomer(ctx context.Context, customerUserID int64) ([]domain.Bill, error) {
	return s.Bills.ListByCustomer(ctx, customerUserID)
}
