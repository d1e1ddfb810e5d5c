package zonaazul

import (
	"context"
	"net/url"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/logger"
)

type SettlementStatus string

const (
	SettlementPending  SettlementStatus = "pending"
	SettlementReviewed SettlementStatus = "reviewed"
	SettlementApproved SettlementStatus = "approved"
	SettlementRejected SettlementStatus = "rejected"
)

type FiscalRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type ReviewerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SettlementParking is one line item of a settlement batch.
type SettlementParking struct {
	ID               string        `json:"id"`
	Plate            string        `json:"plate"`
	Zone             ZoneRef       `json:"zone"`
	StartTime        time.Time     `json:"startTime"`
	ExpectedEndTime  time.Time     `json:"expectedEndTime"`
	RequestedMinutes int           `json:"requestedMinutes"`
	Amount           float64       `json:"amount"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	Status           string        `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// Settlement is a periodic reconciliation batch of one fiscal's cash and PIX
// collections. It is reviewed as a whole: no partial approval.
type Settlement struct {
	ID                string              `json:"id"`
	Fiscal            FiscalRef           `json:"fiscal"`
	PeriodStart       time.Time           `json:"periodStart"`
	PeriodEnd         time.Time           `json:"periodEnd"`
	TotalParkings     int                 `json:"totalParkings"`
	TotalPixAmount    float64             `json:"totalPixAmount"`
	TotalCashAmount   float64             `json:"totalCashAmount"`
	TotalAmount       float64             `json:"totalAmount"`
	PixPaymentsCount  int                 `json:"pixPaymentsCount"`
	CashPaymentsCount int                 `json:"cashPaymentsCount"`
	Status            SettlementStatus    `json:"status"`
	ReviewedBy        *ReviewerRef        `json:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time          `json:"reviewedAt,omitempty"`
	Observations      string              `json:"observations,omitempty"`
	Parkings          []SettlementParking `json:"parkings,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

type GenerateSettlementInput struct {
	FiscalID   string `json:"fiscalId,omitempty"`
	PeriodDays int    `json:"periodDays,omitempty"`
}

type ReviewSettlementInput struct {
	Status       SettlementStatus `json:"status"`
	Observations string           `json:"observations,omitempty"`
}

type ListSettlementsQuery struct {
	Status    SettlementStatus
	FiscalID  string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

func (q ListSettlementsQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.FiscalID != "" {
		v.Set("fiscalId", q.FiscalID)
	}
	if q.StartDate != "" {
		v.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("endDate", q.EndDate)
	}
	addPagination(v, q.Page, q.Limit)
	return v
}

type SettlementService struct {
	api   *api.Client
	cache *Cache
	log   *logger.Logger
}

func (s *SettlementService) Generate(ctx context.Context, input GenerateSettlementInput) (*Settlement, error) {
	var settlement Settlement
	if err := s.api.Post(ctx, "/fiscal-settlements/generate", input, &settlement); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cacheSettlements, cachePendingReview)
	s.log.Info("Settlements", "Settlement generated: id=%s fiscal=%s total=%.2f",
		settlement.ID, settlement.Fiscal.Name, settlement.TotalAmount)
	return &settlement, nil
}

func (s *SettlementService) List(ctx context.Context, query ListSettlementsQuery) (*api.Page[Settlement], error) {
	values := query.values()
	key := cacheKey(cacheSettlements, values.Encode())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*api.Page[Settlement]), nil
	}

	var page api.Page[Settlement]
	if err := s.api.Get(ctx, "/fiscal-settlements", values, &page); err != nil {
		return nil, err
	}
	s.cache.Set(key, &page)
	return &page, nil
}

// Pending lists the settlements waiting for an admin decision.
func (s *SettlementService) Pending(ctx context.Context, fiscalID string, page, limit int) (*api.Page[Settlement], error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	v := url.Values{}
	if fiscalID != "" {
		v.Set("fiscalId", fiscalID)
	}
	addPagination(v, page, limit)

	key := cacheKey(cachePendingReview, v.Encode())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*api.Page[Settlement]), nil
	}

	var result api.Page[Settlement]
	if err := s.api.Get(ctx, "/fiscal-settlements/pending", v, &result); err != nil {
		return nil, err
	}
	s.cache.Set(key, &result)
	return &result, nil
}

func (s *SettlementService) Get(ctx context.Context, id string) (*Settlement, error) {
	var settlement Settlement
	if err := s.api.Get(ctx, "/fiscal-settlements/"+id, nil, &settlement); err != nil {
		return nil, err
	}
	return &settlement, nil
}

// Review submits the admin decision. The pending cache is dropped before the
// call reports success; the settlement's new status always comes from the
// server, never from a local patch.
func (s *SettlementService) Review(ctx context.Context, id string, input ReviewSettlementInput) (*Settlement, error) {
	if input.Status != SettlementApproved && input.Status != SettlementRejected {
		return nil, validationErr("Decisão inválida: aprove ou rejeite a prestação")
	}
	var settlement Settlement
	if err := s.api.Post(ctx, "/fiscal-settlements/"+id+"/review", input, &settlement); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cachePendingReview, cacheSettlements)
	s.log.Info("Settlements", "Settlement reviewed: id=%s decision=%s", id, input.Status)
	return &settlement, nil
}
