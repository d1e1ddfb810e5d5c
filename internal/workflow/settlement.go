package workflow

import (
	"context"
	"sync"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/logger"
	"github.com/picosparking/zonaazul-admin/internal/session"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

// SettlementReview is the admin workflow over a fiscal's pending settlement
// batches: list -> open detail -> approve or reject as a whole. Status
// transitions are server-authoritative; after a decision the detail is closed
// and the pending list must be re-fetched, never patched.
type SettlementReview struct {
	settlements *zonaazul.SettlementService
	caps        session.Capabilities
	log         *logger.Logger

	mu       sync.Mutex
	selected *zonaazul.Settlement
}

func NewSettlementReview(settlements *zonaazul.SettlementService, caps session.Capabilities, log *logger.Logger) *SettlementReview {
	if log == nil {
		log = logger.New(logger.LevelInfo)
	}
	return &SettlementReview{settlements: settlements, caps: caps, log: log}
}

// LoadPending lists settlements waiting for a decision.
func (r *SettlementReview) LoadPending(ctx context.Context, fiscalID string, page, limit int) (*api.Page[zonaazul.Settlement], error) {
	if !r.caps.ReviewSettlements {
		return nil, session.ErrForbidden
	}
	return r.settlements.Pending(ctx, fiscalID, page, limit)
}

// Open fetches the full detail, line-item parkings included.
func (r *SettlementReview) Open(ctx context.Context, id string) (*zonaazul.Settlement, error) {
	if !r.caps.ReviewSettlements {
		return nil, session.ErrForbidden
	}
	settlement, err := r.settlements.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.selected = settlement
	r.mu.Unlock()
	return settlement, nil
}

func (r *SettlementReview) Selected() *zonaazul.Settlement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// Submit sends the binary decision with optional observations and closes the
// detail view. The caller re-reads the pending list (its cache was already
// invalidated) instead of trusting any local copy of the settlement.
func (r *SettlementReview) Submit(ctx context.Context, decision zonaazul.SettlementStatus, observations string) error {
	if !r.caps.ReviewSettlements {
		return session.ErrForbidden
	}
	r.mu.Lock()
	selected := r.selected
	r.mu.Unlock()
	if selected == nil {
		return ErrNotLoaded
	}

	_, err := r.settlements.Review(ctx, selected.ID, zonaazul.ReviewSettlementInput{
		Status:       decision,
		Observations: observations,
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.selected = nil
	r.mu.Unlock()
	r.log.Info("SettlementReview", "Decision submitted: settlement=%s decision=%s", selected.ID, decision)
	return nil
}
