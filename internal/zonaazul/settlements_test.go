package zonaazul_test

import (
	"context"
	"testing"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/apitest"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

func seedSettlement(srv *apitest.Server, id string, status zonaazul.SettlementStatus) {
	now := time.Now()
	srv.Settlements[id] = &zonaazul.Settlement{
		ID:          id,
		Fiscal:      zonaazul.FiscalRef{ID: "fiscal-1", Name: "João Fiscal"},
		PeriodStart: now.AddDate(0, 0, -7),
		PeriodEnd:   now,
		TotalAmount: 150,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestReviewRejectsNonBinaryDecision(t *testing.T) {
	for _, status := range []zonaazul.SettlementStatus{zonaazul.SettlementPending, zonaazul.SettlementReviewed, ""} {
		srv, services := newServices(t)
		seedSettlement(srv, "settlement-1", zonaazul.SettlementPending)

		_, err := services.Settlements.Review(context.Background(), "settlement-1", zonaazul.ReviewSettlementInput{Status: status})
		assertValidation(t, err, "Decisão inválida: aprove ou rejeite a prestação")
		if srv.TotalRequests() != 0 {
			t.Errorf("decision %q reached the server", status)
		}
	}
}

func TestReviewInvalidatesPendingList(t *testing.T) {
	srv, services := newServices(t)
	seedSettlement(srv, "settlement-1", zonaazul.SettlementPending)

	ctx := context.Background()
	pending, err := services.Settlements.Pending(ctx, "", 0, 0)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending.Data) != 1 {
		t.Fatalf("len(pending) = %d, want 1", len(pending.Data))
	}

	reviewed, err := services.Settlements.Review(ctx, "settlement-1", zonaazul.ReviewSettlementInput{
		Status:       zonaazul.SettlementApproved,
		Observations: "Valores conferem",
	})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if reviewed.Status != zonaazul.SettlementApproved {
		t.Errorf("Status = %q, want approved", reviewed.Status)
	}
	if reviewed.ReviewedBy == nil || reviewed.ReviewedAt == nil {
		t.Error("review metadata missing on the returned settlement")
	}

	pending, err = services.Settlements.Pending(ctx, "", 0, 0)
	if err != nil {
		t.Fatalf("Pending after review: %v", err)
	}
	if len(pending.Data) != 0 {
		t.Errorf("len(pending) = %d after approval, stale pending cache", len(pending.Data))
	}
	if got := srv.Requests("GET /fiscal-settlements/pending"); got != 2 {
		t.Errorf("server saw %d pending requests, want 2", got)
	}
}

func TestGenerateSettlement(t *testing.T) {
	srv, services := newServices(t)

	settlement, err := services.Settlements.Generate(context.Background(), zonaazul.GenerateSettlementInput{
		FiscalID:   "fiscal-1",
		PeriodDays: 7,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if settlement.Status != zonaazul.SettlementPending {
		t.Errorf("Status = %q, want pending", settlement.Status)
	}
	if _, ok := srv.Settlements[settlement.ID]; !ok {
		t.Error("settlement not stored server-side")
	}
}

func TestReviewedSettlementCannotBeReviewedAgain(t *testing.T) {
	srv, services := newServices(t)
	seedSettlement(srv, "settlement-1", zonaazul.SettlementApproved)

	_, err := services.Settlements.Review(context.Background(), "settlement-1", zonaazul.ReviewSettlementInput{
		Status: zonaazul.SettlementRejected,
	})
	if err == nil {
		t.Fatal("second review accepted")
	}
	if got := srv.Settlements["settlement-1"].Status; got != zonaazul.SettlementApproved {
		t.Errorf("server status = %q, first decision overwritten", got)
	}
}
