package workflow_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/apitest"
	"github.com/picosparking/zonaazul-admin/internal/logger"
	"github.com/picosparking/zonaazul-admin/internal/session"
	"github.com/picosparking/zonaazul-admin/internal/workflow"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

func newReview(t *testing.T, role zonaazul.Role) (*apitest.Server, *workflow.SettlementReview) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	quiet := logger.NewWithOutput(logger.LevelError, io.Discard)
	client := api.New(api.Config{
		BaseURL: srv.URL,
		Logger:  quiet,
		Tokens:  api.TokenSourceFunc(srv.BearerToken),
	})
	services := zonaazul.NewServices(client, zonaazul.NewCache(time.Minute), quiet)
	return srv, workflow.NewSettlementReview(services.Settlements, session.CapabilitiesFor(role), quiet)
}

func pendingSettlement(srv *apitest.Server, id string) {
	now := time.Now()
	srv.Settlements[id] = &zonaazul.Settlement{
		ID:              id,
		Fiscal:          zonaazul.FiscalRef{ID: "fiscal-1", Name: "João Fiscal"},
		PeriodStart:     now.AddDate(0, 0, -7),
		PeriodEnd:       now,
		TotalParkings:   4,
		TotalPixAmount:  20,
		TotalCashAmount: 10,
		TotalAmount:     30,
		Status:          zonaazul.SettlementPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestReviewRequiresCapability(t *testing.T) {
	for _, role := range []zonaazul.Role{zonaazul.RoleFiscal, zonaazul.RoleDriver} {
		t.Run(string(role), func(t *testing.T) {
			srv, review := newReview(t, role)
			pendingSettlement(srv, "settlement-1")

			ctx := context.Background()
			if _, err := review.LoadPending(ctx, "", 1, 20); !errors.Is(err, session.ErrForbidden) {
				t.Errorf("LoadPending err = %v, want ErrForbidden", err)
			}
			if _, err := review.Open(ctx, "settlement-1"); !errors.Is(err, session.ErrForbidden) {
				t.Errorf("Open err = %v, want ErrForbidden", err)
			}
			if err := review.Submit(ctx, zonaazul.SettlementApproved, ""); !errors.Is(err, session.ErrForbidden) {
				t.Errorf("Submit err = %v, want ErrForbidden", err)
			}
			if srv.TotalRequests() != 0 {
				t.Error("capability gate leaked a request")
			}
		})
	}
}

func TestSubmitRequiresOpenDetail(t *testing.T) {
	_, review := newReview(t, zonaazul.RoleAdmin)

	err := review.Submit(context.Background(), zonaazul.SettlementApproved, "")
	if !errors.Is(err, workflow.ErrNotLoaded) {
		t.Errorf("err = %v, want ErrNotLoaded", err)
	}
}

func TestApproveSettlement(t *testing.T) {
	srv, review := newReview(t, zonaazul.RoleAdmin)
	pendingSettlement(srv, "settlement-1")

	ctx := context.Background()
	page, err := review.LoadPending(ctx, "", 1, 20)
	if err != nil {
		t.Fatalf("LoadPending: %v", err)
	}
	if len(page.Data) != 1 {
		t.Fatalf("len(pending) = %d, want 1", len(page.Data))
	}

	opened, err := review.Open(ctx, "settlement-1")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.TotalAmount != 30 {
		t.Errorf("TotalAmount = %v", opened.TotalAmount)
	}

	if err := review.Submit(ctx, zonaazul.SettlementApproved, "Valores conferem"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if review.Selected() != nil {
		t.Error("detail still open after decision")
	}
	if got := srv.Settlements["settlement-1"].Status; got != zonaazul.SettlementApproved {
		t.Errorf("server status = %q, want approved", got)
	}

	page, err = review.LoadPending(ctx, "", 1, 20)
	if err != nil {
		t.Fatalf("LoadPending after decision: %v", err)
	}
	if len(page.Data) != 0 {
		t.Errorf("len(pending) = %d after approval", len(page.Data))
	}
}

func TestRejectSettlement(t *testing.T) {
	srv, review := newReview(t, zonaazul.RoleAdmin)
	pendingSettlement(srv, "settlement-1")

	ctx := context.Background()
	if _, err := review.Open(ctx, "settlement-1"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := review.Submit(ctx, zonaazul.SettlementRejected, "Divergência no caixa"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	settled := srv.Settlements["settlement-1"]
	if settled.Status != zonaazul.SettlementRejected {
		t.Errorf("server status = %q, want rejected", settled.Status)
	}
	if settled.Observations != "Divergência no caixa" {
		t.Errorf("Observations = %q", settled.Observations)
	}
}

func TestSubmitRejectsNonBinaryDecision(t *testing.T) {
	srv, review := newReview(t, zonaazul.RoleAdmin)
	pendingSettlement(srv, "settlement-1")

	ctx := context.Background()
	if _, err := review.Open(ctx, "settlement-1"); err != nil {
		t.Fatalf("Open: %v", err)
	}

	err := review.Submit(ctx, zonaazul.SettlementPending, "")
	if err == nil || !zonaazul.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if review.Selected() == nil {
		t.Error("detail closed after a rejected decision payload")
	}
	if got := srv.Settlements["settlement-1"].Status; got != zonaazul.SettlementPending {
		t.Errorf("server status = %q, want untouched pending", got)
	}
}
