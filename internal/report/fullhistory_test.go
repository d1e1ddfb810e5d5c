package report_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/apitest"
	"github.com/picosparking/zonaazul-admin/internal/logger"
	"github.com/picosparking/zonaazul-admin/internal/report"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

func newHistoryServer(t *testing.T, parkings int) (*apitest.Server, *zonaazul.Services) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	for i := 0; i < parkings; i++ {
		srv.Parkings = append(srv.Parkings, zonaazul.Parking{
			ID:               fmt.Sprintf("p-%d", i+1),
			ZoneID:           "zone-1",
			Zone:             &zonaazul.ZoneRef{ID: "zone-1", Code: "ZA-01"},
			Plate:            fmt.Sprintf("ABC%04d", i+1),
			RequestedMinutes: 30,
			CreditsUsed:      2.5,
			Status:           zonaazul.ParkingCompleted,
		})
	}

	quiet := logger.NewWithOutput(logger.LevelError, io.Discard)
	client := api.New(api.Config{
		BaseURL: srv.URL,
		Logger:  quiet,
		Tokens:  api.TokenSourceFunc(srv.BearerToken),
	})
	return srv, zonaazul.NewServices(client, zonaazul.NewCache(time.Minute), quiet)
}

func TestFullHistoryDrainsEveryPage(t *testing.T) {
	srv, services := newHistoryServer(t, 5)

	rows, err := report.FullHistory(context.Background(), services.Parkings, zonaazul.HistoryQuery{Limit: 2})
	if err != nil {
		t.Fatalf("FullHistory: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want all 5 across pages", len(rows))
	}
	if got := srv.Requests("GET /parkings/history/all"); got != 3 {
		t.Errorf("history requests = %d, want 3 pages", got)
	}

	df, err := report.UsageByZone(rows)
	if err != nil {
		t.Fatalf("UsageByZone: %v", err)
	}
	if got := df.Col("Sessões").Float()[0]; got != 5 {
		t.Errorf("Sessões = %v, want 5 (rows beyond the first page must count)", got)
	}
	if got := df.Col("Valor").Float()[0]; got != 12.5 {
		t.Errorf("Valor = %v, want 12.5", got)
	}
}

func TestFullHistorySinglePage(t *testing.T) {
	srv, services := newHistoryServer(t, 3)

	rows, err := report.FullHistory(context.Background(), services.Parkings, zonaazul.HistoryQuery{Limit: 50})
	if err != nil {
		t.Fatalf("FullHistory: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}
	if got := srv.Requests("GET /parkings/history/all"); got != 1 {
		t.Errorf("history requests = %d, want 1", got)
	}
}
