package zonaazul_test

import (
	"io"
	"testing"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/apitest"
	"github.com/picosparking/zonaazul-admin/internal/logger"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

func newServices(t *testing.T) (*apitest.Server, *zonaazul.Services) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	quiet := logger.NewWithOutput(logger.LevelError, io.Discard)
	client := api.New(api.Config{
		BaseURL: srv.URL,
		Logger:  quiet,
		Tokens:  api.TokenSourceFunc(srv.BearerToken),
	})
	return srv, zonaazul.NewServices(client, zonaazul.NewCache(time.Minute), quiet)
}

func seedZone(srv *apitest.Server, id string) *zonaazul.Zone {
	zone := &zonaazul.Zone{
		ID:             id,
		Code:           "ZA-01",
		Name:           "Centro",
		Address:        "Praça Josino Ferreira",
		PricePerPeriod: "2.50",
		PeriodMinutes:  30,
		MaxTimeMinutes: 120,
		TotalSpots:     40,
		Status:         zonaazul.ZoneActive,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	srv.Zones[id] = zone
	return zone
}

func assertValidation(t *testing.T, err error, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error %q, got nil", message)
	}
	if !zonaazul.IsValidation(err) {
		t.Fatalf("expected validation error, got %T: %v", err, err)
	}
	if err.Error() != message {
		t.Errorf("message = %q, want %q", err.Error(), message)
	}
}
