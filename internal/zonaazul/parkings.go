package zonaazul

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/format"
	"github.com/picosparking/zonaazul-admin/internal/logger"
)

type ParkingStatus string

const (
	ParkingActive    ParkingStatus = "active"
	ParkingExpiring  ParkingStatus = "expiring"
	ParkingExpired   ParkingStatus = "expired"
	ParkingCompleted ParkingStatus = "completed"
	ParkingCancelled ParkingStatus = "cancelled"
)

type ZoneRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Code    string `json:"code"`
}

type VehicleRef struct {
	ID       string `json:"id"`
	Plate    string `json:"plate"`
	Nickname string `json:"nickname,omitempty"`
}

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Parking is a self-service or avulso parking session. Status is derived
// server-side from time and payment state; the client never transitions it.
type Parking struct {
	ID               string        `json:"id"`
	UserID           string        `json:"userId,omitempty"`
	VehicleID        string        `json:"vehicleId,omitempty"`
	ZoneID           string        `json:"zoneId"`
	Plate            string        `json:"plate"`
	StartTime        time.Time     `json:"startTime"`
	ExpectedEndTime  time.Time     `json:"expectedEndTime"`
	ActualEndTime    *time.Time    `json:"actualEndTime,omitempty"`
	RequestedMinutes int           `json:"requestedMinutes"`
	ActualMinutes    *int          `json:"actualMinutes,omitempty"`
	CreditsUsed      float64       `json:"creditsUsed"`
	CreditsRefunded  float64       `json:"creditsRefunded"`
	Status           ParkingStatus `json:"status"`
	Zone             *ZoneRef      `json:"zone,omitempty"`
	Vehicle          *VehicleRef   `json:"vehicle,omitempty"`
	User             *UserRef      `json:"user,omitempty"`
	TimeRemaining    *int          `json:"timeRemaining,omitempty"`
}

// PlateLookupResult answers "is this plate regular right now". found=false is
// the irregular path, optionally offering a notification.
type PlateLookupResult struct {
	Found                 bool     `json:"found"`
	Parking               *Parking `json:"parking"`
	CanCreateNotification bool     `json:"canCreateNotification,omitempty"`
	Reason                string   `json:"reason,omitempty"`
}

type DashboardMetrics struct {
	ActiveParkings    int     `json:"activeParkings"`
	TotalRevenueToday float64 `json:"totalRevenueToday"`
	ActiveUsers       int     `json:"activeUsers"`
	RegisteredZones   int     `json:"registeredZones"`
}

type HistoryQuery struct {
	Status    ParkingStatus
	VehicleID string
	ZoneID    string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

func (q HistoryQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.VehicleID != "" {
		v.Set("vehicleId", q.VehicleID)
	}
	if q.ZoneID != "" {
		v.Set("zoneId", q.ZoneID)
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

type CreateAvulsoInput struct {
	Plate            string `json:"plate"`
	ZoneID           string `json:"zoneId"`
	RequestedMinutes int    `json:"requestedMinutes"`
}

type ParkingService struct {
	api   *api.Client
	cache *Cache
	log   *logger.Logger
}

// LookupPlate normalizes the plate and asks the server whether it is parked
// regularly right now.
func (s *ParkingService) LookupPlate(ctx context.Context, plate string) (*PlateLookupResult, error) {
	normalized := format.NormalizePlate(plate)
	if normalized == "" {
		return nil, validationErr("Informe a placa do veículo")
	}

	key := cacheKey(cachePlateLookup, normalized)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*PlateLookupResult), nil
	}

	var result PlateLookupResult
	if err := s.api.Get(ctx, "/parkings/plate/"+normalized, nil, &result); err != nil {
		return nil, err
	}
	s.cache.Set(key, &result)
	return &result, nil
}

func (s *ParkingService) History(ctx context.Context, query HistoryQuery) (*api.Page[Parking], error) {
	values := query.values()
	key := cacheKey(cacheParkings, values.Encode())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*api.Page[Parking]), nil
	}

	var page api.Page[Parking]
	if err := s.api.Get(ctx, "/parkings/history/all", values, &page); err != nil {
		return nil, err
	}
	s.cache.Set(key, &page)
	return &page, nil
}

func (s *ParkingService) DashboardMetrics(ctx context.Context) (*DashboardMetrics, error) {
	if cached, ok := s.cache.Get(cacheMetrics); ok {
		return cached.(*DashboardMetrics), nil
	}
	var metrics DashboardMetrics
	if err := s.api.Get(ctx, "/parkings/dashboard/metrics", nil, &metrics); err != nil {
		return nil, err
	}
	s.cache.Set(cacheMetrics, &metrics)
	return &metrics, nil
}

// CreateAvulso starts a walk-up session on behalf of a driver. The requested
// time is checked against the zone's limits before any request goes out.
func (s *ParkingService) CreateAvulso(ctx context.Context, zone *Zone, input CreateAvulsoInput) (*Parking, error) {
	if err := validateRequestedMinutes(zone, input.RequestedMinutes); err != nil {
		return nil, err
	}
	plate := format.NormalizePlate(input.Plate)
	if plate == "" {
		return nil, validationErr("Informe a placa do veículo")
	}

	payload := CreateAvulsoInput{
		Plate:            plate,
		ZoneID:           zone.ID,
		RequestedMinutes: input.RequestedMinutes,
	}
	var parking Parking
	if err := s.api.Post(ctx, "/parkings/avulso", payload, &parking); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cacheParkings, cachePlateLookup, cacheMetrics)
	s.log.Info("Parkings", "Avulso parking created: id=%s plate=%s zone=%s minutes=%d",
		parking.ID, parking.Plate, zone.Code, input.RequestedMinutes)
	return &parking, nil
}

// ExpectedPrice mirrors the price preview the dashboard shows before creating
// a session: whole periods, rounded up.
func ExpectedPrice(zone *Zone, requestedMinutes int) float64 {
	if zone.PeriodMinutes <= 0 {
		return 0
	}
	periods := math.Ceil(float64(requestedMinutes) / float64(zone.PeriodMinutes))
	return periods * zone.Price()
}

func validateRequestedMinutes(zone *Zone, minutes int) error {
	if minutes < zone.PeriodMinutes {
		return validationErr(fmt.Sprintf("Tempo mínimo é %d minutos", zone.PeriodMinutes))
	}
	if minutes > zone.MaxTimeMinutes {
		return validationErr(fmt.Sprintf("Tempo máximo é %d minutos", zone.MaxTimeMinutes))
	}
	return nil
}
