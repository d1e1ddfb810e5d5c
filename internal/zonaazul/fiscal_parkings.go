package zonaazul

import (
	"context"
	"net/url"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/format"
	"github.com/picosparking/zonaazul-admin/internal/logger"
)

type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCash PaymentMethod = "cash"
)

// FiscalParking is a session created by a field agent for a walk-up driver,
// paid on the spot via PIX or cash.
type FiscalParking struct {
	ID               string        `json:"id"`
	Plate            string        `json:"plate"`
	Zone             ZoneRef       `json:"zone"`
	StartTime        time.Time     `json:"startTime"`
	ExpectedEndTime  time.Time     `json:"expectedEndTime"`
	RequestedMinutes int           `json:"requestedMinutes"`
	Amount           float64       `json:"amount"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	Status           ParkingStatus `json:"status"`
	Payment          *struct {
		ID         string     `json:"id"`
		QRCode     string     `json:"qrCode,omitempty"`
		QRCodeText string     `json:"qrCodeText,omitempty"`
		ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	} `json:"payment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateFiscalParkingInput struct {
	ZoneID           string        `json:"zoneId"`
	Plate            string        `json:"plate"`
	RequestedMinutes int           `json:"requestedMinutes"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	Location         *Location     `json:"location,omitempty"`
	Observations     string        `json:"observations,omitempty"`
}

type ListFiscalParkingsQuery struct {
	Status    ParkingStatus
	Plate     string
	ZoneID    string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

func (q ListFiscalParkingsQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Plate != "" {
		v.Set("plate", q.Plate)
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

// FiscalStatistics aggregates what an agent collected in a period.
type FiscalStatistics struct {
	TotalParkings      int     `json:"totalParkings"`
	TotalPixAmount     float64 `json:"totalPixAmount"`
	TotalCashAmount    float64 `json:"totalCashAmount"`
	TotalAmount        float64 `json:"totalAmount"`
	PixPaymentsCount   int     `json:"pixPaymentsCount"`
	CashPaymentsCount  int     `json:"cashPaymentsCount"`
	PendingPixPayments int     `json:"pendingPixPayments"`
}

type FiscalParkingService struct {
	api   *api.Client
	cache *Cache
	log   *logger.Logger
}

func (s *FiscalParkingService) Create(ctx context.Context, zone *Zone, input CreateFiscalParkingInput) (*FiscalParking, error) {
	if err := validateRequestedMinutes(zone, input.RequestedMinutes); err != nil {
		return nil, err
	}
	if input.PaymentMethod != PaymentPix && input.PaymentMethod != PaymentCash {
		return nil, validationErr("Forma de pagamento inválida")
	}
	plate := format.NormalizePlate(input.Plate)
	if plate == "" {
		return nil, validationErr("Informe a placa do veículo")
	}
	input.Plate = plate
	input.ZoneID = zone.ID

	var parking FiscalParking
	if err := s.api.Post(ctx, "/fiscal-parkings", input, &parking); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cacheFiscalParkings, cacheFiscalStatistics, cachePlateLookup, cacheParkings)
	s.log.Info("FiscalParkings", "Fiscal parking created: id=%s plate=%s method=%s amount=%.2f",
		parking.ID, parking.Plate, parking.PaymentMethod, parking.Amount)
	return &parking, nil
}

func (s *FiscalParkingService) List(ctx context.Context, query ListFiscalParkingsQuery) (*api.Page[FiscalParking], error) {
	values := query.values()
	key := cacheKey(cacheFiscalParkings, values.Encode())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*api.Page[FiscalParking]), nil
	}

	var page api.Page[FiscalParking]
	if err := s.api.Get(ctx, "/fiscal-parkings", values, &page); err != nil {
		return nil, err
	}
	s.cache.Set(key, &page)
	return &page, nil
}

func (s *FiscalParkingService) Get(ctx context.Context, id string) (*FiscalParking, error) {
	var parking FiscalParking
	if err := s.api.Get(ctx, "/fiscal-parkings/"+id, nil, &parking); err != nil {
		return nil, err
	}
	return &parking, nil
}

func (s *FiscalParkingService) Statistics(ctx context.Context, startDate, endDate string) (*FiscalStatistics, error) {
	v := url.Values{}
	if startDate != "" {
		v.Set("startDate", startDate)
	}
	if endDate != "" {
		v.Set("endDate", endDate)
	}

	key := cacheKey(cacheFiscalStatistics, v.Encode())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*FiscalStatistics), nil
	}

	var stats FiscalStatistics
	if err := s.api.Get(ctx, "/fiscal-parkings/statistics", v, &stats); err != nil {
		return nil, err
	}
	s.cache.Set(key, &stats)
	return &stats, nil
}
