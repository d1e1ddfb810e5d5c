package zonaazul

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/logger"
)

type ZoneStatus string

const (
	ZoneActive   ZoneStatus = "active"
	ZoneInactive ZoneStatus = "inactive"
)

// Zone is a rotating-parking area. Occupancy is server-computed; the client
// only displays it. The API serializes the price as a decimal string.
type Zone struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	Address        string     `json:"address"`
	Latitude       string     `json:"latitude,omitempty"`
	Longitude      string     `json:"longitude,omitempty"`
	PricePerPeriod string     `json:"pricePerPeriod"`
	PeriodMinutes  int        `json:"periodMinutes"`
	MaxTimeMinutes int        `json:"maxTimeMinutes"`
	TotalSpots     int        `json:"totalSpots"`
	OccupiedSpots  int        `json:"occupiedSpots"`
	Status         ZoneStatus `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Price parses the wire string into a float for display math.
func (z *Zone) Price() float64 {
	v, err := strconv.ParseFloat(z.PricePerPeriod, 64)
	if err != nil {
		return 0
	}
	return v
}

type CreateZoneInput struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	PricePerPeriod float64  `json:"pricePerPeriod"`
	PeriodMinutes  int      `json:"periodMinutes"`
	MaxTimeMinutes int      `json:"maxTimeMinutes"`
	TotalSpots     int      `json:"totalSpots"`
}

type UpdateZoneInput struct {
	Name           *string     `json:"name,omitempty"`
	Address        *string     `json:"address,omitempty"`
	Latitude       *float64    `json:"latitude,omitempty"`
	Longitude      *float64    `json:"longitude,omitempty"`
	PricePerPeriod *float64    `json:"pricePerPeriod,omitempty"`
	PeriodMinutes  *int        `json:"periodMinutes,omitempty"`
	MaxTimeMinutes *int        `json:"maxTimeMinutes,omitempty"`
	TotalSpots     *int        `json:"totalSpots,omitempty"`
	Status         *ZoneStatus `json:"status,omitempty"`
}

type ListZonesQuery struct {
	Status ZoneStatus
	Search string
	Page   int
	Limit  int
}

func (q ListZonesQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	addPagination(v, q.Page, q.Limit)
	return v
}

type ZoneService struct {
	api   *api.Client
	cache *Cache
	log   *logger.Logger
}

func (s *ZoneService) List(ctx context.Context, query ListZonesQuery) (*api.Page[Zone], error) {
	values := query.values()
	key := cacheKey(cacheZones, values.Encode())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*api.Page[Zone]), nil
	}

	var page api.Page[Zone]
	if err := s.api.Get(ctx, "/zones", values, &page); err != nil {
		return nil, err
	}
	s.cache.Set(key, &page)
	return &page, nil
}

func (s *ZoneService) Get(ctx context.Context, id string) (*Zone, error) {
	var zone Zone
	if err := s.api.Get(ctx, "/zones/"+id, nil, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

func (s *ZoneService) Create(ctx context.Context, input CreateZoneInput) (*Zone, error) {
	if err := validateZoneInput(input); err != nil {
		return nil, err
	}
	var zone Zone
	if err := s.api.Post(ctx, "/zones", input, &zone); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cacheZones, cacheMetrics)
	s.log.Info("Zones", "Zone created: id=%s code=%s", zone.ID, zone.Code)
	return &zone, nil
}

func (s *ZoneService) Update(ctx context.Context, id string, input UpdateZoneInput) (*Zone, error) {
	if input.PeriodMinutes != nil && *input.PeriodMinutes <= 0 {
		return nil, validationErr("Período deve ser maior que zero")
	}
	if input.PeriodMinutes != nil && input.MaxTimeMinutes != nil && *input.MaxTimeMinutes < *input.PeriodMinutes {
		return nil, validationErr("Tempo máximo deve ser maior ou igual ao período")
	}
	var zone Zone
	if err := s.api.Put(ctx, "/zones/"+id, input, &zone); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cacheZones, cacheMetrics)
	s.log.Info("Zones", "Zone updated: id=%s", id)
	return &zone, nil
}

func (s *ZoneService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/zones/"+id); err != nil {
		return err
	}
	s.cache.Invalidate(cacheZones, cacheMetrics)
	s.log.Info("Zones", "Zone deleted: id=%s", id)
	return nil
}

func validateZoneInput(input CreateZoneInput) error {
	if trimmed(input.Code) == "" {
		return validationErr("Informe o código da zona")
	}
	if trimmed(input.Name) == "" {
		return validationErr("Informe o nome da zona")
	}
	if trimmed(input.Address) == "" {
		return validationErr("Informe o endereço da zona")
	}
	if input.PricePerPeriod <= 0 {
		return validationErr("O preço por período deve ser maior que zero")
	}
	if input.PeriodMinutes <= 0 {
		return validationErr("Período deve ser maior que zero")
	}
	if input.MaxTimeMinutes < input.PeriodMinutes {
		return validationErr("Tempo máximo deve ser maior ou igual ao período")
	}
	if input.TotalSpots <= 0 {
		return validationErr("Número de vagas deve ser maior que zero")
	}
	return nil
}

func addPagination(v url.Values, page, limit int) {
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
}
