package zonaazul

import (
	"context"
	"net/url"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/format"
	"github.com/picosparking/zonaazul-admin/internal/logger"
)

type NotificationStatus string

// The lifecycle is strictly ordered pending -> recognized -> paid; expired and
// converted are terminal branches the server may take at any moment.
const (
	NotificationPending    NotificationStatus = "pending"
	NotificationRecognized NotificationStatus = "recognized"
	NotificationPaid       NotificationStatus = "paid"
	NotificationExpired    NotificationStatus = "expired"
	NotificationConverted  NotificationStatus = "converted"
)

type Location struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   string   `json:"address,omitempty"`
}

type Notification struct {
	ID                 string             `json:"id"`
	NotificationNumber string             `json:"notificationNumber"`
	Plate              string             `json:"plate"`
	Status             NotificationStatus `json:"status"`
	Amount             float64            `json:"amount"`
	ExpiresAt          time.Time          `json:"expiresAt"`
	PaidAt             *time.Time         `json:"paidAt,omitempty"`
	ConvertedToFineAt  *time.Time         `json:"convertedToFineAt,omitempty"`
	Location           *Location          `json:"location,omitempty"`
	Observations       string             `json:"observations,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// PublicNotification is the reduced projection served on the public lookup,
// keyed by notification number instead of id.
type PublicNotification struct {
	ID                 string             `json:"id"`
	NotificationNumber string             `json:"notificationNumber"`
	Plate              string             `json:"plate"`
	Status             NotificationStatus `json:"status"`
	Amount             float64            `json:"amount"`
	ExpiresAt          time.Time          `json:"expiresAt"`
	CreatedAt          time.Time          `json:"createdAt"`
}

type CreateNotificationInput struct {
	Plate        string    `json:"plate"`
	Location     *Location `json:"location,omitempty"`
	Observations string    `json:"observations,omitempty"`
}

type RecognizeInput struct {
	CPF     string `json:"cpf"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type PaymentInfo struct {
	ID                    string    `json:"id"`
	Amount                float64   `json:"amount"`
	Method                string    `json:"method"`
	Status                string    `json:"status"`
	ExpiresAt             time.Time `json:"expiresAt"`
	QRCode                string    `json:"qrCode,omitempty"`
	QRCodeText            string    `json:"qrCodeText,omitempty"`
	ProviderTransactionID string    `json:"providerTransactionId"`
}

type NotificationRef struct {
	ID                 string `json:"id"`
	NotificationNumber string `json:"notificationNumber"`
	Plate              string `json:"plate"`
}

// NotificationPayment is the PIX intent returned by the payment endpoint.
type NotificationPayment struct {
	Payment      PaymentInfo     `json:"payment"`
	Notification NotificationRef `json:"notification"`
}

type ListNotificationsQuery struct {
	Status    NotificationStatus
	Plate     string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

func (q ListNotificationsQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Plate != "" {
		v.Set("plate", q.Plate)
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

type NotificationService struct {
	api   *api.Client
	cache *Cache
	log   *logger.Logger
}

// Create issues a citation against a plate (fiscal/admin).
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) (*Notification, error) {
	plate := format.NormalizePlate(input.Plate)
	if plate == "" {
		return nil, validationErr("Informe a placa do veículo")
	}
	input.Plate = plate

	var notification Notification
	if err := s.api.Post(ctx, "/notifications", input, &notification); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cacheNotifications, cachePlateLookup)
	s.log.Info("Notifications", "Notification created: number=%s plate=%s", notification.NotificationNumber, notification.Plate)
	return &notification, nil
}

// GetPublic fetches a citation by its public number. Never cached: expiry can
// happen server-side between any two reads.
func (s *NotificationService) GetPublic(ctx context.Context, number string) (*PublicNotification, error) {
	var notification PublicNotification
	if err := s.api.Get(ctx, "/notifications/public/"+url.PathEscape(number), nil, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (s *NotificationService) Recognize(ctx context.Context, number string, input RecognizeInput) (*Notification, error) {
	var notification Notification
	if err := s.api.Post(ctx, "/notifications/"+url.PathEscape(number)+"/recognize", input, &notification); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cacheNotifications)
	return &notification, nil
}

func (s *NotificationService) CreatePayment(ctx context.Context, id string) (*NotificationPayment, error) {
	var payment NotificationPayment
	if err := s.api.Post(ctx, "/notifications/"+id+"/payment", nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *NotificationService) List(ctx context.Context, query ListNotificationsQuery) (*api.Page[Notification], error) {
	values := query.values()
	key := cacheKey(cacheNotifications, values.Encode())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*api.Page[Notification]), nil
	}

	var page api.Page[Notification]
	if err := s.api.Get(ctx, "/notifications", values, &page); err != nil {
		return nil, err
	}
	s.cache.Set(key, &page)
	return &page, nil
}
