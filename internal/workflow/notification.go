package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/format"
	"github.com/picosparking/zonaazul-admin/internal/logger"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

// ErrNotLoaded means no notification has been fetched yet.
var ErrNotLoaded = errors.New("nenhuma notificação carregada")

// ErrActionUnavailable means the requested step is not reachable from the
// status the server last reported.
var ErrActionUnavailable = errors.New("ação indisponível para o status atual da notificação")

// Action is what the driver may do next with a notification.
type Action int

const (
	ActionNone Action = iota
	ActionRecognize
	ActionPay
)

// NotificationFlow drives the public citation lifecycle: lookup -> recognize
// -> pay. Step availability is derived only from the status returned by the
// most recent fetch; the flow never transitions status locally, because the
// server can expire or convert a citation between any two reads.
type NotificationFlow struct {
	notifications *zonaazul.NotificationService
	users         *zonaazul.UserService
	log           *logger.Logger
	interval      time.Duration

	mu           sync.Mutex
	number       string
	current      *zonaazul.PublicNotification
	payment      *zonaazul.NotificationPayment
	paymentTried bool
}

func NewNotificationFlow(services *zonaazul.Services, log *logger.Logger, pollInterval time.Duration) *NotificationFlow {
	if log == nil {
		log = logger.New(logger.LevelInfo)
	}
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &NotificationFlow{
		notifications: services.Notifications,
		users:         services.Users,
		log:           log,
		interval:      pollInterval,
	}
}

// Lookup fetches a citation by its public number and makes it the current one.
func (f *NotificationFlow) Lookup(ctx context.Context, number string) (*zonaazul.PublicNotification, error) {
	notification, err := f.notifications.GetPublic(ctx, number)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.number = number
	f.current = notification
	f.payment = nil
	f.paymentTried = false
	f.mu.Unlock()
	return notification, nil
}

// Refresh re-fetches the current notification. Every mutation goes through a
// refresh instead of assuming the transition happened.
func (f *NotificationFlow) Refresh(ctx context.Context) (*zonaazul.PublicNotification, error) {
	f.mu.Lock()
	number := f.number
	f.mu.Unlock()
	if number == "" {
		return nil, ErrNotLoaded
	}

	notification, err := f.notifications.GetPublic(ctx, number)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.current = notification
	f.mu.Unlock()
	return notification, nil
}

func (f *NotificationFlow) Current() *zonaazul.PublicNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *NotificationFlow) Payment() *zonaazul.NotificationPayment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payment
}

// AllowedAction maps the last fetched status to the single step the driver may
// take. Terminal statuses allow nothing.
func (f *NotificationFlow) AllowedAction() Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return ActionNone
	}
	switch f.current.Status {
	case zonaazul.NotificationPending:
		return ActionRecognize
	case zonaazul.NotificationRecognized:
		return ActionPay
	default:
		return ActionNone
	}
}

// PrefillFromCPF is the best-effort identity lookup fired when the CPF field
// holds exactly 11 digits. A miss is silent; only the 11-digit form triggers
// a request at all.
func (f *NotificationFlow) PrefillFromCPF(ctx context.Context, cpf string) (*zonaazul.Driver, bool) {
	if !format.ValidCPFLength(cpf) {
		return nil, false
	}
	driver, found, err := f.users.FindByCPF(ctx, cpf)
	if err != nil {
		f.log.Debug("NotificationFlow", "CPF prefill lookup failed: error=%v", err)
		return nil, false
	}
	return driver, found
}

// Recognize attaches the driver's identity to a pending citation and then
// re-fetches it so the next step is derived from server state.
func (f *NotificationFlow) Recognize(ctx context.Context, input zonaazul.RecognizeInput) (*zonaazul.PublicNotification, error) {
	f.mu.Lock()
	number := f.number
	current := f.current
	f.mu.Unlock()

	if current == nil {
		return nil, ErrNotLoaded
	}
	if current.Status != zonaazul.NotificationPending {
		return nil, ErrActionUnavailable
	}
	if !format.ValidCPFLength(input.CPF) {
		return nil, &zonaazul.ValidationError{Message: "Por favor, informe um CPF válido"}
	}
	name := trimSpace(input.Name)
	if name == "" {
		return nil, &zonaazul.ValidationError{Message: "Por favor, informe seu nome completo"}
	}
	email := trimSpace(input.Email)
	if email == "" || !containsAt(email) {
		return nil, &zonaazul.ValidationError{Message: "Por favor, informe um email válido"}
	}

	payload := zonaazul.RecognizeInput{
		CPF:     format.Digits(input.CPF),
		Name:    name,
		Email:   email,
		Address: trimSpace(input.Address),
	}
	if input.Phone != "" {
		payload.Phone = format.Digits(input.Phone)
	}

	if _, err := f.notifications.Recognize(ctx, number, payload); err != nil {
		return nil, err
	}
	f.log.Info("NotificationFlow", "Notification recognized: number=%s", number)
	return f.Refresh(ctx)
}

// EnsurePayment creates the PIX intent exactly once per flow, as soon as the
// fetched status is recognized. A failed attempt is not retried automatically;
// that takes an explicit RetryPayment.
func (f *NotificationFlow) EnsurePayment(ctx context.Context) (*zonaazul.NotificationPayment, bool, error) {
	f.mu.Lock()
	current := f.current
	payment := f.payment
	tried := f.paymentTried
	f.mu.Unlock()

	if current == nil {
		return nil, false, ErrNotLoaded
	}
	if payment != nil {
		return payment, false, nil
	}
	if current.Status != zonaazul.NotificationRecognized || tried {
		return nil, false, nil
	}
	created, err := f.createPayment(ctx, current.ID)
	return created, err == nil, err
}

// RetryPayment is the explicit user action after a failed payment creation.
func (f *NotificationFlow) RetryPayment(ctx context.Context) (*zonaazul.NotificationPayment, error) {
	f.mu.Lock()
	current := f.current
	payment := f.payment
	f.mu.Unlock()

	if current == nil {
		return nil, ErrNotLoaded
	}
	if payment != nil {
		return payment, nil
	}
	if current.Status != zonaazul.NotificationRecognized {
		return nil, ErrActionUnavailable
	}
	return f.createPayment(ctx, current.ID)
}

func (f *NotificationFlow) createPayment(ctx context.Context, id string) (*zonaazul.NotificationPayment, error) {
	f.mu.Lock()
	f.paymentTried = true
	f.mu.Unlock()

	payment, err := f.notifications.CreatePayment(ctx, id)
	if err != nil {
		f.log.Warn("NotificationFlow", "Payment creation failed: id=%s error=%v", id, err)
		return nil, err
	}

	f.mu.Lock()
	f.payment = payment
	f.mu.Unlock()
	f.log.Info("NotificationFlow", "Payment created: notification=%s tx=%s", id, payment.Payment.ProviderTransactionID)
	return payment, nil
}

// PollUntilPaid re-fetches the notification (not the payment) at the flow's
// interval until the status leaves recognized or the context is done. The
// ticker stops in both cases, so no requests survive the caller.
func (f *NotificationFlow) PollUntilPaid(ctx context.Context) (zonaazul.NotificationStatus, error) {
	f.mu.Lock()
	current := f.current
	f.mu.Unlock()
	if current == nil {
		return "", ErrNotLoaded
	}
	if current.Status != zonaazul.NotificationRecognized {
		return current.Status, nil
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return f.status(), ctx.Err()
		case <-ticker.C:
			notification, err := f.Refresh(ctx)
			if err != nil {
				// Transient fetch failures keep the poll alive; the gateway
				// already retried.
				f.log.Debug("NotificationFlow", "Poll fetch failed: error=%v", err)
				continue
			}
			if notification.Status != zonaazul.NotificationRecognized {
				return notification.Status, nil
			}
		}
	}
}

func (f *NotificationFlow) status() zonaazul.NotificationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return ""
	}
	return f.current.Status
}

func trimSpace(s string) string { return strings.TrimSpace(s) }

func containsAt(s string) bool { return strings.Contains(s, "@") }
