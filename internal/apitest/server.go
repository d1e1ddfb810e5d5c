// Package apitest is an in-memory double of the Zona Azul API used by the
// client tests. It implements the subset of the contract the dashboard
// depends on, with switchable failure behaviors.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

// NotificationState tracks one citation plus the flow bookkeeping the fake
// needs to simulate asynchronous payment confirmation.
type NotificationState struct {
	Notification zonaazul.Notification

	// PaidAfterChecks flips the status from recognized to paid after this
	// many public fetches once a payment exists. Zero keeps it recognized.
	PaidAfterChecks int
	// FailPayment makes the payment endpoint answer 500.
	FailPayment bool

	paymentCreated bool
	checksSincePay int
}

type Server struct {
	*httptest.Server

	mu sync.Mutex

	Email        string
	Password     string
	Token        string
	RefreshToken string
	User         zonaazul.User

	Zones          map[string]*zonaazul.Zone
	Notifications  map[string]*NotificationState // by public number
	Drivers        map[string]*zonaazul.Driver   // by CPF digits
	Parkings       []zonaazul.Parking
	FiscalParkings []zonaazul.FiscalParking
	Settlements    map[string]*zonaazul.Settlement
	Metrics        zonaazul.DashboardMetrics
	Statistics     zonaazul.FiscalStatistics

	requests map[string]int
	nextID   int
}

func New() *Server {
	s := &Server{
		Email:        "admin@picos.pi.gov.br",
		Password:     "segredo1",
		Token:        "valid-token",
		RefreshToken: "valid-refresh",
		User: zonaazul.User{
			ID:        "u-1",
			Email:     "admin@picos.pi.gov.br",
			Name:      "Administrador",
			Role:      zonaazul.RoleAdmin,
			IsActive:  true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Zones:         map[string]*zonaazul.Zone{},
		Notifications: map[string]*NotificationState{},
		Drivers:       map[string]*zonaazul.Driver{},
		Settlements:   map[string]*zonaazul.Settlement{},
		requests:      map[string]int{},
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// BearerToken returns the token the fake currently accepts.
func (s *Server) BearerToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Token
}

// SetNotificationStatus flips a stored citation's status, simulating a
// server-side transition such as expiry.
func (s *Server) SetNotificationStatus(number string, status zonaazul.NotificationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.Notifications[number]; ok {
		state.Notification.Status = status
	}
}

// NotificationStatus reads a stored citation's current status.
func (s *Server) NotificationStatus(number string) zonaazul.NotificationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.Notifications[number]; ok {
		return state.Notification.Status
	}
	return ""
}

// Requests reports how many times a routing pattern was hit, e.g.
// "GET /notifications/public/{number}".
func (s *Server) Requests(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[pattern]
}

// TotalRequests sums every request the fake served.
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.requests {
		total += n
	}
	return total
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)
	r.Post("/auth/refresh", s.handleRefresh)

	r.Get("/users/me", s.authed(s.handleMe))
	r.Get("/users/by-cpf/{cpf}", s.handleUserByCPF)
	r.Post("/users/fiscals", s.authed(s.handleCreateFiscal))

	r.Route("/zones", func(r chi.Router) {
		r.Get("/", s.authed(s.handleListZones))
		r.Post("/", s.authed(s.handleCreateZone))
		r.Get("/{id}", s.authed(s.handleGetZone))
		r.Put("/{id}", s.authed(s.handleUpdateZone))
		r.Delete("/{id}", s.authed(s.handleDeleteZone))
	})

	r.Route("/parkings", func(r chi.Router) {
		r.Get("/plate/{plate}", s.authed(s.handlePlateLookup))
		r.Get("/history/all", s.authed(s.handleHistory))
		r.Get("/dashboard/metrics", s.authed(s.handleMetrics))
		r.Post("/avulso", s.authed(s.handleCreateAvulso))
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/public/{number}", s.handlePublicNotification)
		r.Post("/{number}/recognize", s.handleRecognize)
		r.Post("/{id}/payment", s.handleCreatePayment)
		r.Get("/", s.authed(s.handleListNotifications))
		r.Post("/", s.authed(s.handleCreateNotification))
	})

	r.Route("/fiscal-parkings", func(r chi.Router) {
		r.Get("/", s.authed(s.handleListFiscalParkings))
		r.Post("/", s.authed(s.handleCreateFiscalParking))
		r.Get("/statistics", s.authed(s.handleFiscalStatistics))
		r.Get("/{id}", s.authed(s.handleGetFiscalParking))
	})

	r.Route("/fiscal-settlements", func(r chi.Router) {
		r.Get("/", s.authed(s.handleListSettlements))
		r.Get("/pending", s.authed(s.handlePendingSettlements))
		r.Post("/generate", s.authed(s.handleGenerateSettlement))
		r.Get("/{id}", s.authed(s.handleGetSettlement))
		r.Post("/{id}/review", s.authed(s.handleReviewSettlement))
	})

	return r
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		s.mu.Lock()
		s.requests[r.Method+" "+pattern]++
		s.mu.Unlock()
	})
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		want := "Bearer " + s.Token
		s.mu.Unlock()
		if r.Header.Get("Authorization") != want {
			writeErr(w, http.StatusUnauthorized, "TOKEN_INVALID", "Token inválido ou expirado")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if input.Email != s.Email || input.Password != s.Password {
		writeErr(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email ou senha incorretos")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":        s.Token,
		"refreshToken": s.RefreshToken,
		"user": map[string]any{
			"id":    s.User.ID,
			"email": s.User.Email,
			"name":  s.User.Name,
			"role":  s.User.Role,
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if input.RefreshToken != s.RefreshToken {
		writeErr(w, http.StatusUnauthorized, "REFRESH_INVALID", "Sessão expirada")
		return
	}
	s.Token = s.Token + "+"
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": s.Token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.User)
}

func (s *Server) handleUserByCPF(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	driver, ok := s.Drivers[chi.URLParam(r, "cpf")]
	if !ok {
		writeErr(w, http.StatusNotFound, "USER_NOT_FOUND", "Usuário não encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "user": driver})
}

func (s *Server) handleCreateFiscal(w http.ResponseWriter, r *http.Request) {
	var input zonaazul.CreateFiscalInput
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	user := zonaazul.User{
		ID:        s.id("fiscal"),
		Email:     input.Email,
		Name:      input.Name,
		Role:      zonaazul.RoleFiscal,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	zones := make([]zonaazul.Zone, 0, len(s.Zones))
	for _, z := range s.Zones {
		zones = append(zones, *z)
	}
	writePage(w, zones, r)
}

func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	zone, ok := s.Zones[chi.URLParam(r, "id")]
	if !ok {
		writeErr(w, http.StatusNotFound, "ZONE_NOT_FOUND", "Zona não encontrada")
		return
	}
	writeJSON(w, http.StatusOK, zone)
}

func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var input zonaazul.CreateZoneInput
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	zone := &zonaazul.Zone{
		ID:             s.id("zone"),
		Code:           input.Code,
		Name:           input.Name,
		Address:        input.Address,
		PricePerPeriod: strconv.FormatFloat(input.PricePerPeriod, 'f', 2, 64),
		PeriodMinutes:  input.PeriodMinutes,
		MaxTimeMinutes: input.MaxTimeMinutes,
		TotalSpots:     input.TotalSpots,
		Status:         zonaazul.ZoneActive,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	s.Zones[zone.ID] = zone
	writeJSON(w, http.StatusCreated, zone)
}

func (s *Server) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	var input zonaazul.UpdateZoneInput
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	zone, ok := s.Zones[chi.URLParam(r, "id")]
	if !ok {
		writeErr(w, http.StatusNotFound, "ZONE_NOT_FOUND", "Zona não encontrada")
		return
	}
	if input.Name != nil {
		zone.Name = *input.Name
	}
	if input.Address != nil {
		zone.Address = *input.Address
	}
	if input.PricePerPeriod != nil {
		zone.PricePerPeriod = strconv.FormatFloat(*input.PricePerPeriod, 'f', 2, 64)
	}
	if input.PeriodMinutes != nil {
		zone.PeriodMinutes = *input.PeriodMinutes
	}
	if input.MaxTimeMinutes != nil {
		zone.MaxTimeMinutes = *input.MaxTimeMinutes
	}
	if input.TotalSpots != nil {
		zone.TotalSpots = *input.TotalSpots
	}
	if input.Status != nil {
		zone.Status = *input.Status
	}
	zone.UpdatedAt = time.Now()
	writeJSON(w, http.StatusOK, zone)
}

func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Zones, chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlateLookup(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Parkings {
		p := &s.Parkings[i]
		if p.Plate == plate && (p.Status == zonaazul.ParkingActive || p.Status == zonaazul.ParkingExpiring) {
			writeJSON(w, http.StatusOK, zonaazul.PlateLookupResult{Found: true, Parking: p})
			return
		}
	}
	writeJSON(w, http.StatusOK, zonaazul.PlateLookupResult{
		Found:                 false,
		CanCreateNotification: true,
		Reason:                "Nenhum estacionamento ativo para esta placa",
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, s.Parkings, r)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Metrics)
}

func (s *Server) handleCreateAvulso(w http.ResponseWriter, r *http.Request) {
	var input zonaazul.CreateAvulsoInput
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	parking := zonaazul.Parking{
		ID:               s.id("parking"),
		ZoneID:           input.ZoneID,
		Plate:            input.Plate,
		StartTime:        now,
		ExpectedEndTime:  now.Add(time.Duration(input.RequestedMinutes) * time.Minute),
		RequestedMinutes: input.RequestedMinutes,
		Status:           zonaazul.ParkingActive,
	}
	s.Parkings = append(s.Parkings, parking)
	writeJSON(w, http.StatusCreated, parking)
}

func (s *Server) handlePublicNotification(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.Notifications[chi.URLParam(r, "number")]
	if !ok {
		writeErr(w, http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "Notificação não encontrada")
		return
	}

	if state.paymentCreated && state.Notification.Status == zonaazul.NotificationRecognized && state.PaidAfterChecks > 0 {
		state.checksSincePay++
		if state.checksSincePay >= state.PaidAfterChecks {
			now := time.Now()
			state.Notification.Status = zonaazul.NotificationPaid
			state.Notification.PaidAt = &now
		}
	}

	n := state.Notification
	writeJSON(w, http.StatusOK, zonaazul.PublicNotification{
		ID:                 n.ID,
		NotificationNumber: n.NotificationNumber,
		Plate:              n.Plate,
		Status:             n.Status,
		Amount:             n.Amount,
		ExpiresAt:          n.ExpiresAt,
		CreatedAt:          n.CreatedAt,
	})
}

func (s *Server) handleRecognize(w http.ResponseWriter, r *http.Request) {
	var input zonaazul.RecognizeInput
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.Notifications[chi.URLParam(r, "number")]
	if !ok {
		writeErr(w, http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "Notificação não encontrada")
		return
	}
	if state.Notification.Status != zonaazul.NotificationPending {
		writeErr(w, http.StatusConflict, "INVALID_STATUS", "Notificação não está pendente")
		return
	}
	if len(input.CPF) != 11 {
		writeErr(w, http.StatusBadRequest, "INVALID_CPF", "CPF inválido")
		return
	}
	state.Notification.Status = zonaazul.NotificationRecognized
	state.Notification.UpdatedAt = time.Now()
	writeJSON(w, http.StatusOK, state.Notification)
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, state := range s.Notifications {
		if state.Notification.ID != id {
			continue
		}
		if state.FailPayment {
			writeErr(w, http.StatusInternalServerError, "PAYMENT_PROVIDER_ERROR", "Erro ao gerar o pagamento")
			return
		}
		if state.Notification.Status != zonaazul.NotificationRecognized {
			writeErr(w, http.StatusConflict, "INVALID_STATUS", "Notificação não reconhecida")
			return
		}
		state.paymentCreated = true
		writeJSON(w, http.StatusCreated, zonaazul.NotificationPayment{
			Payment: zonaazul.PaymentInfo{
				ID:                    s.id("payment"),
				Amount:                state.Notification.Amount,
				Method:                "pix",
				Status:                "pending",
				ExpiresAt:             time.Now().Add(30 * time.Minute),
				QRCode:                "data:image/png;base64,qr",
				QRCodeText:            "00020126580014BR.GOV.BCB.PIX",
				ProviderTransactionID: "tx-" + state.Notification.ID,
			},
			Notification: zonaazul.NotificationRef{
				ID:                 state.Notification.ID,
				NotificationNumber: state.Notification.NotificationNumber,
				Plate:              state.Notification.Plate,
			},
		})
		return
	}
	writeErr(w, http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "Notificação não encontrada")
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notifications := make([]zonaazul.Notification, 0, len(s.Notifications))
	for _, state := range s.Notifications {
		notifications = append(notifications, state.Notification)
	}
	writePage(w, notifications, r)
}

func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var input zonaazul.CreateNotificationInput
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	number := "0000000" + strconv.Itoa(s.nextID)
	notification := zonaazul.Notification{
		ID:                 s.id("notification"),
		NotificationNumber: number,
		Plate:              input.Plate,
		Status:             zonaazul.NotificationPending,
		Amount:             15,
		ExpiresAt:          time.Now().Add(48 * time.Hour),
		Location:           input.Location,
		Observations:       input.Observations,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	s.Notifications[number] = &NotificationState{Notification: notification}
	writeJSON(w, http.StatusCreated, notification)
}

func (s *Server) handleListFiscalParkings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writePage(w, s.FiscalParkings, r)
}

func (s *Server) handleGetFiscalParking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.FiscalParkings {
		if s.FiscalParkings[i].ID == id {
			writeJSON(w, http.StatusOK, s.FiscalParkings[i])
			return
		}
	}
	writeErr(w, http.StatusNotFound, "PARKING_NOT_FOUND", "Estacionamento não encontrado")
}

func (s *Server) handleCreateFiscalParking(w http.ResponseWriter, r *http.Request) {
	var input zonaazul.CreateFiscalParkingInput
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	parking := zonaazul.FiscalParking{
		ID:               s.id("fparking"),
		Plate:            input.Plate,
		Zone:             zonaazul.ZoneRef{ID: input.ZoneID},
		StartTime:        now,
		ExpectedEndTime:  now.Add(time.Duration(input.RequestedMinutes) * time.Minute),
		RequestedMinutes: input.RequestedMinutes,
		PaymentMethod:    input.PaymentMethod,
		Status:           zonaazul.ParkingActive,
		CreatedAt:        now,
	}
	s.FiscalParkings = append(s.FiscalParkings, parking)
	writeJSON(w, http.StatusCreated, parking)
}

func (s *Server) handleFiscalStatistics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Statistics)
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settlements := make([]zonaazul.Settlement, 0, len(s.Settlements))
	for _, st := range s.Settlements {
		settlements = append(settlements, *st)
	}
	writePage(w, settlements, r)
}

func (s *Server) handlePendingSettlements(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make([]zonaazul.Settlement, 0)
	for _, st := range s.Settlements {
		if st.Status == zonaazul.SettlementPending {
			pending = append(pending, *st)
		}
	}
	writePage(w, pending, r)
}

func (s *Server) handleGenerateSettlement(w http.ResponseWriter, r *http.Request) {
	var input zonaazul.GenerateSettlementInput
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	days := input.PeriodDays
	if days <= 0 {
		days = 7
	}
	settlement := &zonaazul.Settlement{
		ID:          s.id("settlement"),
		Fiscal:      zonaazul.FiscalRef{ID: input.FiscalID, Name: "Fiscal de Campo"},
		PeriodStart: now.AddDate(0, 0, -days),
		PeriodEnd:   now,
		Status:      zonaazul.SettlementPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.Settlements[settlement.ID] = settlement
	writeJSON(w, http.StatusCreated, settlement)
}

func (s *Server) handleGetSettlement(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settlement, ok := s.Settlements[chi.URLParam(r, "id")]
	if !ok {
		writeErr(w, http.StatusNotFound, "SETTLEMENT_NOT_FOUND", "Prestação não encontrada")
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

func (s *Server) handleReviewSettlement(w http.ResponseWriter, r *http.Request) {
	var input zonaazul.ReviewSettlementInput
	json.NewDecoder(r.Body).Decode(&input)

	s.mu.Lock()
	defer s.mu.Unlock()
	settlement, ok := s.Settlements[chi.URLParam(r, "id")]
	if !ok {
		writeErr(w, http.StatusNotFound, "SETTLEMENT_NOT_FOUND", "Prestação não encontrada")
		return
	}
	if settlement.Status != zonaazul.SettlementPending {
		writeErr(w, http.StatusConflict, "ALREADY_REVIEWED", "Prestação já revisada")
		return
	}
	now := time.Now()
	settlement.Status = input.Status
	settlement.Observations = input.Observations
	settlement.ReviewedAt = &now
	settlement.ReviewedBy = &zonaazul.ReviewerRef{ID: s.User.ID, Name: s.User.Name}
	settlement.UpdatedAt = now
	writeJSON(w, http.StatusOK, settlement)
}

func (s *Server) id(prefix string) string {
	s.nextID++
	return prefix + "-" + strconv.Itoa(s.nextID)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func writePage[T any](w http.ResponseWriter, items []T, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, api.Page[T]{
		Data: items[start:end],
		Pagination: api.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}
