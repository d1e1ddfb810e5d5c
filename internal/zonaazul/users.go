package zonaazul

import (
	"context"
	"time"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/format"
	"github.com/picosparking/zonaazul-admin/internal/logger"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleFiscal   Role = "fiscal"
	RoleOperator Role = "operator"
	RoleDriver   Role = "driver"
)

type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone,omitempty"`
	Role          Role       `json:"role"`
	Avatar        string     `json:"avatar,omitempty"`
	EmailVerified bool       `json:"emailVerified"`
	PhoneVerified bool       `json:"phoneVerified"`
	IsActive      bool       `json:"isActive"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Driver is the reduced projection returned by the CPF lookup used to prefill
// the recognition form.
type Driver struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	CPF   string `json:"cpf,omitempty"`
}

type CreateFiscalInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	CPF      string `json:"cpf,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type UserService struct {
	api   *api.Client
	cache *Cache
	log   *logger.Logger
}

func (s *UserService) Me(ctx context.Context) (*User, error) {
	var user User
	if err := s.api.Get(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByCPF looks a driver up by CPF to prefill identity forms. A miss is an
// expected outcome, not a fault: 404 returns (nil, false, nil).
func (s *UserService) FindByCPF(ctx context.Context, cpf string) (*Driver, bool, error) {
	digits := format.Digits(cpf)
	if len(digits) != 11 {
		return nil, false, nil
	}

	var result struct {
		Found bool    `json:"found"`
		User  *Driver `json:"user,omitempty"`
	}
	if err := s.api.Get(ctx, "/users/by-cpf/"+digits, nil, &result); err != nil {
		if api.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if !result.Found || result.User == nil {
		return nil, false, nil
	}
	return result.User, true, nil
}

// CreateFiscal registers a new field agent account (admin only).
func (s *UserService) CreateFiscal(ctx context.Context, input CreateFiscalInput) (*User, error) {
	if len([]rune(trimmed(input.Name))) < 2 {
		return nil, validationErr("Nome deve ter no mínimo 2 caracteres")
	}
	if trimmed(input.Email) == "" || !hasAt(input.Email) {
		return nil, validationErr("Email inválido")
	}
	if input.CPF != "" && !format.ValidCPFLength(input.CPF) {
		return nil, validationErr("CPF inválido")
	}
	if len(input.Password) < 8 {
		return nil, validationErr("Senha deve ter no mínimo 8 caracteres")
	}

	payload := CreateFiscalInput{
		Name:     trimmed(input.Name),
		Email:    lowerTrimmed(input.Email),
		Password: input.Password,
	}
	if input.CPF != "" {
		payload.CPF = format.Digits(input.CPF)
	}
	if input.Phone != "" {
		payload.Phone = format.Digits(input.Phone)
	}

	var user User
	if err := s.api.Post(ctx, "/users/fiscals", payload, &user); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cacheUsers)
	s.log.Info("Users", "Fiscal created: id=%s email=%s", user.ID, user.Email)
	return &user, nil
}
