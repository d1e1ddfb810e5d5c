package zonaazul_test

import (
	"context"
	"testing"

	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

func TestFindByCPFRequiresElevenDigits(t *testing.T) {
	srv, services := newServices(t)

	for _, cpf := range []string{"", "123", "5299822472", "529982247255"} {
		driver, found, err := services.Users.FindByCPF(context.Background(), cpf)
		if err != nil || found || driver != nil {
			t.Errorf("FindByCPF(%q) = (%v, %v, %v), want (nil, false, nil)", cpf, driver, found, err)
		}
	}
	if srv.TotalRequests() != 0 {
		t.Error("incomplete CPF reached the server")
	}
}

func TestFindByCPFMissIsNotAnError(t *testing.T) {
	srv, services := newServices(t)

	driver, found, err := services.Users.FindByCPF(context.Background(), "529.982.247-25")
	if err != nil {
		t.Fatalf("a 404 should be swallowed, got %v", err)
	}
	if found || driver != nil {
		t.Errorf("got (%v, %v), want a clean miss", driver, found)
	}
	if got := srv.Requests("GET /users/by-cpf/{cpf}"); got != 1 {
		t.Errorf("server saw %d lookups, want 1", got)
	}
}

func TestFindByCPFStripsFormatting(t *testing.T) {
	srv, services := newServices(t)
	srv.Drivers["52998224725"] = &zonaazul.Driver{
		ID:    "driver-1",
		Name:  "Maria da Silva",
		Email: "maria@example.com",
	}

	driver, found, err := services.Users.FindByCPF(context.Background(), "529.982.247-25")
	if err != nil {
		t.Fatalf("FindByCPF: %v", err)
	}
	if !found || driver == nil || driver.Name != "Maria da Silva" {
		t.Errorf("got (%+v, %v)", driver, found)
	}
}

func TestCreateFiscalValidation(t *testing.T) {
	valid := zonaazul.CreateFiscalInput{
		Name:     "João Fiscal",
		Email:    "joao@picos.pi.gov.br",
		Password: "senha-forte",
	}

	tests := []struct {
		name    string
		mutate  func(*zonaazul.CreateFiscalInput)
		message string
	}{
		{"short name", func(in *zonaazul.CreateFiscalInput) { in.Name = " J " }, "Nome deve ter no mínimo 2 caracteres"},
		{"bad email", func(in *zonaazul.CreateFiscalInput) { in.Email = "joao.example.com" }, "Email inválido"},
		{"bad cpf", func(in *zonaazul.CreateFiscalInput) { in.CPF = "1234" }, "CPF inválido"},
		{"short password", func(in *zonaazul.CreateFiscalInput) { in.Password = "curta" }, "Senha deve ter no mínimo 8 caracteres"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, services := newServices(t)
			input := valid
			tc.mutate(&input)

			_, err := services.Users.CreateFiscal(context.Background(), input)
			assertValidation(t, err, tc.message)
			if srv.TotalRequests() != 0 {
				t.Error("invalid input reached the server")
			}
		})
	}
}

func TestCreateFiscalNormalizesPayload(t *testing.T) {
	_, services := newServices(t)

	user, err := services.Users.CreateFiscal(context.Background(), zonaazul.CreateFiscalInput{
		Name:     "  João Fiscal  ",
		Email:    " Joao@Picos.PI.gov.br ",
		CPF:      "529.982.247-25",
		Phone:    "(89) 99999-0000",
		Password: "senha-forte",
	})
	if err != nil {
		t.Fatalf("CreateFiscal: %v", err)
	}
	if user.Email != "joao@picos.pi.gov.br" {
		t.Errorf("Email = %q, want lowercased and trimmed", user.Email)
	}
	if user.Name != "João Fiscal" {
		t.Errorf("Name = %q, want trimmed", user.Name)
	}
	if user.Role != zonaazul.RoleFiscal {
		t.Errorf("Role = %q, want fiscal", user.Role)
	}
}
