package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/env"
	"github.com/picosparking/zonaazul-admin/internal/logger"
	"github.com/picosparking/zonaazul-admin/internal/session"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

type config struct {
	apiURL   string
	timeout  time.Duration
	cacheTTL time.Duration
	logLevel string
	home     string
}

type application struct {
	config   config
	log      *logger.Logger
	session  *session.Session
	services *zonaazul.Services
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cfg := config{
		apiURL:   env.GetString("ZONAAZUL_API_URL", "http://localhost:3000/api/v1"),
		timeout:  env.GetDuration("ZONAAZUL_HTTP_TIMEOUT", 30*time.Second),
		cacheTTL: env.GetDuration("ZONAAZUL_CACHE_TTL", 30*time.Second),
		logLevel: env.GetString("ZONAAZUL_LOG_LEVEL", "warn"),
		home:     session.DefaultDir(),
	}

	log := logger.New(logger.ParseLevel(cfg.logLevel))

	store, err := session.NewStore(cfg.home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}

	command := "help"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	app := &application{config: cfg, log: log}

	var sess *session.Session
	relogin := make(chan struct{}, 1)
	client := api.New(api.Config{
		BaseURL: cfg.apiURL,
		Timeout: cfg.timeout,
		Logger:  log,
		Tokens: api.TokenSourceFunc(func() string {
			if sess == nil {
				return ""
			}
			return sess.AccessToken()
		}),
		Unauthorized: &api.UnauthorizedPolicy{
			CurrentView: func() api.View {
				if command == "login" {
					return api.ViewLogin
				}
				return api.ViewDashboard
			},
			ClearSession: func() {
				if sess != nil {
					sess.Clear()
				}
			},
			RedirectToLogin: func() {
				fmt.Fprintln(os.Stderr, "Sessão expirada. Entre novamente com: zonaazul-admin login")
				relogin <- struct{}{}
			},
			Delay: env.GetDuration("ZONAAZUL_REDIRECT_DELAY", 0),
		},
	})

	app.services = zonaazul.NewServices(client, zonaazul.NewCache(cfg.cacheTTL), log)
	sess = session.New(store, client, app.services.Users, log)
	app.session = sess

	err = app.run(context.Background(), command, os.Args[2:])
	if err != nil && api.IsUnauthorized(err) {
		// The relogin hint fires on a delayed timer; wait for it before exiting.
		select {
		case <-relogin:
		case <-time.After(300 * time.Millisecond):
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

func (app *application) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return app.cmdLogin(ctx, args)
	case "logout":
		return app.cmdLogout(ctx)
	case "whoami":
		return app.cmdWhoami(ctx)
	case "zonas":
		return app.cmdZones(ctx, args)
	case "placa":
		return app.cmdPlateLookup(ctx, args)
	case "historico":
		return app.cmdHistory(ctx, args)
	case "metricas":
		return app.cmdMetrics(ctx)
	case "avulso":
		return app.cmdAvulso(ctx, args)
	case "notificar":
		return app.cmdNotify(ctx, args)
	case "notificacoes":
		return app.cmdNotifications(ctx, args)
	case "fiscal":
		return app.cmdFiscalParkings(ctx, args)
	case "fiscais":
		return app.cmdFiscals(ctx, args)
	case "prestacoes":
		return app.cmdSettlements(ctx, args)
	case "relatorio":
		return app.cmdReport(ctx, args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("comando desconhecido: %s", command)
	}
}

// restore loads the persisted session before any authenticated command.
func (app *application) restore(ctx context.Context) error {
	if _, ok := app.session.Restore(ctx); !ok {
		return fmt.Errorf("não autenticado. Entre com: zonaazul-admin login")
	}
	return nil
}

func (app *application) capabilities() session.Capabilities {
	user := app.session.User()
	if user == nil {
		return session.Capabilities{}
	}
	return session.CapabilitiesFor(user.Role)
}

func usage() {
	fmt.Print(`zonaazul-admin - painel administrativo da Zona Azul

Uso:
  zonaazul-admin <comando> [opções]

Comandos:
  login          autentica com email e senha
  logout         encerra a sessão
  whoami         mostra o usuário autenticado
  zonas          lista e gerencia zonas (list|create|update|delete)
  placa          consulta a situação de uma placa
  historico      histórico de estacionamentos
  metricas       métricas do painel
  avulso         cria estacionamento avulso para um motorista
  notificar      emite notificação de irregularidade
  notificacoes   lista notificações emitidas
  fiscal         estacionamentos de fiscal (create|list|stats)
  fiscais        gerencia contas de fiscal (create)
  prestacoes     prestações de contas (generate|list|pending|show|review)
  relatorio      exporta uso por zona em CSV
`)
}
