// Command notifica is the driver-facing flow for a parking citation: look the
// notification up by its public number, recognize it with the driver's
// identity and pay the PIX charge. No login is involved.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/env"
	"github.com/picosparking/zonaazul-admin/internal/format"
	"github.com/picosparking/zonaazul-admin/internal/logger"
	"github.com/picosparking/zonaazul-admin/internal/workflow"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	number := flag.String("numero", "", "Número da notificação (ex: 00000007)")
	cpf := flag.String("cpf", "", "CPF do condutor")
	name := flag.String("nome", "", "Nome completo do condutor")
	email := flag.String("email", "", "Email do condutor")
	phone := flag.String("telefone", "", "Telefone (opcional)")
	address := flag.String("endereco", "", "Endereço (opcional)")
	wait := flag.Bool("aguardar", false, "Aguarda a confirmação do pagamento")
	logLevel := flag.String("loglevel", "error", "Log level: debug, info, warn, error")
	flag.Parse()

	if *number == "" && flag.NArg() > 0 {
		*number = flag.Arg(0)
	}
	if *number == "" {
		fmt.Fprintln(os.Stderr, "Uso: zonaazul-notifica -numero <número> [-cpf -nome -email] [-aguardar]")
		os.Exit(1)
	}

	log := logger.New(logger.ParseLevel(*logLevel))
	client := api.New(api.Config{
		BaseURL: env.GetString("ZONAAZUL_API_URL", "http://localhost:3000/api/v1"),
		Timeout: env.GetDuration("ZONAAZUL_HTTP_TIMEOUT", 30*time.Second),
		Logger:  log,
		// The public flow never holds a session, so a 401 must not touch
		// anything.
		Unauthorized: &api.UnauthorizedPolicy{
			CurrentView: func() api.View { return api.ViewPublicNotification },
		},
	})
	services := zonaazul.NewServices(client, zonaazul.NewCache(env.GetDuration("ZONAAZUL_CACHE_TTL", 30*time.Second)), log)
	flow := workflow.NewNotificationFlow(services, log, env.GetDuration("ZONAAZUL_POLL_INTERVAL", 3*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flow, options{
		number:  *number,
		cpf:     *cpf,
		name:    *name,
		email:   *email,
		phone:   *phone,
		address: *address,
		wait:    *wait,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	number  string
	cpf     string
	name    string
	email   string
	phone   string
	address string
	wait    bool
}

func run(ctx context.Context, flow *workflow.NotificationFlow, opts options) error {
	notification, err := flow.Lookup(ctx, opts.number)
	if err != nil {
		return err
	}
	printNotification(notification)

	if flow.AllowedAction() == workflow.ActionRecognize {
		if opts.cpf == "" {
			fmt.Println("\nPara reconhecer a notificação, informe -cpf, -nome e -email.")
			return nil
		}

		// The CPF may already identify a registered driver; prefill what the
		// flags left empty.
		if driver, found := flow.PrefillFromCPF(ctx, opts.cpf); found {
			if opts.name == "" {
				opts.name = driver.Name
			}
			if opts.email == "" {
				opts.email = driver.Email
			}
			if opts.phone == "" {
				opts.phone = driver.Phone
			}
			fmt.Printf("\nCondutor localizado pelo CPF: %s\n", driver.Name)
		}

		notification, err = flow.Recognize(ctx, zonaazul.RecognizeInput{
			CPF:     opts.cpf,
			Name:    opts.name,
			Email:   opts.email,
			Phone:   opts.phone,
			Address: opts.address,
		})
		if err != nil {
			return err
		}
		fmt.Println("\nNotificação reconhecida.")
	}

	if flow.AllowedAction() == workflow.ActionPay {
		payment, created, err := flow.EnsurePayment(ctx)
		if err != nil {
			return fmt.Errorf("não foi possível gerar o pagamento: %w (execute o comando novamente para tentar outra vez)", err)
		}
		if created {
			fmt.Println("\nPagamento PIX gerado.")
		}
		fmt.Printf("Valor: %s, expira em %s\n",
			format.FormatBRL(payment.Payment.Amount),
			payment.Payment.ExpiresAt.Format("02/01/2006 15:04"))
		fmt.Printf("PIX copia e cola:\n%s\n", payment.Payment.QRCodeText)

		if opts.wait {
			fmt.Println("\nAguardando a confirmação do pagamento (Ctrl+C para sair)...")
			status, err := flow.PollUntilPaid(ctx)
			if err != nil {
				return err
			}
			printFinalStatus(status)
		}
	}
	return nil
}

func printNotification(n *zonaazul.PublicNotification) {
	fmt.Printf("Notificação %s\n", n.NotificationNumber)
	fmt.Printf("Placa:      %s\n", n.Plate)
	fmt.Printf("Valor:      %s\n", format.FormatBRL(n.Amount))
	fmt.Printf("Status:     %s\n", statusLabel(n.Status))
	fmt.Printf("Vencimento: %s\n", n.ExpiresAt.Format("02/01/2006 15:04"))
}

func printFinalStatus(status zonaazul.NotificationStatus) {
	switch status {
	case zonaazul.NotificationPaid:
		fmt.Println("Pagamento confirmado. Notificação quitada.")
	case zonaazul.NotificationExpired:
		fmt.Println("A notificação expirou antes do pagamento.")
	case zonaazul.NotificationConverted:
		fmt.Println("A notificação foi convertida em multa.")
	default:
		fmt.Printf("Status atual: %s\n", statusLabel(status))
	}
}

func statusLabel(status zonaazul.NotificationStatus) string {
	switch status {
	case zonaazul.NotificationPending:
		return "pendente de reconhecimento"
	case zonaazul.NotificationRecognized:
		return "reconhecida, aguardando pagamento"
	case zonaazul.NotificationPaid:
		return "paga"
	case zonaazul.NotificationExpired:
		return "expirada"
	case zonaazul.NotificationConverted:
		return "convertida em multa"
	default:
		return string(status)
	}
}
