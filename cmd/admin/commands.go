package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/picosparking/zonaazul-admin/internal/format"
	"github.com/picosparking/zonaazul-admin/internal/report"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

func (app *application) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email da conta")
	password := fs.String("senha", "", "Senha (lida do terminal quando omitida)")
	fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("informe -email")
	}
	if *password == "" {
		fmt.Print("Senha: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		*password = strings.TrimSpace(line)
	}

	user, err := app.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Autenticado como %s (%s)\n", user.Name, user.Role)
	return nil
}

func (app *application) cmdLogout(ctx context.Context) error {
	if _, ok := app.session.Restore(ctx); !ok {
		fmt.Println("Nenhuma sessão ativa.")
		return nil
	}
	app.session.Logout(ctx)
	fmt.Println("Sessão encerrada.")
	return nil
}

func (app *application) cmdWhoami(ctx context.Context) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	user := app.session.User()
	fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}

func (app *application) cmdZones(ctx context.Context, args []string) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		fs := flag.NewFlagSet("zonas list", flag.ExitOnError)
		status := fs.String("status", "", "Filtra por status: active|inactive")
		search := fs.String("busca", "", "Busca por nome ou código")
		page := fs.Int("pagina", 1, "Página")
		limit := fs.Int("limite", 20, "Itens por página")
		fs.Parse(args)

		result, err := app.services.Zones.List(ctx, zonaazul.ListZonesQuery{
			Status: zonaazul.ZoneStatus(*status),
			Search: *search,
			Page:   *page,
			Limit:  *limit,
		})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CÓDIGO\tNOME\tPREÇO/PERÍODO\tPERÍODO\tMÁXIMO\tVAGAS\tSTATUS")
		for _, z := range result.Data {
			fmt.Fprintf(w, "%s\t%s\t%s\t%dmin\t%dmin\t%d/%d\t%s\n",
				z.Code, z.Name, format.FormatBRL(z.Price()), z.PeriodMinutes,
				z.MaxTimeMinutes, z.OccupiedSpots, z.TotalSpots, z.Status)
		}
		w.Flush()
		fmt.Printf("Página %d de %d (%d zonas)\n",
			result.Pagination.Page, result.Pagination.TotalPages, result.Pagination.Total)
		return nil

	case "create":
		if !app.capabilities().ManageZones {
			return fmt.Errorf("apenas administradores podem gerenciar zonas")
		}
		fs := flag.NewFlagSet("zonas create", flag.ExitOnError)
		code := fs.String("codigo", "", "Código da zona")
		name := fs.String("nome", "", "Nome da zona")
		address := fs.String("endereco", "", "Endereço")
		price := fs.Float64("preco", 0, "Preço por período")
		period := fs.Int("periodo", 30, "Minutos por período")
		max := fs.Int("maximo", 120, "Tempo máximo em minutos")
		spots := fs.Int("vagas", 0, "Total de vagas")
		fs.Parse(args)

		zone, err := app.services.Zones.Create(ctx, zonaazul.CreateZoneInput{
			Code:           *code,
			Name:           *name,
			Address:        *address,
			PricePerPeriod: *price,
			PeriodMinutes:  *period,
			MaxTimeMinutes: *max,
			TotalSpots:     *spots,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Zona %s criada (id %s)\n", zone.Code, zone.ID)
		return nil

	case "update":
		if !app.capabilities().ManageZones {
			return fmt.Errorf("apenas administradores podem gerenciar zonas")
		}
		fs := flag.NewFlagSet("zonas update", flag.ExitOnError)
		id := fs.String("id", "", "ID da zona")
		name := fs.String("nome", "", "Novo nome")
		price := fs.Float64("preco", 0, "Novo preço por período")
		status := fs.String("status", "", "Novo status: active|inactive")
		fs.Parse(args)
		if *id == "" {
			return fmt.Errorf("informe -id")
		}

		var input zonaazul.UpdateZoneInput
		if *name != "" {
			input.Name = name
		}
		if *price > 0 {
			input.PricePerPeriod = price
		}
		if *status != "" {
			s := zonaazul.ZoneStatus(*status)
			input.Status = &s
		}
		zone, err := app.services.Zones.Update(ctx, *id, input)
		if err != nil {
			return err
		}
		fmt.Printf("Zona %s atualizada\n", zone.Code)
		return nil

	case "delete":
		if !app.capabilities().ManageZones {
			return fmt.Errorf("apenas administradores podem gerenciar zonas")
		}
		fs := flag.NewFlagSet("zonas delete", flag.ExitOnError)
		id := fs.String("id", "", "ID da zona")
		fs.Parse(args)
		if *id == "" {
			return fmt.Errorf("informe -id")
		}
		if err := app.services.Zones.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Println("Zona removida.")
		return nil

	default:
		return fmt.Errorf("subcomando desconhecido: zonas %s", sub)
	}
}

func (app *application) cmdPlateLookup(ctx context.Context, args []string) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	fs := flag.NewFlagSet("placa", flag.ExitOnError)
	plate := fs.String("placa", "", "Placa do veículo")
	fs.Parse(args)
	if *plate == "" && fs.NArg() > 0 {
		*plate = fs.Arg(0)
	}

	result, err := app.services.Parkings.LookupPlate(ctx, *plate)
	if err != nil {
		return err
	}
	if !result.Found {
		fmt.Printf("Placa %s irregular.", format.NormalizePlate(*plate))
		if result.Reason != "" {
			fmt.Printf(" %s.", result.Reason)
		}
		if result.CanCreateNotification {
			fmt.Print(" Use 'notificar' para emitir a notificação.")
		}
		fmt.Println()
		return nil
	}

	p := result.Parking
	fmt.Printf("Placa %s regular: zona %s, início %s, término previsto %s (%s)\n",
		p.Plate, zoneName(p), p.StartTime.Format("15:04"),
		p.ExpectedEndTime.Format("15:04"), p.Status)
	return nil
}

func (app *application) cmdHistory(ctx context.Context, args []string) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	fs := flag.NewFlagSet("historico", flag.ExitOnError)
	status := fs.String("status", "", "Filtra por status")
	zoneID := fs.String("zona", "", "Filtra por zona")
	start := fs.String("inicio", "", "Data inicial (YYYY-MM-DD)")
	end := fs.String("fim", "", "Data final (YYYY-MM-DD)")
	page := fs.Int("pagina", 1, "Página")
	limit := fs.Int("limite", 20, "Itens por página")
	fs.Parse(args)

	result, err := app.services.Parkings.History(ctx, zonaazul.HistoryQuery{
		Status:    zonaazul.ParkingStatus(*status),
		ZoneID:    *zoneID,
		StartDate: *start,
		EndDate:   *end,
		Page:      *page,
		Limit:     *limit,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLACA\tZONA\tINÍCIO\tMINUTOS\tVALOR\tSTATUS")
	for _, p := range result.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			p.Plate, zoneName(&p), p.StartTime.Format("02/01 15:04"),
			p.RequestedMinutes, format.FormatBRL(p.CreditsUsed), p.Status)
	}
	w.Flush()
	fmt.Printf("Página %d de %d (%d registros)\n",
		result.Pagination.Page, result.Pagination.TotalPages, result.Pagination.Total)
	return nil
}

func (app *application) cmdMetrics(ctx context.Context) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	metrics, err := app.services.Parkings.DashboardMetrics(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Estacionamentos ativos: %d\n", metrics.ActiveParkings)
	fmt.Printf("Receita de hoje:        %s\n", format.FormatBRL(metrics.TotalRevenueToday))
	fmt.Printf("Usuários ativos:        %d\n", metrics.ActiveUsers)
	fmt.Printf("Zonas cadastradas:      %d\n", metrics.RegisteredZones)
	return nil
}

func (app *application) cmdAvulso(ctx context.Context, args []string) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	fs := flag.NewFlagSet("avulso", flag.ExitOnError)
	zoneID := fs.String("zona", "", "ID da zona")
	plate := fs.String("placa", "", "Placa do veículo")
	minutes := fs.Int("minutos", 0, "Tempo solicitado em minutos")
	fs.Parse(args)
	if *zoneID == "" || *plate == "" {
		return fmt.Errorf("informe -zona e -placa")
	}

	zone, err := app.services.Zones.Get(ctx, *zoneID)
	if err != nil {
		return err
	}
	fmt.Printf("Zona %s: %s por %d minutos. Valor previsto: %s\n",
		zone.Code, format.FormatBRL(zone.Price()), zone.PeriodMinutes,
		format.FormatBRL(zonaazul.ExpectedPrice(zone, *minutes)))

	parking, err := app.services.Parkings.CreateAvulso(ctx, zone, zonaazul.CreateAvulsoInput{
		Plate:            *plate,
		RequestedMinutes: *minutes,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Estacionamento criado: placa %s até %s\n",
		parking.Plate, parking.ExpectedEndTime.Format("15:04"))
	return nil
}

func (app *application) cmdNotify(ctx context.Context, args []string) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	if !app.capabilities().IssueNotifications {
		return fmt.Errorf("sua conta não pode emitir notificações")
	}
	fs := flag.NewFlagSet("notificar", flag.ExitOnError)
	plate := fs.String("placa", "", "Placa do veículo")
	address := fs.String("endereco", "", "Endereço do flagrante")
	obs := fs.String("obs", "", "Observações")
	fs.Parse(args)

	input := zonaazul.CreateNotificationInput{Plate: *plate, Observations: *obs}
	if *address != "" {
		input.Location = &zonaazul.Location{Address: *address}
	}
	notification, err := app.services.Notifications.Create(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("Notificação %s emitida para a placa %s. Valor: %s, vence em %s.\n",
		notification.NotificationNumber, notification.Plate,
		format.FormatBRL(notification.Amount),
		notification.ExpiresAt.Format("02/01/2006 15:04"))
	return nil
}

func (app *application) cmdNotifications(ctx context.Context, args []string) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	fs := flag.NewFlagSet("notificacoes", flag.ExitOnError)
	status := fs.String("status", "", "Filtra por status")
	plate := fs.String("placa", "", "Filtra por placa")
	page := fs.Int("pagina", 1, "Página")
	limit := fs.Int("limite", 20, "Itens por página")
	fs.Parse(args)

	result, err := app.services.Notifications.List(ctx, zonaazul.ListNotificationsQuery{
		Status: zonaazul.NotificationStatus(*status),
		Plate:  *plate,
		Page:   *page,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NÚMERO\tPLACA\tVALOR\tSTATUS\tVENCIMENTO")
	for _, n := range result.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			n.NotificationNumber, n.Plate, format.FormatBRL(n.Amount),
			n.Status, n.ExpiresAt.Format("02/01 15:04"))
	}
	w.Flush()
	fmt.Printf("Página %d de %d (%d notificações)\n",
		result.Pagination.Page, result.Pagination.TotalPages, result.Pagination.Total)
	return nil
}

func (app *application) cmdFiscalParkings(ctx context.Context, args []string) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "create":
		if !app.capabilities().CreateFiscalParkings {
			return fmt.Errorf("sua conta não pode registrar estacionamentos de fiscal")
		}
		fs := flag.NewFlagSet("fiscal create", flag.ExitOnError)
		zoneID := fs.String("zona", "", "ID da zona")
		plate := fs.String("placa", "", "Placa do veículo")
		minutes := fs.Int("minutos", 0, "Tempo solicitado em minutos")
		method := fs.String("pagamento", "pix", "Forma de pagamento: pix|cash")
		fs.Parse(args)
		if *zoneID == "" || *plate == "" {
			return fmt.Errorf("informe -zona e -placa")
		}

		zone, err := app.services.Zones.Get(ctx, *zoneID)
		if err != nil {
			return err
		}
		parking, err := app.services.FiscalParkings.Create(ctx, zone, zonaazul.CreateFiscalParkingInput{
			Plate:            *plate,
			RequestedMinutes: *minutes,
			PaymentMethod:    zonaazul.PaymentMethod(*method),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Estacionamento registrado: placa %s, %s, valor %s\n",
			parking.Plate, parking.PaymentMethod, format.FormatBRL(parking.Amount))
		if parking.Payment != nil && parking.Payment.QRCodeText != "" {
			fmt.Printf("PIX copia e cola:\n%s\n", parking.Payment.QRCodeText)
		}
		return nil

	case "list":
		fs := flag.NewFlagSet("fiscal list", flag.ExitOnError)
		status := fs.String("status", "", "Filtra por status")
		page := fs.Int("pagina", 1, "Página")
		limit := fs.Int("limite", 20, "Itens por página")
		fs.Parse(args)

		result, err := app.services.FiscalParkings.List(ctx, zonaazul.ListFiscalParkingsQuery{
			Status: zonaazul.ParkingStatus(*status),
			Page:   *page,
			Limit:  *limit,
		})
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PLACA\tZONA\tMINUTOS\tVALOR\tPAGAMENTO\tSTATUS")
		for _, p := range result.Data {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
				p.Plate, p.Zone.Code, p.RequestedMinutes,
				format.FormatBRL(p.Amount), p.PaymentMethod, p.Status)
		}
		w.Flush()
		return nil

	case "stats":
		fs := flag.NewFlagSet("fiscal stats", flag.ExitOnError)
		start := fs.String("inicio", "", "Data inicial (YYYY-MM-DD)")
		end := fs.String("fim", "", "Data final (YYYY-MM-DD)")
		fs.Parse(args)

		stats, err := app.services.FiscalParkings.Statistics(ctx, *start, *end)
		if err != nil {
			return err
		}
		fmt.Printf("Estacionamentos: %d\n", stats.TotalParkings)
		fmt.Printf("PIX:             %s (%d pagamentos, %d pendentes)\n",
			format.FormatBRL(stats.TotalPixAmount), stats.PixPaymentsCount, stats.PendingPixPayments)
		fmt.Printf("Dinheiro:        %s (%d pagamentos)\n",
			format.FormatBRL(stats.TotalCashAmount), stats.CashPaymentsCount)
		fmt.Printf("Total:           %s\n", format.FormatBRL(stats.TotalAmount))
		return nil

	default:
		return fmt.Errorf("subcomando desconhecido: fiscal %s", sub)
	}
}

func (app *application) cmdFiscals(ctx context.Context, args []string) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	if !app.capabilities().CreateFiscals {
		return fmt.Errorf("apenas administradores podem criar contas de fiscal")
	}
	sub := "create"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}
	if sub != "create" {
		return fmt.Errorf("subcomando desconhecido: fiscais %s", sub)
	}

	fs := flag.NewFlagSet("fiscais create", flag.ExitOnError)
	name := fs.String("nome", "", "Nome completo")
	email := fs.String("email", "", "Email")
	cpf := fs.String("cpf", "", "CPF (opcional)")
	phone := fs.String("telefone", "", "Telefone (opcional)")
	password := fs.String("senha", "", "Senha inicial")
	fs.Parse(args)

	user, err := app.services.Users.CreateFiscal(ctx, zonaazul.CreateFiscalInput{
		Name:     *name,
		Email:    *email,
		CPF:      *cpf,
		Phone:    *phone,
		Password: *password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Fiscal %s criado (%s)\n", user.Name, user.Email)
	return nil
}

func (app *application) cmdReport(ctx context.Context, args []string) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	fs := flag.NewFlagSet("relatorio", flag.ExitOnError)
	start := fs.String("inicio", "", "Data inicial (YYYY-MM-DD)")
	end := fs.String("fim", "", "Data final (YYYY-MM-DD)")
	out := fs.String("csv", "uso-por-zona.csv", "Arquivo CSV de saída")
	limit := fs.Int("limite", 500, "Registros por página")
	fs.Parse(args)

	rows, err := report.FullHistory(ctx, app.services.Parkings, zonaazul.HistoryQuery{
		StartDate: *start,
		EndDate:   *end,
		Limit:     *limit,
	})
	if err != nil {
		return err
	}

	df, err := report.UsageByZone(rows)
	if err != nil {
		return err
	}
	if err := report.SaveCSV(df, *out); err != nil {
		return err
	}
	zones, _ := df.Dims()
	fmt.Printf("Relatório gravado em %s (%d registros em %d zonas)\n", *out, len(rows), zones)
	return nil
}

func zoneName(p *zonaazul.Parking) string {
	if p.Zone != nil {
		return p.Zone.Code
	}
	return p.ZoneID
}
