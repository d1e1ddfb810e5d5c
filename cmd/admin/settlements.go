package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/picosparking/zonaazul-admin/internal/format"
	"github.com/picosparking/zonaazul-admin/internal/report"
	"github.com/picosparking/zonaazul-admin/internal/workflow"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

func (app *application) cmdSettlements(ctx context.Context, args []string) error {
	if err := app.restore(ctx); err != nil {
		return err
	}
	sub := "pending"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "generate":
		if !app.capabilities().GenerateSettlements {
			return fmt.Errorf("sua conta não pode gerar prestações")
		}
		fs := flag.NewFlagSet("prestacoes generate", flag.ExitOnError)
		fiscalID := fs.String("fiscal", "", "ID do fiscal (vazio: o próprio)")
		days := fs.Int("dias", 7, "Período em dias")
		fs.Parse(args)

		settlement, err := app.services.Settlements.Generate(ctx, zonaazul.GenerateSettlementInput{
			FiscalID:   *fiscalID,
			PeriodDays: *days,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Prestação %s gerada: %s de %s a %s, total %s\n",
			settlement.ID, settlement.Fiscal.Name,
			settlement.PeriodStart.Format("02/01"), settlement.PeriodEnd.Format("02/01"),
			format.FormatBRL(settlement.TotalAmount))
		return nil

	case "list", "pending":
		fs := flag.NewFlagSet("prestacoes "+sub, flag.ExitOnError)
		fiscalID := fs.String("fiscal", "", "Filtra por fiscal")
		page := fs.Int("pagina", 1, "Página")
		limit := fs.Int("limite", 20, "Itens por página")
		fs.Parse(args)

		var result *apiPage
		if sub == "pending" {
			review := app.reviewWorkflow()
			pending, err := review.LoadPending(ctx, *fiscalID, *page, *limit)
			if err != nil {
				return err
			}
			result = &apiPage{Data: pending.Data, Total: pending.Pagination.Total}
		} else {
			listed, err := app.services.Settlements.List(ctx, zonaazul.ListSettlementsQuery{
				FiscalID: *fiscalID,
				Page:     *page,
				Limit:    *limit,
			})
			if err != nil {
				return err
			}
			result = &apiPage{Data: listed.Data, Total: listed.Pagination.Total}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFISCAL\tPERÍODO\tPIX\tDINHEIRO\tTOTAL\tSTATUS")
		for _, s := range result.Data {
			fmt.Fprintf(w, "%s\t%s\t%s a %s\t%s\t%s\t%s\t%s\n",
				s.ID, s.Fiscal.Name,
				s.PeriodStart.Format("02/01"), s.PeriodEnd.Format("02/01"),
				format.FormatBRL(s.TotalPixAmount), format.FormatBRL(s.TotalCashAmount),
				format.FormatBRL(s.TotalAmount), s.Status)
		}
		w.Flush()
		fmt.Printf("%d prestações\n", result.Total)
		return nil

	case "show":
		fs := flag.NewFlagSet("prestacoes show", flag.ExitOnError)
		id := fs.String("id", "", "ID da prestação")
		csv := fs.String("csv", "", "Exporta os itens para CSV")
		fs.Parse(args)
		if *id == "" {
			return fmt.Errorf("informe -id")
		}

		review := app.reviewWorkflow()
		settlement, err := review.Open(ctx, *id)
		if err != nil {
			return err
		}
		printSettlement(settlement)

		if *csv != "" {
			df, err := report.SettlementLines(settlement)
			if err != nil {
				return err
			}
			if err := report.SaveCSV(df, *csv); err != nil {
				return err
			}
			fmt.Printf("Itens exportados para %s\n", *csv)
		}
		return nil

	case "review":
		fs := flag.NewFlagSet("prestacoes review", flag.ExitOnError)
		id := fs.String("id", "", "ID da prestação")
		approve := fs.Bool("aprovar", false, "Aprova a prestação")
		reject := fs.Bool("rejeitar", false, "Rejeita a prestação")
		obs := fs.String("obs", "", "Observações da revisão")
		fs.Parse(args)
		if *id == "" {
			return fmt.Errorf("informe -id")
		}
		if *approve == *reject {
			return fmt.Errorf("informe exatamente uma decisão: -aprovar ou -rejeitar")
		}

		review := app.reviewWorkflow()
		if _, err := review.Open(ctx, *id); err != nil {
			return err
		}
		decision := zonaazul.SettlementApproved
		if *reject {
			decision = zonaazul.SettlementRejected
		}
		if err := review.Submit(ctx, decision, *obs); err != nil {
			return err
		}
		if decision == zonaazul.SettlementApproved {
			fmt.Println("Prestação aprovada.")
		} else {
			fmt.Println("Prestação rejeitada.")
		}
		return nil

	default:
		return fmt.Errorf("subcomando desconhecido: prestacoes %s", sub)
	}
}

// apiPage flattens the two settlement listings into one printable shape.
type apiPage struct {
	Data  []zonaazul.Settlement
	Total int
}

func (app *application) reviewWorkflow() *workflow.SettlementReview {
	return workflow.NewSettlementReview(app.services.Settlements, app.capabilities(), app.log)
}

func printSettlement(s *zonaazul.Settlement) {
	fmt.Printf("Prestação %s - %s\n", s.ID, s.Fiscal.Name)
	fmt.Printf("Período:    %s a %s\n", s.PeriodStart.Format("02/01/2006"), s.PeriodEnd.Format("02/01/2006"))
	fmt.Printf("PIX:        %s (%d pagamentos)\n", format.FormatBRL(s.TotalPixAmount), s.PixPaymentsCount)
	fmt.Printf("Dinheiro:   %s (%d pagamentos)\n", format.FormatBRL(s.TotalCashAmount), s.CashPaymentsCount)
	fmt.Printf("Total:      %s em %d estacionamentos\n", format.FormatBRL(s.TotalAmount), s.TotalParkings)
	fmt.Printf("Status:     %s\n", s.Status)
	if s.ReviewedBy != nil && s.ReviewedAt != nil {
		fmt.Printf("Revisada:   por %s em %s\n", s.ReviewedBy.Name, s.ReviewedAt.Format("02/01/2006 15:04"))
	}
	if s.Observations != "" {
		fmt.Printf("Observações: %s\n", s.Observations)
	}
	if len(s.Parkings) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PLACA\tZONA\tINÍCIO\tMINUTOS\tVALOR\tPAGAMENTO")
		for _, p := range s.Parkings {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				p.Plate, p.Zone.Code, p.StartTime.Format("02/01 15:04"),
				p.RequestedMinutes, format.FormatBRL(p.Amount), p.PaymentMethod)
		}
		w.Flush()
	}
}
