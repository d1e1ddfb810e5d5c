// Package report turns parking history into per-zone usage summaries and CSV
// exports for the city hall's accounting.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/picosparking/zonaazul-admin/internal/api"
	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

// ErrNoRows means the requested period produced nothing to report on.
var ErrNoRows = errors.New("nenhum registro no período")

// HistorySource is the slice of the parking service the report pulls from.
type HistorySource interface {
	History(ctx context.Context, query zonaazul.HistoryQuery) (*api.Page[zonaazul.Parking], error)
}

// FullHistory drains every page of the history listing for the period. The
// server caps page size, so a busy month never fits in a single response.
func FullHistory(ctx context.Context, src HistorySource, query zonaazul.HistoryQuery) ([]zonaazul.Parking, error) {
	var all []zonaazul.Parking
	for page := 1; ; page++ {
		query.Page = page
		result, err := src.History(ctx, query)
		if err != nil {
			return nil, err
		}
		all = append(all, result.Data...)
		if len(result.Data) == 0 || page >= result.Pagination.TotalPages {
			return all, nil
		}
	}
}

// UsageByZone aggregates history rows into one line per zone: session count,
// total minutes and net revenue (credits used minus refunds).
func UsageByZone(parkings []zonaazul.Parking) (dataframe.DataFrame, error) {
	if len(parkings) == 0 {
		return dataframe.DataFrame{}, ErrNoRows
	}

	zones := make([]string, len(parkings))
	minutes := make([]int, len(parkings))
	revenue := make([]float64, len(parkings))
	for i, p := range parkings {
		zones[i] = zoneLabel(p)
		minutes[i] = sessionMinutes(p)
		revenue[i] = p.CreditsUsed - p.CreditsRefunded
	}

	df := dataframe.New(
		series.New(zones, series.String, "Zona"),
		series.New(minutes, series.Int, "Minutos"),
		series.New(revenue, series.Float, "Valor"),
	)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("error building report rows: %v", df.Error())
	}

	result := df.GroupBy("Zona").Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_COUNT, dataframe.Aggregation_SUM, dataframe.Aggregation_SUM},
		[]string{"Zona", "Minutos", "Valor"},
	)
	if result.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("error aggregating by zone: %v", result.Error())
	}

	result = result.
		Rename("Sessões", "Zona_COUNT").
		Rename("Minutos", "Minutos_SUM").
		Rename("Valor", "Valor_SUM").
		Arrange(dataframe.Sort("Zona"))
	if result.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("error shaping report: %v", result.Error())
	}
	return result, nil
}

// SettlementLines flattens a settlement's line items for export alongside the
// review decision.
func SettlementLines(settlement *zonaazul.Settlement) (dataframe.DataFrame, error) {
	if settlement == nil || len(settlement.Parkings) == 0 {
		return dataframe.DataFrame{}, ErrNoRows
	}

	n := len(settlement.Parkings)
	plates := make([]string, n)
	zones := make([]string, n)
	starts := make([]string, n)
	minutes := make([]int, n)
	amounts := make([]float64, n)
	methods := make([]string, n)
	for i, p := range settlement.Parkings {
		plates[i] = p.Plate
		zones[i] = p.Zone.Code
		starts[i] = p.StartTime.Format("2006-01-02 15:04")
		minutes[i] = p.RequestedMinutes
		amounts[i] = p.Amount
		methods[i] = string(p.PaymentMethod)
	}

	df := dataframe.New(
		series.New(plates, series.String, "Placa"),
		series.New(zones, series.String, "Zona"),
		series.New(starts, series.String, "Início"),
		series.New(minutes, series.Int, "Minutos"),
		series.New(amounts, series.Float, "Valor"),
		series.New(methods, series.String, "Pagamento"),
	)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("error building settlement rows: %v", df.Error())
	}
	return df, nil
}

// SaveCSV writes the report to disk.
func SaveCSV(df dataframe.DataFrame, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %v", err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("error writing CSV: %v", err)
	}
	return nil
}

func zoneLabel(p zonaazul.Parking) string {
	if p.Zone != nil && p.Zone.Code != "" {
		return p.Zone.Code
	}
	return p.ZoneID
}

func sessionMinutes(p zonaazul.Parking) int {
	if p.ActualMinutes != nil {
		return *p.ActualMinutes
	}
	return p.RequestedMinutes
}
