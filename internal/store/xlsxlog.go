package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscout/internal/model"
)

const (
	leadsSheetName    = "Leads"
	analysisSheetName = "Analysis"
)

var leadsHeader = []string{"Timestamp", "Address", "Owner", "Status", "Estimated Value", "Cap Rate", "Recommendation", "Source"}

var analysisHeader = []string{"Address", "Monthly Rent", "Annual Rent", "NOI", "Cap Rate", "Cash on Cash", "5yr IRR", "Risk Score", "Recommendation"}

// XLSXLogger appends leads to a workbook on disk. Each logged lead adds
// a row to the Leads sheet, and a row to the Analysis sheet when the
// lead carries a financial analysis.
type XLSXLogger struct {
	mu   sync.Mutex
	path string
	file *xlsx.File
}

// NewXLSXLogger opens the workbook at path, creating it with header
// rows when it does not exist.
func NewXLSXLogger(path string) (*XLSXLogger, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := xlsx.OpenFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "xlsxlog: open %s", path)
		}
		return &XLSXLogger{path: path, file: f}, nil
	}

	f := xlsx.NewFile()
	leads, err := f.AddSheet(leadsSheetName)
	if err != nil {
		return nil, eris.Wrap(err, "xlsxlog: add leads sheet")
	}
	appendRow(leads, leadsHeader...)

	analysis, err := f.AddSheet(analysisSheetName)
	if err != nil {
		return nil, eris.Wrap(err, "xlsxlog: add analysis sheet")
	}
	appendRow(analysis, analysisHeader...)

	if err := f.Save(path); err != nil {
		return nil, eris.Wrapf(err, "xlsxlog: save %s", path)
	}
	return &XLSXLogger{path: path, file: f}, nil
}

func (x *XLSXLogger) LogLead(ctx context.Context, lead *model.Lead) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	leads, ok := x.file.Sheet[leadsSheetName]
	if !ok {
		return eris.Errorf("xlsxlog: sheet %q missing in %s", leadsSheetName, x.path)
	}

	recommendation := ""
	if lead.Analysis != nil {
		recommendation = lead.Analysis.Recommendation
	}
	appendRow(leads,
		lead.Timestamp.Format(time.RFC3339),
		lead.Address,
		lead.Owner,
		string(lead.Status),
		formatMoney(lead.EstimatedValue),
		formatPercent(lead.CapRate()),
		recommendation,
		lead.Source,
	)

	if lead.Analysis != nil {
		analysis, ok := x.file.Sheet[analysisSheetName]
		if !ok {
			return eris.Errorf("xlsxlog: sheet %q missing in %s", analysisSheetName, x.path)
		}
		fa := lead.Analysis
		appendRow(analysis,
			lead.Address,
			formatMoney(fa.MonthlyRentEst),
			formatMoney(fa.AnnualRent),
			formatMoney(fa.NOI),
			formatPercent(fa.CapRate),
			formatPercent(fa.CashOnCash),
			formatPercent(fa.FiveYearIRR),
			fmt.Sprintf("%d", fa.RiskScore),
			fa.Recommendation,
		)
	}

	return eris.Wrapf(x.file.Save(x.path), "xlsxlog: save %s", x.path)
}

func appendRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
