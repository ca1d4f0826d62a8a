package source

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscout/internal/model"
)

// XLSXFile reads raw leads from a workbook. Expected columns, in order:
// address, owner, source. The first row is treated as a header when its
// first cell reads "address" (case-insensitive).
type XLSXFile struct {
	Path      string
	SheetName string // empty selects the first sheet
}

func (f *XLSXFile) Scan(_ context.Context) ([]model.RawLead, error) {
	wb, err := xlsx.OpenFile(f.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open workbook %s", f.Path)
	}

	sheet, err := f.sheet(wb)
	if err != nil {
		return nil, err
	}

	var leads []model.RawLead
	for i, row := range sheet.Rows {
		cells := rowStrings(row)
		if len(cells) == 0 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(cells[0]), "address") {
			continue
		}

		address := strings.TrimSpace(cells[0])
		if address == "" {
			continue
		}

		lead := model.RawLead{Address: address, Source: f.Path}
		if len(cells) > 1 {
			lead.Owner = strings.TrimSpace(cells[1])
		}
		if len(cells) > 2 && strings.TrimSpace(cells[2]) != "" {
			lead.Source = strings.TrimSpace(cells[2])
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

func (f *XLSXFile) sheet(wb *xlsx.File) (*xlsx.Sheet, error) {
	if f.SheetName != "" {
		sheet, ok := wb.Sheet[f.SheetName]
		if !ok {
			return nil, eris.Errorf("source: sheet %q not found in %s", f.SheetName, f.Path)
		}
		return sheet, nil
	}
	if len(wb.Sheets) == 0 {
		return nil, eris.Errorf("source: workbook %s has no sheets", f.Path)
	}
	return wb.Sheets[0], nil
}

func rowStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		out[i] = cell.String()
	}
	return out
}
