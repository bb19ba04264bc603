package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Apurer/storefront-api/internal/domains/reports/domain"
	"github.com/Apurer/storefront-api/internal/domains/reports/ports"
)

const sheetName = "Orders"

var _ ports.Compiler = (*Compiler)(nil)

// Compiler renders report groups into an XLSX workbook: a title row, then per
// order a customer line, a product/price/quantity table and the order total.
type Compiler struct {
	currency string
}

func NewCompiler(currency string) *Compiler {
	return &Compiler{currency: currency}
}

type styles struct {
	title  int
	bold   int
	header int
	money  int
}

func (c *Compiler) Compile(ctx context.Context, rows []domain.Row, filter domain.Filter) (*domain.Document, error) {
	if len(rows) == 0 {
		return nil, domain.ErrNoRows
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", "A", 48); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "B", "C", 14); err != nil {
		return nil, err
	}

	from, to := filter.Label()
	w := &sheetWriter{f: f, row: 1}
	w.set(1, fmt.Sprintf("Orders from %s to %s", from, to), st.title)
	if filter.Status != "" {
		w.next()
		w.set(1, "Status: "+filter.Status, 0)
	}
	w.skip(2)

	for _, group := range domain.GroupRows(rows) {
		w.set(1, fmt.Sprintf("Customer: %s (%s)", group.Customer, group.Email), st.bold)
		w.set(2, group.CreatedAt.UTC().Format("2006-01-02 15:04"), 0)
		w.next()
		w.set(1, "Product", st.header)
		w.set(2, "Price", st.header)
		w.set(3, "Qty", st.header)
		w.next()
		for _, p := range group.Products {
			w.set(1, p.Name, 0)
			w.set(2, p.Price.InexactFloat64(), st.money)
			w.set(3, p.Quantity, 0)
			w.next()
		}
		w.set(1, fmt.Sprintf("Total (%s)", c.currency), st.bold)
		w.set(2, group.Total.InexactFloat64(), st.money)
		w.skip(2)
		if w.err != nil {
			return nil, w.err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &domain.Document{
		FileName:    fmt.Sprintf("orders-report-%s-%s.xlsx", from, to),
		ContentType: domain.ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}); err != nil {
		return st, err
	}
	if st.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return st, err
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F0F8FF"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "CCCCCC", Style: 1},
		},
	}); err != nil {
		return st, err
	}
	st.money, err = f.NewStyle(&excelize.Style{NumFmt: 2})
	return st, err
}

// sheetWriter tracks the current row and keeps the first error.
type sheetWriter struct {
	f   *excelize.File
	row int
	err error
}

func (w *sheetWriter) set(col int, value any, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(sheetName, cell, value); err != nil {
		w.err = err
		return
	}
	if style != 0 {
		w.err = w.f.SetCellStyle(sheetName, cell, cell, style)
	}
}

func (w *sheetWriter) next() { w.row++ }

func (w *sheetWriter) skip(n int) { w.row += n }
