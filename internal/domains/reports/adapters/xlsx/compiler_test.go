package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Apurer/storefront-api/internal/domains/reports/domain"
)

func TestCompileProducesWorkbook(t *testing.T) {
	filter, err := domain.ParseFilter("2024-03-01", "2024-03-31", "")
	require.NoError(t, err)
	created := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	rows := []domain.Row{
		{OrderID: 2, CreatedAt: created, TotalPrice: decimal.RequireFromString("250"), CustomerName: "Ann", CustomerEmail: "ann@example.com", ProductName: "Keyboard", Price: decimal.RequireFromString("100"), Quantity: 2},
		{OrderID: 2, CreatedAt: created, TotalPrice: decimal.RequireFromString("250"), CustomerName: "Ann", CustomerEmail: "ann@example.com", ProductName: "Mouse", Price: decimal.RequireFromString("50"), Quantity: 1},
	}

	doc, err := NewCompiler("RUB").Compile(context.Background(), rows, filter)
	require.NoError(t, err)
	require.Equal(t, "orders-report-2024-03-01-2024-03-31.xlsx", doc.FileName)
	require.Equal(t, domain.ContentTypeXLSX, doc.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	require.Equal(t, "Orders from 2024-03-01 to 2024-03-31", title)

	customer, err := f.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	require.Equal(t, "Customer: Ann (ann@example.com)", customer)

	product, err := f.GetCellValue(sheetName, "A5")
	require.NoError(t, err)
	require.Equal(t, "Keyboard", product)
	qty, err := f.GetCellValue(sheetName, "C5")
	require.NoError(t, err)
	require.Equal(t, "2", qty)

	total, err := f.GetCellValue(sheetName, "A7")
	require.NoError(t, err)
	require.Equal(t, "Total (RUB)", total)
}

func TestCompileWithoutRows(t *testing.T) {
	_, err := NewCompiler("RUB").Compile(context.Background(), nil, domain.Filter{})
	require.ErrorIs(t, err, domain.ErrNoRows)
}
