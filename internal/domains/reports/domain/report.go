package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRange = errors.New("report range is invalid")
	// ErrNoRows is returned when no orders fall inside the requested range.
	ErrNoRows = errors.New("no orders in the requested period")
)

const (
	dateLayout = "2006-01-02"
	// ContentTypeXLSX is the media type of the compiled spreadsheet.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Filter selects the orders that go into a report. Both bounds are inclusive.
type Filter struct {
	From   time.Time
	To     time.Time
	Status string
}

// ParseFilter accepts dates as YYYY-MM-DD or RFC 3339. A date-only upper
// bound covers the whole day. Status is passed through trimmed and lowercased;
// callers validate it against their own vocabulary.
func ParseFilter(from, to, status string) (Filter, error) {
	start, _, err := parseBound(from)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: from: %w", ErrInvalidRange, err)
	}
	end, dateOnly, err := parseBound(to)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: to: %w", ErrInvalidRange, err)
	}
	if dateOnly {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return Filter{}, fmt.Errorf("%w: from is after to", ErrInvalidRange)
	}
	return Filter{From: start, To: end, Status: strings.ToLower(strings.TrimSpace(status))}, nil
}

func parseBound(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, errors.New("value is required")
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected YYYY-MM-DD or RFC 3339, got %q", raw)
	}
	return t.UTC(), false, nil
}

// Label renders the range for titles and file names.
func (f Filter) Label() (string, string) {
	return f.From.Format(dateLayout), f.To.Format(dateLayout)
}

// Row is one order × line item row of the report query.
type Row struct {
	OrderID       int64
	CreatedAt     time.Time
	TotalPrice    decimal.Decimal
	CustomerName  string
	CustomerEmail string
	ProductID     int64
	ProductName   string
	Price         decimal.Decimal
	Quantity      int32
}

// ProductLine is a product within a report group.
type ProductLine struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int32
}

// Group is one order block in the report.
type Group struct {
	OrderID   int64
	Customer  string
	Email     string
	CreatedAt time.Time
	Total     decimal.Decimal
	Products  []ProductLine
}

// GroupRows folds report rows into per-order groups. Orders and products keep
// first-seen order; repeated lines of the same product within an order are
// merged and their quantities summed. Distinct products sharing a name stay apart.
func GroupRows(rows []Row) []Group {
	orderIndex := make(map[int64]int, len(rows))
	productIndex := make(map[int64]map[productKey]int, len(rows))
	groups := make([]Group, 0)
	for _, row := range rows {
		gi, ok := orderIndex[row.OrderID]
		if !ok {
			gi = len(groups)
			orderIndex[row.OrderID] = gi
			productIndex[row.OrderID] = map[productKey]int{}
			groups = append(groups, Group{
				OrderID:   row.OrderID,
				Customer:  row.CustomerName,
				Email:     row.CustomerEmail,
				CreatedAt: row.CreatedAt,
				Total:     row.TotalPrice,
			})
		}
		qty := row.Quantity
		if qty <= 0 {
			qty = 1
		}
		products := productIndex[row.OrderID]
		key := productKey{id: row.ProductID, name: row.ProductName}
		if pi, seen := products[key]; seen {
			groups[gi].Products[pi].Quantity += qty
			continue
		}
		products[key] = len(groups[gi].Products)
		groups[gi].Products = append(groups[gi].Products, ProductLine{
			ProductID: row.ProductID,
			Name:      row.ProductName,
			Price:     row.Price,
			Quantity:  qty,
		})
	}
	return groups
}

type productKey struct {
	id   int64
	name string
}

// Document is a compiled report.
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}
