package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only summaries over invoices and inventory.
type ReportingService interface {
	// Dashboard returns the dashboard summary as of today, plus invoiced revenue
	// for each of the last twelve months (months without sales report 0).
	Dashboard(ctx context.Context, today time.Time) (*Dashboard, error)

	// Report generates a sales or inventory report. start and end are optional
	// YYYY-MM-DD bounds on invoice date; pass empty string for no bound.
	// KPIs cover the same date range; stock value is always current.
	Report(ctx context.Context, reportType ReportType, start, end string) (*Report, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool              *pgxpool.Pool
	lowStockThreshold float64
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool, lowStockThreshold float64) ReportingService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &reportingService{pool: pool, lowStockThreshold: lowStockThreshold}
}

// dateFilter appends optional invoice_date bounds to q.
func dateFilter(q string, args []any, start, end string) (string, []any) {
	if start != "" {
		args = append(args, start)
		q += fmt.Sprintf(" AND i.invoice_date >= $%d::date", len(args))
	}
	if end != "" {
		args = append(args, end)
		q += fmt.Sprintf(" AND i.invoice_date <= $%d::date", len(args))
	}
	return q, args
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

func (s *reportingService) Dashboard(ctx context.Context, today time.Time) (*Dashboard, error) {
	var totalStock, todaysSales decimal.Decimal
	var lowStock, invoiceCount int

	if err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0),
		       COUNT(*) FILTER (WHERE quantity < $1)
		FROM inventory_items`, s.lowStockThreshold,
	).Scan(&totalStock, &lowStock); err != nil {
		return nil, fmt.Errorf("failed to summarise inventory: %w", err)
	}

	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(grand_total) FILTER (WHERE invoice_date = $1::date), 0)
		FROM invoices`, today.Format("2006-01-02"),
	).Scan(&invoiceCount, &todaysSales); err != nil {
		return nil, fmt.Errorf("failed to summarise invoices: %w", err)
	}

	months := LastTwelveMonths(today)
	rows, err := s.pool.Query(ctx, `
		SELECT to_char(invoice_date, 'YYYY-MM') AS month, SUM(grand_total)
		FROM invoices
		WHERE invoice_date >= $1::date
		GROUP BY month`, months[0]+"-01",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly sales: %w", err)
	}
	defer rows.Close()

	revenue := map[string]decimal.Decimal{}
	for rows.Next() {
		var month string
		var total decimal.Decimal
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly sales: %w", err)
		}
		revenue[month] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly sales: %w", err)
	}

	monthly := make([]MonthlySales, len(months))
	for i, m := range months {
		monthly[i] = MonthlySales{Month: m, Revenue: Money(revenue[m])}
	}

	return &Dashboard{
		Summary: DashboardSummary{
			TotalStock:    totalStock.InexactFloat64(),
			TodaysSales:   Money(todaysSales),
			TotalInvoices: invoiceCount,
			LowStockItems: lowStock,
		},
		MonthlySales: monthly,
	}, nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *reportingService) Report(ctx context.Context, reportType ReportType, start, end string) (*Report, error) {
	if err := ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	kpis, err := s.kpis(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var data []ReportPoint
	switch reportType {
	case ReportSalesMonth:
		data, err = s.salesByMonth(ctx, start, end)
	case ReportInventoryValue:
		data, err = s.inventoryComposition(ctx)
	default:
		_, err = ParseReportType(string(reportType))
	}
	if err != nil {
		return nil, err
	}

	return &Report{ReportType: reportType, Start: start, End: end, KPIs: *kpis, ReportData: data}, nil
}

func (s *reportingService) kpis(ctx context.Context, start, end string) (*ReportKPIs, error) {
	var revenue, sold, stockValue decimal.Decimal

	q, args := dateFilter(`SELECT COALESCE(SUM(i.grand_total), 0) FROM invoices i WHERE TRUE`, nil, start, end)
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&revenue); err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}

	q, args = dateFilter(`
		SELECT COALESCE(SUM(ii.quantity), 0)
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE TRUE`, nil, start, end)
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&sold); err != nil {
		return nil, fmt.Errorf("failed to compute items sold: %w", err)
	}

	if err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity * rate), 0) FROM inventory_items`,
	).Scan(&stockValue); err != nil {
		return nil, fmt.Errorf("failed to compute stock value: %w", err)
	}

	q, args = dateFilter(`
		SELECT ii.particulars
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE TRUE`, nil, start, end)
	q += ` GROUP BY ii.particulars ORDER BY SUM(ii.quantity) DESC, ii.particulars LIMIT 1`
	var topItem string
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find top item: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&topItem); err != nil {
			return nil, fmt.Errorf("failed to scan top item: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to find top item: %w", err)
	}

	return &ReportKPIs{
		TotalRevenue: Money(revenue),
		ItemsSold:    sold.InexactFloat64(),
		StockValue:   Money(stockValue),
		TopItem:      topItem,
	}, nil
}

func (s *reportingService) salesByMonth(ctx context.Context, start, end string) ([]ReportPoint, error) {
	q, args := dateFilter(`
		SELECT to_char(i.invoice_date, 'YYYY-MM') AS month, SUM(i.grand_total)
		FROM invoices i
		WHERE TRUE`, nil, start, end)
	q += ` GROUP BY month ORDER BY month`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales by month: %w", err)
	}
	defer rows.Close()

	points := []ReportPoint{}
	for rows.Next() {
		var month string
		var total decimal.Decimal
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("failed to scan sales by month: %w", err)
		}
		points = append(points, ReportPoint{Label: month, Revenue: Money(total)})
	}
	return points, rows.Err()
}

func (s *reportingService) inventoryComposition(ctx context.Context) ([]ReportPoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT COALESCE(NULLIF(TRIM(item_color), ''), 'Unspecified') AS color, SUM(quantity)
		FROM inventory_items
		GROUP BY color
		ORDER BY color`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory composition: %w", err)
	}
	defer rows.Close()

	points := []ReportPoint{}
	for rows.Next() {
		var color string
		var qty decimal.Decimal
		if err := rows.Scan(&color, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan inventory composition: %w", err)
		}
		points = append(points, ReportPoint{Type: color, Quantity: qty.InexactFloat64()})
	}
	return points, rows.Err()
}
