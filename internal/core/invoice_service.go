package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InvoiceService persists invoices and keeps inventory in step with them.
// It has the same shape as InvoiceGateway, so the console can also run
// directly against the database.
type InvoiceService interface {
	// List returns all invoices, newest first, with their items.
	List(ctx context.Context) ([]InvoiceRecord, error)
	Get(ctx context.Context, id string) (*InvoiceRecord, error)
	// Create stores a new invoice and deducts its quantities from stock.
	Create(ctx context.Context, record InvoiceRecord) (*SaveResult, error)
	// Update puts back the stock of the previous lines, then deducts the new ones.
	Update(ctx context.Context, id string, record InvoiceRecord) (*SaveResult, error)
	// Delete removes the invoice. Stock is not reversed.
	Delete(ctx context.Context, id string) error
}

type invoiceService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
	now       func() time.Time
}

// NewInvoiceService constructs an InvoiceService backed by PostgreSQL.
func NewInvoiceService(pool *pgxpool.Pool, inventory InventoryService) InvoiceService {
	return &invoiceService{pool: pool, inventory: inventory, now: time.Now}
}

// PrepareRecord recomputes every amount and total of a submitted invoice from
// quantity and rate and applies the same validation as a draft save. Client-sent
// amounts and totals are ignored. A blank invoice number or date is filled from now.
func PrepareRecord(rec InvoiceRecord, now time.Time) (InvoiceRecord, error) {
	if strings.TrimSpace(rec.InvoiceNo) == "" {
		rec.InvoiceNo = InvoiceNumberFor(now)
	}
	if strings.TrimSpace(rec.InvoiceDate) == "" {
		rec.InvoiceDate = now.Format("2006-01-02")
	}
	out, err := HydrateDraft(rec.ID, rec).ToPersistable()
	if err != nil {
		return InvoiceRecord{}, err
	}
	if _, err := time.Parse("2006-01-02", out.InvoiceDate); err != nil {
		return InvoiceRecord{}, &ValidationError{Field: "invoiceDate", Message: fmt.Sprintf("invalid invoice date %q", out.InvoiceDate)}
	}
	return out, nil
}

const invoiceColumns = `id, invoice_no, invoice_date::text, reserve_change,
	buyer_name, buyer_address, buyer_state, buyer_state_code, buyer_gst,
	eway_bill, transport_mode, vehicle_no, date_of_supply, place_of_supply,
	consignee_name, consignee_address, consignee_state, consignee_state_code, consignee_gstin,
	cgst_percent, sgst_percent, total_before_tax, cgst_amount, sgst_amount, grand_total,
	amount_in_words, created_at, updated_at`

func scanInvoice(row pgx.Row) (*InvoiceRecord, error) {
	var r InvoiceRecord
	h := &r.InvoiceHeader
	var cgstP, sgstP, before, cgst, sgst, grand decimal.Decimal
	var created, updated time.Time
	if err := row.Scan(&r.ID, &h.InvoiceNo, &h.InvoiceDate, &h.ReserveChange,
		&h.BuyerName, &h.BuyerAddress, &h.BuyerState, &h.BuyerStateCode, &h.BuyerGST,
		&h.EwayBill, &h.TransportMode, &h.VehicleNo, &h.DateOfSupply, &h.PlaceOfSupply,
		&h.ConsigneeName, &h.ConsigneeAddress, &h.ConsigneeState, &h.ConsigneeStateCode, &h.ConsigneeGSTIN,
		&cgstP, &sgstP, &before, &cgst, &sgst, &grand,
		&r.AmountInWords, &created, &updated,
	); err != nil {
		return nil, err
	}
	r.CGSTPercent = cgstP.InexactFloat64()
	r.SGSTPercent = sgstP.InexactFloat64()
	r.TotalBeforeTax = before.InexactFloat64()
	r.CGSTAmount = cgst.InexactFloat64()
	r.SGSTAmount = sgst.InexactFloat64()
	r.GrandTotal = grand.InexactFloat64()
	r.CreatedAt = &created
	r.UpdatedAt = &updated
	r.Items = []RecordItem{}
	return &r, nil
}

func headerArgs(rec InvoiceRecord) []any {
	h := rec.InvoiceHeader
	return []any{
		h.InvoiceNo, h.InvoiceDate, h.ReserveChange,
		h.BuyerName, h.BuyerAddress, h.BuyerState, h.BuyerStateCode, h.BuyerGST,
		h.EwayBill, h.TransportMode, h.VehicleNo, h.DateOfSupply, h.PlaceOfSupply,
		h.ConsigneeName, h.ConsigneeAddress, h.ConsigneeState, h.ConsigneeStateCode, h.ConsigneeGSTIN,
		decimal.NewFromFloat(rec.CGSTPercent), decimal.NewFromFloat(rec.SGSTPercent),
		decimal.NewFromFloat(rec.TotalBeforeTax), decimal.NewFromFloat(rec.CGSTAmount),
		decimal.NewFromFloat(rec.SGSTAmount), decimal.NewFromFloat(rec.GrandTotal),
		rec.AmountInWords,
	}
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *invoiceService) List(ctx context.Context) ([]InvoiceRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC, invoice_no DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []InvoiceRecord{}
	byID := map[string]int{}
	var ids []string
	for rows.Next() {
		r, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		byID[r.ID] = len(invoices)
		ids = append(ids, r.ID)
		invoices = append(invoices, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	if len(ids) == 0 {
		return invoices, nil
	}

	itemRows, err := s.pool.Query(ctx, `
		SELECT invoice_id, particulars, hsn, quantity, rate, amount
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, line_no`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var invoiceID string
		it, err := scanInvoiceItem(itemRows, &invoiceID)
		if err != nil {
			return nil, err
		}
		idx := byID[invoiceID]
		invoices[idx].Items = append(invoices[idx].Items, it)
	}
	return invoices, itemRows.Err()
}

func (s *invoiceService) Get(ctx context.Context, id string) (*InvoiceRecord, error) {
	return s.getWith(ctx, s.pool, id, false)
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *invoiceService) getWith(ctx context.Context, q queryer, id string, forUpdate bool) (*InvoiceRecord, error) {
	sql := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	rec, err := scanInvoice(q.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT invoice_id, particulars, hsn, quantity, rate, amount
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var invoiceID string
		it, err := scanInvoiceItem(rows, &invoiceID)
		if err != nil {
			return nil, err
		}
		rec.Items = append(rec.Items, it)
	}
	return rec, rows.Err()
}

func scanInvoiceItem(rows pgx.Rows, invoiceID *string) (RecordItem, error) {
	var it RecordItem
	var qty, rate, amount decimal.Decimal
	if err := rows.Scan(invoiceID, &it.Particulars, &it.HSN, &qty, &rate, &amount); err != nil {
		return RecordItem{}, fmt.Errorf("failed to scan invoice item: %w", err)
	}
	it.Quantity = qty.InexactFloat64()
	it.Rate = rate.InexactFloat64()
	it.Amount = amount.InexactFloat64()
	return it, nil
}

// ── Writes ────────────────────────────────────────────────────────────────────

func (s *invoiceService) Create(ctx context.Context, record InvoiceRecord) (*SaveResult, error) {
	record.ID = ""
	rec, err := PrepareRecord(record, s.now())
	if err != nil {
		return nil, err
	}
	rec.ID = uuid.NewString()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.inventory.DeductStockTx(ctx, tx, rec.Items); err != nil {
		return nil, err
	}

	args := append([]any{rec.ID}, headerArgs(rec)...)
	if _, err := tx.Exec(ctx, `
		INSERT INTO invoices (id, invoice_no, invoice_date, reserve_change,
			buyer_name, buyer_address, buyer_state, buyer_state_code, buyer_gst,
			eway_bill, transport_mode, vehicle_no, date_of_supply, place_of_supply,
			consignee_name, consignee_address, consignee_state, consignee_state_code, consignee_gstin,
			cgst_percent, sgst_percent, total_before_tax, cgst_amount, sgst_amount, grand_total,
			amount_in_words)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
		args...,
	); err != nil {
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}
	if err := insertItems(ctx, tx, rec.ID, rec.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice: %w", err)
	}
	return &SaveResult{ID: rec.ID, InvoiceNo: rec.InvoiceNo}, nil
}

func (s *invoiceService) Update(ctx context.Context, id string, record InvoiceRecord) (*SaveResult, error) {
	record.ID = id
	rec, err := PrepareRecord(record, s.now())
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	previous, err := s.getWith(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := s.inventory.RestoreStockTx(ctx, tx, previous.Items); err != nil {
		return nil, err
	}
	if err := s.inventory.DeductStockTx(ctx, tx, rec.Items); err != nil {
		return nil, err
	}

	args := append([]any{id}, headerArgs(rec)...)
	if _, err := tx.Exec(ctx, `
		UPDATE invoices SET
			invoice_no = $2, invoice_date = $3::date, reserve_change = $4,
			buyer_name = $5, buyer_address = $6, buyer_state = $7, buyer_state_code = $8, buyer_gst = $9,
			eway_bill = $10, transport_mode = $11, vehicle_no = $12, date_of_supply = $13, place_of_supply = $14,
			consignee_name = $15, consignee_address = $16, consignee_state = $17,
			consignee_state_code = $18, consignee_gstin = $19,
			cgst_percent = $20, sgst_percent = $21, total_before_tax = $22, cgst_amount = $23,
			sgst_amount = $24, grand_total = $25, amount_in_words = $26, updated_at = NOW()
		WHERE id = $1`,
		args...,
	); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to clear invoice items: %w", err)
	}
	if err := insertItems(ctx, tx, id, rec.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice update: %w", err)
	}
	return &SaveResult{ID: id, InvoiceNo: rec.InvoiceNo}, nil
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, invoiceID string, items []RecordItem) error {
	batch := &pgx.Batch{}
	for i, it := range items {
		batch.Queue(`
			INSERT INTO invoice_items (invoice_id, line_no, particulars, hsn, quantity, rate, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			invoiceID, i+1, it.Particulars, it.HSN,
			decimal.NewFromFloat(it.Quantity), decimal.NewFromFloat(it.Rate), decimal.NewFromFloat(it.Amount),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert invoice items: %w", err)
	}
	return nil
}
