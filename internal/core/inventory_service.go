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

// InventoryService manages the granite stock catalogue and its quantities on hand.
type InventoryService interface {
	// Standalone operations (manage their own transactions).
	List(ctx context.Context) ([]InventoryItem, error)
	Get(ctx context.Context, id string) (*InventoryItem, error)
	Create(ctx context.Context, item InventoryItem) (*InventoryItem, error)
	Update(ctx context.Context, id string, item InventoryItem) (*InventoryItem, error)
	Delete(ctx context.Context, id string) error

	// TX-scoped operations: work within a caller-provided transaction.
	// Used by InvoiceService to keep stock changes atomic with the invoice write.

	// DeductStockTx removes each line's quantity from the item whose name matches
	// the line's particulars (case-insensitive). Unknown items and lines exceeding
	// the quantity on hand fail the whole call.
	DeductStockTx(ctx context.Context, tx pgx.Tx, lines []RecordItem) error
	// RestoreStockTx adds each line's quantity back. Lines whose item no longer
	// exists are skipped.
	RestoreStockTx(ctx context.Context, tx pgx.Tx, lines []RecordItem) error
}

type inventoryService struct {
	pool *pgxpool.Pool
}

func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

const inventoryColumns = `id, item_name, item_color, item_thickness, item_shape, item_polish,
	unit, quantity, rate, created_at, updated_at`

func scanInventoryItem(row pgx.Row) (*InventoryItem, error) {
	var it InventoryItem
	var qty, rate decimal.Decimal
	var created, updated time.Time
	if err := row.Scan(&it.ID, &it.ItemName, &it.ItemColor, &it.ItemThickness, &it.ItemShape,
		&it.ItemPolish, &it.Unit, &qty, &rate, &created, &updated); err != nil {
		return nil, err
	}
	it.Quantity = qty.InexactFloat64()
	it.Rate = rate.InexactFloat64()
	it.CreatedAt = &created
	it.UpdatedAt = &updated
	return &it, nil
}

// ── Standalone operations ─────────────────────────────────────────────────────

func (s *inventoryService) List(ctx context.Context) ([]InventoryItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+inventoryColumns+` FROM inventory_items ORDER BY item_name, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	items := []InventoryItem{}
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory: %w", err)
	}
	return items, nil
}

func (s *inventoryService) Get(ctx context.Context, id string) (*InventoryItem, error) {
	it, err := scanInventoryItem(s.pool.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch inventory item: %w", err)
	}
	return it, nil
}

func (s *inventoryService) Create(ctx context.Context, item InventoryItem) (*InventoryItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	it, err := scanInventoryItem(s.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (id, item_name, item_color, item_thickness, item_shape, item_polish, unit, quantity, rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+inventoryColumns,
		uuid.NewString(), strings.TrimSpace(item.ItemName), item.ItemColor, item.ItemThickness,
		item.ItemShape, item.ItemPolish, item.UnitOrDefault(),
		decimal.NewFromFloat(item.Quantity), decimal.NewFromFloat(item.Rate),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return it, nil
}

func (s *inventoryService) Update(ctx context.Context, id string, item InventoryItem) (*InventoryItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	it, err := scanInventoryItem(s.pool.QueryRow(ctx, `
		UPDATE inventory_items
		SET item_name = $2, item_color = $3, item_thickness = $4, item_shape = $5, item_polish = $6,
		    unit = $7, quantity = $8, rate = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING `+inventoryColumns,
		id, strings.TrimSpace(item.ItemName), item.ItemColor, item.ItemThickness,
		item.ItemShape, item.ItemPolish, item.UnitOrDefault(),
		decimal.NewFromFloat(item.Quantity), decimal.NewFromFloat(item.Rate),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return it, nil
}

func (s *inventoryService) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
	}
	return nil
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

func (s *inventoryService) DeductStockTx(ctx context.Context, tx pgx.Tx, lines []RecordItem) error {
	for _, line := range lines {
		name := strings.TrimSpace(line.Particulars)
		qty := decimal.NewFromFloat(line.Quantity)

		var id string
		var onHand decimal.Decimal
		err := tx.QueryRow(ctx, `
			SELECT id, quantity FROM inventory_items
			WHERE LOWER(item_name) = LOWER($1)
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE`, name,
		).Scan(&id, &onHand)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &ValidationError{Field: "items", Message: fmt.Sprintf("Item %s not found in inventory", name)}
			}
			return fmt.Errorf("failed to lock inventory item %q: %w", name, err)
		}
		if onHand.LessThan(qty) {
			return fmt.Errorf("item %s: requested %s, available %s: %w", name, qty, onHand, ErrInsufficientStock)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE inventory_items SET quantity = quantity - $2, updated_at = NOW() WHERE id = $1`,
			id, qty,
		); err != nil {
			return fmt.Errorf("failed to deduct stock for %q: %w", name, err)
		}
	}
	return nil
}

func (s *inventoryService) RestoreStockTx(ctx context.Context, tx pgx.Tx, lines []RecordItem) error {
	for _, line := range lines {
		if _, err := tx.Exec(ctx, `
			UPDATE inventory_items SET quantity = quantity + $2, updated_at = NOW()
			WHERE id = (
				SELECT id FROM inventory_items
				WHERE LOWER(item_name) = LOWER($1)
				ORDER BY created_at
				LIMIT 1
			)`,
			strings.TrimSpace(line.Particulars), decimal.NewFromFloat(line.Quantity),
		); err != nil {
			return fmt.Errorf("failed to restore stock for %q: %w", line.Particulars, err)
		}
	}
	return nil
}
