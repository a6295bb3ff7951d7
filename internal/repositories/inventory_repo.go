package repositories

import (
	"context"
	"fmt"
	"time"

	"savor/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repositories use. pgxmock pools
// satisfy it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkExpired(ctx context.Context, id uuid.UUID) error
	MarkExpiredBefore(ctx context.Context, date time.Time) (int64, error)
	UpdateExpiry(ctx context.Context, id uuid.UUID, date *time.Time) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error
	UpdatePrice(ctx context.Context, id uuid.UUID, price *float64) error
	ListActive(ctx context.Context, sortKey models.SortKey, ascending bool) ([]*models.InventoryItem, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.InventoryItem, error)
	ListExpired(ctx context.Context) ([]*models.InventoryItem, error)
	LogPartialUsage(ctx context.Context, itemID uuid.UUID, amount float64, action models.ActionType) (*models.InventoryLogEntry, float64, error)
	ListLogs(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryLogEntry, error)
	Stats(ctx context.Context, from, to time.Time) (*models.PantryStats, error)
}

type inventoryRepo struct {
	db DB
	qb sq.StatementBuilderType
}

func NewInventoryRepo(db DB) InventoryRepository {
	return &inventoryRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const itemColumns = `id, user_id, name, category, initial_quantity, current_quantity, user_unit,
		standard_unit, conversion_factor, price, expiration_date, created_at, status`

const activeCondition = `(status = 1 OR status IS NULL)`

func scanItem(row pgx.Row) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	err := row.Scan(
		&item.ID, &item.UserID, &item.Name, &item.Category, &item.InitialQuantity, &item.CurrentQuantity,
		&item.UserUnit, &item.StandardUnit, &item.ConversionFactor, &item.Price, &item.ExpirationDate,
		&item.CreatedAt, &item.Status,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func collectItems(rows pgx.Rows) ([]*models.InventoryItem, error) {
	defer rows.Close()

	items := []*models.InventoryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Create inserts item as active. The conversion factor must already be set.
func (r *inventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
		INSERT INTO inventory (id, user_id, name, category, initial_quantity, current_quantity, user_unit,
			standard_unit, conversion_factor, price, expiration_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		item.ID, item.UserID, item.Name, item.Category, item.InitialQuantity, item.CurrentQuantity, item.UserUnit,
		string(item.StandardUnit), item.ConversionFactor, item.Price, item.ExpirationDate,
	).Scan(&item.CreatedAt)
	if err != nil {
		return mapError("create inventory item", err)
	}

	status := models.StatusActive
	item.Status = &status
	return nil
}

func (r *inventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory WHERE id = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError("get inventory item", err)
	}
	return item, nil
}

// Delete removes the row outright. Its log entries cascade.
func (r *inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return mapError("delete inventory item", err)
	}
	return requireRow("delete inventory item", tag)
}

func (r *inventoryRepo) MarkExpired(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE inventory SET status = -1 WHERE id = $1`, id)
	if err != nil {
		return mapError("mark inventory item expired", err)
	}
	return requireRow("mark inventory item expired", tag)
}

// MarkExpiredBefore flags every active row whose expiration date is before date.
func (r *inventoryRepo) MarkExpiredBefore(ctx context.Context, date time.Time) (int64, error) {
	query := `
		UPDATE inventory SET status = -1
		WHERE ` + activeCondition + ` AND expiration_date IS NOT NULL AND expiration_date < $1
	`
	tag, err := r.db.Exec(ctx, query, date)
	if err != nil {
		return 0, mapError("expire overdue inventory", err)
	}
	return tag.RowsAffected(), nil
}

func (r *inventoryRepo) UpdateExpiry(ctx context.Context, id uuid.UUID, date *time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE inventory SET expiration_date = $1 WHERE id = $2`, date, id)
	if err != nil {
		return mapError("update expiration date", err)
	}
	return requireRow("update expiration date", tag)
}

// UpdateQuantity resets the remaining amount. A value above the initial
// quantity raises the initial quantity with it.
func (r *inventoryRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error {
	query := `
		UPDATE inventory
		SET current_quantity = $1, initial_quantity = GREATEST(initial_quantity, $1)
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, quantity, id)
	if err != nil {
		return mapError("update quantity", err)
	}
	return requireRow("update quantity", tag)
}

func (r *inventoryRepo) UpdatePrice(ctx context.Context, id uuid.UUID, price *float64) error {
	tag, err := r.db.Exec(ctx, `UPDATE inventory SET price = $1 WHERE id = $2`, price, id)
	if err != nil {
		return mapError("update price", err)
	}
	return requireRow("update price", tag)
}

// ListActive returns non-expired rows. Equal sort keys fall back to insertion
// order in the same direction, so flipping the direction reverses the list.
func (r *inventoryRepo) ListActive(ctx context.Context, sortKey models.SortKey, ascending bool) ([]*models.InventoryItem, error) {
	dir := "ASC"
	if !ascending {
		dir = "DESC"
	}

	order := string(models.ParseSortKey(string(sortKey))) + " " + dir
	if models.ParseSortKey(string(sortKey)) == models.SortByExpiration {
		order += " NULLS LAST"
	}

	query, args, err := r.qb.
		Select(itemColumns).
		From("inventory").
		Where(activeCondition).
		OrderBy(order, "seq "+dir).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list active inventory", err)
	}

	items, err := collectItems(rows)
	if err != nil {
		return nil, mapError("list active inventory", err)
	}
	return items, nil
}

// ListExpiringBetween returns active rows dated within [from, to], soonest first.
func (r *inventoryRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory
		WHERE ` + activeCondition + `
			AND expiration_date IS NOT NULL
			AND expiration_date BETWEEN $1 AND $2
		ORDER BY expiration_date ASC, seq ASC
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, mapError("list expiring inventory", err)
	}

	items, err := collectItems(rows)
	if err != nil {
		return nil, mapError("list expiring inventory", err)
	}
	return items, nil
}

func (r *inventoryRepo) ListExpired(ctx context.Context) ([]*models.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory
		WHERE status = -1
		ORDER BY expiration_date DESC NULLS LAST, seq DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapError("list expired inventory", err)
	}

	items, err := collectItems(rows)
	if err != nil {
		return nil, mapError("list expired inventory", err)
	}
	return items, nil
}

// LogPartialUsage decrements the item, clamped at zero, and appends a log
// row in one transaction. It returns the log entry and the remaining quantity.
func (r *inventoryRepo) LogPartialUsage(ctx context.Context, itemID uuid.UUID, amount float64, action models.ActionType) (*models.InventoryLogEntry, float64, error) {
	entry := &models.InventoryLogEntry{
		ID:            uuid.New(),
		ItemID:        itemID,
		ActionType:    action,
		AmountChanged: amount,
	}
	var remaining float64

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE inventory
			SET current_quantity = GREATEST(current_quantity - $1, 0)
			WHERE id = $2
			RETURNING current_quantity
		`, amount, itemID).Scan(&remaining)
		if err != nil {
			return err
		}

		return tx.QueryRow(ctx, `
			INSERT INTO inventory_logs (log_id, item_id, action_type, amount_changed)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`, entry.ID, itemID, string(action), amount).Scan(&entry.CreatedAt)
	})
	if err != nil {
		return nil, 0, mapError("log partial usage", err)
	}

	return entry, remaining, nil
}

func (r *inventoryRepo) ListLogs(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryLogEntry, error) {
	query := `
		SELECT log_id, item_id, action_type::text AS action_type, amount_changed, created_at
		FROM inventory_logs
		WHERE item_id = $1
		ORDER BY created_at DESC, log_id
	`
	logs := []*models.InventoryLogEntry{}
	if err := pgxscan.Select(ctx, r.db, &logs, query, itemID); err != nil {
		return nil, mapError("list inventory logs", err)
	}
	return logs, nil
}

// Stats aggregates the pantry in one pass. Rows dated within [from, to]
// count as expiring soon.
func (r *inventoryRepo) Stats(ctx context.Context, from, to time.Time) (*models.PantryStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE ` + activeCondition + `),
			COUNT(*) FILTER (WHERE ` + activeCondition + ` AND expiration_date BETWEEN $1 AND $2),
			COUNT(*) FILTER (WHERE status = -1),
			COALESCE(SUM(price) FILTER (WHERE ` + activeCondition + `), 0),
			COALESCE(SUM(price) FILTER (WHERE status = -1), 0)
		FROM inventory
	`
	stats := &models.PantryStats{}
	err := r.db.QueryRow(ctx, query, from, to).Scan(
		&stats.ActiveCount, &stats.ExpiringSoonCount, &stats.ExpiredCount, &stats.ActiveValue, &stats.WastedValue,
	)
	if err != nil {
		return nil, mapError("pantry stats", err)
	}
	return stats, nil
}

// inTx runs fn in a transaction, committing on success and rolling back on error.
func (r *inventoryRepo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
