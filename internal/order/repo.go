package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrItemNotFound = errors.New("order item not found")
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, []Item, error)
	GetItem(ctx context.Context, itemID string) (*Item, error)
	AddItem(ctx context.Context, it *Item) (string, error)
	RemoveItem(ctx context.Context, orderID, itemID string) (string, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListAll(ctx context.Context, limit, offset int) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
    INSERT INTO orders (id, user_id, status, price, created_at, updated_at)
    VALUES ($1,$2,$3,$4,NOW(),NOW())
  `, o.ID, o.UserID, o.Status, o.Price)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	if err := r.db.QueryRow(ctx, `
    SELECT id,user_id,status,price::text,created_at,updated_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.UserID, &o.Status, &o.Price, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `
    SELECT id,order_id,count,flavor,size,unit_price::text
    FROM order_items WHERE order_id=$1
  `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Count, &it.Flavor, &it.Size, &it.UnitPrice); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}
	return &o, items, rows.Err()
}

func (r *PGRepo) GetItem(ctx context.Context, itemID string) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var it Item
	if err := r.db.QueryRow(ctx, `
    SELECT id,order_id,count,flavor,size,unit_price::text
    FROM order_items WHERE id=$1
  `, itemID).Scan(&it.ID, &it.OrderID, &it.Count, &it.Flavor, &it.Size, &it.UnitPrice); err != nil {
		return nil, ErrItemNotFound
	}
	return &it, nil
}

// AddItem inserts the item and recomputes the order total in one
// transaction. The order row is locked first so the recompute is atomic
// with the write under concurrent mutation. Returns the new total.
func (r *PGRepo) AddItem(ctx context.Context, it *Item) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	if err := tx.QueryRow(ctx, `
    SELECT id FROM orders WHERE id=$1 FOR UPDATE
  `, it.OrderID).Scan(&id); err != nil {
		return "", ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO order_items (id, order_id, count, flavor, size, unit_price)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, it.ID, it.OrderID, it.Count, it.Flavor, it.Size, it.UnitPrice); err != nil {
		return "", err
	}

	price, err := recomputeTx(ctx, tx, it.OrderID)
	if err != nil {
		return "", err
	}
	return price, tx.Commit(ctx)
}

// RemoveItem deletes the item and recomputes the order total in one
// transaction, same locking discipline as AddItem.
func (r *PGRepo) RemoveItem(ctx context.Context, orderID, itemID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	if err := tx.QueryRow(ctx, `
    SELECT id FROM orders WHERE id=$1 FOR UPDATE
  `, orderID).Scan(&id); err != nil {
		return "", ErrNotFound
	}

	tag, err := tx.Exec(ctx, `
    DELETE FROM order_items WHERE id=$1 AND order_id=$2
  `, itemID, orderID)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", ErrItemNotFound
	}

	price, err := recomputeTx(ctx, tx, orderID)
	if err != nil {
		return "", err
	}
	return price, tx.Commit(ctx)
}

// recomputeTx re-reads the item set under the order lock, derives the total
// and writes it back. Must run inside the mutating transaction.
func recomputeTx(ctx context.Context, tx pgx.Tx, orderID string) (string, error) {
	rows, err := tx.Query(ctx, `
    SELECT id,order_id,count,flavor,size,unit_price::text
    FROM order_items WHERE order_id=$1
  `, orderID)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Count, &it.Flavor, &it.Size, &it.UnitPrice); err != nil {
			return "", err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	rows.Close()

	price, err := RecomputePrice(items)
	if err != nil {
		return "", err
	}
	if _, err := tx.Exec(ctx, `
    UPDATE orders SET price=$2, updated_at=NOW() WHERE id=$1
  `, orderID, price); err != nil {
		return "", err
	}
	return price, nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $2, updated_at = NOW()
    WHERE id = $1
  `, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListAll(ctx context.Context, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT id,user_id,status,price::text,created_at,updated_at
    FROM orders
    ORDER BY created_at DESC LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Price, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListByUser returns the user's orders with nested items.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
    SELECT id,user_id,status,price::text,created_at,updated_at
    FROM orders WHERE user_id=$1
    ORDER BY created_at DESC
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Price, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range out {
		irows, err := r.db.Query(ctx, `
      SELECT id,order_id,count,flavor,size,unit_price::text
      FROM order_items WHERE order_id=$1
    `, out[i].ID)
		if err != nil {
			return nil, err
		}
		for irows.Next() {
			var it Item
			if err := irows.Scan(&it.ID, &it.OrderID, &it.Count, &it.Flavor, &it.Size, &it.UnitPrice); err != nil {
				irows.Close()
				return nil, err
			}
			out[i].Items = append(out[i].Items, it)
		}
		if err := irows.Err(); err != nil {
			irows.Close()
			return nil, err
		}
		irows.Close()
	}
	return out, nil
}

// Delete removes the order and its items in one transaction. The schema
// also cascades, the explicit delete keeps the invariant visible.
func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, id); err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
