// README: Order archive backed by PostgreSQL. Best-effort remote persistence;
// the in-memory store is authoritative for the live session.
package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"kart/internal/types"
)

type Archive struct {
	db *pgxpool.Pool
}

func NewArchive(db *pgxpool.Pool) *Archive {
	return &Archive{db: db}
}

// SaveOrder inserts the order and returns the server-assigned id.
func (a *Archive) SaveOrder(ctx context.Context, o Order) (types.ID, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}

	row := a.db.QueryRow(ctx, `
        INSERT INTO orders (
            client_id, customer_id, store_id, store_name, mode, status,
            payment_status, payment_method, delivery_type, scheduled_at,
            items, store_amount, delivery_fee, handling_fee, store_upi_id,
            total, currency,
            store_lat, store_lng, user_lat, user_lng, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6,
            $7, $8, $9, $10,
            $11, $12, $13, $14, $15,
            $16, $17,
            $18, $19, $20, $21, $22
        )
        RETURNING id::text`,
		string(o.ID),
		string(o.CustomerID),
		string(o.StoreID),
		o.StoreName,
		string(o.Mode),
		string(o.Status),
		string(o.PaymentStatus),
		o.PaymentMethod,
		string(o.DeliveryType),
		o.ScheduledAt,
		items,
		o.Split.StoreAmount.Amount,
		o.Split.DeliveryFee.Amount,
		o.Split.HandlingFee.Amount,
		o.Split.StoreUPIID,
		o.Total.Amount,
		o.Total.Currency,
		o.StoreLocation.Lat, o.StoreLocation.Lng,
		o.UserLocation.Lat, o.UserLocation.Lng,
		o.CreatedAt,
	)

	var serverID string
	if err := row.Scan(&serverID); err != nil {
		return "", err
	}
	return types.ID(serverID), nil
}

// UpdateStatus mirrors a status change into the archive. The id match covers
// both server-assigned and still-local ids.
func (a *Archive) UpdateStatus(ctx context.Context, o Order) error {
	_, err := a.db.Exec(ctx, `
        UPDATE orders
        SET status = $1, payment_status = $2, completed_at = COALESCE($3, completed_at),
            cancelled_by = $4, cancel_reason = $5
        WHERE id::text = $6 OR client_id = $6`,
		string(o.Status), string(o.PaymentStatus), o.CompletedAt,
		o.CancelledBy, o.CancelReason, string(o.ID),
	)
	return err
}

// HistoryByCustomer returns a customer's archived orders, newest first.
func (a *Archive) HistoryByCustomer(ctx context.Context, customerID types.ID) ([]Order, error) {
	rows, err := a.db.Query(ctx, `
        SELECT id::text, customer_id, store_id, store_name, mode, status,
               payment_status, payment_method, delivery_type, scheduled_at,
               items, store_amount, delivery_fee, handling_fee, store_upi_id,
               total, currency,
               store_lat, store_lng, user_lat, user_lng, created_at, completed_at,
               cancelled_by, cancel_reason
        FROM orders
        WHERE customer_id = $1
        ORDER BY created_at DESC`, string(customerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var items []byte
		err := rows.Scan(
			&o.ID, &o.CustomerID, &o.StoreID, &o.StoreName, &o.Mode, &o.Status,
			&o.PaymentStatus, &o.PaymentMethod, &o.DeliveryType, &o.ScheduledAt,
			&items,
			&o.Split.StoreAmount.Amount, &o.Split.DeliveryFee.Amount,
			&o.Split.HandlingFee.Amount, &o.Split.StoreUPIID,
			&o.Total.Amount, &o.Total.Currency,
			&o.StoreLocation.Lat, &o.StoreLocation.Lng,
			&o.UserLocation.Lat, &o.UserLocation.Lng,
			&o.CreatedAt, &o.CompletedAt,
			&o.CancelledBy, &o.CancelReason,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		o.Split.StoreAmount.Currency = o.Total.Currency
		o.Split.DeliveryFee.Currency = o.Total.Currency
		o.Split.HandlingFee.Currency = o.Total.Currency
		out = append(out, o)
	}
	return out, rows.Err()
}
