package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
)

// CreateOrder writes the order row and its line items in one transaction.
// Stock reservation happens before this call (see internal/checkout); the
// order ID's primary key rejects the rare duplicate from the timestamp+random
// ID scheme.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	addrJSON, err := json.Marshal(o.Address)
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	payeeVPA, verifiedAmount := "", 0.0
	if o.Payment != nil {
		payeeVPA = o.Payment.PayeeVPA
		verifiedAmount = o.Payment.VerifiedAmount
	}

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total_amount, delivery_charge, status, payment_method,
		                    payee_vpa, verified_amount, address_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.TotalAmount, o.DeliveryCharge, o.Status, o.PaymentMethod,
		payeeVPA, verifiedAmount, string(addrJSON), o.CreatedAt)
	if err != nil {
		return err
	}

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, image_url, price, quantity)
			VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, it.ProductID, it.Name, it.ImageURL, it.Price, it.Quantity)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

const orderCols = `id, user_id, total_amount, delivery_charge, status, payment_method,
	payee_vpa, verified_amount, cancel_reason, cancel_status, cancel_requested_at, address_json, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var (
		o             models.Order
		payeeVPA      string
		verifiedAmt   float64
		cancelReason  string
		cancelStatus  string
		cancelReqAt   sql.NullTime
		addrJSON      string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.DeliveryCharge, &o.Status,
		&o.PaymentMethod, &payeeVPA, &verifiedAmt, &cancelReason, &cancelStatus,
		&cancelReqAt, &addrJSON, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod == models.PaymentOnline {
		o.Payment = &models.PaymentDetails{PayeeVPA: payeeVPA, VerifiedAmount: verifiedAmt}
	}
	if cancelStatus != "" {
		o.CancelRequest = &models.CancelRequest{
			Reason:      cancelReason,
			Status:      cancelStatus,
			RequestedAt: cancelReqAt.Time,
		}
	}
	if err := json.Unmarshal([]byte(addrJSON), &o.Address); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) loadOrderItems(ctx context.Context, o *models.Order) error {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT product_id, name, image_url, price, quantity
		FROM order_items WHERE order_id = ? ORDER BY id`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.ImageURL, &it.Price, &it.Quantity); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadOrderItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) GetOrdersByUser(ctx context.Context, userID int) ([]models.Order, error) {
	return s.listOrders(ctx, `SELECT `+orderCols+` FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (s *Store) GetAllOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	return s.listOrders(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
}

func (s *Store) listOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := s.loadOrderItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *Store) GetTotalOrdersCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id, status string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}

// CreateCancelRequest files a pending cancellation request on an order that
// has none. The WHERE clause re-checks the gate so a double submit is a no-op.
func (s *Store) CreateCancelRequest(ctx context.Context, orderID, reason string) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE orders
		SET cancel_reason = ?, cancel_status = ?, cancel_requested_at = ?
		WHERE id = ? AND cancel_status = '' AND status NOT IN (?, ?)`,
		reason, models.CancelPending, time.Now().UTC(),
		orderID, models.StatusDelivered, models.StatusCancelled)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// ResolveCancelRequest approves or rejects a pending request. Approval also
// moves the order to Cancelled; rejection leaves the order status unchanged.
func (s *Store) ResolveCancelRequest(ctx context.Context, orderID string, approve bool) error {
	var (
		res sql.Result
		err error
	)
	if approve {
		res, err = s.DB.ExecContext(ctx, `
			UPDATE orders SET cancel_status = ?, status = ?
			WHERE id = ? AND cancel_status = ?`,
			models.CancelApproved, models.StatusCancelled, orderID, models.CancelPending)
	} else {
		res, err = s.DB.ExecContext(ctx, `
			UPDATE orders SET cancel_status = ?
			WHERE id = ? AND cancel_status = ?`,
			models.CancelRejected, orderID, models.CancelPending)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
