package postgresrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/titanshop/shop-svc/internal/dal/postgres"
	"github.com/titanshop/shop-svc/internal/service/models/order"
)

var orderColumns = []string{
	"id",
	"order_number",
	"user_id",
	"items",
	"total_cents",
	"payment_method",
	"phone",
	"delivery_address",
	"comment",
	"status",
	"payment_status",
	"created_at",
	"updated_at",
}

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id              int64     `db:"id"`
	OrderNumber     string    `db:"order_number"`
	UserId          int64     `db:"user_id"`
	Items           []byte    `db:"items"`
	TotalCents      int64     `db:"total_cents"`
	PaymentMethod   string    `db:"payment_method"`
	Phone           string    `db:"phone"`
	DeliveryAddress string    `db:"delivery_address"`
	Comment         string    `db:"comment"`
	Status          string    `db:"status"`
	PaymentStatus   string    `db:"payment_status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	var items []order.LineItem
	if len(o.Items) > 0 {
		if err := json.Unmarshal(o.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}
	}

	return &order.Order{
		ID:            o.Id,
		Number:        o.OrderNumber,
		UserID:        o.UserId,
		Items:         items,
		TotalCents:    o.TotalCents,
		PaymentMethod: o.PaymentMethod,
		Phone:         o.Phone,
		Address:       o.DeliveryAddress,
		Comment:       o.Comment,
		Status:        order.Status(o.Status),
		PaymentStatus: order.PaymentStatus(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}, nil
}

// PostgresOrderRepository owns the orders table. No other component writes
// order rows, and no code path deletes them.
type PostgresOrderRepository struct {
	client *postgres.Client
}

// NewPostgresOrderRepository creates a new order repository.
func NewPostgresOrderRepository(client *postgres.Client) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		client: client,
	}
}

func (r *PostgresOrderRepository) scanRow(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.OrderNumber,
		&dal.UserId,
		&dal.Items,
		&dal.TotalCents,
		&dal.PaymentMethod,
		&dal.Phone,
		&dal.DeliveryAddress,
		&dal.Comment,
		&dal.Status,
		&dal.PaymentStatus,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

// Insert persists a new order in a single atomic write and returns the
// stored record with its generated id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}

	query, args, err := sq.Insert("orders").
		Columns(
			"order_number",
			"user_id",
			"items",
			"total_cents",
			"payment_method",
			"phone",
			"delivery_address",
			"comment",
			"status",
			"payment_status",
			"created_at",
			"updated_at",
		).
		Values(
			o.Number,
			o.UserID,
			items,
			o.TotalCents,
			o.PaymentMethod,
			o.Phone,
			o.Address,
			o.Comment,
			o.Status,
			o.PaymentStatus,
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := r.scanRow(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return inserted, nil
}

// GetByID retrieves an order by its internal id.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

// GetByNumber retrieves an order by its external order number, the lookup
// key round-tripped through the payment channel.
func (r *PostgresOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	return r.getOne(ctx, sq.Eq{"order_number": number})
}

func (r *PostgresOrderRepository) getOne(ctx context.Context, where sq.Eq) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	found, err := r.scanRow(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return found, nil
}

// UpdateStatus applies a fulfillment transition as a single conditional
// statement. The update matches only when the stored status differs from
// the target and is not terminal, so reapplying the current status touches
// nothing and a concurrently committed completed/cancelled row is never
// overwritten; applied reports whether a row changed.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status order.Status,
) (*order.Order, bool, error) {
	query, args, err := sq.Update("orders").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		Where(sq.NotEq{"status": status}).
		Where(sq.NotEq{"status": []order.Status{order.StatusCompleted, order.StatusCancelled}}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := r.scanRow(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to update order status: %w", err)
	}

	return updated, true, nil
}

// MarkPaid confirms payment for the order with the given number as a single
// conditional statement: only an unpaid row matches, so of two concurrent
// confirmations exactly one applies and the loser observes zero rows.
// Fulfillment advances pending -> confirmed; any further-advanced status is
// left untouched.
func (r *PostgresOrderRepository) MarkPaid(
	ctx context.Context,
	number string,
) (*order.Order, bool, error) {
	query, args, err := sq.Update("orders").
		Set("payment_status", order.PaymentPaid).
		Set("status", sq.Expr(
			"CASE WHEN status = ? THEN ? ELSE status END",
			order.StatusPending, order.StatusConfirmed,
		)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"order_number": number}).
		Where(sq.NotEq{"payment_status": order.PaymentPaid}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := r.scanRow(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return updated, true, nil
}

// ListByUser retrieves the user's most recent orders, newest first.
func (r *PostgresOrderRepository) ListByUser(
	ctx context.Context,
	userID int64,
	limit int,
) ([]order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := []order.Order{}
	for rows.Next() {
		var dal OrderDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderNumber,
			&dal.UserId,
			&dal.Items,
			&dal.TotalCents,
			&dal.PaymentMethod,
			&dal.Phone,
			&dal.DeliveryAddress,
			&dal.Comment,
			&dal.Status,
			&dal.PaymentStatus,
			&dal.CreatedAt,
			&dal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// ListAll retrieves the most recent orders joined with customer display
// fields for the admin panel.
func (r *PostgresOrderRepository) ListAll(ctx context.Context, limit int) ([]order.AdminOrder, error) {
	columns := make([]string, 0, len(orderColumns)+3)
	for _, c := range orderColumns {
		columns = append(columns, "o."+c)
	}
	columns = append(columns,
		"COALESCE(u.first_name, '')",
		"COALESCE(u.last_name, '')",
		"COALESCE(u.username, '')",
	)

	query, args, err := sq.Select(columns...).
		From("orders o").
		LeftJoin("users u ON o.user_id = u.telegram_id").
		OrderBy("o.created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := []order.AdminOrder{}
	for rows.Next() {
		var dal OrderDal
		var customer order.CustomerInfo
		err := rows.Scan(
			&dal.Id,
			&dal.OrderNumber,
			&dal.UserId,
			&dal.Items,
			&dal.TotalCents,
			&dal.PaymentMethod,
			&dal.Phone,
			&dal.DeliveryAddress,
			&dal.Comment,
			&dal.Status,
			&dal.PaymentStatus,
			&dal.CreatedAt,
			&dal.UpdatedAt,
			&customer.FirstName,
			&customer.LastName,
			&customer.Username,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, order.AdminOrder{Order: *model, Customer: customer})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// CountAll returns the total number of orders.
func (r *PostgresOrderRepository) CountAll(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, nil)
}

// CountToday returns the number of orders created today.
func (r *PostgresOrderRepository) CountToday(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, sq.Expr("DATE(created_at) = CURRENT_DATE"))
}

func (r *PostgresOrderRepository) countWhere(ctx context.Context, where sq.Sqlizer) (int64, error) {
	builder := sq.Select("COUNT(*)").From("orders").PlaceholderFormat(sq.Dollar)
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.client.Pool().QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

// PaidRevenueCents sums the totals of paid orders.
func (r *PostgresOrderRepository) PaidRevenueCents(ctx context.Context) (int64, error) {
	query, args, err := sq.Select("COALESCE(SUM(total_cents), 0)").
		From("orders").
		Where(sq.Eq{"payment_status": order.PaymentPaid}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build sum query: %w", err)
	}

	var sum int64
	if err := r.client.Pool().QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum paid orders: %w", err)
	}

	return sum, nil
}
