package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/titanshop/shop-svc/internal/dal/postgres"
	"github.com/titanshop/shop-svc/internal/service/models/catalog"
)

var (
	categoryColumns = []string{
		"id", "name", "description", "image", "order_index", "active", "created_at", "updated_at",
	}
	productColumns = []string{
		"id", "category_id", "name", "description", "price_cents", "old_price_cents",
		"image", "in_stock", "active", "order_index", "created_at", "updated_at",
	}
	paymentMethodColumns = []string{
		"id", "name", "type", "description", "active", "order_index",
	}
)

// PostgresCatalogRepository owns the categories, products, and
// payment_methods tables.
type PostgresCatalogRepository struct {
	client *postgres.Client
}

// NewPostgresCatalogRepository creates a new catalog repository.
func NewPostgresCatalogRepository(client *postgres.Client) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		client: client,
	}
}

func scanCategory(row pgx.Row) (*catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Image,
		&c.OrderIndex,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// ListCategories returns categories sorted by display order. When
// onlyActive is set, hidden categories are filtered out.
func (r *PostgresCatalogRepository) ListCategories(
	ctx context.Context,
	onlyActive bool,
) ([]catalog.Category, error) {
	builder := sq.Select(categoryColumns...).
		From("categories").
		OrderBy("order_index").
		PlaceholderFormat(sq.Dollar)
	if onlyActive {
		builder = builder.Where(sq.Eq{"active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	result := []catalog.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		result = append(result, *c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// CreateCategory inserts a new category and returns the stored record.
func (r *PostgresCatalogRepository) CreateCategory(
	ctx context.Context,
	c catalog.Category,
) (*catalog.Category, error) {
	now := time.Now()
	query, args, err := sq.Insert("categories").
		Columns("name", "description", "image", "order_index", "active", "created_at", "updated_at").
		Values(c.Name, c.Description, c.Image, c.OrderIndex, c.Active, now, now).
		Suffix("RETURNING " + strings.Join(categoryColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	created, err := scanCategory(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	return created, nil
}

// UpdateCategory updates an existing category and returns the new record.
func (r *PostgresCatalogRepository) UpdateCategory(
	ctx context.Context,
	c catalog.Category,
) (*catalog.Category, error) {
	query, args, err := sq.Update("categories").
		Set("name", c.Name).
		Set("description", c.Description).
		Set("image", c.Image).
		Set("order_index", c.OrderIndex).
		Set("active", c.Active).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING " + strings.Join(categoryColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scanCategory(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return updated, nil
}

// DeleteCategory removes a category.
func (r *PostgresCatalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("categories").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

func scanProduct(row pgx.Row, withCategoryName bool) (*catalog.Product, error) {
	var p catalog.Product
	dest := []any{
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Description,
		&p.PriceCents,
		&p.OldPriceCents,
		&p.Image,
		&p.InStock,
		&p.Active,
		&p.OrderIndex,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if withCategoryName {
		dest = append(dest, &p.CategoryName)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	return &p, nil
}

// ListProducts returns products joined with their category name, sorted by
// category and product display order.
func (r *PostgresCatalogRepository) ListProducts(
	ctx context.Context,
	onlyActive bool,
) ([]catalog.Product, error) {
	columns := make([]string, 0, len(productColumns)+1)
	for _, c := range productColumns {
		columns = append(columns, "p."+c)
	}
	columns = append(columns, "COALESCE(c.name, '')")

	builder := sq.Select(columns...).
		From("products p").
		LeftJoin("categories c ON p.category_id = c.id").
		OrderBy("c.order_index", "p.order_index").
		PlaceholderFormat(sq.Dollar)
	if onlyActive {
		builder = builder.Where(sq.Eq{"p.active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	result := []catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, *p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// ListProductsByCategory returns a category's products sorted by display order.
func (r *PostgresCatalogRepository) ListProductsByCategory(
	ctx context.Context,
	categoryID int64,
	onlyActive bool,
) ([]catalog.Product, error) {
	builder := sq.Select(productColumns...).
		From("products").
		Where(sq.Eq{"category_id": categoryID}).
		OrderBy("order_index").
		PlaceholderFormat(sq.Dollar)
	if onlyActive {
		builder = builder.Where(sq.Eq{"active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	result := []catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, *p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetProduct retrieves a single product by id.
func (r *PostgresCatalogRepository) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	query, args, err := sq.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	p, err := scanProduct(r.client.Pool().QueryRow(ctx, query, args...), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// CreateProduct inserts a new product and returns the stored record.
func (r *PostgresCatalogRepository) CreateProduct(
	ctx context.Context,
	p catalog.Product,
) (*catalog.Product, error) {
	now := time.Now()
	query, args, err := sq.Insert("products").
		Columns(
			"category_id", "name", "description", "price_cents", "old_price_cents",
			"image", "in_stock", "active", "order_index", "created_at", "updated_at",
		).
		Values(
			p.CategoryID, p.Name, p.Description, p.PriceCents, p.OldPriceCents,
			p.Image, p.InStock, p.Active, p.OrderIndex, now, now,
		).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	created, err := scanProduct(r.client.Pool().QueryRow(ctx, query, args...), false)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return created, nil
}

// UpdateProduct updates an existing product and returns the new record.
func (r *PostgresCatalogRepository) UpdateProduct(
	ctx context.Context,
	p catalog.Product,
) (*catalog.Product, error) {
	query, args, err := sq.Update("products").
		Set("category_id", p.CategoryID).
		Set("name", p.Name).
		Set("description", p.Description).
		Set("price_cents", p.PriceCents).
		Set("old_price_cents", p.OldPriceCents).
		Set("image", p.Image).
		Set("in_stock", p.InStock).
		Set("active", p.Active).
		Set("order_index", p.OrderIndex).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scanProduct(r.client.Pool().QueryRow(ctx, query, args...), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return updated, nil
}

// DeleteProduct removes a product.
func (r *PostgresCatalogRepository) DeleteProduct(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// CountActiveProducts returns the number of active products.
func (r *PostgresCatalogRepository) CountActiveProducts(ctx context.Context) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("products").
		Where(sq.Eq{"active": true}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.client.Pool().QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

func scanPaymentMethod(row pgx.Row) (*catalog.PaymentMethod, error) {
	var m catalog.PaymentMethod
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Type,
		&m.Description,
		&m.Active,
		&m.OrderIndex,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// ListPaymentMethods returns payment methods sorted by display order.
func (r *PostgresCatalogRepository) ListPaymentMethods(
	ctx context.Context,
	onlyActive bool,
) ([]catalog.PaymentMethod, error) {
	builder := sq.Select(paymentMethodColumns...).
		From("payment_methods").
		OrderBy("order_index").
		PlaceholderFormat(sq.Dollar)
	if onlyActive {
		builder = builder.Where(sq.Eq{"active": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment methods: %w", err)
	}
	defer rows.Close()

	result := []catalog.PaymentMethod{}
	for rows.Next() {
		m, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		result = append(result, *m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetPaymentMethodByName retrieves a payment method by its display name.
// Orders reference methods by name snapshot, so this is the lookup the bot
// uses to decide whether to send an invoice.
func (r *PostgresCatalogRepository) GetPaymentMethodByName(
	ctx context.Context,
	name string,
) (*catalog.PaymentMethod, error) {
	query, args, err := sq.Select(paymentMethodColumns...).
		From("payment_methods").
		Where(sq.Eq{"name": name}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	m, err := scanPaymentMethod(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query payment method: %w", err)
	}

	return m, nil
}

// CreatePaymentMethod inserts a new payment method.
func (r *PostgresCatalogRepository) CreatePaymentMethod(
	ctx context.Context,
	m catalog.PaymentMethod,
) (*catalog.PaymentMethod, error) {
	query, args, err := sq.Insert("payment_methods").
		Columns("name", "type", "description", "active", "order_index").
		Values(m.Name, m.Type, m.Description, m.Active, m.OrderIndex).
		Suffix("RETURNING " + strings.Join(paymentMethodColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	created, err := scanPaymentMethod(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment method: %w", err)
	}

	return created, nil
}

// UpdatePaymentMethod updates an existing payment method.
func (r *PostgresCatalogRepository) UpdatePaymentMethod(
	ctx context.Context,
	m catalog.PaymentMethod,
) (*catalog.PaymentMethod, error) {
	query, args, err := sq.Update("payment_methods").
		Set("name", m.Name).
		Set("type", m.Type).
		Set("description", m.Description).
		Set("active", m.Active).
		Set("order_index", m.OrderIndex).
		Where(sq.Eq{"id": m.ID}).
		Suffix("RETURNING " + strings.Join(paymentMethodColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := scanPaymentMethod(r.client.Pool().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}

	return updated, nil
}

// DeletePaymentMethod removes a payment method. Historical orders keep
// their name snapshot, so removal never rewrites order records.
func (r *PostgresCatalogRepository) DeletePaymentMethod(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("payment_methods").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}

	return nil
}
