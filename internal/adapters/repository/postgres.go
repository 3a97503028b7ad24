package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mkravets/product-catalog/internal/domain"
)

const productColumns = "id, name, description, quantity, price, category, created_at, updated_at"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.Id,
		&product.Name,
		&product.Description,
		&product.Quantity,
		&product.Price,
		&product.Category,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: failed to find product %d in DB", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to get product %d. %s", domain.ErrInternalDb, id, err.Error())
	}
	return product, nil
}

func (r *PostgresRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list products. %s", domain.ErrInternalDb, err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to convert row into go type. %s", domain.ErrInternalDb, err.Error())
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error while iterating over rows. %s", domain.ErrInternalDb, err.Error())
	}
	return products, nil
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, quantity, price, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		product.Name, product.Description, product.Quantity, product.Price, product.Category)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to store product. %s", domain.ErrInternalDb, err.Error())
	}
	return created, nil
}

// UpdateProduct emits SET clauses only for fields present in the patch. The
// updatable column set is fixed here; values always travel as placeholders.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	builder := sq.Update("products").PlaceholderFormat(sq.Dollar)
	if patch.Name != nil {
		builder = builder.Set("name", *patch.Name)
	}
	if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
	}
	if patch.Quantity != nil {
		builder = builder.Set("quantity", *patch.Quantity)
	}
	if patch.Price != nil {
		builder = builder.Set("price", *patch.Price)
	}
	if patch.Category != nil {
		builder = builder.Set("category", *patch.Category)
	}
	builder = builder.
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + productColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build update query for product %d. %s", domain.ErrInternalDb, id, err.Error())
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: failed to find product %d in DB", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to update product %d. %s", domain.ErrInternalDb, id, err.Error())
	}
	return updated, nil
}

func (r *PostgresRepository) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"DELETE FROM products WHERE id = $1 RETURNING "+productColumns, id)
	deleted, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: failed to find product %d in DB", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to delete product %d. %s", domain.ErrInternalDb, id, err.Error())
	}
	return deleted, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: database ping failed. %s", domain.ErrInternalDb, err.Error())
	}
	return nil
}
