package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sellscout/sellscout-backend-go/internal/models"
)

// ProductRepository handles database operations for products
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const selectProduct = `SELECT id, user_id, name, category, current_price, estimated_cost,
	monthly_sales, competition_level, review_rating, product_url, created_at, updated_at
	FROM products`

// ListByUser retrieves all products owned by a user, newest first
func (r *ProductRepository) ListByUser(userID int64) ([]models.Product, error) {
	rows, err := r.db.Query(selectProduct+" WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetByID retrieves a single product owned by the given user
func (r *ProductRepository) GetByID(id, userID int64) (*models.Product, error) {
	var p models.Product
	row := r.db.QueryRow(selectProduct+" WHERE id = ? AND user_id = ?", id, userID)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CountByUser returns the number of products owned by a user
func (r *ProductRepository) CountByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM products WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Create inserts a new product and returns the assigned id
func (r *ProductRepository) Create(p *models.Product) (int64, error) {
	result, err := r.db.Exec(insertProduct,
		p.UserID, p.Name, p.Category, p.CurrentPrice, p.EstimatedCost,
		p.MonthlySales, p.CompetitionLevel, p.ReviewRating, p.ProductURL,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get product id: %w", err)
	}
	return id, nil
}

const insertProduct = `INSERT INTO products
	(user_id, name, category, current_price, estimated_cost, monthly_sales,
	 competition_level, review_rating, product_url, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertTx inserts a product inside an existing transaction
func (r *ProductRepository) InsertTx(tx *sql.Tx, p *models.Product) error {
	_, err := tx.Exec(insertProduct,
		p.UserID, p.Name, p.Category, p.CurrentPrice, p.EstimatedCost,
		p.MonthlySales, p.CompetitionLevel, p.ReviewRating, p.ProductURL,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// ExistsByNameTx reports whether the user already tracks a product with
// the given name, inside an existing transaction
func (r *ProductRepository) ExistsByNameTx(tx *sql.Tx, userID int64, name string) (bool, error) {
	var one int
	err := tx.QueryRow("SELECT 1 FROM products WHERE user_id = ? AND name = ? LIMIT 1", userID, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return true, nil
}

// Update persists the mutable fields of a product
func (r *ProductRepository) Update(p *models.Product) error {
	result, err := r.db.Exec(
		`UPDATE products SET name = ?, category = ?, current_price = ?, estimated_cost = ?,
		 monthly_sales = ?, competition_level = ?, review_rating = ?, product_url = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		p.Name, p.Category, p.CurrentPrice, p.EstimatedCost,
		p.MonthlySales, p.CompetitionLevel, p.ReviewRating, p.ProductURL, p.UpdatedAt,
		p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a single product owned by the given user
func (r *ProductRepository) Delete(id, userID int64) error {
	result, err := r.db.Exec("DELETE FROM products WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllByUser removes every product owned by a user and returns the
// number of deleted rows
func (r *ProductRepository) DeleteAllByUser(userID int64) (int64, error) {
	result, err := r.db.Exec("DELETE FROM products WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear products: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected, nil
}

// Fingerprint returns the count and newest update marker of a user's
// product set, used as a cache key for derived statistics. The marker is
// the stored MAX(updated_at) text as-is: aggregate columns lose their
// declared type, so the driver hands the value back as a string, and a
// fingerprint never needs it parsed.
func (r *ProductRepository) Fingerprint(userID int64) (int64, string, error) {
	var count int64
	var newest sql.NullString
	err := r.db.QueryRow(
		"SELECT COUNT(*), MAX(updated_at) FROM products WHERE user_id = ?", userID,
	).Scan(&count, &newest)
	if err != nil {
		return 0, "", fmt.Errorf("failed to fingerprint products: %w", err)
	}
	return count, newest.String, nil
}

func scanProduct(row rowScanner, p *models.Product) error {
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Category, &p.CurrentPrice, &p.EstimatedCost,
		&p.MonthlySales, &p.CompetitionLevel, &p.ReviewRating, &p.ProductURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("failed to scan product: %w", err)
	}
	return nil
}
