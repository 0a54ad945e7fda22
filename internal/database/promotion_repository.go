package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tripgo/booking-backend/internal/models"
)

const promotionColumns = `id, promo_code, description, discount_type, discount_value,
	   max_discount_amount, min_order_amount, start_date, end_date,
	   usage_limit, usage_count, applicable_to, is_active,
	   created_at, updated_at`

// PromotionRepository handles database operations for the promotions table
type PromotionRepository struct {
	db DB
}

// NewPromotionRepository creates a new PromotionRepository
func NewPromotionRepository(db DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// ListEligible returns active promotions whose validity window contains now
// and whose minimum order amount is satisfied. Quota, train-type and
// per-code rules are applied in-process by the service.
func (r *PromotionRepository) ListEligible(totalPrice float64) ([]models.Promotion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM promotions
		WHERE is_active = TRUE
		  AND start_date <= NOW()
		  AND end_date >= NOW()
		  AND min_order_amount <= $1
		ORDER BY discount_value DESC
	`, promotionColumns)

	rows, err := r.db.Query(query, totalPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer rows.Close()

	return r.scanPromotions(rows)
}

// GetActiveByCode looks up an active promotion by exact uppercased code
func (r *PromotionRepository) GetActiveByCode(promoCode string) (*models.Promotion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM promotions
		WHERE promo_code = $1
		  AND is_active = TRUE
	`, promotionColumns)

	return r.scanPromotion(r.db.QueryRow(query, strings.ToUpper(promoCode)))
}

// ListAll returns every promotion for the back-office listing
func (r *PromotionRepository) ListAll() ([]models.Promotion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM promotions
		ORDER BY created_at DESC
	`, promotionColumns)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer rows.Close()

	return r.scanPromotions(rows)
}

// Create inserts a new promotion. Codes are stored uppercase so validation
// can do an exact match on the uppercased input.
func (r *PromotionRepository) Create(promo *models.Promotion) error {
	if promo.ID == "" {
		promo.ID = uuid.New().String()
	}
	promo.PromoCode = strings.ToUpper(promo.PromoCode)

	query := `
		INSERT INTO promotions (
			id, promo_code, description, discount_type, discount_value,
			max_discount_amount, min_order_amount, start_date, end_date,
			usage_limit, applicable_to, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING usage_count, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		promo.ID, promo.PromoCode, promo.Description, promo.DiscountType, promo.DiscountValue,
		promo.MaxDiscountAmount, promo.MinOrderAmount, promo.StartDate, promo.EndDate,
		promo.UsageLimit, promo.ApplicableTo, promo.IsActive,
	).Scan(&promo.UsageCount, &promo.CreatedAt, &promo.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a promotion
func (r *PromotionRepository) Update(promo *models.Promotion) error {
	query := `
		UPDATE promotions
		SET description = $2, discount_type = $3, discount_value = $4,
			max_discount_amount = $5, min_order_amount = $6,
			start_date = $7, end_date = $8, usage_limit = $9,
			applicable_to = $10, is_active = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		promo.ID, promo.Description, promo.DiscountType, promo.DiscountValue,
		promo.MaxDiscountAmount, promo.MinOrderAmount,
		promo.StartDate, promo.EndDate, promo.UsageLimit,
		promo.ApplicableTo, promo.IsActive,
	).Scan(&promo.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("promotion not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update promotion: %w", err)
	}
	return nil
}

// SetActive toggles a promotion without touching its business rules
func (r *PromotionRepository) SetActive(promoID string, active bool) error {
	query := `
		UPDATE promotions
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, promoID, active)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("promotion not found")
	}
	return nil
}

// scanPromotion scans a single promotion row
func (r *PromotionRepository) scanPromotion(row scanner) (*models.Promotion, error) {
	promo := &models.Promotion{}
	var description sql.NullString
	var maxDiscount sql.NullFloat64
	var usageLimit sql.NullInt64

	err := row.Scan(
		&promo.ID, &promo.PromoCode, &description, &promo.DiscountType, &promo.DiscountValue,
		&maxDiscount, &promo.MinOrderAmount, &promo.StartDate, &promo.EndDate,
		&usageLimit, &promo.UsageCount, &promo.ApplicableTo, &promo.IsActive,
		&promo.CreatedAt, &promo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		promo.Description = &description.String
	}
	if maxDiscount.Valid {
		promo.MaxDiscountAmount = &maxDiscount.Float64
	}
	if usageLimit.Valid {
		v := int(usageLimit.Int64)
		promo.UsageLimit = &v
	}

	return promo, nil
}

// scanPromotions scans multiple promotion rows
func (r *PromotionRepository) scanPromotions(rows *sql.Rows) ([]models.Promotion, error) {
	promotions := []models.Promotion{}

	for rows.Next() {
		promo, err := r.scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, *promo)
	}

	return promotions, rows.Err()
}
