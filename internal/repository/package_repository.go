package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gymora/api/internal/models"
)

var (
	ErrPlanNotFound     = errors.New("membership plan not found")
	ErrPurchaseNotFound = errors.New("package purchase not found")
	ErrNoSessionsLeft   = errors.New("no package sessions remaining")
)

type PackageRepository struct {
	pool *pgxpool.Pool
}

func NewPackageRepository(pool *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{pool: pool}
}

const planColumns = `id, name, description, price_cents, duration_days, session_count, active, created_at, updated_at`

func (r *PackageRepository) CreatePlan(ctx context.Context, plan models.MembershipPlan) error {
	const query = `
		INSERT INTO membership_plans (
			id, name, description, price_cents, duration_days, session_count, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		plan.ID,
		plan.Name,
		plan.Description,
		plan.PriceCents,
		plan.DurationDays,
		plan.SessionCount,
		plan.Active,
	)
	return err
}

func (r *PackageRepository) GetPlan(ctx context.Context, id string) (models.MembershipPlan, error) {
	const query = `SELECT ` + planColumns + ` FROM membership_plans WHERE id = $1`
	return r.scanPlan(r.pool.QueryRow(ctx, query, id))
}

func (r *PackageRepository) ListPlans(ctx context.Context, activeOnly bool) ([]models.MembershipPlan, error) {
	query := `SELECT ` + planColumns + ` FROM membership_plans ORDER BY price_cents ASC`
	if activeOnly {
		query = `SELECT ` + planColumns + ` FROM membership_plans WHERE active ORDER BY price_cents ASC`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.MembershipPlan
	for rows.Next() {
		plan, err := r.scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *PackageRepository) UpdatePlan(ctx context.Context, plan models.MembershipPlan) error {
	const query = `
		UPDATE membership_plans
		SET name = $2, description = $3, price_cents = $4, duration_days = $5,
		    session_count = $6, active = $7, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		plan.ID,
		plan.Name,
		plan.Description,
		plan.PriceCents,
		plan.DurationDays,
		plan.SessionCount,
		plan.Active,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

const purchaseColumns = `id, user_id, plan_id, sessions_remaining, status, purchased_at, expires_at`

func (r *PackageRepository) CreatePurchase(ctx context.Context, purchase models.PackagePurchase) error {
	const query = `
		INSERT INTO package_purchases (
			id, user_id, plan_id, sessions_remaining, status, purchased_at, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := r.pool.Exec(ctx, query,
		purchase.ID,
		purchase.UserID,
		purchase.PlanID,
		purchase.SessionsRemaining,
		purchase.Status,
		purchase.PurchasedAt,
		purchase.ExpiresAt,
	)
	return err
}

func (r *PackageRepository) GetActivePurchase(ctx context.Context, userID string) (models.PackagePurchase, error) {
	const query = `
		SELECT ` + purchaseColumns + `
		FROM package_purchases
		WHERE user_id = $1 AND status = 'active' AND expires_at > NOW()
		ORDER BY purchased_at DESC
		LIMIT 1
	`
	return r.scanPurchase(r.pool.QueryRow(ctx, query, userID))
}

func (r *PackageRepository) ListPurchasesByUser(ctx context.Context, userID string) ([]models.PackagePurchase, error) {
	const query = `
		SELECT ` + purchaseColumns + `
		FROM package_purchases
		WHERE user_id = $1
		ORDER BY purchased_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []models.PackagePurchase
	for rows.Next() {
		purchase, err := r.scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, rows.Err()
}

// DecrementSessionsTx consumes one session from a limited purchase in the
// caller's transaction. Unlimited purchases (NULL sessions_remaining) pass
// through untouched; a purchase at zero yields ErrNoSessionsLeft so the
// enclosing check-in rolls back.
func (r *PackageRepository) DecrementSessionsTx(ctx context.Context, tx pgx.Tx, purchaseID string) error {
	const query = `
		UPDATE package_purchases
		SET sessions_remaining = sessions_remaining - 1,
		    status = CASE WHEN sessions_remaining - 1 = 0 THEN 'exhausted' ELSE status END
		WHERE id = $1 AND sessions_remaining > 0
	`
	cmd, err := tx.Exec(ctx, query, purchaseID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoSessionsLeft
	}
	return nil
}

func (r *PackageRepository) scanPlan(row pgx.Row) (models.MembershipPlan, error) {
	var plan models.MembershipPlan
	if err := row.Scan(
		&plan.ID,
		&plan.Name,
		&plan.Description,
		&plan.PriceCents,
		&plan.DurationDays,
		&plan.SessionCount,
		&plan.Active,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MembershipPlan{}, ErrPlanNotFound
		}
		return models.MembershipPlan{}, err
	}
	return plan, nil
}

func (r *PackageRepository) scanPurchase(row pgx.Row) (models.PackagePurchase, error) {
	var purchase models.PackagePurchase
	if err := row.Scan(
		&purchase.ID,
		&purchase.UserID,
		&purchase.PlanID,
		&purchase.SessionsRemaining,
		&purchase.Status,
		&purchase.PurchasedAt,
		&purchase.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PackagePurchase{}, ErrPurchaseNotFound
		}
		return models.PackagePurchase{}, err
	}
	return purchase, nil
}
