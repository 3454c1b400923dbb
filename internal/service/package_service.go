package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"gymora/api/internal/ids"
	"gymora/api/internal/models"
	"gymora/api/internal/repository"
)

var ErrActivePurchaseExists = errors.New("an active package purchase already exists")

type PackageService struct {
	packages *repository.PackageRepository
	log      zerolog.Logger
}

func NewPackageService(packages *repository.PackageRepository, log zerolog.Logger) *PackageService {
	return &PackageService{packages: packages, log: log}
}

// Purchase buys a plan for a member. One active purchase per member; a
// second attempt conflicts instead of stacking.
func (s *PackageService) Purchase(ctx context.Context, userID string, planID string) (models.PackagePurchase, error) {
	plan, err := s.packages.GetPlan(ctx, planID)
	if err != nil {
		return models.PackagePurchase{}, err
	}
	if !plan.Active {
		return models.PackagePurchase{}, repository.ErrPlanNotFound
	}

	if _, err := s.packages.GetActivePurchase(ctx, userID); err == nil {
		return models.PackagePurchase{}, ErrActivePurchaseExists
	} else if !errors.Is(err, repository.ErrPurchaseNotFound) {
		return models.PackagePurchase{}, err
	}

	now := time.Now()
	var remaining *int
	if plan.SessionCount != nil {
		count := *plan.SessionCount
		remaining = &count
	}

	purchase := models.PackagePurchase{
		ID:                ids.New(),
		UserID:            userID,
		PlanID:            plan.ID,
		SessionsRemaining: remaining,
		Status:            models.PurchaseStatusActive,
		PurchasedAt:       now,
		ExpiresAt:         now.AddDate(0, 0, plan.DurationDays),
	}

	if err := s.packages.CreatePurchase(ctx, purchase); err != nil {
		return models.PackagePurchase{}, err
	}
	return purchase, nil
}
