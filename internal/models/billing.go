package models

import "time"

// MembershipPlan is an admin-managed package offering. SessionCount nil
// means unlimited visits for the plan duration.
type MembershipPlan struct {
	ID           string
	Name         string
	Description  string
	PriceCents   int64
	DurationDays int
	SessionCount *int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PurchaseStatus string

const (
	PurchaseStatusActive    PurchaseStatus = "active"
	PurchaseStatusExpired   PurchaseStatus = "expired"
	PurchaseStatusExhausted PurchaseStatus = "exhausted"
)

// PackagePurchase ties a member to a plan. SessionsRemaining mirrors the
// plan's SessionCount and is decremented atomically with each check-in.
type PackagePurchase struct {
	ID                string
	UserID            string
	PlanID            string
	SessionsRemaining *int
	Status            PurchaseStatus
	PurchasedAt       time.Time
	ExpiresAt         time.Time
}
