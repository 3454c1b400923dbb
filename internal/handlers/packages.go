package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gymora/api/internal/ids"
	"gymora/api/internal/models"
	"gymora/api/internal/repository"
	"gymora/api/internal/service"
)

type planResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"priceCents"`
	DurationDays int    `json:"durationDays"`
	SessionCount *int   `json:"sessionCount"`
	Active       bool   `json:"active"`
}

func toPlanResponse(plan models.MembershipPlan) planResponse {
	return planResponse{
		ID:           plan.ID,
		Name:         plan.Name,
		Description:  plan.Description,
		PriceCents:   plan.PriceCents,
		DurationDays: plan.DurationDays,
		SessionCount: plan.SessionCount,
		Active:       plan.Active,
	}
}

func (h HandlerSet) ListPlans(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	activeOnly := user.Role != models.UserRoleAdmin
	plans, err := h.packages.ListPlans(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list plans failed"})
		return
	}

	resp := make([]planResponse, 0, len(plans))
	for _, plan := range plans {
		resp = append(resp, toPlanResponse(plan))
	}
	c.JSON(http.StatusOK, gin.H{"plans": resp})
}

type createPlanRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"priceCents" binding:"required,min=0"`
	DurationDays int    `json:"durationDays" binding:"required,min=1"`
	SessionCount *int   `json:"sessionCount"`
	Active       *bool  `json:"active"`
}

func (h HandlerSet) AdminCreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	plan := models.MembershipPlan{
		ID:           ids.New(),
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		DurationDays: req.DurationDays,
		SessionCount: req.SessionCount,
		Active:       active,
	}

	if err := h.packages.CreatePlan(c.Request.Context(), plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create plan failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plan": toPlanResponse(plan)})
}

func (h HandlerSet) AdminUpdatePlan(c *gin.Context) {
	planID := c.Param("id")
	plan, err := h.packages.GetPlan(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load plan failed"})
		return
	}

	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan.Name = req.Name
	plan.Description = req.Description
	plan.PriceCents = req.PriceCents
	plan.DurationDays = req.DurationDays
	plan.SessionCount = req.SessionCount
	if req.Active != nil {
		plan.Active = *req.Active
	}

	if err := h.packages.UpdatePlan(c.Request.Context(), plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update plan failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": toPlanResponse(plan)})
}

type purchaseResponse struct {
	ID                string    `json:"id"`
	PlanID            string    `json:"planId"`
	SessionsRemaining *int      `json:"sessionsRemaining"`
	Status            string    `json:"status"`
	PurchasedAt       time.Time `json:"purchasedAt"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

func toPurchaseResponse(p models.PackagePurchase) purchaseResponse {
	return purchaseResponse{
		ID:                p.ID,
		PlanID:            p.PlanID,
		SessionsRemaining: p.SessionsRemaining,
		Status:            string(p.Status),
		PurchasedAt:       p.PurchasedAt,
		ExpiresAt:         p.ExpiresAt,
	}
}

type purchaseRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

func (h HandlerSet) PurchasePackage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchase, err := h.packageSvc.Purchase(c.Request.Context(), user.ID, req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrActivePurchaseExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "purchase failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"purchase": toPurchaseResponse(purchase)})
}

func (h HandlerSet) ListPurchases(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	purchases, err := h.packages.ListPurchasesByUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list purchases failed"})
		return
	}

	resp := make([]purchaseResponse, 0, len(purchases))
	for _, purchase := range purchases {
		resp = append(resp, toPurchaseResponse(purchase))
	}
	c.JSON(http.StatusOK, gin.H{"purchases": resp})
}
