// FILE: internal/pkg/serverutils/plan_gate.go
package serverutils

import (
	"context"
	"time"

	"edugen-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SubscriptionValidator is the slice of the payment service the gate needs.
type SubscriptionValidator interface {
	ValidateSubscription(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionValidationResponse, error)
}

// PlanGate guards generation endpoints behind subscription validation. The
// verdict is cached per user so the gate does not hit the database on every
// request; the payment webhook invalidates the entry when status changes.
type PlanGate struct {
	validator SubscriptionValidator
	cache     *cache.Cache
}

const planGateTTL = 5 * time.Minute

func NewPlanGate() *PlanGate {
	return &PlanGate{
		cache: cache.New(planGateTTL, 10*time.Minute),
	}
}

// SetValidator wires the payment service in after construction. The gate is
// built before the payment service because the service holds the gate for
// webhook invalidation.
func (g *PlanGate) SetValidator(validator SubscriptionValidator) {
	g.validator = validator
}

// Invalidate drops the cached verdict for a user.
func (g *PlanGate) Invalidate(userId uuid.UUID) {
	g.cache.Delete(userId.String())
}

// Middleware allows free-tier users through (daily quotas apply downstream)
// and blocks lapsed paid subscriptions until they renew.
func (g *PlanGate) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userIdStr, ok := ctx.Locals("user_id").(string)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Unauthorized"))
		}
		userId, err := uuid.Parse(userIdStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Unauthorized"))
		}

		if allowed, found := g.cache.Get(userId.String()); found {
			if allowed.(bool) {
				return ctx.Next()
			}
			return paymentRequired(ctx)
		}

		if g.validator == nil {
			return ctx.Next()
		}

		validation, err := g.validator.ValidateSubscription(ctx.UserContext(), userId)
		if err != nil {
			// On validator failure let the request through rather than
			// locking paying users out.
			return ctx.Next()
		}

		allowed := validation.IsValid ||
			validation.Status == "free_tier" ||
			validation.Status == "grace_period"

		g.cache.Set(userId.String(), allowed, cache.DefaultExpiration)

		if !allowed {
			return paymentRequired(ctx)
		}
		return ctx.Next()
	}
}

func paymentRequired(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusPaymentRequired).JSON(
		ErrorResponse(fiber.StatusPaymentRequired, "Subscription renewal required"))
}
