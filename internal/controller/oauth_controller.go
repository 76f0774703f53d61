// FILE: internal/controller/oauth_controller.go
package controller

import (
	"edugen-be/internal/pkg/serverutils"
	"edugen-be/internal/service"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
}

func NewOAuthController(service service.IOAuthService) IOAuthController {
	return &oauthController{service: service}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	// e.g., /auth/google
	h := r.Group("/auth")
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	url, err := c.service.GetLoginURL(provider)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	// Redirect user to Google
	return ctx.Redirect(url)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	// state := ctx.Query("state") // validate state if needed

	if code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing code"))
	}
	log.Printf("[OAuth] Callback received for provider: %s", provider)

	res, err := c.service.HandleCallback(ctx.Context(), provider, code)
	if err != nil {
		log.Printf("[OAuth] ERROR - HandleCallback failed: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	log.Printf("[OAuth] User %s authenticated", res.User.Id)

	// ✅ SUCCESS: Redirect to Frontend with Token in URL
	frontendURL := os.Getenv("FRONTEND_URL") // e.g., http://localhost:5173
	if frontendURL == "" {
		frontendURL = "http://localhost:5173" // fallback default
	}

	redirectURL := fmt.Sprintf("%s/app?token=%s", frontendURL, res.AccessToken)

	return ctx.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}