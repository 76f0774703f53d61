package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"edugen-be/internal/repository/memory"
	"edugen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFolderTestApp wires the folder handlers over in-memory repositories with
// an authenticated test user already injected into the request context.
func newFolderTestApp(userId uuid.UUID) (*fiber.App, service.IFolderService) {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	svc := service.NewFolderService(factory, nil, nil, nil)
	ctl := &folderController{service: svc}

	app := fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", userId.String())
		return ctx.Next()
	})
	app.Get("/folder/v1", ctl.ListChildren)
	app.Post("/folder/v1", ctl.Create)
	return app, svc
}

func TestCreateFolderMissingParentReturns404(t *testing.T) {
	app, _ := newFolderTestApp(uuid.New())

	body, _ := json.Marshal(map[string]interface{}{
		"name":      "Math",
		"parent_id": uuid.New(),
	})
	req := httptest.NewRequest("POST", "/folder/v1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateFolderAtRootReturns200(t *testing.T) {
	app, _ := newFolderTestApp(uuid.New())

	body, _ := json.Marshal(map[string]interface{}{"name": "Math"})
	req := httptest.NewRequest("POST", "/folder/v1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestListChildrenMissingParentReturns404(t *testing.T) {
	app, _ := newFolderTestApp(uuid.New())

	req := httptest.NewRequest("GET", "/folder/v1?parent_id="+uuid.New().String(), nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
