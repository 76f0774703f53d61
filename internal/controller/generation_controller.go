package controller

import (
	"errors"

	"edugen-be/internal/dto"
	"edugen-be/internal/pkg/serverutils"
	"edugen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Move(ctx *fiber.Ctx) error
	Duplicate(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type generationController struct {
	service  service.IGenerationService
	planGate fiber.Handler
}

func NewGenerationController(service service.IGenerationService, planGate fiber.Handler) IGenerationController {
	return &generationController{service: service, planGate: planGate}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generation/v1")
	h.Use(serverutils.JwtMiddleware) // ✅ PROTECTED

	// The LLM call sits behind the plan gate; hierarchy ops do not.
	if c.planGate != nil {
		h.Post("/generate", c.planGate, c.Generate)
	} else {
		h.Post("/generate", c.Generate)
	}

	h.Post("", c.Save)
	h.Get("/search", c.Search)
	h.Get(":id", c.Show)
	h.Put(":id/rename", c.Rename)
	h.Put(":id/move", c.Move)
	h.Post(":id/duplicate", c.Duplicate)
	h.Delete(":id", c.Delete)
}

func (c *generationController) Generate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.GenerateContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.Context(), userId, &req)
	if err != nil {
		return mapGenerationError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate content", res))
}

func (c *generationController) Save(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SaveGenerationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Save(ctx.Context(), userId, &req)
	if err != nil {
		return mapGenerationError(err)
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Folder not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save generation", res))
}

func (c *generationController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid generation id")
	}

	res, err := c.service.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Generation not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show generation", res))
}

func (c *generationController) Rename(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid generation id")
	}

	var req dto.RenameGenerationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Rename(ctx.Context(), userId, &req)
	if err != nil {
		return mapGenerationError(err)
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Generation not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rename generation", res))
}

func (c *generationController) Move(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid generation id")
	}

	var req dto.MoveGenerationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Id = id

	res, err := c.service.Move(ctx.Context(), userId, &req)
	if err != nil {
		return mapGenerationError(err)
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Generation not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success move generation", res))
}

func (c *generationController) Duplicate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid generation id")
	}

	res, err := c.service.Duplicate(ctx.Context(), userId, id)
	if err != nil {
		return mapGenerationError(err)
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Generation not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success duplicate generation", res))
}

func (c *generationController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid generation id")
	}

	if err := c.service.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete generation", nil))
}

func (c *generationController) Search(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	query := ctx.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing query parameter q")
	}

	res, err := c.service.Search(ctx.Context(), userId, query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search generations", res))
}

func mapGenerationError(err error) error {
	switch {
	case errors.Is(err, service.ErrUnknownContentType),
		errors.Is(err, service.ErrInvalidContent),
		errors.Is(err, service.ErrFoldersNotDuplicable):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDailyLimitReached):
		return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	default:
		return err
	}
}
