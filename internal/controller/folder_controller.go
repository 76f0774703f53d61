package controller

import (
	"errors"

	"edugen-be/internal/dto"
	"edugen-be/internal/pkg/serverutils"
	"edugen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFolderController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetTree(ctx *fiber.Ctx) error
	ListChildren(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Move(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type folderController struct {
	service service.IFolderService
}

func NewFolderController(service service.IFolderService) IFolderController {
	return &folderController{service: service}
}

func (c *folderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/folder/v1")
	h.Use(serverutils.JwtMiddleware) // ✅ PROTECTED
	h.Get("/tree", c.GetTree)
	h.Get("", c.ListChildren)
	h.Post("", c.Create)
	h.Put(":id/rename", c.Rename)
	h.Put(":id/move", c.Move)
	h.Delete(":id", c.Delete)
}

func (c *folderController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return mapFolderError(err)
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Parent folder not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create folder", res))
}

func (c *folderController) GetTree(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetTree(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get tree", res))
}

// ListChildren lists one level. No parent_id means the root level.
func (c *folderController) ListChildren(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var parentId *uuid.UUID
	if raw := ctx.Query("parent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid parent_id")
		}
		parentId = &id
	}

	res, err := c.service.ListChildren(ctx.Context(), userId, parentId)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Parent folder not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list children", res))
}

func (c *folderController) Rename(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid folder id")
	}

	var req dto.RenameFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Rename(ctx.Context(), userId, &req)
	if err != nil {
		return mapFolderError(err)
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Folder not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rename folder", res))
}

func (c *folderController) Move(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid folder id")
	}

	var req dto.MoveFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Id = id

	res, err := c.service.Move(ctx.Context(), userId, &req)
	if err != nil {
		return mapFolderError(err)
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Folder not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success move folder", res))
}

func (c *folderController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid folder id")
	}

	if err := c.service.Delete(ctx.Context(), userId, id); err != nil {
		return mapFolderError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete folder", nil))
}

// mapFolderError translates service validation errors to HTTP statuses.
func mapFolderError(err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrCyclicMove),
		errors.Is(err, service.ErrTreeTooDeep):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrFolderLimitReached):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return err
	}
}
