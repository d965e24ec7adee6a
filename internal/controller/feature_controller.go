package controller

import (
	"github.com/CodeTanzania/emis-feature/internal/dto"
	"github.com/CodeTanzania/emis-feature/internal/pkg/serverutils"
	"github.com/CodeTanzania/emis-feature/internal/schema"
	"github.com/CodeTanzania/emis-feature/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFeatureController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	List(ctx *fiber.Ctx) error
	Schema(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Patch(ctx *fiber.Ctx) error
	Replace(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type featureController struct {
	featureService service.IFeatureService
	schemaProvider *schema.Provider
	apiVersion     string
}

func NewFeatureController(featureService service.IFeatureService, schemaProvider *schema.Provider, apiVersion string) IFeatureController {
	return &featureController{
		featureService: featureService,
		schemaProvider: schemaProvider,
		apiVersion:     apiVersion,
	}
}

func (c *featureController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/" + c.apiVersion + "/features")
	h.Use(authMiddleware)
	h.Get("schema", c.Schema)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Patch(":id", c.Patch)
	h.Put(":id", c.Replace)
	h.Delete(":id", c.Delete)
}

func (c *featureController) List(ctx *fiber.Ctx) error {
	var query dto.ListFeaturesQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	res, err := c.featureService.List(ctx.Context(), &query)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *featureController) Schema(ctx *fiber.Ctx) error {
	return ctx.JSON(c.schemaProvider.Schema())
}

func (c *featureController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateFeatureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.featureService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *featureController) Show(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.featureService.Get(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *featureController) Patch(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.PatchFeatureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.featureService.Patch(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *featureController) Replace(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.ReplaceFeatureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.featureService.Replace(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *featureController) Delete(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.featureService.Delete(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func parseIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid feature id")
	}
	return id, nil
}
