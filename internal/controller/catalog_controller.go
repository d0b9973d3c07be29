package controller

import (
	"urbanmind-be/internal/pkg/serverutils"
	"urbanmind-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	GetReasoningMethods(ctx *fiber.Ctx) error
	GetRegion(ctx *fiber.Ctx) error
}

// catalogController serves the read-only reference data.
type catalogController struct {
	service service.IConversationService
}

func NewCatalogController(service service.IConversationService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	r.Get("/reasoning-methods", c.GetReasoningMethods)
	r.Get("/region", c.GetRegion)
}

func (c *catalogController) GetReasoningMethods(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get reasoning methods", c.service.GetReasoningMethods(ctx.UserContext())))
}

func (c *catalogController) GetRegion(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get region profile", c.service.GetRegionProfile(ctx.UserContext())))
}
