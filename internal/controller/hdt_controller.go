package controller

import (
	"hdt-be/internal/dto"
	"hdt-be/internal/pkg/serverutils"
	"hdt-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHDTController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	ListRoles(ctx *fiber.Ctx) error
	CreateProfile(ctx *fiber.Ctx) error
	GetProfiles(ctx *fiber.Ctx) error
}

type hdtController struct {
	service service.IProfileService
}

func NewHDTController(service service.IProfileService) IHDTController {
	return &hdtController{service: service}
}

func (c *hdtController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	// Public
	api.Get("/hdt/roles", c.ListRoles)

	h := api.Group("/hdt/profiles", jwtMiddleware)
	h.Get("", c.GetProfiles)
	h.Post("", c.CreateProfile)
}

func (c *hdtController) ListRoles(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get roles", c.service.ListRoles()))
}

func (c *hdtController) CreateProfile(ctx *fiber.Ctx) error {
	var req dto.CreateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), currentUser(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Profile created", res))
}

func (c *hdtController) GetProfiles(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext(), currentUser(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get profiles", res))
}
