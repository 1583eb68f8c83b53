package controller

import (
	"hdt-be/internal/dto"
	"hdt-be/internal/pkg/serverutils"
	"hdt-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMonitoringController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	IngestPhysiological(ctx *fiber.Ctx) error
	IngestActivity(ctx *fiber.Ctx) error
	CurrentState(ctx *fiber.Ctx) error
}

type monitoringController struct {
	service service.IMonitoringService
}

func NewMonitoringController(service service.IMonitoringService) IMonitoringController {
	return &monitoringController{service: service}
}

func (c *monitoringController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	h := api.Group("/monitoring", jwtMiddleware)
	h.Post("/physiological", c.IngestPhysiological)
	h.Post("/work-activity", c.IngestActivity)
	h.Get("/current-state/:id", c.CurrentState)
}

func (c *monitoringController) IngestPhysiological(ctx *fiber.Ctx) error {
	var req dto.PhysiologicalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.IngestPhysiological(ctx.UserContext(), currentUser(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Physiological data recorded", res))
}

func (c *monitoringController) IngestActivity(ctx *fiber.Ctx) error {
	var req dto.ActivityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.IngestActivity(ctx.UserContext(), currentUser(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Work activity recorded", res))
}

func (c *monitoringController) CurrentState(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.CurrentState(ctx.UserContext(), currentUser(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get current state", res))
}
