// FILE: internal/controller/mood_controller.go
package controller

import (
	"time"

	"moodmuse-be/internal/dto"
	"moodmuse-be/internal/pkg/serverutils"
	"moodmuse-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMoodController interface {
	RegisterRoutes(r fiber.Router)
	Analyze(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	SemanticSearch(ctx *fiber.Ctx) error
}

type moodController struct {
	moodService service.IMoodService
}

func NewMoodController(moodService service.IMoodService) IMoodController {
	return &moodController{
		moodService: moodService,
	}
}

func (c *moodController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/moods")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/analyze", c.Analyze)
	h.Get("/history", c.History)
	h.Get("/search", c.SemanticSearch)
}

func (c *moodController) Analyze(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromContext(ctx)
	if err != nil {
		return err
	}

	var req dto.AnalyzeMoodRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.moodService.Analyze(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze mood", res))
}

func (c *moodController) History(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromContext(ctx)
	if err != nil {
		return err
	}

	opts := service.HistoryOptions{
		Limit:     ctx.QueryInt("limit", 20),
		Offset:    ctx.QueryInt("offset", 0),
		MoodLabel: ctx.Query("mood"),
	}
	if days := ctx.QueryInt("days", 0); days > 0 {
		opts.Since = time.Now().AddDate(0, 0, -days)
	}

	res, err := c.moodService.History(ctx.Context(), userId, opts)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch mood history", res))
}

func (c *moodController) SemanticSearch(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIdFromContext(ctx)
	if err != nil {
		return err
	}

	query := ctx.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Query parameter 'q' is required")
	}

	res, err := c.moodService.SemanticSearch(ctx.Context(), userId, query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success semantic search", res))
}
