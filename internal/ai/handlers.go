package ai

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/summarize_day", authMiddleware, func(c *fiber.Ctx) error {
		var req DaySummaryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		day, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		summary, err := svc.SummarizeDay(c.Context(), currentUser(c), day)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(summary)
	})

	r.Post("/suggest_tags", authMiddleware, func(c *fiber.Ctx) error {
		var req TagSuggestionRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		out, err := svc.SuggestTags(c.Context(), currentUser(c), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(out)
	})

	// Public, mirrors the demo endpoint.
	r.Post("/suggest_trip", func(c *fiber.Ctx) error {
		var req TripSuggestionRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.StartLocation == "" {
			return fiber.NewError(fiber.StatusBadRequest, "start_location required")
		}
		out, err := svc.SuggestTrip(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(out)
	})

	r.Post("/guide_poi", authMiddleware, func(c *fiber.Ctx) error {
		var req GuidePOIRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Mode == "off" {
			return c.JSON(GuidePOI{Text: "Reiseführer ist deaktiviert."})
		}
		out, err := svc.GuidePOI(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(out)
	})
}

func currentUser(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
