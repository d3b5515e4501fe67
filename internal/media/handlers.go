package media

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/presign", authMiddleware, func(c *fiber.Ctx) error {
		var req PresignRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.FileName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "filename required")
		}
		if req.MimeType == "" {
			return fiber.NewError(fiber.StatusBadRequest, "mime_type required")
		}
		resp, err := svc.Presign(currentUser(c), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(resp)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.FileName == "" || req.MimeType == "" || req.StorageKey == "" {
			return fiber.NewError(fiber.StatusBadRequest, "filename, mime_type and storage_key required")
		}
		m, err := svc.Create(c.Context(), currentUser(c), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		pageSize := c.QueryInt("page_size", 20)
		if pageSize < 1 {
			pageSize = 1
		}
		if pageSize > 100 {
			pageSize = 100
		}

		var entryID *string
		if raw := c.Query("entry_id"); raw != "" {
			entryID = &raw
		}
		capturedAfter, err := queryTime(c, "captured_after")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid captured_after")
		}
		capturedBefore, err := queryTime(c, "captured_before")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid captured_before")
		}

		list, err := svc.List(c.Context(), currentUser(c), page, pageSize, entryID, capturedAfter, capturedBefore)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(list)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		m, err := svc.Get(c.Context(), currentUser(c), c.Params("id"))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fiber.NewError(fiber.StatusNotFound, "media not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(m)
	})

	r.Get("/:id/download", authMiddleware, func(c *fiber.Ctx) error {
		resp, err := svc.DownloadURL(c.Context(), currentUser(c), c.Params("id"))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fiber.NewError(fiber.StatusNotFound, "media not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(resp)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		m, err := svc.Update(c.Context(), currentUser(c), c.Params("id"), req)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fiber.NewError(fiber.StatusNotFound, "media not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(m)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), currentUser(c), c.Params("id")); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fiber.NewError(fiber.StatusNotFound, "media not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func currentUser(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
