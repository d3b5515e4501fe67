package meta

import (
	"os"

	"github.com/gofiber/fiber/v2"
)

const apiVersion = "0.1.0"

func RegisterRoutes(r fiber.Router, changelogPath string) {
	r.Get("/changelog", func(c *fiber.Ctx) error {
		content, err := os.ReadFile(changelogPath)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "CHANGELOG.md not found")
		}
		markdown := string(content)
		return c.JSON(ChangelogResponse{
			Markdown: markdown,
			Versions: ParseChangelog(markdown),
		})
	})

	r.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"version":     apiVersion,
			"api_version": "v1",
		})
	})
}
