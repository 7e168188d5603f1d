package api

import (
	"team-crm/internal/policy"

	"github.com/gofiber/fiber/v2"
)

// Error renders a service error. Policy denials keep their code's transport
// status; anything else is an internal error.
func Error(c *fiber.Ctx, err error) error {
	resp := fiber.Map{"error": err.Error()}
	if code := policy.CodeOf(err); code != "" {
		resp["code"] = string(code)
	}
	return c.Status(policy.HTTPStatus(err)).JSON(resp)
}
