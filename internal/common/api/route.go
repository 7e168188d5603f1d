package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature api so fx can collect them into the
// "routes" group and register them against the Fiber app.
type Route interface {
	Setup(app *fiber.App)
}
