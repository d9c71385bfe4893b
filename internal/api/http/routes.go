package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KaiRo-at/weatherthing/internal/thing"
)

// RegisterRoutes wires the thing and property handlers into the Fiber
// app. Property values read whatever the sensor updaters last
// published; unknown values serialize as null.
func RegisterRoutes(app *fiber.App, things []*thing.Thing) {
	byID := make(map[string]*thing.Thing, len(things))
	for _, t := range things {
		byID[t.ID] = t
	}

	app.Get("/things", func(c *fiber.Ctx) error {
		out := make([]map[string]interface{}, 0, len(things))
		for _, t := range things {
			out = append(out, t.Describe())
		}
		return c.JSON(out)
	})

	app.Get("/things/:thingID", func(c *fiber.Ctx) error {
		t, ok := byID[c.Params("thingID")]
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown thing")
		}
		return c.JSON(t.Describe())
	})

	app.Get("/things/:thingID/properties", func(c *fiber.Ctx) error {
		t, ok := byID[c.Params("thingID")]
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown thing")
		}
		return c.JSON(t.Values())
	})

	app.Get("/things/:thingID/properties/:name", func(c *fiber.Ctx) error {
		t, ok := byID[c.Params("thingID")]
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown thing")
		}
		name := c.Params("name")
		p, ok := t.Property(name)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown property")
		}

		if v, known := p.Value(); known {
			return c.JSON(fiber.Map{name: v})
		}
		return c.JSON(fiber.Map{name: nil})
	})
}
