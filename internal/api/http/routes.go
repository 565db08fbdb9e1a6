package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/skycast/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(stateResponse(service))
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		outcome, err := service.Search(c.UserContext(), strings.Clone(c.Query("q")))
		if err != nil {
			return lookupError(err)
		}
		return c.JSON(outcomeResponse(service, outcome))
	})

	v1.Get("/weather/coords", func(c *fiber.Ctx) error {
		q, err := parseCoordsQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		outcome, err := service.LookupCoordinates(c.UserContext(), q.Latitude, q.Longitude)
		if err != nil {
			// The geolocation path never surfaces its failures.
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(outcomeResponse(service, outcome))
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		return c.JSON(historyResponse(service))
	})

	v1.Delete("/history", func(c *fiber.Ctx) error {
		if err := service.ClearHistory(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to clear history")
		}
		return c.JSON(historyResponse(service))
	})

	v1.Post("/history/select", func(c *fiber.Ctx) error {
		var req selectRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		outcome, err := service.SelectHistory(c.UserContext(), strings.Clone(req.City))
		if err != nil {
			return lookupError(err)
		}
		return c.JSON(outcomeResponse(service, outcome))
	})

	v1.Put("/preferences", func(c *fiber.Ctx) error {
		var req preferencesRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		state := service.State()
		if req.Unit != "" {
			state.SetUnit(weather.Unit(req.Unit))
		}
		if req.Theme != "" {
			state.SetTheme(weather.Theme(req.Theme))
		}
		if req.View != "" {
			state.SetView(weather.View(req.View))
		}
		return c.JSON(stateResponse(service))
	})

	v1.Put("/connectivity", func(c *fiber.Ctx) error {
		var req connectivityRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		service.State().SetOnline(*req.Online)
		return c.JSON(stateResponse(service))
	})

	v1.Delete("/notification", func(c *fiber.Ctx) error {
		service.State().Dismiss()
		return c.JSON(stateResponse(service))
	})
}

type selectRequest struct {
	City string `json:"city" validate:"required"`
}

type preferencesRequest struct {
	Unit  string `json:"unit" validate:"omitempty,oneof=celsius fahrenheit"`
	Theme string `json:"theme" validate:"omitempty,oneof=light dark"`
	View  string `json:"view" validate:"omitempty,oneof=hourly daily"`
}

type connectivityRequest struct {
	Online *bool `json:"online" validate:"required"`
}

// coordsQuery holds query parameters for the geolocation endpoint.
type coordsQuery struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

func parseCoordsQuery(c *fiber.Ctx) (coordsQuery, error) {
	var q coordsQuery

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}

	var err error
	if q.Latitude, err = strconv.ParseFloat(latStr, 64); err != nil {
		return q, errors.New("lat must be a number")
	}
	if q.Longitude, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return q, errors.New("lon must be a number")
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// lookupError maps a failed lookup onto an HTTP error carrying the user-facing message.
func lookupError(err error) error {
	var te *weather.TransportError
	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, weather.ErrEmptyQuery):
		code = fiber.StatusBadRequest
	case errors.Is(err, weather.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, weather.ErrOffline):
		code = fiber.StatusServiceUnavailable
	case errors.Is(err, weather.ErrNoData), errors.Is(err, weather.ErrInvalidResponse), errors.As(err, &te):
		code = fiber.StatusBadGateway
	}
	return fiber.NewError(code, weather.UserMessage(err))
}

func stateResponse(service *weather.Service) fiber.Map {
	snap := service.State().Snapshot()
	resp := fiber.Map{"state": snap, "display": nil}
	if snap.Report != nil {
		resp["display"] = weather.Render(*snap.Report, snap.Unit, snap.View, service.Options().ConditionIcons)
	}
	return resp
}

func outcomeResponse(service *weather.Service, outcome weather.Outcome) fiber.Map {
	resp := stateResponse(service)
	resp["outcome"] = outcome
	return resp
}

func historyResponse(service *weather.Service) fiber.Map {
	unit := service.State().Snapshot().Unit
	entries := service.History()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, weather.FormatHistoryEntry(e, unit))
	}
	return fiber.Map{
		"entries": entries,
		"lines":   lines,
	}
}
