package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	formatMsgpack      = "msgpack"
	contentTypeMsgpack = "application/msgpack"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{service: service, logger: logger}

	v1 := app.Group("/api/v1")

	v1.Get("/dashboards/:session", h.getDashboard)
	v1.Post("/dashboards/:session/location", h.setLocation)
	v1.Post("/dashboards/:session/search", h.searchCity)
	v1.Post("/dashboards/:session/locate", h.locate)
	v1.Get("/historical", h.historical)
}

type handlers struct {
	service *weather.Service
	logger  *zap.Logger
}

// locationRequest is the body of a map click.
type locationRequest struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon *float64 `json:"lon" validate:"required,min=-180,max=180"`
}

// searchRequest is the body of a city search.
type searchRequest struct {
	City string `json:"city" validate:"required,max=200"`
}

// locateRequest carries the browser's position when it has one, or a
// city/country pair to geocode.
type locateRequest struct {
	Lat     *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lon     *float64 `json:"lon" validate:"omitempty,min=-180,max=180"`
	City    string   `json:"city" validate:"max=200"`
	Country string   `json:"country" validate:"max=100"`
}

func (h *handlers) getDashboard(c *fiber.Ctx) error {
	view, err := h.service.View(c.Params("session"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no dashboard for requested session")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load dashboard")
	}
	return respond(c, fiber.StatusOK, view)
}

func (h *handlers) setLocation(c *fiber.Ctx) error {
	var req locationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	coords := weather.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
	view, err := h.service.UpdateByCoordinates(c.UserContext(), c.Params("session"), coords)
	return h.result(c, view, err)
}

func (h *handlers) searchCity(c *fiber.Ctx) error {
	var req searchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.service.SearchCity(c.UserContext(), c.Params("session"), req.City)
	return h.result(c, view, err)
}

func (h *handlers) locate(c *fiber.Ctx) error {
	var req locateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if (req.Lat == nil) != (req.Lon == nil) {
		return fiber.NewError(fiber.StatusBadRequest, "lat and lon must be supplied together")
	}

	q := weather.LocateQuery{Lat: req.Lat, Lon: req.Lon, City: req.City, Country: req.Country}
	view, err := h.service.UseCurrentLocation(c.UserContext(), c.Params("session"), q)
	return h.result(c, view, err)
}

func (h *handlers) historical(c *fiber.Ctx) error {
	raw := c.Query("lat")
	if raw == "" {
		return fiber.NewError(fiber.StatusBadRequest, "lat query parameter is required")
	}
	lat, err := strconv.ParseFloat(raw, 64)
	if err != nil || lat < -90 || lat > 90 {
		return fiber.NewError(fiber.StatusBadRequest, "lat must be a number between -90 and 90")
	}

	return respond(c, fiber.StatusOK, fiber.Map{
		"lat":    lat,
		"months": h.service.History(lat),
	})
}

// result writes the outcome of a location change. Failures carry the
// notification the user is shown; the session keeps its previous view.
func (h *handlers) result(c *fiber.Ctx, view *weather.DashboardView, err error) error {
	if err != nil {
		if errors.Is(err, weather.ErrSuperseded) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		h.logger.Debug("location change failed",
			zap.String("session", c.Params("session")),
			zap.Error(err))
		return respond(c, statusFor(err), fiber.Map{
			"error":        true,
			"notification": weather.NotificationFor(err),
		})
	}
	if view == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return respond(c, fiber.StatusOK, view)
}

func statusFor(err error) int {
	switch weather.KindOf(err) {
	case weather.KindCityNotFound:
		return fiber.StatusNotFound
	case weather.KindLocationUnresolved:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadGateway
	}
}

func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// respond encodes v as JSON, or as MessagePack when ?format=msgpack is set.
func respond(c *fiber.Ctx, status int, v any) error {
	if c.Query("format") != formatMsgpack {
		return c.Status(status).JSON(v)
	}

	b, err := msgpack.Marshal(v)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to encode response")
	}
	c.Set(fiber.HeaderContentType, contentTypeMsgpack)
	return c.Status(status).Send(b)
}
