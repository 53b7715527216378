package workflow

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/workflow", h.Get)
	api.PUT("/workflow", h.Replace)
}

func (h *Handler) Get(c echo.Context) error {
	steps, err := h.svc.Get(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if steps == nil {
		steps = []Step{}
	}
	return c.JSON(http.StatusOK, steps)
}

func (h *Handler) Replace(c echo.Context) error {
	var inputs []StepInput
	if err := c.Bind(&inputs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	steps, err := h.svc.Replace(c.Request().Context(), inputs)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if steps == nil {
		steps = []Step{}
	}
	return c.JSON(http.StatusOK, steps)
}
