package mapping

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/refset/refset/internal/platform/api"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	api.SearchRoutes(g, "/mappings", h.svc.Finder(), Filterable)
	g.GET("/mappings/:id", h.GetMapping)
	g.POST("/mappings", h.CreateMapping)
	g.PUT("/mappings/:id", h.UpdateMapping)
	g.DELETE("/mappings/:id", h.DeleteMapping)
	g.PUT("/mappings/:id/status", h.SetStatus)
}

func (h *Handler) GetMapping(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.svc.GetMapping(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) CreateMapping(c echo.Context) error {
	var m Mapping
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMapping(c.Request().Context(), &m); err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateMapping(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var m Mapping
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateMapping(c.Request().Context(), &m); err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMapping(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMapping(c.Request().Context(), id); err != nil {
		return api.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type statusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) SetStatus(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, m)
}
