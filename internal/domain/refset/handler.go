package refset

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
	api.SearchRoutes(g, "/refsets", h.svc.Finder(), Filterable)
	g.GET("/refsets/:id", h.GetRefset)
	g.POST("/refsets", h.CreateRefset)
	g.PUT("/refsets/:id", h.UpdateRefset)
	g.DELETE("/refsets/:id", h.DeleteRefset)
}

func (h *Handler) GetRefset(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.svc.GetRefset(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) CreateRefset(c echo.Context) error {
	var r Refset
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateRefset(c.Request().Context(), &r); err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) UpdateRefset(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var r Refset
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.ID = id
	if err := h.svc.UpdateRefset(c.Request().Context(), &r); err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteRefset(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteRefset(c.Request().Context(), id); err != nil {
		return api.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
