package edition

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
	g.GET("/editions", h.ListEditions)
	g.GET("/editions/:id", h.GetEdition)
	g.POST("/editions", h.CreateEdition)
	g.PUT("/editions/:id", h.UpdateEdition)
	g.DELETE("/editions/:id", h.DeleteEdition)
}

func (h *Handler) ListEditions(c echo.Context) error {
	p, err := api.ParseSearch(c, nil)
	if err != nil {
		return api.HTTPError(err)
	}
	res, err := h.svc.ListEditions(c.Request().Context(), c.QueryParam("organization"), p.Pfs)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, api.Page(c, res))
}

func (h *Handler) GetEdition(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	e, err := h.svc.GetEdition(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) CreateEdition(c echo.Context) error {
	var e Edition
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateEdition(c.Request().Context(), &e); err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) UpdateEdition(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var e Edition
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.UpdateEdition(c.Request().Context(), &e); err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteEdition(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteEdition(c.Request().Context(), id); err != nil {
		return api.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
