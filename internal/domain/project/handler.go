package project

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
	api.SearchRoutes(g, "/projects", h.svc.Finder(), Filterable)
	g.GET("/projects/:id", h.GetProject)
	g.POST("/projects", h.CreateProject)
	g.PUT("/projects/:id", h.UpdateProject)
	g.DELETE("/projects/:id", h.DeleteProject)
}

func (h *Handler) GetProject(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.GetProject(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProject(c echo.Context) error {
	var p Project
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateProject(c.Request().Context(), &p); err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProject(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var p Project
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdateProject(c.Request().Context(), &p); err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProject(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteProject(c.Request().Context(), id); err != nil {
		return api.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
