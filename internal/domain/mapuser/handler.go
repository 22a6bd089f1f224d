package mapuser

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
	api.SearchRoutes(g, "/users", h.svc.Finder(), Filterable)
	g.GET("/users/:id", h.GetMapUser)
	g.POST("/users", h.CreateMapUser)
	g.PUT("/users/:id", h.UpdateMapUser)
	g.DELETE("/users/:id", h.DeleteMapUser)
}

func (h *Handler) GetMapUser(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.svc.GetMapUser(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) CreateMapUser(c echo.Context) error {
	var u MapUser
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMapUser(c.Request().Context(), &u); err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) UpdateMapUser(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var u MapUser
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u.ID = id
	if err := h.svc.UpdateMapUser(c.Request().Context(), &u); err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteMapUser(c echo.Context) error {
	id, err := api.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMapUser(c.Request().Context(), id); err != nil {
		return api.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
