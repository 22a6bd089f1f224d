package audit

import (
	"net/http"
	"time"

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
	g.GET("/audit", h.ListEntries)
}

// ListEntries accepts user, entity_type, action and since (RFC 3339) filters
// plus the usual paging and sort parameters.
func (h *Handler) ListEntries(c echo.Context) error {
	p, err := api.ParseSearch(c, nil)
	if err != nil {
		return api.HTTPError(err)
	}
	f := Filter{
		UserName:   c.QueryParam("user"),
		EntityType: c.QueryParam("entity_type"),
		Action:     c.QueryParam("action"),
	}
	if raw := c.QueryParam("since"); raw != "" {
		f.Since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid since: "+raw)
		}
	}
	res, err := h.svc.List(c.Request().Context(), f, p.Pfs)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, api.Page(c, res))
}
