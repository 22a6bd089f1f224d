package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"

	"github.com/refset/refset/internal/platform/search"
)

var (
	// ErrValidation marks input rejected by a service.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("not found")
)

// SQLSTATE codes surfaced to clients.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var badRequest = []error{
	ErrValidation,
	search.ErrInvalidPfs,
	search.ErrMissingAccessor,
	search.ErrUnsupportedSortType,
	search.ErrHandlerNotFound,
}

// HTTPError maps service and search errors to echo HTTP errors. Errors that
// are already *echo.HTTPError pass through.
func HTTPError(err error) error {
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	if search.IsParseError(err) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return echo.NewHTTPError(http.StatusConflict, "already exists: "+pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return echo.NewHTTPError(http.StatusConflict, "referenced record constraint: "+pgErr.ConstraintName)
		}
	}
	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, search.ErrAmbiguousResult):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "search timed out")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
