package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/calendar/internal/domain/calendar"
)

// Snapshotter loads the appointments of one month.
type Snapshotter interface {
	Snapshot(ctx context.Context, month calendar.ReferenceMonth) (calendar.Index, error)
}

// Handler serves month exports.
type Handler struct {
	source   Snapshotter
	hospital string
	now      func() time.Time
	logger   zerolog.Logger
}

func NewHandler(source Snapshotter, hospital string, logger zerolog.Logger) *Handler {
	return &Handler{source: source, hospital: hospital, now: time.Now, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/calendar/months/:year/:month/export", h.ExportMonth)
}

// ExportMonth handles GET /calendar/months/:year/:month/export?format=ics|csv|xlsx.
func (h *Handler) ExportMonth(c echo.Context) error {
	month, err := calendar.ParseMonthParams(c)
	if err != nil {
		return err
	}
	format := c.QueryParam("format")
	if format == "" {
		format = FormatICS
	}
	contentType, err := ContentType(format)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	index, err := h.source.Snapshot(c.Request().Context(), month)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var buf bytes.Buffer
	doc := Document{Hospital: h.hospital, Month: month, Index: index, Stamp: h.now()}
	if err := Write(&buf, format, doc); err != nil {
		if errors.Is(err, ErrUnknownFormat) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Str("format", format).Str("month", month.String()).Msg("export failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", Filename(format, month)))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
