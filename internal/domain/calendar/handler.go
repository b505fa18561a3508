package calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ehr/calendar/pkg/pagination"
)

// Handler serves month grids and appointment lookups over HTTP.
type Handler struct {
	svc *Service
	now func() time.Time
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/calendar/current", h.CurrentMonth)
	g.GET("/calendar/months/:year/:month", h.GetMonth)
	g.GET("/calendar/days/:date", h.GetDay)
	g.GET("/calendar/appointments", h.ListAppointments)
}

// dayResponse is the lazy lookup result for one selected date.
type dayResponse struct {
	Date         string        `json:"date"`
	Appointments []Appointment `json:"appointments"`
	Icons        []string      `json:"icons"`
}

// CurrentMonth handles GET /calendar/current.
func (h *Handler) CurrentMonth(c echo.Context) error {
	grid, _, err := h.svc.Month(c.Request().Context(), MonthOf(h.now()))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, grid)
}

// GetMonth handles GET /calendar/months/:year/:month. The month segment is
// zero-based; an optional delta query parameter navigates before building.
func (h *Handler) GetMonth(c echo.Context) error {
	month, err := ParseMonthParams(c)
	if err != nil {
		return err
	}
	if d := c.QueryParam("delta"); d != "" {
		delta, err := strconv.Atoi(d)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "delta must be an integer")
		}
		month = NavigateMonth(month, delta)
		if !month.InRange() {
			return echo.NewHTTPError(http.StatusBadRequest, errYearRange)
		}
	}

	grid, _, err := h.svc.Month(c.Request().Context(), month)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, grid)
}

// GetDay handles GET /calendar/days/:date.
func (h *Handler) GetDay(c echo.Context) error {
	date := c.Param("date")
	appts, err := h.svc.Day(c.Request().Context(), date)
	if err != nil {
		if errors.Is(err, ErrInvalidDateKey) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	icons := make([]string, len(appts))
	for i, a := range appts {
		icons[i] = IconFor(a.Type)
	}
	return c.JSON(http.StatusOK, dayResponse{Date: date, Appointments: appts, Icons: icons})
}

// ListAppointments handles GET /calendar/appointments?from=&to=.
func (h *Handler) ListAppointments(c echo.Context) error {
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" || to == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "from and to query parameters are required")
	}
	pg := pagination.FromContext(c)

	items, total, err := h.svc.Range(c.Request().Context(), from, to, pg.Limit, pg.Offset)
	if err != nil {
		if errors.Is(err, ErrInvalidDateKey) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := pagination.NewResponse(items, total, pg.Limit, pg.Offset)
	resp.Links = pg.Links(c.Request().URL.Path, c.QueryParams(), total)
	return c.JSON(http.StatusOK, resp)
}

const errYearRange = "month must fall in years 1 through 9999"

// ParseMonthParams reads the :year and zero-based :month path parameters.
// Month values outside 0..11 roll over; the resulting year must stay in
// MinYear..MaxYear.
func ParseMonthParams(c echo.Context) (ReferenceMonth, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return ReferenceMonth{}, echo.NewHTTPError(http.StatusBadRequest, "year must be an integer")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return ReferenceMonth{}, echo.NewHTTPError(http.StatusBadRequest, "month must be an integer")
	}
	ref := NewReferenceMonth(year, month)
	if !ref.InRange() {
		return ReferenceMonth{}, echo.NewHTTPError(http.StatusBadRequest, errYearRange)
	}
	return ref, nil
}
