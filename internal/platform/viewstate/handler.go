package viewstate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/calendar/internal/domain/calendar"
)

// GridProvider builds a month grid together with the appointment snapshot it
// was built from.
type GridProvider interface {
	Month(ctx context.Context, month calendar.ReferenceMonth) (*calendar.MonthGrid, calendar.Index, error)
}

// Handler provides HTTP handlers for interactive calendar views.
type Handler struct {
	views  *Manager
	grids  GridProvider
	now    func() time.Time
	logger zerolog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(views *Manager, grids GridProvider, logger zerolog.Logger) *Handler {
	return &Handler{views: views, grids: grids, now: time.Now, logger: logger}
}

// RegisterRoutes registers the view routes on the given Echo group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/calendar/views", h.CreateView)
	g.GET("/calendar/views/:id", h.GetView)
	g.POST("/calendar/views/:id/select", h.SelectDate)
	g.POST("/calendar/views/:id/navigate", h.Navigate)
	g.DELETE("/calendar/views/:id", h.DeleteView)
}

// createRequest is the JSON body for CreateView. Without year and month the
// view opens on the current month.
type createRequest struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
}

// selectRequest carries the date key of the clicked cell; an empty date is a
// click on a blank cell.
type selectRequest struct {
	Date string `json:"date"`
}

type navigateRequest struct {
	Delta int `json:"delta"`
}

type viewResponse struct {
	ID           string                  `json:"id"`
	Month        calendar.ReferenceMonth `json:"month"`
	SelectedDate *string                 `json:"selected_date"`
	State        string                  `json:"state"`
	Grid         *calendar.MonthGrid     `json:"grid"`
	Appointments []calendar.Appointment  `json:"appointments"`
}

// CreateView handles POST /calendar/views.
func (h *Handler) CreateView(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	month := calendar.MonthOf(h.now())
	if req.Year != nil || req.Month != nil {
		if req.Year == nil || req.Month == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "year and month must be given together")
		}
		month = calendar.NewReferenceMonth(*req.Year, *req.Month)
		if !month.InRange() {
			return mapError(ErrMonthOutOfRange)
		}
	}

	id, view := h.views.Create(month)
	h.logger.Debug().Str("view_id", id.String()).Str("month", view.Month.String()).Msg("calendar view opened")
	return h.render(c, http.StatusCreated, id, view)
}

// GetView handles GET /calendar/views/:id.
func (h *Handler) GetView(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	view, err := h.views.Get(id)
	if err != nil {
		return mapError(err)
	}
	return h.render(c, http.StatusOK, id, view)
}

// SelectDate handles POST /calendar/views/:id/select.
func (h *Handler) SelectDate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	current, err := h.views.Get(id)
	if err != nil {
		return mapError(err)
	}

	var cell calendar.DayCell
	if req.Date != "" {
		grid, _, err := h.grids.Month(c.Request().Context(), current.Month)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		found, ok := calendar.FindCell(grid.Cells, req.Date)
		if !ok {
			return mapError(fmt.Errorf("%w: %s", ErrDateNotInMonth, req.Date))
		}
		cell = found
	}

	view, err := h.views.Update(id, func(v *calendar.View) error {
		if v.Month != current.Month {
			return ErrViewChanged
		}
		v.Select(cell)
		return nil
	})
	if err != nil {
		return mapError(err)
	}
	return h.render(c, http.StatusOK, id, view)
}

// Navigate handles POST /calendar/views/:id/navigate.
func (h *Handler) Navigate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.views.Update(id, func(v *calendar.View) error {
		if !calendar.NavigateMonth(v.Month, req.Delta).InRange() {
			return ErrMonthOutOfRange
		}
		v.Navigate(req.Delta)
		return nil
	})
	if err != nil {
		return mapError(err)
	}
	return h.render(c, http.StatusOK, id, view)
}

// DeleteView handles DELETE /calendar/views/:id.
func (h *Handler) DeleteView(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.views.Delete(id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) render(c echo.Context, status int, id uuid.UUID, view calendar.View) error {
	grid, index, err := h.grids.Month(c.Request().Context(), view.Month)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := viewResponse{
		ID:           id.String(),
		Month:        view.Month,
		State:        view.State(index).String(),
		Grid:         grid,
		Appointments: view.Appointments(index),
	}
	if view.Selected != "" {
		selected := view.Selected
		resp.SelectedDate = &selected
	}
	return c.JSON(status, resp)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrViewNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDateNotInMonth), errors.Is(err, ErrMonthOutOfRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrViewChanged):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
