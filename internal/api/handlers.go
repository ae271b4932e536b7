package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/tickwatch/internal/app"
	"github.com/tphakala/tickwatch/internal/filter"
	"github.com/tphakala/tickwatch/internal/render"
	"github.com/tphakala/tickwatch/internal/report"
	"github.com/tphakala/tickwatch/internal/share"
	"github.com/tphakala/tickwatch/internal/store"
)

// SightingsResponse is returned by GET /api/v1/sightings.
type SightingsResponse struct {
	Criteria filter.Criteria `json:"criteria"`
	Source   store.Source    `json:"source"`
	Total    int             `json:"total"`
	Loading  bool            `json:"loading"`
	View     render.View     `json:"view"`
}

// DetailsResponse is returned by GET /api/v1/sightings/:id.
type DetailsResponse struct {
	render.Details
	Directions string `json:"directions"`
}

func (s *Server) listSightings(c echo.Context) error {
	var criteria filter.Criteria
	if err := c.Bind(&criteria); err != nil {
		return s.HandleError(c, err, "Invalid filter parameters", http.StatusBadRequest)
	}

	// Severities are derived from the clock, so entries live for one minute
	// at most. Loading is filled in per request.
	st := s.app.Store()
	minute := s.app.Now().Truncate(time.Minute).Unix()
	key := fmt.Sprintf("view:%d:%d:%s:%s", st.Version(), minute, s.app.Selected(), criteria.CacheKey())
	if s.views != nil {
		if cached, ok := s.views.Get(key); ok {
			resp := *cached.(*SightingsResponse)
			resp.Loading = s.app.Loading()
			c.Response().Header().Set("X-Cache", "HIT")
			return c.JSON(http.StatusOK, &resp)
		}
	}

	view, err := s.app.ViewFor(criteria)
	if err != nil {
		return s.HandleError(c, err, "Invalid filter parameters", statusFor(err))
	}
	resp := SightingsResponse{
		Criteria: criteria,
		Source:   st.Source(),
		Total:    st.Len(),
		View:     view,
	}
	if s.views != nil {
		s.views.SetDefault(key, &resp)
		c.Response().Header().Set("X-Cache", "MISS")
	}
	out := resp
	out.Loading = s.app.Loading()
	return c.JSON(http.StatusOK, &out)
}

func (s *Server) getSighting(c echo.Context) error {
	id := c.Param("id")
	d, err := s.app.Details(id)
	if err != nil {
		return s.HandleError(c, err, "Sighting not found", statusFor(err))
	}
	return c.JSON(http.StatusOK, DetailsResponse{
		Details:    d,
		Directions: share.DirectionsURL(d.Location),
	})
}

func (s *Server) submitSighting(c echo.Context) error {
	var form report.Form
	if err := c.Bind(&form); err != nil {
		return s.HandleError(c, err, "Invalid report body", http.StatusBadRequest)
	}

	res, err := s.app.Submit(c.Request().Context(), &form)
	if err != nil {
		code := statusFor(err)
		msg := "Failed to submit sighting"
		if code == http.StatusBadRequest {
			msg = "Please correct the highlighted fields"
		}
		return s.HandleError(c, err, msg, code)
	}

	code := http.StatusCreated
	if res.Status == app.SavedLocally {
		code = http.StatusAccepted
	}
	return c.JSON(code, res)
}

func (s *Server) filterOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.app.Options())
}

func (s *Server) seasonal(c echo.Context) error {
	year := c.QueryParam("year")
	if year != "" {
		if _, err := strconv.Atoi(year); err != nil || len(year) != 4 {
			return s.HandleError(c, err, "year must be a four digit number", http.StatusBadRequest)
		}
	}
	return c.JSON(http.StatusOK, s.app.Seasonal(c.QueryParam("city"), year))
}

func (s *Server) timeline(c echo.Context) error {
	location := c.QueryParam("location")
	if location == "" {
		return s.HandleError(c, nil, "location is required", http.StatusBadRequest)
	}
	entries := s.app.Timeline(location)
	if entries == nil {
		entries = []render.TimelineEntry{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"location": location,
		"entries":  entries,
	})
}

func (s *Server) shareMessage(c echo.Context) error {
	st := s.app.Store()
	rec, ok := st.Get(c.Param("id"))
	if !ok {
		return s.HandleError(c, nil, "Sighting not found", http.StatusNotFound)
	}
	return c.JSON(http.StatusOK, share.NewMessage(&rec))
}

func (s *Server) share(c echo.Context) error {
	res, err := s.app.Share(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.HandleError(c, err, "Failed to share sighting", statusFor(err))
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) refresh(c echo.Context) error {
	out, err := s.app.Refresh(c.Request().Context())
	if err != nil {
		return s.HandleError(c, err, "Failed to read local sightings", statusFor(err))
	}
	resp := map[string]any{"outcome": out}
	if out.FetchErr != nil {
		resp["warning"] = "Remote service unavailable, showing built-in sightings"
	}
	return c.JSON(http.StatusOK, resp)
}
