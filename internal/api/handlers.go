package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"availability-bot/internal/availability"
	"availability-bot/internal/export"
	"availability-bot/internal/holidays"
	"availability-bot/internal/models"
	"availability-bot/internal/service"
)

const dateLayout = "2006-01-02"

type statusResponse struct {
	Date          string                   `json:"date"`
	CompanyDayOff bool                     `json:"company_day_off"`
	Rows          []availability.StatusRow `json:"rows"`
}

type holidaysResponse struct {
	Year     int                `json:"year"`
	Tag      string             `json:"tag,omitempty"`
	Holidays []holidays.Holiday `json:"holidays"`
}

type requestsResponse struct {
	Count    int                      `json:"count"`
	Requests []models.VacationRequest `json:"requests"`
}

type decisionRequest struct {
	Manager string `json:"manager"`
	Approve *bool  `json:"approve"`
}

type correctionRequest struct {
	Manager string `json:"manager"`
	Status  string `json:"status"`
}

type createVacationRequest struct {
	Email string `json:"email"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// handleStatus: GET /api/manager/employees/status?q=&date=YYYY-MM-DD
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date := availability.DateOf(s.now())
	if raw := query.Get("date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid date %q; expected YYYY-MM-DD", raw))
			return
		}
		date = d
	}

	rows, err := s.availability.On(r.Context(), date, query.Get("q"))
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	dayOff, err := s.availability.IsCompanyDayOff(r.Context(), date)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Date:          date.Format(dateLayout),
		CompanyDayOff: dayOff,
		Rows:          rows,
	})
}

// calendarQuery reads year, month, q, region (a country) and regionGroup.
func (s *Server) calendarQuery(r *http.Request) (service.CalendarQuery, error) {
	query := r.URL.Query()
	now := s.now().UTC()

	q := service.CalendarQuery{
		Year:    now.Year(),
		Month:   now.Month(),
		Query:   query.Get("q"),
		Country: query.Get("region"),
		Region:  query.Get("regionGroup"),
	}
	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid year %q", raw)
		}
		q.Year = year
	}
	if raw := query.Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid month %q", raw)
		}
		q.Month = time.Month(month)
	}
	return q, nil
}

// handleCalendar: GET /api/manager/calendar
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q, err := s.calendarQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	grid, err := s.availability.Calendar(r.Context(), q)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

// handleCalendarExport: GET /api/manager/calendar.xlsx
func (s *Server) handleCalendarExport(w http.ResponseWriter, r *http.Request) {
	q, err := s.calendarQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	grid, err := s.availability.Calendar(r.Context(), q)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="calendar-%s.xlsx"`, grid.First.Format("2006-01")))
	if err := export.WriteCalendar(w, grid); err != nil {
		s.logger.WithError(err).Error("Failed to write calendar workbook")
	}
}

// handleHolidays: GET /api/holidays?year=&region=&regionGroup=
func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	year := s.now().UTC().Year()
	if raw := query.Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid year %q", raw))
			return
		}
		year = y
	}

	country, region := query.Get("region"), query.Get("regionGroup")
	list, err := s.availability.Holidays(r.Context(), year, country, region)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, holidaysResponse{
		Year:     year,
		Tag:      holidays.Resolve(country, region).Tag(),
		Holidays: list,
	})
}

// handlePendingRequests: GET /api/manager/requests
func (s *Server) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	pending, err := s.vacations.Pending(r.Context())
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requestsResponse{Count: len(pending), Requests: pending})
}

// handleEmployeeRequests: GET /api/vacation-requests?email=
func (s *Server) handleEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("email is required"))
		return
	}

	list, err := s.vacations.ForEmployee(r.Context(), email)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requestsResponse{Count: len(list), Requests: list})
}

// handleDecision: POST /api/manager/requests/{id}/decision
func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var body decisionRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Approve == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("approve is required"))
		return
	}

	req, err := s.vacations.Decide(r.Context(), id, body.Manager, *body.Approve)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// handleCorrection: POST /api/manager/requests/{id}/status
func (s *Server) handleCorrection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var body correctionRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	status, ok := models.ParseRequestStatus(body.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown status %q", body.Status))
		return
	}

	req, err := s.vacations.Correct(r.Context(), id, body.Manager, status)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// handleCreateVacationRequest: POST /api/vacation-requests
func (s *Server) handleCreateVacationRequest(w http.ResponseWriter, r *http.Request) {
	var body createVacationRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	from, err := time.Parse(dateLayout, body.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid from %q; expected YYYY-MM-DD", body.From))
		return
	}
	to, err := time.Parse(dateLayout, body.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid to %q; expected YYYY-MM-DD", body.To))
		return
	}

	email, err := service.NormalizeEmail(body.Email)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	if _, err := s.employees.Get(r.Context(), email); err != nil {
		s.handleServiceError(w, r, err)
		return
	}

	req, err := s.vacations.Create(r.Context(), email, from, to)
	if err != nil {
		s.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errBadRequestBody
	}
	return nil
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}
