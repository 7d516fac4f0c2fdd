package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/rainfall-explorer/internal/adapter/excel"
	"github.com/couchcryptid/rainfall-explorer/internal/domain"
)

type limitsResponse struct {
	MinSupportedYear int    `json:"min_supported_year"`
	MaxAvailableDate string `json:"max_available_date"`
	CurrentYear      int    `json:"current_year"`
}

type defaultsResponse struct {
	Form   domain.FormState `json:"form"`
	City   string           `json:"city"`
	Limits limitsResponse   `json:"limits"`
}

func (s *Server) handleFormDefaults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, defaultsResponse{
		Form: domain.DefaultFormState(),
		City: domain.DefaultCity,
		Limits: limitsResponse{
			MinSupportedYear: domain.MinSupportedYear,
			MaxAvailableDate: s.svc.Resolver().MaxAvailableDate.ISO(),
			CurrentYear:      domain.CurrentYear(),
		},
	})
}

type editRequest struct {
	Form  domain.FormState `json:"form"`
	Field string           `json:"field" validate:"required,oneof=start_year start_month start_day end_year end_month end_day latitude longitude"`
	Value string           `json:"value"`
	Phase string           `json:"phase" validate:"required,oneof=live commit"`
}

func (s *Server) handleFormEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, invalidRequest("request body must be JSON", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, invalidRequest(describeValidation(err), err))
		return
	}

	form, err := req.Form.Edit(domain.Field(req.Field), req.Value, domain.Phase(req.Phase))
	if err != nil {
		writeError(w, invalidRequest(err.Error(), err))
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleRainfall(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Query(r.Context(), formFromQuery(r.URL.Query()))
	if err != nil {
		writeQueryError(w, err, res.Form, res.Elapsed)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRainfallExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Query(r.Context(), formFromQuery(r.URL.Query()))
	if err != nil {
		writeQueryError(w, err, res.Form, res.Elapsed)
		return
	}

	f, err := s.exporter.Export(excel.Report{Query: res.Query, Table: res.Table, Place: res.Place})
	if err != nil {
		s.logger.Error("export workbook failed", "error", err)
		writeError(w, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("rainfall_%s_%s_%s.xlsx", res.Mode, res.Query.Range.Start, res.Query.Range.End)
	w.Header().Set("Content-Type", excel.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		s.logger.Error("write workbook failed", "error", err)
	}
}

// handleWeather looks up the default city when the parameter is absent; a
// present but blank city is rejected.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	city := domain.DefaultCity
	if q.Has("city") {
		city = q.Get("city")
	}
	weather, err := s.svc.Weather(r.Context(), city)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weather)
}

func formFromQuery(q url.Values) domain.FormState {
	return domain.FormState{
		StartYear:  q.Get("start_year"),
		StartMonth: q.Get("start_month"),
		StartDay:   q.Get("start_day"),
		EndYear:    q.Get("end_year"),
		EndMonth:   q.Get("end_month"),
		EndDay:     q.Get("end_day"),
		Latitude:   q.Get("lat"),
		Longitude:  q.Get("lon"),
	}
}

func invalidRequest(message string, err error) error {
	return domain.NewAppError(domain.CodeInvalidRequest, message, err)
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
