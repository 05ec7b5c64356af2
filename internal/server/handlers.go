package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gkobilansky/conversion-goat/internal/stats"
	"github.com/gkobilansky/conversion-goat/internal/store"
)

type HealthResponse struct {
	Status           string `json:"status"`
	ExperimentsCount int    `json:"experiments_count"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DB().PingContext(r.Context()); err != nil {
		s.logger.Error("database unreachable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable", "")
		return
	}

	experiments, err := s.store.ListExperiments(r.Context())
	if err != nil {
		s.logger.Error("health check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		ExperimentsCount: len(experiments),
		UptimeSeconds:    int64(time.Since(s.startTime).Seconds()),
	})
}

type GroupCountsResponse struct {
	Group       string `json:"group"`
	Page        string `json:"landing_page"`
	Users       int    `json:"users"`
	Conversions int    `json:"conversions"`
}

type ExperimentResponse struct {
	Name         string                `json:"name"`
	Source       string                `json:"source"`
	RawRecords   int                   `json:"raw_records"`
	CleanRecords int                   `json:"clean_records"`
	Groups       []GroupCountsResponse `json:"groups"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func (s *Server) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	experiments, err := s.store.ListExperiments(ctx)
	if err != nil {
		s.logger.Error("failed to list experiments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list experiments", "")
		return
	}

	// Return empty array instead of null
	response := []ExperimentResponse{}
	for _, exp := range experiments {
		counts, err := s.store.GetGroupCounts(ctx, exp.Name)
		if err != nil {
			s.logger.Error("failed to get group counts", "experiment", exp.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get group counts", "")
			return
		}

		groups := make([]GroupCountsResponse, 0, len(counts))
		for _, c := range counts {
			groups = append(groups, GroupCountsResponse{
				Group:       string(c.Group),
				Page:        string(c.Page),
				Users:       c.Users,
				Conversions: c.Conversions,
			})
		}

		response = append(response, ExperimentResponse{
			Name:         exp.Name,
			Source:       exp.Source,
			RawRecords:   exp.RawRecords,
			CleanRecords: exp.CleanRecords,
			Groups:       groups,
			CreatedAt:    exp.CreatedAt,
			UpdatedAt:    exp.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

type GroupResultResponse struct {
	Group          string  `json:"group"`
	Page           string  `json:"landing_page"`
	Conversions    int     `json:"conversions"`
	TotalUsers     int     `json:"total_users"`
	ConversionRate float64 `json:"conversion_rate"`
	SharePercent   float64 `json:"share_percent"`
	Message        string  `json:"message"`
	WilsonLower    float64 `json:"wilson_lower"`
	WilsonUpper    float64 `json:"wilson_upper"`
}

type CIResponse struct {
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
	Delta      float64 `json:"delta"`
}

type ZTestResponse struct {
	Z           float64 `json:"z"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

type ResultsResponse struct {
	Experiment         string              `json:"experiment"`
	Control            GroupResultResponse `json:"control"`
	Treatment          GroupResultResponse `json:"treatment"`
	Baseline           float64             `json:"baseline_rate"`
	BaselineObserved   bool                `json:"baseline_observed"`
	RequiredSampleSize float64             `json:"required_sample_size"`
	PerGroup           int                 `json:"per_group"`
	Verdict            string              `json:"verdict"`
	VerdictMessage     string              `json:"verdict_message"`
	Difference         CIResponse          `json:"difference"`
	ZTest              ZTestResponse       `json:"z_test"`
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	query := r.URL.Query()

	baseline, err := floatParam(query, "baseline", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	params, err := s.queryParams(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	records, err := s.store.GetRecords(r.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "experiment not found: "+name, "")
		return
	}
	if err != nil {
		s.logger.Error("failed to get records", "experiment", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get records", "")
		return
	}

	summary, err := s.analyzer.Summarize(records, baseline, params)
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ResultsResponse{
		Experiment:         name,
		Control:            groupResult(summary.Control, summary.ControlWilson),
		Treatment:          groupResult(summary.Treatment, summary.TreatmentWilson),
		Baseline:           summary.Baseline,
		BaselineObserved:   summary.BaselineObserved,
		RequiredSampleSize: summary.RequiredSize,
		PerGroup:           int(math.Round(summary.RequiredSize)),
		Verdict:            summary.Verdict.String(),
		VerdictMessage:     summary.Verdict.Message(),
		Difference:         ciResponse(summary.Difference),
		ZTest: ZTestResponse{
			Z:           summary.ZTest.Z,
			PValue:      summary.ZTest.PValue,
			Significant: summary.ZTest.Significant,
		},
	})
}

type SampleSizeRequest struct {
	BaselineRate          *float64 `json:"baseline_rate"`
	PracticalSignificance *float64 `json:"practical_significance"`
	ConfidenceLevel       *float64 `json:"confidence_level"`
	Sensitivity           *float64 `json:"sensitivity"`
}

type SampleSizeResponse struct {
	RequiredSampleSize float64 `json:"required_sample_size"`
	PerGroup           int     `json:"per_group"`
}

func (s *Server) handleSampleSize(w http.ResponseWriter, r *http.Request) {
	var req SampleSizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "")
		return
	}
	if req.BaselineRate == nil {
		writeError(w, http.StatusBadRequest, "baseline_rate is required", "")
		return
	}

	params := s.params
	if req.PracticalSignificance != nil {
		params.PracticalSignificance = *req.PracticalSignificance
	}
	if req.ConfidenceLevel != nil {
		params.ConfidenceLevel = *req.ConfidenceLevel
	}
	if req.Sensitivity != nil {
		params.Sensitivity = *req.Sensitivity
	}

	n, err := s.analyzer.RequiredSampleSize(*req.BaselineRate, params)
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SampleSizeResponse{
		RequiredSampleSize: n,
		PerGroup:           int(math.Round(n)),
	})
}

type CIRequest struct {
	ConversionsControl   int      `json:"conversions_control"`
	ConversionsTreatment int      `json:"conversions_treatment"`
	TotalUsersControl    int      `json:"total_users_control"`
	TotalUsersTreatment  int      `json:"total_users_treatment"`
	ConfidenceLevel      *float64 `json:"confidence_level"`
}

func (s *Server) handleCI(w http.ResponseWriter, r *http.Request) {
	var req CIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "")
		return
	}

	alpha := s.params.ConfidenceLevel
	if req.ConfidenceLevel != nil {
		alpha = *req.ConfidenceLevel
	}

	ci, err := s.analyzer.DifferenceCI(req.ConversionsControl, req.ConversionsTreatment, req.TotalUsersControl, req.TotalUsersTreatment, alpha)
	if err != nil {
		s.writeComputeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ciResponse(ci))
}

// queryParams overlays practical_significance, alpha and power from the query
// onto the server defaults.
func (s *Server) queryParams(q url.Values) (stats.Params, error) {
	p := s.params
	var err error

	if p.PracticalSignificance, err = floatParam(q, "practical_significance", p.PracticalSignificance); err != nil {
		return p, err
	}
	if p.ConfidenceLevel, err = floatParam(q, "alpha", p.ConfidenceLevel); err != nil {
		return p, err
	}
	if p.Sensitivity, err = floatParam(q, "power", p.Sensitivity); err != nil {
		return p, err
	}
	return p, nil
}

// writeComputeError maps statistics failures to 422 and anything else to 500.
func (s *Server) writeComputeError(w http.ResponseWriter, err error) {
	kind := stats.Kind(err)
	if kind == "" {
		s.logger.Error("computation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	s.metrics.computeErrors.WithLabelValues(kind).Inc()
	writeError(w, http.StatusUnprocessableEntity, err.Error(), kind)
}

func groupResult(report stats.GroupReport, wilson stats.Interval) GroupResultResponse {
	return GroupResultResponse{
		Group:          string(report.Group),
		Page:           string(report.Page),
		Conversions:    report.Conversions,
		TotalUsers:     report.TotalUsers,
		ConversionRate: report.ConversionRate,
		SharePercent:   report.SharePercent,
		Message:        report.Message(),
		WilsonLower:    wilson.Lower,
		WilsonUpper:    wilson.Upper,
	}
}

func ciResponse(ci stats.ConfidenceInterval) CIResponse {
	return CIResponse{
		LowerBound: ci.Lower,
		UpperBound: ci.Upper,
		Delta:      ci.Delta,
	}
}

func floatParam(q url.Values, key string, def float64) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, kind string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Kind: kind})
}
