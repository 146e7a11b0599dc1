package driver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gatewayz/rum-server/internal/application"
	"github.com/gatewayz/rum-server/internal/vitals"
)

// VitalsHTTPHandler handles HTTP requests for Web Vitals ingestion and
// aggregation queries.
type VitalsHTTPHandler struct {
	service *application.VitalsService
}

// NewVitalsHTTPHandler creates a new HTTP handler for Web Vitals.
func NewVitalsHTTPHandler(service *application.VitalsService) *VitalsHTTPHandler {
	return &VitalsHTTPHandler{service: service}
}

// errorResponse represents a JSON error response.
type errorResponse struct {
	Error string `json:"error"`
}

// metricEntryRequest is one metric observation in an ingest request. Field
// names mirror the web-vitals client library payload.
type metricEntryRequest struct {
	Name   string   `json:"name"`
	Value  float64  `json:"value"`
	Delta  *float64 `json:"delta,omitempty"`
	Rating string   `json:"rating,omitempty"`
}

// batchRequest is the JSON body for POST /vitals. The client may send a
// timestamp but the server clock always wins.
type batchRequest struct {
	SessionID string               `json:"sessionId"`
	Path      string               `json:"path"`
	Title     string               `json:"title,omitempty"`
	Device    string               `json:"device,omitempty"`
	Timestamp int64                `json:"timestamp,omitempty"`
	Metrics   []metricEntryRequest `json:"metrics"`
}

// recordedResponse is the JSON response for a recorded batch.
type recordedResponse struct {
	Recorded int `json:"recorded"`
}

// historyPointResponse is one hourly history bucket in JSON format.
type historyPointResponse struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
	Rating    string  `json:"rating"`
}

// vitalResponse is one aggregated metric in JSON format.
type vitalResponse struct {
	Name            string                 `json:"name"`
	P75             float64                `json:"p75"`
	Rating          string                 `json:"rating"`
	Count           int                    `json:"count"`
	Trend           string                 `json:"trend"`
	TrendPercentage float64                `json:"trendPercentage"`
	History         []historyPointResponse `json:"history"`
}

// metricScoreResponse is one metric's score contribution in JSON format.
type metricScoreResponse struct {
	Score  int     `json:"score"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
	Rating string  `json:"rating"`
}

// scoreResponse is the weighted performance score in JSON format.
type scoreResponse struct {
	Overall     int                            `json:"overall"`
	Metrics     map[string]metricScoreResponse `json:"metrics"`
	Device      string                         `json:"device"`
	SampleCount int                            `json:"sampleCount"`
}

// distributionResponse is the pooled rating distribution in JSON format.
type distributionResponse struct {
	Good             int `json:"good"`
	NeedsImprovement int `json:"needsImprovement"`
	Poor             int `json:"poor"`
}

// timeRangeResponse is the resolved query window in epoch milliseconds.
type timeRangeResponse struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// summaryResponse is the JSON response for GET /vitals/summary.
type summaryResponse struct {
	Score        scoreResponse            `json:"score"`
	Distribution distributionResponse     `json:"distribution"`
	Vitals       map[string]vitalResponse `json:"vitals"`
	PathCount    int                      `json:"pathCount"`
	SessionCount int                      `json:"sessionCount"`
	TimeRange    timeRangeResponse        `json:"timeRange"`
}

// pageResponse is one page-level row in JSON format.
type pageResponse struct {
	Path        string                   `json:"path"`
	Title       string                   `json:"title,omitempty"`
	Loads       int                      `json:"loads"`
	Score       int                      `json:"score"`
	Opportunity float64                  `json:"opportunity"`
	Vitals      map[string]vitalResponse `json:"vitals"`
}

// pagesResponse is the JSON response for GET /vitals/pages.
type pagesResponse struct {
	Pages   []pageResponse `json:"pages"`
	Total   int            `json:"total"`
	HasMore bool           `json:"hasMore"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ServeHTTP routes the request based on method and path.
func (h *VitalsHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/vitals":
		h.handleRecord(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/vitals/summary":
		h.handleSummary(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/vitals/pages":
		h.handlePages(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleRecord handles POST /vitals.
func (h *VitalsHTTPHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	batch := application.Batch{
		SessionID: req.SessionID,
		Path:      req.Path,
		Title:     req.Title,
		Device:    req.Device,
	}
	for _, m := range req.Metrics {
		batch.Metrics = append(batch.Metrics, application.SampleInput{
			Name:   m.Name,
			Value:  m.Value,
			Delta:  m.Delta,
			Rating: m.Rating,
		})
	}

	recorded, err := h.service.RecordSamples(r.Context(), batch)
	if err != nil {
		if errors.Is(err, application.ErrInvalidBatch) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusAccepted, recordedResponse{Recorded: recorded})
}

// handleSummary handles GET /vitals/summary.
func (h *VitalsHTTPHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	query := application.SummaryQuery{
		Hours:  intParam(r, "hours", 0),
		Device: r.URL.Query().Get("device"),
		Path:   r.URL.Query().Get("path"),
	}

	summary, err := h.service.GetSummary(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// handlePages handles GET /vitals/pages.
func (h *VitalsHTTPHandler) handlePages(w http.ResponseWriter, r *http.Request) {
	query := application.PagesQuery{
		Limit:     intParam(r, "limit", 0),
		Offset:    intParam(r, "offset", 0),
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: r.URL.Query().Get("sortOrder"),
		Search:    r.URL.Query().Get("search"),
	}

	list, err := h.service.GetPages(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := pagesResponse{
		Pages:   make([]pageResponse, len(list.Pages)),
		Total:   list.Total,
		HasMore: list.HasMore,
	}
	for i, p := range list.Pages {
		resp.Pages[i] = toPageResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func toVitalResponse(v vitals.AggregatedVital) vitalResponse {
	history := make([]historyPointResponse, len(v.History))
	for i, p := range v.History {
		history[i] = historyPointResponse{
			Timestamp: p.Timestamp.UnixMilli(),
			Value:     p.Value,
			Rating:    string(p.Rating),
		}
	}
	return vitalResponse{
		Name:            string(v.Name),
		P75:             v.P75,
		Rating:          string(v.Rating),
		Count:           v.Count,
		Trend:           string(v.Trend),
		TrendPercentage: v.TrendPercentage,
		History:         history,
	}
}

func toVitalsMap(m map[vitals.MetricName]vitals.AggregatedVital) map[string]vitalResponse {
	out := make(map[string]vitalResponse, len(m))
	for name, v := range m {
		out[string(name)] = toVitalResponse(v)
	}
	return out
}

func toSummaryResponse(s application.Summary) summaryResponse {
	scores := make(map[string]metricScoreResponse, len(s.Breakdown.Metrics))
	for name, ms := range s.Breakdown.Metrics {
		scores[string(name)] = metricScoreResponse{
			Score:  ms.Score,
			Weight: ms.Weight,
			Value:  ms.Value,
			Rating: string(ms.Rating),
		}
	}
	return summaryResponse{
		Score: scoreResponse{
			Overall:     s.Breakdown.Overall,
			Metrics:     scores,
			Device:      string(s.Breakdown.Device),
			SampleCount: s.Breakdown.SampleCount,
		},
		Distribution: distributionResponse{
			Good:             s.Distribution.Good,
			NeedsImprovement: s.Distribution.NeedsImprovement,
			Poor:             s.Distribution.Poor,
		},
		Vitals:       toVitalsMap(s.Vitals),
		PathCount:    s.PathCount,
		SessionCount: s.SessionCount,
		TimeRange: timeRangeResponse{
			From: s.Range.From.UnixMilli(),
			To:   s.Range.To.UnixMilli(),
		},
	}
}

func toPageResponse(p vitals.PageVitals) pageResponse {
	return pageResponse{
		Path:        p.Path,
		Title:       p.Title,
		Loads:       p.Loads,
		Score:       p.Score,
		Opportunity: p.Opportunity,
		Vitals:      toVitalsMap(p.Vitals),
	}
}
