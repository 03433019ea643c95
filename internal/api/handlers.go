// Package api exposes the HTTP handlers for the claim service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/solrecover/claim-api/internal/domain"
)

const (
	defaultActivityLimit = 12
	// maxActivityLimit caps caller-supplied limits so a single request
	// cannot pull the whole collection.
	maxActivityLimit = 100

	solscanTxURL = "https://solscan.io/tx/"
)

// Diagnostics carries the environment facts reported by GET /test.
type Diagnostics struct {
	DatabaseURLSet bool
	DatabaseName   string
}

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	store   domain.Store
	diag    Diagnostics
}

// NewHandler builds a Handler. The store is only used by the diagnostics
// endpoint; everything else goes through the service.
func NewHandler(service *domain.Service, store domain.Store, diag Diagnostics) *Handler {
	return &Handler{service: service, store: store, diag: diag}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.root)
	mux.HandleFunc("/test", h.diagnostics)
	mux.HandleFunc("/api/metrics", h.getMetrics)
	mux.HandleFunc("/api/activity", h.getActivity)
	mux.HandleFunc("/api/claims", h.createClaim)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "no such route")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Solana Claim API running"})
}

func (h *Handler) getMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	metric, err := h.service.Metrics(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrMetricsNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "metrics not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MetricsResponse{
		TotalSOLRecovered:    metric.TotalSOLRecovered,
		TotalAccountsClaimed: metric.TotalAccountsClaimed,
		UpdatedAt:            metric.UpdatedAt,
	})
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	activities, err := h.service.RecentActivity(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]ActivityView, 0, len(activities))
	for _, activity := range activities {
		items = append(items, toActivityView(activity))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req CreateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	claimID, err := h.service.CreateClaim(r.Context(), domain.CreateClaimInput{
		Wallet:         req.Wallet,
		Accounts:       req.Accounts,
		TotalAmountSOL: req.TotalAmountSOL,
		FeePercent:     req.FeePercent,
	})
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "document store unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "persistence_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CreateClaimResponse{ClaimID: claimID, OK: true})
}

// diagnostics reports human-readable status strings. Responses here are
// informational only and never carry an error status code.
func (h *Handler) diagnostics(w http.ResponseWriter, r *http.Request) {
	resp := DiagnosticsResponse{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		DatabaseURL:      "❌ Not Set",
		DatabaseName:     "❌ Not Set",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if h.diag.DatabaseURLSet {
		resp.DatabaseURL = "✅ Set"
	}
	if h.diag.DatabaseName != "" {
		resp.DatabaseName = h.diag.DatabaseName
	}

	if err := h.store.Ping(r.Context()); err == nil {
		resp.Database = "✅ Available"
		resp.ConnectionStatus = "Connected"

		if names, err := h.store.Collections(r.Context()); err != nil {
			resp.Database = "⚠️ Connected but Error: " + truncate(err.Error(), 80)
		} else {
			if len(names) > 10 {
				names = names[:10]
			}
			resp.Collections = names
			resp.Database = "✅ Connected & Working"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// CreateClaimRequest is the payload for POST /api/claims.
type CreateClaimRequest struct {
	Wallet         string   `json:"wallet"`
	Accounts       []string `json:"accounts"`
	TotalAmountSOL float64  `json:"total_amount_sol"`
	FeePercent     float64  `json:"fee_percent"`
}

// Validate enforces the numeric range constraints. Wallet and account
// addresses are accepted as opaque strings.
func (r CreateClaimRequest) Validate() error {
	if r.TotalAmountSOL < 0 {
		return errors.New("total_amount_sol must be >= 0")
	}
	if r.FeePercent < 0 || r.FeePercent > 100 {
		return errors.New("fee_percent must be between 0 and 100")
	}
	return nil
}

// CreateClaimResponse describes the response body for claim creation.
type CreateClaimResponse struct {
	ClaimID string `json:"claim_id"`
	OK      bool   `json:"ok"`
}

// MetricsResponse exposes the aggregate totals.
type MetricsResponse struct {
	TotalSOLRecovered    float64   `json:"total_sol_recovered"`
	TotalAccountsClaimed int64     `json:"total_accounts_claimed"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ActivityView is a single public feed entry.
type ActivityView struct {
	Wallet      string    `json:"wallet"`
	TxSignature string    `json:"tx_signature"`
	AmountSOL   float64   `json:"amount_sol"`
	Timestamp   time.Time `json:"timestamp"`
	SolscanURL  string    `json:"solscan_url"`
}

// DiagnosticsResponse mirrors the legacy status payload of GET /test.
type DiagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

func toActivityView(activity domain.Activity) ActivityView {
	ts := activity.Timestamp
	if ts.IsZero() {
		ts = activity.CreatedAt
	}
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return ActivityView{
		Wallet:      activity.Wallet,
		TxSignature: activity.TxSignature,
		AmountSOL:   activity.AmountSOL,
		Timestamp:   ts,
		SolscanURL:  solscanTxURL + activity.TxSignature,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
