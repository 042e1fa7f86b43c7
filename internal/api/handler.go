package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eugenenazirov/molding-cutter/internal/cutting"
	"github.com/eugenenazirov/molding-cutter/internal/export"
	"github.com/eugenenazirov/molding-cutter/internal/metrics"
	"github.com/eugenenazirov/molding-cutter/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const maxPiecesPerRequest = 10_000

// Handler wires planner and storage dependencies into HTTP handlers.
type Handler struct {
	planner cutting.Planner
	storage storage.Storage
	metrics *metrics.Metrics

	clock func() time.Time
	newID func() string

	mu                   sync.RWMutex
	stockLengthUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithIDGenerator overrides how plan IDs are generated, primarily for tests.
func WithIDGenerator(newID func() string) HandlerOption {
	return func(h *Handler) {
		h.newID = newID
	}
}

// WithMetrics records planner outcomes in m.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(planner cutting.Planner, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		planner: planner,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		newID: func() string {
			return uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.stockLengthUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetStockLength(w http.ResponseWriter, r *http.Request) {
	_ = r
	length, err := h.storage.GetStockLength()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := stockLengthResponse{
		StockLength: length,
		UpdatedAt:   h.currentStockLengthUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutStockLength(w http.ResponseWriter, r *http.Request) {
	var req stockLengthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.storage.SetStockLength(req.StockLength); err != nil {
		if errors.Is(err, storage.ErrInvalidStockLength) {
			writeError(w, http.StatusBadRequest, "Invalid stock length", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markStockLengthUpdated()

	resp := stockLengthResponse{
		StockLength: req.StockLength,
		UpdatedAt:   h.currentStockLengthUpdatedAt(),
		Message:     "Stock length updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCreateCutList(w http.ResponseWriter, r *http.Request) {
	var req cutListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Pieces) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "pieces must contain at least one length")
		return
	}
	if len(req.Pieces) > maxPiecesPerRequest {
		writeError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("at most %d pieces are accepted per request", maxPiecesPerRequest))
		return
	}

	stockLength, err := h.storage.GetStockLength()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if req.StockLength != nil {
		stockLength = *req.StockLength
	}

	start := time.Now()
	plan, planErr := h.planner.Plan(cutting.Request{
		StockLength:   stockLength,
		Pieces:        req.Pieces,
		PreserveOrder: req.PreserveOrder,
	})
	elapsed := time.Since(start)

	if planErr != nil {
		switch {
		case errors.Is(planErr, cutting.ErrInvalidFixedLength):
			h.metrics.ObserveFailure("invalid_stock_length")
			writeError(w, http.StatusBadRequest, "Invalid stock length", planErr.Error())
		case errors.Is(planErr, cutting.ErrInvalidLength):
			h.metrics.ObserveFailure("invalid_length")
			writeError(w, http.StatusUnprocessableEntity, "Cannot plan cut list", planErr.Error())
		case errors.Is(planErr, cutting.ErrLengthOverflow):
			h.metrics.ObserveFailure("overflow")
			writeError(w, http.StatusUnprocessableEntity, "Cannot plan cut list", planErr.Error())
		case errors.Is(planErr, cutting.ErrTooManyStockUnits):
			h.metrics.ObserveFailure("too_many_stock_units")
			suggestion := fmt.Sprintf("Split the list or use stock longer than %d", stockLength)
			writeError(w, http.StatusUnprocessableEntity, "Cannot plan cut list", planErr.Error(), suggestion)
		default:
			h.metrics.ObserveFailure("internal")
			writeInternalError(w, planErr)
		}
		return
	}
	h.metrics.ObservePlan(plan, len(req.Pieces))

	record := storage.Record{
		ID:        h.newID(),
		CreatedAt: h.clock(),
		Plan:      plan,
	}
	if err := h.storage.SavePlan(record); err != nil {
		writeInternalError(w, err)
		return
	}

	resp := newCutListResponse(record)
	resp.CalculationTimeMs = elapsed.Milliseconds()
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetCutList(w http.ResponseWriter, r *http.Request) {
	record, ok := h.lookupPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newCutListResponse(record))
}

func (h *Handler) handleExportCutList(w http.ResponseWriter, r *http.Request) {
	record, ok := h.lookupPlan(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "text"
	}

	var (
		render      func(io.Writer, cutting.Plan) error
		contentType string
		extension   string
	)
	switch format {
	case "text":
		render, contentType, extension = export.WriteText, "text/plain; charset=utf-8", "txt"
	case "pdf":
		render, contentType, extension = export.WritePDF, "application/pdf", "pdf"
	case "xlsx":
		render, contentType, extension = export.WriteXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	default:
		writeError(w, http.StatusBadRequest, "Invalid format", "format must be one of text, pdf, xlsx")
		return
	}

	// render fully before writing headers so failures still produce a JSON error
	var buf bytes.Buffer
	if err := render(&buf, record.Plan); err != nil {
		if errors.Is(err, export.ErrEmptyPlan) {
			writeError(w, http.StatusUnprocessableEntity, "Nothing to export", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cut-list-"+record.ID+"."+extension))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) lookupPlan(w http.ResponseWriter, r *http.Request) (storage.Record, bool) {
	id := r.PathValue("id")
	record, err := h.storage.GetPlan(id)
	if err != nil {
		if errors.Is(err, storage.ErrPlanNotFound) {
			writeError(w, http.StatusNotFound, "Not found", fmt.Sprintf("no cut list with id %q", id))
			return storage.Record{}, false
		}
		writeInternalError(w, err)
		return storage.Record{}, false
	}
	return record, true
}

func (h *Handler) currentStockLengthUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stockLengthUpdatedAt
}

func (h *Handler) markStockLengthUpdated() {
	h.mu.Lock()
	h.stockLengthUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type stockLengthRequest struct {
	StockLength uint `json:"stockLength"`
}

type cutListRequest struct {
	Pieces        []uint `json:"pieces"`
	StockLength   *uint  `json:"stockLength,omitempty"`
	PreserveOrder bool   `json:"preserveOrder"`
}

type binResponse struct {
	Index     int    `json:"index"`
	Capacity  uint   `json:"capacity"`
	Pieces    []uint `json:"pieces"`
	Used      uint   `json:"used"`
	Remaining uint   `json:"remaining"`
}

type cutListResponse struct {
	ID                string        `json:"id"`
	CreatedAt         time.Time     `json:"createdAt"`
	StockLength       uint          `json:"stockLength"`
	StockCount        int           `json:"stockCount"`
	Bins              []binResponse `json:"bins"`
	TotalRequested    uint          `json:"totalRequested"`
	TotalWaste        uint          `json:"totalWaste"`
	Utilization       float64       `json:"utilization"`
	CalculationTimeMs int64         `json:"calculationTimeMs"`
}

func newCutListResponse(record storage.Record) cutListResponse {
	plan := record.Plan
	bins := make([]binResponse, 0, len(plan.Bins))
	for i, bin := range plan.Bins {
		bins = append(bins, binResponse{
			Index:     i + 1,
			Capacity:  bin.Capacity,
			Pieces:    bin.Pieces,
			Used:      bin.Capacity - bin.Remaining,
			Remaining: bin.Remaining,
		})
	}
	return cutListResponse{
		ID:             record.ID,
		CreatedAt:      record.CreatedAt,
		StockLength:    plan.StockLength,
		StockCount:     plan.StockCount(),
		Bins:           bins,
		TotalRequested: plan.TotalRequested,
		TotalWaste:     plan.TotalWaste,
		Utilization:    plan.Utilization(),
	}
}

type stockLengthResponse struct {
	StockLength uint      `json:"stockLength"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Message     string    `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
