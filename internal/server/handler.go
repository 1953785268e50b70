package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/store-recommender/internal/catalog"
	"github.com/sells-group/store-recommender/internal/recommend"
)

// Handler serves the recommendation endpoints.
type Handler struct{ svc Recommender }

// NewHandler creates a Handler.
func NewHandler(svc Recommender) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the API on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stores", h.listStores)
		r.Post("/recommend", h.recommend)
		r.Post("/recommend/heatmap", h.heatmap)
	})
}

type recommendRequest struct {
	MinPrice *decimal.Decimal `json:"min_price"`
	MaxPrice *decimal.Decimal `json:"max_price"`
	Address  string           `json:"address"`
	Colors   []string         `json:"colors"`
	Types    []string         `json:"types"`
	Brands   []string         `json:"brands"`
	Gender   string           `json:"gender"`
	Priority *int             `json:"priority"`
}

// query fills omitted fields with the defaults.
func (req recommendRequest) query() recommend.Query {
	q := recommend.NewQuery(req.Address)
	if req.MinPrice != nil {
		q.MinPrice = *req.MinPrice
	}
	if req.MaxPrice != nil {
		q.MaxPrice = *req.MaxPrice
	}
	if req.Priority != nil {
		q.Priority = *req.Priority
	}
	q.Colors = req.Colors
	q.Types = req.Types
	q.Brands = req.Brands
	q.Gender = req.Gender
	return q
}

type storeSummary struct {
	Name     string             `json:"name"`
	Address  string             `json:"address,omitempty"`
	Location catalog.Coordinate `json:"location"`
	Products int                `json:"products"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	c := h.svc.Catalog()
	respond(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"stores":   c.NumStores(),
		"products": c.NumProducts(),
	})
}

func (h *Handler) listStores(w http.ResponseWriter, _ *http.Request) {
	c := h.svc.Catalog()
	inv := catalog.Inventory(c.Stores(), c.Products())
	out := make([]storeSummary, len(inv))
	for i, sc := range inv {
		out[i] = storeSummary{
			Name:     sc.Store.Name,
			Address:  sc.Store.Address,
			Location: sc.Store.Location,
			Products: sc.Count,
		}
	}
	respond(w, http.StatusOK, out)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	out, ok := h.run(w, r)
	if !ok {
		return
	}
	w.Header().Set("X-Recommend-Status", string(out.Status))
	respond(w, http.StatusOK, out)
}

func (h *Handler) heatmap(w http.ResponseWriter, r *http.Request) {
	out, ok := h.run(w, r)
	if !ok {
		return
	}
	data, err := out.GeoJSON()
	if err != nil {
		zap.L().Error("server: render heatmap", zap.String("query_id", out.ID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "processing error")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("X-Recommend-Status", string(out.Status))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// run decodes, validates and executes a query, writing the error response
// itself when it returns false.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) (*recommend.Outcome, bool) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	q := req.query()
	if err := h.svc.Validate(q); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return nil, false
	}

	out, err := h.svc.Recommend(r.Context(), q)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidPriority) {
			respondError(w, http.StatusBadRequest, validationMessage(err))
			return nil, false
		}
		zap.L().Error("server: recommend failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "processing error")
		return nil, false
	}
	return out, true
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, recommend.ErrAddressTooShort):
		return "please enter a detailed address"
	case errors.Is(err, recommend.ErrInvalidPriority):
		return "priority must be between 0 and 100"
	default:
		return "invalid request"
	}
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}
