package catalog

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

// Handler handles HTTP requests for the dish catalog
type Handler struct {
	repo   DishRepo
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

// NewHandler creates a new Handler for catalog operations
func NewHandler(repo DishRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for the catalog
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/catalog/dishes", func(r chi.Router) {
		r.Post("/", h.CreateDish)
		r.Get("/", h.ListDishes)
		r.Get("/search", h.SearchDishes)
		r.Get("/tags", h.ListDishesByTags)
		r.Get("/{id}", h.GetDish)
		r.Put("/{id}", h.UpdateDish)
		r.Delete("/{id}", h.DeleteDish)
	})
}

// CreateDish handles POST /catalog/dishes
func (h *Handler) CreateDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateDish")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	dish, ok := h.decodeDishPayload(w, r, log)
	if !ok {
		return
	}

	dish.EnsureID()
	dish.BeforeCreate()

	if validationErrors := ValidateCreateDish(dish); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.repo.Create(ctx, dish); err != nil {
		log.Error("cannot create dish", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create dish")
		return
	}

	links := apt.RESTfulLinksFor(dish)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, dish, links...)
}

// GetDish handles GET /catalog/dishes/{id}
func (h *Handler) GetDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDish")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	dish, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Error("error loading dish", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Dish not found")
		return
	}

	if dish == nil {
		apt.RespondError(w, http.StatusNotFound, "Dish not found")
		return
	}

	links := apt.RESTfulLinksFor(dish)
	apt.RespondSuccess(w, dish, links...)
}

// ListDishes handles GET /catalog/dishes
func (h *Handler) ListDishes(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListDishes")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	householdID, ok := h.parseHouseholdParam(w, r, log)
	if !ok {
		return
	}

	dishes, err := h.repo.List(ctx, householdID)
	if err != nil {
		log.Error("cannot list dishes", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list dishes")
		return
	}

	apt.RespondCollection(w, dishes, "catalog/dishes")
}

// SearchDishes handles GET /catalog/dishes/search
func (h *Handler) SearchDishes(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SearchDishes")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	householdID, ok := h.parseHouseholdParam(w, r, log)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		log.Debug("missing q parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing q parameter")
		return
	}

	dishes, err := h.repo.Search(ctx, householdID, query)
	if err != nil {
		log.Error("cannot search dishes", "error", err, "query", query)
		apt.RespondError(w, http.StatusInternalServerError, "Could not search dishes")
		return
	}

	apt.RespondCollection(w, dishes, "catalog/dishes")
}

// ListDishesByTags handles GET /catalog/dishes/tags
func (h *Handler) ListDishesByTags(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListDishesByTags")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	householdID, ok := h.parseHouseholdParam(w, r, log)
	if !ok {
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("tags"))
	if raw == "" {
		log.Debug("missing tags parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing tags parameter")
		return
	}

	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	dishes, err := h.repo.ListByTags(ctx, householdID, tags)
	if err != nil {
		log.Error("cannot list dishes by tags", "error", err, "tags", tags)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list dishes by tags")
		return
	}

	apt.RespondCollection(w, dishes, "catalog/dishes")
}

// UpdateDish handles PUT /catalog/dishes/{id}
func (h *Handler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateDish")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	dish, ok := h.decodeDishPayload(w, r, log)
	if !ok {
		return
	}

	dish.ID = id
	dish.BeforeUpdate()

	if validationErrors := ValidateUpdateDish(dish); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.repo.Save(ctx, dish); err != nil {
		log.Error("cannot update dish", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update dish")
		return
	}

	links := apt.RESTfulLinksFor(dish)
	apt.RespondSuccess(w, dish, links...)
}

// DeleteDish handles DELETE /catalog/dishes/{id}
// Ledger entries referencing the dish keep their reference; week and
// shopping reads degrade to a nil dish join.
func (h *Handler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteDish")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		log.Error("cannot delete dish", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete dish")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) parseHouseholdParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := r.URL.Query().Get("household")
	if idStr == "" {
		log.Debug("missing household parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing household parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid household parameter", "household", idStr, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid household parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) decodeDishPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (*Dish, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return nil, false
	}

	var dish Dish
	if err := json.Unmarshal(body, &dish); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return nil, false
	}

	return &dish, true
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": errors,
	})
}
