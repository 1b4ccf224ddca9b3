package plan

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pantryclub/mealplan/internal/catalog"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

// Handler handles HTTP requests for the meal-plan ledger, leftover
// accounting and the weekly shopping list.
type Handler struct {
	ledger *Ledger
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

type HandlerDeps struct {
	Ledger *Ledger
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		ledger: hd.Ledger,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/mealplans", func(r chi.Router) {
		r.Post("/", h.PlanMeal)
		r.Get("/week", h.GetWeek)
		r.Get("/shopping-list", h.GetWeekShoppingList)
		r.Get("/leftovers", h.GetLeftoverSources)
		r.Get("/dish/{id}", h.ListMealsForDish)
		r.Get("/{id}", h.GetMeal)
		r.Put("/{id}", h.UpdateMeal)
		r.Delete("/{id}", h.RemoveMeal)
		r.Patch("/{id}/eat", h.EatMeal)
		r.Patch("/{id}/skip", h.SkipMeal)
		r.Get("/{id}/available", h.GetAvailableLeftovers)
		r.Post("/{id}/void", h.VoidLeftovers)
	})
}

// PlanMeal handles POST /mealplans
func (h *Handler) PlanMeal(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PlanMeal")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var in PlanMealInput
	if !h.decodePayload(w, r, &in, log) {
		return
	}

	if validationErrors := ValidatePlanMeal(in); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	entry, err := h.ledger.PlanMeal(ctx, in)
	if err != nil {
		h.respondLedgerError(w, log, err, "Could not plan meal")
		return
	}

	links := apt.RESTfulLinksFor(entry)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, entry, links...)
}

// GetMeal handles GET /mealplans/{id}
func (h *Handler) GetMeal(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMeal")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	entry, err := h.ledger.GetMeal(ctx, id)
	if err != nil {
		h.respondLedgerError(w, log, err, "Could not load meal")
		return
	}

	links := apt.RESTfulLinksFor(entry)
	apt.RespondSuccess(w, entry, links...)
}

// GetWeek handles GET /mealplans/week
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetWeek")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	householdID, ok := h.parseHouseholdParam(w, r, log)
	if !ok {
		return
	}
	startDay, ok := h.parseStartParam(w, r, log)
	if !ok {
		return
	}

	week, err := h.ledger.GetWeek(ctx, householdID, startDay)
	if err != nil {
		log.Error("cannot load week", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load week")
		return
	}

	apt.RespondCollection(w, week, "mealplans/week")
}

// EatMeal handles PATCH /mealplans/{id}/eat
func (h *Handler) EatMeal(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.EatMeal")
	defer finish()
	h.markMeal(w, r, StatusEaten)
}

// SkipMeal handles PATCH /mealplans/{id}/skip
func (h *Handler) SkipMeal(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SkipMeal")
	defer finish()
	h.markMeal(w, r, StatusSkipped)
}

func (h *Handler) markMeal(w http.ResponseWriter, r *http.Request, status Status) {
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var entry *Entry
	var err error
	if status == StatusEaten {
		entry, err = h.ledger.MarkEaten(ctx, id)
	} else {
		entry, err = h.ledger.MarkSkipped(ctx, id)
	}
	if err != nil {
		h.respondLedgerError(w, log, err, "Could not update meal status")
		return
	}

	links := apt.RESTfulLinksFor(entry)
	apt.RespondSuccess(w, entry, links...)
}

// UpdateMeal handles PUT /mealplans/{id}
func (h *Handler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateMeal")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var in UpdateMealInput
	if !h.decodePayload(w, r, &in, log) {
		return
	}

	if validationErrors := ValidateUpdateMeal(in); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	entry, err := h.ledger.UpdateMeal(ctx, id, in)
	if err != nil {
		h.respondLedgerError(w, log, err, "Could not update meal")
		return
	}

	links := apt.RESTfulLinksFor(entry)
	apt.RespondSuccess(w, entry, links...)
}

// RemoveMeal handles DELETE /mealplans/{id}
func (h *Handler) RemoveMeal(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveMeal")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.ledger.RemoveMeal(ctx, id); err != nil {
		h.respondLedgerError(w, log, err, "Could not remove meal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAvailableLeftovers handles GET /mealplans/{id}/available
func (h *Handler) GetAvailableLeftovers(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetAvailableLeftovers")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	available, err := h.ledger.AvailableServings(ctx, id)
	if err != nil {
		log.Error("cannot compute available servings", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not compute available servings")
		return
	}

	apt.RespondSuccess(w, map[string]float64{"available": available})
}

// GetLeftoverSources handles GET /mealplans/leftovers
func (h *Handler) GetLeftoverSources(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetLeftoverSources")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	householdID, ok := h.parseHouseholdParam(w, r, log)
	if !ok {
		return
	}

	sources, err := h.ledger.LeftoverSources(ctx, householdID)
	if err != nil {
		log.Error("cannot list leftover sources", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list leftover sources")
		return
	}

	apt.RespondCollection(w, sources, "mealplans/leftovers")
}

// ListMealsForDish handles GET /mealplans/dish/{id}
func (h *Handler) ListMealsForDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMealsForDish")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	householdID, ok := h.parseHouseholdParam(w, r, log)
	if !ok {
		return
	}
	dishID, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	entries, err := h.ledger.MealsForDish(ctx, householdID, dishID)
	if err != nil {
		log.Error("cannot list meals for dish", "error", err, "dish_id", dishID.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not list meals for dish")
		return
	}

	apt.RespondCollection(w, entries, "mealplans/dish")
}

// VoidLeftovers handles POST /mealplans/{id}/void
func (h *Handler) VoidLeftovers(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.VoidLeftovers")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	entry, err := h.ledger.VoidLeftovers(ctx, id)
	if err != nil {
		log.Error("cannot void leftovers", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not void leftovers")
		return
	}

	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	links := apt.RESTfulLinksFor(entry)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, entry, links...)
}

// CategoryGroup is one display bucket of the shopping list. The empty
// category is labelled "Other" here, at the presentation boundary.
type CategoryGroup struct {
	Category string         `json:"category"`
	Label    string         `json:"label"`
	Items    []ShoppingItem `json:"items"`
}

// GetWeekShoppingList handles GET /mealplans/shopping-list
func (h *Handler) GetWeekShoppingList(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetWeekShoppingList")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	householdID, ok := h.parseHouseholdParam(w, r, log)
	if !ok {
		return
	}
	startDay, ok := h.parseStartParam(w, r, log)
	if !ok {
		return
	}

	list, err := h.ledger.WeekShoppingList(ctx, householdID, startDay)
	if err != nil {
		log.Error("cannot build shopping list", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not build shopping list")
		return
	}

	groups := make([]CategoryGroup, 0, len(list.Groups))
	for _, cat := range list.DisplayCategories() {
		label := cat
		if label == "" {
			label = "Other"
		}
		groups = append(groups, CategoryGroup{
			Category: cat,
			Label:    label,
			Items:    list.Groups[cat],
		})
	}

	apt.RespondCollection(w, groups, "mealplans/shopping-list")
}

// Helper methods

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func (h *Handler) respondLedgerError(w http.ResponseWriter, log apt.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		apt.RespondError(w, http.StatusNotFound, "Meal plan entry not found")
	case errors.Is(err, ErrSlotTaken):
		apt.RespondError(w, http.StatusConflict, "Meal slot is already planned")
	case errors.Is(err, ErrLeftoverChain):
		apt.RespondError(w, http.StatusConflict, "Leftover source must be a non-leftover entry")
	case errors.Is(err, ErrSourceNotFound):
		apt.RespondError(w, http.StatusBadRequest, "Leftover source meal not found")
	default:
		log.Error(fallback, "error", err)
		apt.RespondError(w, http.StatusInternalServerError, fallback)
	}
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

func (h *Handler) parseStartParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (string, bool) {
	start := r.URL.Query().Get("start")
	if start == "" {
		log.Debug("missing start parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing start parameter")
		return "", false
	}

	if !ValidDayKey(start) {
		log.Debug("invalid start parameter", "start", start)
		apt.RespondError(w, http.StatusBadRequest, "Invalid start parameter")
		return "", false
	}

	return start, true
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, target interface{}, log apt.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if err := json.Unmarshal(body, target); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, errors []catalog.ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": errors,
	})
}
