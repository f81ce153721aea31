package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/seid21/topia-estate-be/internal/auth"
	"github.com/seid21/topia-estate-be/internal/models"
	"github.com/seid21/topia-estate-be/internal/services"
)

// PropertyHandler handles HTTP requests for property listings.
type PropertyHandler struct {
	service services.PropertyServiceProvider
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(service services.PropertyServiceProvider) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// CreatePropertyPayload defines the structure for listing creation requests.
// The image reference is an opaque URL produced by the upload frontend.
type CreatePropertyPayload struct {
	Type        string `json:"type" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Size        string `json:"size" validate:"required"`
	MinPrice    int64  `json:"minPrice" validate:"gte=0"`
	MaxPrice    int64  `json:"maxPrice" validate:"gte=0"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
}

// Create posts a new listing for the authenticated seller.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
		return
	}
	if claims.Role != models.RoleSeller && claims.Role != models.RoleAdmin {
		respondJSON(w, http.StatusForbidden, map[string]string{"error": "only sellers can post listings"})
		return
	}

	var payload CreatePropertyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	property, err := h.service.CreateProperty(r.Context(), models.Property{
		SellerID:    claims.UserID,
		Type:        payload.Type,
		Title:       payload.Title,
		Location:    payload.Location,
		Size:        payload.Size,
		MinPrice:    payload.MinPrice,
		MaxPrice:    payload.MaxPrice,
		Description: payload.Description,
		ImageURL:    payload.ImageURL,
	})
	if err != nil {
		log.Warn().Err(err).Str("seller_id", claims.UserID).Msg("Failed to create property")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, property)
}

// GetAll lists properties with filtering, sorting and pagination from query
// parameters.
func (h *PropertyHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.PropertyFilter{
		Location: q.Get("location"),
		Type:     q.Get("type"),
		Size:     q.Get("size"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	}
	if v := q.Get("minPrice"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.MinPrice = &n
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.MaxPrice = &n
		}
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	properties, err := h.service.ListProperties(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list properties")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, properties)
}

// Get retrieves a single listing.
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	property, err := h.service.GetPropertyByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, property)
}

// Delete removes a listing. Only its seller or an admin may delete it.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
		return
	}

	id := chi.URLParam(r, "id")
	property, err := h.service.GetPropertyByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if property.SellerID != claims.UserID && claims.Role != models.RoleAdmin {
		respondJSON(w, http.StatusForbidden, map[string]string{"error": "not the owner of this listing"})
		return
	}

	if err := h.service.DeleteProperty(r.Context(), id); err != nil {
		log.Error().Err(err).Str("property_id", id).Msg("Failed to delete property")
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
