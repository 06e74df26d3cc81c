package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/quantity"
	"github.com/fjod/go_cart/storefront/internal/store"
	"github.com/fjod/go_cart/storefront/internal/summary"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	store    *store.Store
	catalog  catalog.Catalog
	cooldown *Cooldown
	log      logrus.FieldLogger
}

func NewCartHandler(s *store.Store, c catalog.Catalog, cooldown *Cooldown, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		store:    s,
		catalog:  c,
		cooldown: cooldown,
		log:      log,
	}
}

// AddItemRequestDTO accepts quantity as a number or as raw input text.
type AddItemRequestDTO struct {
	ProductID int64       `json:"product_id"`
	Quantity  interface{} `json:"quantity,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int    `json:"quantity,omitempty"`
	Input    *string `json:"input,omitempty"`
}

type CartItemResponse struct {
	domain.CartLineItem
	LineTotal string `json:"line_total"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Summary   summary.View       `json:"summary"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	// only adds of products that exist start a cooldown
	if !h.cooldown.Allow(product.ID) {
		respondError(w, http.StatusTooManyRequests, "cooldown", "product was just added, try again shortly")
		return
	}

	qty := store.DefaultQuantity
	if req.Quantity != nil {
		qty = quantity.NewControl(nil).Clamp(rawQuantity(req.Quantity))
	}

	if err := h.store.AddToCart(r.Context(), product, qty); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.cartResponse())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var qty int
	switch {
	case req.Input != nil:
		qty = quantity.NewControl(nil).Clamp(*req.Input)
	case req.Quantity != nil:
		qty = *req.Quantity
	default:
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity or input is required")
		return
	}

	if err := h.store.UpdateQuantity(r.Context(), productID, qty); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(c quantity.Control, current int) { c.Increment(current) })
}

func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(c quantity.Control, current int) { c.Decrement(current) })
}

// step drives the quantity control for one line item; the control decides
// whether the change is accepted.
func (h *CartHandler) step(w http.ResponseWriter, r *http.Request, press func(quantity.Control, int)) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	found, err := h.store.AdjustQuantity(r.Context(), productID, func(current int) int {
		next := current
		press(quantity.NewControl(func(v int) { next = v }), current)
		return next
	})
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "item_not_found", "product is not in the cart")
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.store.RemoveFromCart(r.Context(), productID); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearCart(r.Context()); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse())
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotImplemented, "not_implemented", "checkout is not available")
}

func (h *CartHandler) cartResponse() CartResponse {
	items := h.store.Items()
	resp := CartResponse{
		Items:     make([]CartItemResponse, len(items)),
		ItemCount: domain.TotalQuantity(items),
		Summary:   summary.Calculate(items).View(),
	}
	for i, item := range items {
		resp.Items[i] = CartItemResponse{
			CartLineItem: item,
			LineTotal:    summary.LineTotal(item),
		}
	}
	return resp
}

func (h *CartHandler) handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context(), h.log).WithError(err).Error("cart mutation not persisted")
	respondError(w, http.StatusInternalServerError, "persist_failed", "cart could not be saved")
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func rawQuantity(v interface{}) string {
	switch q := v.(type) {
	case float64:
		if math.IsNaN(q) || math.IsInf(q, 0) {
			return ""
		}
		return strconv.FormatFloat(math.Trunc(q), 'f', 0, 64)
	case string:
		return q
	default:
		return ""
	}
}
