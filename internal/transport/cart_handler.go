package transport

import (
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddItemRequest adds one unit of a product to the cart
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// QuantityRequest shifts a cart line's quantity
type QuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// ReplaceCartRequest carries full cart line snapshots
type ReplaceCartRequest struct {
	Items []domain.CartItem `json:"items"`
}

// CheckoutLine is one requested product and quantity
type CheckoutLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// CheckoutRequest checks out Items and leaves the stored cart as it is. With
// no Items the stored cart is checked out and emptied.
type CheckoutRequest struct {
	Customer domain.CustomerInfo `json:"customer"`
	Items    []CheckoutLine      `json:"items" validate:"omitempty,dive"`
}

// CheckoutResponse returns the order and the message to send the shop
type CheckoutResponse struct {
	Order   PublicOrder          `json:"order"`
	Message service.OrderMessage `json:"message"`
}

// CartHandler serves the shopper's cart and checkout
type CartHandler struct {
	cart        service.CartService
	fulfillment service.FulfillmentService
	shopPhone   string
	logger      *zap.Logger
}

func NewCartHandler(cart service.CartService, fulfillment service.FulfillmentService, shopPhone string, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, fulfillment: fulfillment, shopPhone: shopPhone, logger: logger}
}

func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Put("/", h.ReplaceCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{productID}", h.UpdateQuantity)
		r.Delete("/items/{productID}", h.RemoveItem)
	})
	r.Post("/api/checkout", h.Checkout)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.cart.GetCart(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toPublicItems(items))
}

// ReplaceCart stores the posted lines verbatim
func (h *CartHandler) ReplaceCart(w http.ResponseWriter, r *http.Request) {
	var req ReplaceCartRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	if req.Items == nil {
		req.Items = []domain.CartItem{}
	}

	if err := h.cart.ReplaceCart(r.Context(), req.Items); err != nil {
		respondServiceError(w, h.logger, err, "failed to save cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toPublicItems(req.Items))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context()); err != nil {
		respondServiceError(w, h.logger, err, "failed to clear cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	items, err := h.cart.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to add to cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toPublicItems(items))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	items, err := h.cart.UpdateQuantity(r.Context(), chi.URLParam(r, "productID"), req.Delta)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toPublicItems(items))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	items, err := h.cart.RemoveFromCart(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toPublicItems(items))
}

// Checkout places an order and returns it with the shop chat message
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	var (
		order *domain.Order
		err   error
	)
	if len(req.Items) == 0 {
		order, err = h.fulfillment.CheckoutCart(r.Context(), req.Customer)
	} else {
		items := make([]domain.CartItem, 0, len(req.Items))
		for _, l := range req.Items {
			items = append(items, domain.CartItem{Product: domain.Product{ID: l.ProductID}, Quantity: l.Quantity})
		}
		order, err = h.fulfillment.Checkout(r.Context(), items, req.Customer)
	}
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to checkout")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		Order:   toPublicOrder(order),
		Message: service.ComposeOrderMessage(order, h.shopPhone, time.Local),
	})
}
