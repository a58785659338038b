package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminLoginRequest represents the back-office login payload
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest re-authenticates with the current password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// RecoverRequest carries the recovery key
type RecoverRequest struct {
	Key string `json:"key" validate:"required"`
}

// TokenResponse carries a freshly issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// AdminHandler handles back-office sign in and the order desk
type AdminHandler struct {
	admin       service.AdminService
	fulfillment service.FulfillmentService
	logger      *zap.Logger
}

func NewAdminHandler(admin service.AdminService, fulfillment service.FulfillmentService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, fulfillment: fulfillment, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router, guards Guards) {
	guards = guards.withDefaults()

	r.Route("/api/admin", func(r chi.Router) {
		r.With(guards.LoginRate).Post("/login", h.Login)
		r.With(guards.LoginRate).Post("/recover", h.Recover)

		r.Group(func(r chi.Router) {
			r.Use(guards.Admin)
			r.Post("/password", h.ChangePassword)
			r.Get("/orders", h.ListOrders)
			r.Post("/orders/{id}/confirm", h.ConfirmOrder)
			r.Post("/orders/{id}/cancel", h.CancelOrder)
			r.Get("/customers", h.ListCustomers)
		})
	})
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	token, err := h.admin.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to login")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, TokenResponse{AccessToken: token})
}

func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	username, _ := middleware.GetSubject(r.Context())
	err := h.admin.ChangePassword(r.Context(), username, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to change password")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req RecoverRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	if err := h.admin.Recover(r.Context(), req.Key); err != nil {
		respondServiceError(w, h.logger, err, "failed to recover credential")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListOrders returns the pending ledger, newest first
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.fulfillment.ListPendingOrders(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ConfirmOrder answers 204 even for unknown ids
func (h *AdminHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.fulfillment.Confirm(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, h.logger, err, "failed to confirm order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CancelOrder answers 204 even for unknown ids
func (h *AdminHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.fulfillment.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, h.logger, err, "failed to cancel order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.fulfillment.ListCustomers(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list customers")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, customers)
}
