package transport

import (
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the shopper login payload
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountProfile is an account without its password
type AccountProfile struct {
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	Account     AccountProfile `json:"account"`
}

func toProfile(account *domain.CustomerAccount) AccountProfile {
	return AccountProfile{
		Phone:     account.Phone,
		Name:      account.Name,
		Address:   account.Address,
		CreatedAt: account.CreatedAt,
	}
}

// AccountHandler handles shopper registration, login and order history
type AccountHandler struct {
	accounts    service.AccountService
	fulfillment service.FulfillmentService
	logger      *zap.Logger
}

func NewAccountHandler(accounts service.AccountService, fulfillment service.FulfillmentService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, fulfillment: fulfillment, logger: logger}
}

func (h *AccountHandler) RegisterRoutes(r chi.Router, guards Guards) {
	guards = guards.withDefaults()

	r.Route("/api/accounts", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.With(guards.LoginRate).Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(guards.Customer)
			r.Get("/me/orders", h.History)
			r.Post("/me/orders/{id}/reorder", h.Reorder)
		})
	})
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !decode(w, r, h.logger, &req) {
		return
	}

	account, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to register account")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, toProfile(account))
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	token, account, err := h.accounts.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to login")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{AccessToken: token, Account: toProfile(account)})
}

// History lists the caller's pending and completed orders, newest first
func (h *AccountHandler) History(w http.ResponseWriter, r *http.Request) {
	phone, ok := middleware.GetSubject(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	history, err := h.fulfillment.CustomerHistory(r.Context(), phone)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to load order history")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toPublicOrders(history))
}

// Reorder merges one of the caller's orders into the cart
func (h *AccountHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	phone, ok := middleware.GetSubject(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	history, err := h.fulfillment.CustomerHistory(r.Context(), phone)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to load order history")
		return
	}

	orderID := chi.URLParam(r, "id")
	var order *domain.Order
	for _, o := range history {
		if o.ID == orderID {
			order = o
			break
		}
	}
	if order == nil {
		respondServiceError(w, h.logger, repository.ErrOrderNotFound, "failed to reorder")
		return
	}

	result, err := h.fulfillment.Reorder(r.Context(), order)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to reorder")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toPublicReorder(result))
}
