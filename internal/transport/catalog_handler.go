package transport

import (
	"net/http"
	"net/url"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryRequest represents the add-category payload
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CatalogHandler serves the storefront catalog and its back-office editing
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers public catalog reads and admin-only writes
func (h *CatalogHandler) RegisterRoutes(r chi.Router, guards Guards) {
	guards = guards.withDefaults()

	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{id}", h.GetProduct)
	r.Get("/api/categories", h.ListCategories)

	r.Route("/api/admin/catalog", func(r chi.Router) {
		r.Use(guards.Admin)
		r.Get("/products", h.ListInventory)
		r.Post("/products", h.AddProduct)
		r.Patch("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
		r.Post("/categories", h.AddCategory)
		r.Delete("/categories/{name}", h.DeleteCategory)
	})
}

// ListProducts supports ?q= and ?category= filters
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	products, err := h.catalog.SearchProducts(r.Context(), query.Get("q"), query.Get("category"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toPublicProducts(products))
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toPublicProduct(*product))
}

// ListInventory returns full products, cost prices included, for the back office
func (h *CatalogHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductInput
	if !decode(w, r, h.logger, &req) {
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to add product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct answers 204 whether or not the product exists
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductPatch
	if !decode(w, r, h.logger, &req) {
		return
	}

	if err := h.catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		respondServiceError(w, h.logger, err, "failed to update product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	if err := h.catalog.AddCategory(r.Context(), req.Name); err != nil {
		respondServiceError(w, h.logger, err, "failed to add category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, req)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category name")
		return
	}

	if err := h.catalog.DeleteCategory(r.Context(), name); err != nil {
		respondServiceError(w, h.logger, err, "failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
