package handler

import (
	"net/http"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/dto"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/response"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productService service.IProductService
}

func NewProductHandler(productService service.IProductService) *ProductHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListProducts(r.Context())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewProductDTOs(products))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.GetProduct(r.Context(), chi.URLParam(r, "product_id"))
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	if !product.IsActive {
		response.ErrorJSON(w, apperr.NotFound(service.CodeProductNotFound, "product not found"))
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewProductDTO(*product))
}
