package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// ProductList runs the catalog query pipeline over the fetched catalog.
func ProductList(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := middleware.SessionIDFromContext(r.Context())
		page, err := svc.Products(r.Context(), scope, validators.ParseProductQuery(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productPage{
			Products:   newProductViews(page.Products),
			Categories: page.Categories,
			Total:      page.Total,
			Shown:      page.Shown,
		})
	}
}

func ProductFeatured(svc storefront.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newProductViews(svc.Featured(r.Context())))
	}
}

// ProductDetail returns one product with related products and reports view_item.
func ProductDetail(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := middleware.SessionIDFromContext(r.Context())
		detail, err := svc.Product(r.Context(), scope, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productDetail{
			Product: newProductView(detail.Product),
			Related: newProductViews(detail.Related),
		})
	}
}

type selectProductRequest struct {
	ListName string `json:"item_list_name" validate:"omitempty,max=64"`
}

func ProductSelect(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload selectProductRequest
		if err := decodeOptionalBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope := middleware.SessionIDFromContext(r.Context())
		if err := svc.SelectProduct(r.Context(), scope, chi.URLParam(r, "id"), payload.ListName); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeOptionalBody treats an empty body, chunked or not, as an empty payload.
func decodeOptionalBody(r *http.Request, dest any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := validators.DecodeJSONBody(r, dest); err != nil && !errors.Is(err, validators.ErrEmptyBody) {
		return err
	}
	return nil
}
