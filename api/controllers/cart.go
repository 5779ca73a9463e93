package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type addItemRequest struct {
	ItemID   string          `json:"item_id" validate:"required,max=64"`
	Quantity json.RawMessage `json:"quantity"`
	Featured bool            `json:"featured"`
}

type updateItemRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

// CartFetch returns the current cart and reports view_cart when it has lines.
func CartFetch(svc storefront.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := middleware.SessionIDFromContext(r.Context())
		responses.WriteSuccess(w, newCartView(svc.Cart(r.Context(), scope)))
	}
}

func CartAddItem(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scope := middleware.SessionIDFromContext(r.Context())
		view, err := svc.AddToCart(r.Context(), scope, storefront.AddInput{
			ItemID:   validators.SanitizeString(payload.ItemID, 64),
			Quantity: validators.ParseQuantity(payload.Quantity),
			Featured: payload.Featured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(view))
	}
}

func CartUpdateItem(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateItemRequest
		if err := decodeOptionalBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		scope := middleware.SessionIDFromContext(r.Context())
		view, err := svc.UpdateQuantity(r.Context(), scope, chi.URLParam(r, "id"), validators.ParseQuantity(payload.Quantity))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(view))
	}
}

func CartRemoveItem(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := middleware.SessionIDFromContext(r.Context())
		view, err := svc.RemoveFromCart(r.Context(), scope, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(view))
	}
}
