package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type shippingRequest struct {
	ShippingTier string `json:"shipping_tier" validate:"omitempty,max=32"`
}

type paymentRequest struct {
	ShippingTier string `json:"shipping_tier" validate:"omitempty,max=32"`
	PaymentType  string `json:"payment_type" validate:"omitempty,max=32"`
	Coupon       string `json:"coupon" validate:"omitempty,max=64"`
}

func CheckoutBegin(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := middleware.SessionIDFromContext(r.Context())
		view, err := svc.BeginCheckout(r.Context(), scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(view))
	}
}

func CheckoutShipping(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload shippingRequest
		if err := decodeOptionalBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope := middleware.SessionIDFromContext(r.Context())
		view, err := svc.ChooseShipping(r.Context(), scope, payload.ShippingTier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(view))
	}
}

// CheckoutPayment places the order and returns the success page redirect.
func CheckoutPayment(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload paymentRequest
		if err := decodeOptionalBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope := middleware.SessionIDFromContext(r.Context())
		placed, err := svc.PlaceOrder(r.Context(), scope, checkout.PaymentInput{
			ShippingTier: payload.ShippingTier,
			PaymentType:  payload.PaymentType,
			Coupon:       payload.Coupon,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, placementView{
			Order:    placed.Order,
			Redirect: placed.Redirect,
			Display:  orderTotals(placed.Order),
		})
	}
}

// OrderLast backs the success page. ?order= is only a hint.
func OrderLast(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := middleware.SessionIDFromContext(r.Context())
		hint := validators.SanitizeString(r.URL.Query().Get("order"), 64)
		order, err := svc.LastOrder(r.Context(), scope, strings.ToUpper(hint))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderView{Order: order, Display: orderTotals(order)})
	}
}
