package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/analytics"
	"github.com/angelmondragon/storefront/internal/storefront"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type selectPromotionRequest struct {
	PromotionName string `json:"promotion_name" validate:"omitempty,max=128"`
}

type pageViewRequest struct {
	PageTitle    string `json:"page_title" validate:"max=256"`
	PageLocation string `json:"page_location" validate:"required,max=2048"`
	PagePath     string `json:"page_path" validate:"required,max=1024"`
}

func PromotionView(svc storefront.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := middleware.SessionIDFromContext(r.Context())
		svc.ViewPromotion(r.Context(), scope, chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func PromotionSelect(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload selectPromotionRequest
		if err := decodeOptionalBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope := middleware.SessionIDFromContext(r.Context())
		svc.SelectPromotion(r.Context(), scope, chi.URLParam(r, "id"), payload.PromotionName)
		w.WriteHeader(http.StatusNoContent)
	}
}

func PageView(svc storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pageViewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		scope := middleware.SessionIDFromContext(r.Context())
		svc.PageView(r.Context(), scope, payload.PageTitle, payload.PageLocation, payload.PagePath)
		w.WriteHeader(http.StatusNoContent)
	}
}

// DataLayer exposes the buffered analytics events. It answers 404 unless
// debug mode is on.
func DataLayer(layer *analytics.DataLayer, debug bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !debug || layer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "data layer disabled"))
			return
		}
		responses.WriteSuccess(w, layer.Snapshot())
	}
}
