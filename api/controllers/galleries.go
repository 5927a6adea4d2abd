package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/glassworks-backend/api/responses"
	"github.com/angelmondragon/glassworks-backend/api/validators"
	"github.com/angelmondragon/glassworks-backend/internal/galleries"
	"github.com/angelmondragon/glassworks-backend/pkg/logger"
)

// GalleryList accepts ?active=true to hide inactive galleries.
func GalleryList(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "gallery")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		activeOnly := strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("active")), "true")
		list, err := svc.List(r.Context(), userID, activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GalleryGet(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "gallery")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		g, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, g)
	}
}

func GalleryCreate(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "gallery")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		var body galleries.CreateGalleryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		g, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, g)
	}
}

func GalleryUpdate(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "gallery")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		var body galleries.UpdateGalleryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		g, err := svc.Update(r.Context(), userID, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, g)
	}
}

func GalleryDelete(svc galleries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "gallery")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
