package controllers

import (
	"net/http"

	"github.com/angelmondragon/glassworks-backend/api/responses"
	"github.com/angelmondragon/glassworks-backend/api/validators"
	"github.com/angelmondragon/glassworks-backend/internal/pieces"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	"github.com/angelmondragon/glassworks-backend/pkg/logger"
)

// PieceList supports status, gallery_id, piece_type_id, q, limit and cursor.
func PieceList(svc pieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		filter, err := pieceFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), userID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func pieceFilter(r *http.Request) (pieces.ListFilter, error) {
	var f pieces.ListFilter
	var err error
	if f.Status, err = validators.ParseQueryEnum(r, "status", enums.ParsePieceStatus); err != nil {
		return f, err
	}
	if f.GalleryID, err = validators.ParseQueryUUID(r, "gallery_id"); err != nil {
		return f, err
	}
	if f.PieceTypeID, err = validators.ParseQueryUUID(r, "piece_type_id"); err != nil {
		return f, err
	}
	if f.Page, err = pageParams(r); err != nil {
		return f, err
	}
	f.Search = validators.SanitizeString(r.URL.Query().Get("q"), 100)
	return f, nil
}

func PieceGet(svc pieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		p, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, p)
	}
}

func PieceCreate(svc pieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		var body pieces.CreatePieceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		p, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, p)
	}
}

func PieceUpdate(svc pieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		var body pieces.UpdatePieceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		p, err := svc.Update(r.Context(), userID, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, p)
	}
}

func PieceDelete(svc pieces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece")
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
