package controllers

import (
	"net/http"

	"github.com/angelmondragon/glassworks-backend/api/responses"
	"github.com/angelmondragon/glassworks-backend/api/validators"
	"github.com/angelmondragon/glassworks-backend/internal/piecetypes"
	"github.com/angelmondragon/glassworks-backend/pkg/logger"
)

func PieceTypeList(svc piecetypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece type")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		list, err := svc.ListTypes(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func PieceTypeGet(svc piecetypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece type")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		pt, err := svc.GetType(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pt)
	}
}

func PieceTypeCreate(svc piecetypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece type")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		var body piecetypes.CreatePieceTypeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pt, err := svc.CreateType(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pt)
	}
}

func PieceTypeUpdate(svc piecetypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece type")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		var body piecetypes.UpdatePieceTypeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pt, err := svc.UpdateType(r.Context(), userID, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pt)
	}
}

func PieceTypeDelete(svc piecetypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece type")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		if err := svc.DeleteType(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// PieceSubtypeList accepts an optional ?piece_type_id filter.
func PieceSubtypeList(svc piecetypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece type")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		typeID, err := validators.ParseQueryUUID(r, "piece_type_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListSubtypes(r.Context(), userID, typeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func PieceSubtypeCreate(svc piecetypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece type")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		var body piecetypes.CreatePieceSubtypeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st, err := svc.CreateSubtype(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, st)
	}
}

func PieceSubtypeUpdate(svc piecetypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece type")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		var body piecetypes.UpdatePieceSubtypeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st, err := svc.UpdateSubtype(r.Context(), userID, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, st)
	}
}

func PieceSubtypeDelete(svc piecetypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "piece type")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		if err := svc.DeleteSubtype(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
