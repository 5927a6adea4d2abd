package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/glassworks-backend/api/middleware"
	"github.com/angelmondragon/glassworks-backend/api/responses"
	"github.com/angelmondragon/glassworks-backend/api/validators"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
	"github.com/angelmondragon/glassworks-backend/pkg/logger"
	"github.com/angelmondragon/glassworks-backend/pkg/pagination"
)

// ownerFrom returns the authenticated user or writes a 401.
func ownerFrom(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return uuid.Nil, false
	}
	return userID, true
}

// ownerAndID resolves the owner and the {id} path parameter.
func ownerAndID(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := ownerFrom(w, r, logg)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := validators.PathUUID(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")}, nil
}

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}
