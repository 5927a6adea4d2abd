package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/glassworks-backend/api/responses"
	"github.com/angelmondragon/glassworks-backend/api/validators"
	"github.com/angelmondragon/glassworks-backend/internal/events"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	"github.com/angelmondragon/glassworks-backend/pkg/logger"
)

// EventList accepts ?status= and ?upcoming=true.
func EventList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "event")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		status, err := validators.ParseQueryEnum(r, "status", enums.ParseEventStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter := events.ListFilter{
			Status:   status,
			Upcoming: strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("upcoming")), "true"),
		}
		list, err := svc.List(r.Context(), userID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// EventGet returns the event with its attached pieces.
func EventGet(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "event")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		e, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, e)
	}
}

func EventCreate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "event")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		var body events.CreateEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		e, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, e)
	}
}

func EventUpdate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "event")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		var body events.UpdateEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		e, err := svc.Update(r.Context(), userID, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, e)
	}
}

func EventDelete(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "event")
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

// EventPieceList requires ?event_id.
func EventPieceList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "event")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		eventID, err := validators.RequireQueryUUID(r, "event_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListPieces(r.Context(), userID, eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func EventPieceCreate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "event")
			return
		}
		userID, ok := ownerFrom(w, r, logg)
		if !ok {
			return
		}
		var body events.AttachPieceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		link, err := svc.AttachPiece(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

func EventPieceDelete(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "event")
			return
		}
		userID, id, ok := ownerAndID(w, r, logg)
		if !ok {
			return
		}
		if err := svc.DetachPiece(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
