package api

import (
	"net/http"

	"carrental/internal/entities"
	apperrors "carrental/internal/errors"
	"carrental/internal/service"

	"github.com/gorilla/mux"
)

type UserReservationHandler struct {
	Service *service.ReservationService
}

func NewUserReservationHandler(svc *service.ReservationService) *UserReservationHandler {
	return &UserReservationHandler{Service: svc}
}

func (h *UserReservationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req entities.QuoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Service.Quote(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserReservationHandler) StartReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.StartReservationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.StartReservation(r.Context(), req.VehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *UserReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.GetReservation(r.Context(), mux.Vars(r)["id"])
	respondWizard(w, view, err)
}

func (h *UserReservationHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var patch entities.DraftPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.UpdateDraft(r.Context(), mux.Vars(r)["id"], patch)
	respondWizard(w, view, err)
}

func (h *UserReservationHandler) SelectVehicle(w http.ResponseWriter, r *http.Request) {
	var req entities.SelectVehicleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Service.SelectVehicle(r.Context(), mux.Vars(r)["id"], req.VehicleID)
	respondWizard(w, view, err)
}

func (h *UserReservationHandler) Next(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Next(r.Context(), mux.Vars(r)["id"])
	respondWizard(w, view, err)
}

func (h *UserReservationHandler) Back(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Back(r.Context(), mux.Vars(r)["id"])
	respondWizard(w, view, err)
}

func (h *UserReservationHandler) Close(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Close(r.Context(), mux.Vars(r)["id"])
	respondWizard(w, view, err)
}

func (h *UserReservationHandler) QuickReserve(w http.ResponseWriter, r *http.Request) {
	var req entities.QuickReservationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	conf, err := h.Service.QuickReserve(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}

// respondWizard writes the wizard view. A refused transition is reported with
// its error status and still carries the view so the client can render it.
func respondWizard(w http.ResponseWriter, view *entities.WizardView, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, view)
		return
	}
	if view == nil {
		writeError(w, err)
		return
	}
	httpErr := apperrors.FromError(err)
	writeJSON(w, httpErr.Code, errorResponse{Error: httpErr.Message, Reservation: view})
}
