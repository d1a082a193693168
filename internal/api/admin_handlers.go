package api

import (
	"net/http"

	"carrental/internal/entities"
	"carrental/internal/service"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Service *service.AdminVehicleService
}

func NewAdminHandler(svc *service.AdminVehicleService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

func (h *AdminHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Service.ListVehicles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *AdminHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req entities.VehicleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	vehicle, err := h.Service.CreateVehicle(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *AdminHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var req entities.VehicleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	vehicle, err := h.Service.UpdateVehicle(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *AdminHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteVehicle(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted"})
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Service.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
