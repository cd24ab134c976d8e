package http

import (
	"net/http"

	"github.com/roomstead/roomstead/internal/hotel/domain"
	"github.com/roomstead/roomstead/internal/hotel/service"
	"github.com/roomstead/roomstead/internal/hotel/store"
	"github.com/roomstead/roomstead/pkg/httpx"
)

// ReservationsHandler serves reservation reads and the booking endpoint.
type ReservationsHandler struct {
	Store        store.Store
	Mapper       *service.RowMapper
	Availability *service.AvailabilityService
}

type bookRequest struct {
	GuestID   string `json:"guest_id"`
	Arrival   string `json:"arrival"`
	Departure string `json:"departure"`
}

type reservationResponse struct {
	ID        string `json:"id"`
	GuestID   string `json:"guest_id"`
	RoomID    string `json:"room_id"`
	Arrival   string `json:"arrival"`
	Departure string `json:"departure"`
}

func newReservationResponse(res domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:        res.ID,
		GuestID:   res.GuestID,
		RoomID:    res.RoomID,
		Arrival:   res.Arrival.Format(domain.DateLayout),
		Departure: res.Departure.Format(domain.DateLayout),
	}
}

func newReservationList(reservations []domain.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(reservations))
	for _, res := range reservations {
		out = append(out, newReservationResponse(res))
	}
	return out
}

func (h *ReservationsHandler) HandleListByHotel(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	reservations, err := h.Store.Reservations().ListReservationsByHotel(r.Context(), hotelID)
	if err != nil {
		writeServiceError(w, r, "list reservations", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newReservationList(reservations))
}

func (h *ReservationsHandler) HandleListByRoom(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.Store.Rooms().GetRoomByID(r.Context(), id); err != nil {
		writeServiceError(w, r, "list room reservations", err)
		return
	}
	reservations, err := h.Store.Reservations().ListReservationsByRoom(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "list room reservations", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newReservationList(reservations))
}

func (h *ReservationsHandler) HandleListByGuest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.Store.Users().GetUserByID(r.Context(), id); err != nil {
		writeServiceError(w, r, "list guest reservations", err)
		return
	}
	reservations, err := h.Store.Reservations().ListReservationsByGuest(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "list guest reservations", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newReservationList(reservations))
}

func (h *ReservationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	res, err := h.Store.Reservations().GetReservationByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get reservation", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newReservationResponse(res))
}

func (h *ReservationsHandler) HandleBook(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")

	var req bookRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	arrival, departure, err := service.ParseStay(req.Arrival, req.Departure)
	if err != nil {
		writeServiceError(w, r, "book room", err)
		return
	}

	booking := &service.BookingService{Store: h.Store, Availability: h.Availability}
	res, err := booking.BookRoom(r.Context(), req.GuestID, roomID, arrival, departure)
	if err != nil {
		writeServiceError(w, r, "book room", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newReservationResponse(res))
}

type reservationUpdateRequest struct {
	GuestID   string `json:"guest_id"`
	RoomID    string `json:"room_id"`
	Arrival   string `json:"arrival"`
	Departure string `json:"departure"`
}

func (h *ReservationsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.Store.Reservations().GetReservationByID(r.Context(), id); err != nil {
		writeServiceError(w, r, "update reservation", err)
		return
	}

	var req reservationUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Mapper.MapReservation(r.Context(), []string{id, req.GuestID, req.RoomID, req.Arrival, req.Departure})
	if err != nil {
		writeServiceError(w, r, "update reservation", err)
		return
	}
	if err := h.Store.Reservations().UpdateReservation(r.Context(), res); err != nil {
		writeServiceError(w, r, "update reservation", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newReservationResponse(res))
}

func (h *ReservationsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reservations().DeleteReservation(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete reservation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
