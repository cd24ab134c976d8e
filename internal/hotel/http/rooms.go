package http

import (
	"net/http"
	"strconv"

	"github.com/roomstead/roomstead/internal/hotel/service"
	"github.com/roomstead/roomstead/internal/hotel/store"
	"github.com/roomstead/roomstead/pkg/httpx"
)

// RoomsHandler serves the room endpoints, nested under hotels for listing
// and creation.
type RoomsHandler struct {
	Store        store.Store
	Mapper       *service.RowMapper
	Availability *service.AvailabilityService
}

type roomRequest struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`
	Price  int    `json:"price"`
	Number int    `json:"number"`
}

func (req roomRequest) asRow() []string {
	return []string{req.ID, req.Type, strconv.Itoa(req.Price), strconv.Itoa(req.Number)}
}

func (h *RoomsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	rooms, err := h.Store.Rooms().ListRoomsByHotel(r.Context(), hotelID)
	if err != nil {
		writeServiceError(w, r, "list rooms", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rooms)
}

func (h *RoomsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	room, err := h.Store.Rooms().GetRoomByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get room", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, room)
}

func (h *RoomsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req roomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	room, err := h.Mapper.MapRoom(r.Context(), hotelID, req.asRow())
	if err != nil {
		writeServiceError(w, r, "create room", err)
		return
	}
	if err := h.Store.Rooms().CreateRoom(r.Context(), room); err != nil {
		writeServiceError(w, r, "create room", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, room)
}

func (h *RoomsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.Store.Rooms().GetRoomByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "update room", err)
		return
	}

	var req roomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	// An update keeping the same number must not trip the duplicate check.
	var room = existing
	if req.Number == existing.Number {
		if req.Type == "" {
			writeServiceError(w, r, "update room", &service.ValidationError{Field: "type", Message: "must not be blank"})
			return
		}
		room.Type = req.Type
		room.Price = req.Price
	} else {
		room, err = h.Mapper.MapRoom(r.Context(), existing.HotelID, req.asRow())
		if err != nil {
			writeServiceError(w, r, "update room", err)
			return
		}
	}

	if err := h.Store.Rooms().UpdateRoom(r.Context(), room); err != nil {
		writeServiceError(w, r, "update room", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, room)
}

func (h *RoomsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Rooms().DeleteRoom(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete room", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RoomsHandler) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.Store.Rooms().GetRoomByID(r.Context(), id); err != nil {
		writeServiceError(w, r, "room availability", err)
		return
	}
	from, to, err := service.ParseStay(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeServiceError(w, r, "room availability", err)
		return
	}
	available, err := h.Availability.IsRoomAvailable(r.Context(), id, from, to)
	if err != nil {
		writeServiceError(w, r, "room availability", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"available": available})
}
