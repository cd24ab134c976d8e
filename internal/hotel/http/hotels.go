package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/roomstead/roomstead/internal/hotel/service"
	"github.com/roomstead/roomstead/internal/hotel/store"
	"github.com/roomstead/roomstead/pkg/httpx"
	"github.com/roomstead/roomstead/pkg/slogx"
)

// HotelsHandler serves the /v1/hotels endpoints.
type HotelsHandler struct {
	Store        store.Store
	Mapper       *service.RowMapper
	Availability *service.AvailabilityService
}

type hotelRequest struct {
	ID      int    `json:"id,omitempty"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Rating  int    `json:"rating"`
}

// asRow flattens the request into the mapper's field order so the API and
// the desk client validate identically.
func (req hotelRequest) asRow() []string {
	id := ""
	if req.ID != 0 {
		id = strconv.Itoa(req.ID)
	}
	return []string{id, req.Name, req.City, req.Address, strconv.Itoa(req.Rating)}
}

// writeServiceError translates validation and not-found failures; everything
// else is a 500 with the detail kept in the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", verr.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "No such record")
	default:
		slogx.FromContext(r.Context()).Error(op+" failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Operation failed")
	}
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", name+" must be a number")
		return 0, false
	}
	return v, true
}

func (h *HotelsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Store.Hotels().ListHotels(r.Context())
	if err != nil {
		writeServiceError(w, r, "list hotels", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hotels)
}

func (h *HotelsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	hotel, err := h.Store.Hotels().GetHotelByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get hotel", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hotel)
}

func (h *HotelsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req hotelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	hotel, err := h.Mapper.MapHotel(r.Context(), req.asRow())
	if err != nil {
		writeServiceError(w, r, "create hotel", err)
		return
	}
	if err := h.Store.Hotels().CreateHotel(r.Context(), hotel); err != nil {
		writeServiceError(w, r, "create hotel", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, hotel)
}

func (h *HotelsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	var req hotelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	hotel, err := h.Mapper.MapHotel(r.Context(), req.asRow())
	if err != nil {
		writeServiceError(w, r, "update hotel", err)
		return
	}
	if err := h.Store.Hotels().UpdateHotel(r.Context(), hotel); err != nil {
		writeServiceError(w, r, "update hotel", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hotel)
}

func (h *HotelsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.Store.Hotels().DeleteHotel(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete hotel", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HotelsHandler) HandleFreeRooms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	from, to, err := service.ParseStay(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeServiceError(w, r, "free rooms", err)
		return
	}
	rooms, err := h.Availability.FreeRooms(r.Context(), id, from, to)
	if err != nil {
		writeServiceError(w, r, "free rooms", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rooms)
}
