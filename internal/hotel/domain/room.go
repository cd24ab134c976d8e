package domain

// Room numbers are unique within a hotel.
type Room struct {
	ID      string
	Type    string
	Price   int
	Number  int
	HotelID int
}
