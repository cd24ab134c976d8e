package domain

// Hotel ratings are stars, 1 through 5.
const (
	MinRating = 1
	MaxRating = 5
)

type Hotel struct {
	ID      int
	Name    string
	City    string
	Address string
	Rating  int
}
