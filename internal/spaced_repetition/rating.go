package spaced_repetition

import (
	"encoding"
	"encoding/json"
	"fmt"

	"github.com/example/mnemo/pkg/models"
)

// Rating is the user's self-assessment of one review.
type Rating int

const (
	// Peeked means the answer had to be revealed: a full lapse.
	Peeked Rating = iota + 1
	// Struggled is a marginal success: it counts toward progress but
	// penalizes the ease factor.
	Struggled
	// Recalled is a clean successful recall.
	Recalled
)

var (
	ratingNames  = [...]string{Peeked: "peeked", Struggled: "struggled", Recalled: "recalled"}
	ratingByName = map[string]Rating{
		"peeked":    Peeked,
		"struggled": Struggled,
		"recalled":  Recalled,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Rating(0)
	_ json.Marshaler           = Rating(0)
	_ json.Unmarshaler         = (*Rating)(nil)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

// ParseRating maps a textual rating ("peeked", "struggled",
// "recalled") to its value.
func ParseRating(s string) (Rating, error) {
	r, ok := ratingByName[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidRating, s)
	}
	return r, nil
}

// IsValid reports whether r is one of the three known ratings.
func (r Rating) IsValid() bool {
	return r >= Peeked && r <= Recalled
}

// String returns the rating name; for invalid values it returns
// "Rating(n)".
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidRating, int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	v, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// MarshalJSON implements json.Marshaler. Ratings serialize as strings.
func (r Rating) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidRating, data)
	}
	return r.UnmarshalText([]byte(s))
}
