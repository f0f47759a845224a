package spaced_repetition

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/mnemo/pkg/models"
)

func TestRatingString(t *testing.T) {
	require.Equal(t, "peeked", Peeked.String())
	require.Equal(t, "struggled", Struggled.String())
	require.Equal(t, "recalled", Recalled.String())
	require.Equal(t, "Rating(7)", Rating(7).String())
}

func TestRatingIsValid(t *testing.T) {
	require.True(t, Peeked.IsValid())
	require.True(t, Recalled.IsValid())
	require.False(t, Rating(0).IsValid())
	require.False(t, Rating(4).IsValid())
	require.False(t, Rating(-1).IsValid())
}

func TestParseRating(t *testing.T) {
	r, err := ParseRating("struggled")
	require.NoError(t, err)
	require.Equal(t, Struggled, r)

	_, err = ParseRating("Recalled")
	require.ErrorIs(t, err, models.ErrInvalidRating)
	_, err = ParseRating("")
	require.ErrorIs(t, err, models.ErrInvalidRating)
}

func TestRatingJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Recalled)
	require.NoError(t, err)
	require.Equal(t, `"recalled"`, string(data))

	var r Rating
	require.NoError(t, json.Unmarshal([]byte(`"peeked"`), &r))
	require.Equal(t, Peeked, r)

	require.ErrorIs(t, json.Unmarshal([]byte(`"maybe"`), &r), models.ErrInvalidRating)
	require.ErrorIs(t, json.Unmarshal([]byte(`3`), &r), models.ErrInvalidRating)

	_, err = json.Marshal(Rating(9))
	require.Error(t, err)
}
