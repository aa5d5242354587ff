package repository

import (
	"errors"
	"math"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToVector(t *testing.T) {
	assert.Empty(t, toVector(nil).Slice())
	assert.Equal(t, []float32{0.5, -2.5, 3}, toVector([]float64{0.5, -2.5, 3}).Slice())
}

func TestReferenceChunkRepository_CheckDimensions(t *testing.T) {
	repo := NewReferenceChunkRepository(nil, 3)
	assert.NoError(t, repo.checkDimensions([]float64{1, 2, 3}))
	assert.Error(t, repo.checkDimensions([]float64{1, 2}))

	unchecked := NewReferenceChunkRepository(nil, 0)
	assert.NoError(t, unchecked.checkDimensions([]float64{1}))
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: "23505"}), ErrDuplicate)

	other := errors.New("connection reset")
	assert.Equal(t, other, translateError(other))
}

func TestRatingHistogram(t *testing.T) {
	tests := []struct {
		name    string
		ratings []float64
		want    [5]int
	}{
		{"empty", nil, [5]int{}},
		{"integer ratings", []float64{1, 2, 3, 4, 5}, [5]int{1, 1, 1, 1, 1}},
		{"upper edge lands in last bin", []float64{5, 5, 4.9}, [5]int{0, 0, 0, 0, 3}},
		{"half steps", []float64{1.5, 2.5, 3.5}, [5]int{1, 1, 0, 1, 0}},
		{"clamped", []float64{0, 7}, [5]int{1, 0, 0, 0, 1}},
		{"nan skipped", []float64{math.NaN(), 3}, [5]int{0, 0, 1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ratingHistogram(tt.ratings))
		})
	}
}

func TestTopRatedQuery(t *testing.T) {
	filter, opts := topRatedQuery(4, 50)

	assert.Equal(t, bson.M{"rating": bson.M{"$gte": float64(4)}}, filter)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(50), *opts.Limit)

	sort, ok := opts.Sort.(bson.D)
	require.True(t, ok)
	require.NotEmpty(t, sort)
	assert.Equal(t, "rating", sort[0].Key)
	assert.Equal(t, -1, sort[0].Value)
}

func TestTopRatedQuery_NoLimit(t *testing.T) {
	_, opts := topRatedQuery(4, 0)
	assert.Nil(t, opts.Limit)
}
