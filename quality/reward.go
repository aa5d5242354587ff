package quality

import "fmt"

const (
	OptimalMinLength = 1000
	OptimalMaxLength = 3000

	ratingWeight = 0.7
	lengthWeight = 0.3
)

// LengthFitness is 1 inside [OptimalMinLength, OptimalMaxLength] and decays
// proportionally outside it.
func LengthFitness(length int) float64 {
	switch {
	case length < OptimalMinLength:
		return float64(length) / OptimalMinLength
	case length > OptimalMaxLength:
		return OptimalMaxLength / float64(length)
	default:
		return 1
	}
}

// CalculateReward combines a user rating (1-5) with the complaint length in
// characters: 0.7*rating + 0.3*LengthFitness(length).
func CalculateReward(rating float64, length int) (float64, error) {
	if !(rating >= 1 && rating <= 5) {
		return 0, fmt.Errorf("%w: rating %v outside [1,5]", ErrInvalidArgument, rating)
	}
	if length < 0 {
		return 0, fmt.Errorf("%w: negative length %d", ErrInvalidArgument, length)
	}
	// Conversions keep both products rounded before the sum (no fused multiply-add).
	return float64(ratingWeight*rating) + float64(lengthWeight*LengthFitness(length)), nil
}
