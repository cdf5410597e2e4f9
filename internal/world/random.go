package world

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// DefaultSeed seeds the world RNG when the configuration leaves it empty.
const DefaultSeed = "tower-survival"

// RNG is the random source consumed by spawn selection and combat rolls.
type RNG interface {
	Float64() float64
}

// RNGFactory produces deterministic RNG instances for world subsystems.
type RNGFactory func(rootSeed, label string) RNG

func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

func NewDeterministicRNG(rootSeed, label string) RNG {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}

func randomAngle(rng RNG) float64 {
	return rng.Float64() * 2 * math.Pi
}

type weighted[T any] struct {
	value T
	below float64
}

// chooseCumulative returns the first option whose cumulative threshold lies
// above draw, or the last option when draw exceeds every threshold.
func chooseCumulative[T any](draw float64, options []weighted[T]) T {
	for _, opt := range options {
		if draw < opt.below {
			return opt.value
		}
	}
	return options[len(options)-1].value
}
