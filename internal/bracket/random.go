package bracket

import "math/rand/v2"

// Shuffler is the only source of randomness in bracket generation.
// *rand.Rand satisfies it, which lets tests pin the seeding order.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// DefaultShuffler uses the runtime's global source and is safe for concurrent use.
func DefaultShuffler() Shuffler {
	return globalShuffler{}
}
