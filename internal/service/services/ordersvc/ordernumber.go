package ordersvc

import (
	"fmt"
	"sync/atomic"
	"time"
)

// orderNumberPrefix is the external contract surface: the payment channel
// carries this value as an opaque payload and it must round-trip exactly.
const orderNumberPrefix = "ORD-"

// numberGenerator produces globally unique, time-derived order numbers.
// The millisecond timestamp keeps numbers humanly distinguishable; the
// monotonic counter suffix disambiguates creations that land within the
// same millisecond, so concurrent placements never collide.
type numberGenerator struct {
	counter atomic.Uint64
}

func (g *numberGenerator) next(now time.Time) string {
	seq := g.counter.Add(1) % 100000

	return fmt.Sprintf("%s%d-%05d", orderNumberPrefix, now.UnixMilli(), seq)
}
