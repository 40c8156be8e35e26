package registry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync/atomic"
)

// Strategy selects which registered provider a chunk should be written to.
// size is the chunk's plaintext byte size; strategies that don't need it
// (RoundRobin, WeightedRandom) ignore the parameter.
type Strategy interface {
	SelectProvider(ctx context.Context, chunkKey string, size int64) (providerID string, err error)
}

// RoundRobin cycles through providers in a fixed order.
type RoundRobin struct {
	providers []string
	counter   atomic.Uint64
}

// NewRoundRobin builds a RoundRobin strategy over providerIDs. The order
// given is the cycling order.
func NewRoundRobin(providerIDs []string) (*RoundRobin, error) {
	if len(providerIDs) == 0 {
		return nil, fmt.Errorf("registry: round robin needs at least one provider")
	}
	ids := append([]string(nil), providerIDs...)
	return &RoundRobin{providers: ids}, nil
}

func (s *RoundRobin) SelectProvider(_ context.Context, _ string, _ int64) (string, error) {
	n := s.counter.Add(1) - 1
	return s.providers[n%uint64(len(s.providers))], nil
}

// WeightedRandom picks a provider at random, weighted by configured share.
// Not named in the distilled spec, which leaves the strategy pluggable; this
// is one of the two additional strategies this expansion plugs into that
// seam.
type WeightedRandom struct {
	ids     []string
	weights []int
	total   int
}

// NewWeightedRandom builds a WeightedRandom strategy from a providerID →
// weight map. Weights must be positive integers; relative magnitude is what
// matters, not the scale.
func NewWeightedRandom(weights map[string]int) (*WeightedRandom, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("registry: weighted random needs at least one provider")
	}

	ids := make([]string, 0, len(weights))
	for id := range weights {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic iteration order for reproducible selection given a seed

	w := &WeightedRandom{ids: ids, weights: make([]int, len(ids))}
	for i, id := range ids {
		weight := weights[id]
		if weight <= 0 {
			return nil, fmt.Errorf("registry: provider %q has non-positive weight %d", id, weight)
		}
		w.weights[i] = weight
		w.total += weight
	}
	return w, nil
}

func (s *WeightedRandom) SelectProvider(_ context.Context, _ string, _ int64) (string, error) {
	pick := rand.IntN(s.total)
	for i, weight := range s.weights {
		if pick < weight {
			return s.ids[i], nil
		}
		pick -= weight
	}
	return s.ids[len(s.ids)-1], nil
}

// SizeTier routes a chunk to a provider based on its plaintext size against
// ascending thresholds — e.g. small chunks to a fast local disk provider,
// large ones to object storage. The other additional strategy this
// expansion plugs into the Strategy seam.
type SizeTier struct {
	tiers      []sizeTier
	fallbackID string
}

type sizeTier struct {
	maxBytes   int64
	providerID string
}

// NewSizeTier builds a SizeTier strategy. tiers maps each maxBytes
// threshold to a provider ID; thresholds are sorted ascending, and a chunk
// is routed to the first tier whose maxBytes is >= the chunk's size, or to
// fallbackID if none match.
func NewSizeTier(tiers map[int64]string, fallbackID string) (*SizeTier, error) {
	if fallbackID == "" {
		return nil, fmt.Errorf("registry: size tier needs a fallback provider")
	}

	ordered := make([]sizeTier, 0, len(tiers))
	for max, id := range tiers {
		ordered = append(ordered, sizeTier{maxBytes: max, providerID: id})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].maxBytes < ordered[j].maxBytes })

	return &SizeTier{tiers: ordered, fallbackID: fallbackID}, nil
}

// SelectProviderForSize routes size against the ascending tier thresholds
// directly, for callers that already have the size in hand.
func (s *SizeTier) SelectProviderForSize(size int64) string {
	for _, tier := range s.tiers {
		if size <= tier.maxBytes {
			return tier.providerID
		}
	}
	return s.fallbackID
}

// SelectProvider satisfies Strategy, routing by the chunk's plaintext size.
func (s *SizeTier) SelectProvider(_ context.Context, _ string, size int64) (string, error) {
	return s.SelectProviderForSize(size), nil
}
