package sampling

import (
	"errors"
	"math/rand/v2"
)

var (
	// ErrNegativeTarget is returned when the requested sample size is below zero
	ErrNegativeTarget = errors.New("target size must not be negative")
	// ErrNilLabelFunc is returned when no content-type accessor is supplied
	ErrNilLabelFunc = errors.New("label function is nil")
	// ErrNilRand is returned when no random stream is supplied
	ErrNilRand = errors.New("random source is nil")
)

// Config controls a stratified selection. The zero value samples with
// DefaultDistribution, DefaultRules and json as the rounding absorber.
type Config struct {
	Distribution Distribution
	Absorber     Category
	Categorizer  *Categorizer
	Observer     Observer
}

func (c Config) withDefaults() Config {
	if c.Distribution == nil {
		c.Distribution = DefaultDistribution
	}
	if c.Categorizer == nil {
		c.Categorizer = defaultCategorizer
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
	return c
}

// NewRand returns a random stream owned by the caller, seeded from seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// SelectSeeded runs Select with a fresh stream seeded from seed
func SelectSeeded[T any](entries []T, labelOf func(T) string, target int, cfg Config, seed int64) ([]T, error) {
	return Select(entries, labelOf, target, cfg, NewRand(seed))
}

// Select draws a stratified sample of up to target entries.
//
// Entries are bucketed by the category of their primary content type. Each
// distribution category contributes min(quota, bucket) entries drawn without
// replacement, in distribution order. If that leaves the sample short of
// target, the gap is filled from all entries not yet chosen. The result holds
// min(target, len(entries)) distinct entries and depends only on the inputs and
// the state of rng.
func Select[T any](entries []T, labelOf func(T) string, target int, cfg Config, rng *rand.Rand) ([]T, error) {
	if target < 0 {
		return nil, ErrNegativeTarget
	}
	if labelOf == nil {
		return nil, ErrNilLabelFunc
	}
	if rng == nil {
		return nil, ErrNilRand
	}
	cfg = cfg.withDefaults()
	if err := cfg.Distribution.Validate(cfg.Absorber); err != nil {
		return nil, err
	}

	// Buckets hold indexes into entries; an index is an entry's identity.
	var buckets [numCategories][]int
	categoryOf := make([]Category, len(entries))
	for i, e := range entries {
		c := cfg.Categorizer.Categorize(PrimaryType(labelOf(e)))
		categoryOf[i] = c
		buckets[c] = append(buckets[c], i)
	}

	selected := make([]T, 0, min(target, len(entries)))
	if target == 0 {
		return selected, nil
	}

	quotas := cfg.Distribution.Quotas(target, cfg.Absorber)
	taken := make([]bool, len(entries))
	for _, share := range cfg.Distribution {
		c := share.Category
		bucket := buckets[c]
		quota := quotas[c]
		cfg.Observer.Bucket(c, len(bucket), quota)
		if len(bucket) < quota {
			cfg.Observer.Shortfall(c, len(bucket), quota)
		}
		if len(bucket) == 0 {
			continue
		}
		for _, idx := range sample(rng, bucket, min(quota, len(bucket))) {
			taken[idx] = true
			selected = append(selected, entries[idx])
		}
	}

	if len(selected) >= target {
		return selected, nil
	}

	deficit := target - len(selected)
	remaining := make([]int, 0, len(entries)-len(selected))
	for i := range entries {
		if !taken[i] {
			remaining = append(remaining, i)
		}
	}
	cfg.Observer.Deficit(deficit, len(remaining))

	var filled [numCategories]int
	for _, idx := range sample(rng, remaining, min(deficit, len(remaining))) {
		filled[categoryOf[idx]]++
		selected = append(selected, entries[idx])
	}
	for c, n := range filled {
		if n > 0 {
			cfg.Observer.Filled(Category(c), n)
		}
	}

	return selected, nil
}

// sample draws k distinct elements of pool in draw order, using a partial
// Fisher-Yates shuffle over a copy. pool is not modified.
func sample(rng *rand.Rand, pool []int, k int) []int {
	if k <= 0 {
		return nil
	}
	work := make([]int, len(pool))
	copy(work, pool)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:k]
}
