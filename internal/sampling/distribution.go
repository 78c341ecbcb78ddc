package sampling

import (
	"errors"
	"fmt"
	"math"
)

// sumTolerance absorbs float error in proportions that are meant to add up to 1
const sumTolerance = 1e-9

// ErrInvalidDistribution is wrapped by every distribution validation failure
var ErrInvalidDistribution = errors.New("invalid distribution")

// Share is the target proportion of one category
type Share struct {
	Category   Category `json:"category" yaml:"category"`
	Proportion float64  `json:"share" yaml:"share"`
}

// Distribution is an ordered list of category shares. Its order is the order
// in which quotas are sampled.
type Distribution []Share

// DefaultDistribution is the reference target mix for benchmark traffic
var DefaultDistribution = Distribution{
	{Category: CategoryJSON, Proportion: 0.30},
	{Category: CategoryHTML, Proportion: 0.10},
	{Category: CategoryJavaScript, Proportion: 0.25},
	{Category: CategoryCSS, Proportion: 0.10},
	{Category: CategoryImage, Proportion: 0.15},
	{Category: CategoryOther, Proportion: 0.10},
}

// DefaultAbsorber receives the rounding remainder of quota computation
const DefaultAbsorber = CategoryJSON

// Validate checks proportions, duplicates and that the absorber is part of the distribution
func (d Distribution) Validate(absorber Category) error {
	var seen [numCategories]bool
	sum := 0.0
	for _, s := range d {
		if !s.Category.Valid() {
			return fmt.Errorf("%w: unknown category %s", ErrInvalidDistribution, s.Category)
		}
		if seen[s.Category] {
			return fmt.Errorf("%w: category %s listed twice", ErrInvalidDistribution, s.Category)
		}
		seen[s.Category] = true
		if math.IsNaN(s.Proportion) || math.IsInf(s.Proportion, 0) || s.Proportion < 0 {
			return fmt.Errorf("%w: proportion for %s must be a non-negative number, got %v", ErrInvalidDistribution, s.Category, s.Proportion)
		}
		sum += s.Proportion
	}
	if sum > 1+sumTolerance {
		return fmt.Errorf("%w: proportions sum to %.4f (max 1.0)", ErrInvalidDistribution, sum)
	}
	if !absorber.Valid() || !seen[absorber] {
		return fmt.Errorf("%w: absorber category %s is not in the distribution", ErrInvalidDistribution, absorber)
	}
	return nil
}

// Proportion returns the share of a category, 0 when absent
func (d Distribution) Proportion(c Category) float64 {
	for _, s := range d {
		if s.Category == c {
			return s.Proportion
		}
	}
	return 0
}

// Quotas is the integer target count per category
type Quotas [numCategories]int

// Total returns the sum of all quotas
func (q Quotas) Total() int {
	total := 0
	for _, n := range q {
		total += n
	}
	return total
}

// Quotas computes floor(target*proportion) for each category and gives any
// shortfall against target to the absorber. Callers validate d first.
func (d Distribution) Quotas(target int, absorber Category) Quotas {
	var q Quotas
	if target <= 0 {
		return q
	}
	for _, s := range d {
		q[s.Category] = int(math.Floor(float64(target) * s.Proportion))
	}
	if total := q.Total(); total < target && absorber.Valid() {
		q[absorber] += target - total
	}
	return q
}
