// Package rollout assigns identifiers to model variants for A/B exposure.
package rollout

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Variant is the model exposed to a caller
type Variant string

// Model variants
const (
	VariantBaseline Variant = "baseline"
	VariantEnhanced Variant = "enhanced"
)

// ParseVariant accepts a variant name or the CLI aliases v1 and v2
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "baseline", "v1":
		return VariantBaseline, nil
	case "enhanced", "v2":
		return VariantEnhanced, nil
	default:
		return "", fmt.Errorf("unknown model variant %q", s)
	}
}

// Valid reports whether v is a known variant
func (v Variant) Valid() bool {
	return v == VariantBaseline || v == VariantEnhanced
}

// Bucket maps an identifier to [0, 100)
func Bucket(identifier string) int {
	return int(xxhash.Sum64String(identifier) % 100)
}

// Select returns VariantEnhanced iff the identifier's bucket is below percentage.
// 0 and 100 are decided without hashing; out of range values are clamped.
func Select(identifier string, percentage int) Variant {
	if percentage <= 0 {
		return VariantBaseline
	}
	if percentage >= 100 {
		return VariantEnhanced
	}
	if Bucket(identifier) < percentage {
		return VariantEnhanced
	}
	return VariantBaseline
}

// Assignment sources
const (
	SourceExplicit = "explicit"
	SourceRollout  = "rollout"
)

// Resolve honors an explicit model choice and otherwise buckets the identifier.
// It returns the variant and how it was chosen.
func Resolve(explicit, identifier string, percentage int) (Variant, string, error) {
	if explicit != "" {
		v, err := ParseVariant(explicit)
		if err != nil {
			return "", "", models.NewInvalidInput("model", "%v", err)
		}
		return v, SourceExplicit, nil
	}
	return Select(identifier, percentage), SourceRollout, nil
}
