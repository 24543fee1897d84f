package domain

import (
	"fmt"

	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
)

// Variant tags a strategy shape. The hop count must match the variant.
type Variant uint8

const (
	// Simple2Step is exactly two hops: out and back.
	Simple2Step Variant = iota
	// Triangular is exactly three hops through an intermediate pair.
	Triangular
	// MultiHop is any route of two or more hops.
	MultiHop
)

// String returns the variant's wire name.
func (v Variant) String() string {
	switch v {
	case Simple2Step:
		return "simple-2step"
	case Triangular:
		return "triangular"
	case MultiHop:
		return "multihop"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

// ParseVariant converts a wire name back into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "simple-2step":
		return Simple2Step, nil
	case "triangular":
		return Triangular, nil
	case "multihop":
		return MultiHop, nil
	default:
		return 0, fmt.Errorf("unknown strategy variant %q", s)
	}
}

// hopCountValid reports whether n hops satisfy the variant's shape.
func (v Variant) hopCountValid(n int) bool {
	switch v {
	case Simple2Step:
		return n == 2
	case Triangular:
		return n == 3
	case MultiHop:
		return n >= 2
	default:
		return false
	}
}

// Strategy is a variant-tagged, length-validated route. Constructed per
// invocation and never persisted; construction fails eagerly so no
// invalid strategy reaches a venue.
type Strategy struct {
	variant Variant
	route   Route
}

// NewStrategy validates the hop count against the variant and the route
// invariants, in that order.
func NewStrategy(variant Variant, route Route) (*Strategy, error) {
	if !variant.hopCountValid(len(route)) {
		return nil, apperror.New(apperror.CodeInvalidStrategy,
			apperror.WithContext(fmt.Sprintf("%s with %d hops", variant, len(route))))
	}
	if err := route.Validate(); err != nil {
		return nil, err
	}
	return &Strategy{variant: variant, route: route}, nil
}

// Variant returns the strategy's shape tag.
func (s *Strategy) Variant() Variant {
	return s.variant
}

// Route returns the validated hop sequence.
func (s *Strategy) Route() Route {
	return s.route
}
