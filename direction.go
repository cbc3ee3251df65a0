package linkgraph

import "fmt"

// Direction controls which edges are followed relative to a node.
type Direction int

const (
	// DirectionOut follows edges leaving the node (SourceID == node). Default.
	DirectionOut Direction = iota

	// DirectionIn follows edges entering the node (TargetID == node).
	DirectionIn

	// DirectionBoth follows edges in either direction. Each result is tagged
	// with the direction it was found under.
	DirectionBoth
)

// DefaultDirection is the direction used when none is specified.
const DefaultDirection = DirectionOut

// String returns the string representation of the Direction.
func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return "out"
	case DirectionIn:
		return "in"
	case DirectionBoth:
		return "both"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// IsValid returns true if the direction is a valid value.
func (d Direction) IsValid() bool {
	return d >= DirectionOut && d <= DirectionBoth
}

// Validate returns an error if the direction is invalid.
func (d Direction) Validate() error {
	if !d.IsValid() {
		return fmt.Errorf("%w: invalid direction value: %d", ErrInvalidArgument, d)
	}
	return nil
}

// ParseDirection parses a string into a Direction value.
// Accepts the long forms used by backends that spell directions out.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "out", "outgoing":
		return DirectionOut, nil
	case "in", "incoming":
		return DirectionIn, nil
	case "both":
		return DirectionBoth, nil
	default:
		return 0, fmt.Errorf("%w: invalid direction: %s", ErrInvalidArgument, s)
	}
}

// AllDirections returns all valid direction values.
func AllDirections() []Direction {
	return []Direction{DirectionOut, DirectionIn, DirectionBoth}
}
