package domain

import (
	"fmt"
	"math"
	"strings"
)

// DefaultTolerance is the positional slack LayoutEqual allows before a
// moved component counts as a change. It is one fixed per-axis
// magnitude, deliberately generous: micro-jitter from the canvas is
// absorbed, deliberate rearrangements are not.
const DefaultTolerance = 200.0

// structuralKey reduces a component to its layout-free identity.
func (c ComponentRecord) structuralKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%d", c.ID, c.Kind, c.Label, c.Width)
	if c.Kind == KindCustom {
		fmt.Fprintf(&b, "|%s|%s", c.RefSheet, SignatureKey(c.RefPorts))
	}
	return b.String()
}

// structuralKey reduces a connection to its layout-free identity
// (vertex list cleared).
func (c ConnectionRecord) structuralKey() string {
	return fmt.Sprintf("%s|%s|%s", c.ID, c.Source, c.Target)
}

// DiffCanvas counts the structural differences between two canvas
// states, ignoring layout-only fields. It returns the size of the
// symmetric difference of the component sets and of the connection
// sets independently. The result is (0,0) exactly when the states are
// layout-equal, and the function is symmetric in its arguments.
func DiffCanvas(a, b CanvasState) (componentsChanged, connectionsChanged int) {
	componentsChanged = symmetricDiff(componentKeys(a), componentKeys(b))
	connectionsChanged = symmetricDiff(connectionKeys(a), connectionKeys(b))
	return componentsChanged, connectionsChanged
}

func componentKeys(s CanvasState) map[string]int {
	keys := make(map[string]int, len(s.Components))
	for _, c := range s.Components {
		keys[c.structuralKey()]++
	}
	return keys
}

func connectionKeys(s CanvasState) map[string]int {
	keys := make(map[string]int, len(s.Connections))
	for _, c := range s.Connections {
		keys[c.structuralKey()]++
	}
	return keys
}

func symmetricDiff(a, b map[string]int) int {
	n := 0
	for k, ca := range a {
		cb := b[k]
		if ca > cb {
			n += ca - cb
		}
	}
	for k, cb := range b {
		ca := a[k]
		if cb > ca {
			n += cb - ca
		}
	}
	return n
}

// LayoutEqual reports whether two canvas states are the same design,
// allowing positional drift up to tolerance on each axis. Structural
// differences always fail; so does a component moved further than
// tolerance or a connection rerouted through a different number of
// vertices. Tolerance is compared per axis, not as geometric distance.
func LayoutEqual(a, b CanvasState, tolerance float64) bool {
	if c, k := DiffCanvas(a, b); c != 0 || k != 0 {
		return false
	}

	positions := make(map[string]Point, len(a.Components))
	for _, c := range a.Components {
		positions[c.structuralKey()] = c.Position
	}
	for _, c := range b.Components {
		p, ok := positions[c.structuralKey()]
		if !ok {
			return false
		}
		if !withinTolerance(p, c.Position, tolerance) {
			return false
		}
	}

	routes := make(map[string][]Point, len(a.Connections))
	for _, c := range a.Connections {
		routes[c.structuralKey()] = c.Vertices
	}
	for _, c := range b.Connections {
		route, ok := routes[c.structuralKey()]
		if !ok {
			return false
		}
		if len(route) != len(c.Vertices) {
			return false
		}
		for i := range route {
			if !withinTolerance(route[i], c.Vertices[i], tolerance) {
				return false
			}
		}
	}

	return true
}

func withinTolerance(a, b Point, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance
}
