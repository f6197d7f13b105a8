package domain

import (
	"fmt"
	"sort"
	"strings"
)

// MatchKind classifies the fate of one port across two revisions.
// Values are ordered by specificity: an identical port sorts before a
// width change, which sorts before a relabel, which sorts before a
// port present on only one side.
type MatchKind int

const (
	MatchIdentity MatchKind = iota
	MatchWidthChanged
	MatchLabelChanged
	MatchRemoved
	MatchAdded
)

func (k MatchKind) String() string {
	switch k {
	case MatchIdentity:
		return "identity"
	case MatchWidthChanged:
		return "width changed"
	case MatchLabelChanged:
		return "label changed"
	case MatchRemoved:
		return "removed"
	case MatchAdded:
		return "added"
	default:
		return "unknown"
	}
}

// MatchOutcome is the fate of one port when comparing revision A to B.
// NewLabel and NewWidth carry the B-side values where they apply.
type MatchOutcome struct {
	Kind     MatchKind
	NewLabel string
	NewWidth int
}

// MatchPorts matches every old port against the new list and returns
// the outcome per port key. Preference order: exact match, same label
// with a different width, same component ID with a different label,
// and finally removed. Ports present only in the new list appear as
// added.
func MatchPorts(oldPorts, newPorts []PortEntry) map[PortKey]MatchOutcome {
	outcomes := make(map[PortKey]MatchOutcome, len(oldPorts)+len(newPorts))
	matchedNew := make(map[int]bool, len(newPorts))

	for _, old := range oldPorts {
		key := PortKey{Direction: old.Direction, Label: old.Label}
		if i, ok := findPort(newPorts, old.Direction, old.Label, old.Width, ""); ok {
			outcomes[key] = MatchOutcome{Kind: MatchIdentity, NewLabel: old.Label, NewWidth: old.Width}
			matchedNew[i] = true
			continue
		}
		if i, ok := findPort(newPorts, old.Direction, old.Label, -1, ""); ok {
			outcomes[key] = MatchOutcome{Kind: MatchWidthChanged, NewLabel: old.Label, NewWidth: newPorts[i].Width}
			matchedNew[i] = true
			continue
		}
		if i, ok := findPort(newPorts, old.Direction, "", -1, old.ID); ok {
			outcomes[key] = MatchOutcome{Kind: MatchLabelChanged, NewLabel: newPorts[i].Label, NewWidth: newPorts[i].Width}
			matchedNew[i] = true
			continue
		}
		outcomes[key] = MatchOutcome{Kind: MatchRemoved}
	}

	for i, p := range newPorts {
		if matchedNew[i] {
			continue
		}
		key := PortKey{Direction: p.Direction, Label: p.Label}
		if _, taken := outcomes[key]; taken {
			continue
		}
		outcomes[key] = MatchOutcome{Kind: MatchAdded, NewLabel: p.Label, NewWidth: p.Width}
	}

	return outcomes
}

// findPort locates the first port matching the given criteria. A width
// of -1 matches any width; an empty label matches only when a non-empty
// id is given, in which case the id alone decides.
func findPort(ports []PortEntry, dir Direction, label string, width int, id string) (int, bool) {
	for i, p := range ports {
		if p.Direction != dir {
			continue
		}
		if id != "" {
			if p.ID == id {
				return i, true
			}
			continue
		}
		if p.Label != label {
			continue
		}
		if width >= 0 && p.Width != width {
			continue
		}
		return i, true
	}
	return 0, false
}

// PortMatch pairs a port key with its outcome, for ordered display.
type PortMatch struct {
	Key     PortKey
	Outcome MatchOutcome
}

// SignatureComparison partitions every port key seen in either revision
// into those present in both (Common, sorted by outcome specificity)
// and those present in exactly one (Diffs).
type SignatureComparison struct {
	Common []PortMatch
	Diffs  map[PortKey]MatchOutcome
}

// CompareSignatures matches old against new in both directions, unions
// the outcome maps, and splits the keys into the intersection and the
// symmetric difference of the two revisions' key sets.
func CompareSignatures(oldPorts, newPorts []PortEntry) SignatureComparison {
	forward := MatchPorts(oldPorts, newPorts)
	backward := MatchPorts(newPorts, oldPorts)

	oldKeys := keySet(oldPorts)
	newKeys := keySet(newPorts)

	union := make(map[PortKey]MatchOutcome, len(forward)+len(backward))
	for k, v := range backward {
		union[k] = invert(v)
	}
	for k, v := range forward {
		union[k] = v
	}

	cmp := SignatureComparison{Diffs: make(map[PortKey]MatchOutcome)}
	for key, outcome := range union {
		if oldKeys[key] && newKeys[key] {
			cmp.Common = append(cmp.Common, PortMatch{Key: key, Outcome: outcome})
		} else {
			cmp.Diffs[key] = outcome
		}
	}

	sort.Slice(cmp.Common, func(i, j int) bool {
		a, b := cmp.Common[i], cmp.Common[j]
		if a.Outcome.Kind != b.Outcome.Kind {
			return a.Outcome.Kind < b.Outcome.Kind
		}
		if a.Key.Direction != b.Key.Direction {
			return a.Key.Direction < b.Key.Direction
		}
		return a.Key.Label < b.Key.Label
	})

	return cmp
}

// invert maps an outcome computed new-to-old back into the old-to-new
// frame: a port the reverse pass calls removed was in fact added.
func invert(o MatchOutcome) MatchOutcome {
	switch o.Kind {
	case MatchRemoved:
		return MatchOutcome{Kind: MatchAdded, NewLabel: o.NewLabel, NewWidth: o.NewWidth}
	case MatchAdded:
		return MatchOutcome{Kind: MatchRemoved}
	default:
		return o
	}
}

func keySet(ports []PortEntry) map[PortKey]bool {
	set := make(map[PortKey]bool, len(ports))
	for _, p := range ports {
		set[PortKey{Direction: p.Direction, Label: p.Label}] = true
	}
	return set
}

// SignatureKey renders a port list into a canonical comparable string.
func SignatureKey(ports []PortEntry) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%s:%s:%d", p.Direction, p.Label, p.Width)
	}
	return strings.Join(parts, ",")
}
