package domain

import "sort"

// DependentsKind is the closed set of shapes a dependents analysis
// can take.
type DependentsKind int

const (
	// NoDependents means no other sheet embeds the target.
	NoDependents DependentsKind = iota
	// SingleSignature means every embedding carries the same signature
	// snapshot.
	SingleSignature
	// MixedSignatures means embeddings disagree about the target's
	// interface.
	MixedSignatures
)

func (k DependentsKind) String() string {
	switch k {
	case NoDependents:
		return "no dependents"
	case SingleSignature:
		return "single signature"
	case MixedSignatures:
		return "mixed signatures"
	default:
		return "unknown"
	}
}

// DependentInstance is one placement of a custom component referencing
// the sheet under analysis.
type DependentInstance struct {
	Owner       string // sheet containing the placement
	ComponentID string
	Signature   []PortEntry // snapshot embedded at placement time
}

// DependentsInfo reports which sheets embed a target sheet. For a
// single agreed signature the full instance list is carried; when
// signatures disagree only per-owner instance counts are reported,
// which is the granularity a caller can act on.
type DependentsInfo struct {
	Kind      DependentsKind
	Signature []PortEntry
	Instances []DependentInstance
	PerOwner  map[string]int
}

// FindDependents scans every sheet in the project for custom components
// referencing target and groups them by the embedded signature. The
// project is never mutated; rewriting stale embeddings is left to the
// PortRewriter extension point.
func FindDependents(p *Project, target string) DependentsInfo {
	var instances []DependentInstance
	for _, sheet := range p.Sheets {
		for _, c := range sheet.Canvas.Components {
			if c.Kind != KindCustom || c.RefSheet != target {
				continue
			}
			instances = append(instances, DependentInstance{
				Owner:       sheet.Name,
				ComponentID: c.ID,
				Signature:   c.RefPorts,
			})
		}
	}

	if len(instances) == 0 {
		return DependentsInfo{Kind: NoDependents}
	}

	bySignature := make(map[string][]DependentInstance)
	for _, inst := range instances {
		key := SignatureKey(inst.Signature)
		bySignature[key] = append(bySignature[key], inst)
	}

	if len(bySignature) == 1 {
		sort.Slice(instances, func(i, j int) bool {
			if instances[i].Owner != instances[j].Owner {
				return instances[i].Owner < instances[j].Owner
			}
			return instances[i].ComponentID < instances[j].ComponentID
		})
		return DependentsInfo{
			Kind:      SingleSignature,
			Signature: instances[0].Signature,
			Instances: instances,
		}
	}

	perOwner := make(map[string]int)
	for _, inst := range instances {
		perOwner[inst.Owner]++
	}
	return DependentsInfo{Kind: MixedSignatures, PerOwner: perOwner}
}
