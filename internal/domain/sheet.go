package domain

import "time"

// Direction marks a port as an input or output of its sheet.
type Direction int

const (
	DirInput Direction = iota
	DirOutput
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "in"
	case DirOutput:
		return "out"
	default:
		return "unknown"
	}
}

// PortEntry is one named, width-tagged port of a sheet's interface.
// ID ties the port to the canvas component that defines it, so a
// relabeled port can still be recognized across revisions.
type PortEntry struct {
	Direction Direction `json:"direction"`
	Label     string    `json:"label"`
	Width     int       `json:"width"`
	ID        string    `json:"id,omitempty"`
}

// PortKey identifies a port within one revision of a signature.
type PortKey struct {
	Direction Direction
	Label     string
}

// Point is a canvas coordinate. Layout-only.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ComponentKind is the closed set of component variants a canvas holds.
type ComponentKind int

const (
	KindInput ComponentKind = iota
	KindOutput
	KindCustom
	KindOther
)

func (k ComponentKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	case KindCustom:
		return "custom"
	default:
		return "other"
	}
}

// ComponentRecord is one placed component. Position is layout-only;
// everything else is structural.
type ComponentRecord struct {
	ID       string        `json:"id"`
	Kind     ComponentKind `json:"kind"`
	Label    string        `json:"label"`
	Width    int           `json:"width,omitempty"`     // input/output ports
	RefSheet string        `json:"ref_sheet,omitempty"` // custom: referenced sheet name
	RefPorts []PortEntry   `json:"ref_ports,omitempty"` // custom: signature snapshot at placement
	Position Point         `json:"position"`
}

// ConnectionRecord is one wire between two components. Vertices are
// layout-only routing points.
type ConnectionRecord struct {
	ID       string  `json:"id"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Vertices []Point `json:"vertices,omitempty"`
}

// CanvasState is the structural content of a sheet, independent of
// on-screen placement.
type CanvasState struct {
	Components  []ComponentRecord  `json:"components"`
	Connections []ConnectionRecord `json:"connections"`
}

// WaveInfo carries recorded trace metadata persisted alongside a sheet.
type WaveInfo struct {
	Signals        []string      `json:"signals"`
	SampleInterval time.Duration `json:"sample_interval"`
}

// Sheet is one named design unit: canvas content, ports, and the file
// it persists to.
type Sheet struct {
	Name      string      `json:"name"`
	FilePath  string      `json:"-"`
	TimeStamp time.Time   `json:"timestamp"`
	Canvas    CanvasState `json:"canvas"`
	Inputs    []PortEntry `json:"inputs"`
	Outputs   []PortEntry `json:"outputs"`
	Wave      *WaveInfo   `json:"wave,omitempty"`
}

// Signature returns the sheet's full interface: inputs followed by outputs.
func (s *Sheet) Signature() []PortEntry {
	sig := make([]PortEntry, 0, len(s.Inputs)+len(s.Outputs))
	sig = append(sig, s.Inputs...)
	sig = append(sig, s.Outputs...)
	return sig
}

// SameInterface reports whether two sheets expose the same ports, in
// the same order, with the same widths.
func (s *Sheet) SameInterface(o *Sheet) bool {
	return samePorts(s.Inputs, o.Inputs) && samePorts(s.Outputs, o.Outputs)
}

func samePorts(a, b []PortEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Direction != b[i].Direction || a[i].Label != b[i].Label || a[i].Width != b[i].Width {
			return false
		}
	}
	return true
}

// Project is an open set of sheets. Invariants: sheet names are unique,
// at least one sheet exists, and OpenSheet names an existing sheet.
type Project struct {
	Path      string
	OpenSheet string
	Sheets    map[string]*Sheet
}
