package timing

// Animation types reported by the extractor.
const (
	TypeInterpolate = "interpolate"
	TypeSpring      = "spring"
	TypeCounter     = "counter"
)

// ContextUnknown marks an animation whose surrounding code gave no
// usable hint about what it animates.
const ContextUnknown = "unknown"

// Animation is one extracted animation call with its frame range and
// value range resolved against the symbol table. Nil fields could not
// be resolved statically and serialize as null; a null is
// "unresolvable", never zero.
type Animation struct {
	Type       string   `json:"type"`
	Property   string   `json:"property"`
	StartFrame *float64 `json:"start_frame"`
	EndFrame   *float64 `json:"end_frame"`
	From       *float64 `json:"from"`
	To         *float64 `json:"to"`
	Context    string   `json:"context"`
}

// Report is the document the scenetimings tool prints. Phases maps
// every constant declared in the source to its folded value, null for
// the ones that depend on runtime state. Errors lists non-fatal notes
// about calls the extractor saw but could not fully resolve.
type Report struct {
	SourceFile       string              `json:"source_file"`
	DurationInFrames int                 `json:"duration_in_frames"`
	FPS              float64             `json:"fps"`
	Animations       []Animation         `json:"animations"`
	Phases           map[string]*float64 `json:"phases"`
	Errors           []string            `json:"errors"`
}
