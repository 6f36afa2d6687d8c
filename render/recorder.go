package render

import "image/color"

// Op is one recorded surface call
type Op struct {
	Name  string
	Color color.NRGBA
	Blend BlendMode
	Arcs  int // Subpaths filled, set on "fill"
}

// Recorder is a Surface that counts calls instead of drawing
// Used by the headless benchmark and by tests
type Recorder struct {
	StateStack

	W, H int

	// LayerErr makes NewLayer fail when set
	LayerErr error
	// KeepOps retains every call in Ops
	KeepOps bool

	Ops       []Op
	Fills     int
	Arcs      int
	Clears    int
	Blits     int
	FillSets  int
	BlendSets int
	Layers    int

	pathArcs int
}

// NewRecorder creates a recorder of the given size
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) record(op Op) {
	if r.KeepOps {
		r.Ops = append(r.Ops, op)
	}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear() {
	r.Clears++
	r.record(Op{Name: "clear"})
}

func (r *Recorder) Save() {
	r.StateStack.Save()
	r.record(Op{Name: "save"})
}

func (r *Recorder) Restore() {
	r.StateStack.Restore()
	r.record(Op{Name: "restore"})
}

func (r *Recorder) SetFillColor(c color.NRGBA) {
	r.Current.Fill = c
	r.FillSets++
	r.record(Op{Name: "fill-color", Color: c})
}

func (r *Recorder) SetStrokeColor(c color.NRGBA) {
	r.Current.Stroke = c
	r.record(Op{Name: "stroke-color", Color: c})
}

func (r *Recorder) SetBlendMode(m BlendMode) {
	r.Current.Blend = m
	r.BlendSets++
	r.record(Op{Name: "blend", Blend: m})
}

func (r *Recorder) BeginPath() {
	r.pathArcs = 0
}

func (r *Recorder) Arc(x, y, radius, start, end float64) {
	r.pathArcs++
	r.Arcs++
}

func (r *Recorder) ClosePath() {}

func (r *Recorder) Fill() {
	r.Fills++
	r.record(Op{Name: "fill", Color: r.Current.Fill, Blend: r.Current.Blend, Arcs: r.pathArcs})
}

func (r *Recorder) DrawSurface(src Surface, x, y float64) {
	r.Blits++
	r.record(Op{Name: "blit", Blend: r.Current.Blend})
}

// NewLayer returns a child recorder, or LayerErr when set
func (r *Recorder) NewLayer(w, h int) (Surface, error) {
	if r.LayerErr != nil {
		return nil, r.LayerErr
	}
	r.Layers++
	return &Recorder{W: w, H: h, KeepOps: r.KeepOps}, nil
}

// Reset clears counters and recorded ops
func (r *Recorder) Reset() {
	ops := r.Ops[:0]
	*r = Recorder{W: r.W, H: r.H, LayerErr: r.LayerErr, KeepOps: r.KeepOps, Ops: ops}
}
