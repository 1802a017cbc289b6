package graph

// counter emits 0, 1, 2, ... and has no inputs.
type counter struct {
	n float64
}

func (c *counter) Inputs() int  { return 0 }
func (c *counter) Outputs() int { return 1 }

func (c *counter) Tick(_, out []float64) {
	out[0] = c.n
	c.n++
}

func (c *counter) Reset()                { c.n = 0 }
func (c *counter) SetSampleRate(float64) {}
func (c *counter) Clone() Unit           { return &counter{n: c.n} }

// gain scales n inputs.
type gain struct {
	k float64
	n int
}

func (g *gain) Inputs() int  { return g.n }
func (g *gain) Outputs() int { return g.n }

func (g *gain) Tick(in, out []float64) {
	for i := range out {
		out[i] = in[i] * g.k
	}
}

func (g *gain) Reset()                {}
func (g *gain) SetSampleRate(float64) {}
func (g *gain) Clone() Unit           { return &gain{k: g.k, n: g.n} }

// shape is a unit with arbitrary arity that outputs zeros.
type shape struct {
	in, out int
}

func (s shape) Inputs() int           { return s.in }
func (s shape) Outputs() int          { return s.out }
func (s shape) Tick(_, out []float64) { clear(out) }
func (s shape) Reset()                {}
func (s shape) SetSampleRate(float64) {}
func (s shape) Clone() Unit           { return s }

func tickN(u Unit, frames int, in ...float64) [][]float64 {
	if in == nil {
		in = make([]float64, u.Inputs())
	}
	rows := make([][]float64, frames)
	for i := range rows {
		rows[i] = make([]float64, u.Outputs())
		u.Tick(in, rows[i])
	}
	return rows
}

func column(rows [][]float64, ch int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r[ch]
	}
	return out
}

// rated records the last rate it was given.
type rated struct {
	rate float64
}

func (r *rated) Inputs() int                { return 0 }
func (r *rated) Outputs() int               { return 1 }
func (r *rated) Tick(_, out []float64)      { out[0] = r.rate }
func (r *rated) Reset()                     {}
func (r *rated) SetSampleRate(rate float64) { r.rate = rate }
func (r *rated) SampleRate() float64        { return r.rate }
func (r *rated) Clone() Unit                { return &rated{rate: r.rate} }
