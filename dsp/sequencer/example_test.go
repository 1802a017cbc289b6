package sequencer_test

import (
	"fmt"

	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/sequencer"
)

func ExampleSequencer_Push() {
	seq, _ := sequencer.New(false, 1, sequencer.WithSampleRate(10))

	_, err := seq.Push(0, 1, fade.Smooth, 1.5, 0.1, graph.NewConstant(1))
	fmt.Println(err)

	h, _ := seq.Push(0, 1, fade.Smooth, 0.2, 0.2, graph.NewConstant(1))
	b := seq.Backend()
	out := make([]float64, 1)
	for range 10 {
		b.Tick(nil, out)
		fmt.Printf("%.1f ", out[0])
	}
	b.Tick(nil, out)
	st, _ := seq.State(h)
	fmt.Println(st)

	// Output:
	// sequencer: fade exceeds event duration: fade-in 1.5, duration 1
	// 0.0 0.5 1.0 1.0 1.0 1.0 1.0 1.0 1.0 0.5 finished
}
