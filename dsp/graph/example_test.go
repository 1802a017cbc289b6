package graph_test

import (
	"fmt"

	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/dsp/graph"
)

func ExampleSeries() {
	a := graph.NewConstant(0.25, 0.5)
	b := graph.NewBinary(graph.OpAdd, 1)

	g, err := graph.Series(a, b)
	if err != nil {
		fmt.Println(err)
		return
	}

	out := make([]float64, g.Outputs())
	g.Tick(nil, out)
	fmt.Println(g, out)

	_, err = graph.Series(b, a)
	fmt.Println(err)
	// Output:
	// graph(in=0, out=1, nodes=2) [0.75]
	// graph: arity mismatch: (2, 1) >> (0, 2)
}

func ExampleGraph_Crossfade() {
	g, _ := graph.New(0, 1)
	g.SetSampleRate(4)
	h, _ := g.Chain(graph.NewConstant(0))
	_ = g.Crossfade(h, fade.Smooth, 1, graph.NewConstant(1))

	out := make([]float64, 1)
	for range 5 {
		g.Tick(nil, out)
		fmt.Printf("%.2f ", out[0])
	}
	fmt.Println()
	// Output:
	// 0.00 0.25 0.50 0.75 1.00
}
