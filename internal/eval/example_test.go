package eval_test

import (
	"fmt"

	"github.com/cwbudde/algo-livecode/internal/eval"
)

func ExampleEvaluator_Run() {
	e := eval.New()
	outs, _ := e.Run(`
		let a = oscillator_hz(220);
		let c = a + sine_hz(330);
		c.outputs();
		let x = [1, 2, 3];
		x[1] = 5;
		x;
		x[9] = 1;
	`)

	for _, o := range outs {
		switch {
		case o.Err != nil:
			fmt.Println("error:", o.Err)
		case o.Text != "":
			fmt.Println(o.Text)
		}
	}
	// Output:
	// 1
	// [1, 5, 3]
	// error: eval: bad index: 9 not in [0, 3)
}
