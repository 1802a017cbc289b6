package delay

import (
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, -1} {
		if _, err := New(size); err == nil {
			t.Fatalf("New(%d) expected error", size)
		}
	}

	if _, err := ForSeconds(-1, 48000); err == nil {
		t.Fatal("ForSeconds(-1) expected error")
	}
}

func TestReadWrite(t *testing.T) {
	t.Parallel()

	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 8 {
		d.Write(float64(i))
	}

	if got := d.Read(1); got != 7 {
		t.Fatalf("Read(1) = %v, want 7", got)
	}
	if got := d.Read(8); got != 0 {
		t.Fatalf("Read(8) = %v, want 0", got)
	}
	if got := d.Read(100); got != 0 {
		t.Fatalf("Read clamps to capacity, got %v", got)
	}
}

func TestReadLinear(t *testing.T) {
	t.Parallel()

	d, _ := New(8)
	d.Write(0)
	d.Write(1)

	// Read(1)=1, Read(2)=0.
	if got := d.ReadLinear(1.5); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("ReadLinear(1.5) = %v, want 0.5", got)
	}
}

func TestProcessDelaysImpulse(t *testing.T) {
	t.Parallel()

	d, _ := ForSeconds(0.01, 1000)
	out := make([]float64, 20)
	for i := range out {
		x := 0.0
		if i == 0 {
			x = 1
		}
		out[i] = d.Process(x, 10)
	}

	for i, y := range out {
		want := 0.0
		if i == 10 {
			want = 1
		}
		if y != want {
			t.Fatalf("out[%d] = %v, want %v", i, y, want)
		}
	}

	d.Reset()
	if d.Read(1) != 0 {
		t.Fatal("Reset must clear history")
	}
}
