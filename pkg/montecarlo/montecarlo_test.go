package montecarlo

import (
	"math"
	"testing"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// fixedSampler replays a list of values
type fixedSampler struct {
	values []float64
	next   int
}

func (s *fixedSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.Get1D(), s.Get1D())
}

func (s *fixedSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}

func TestEstimatePi(t *testing.T) {
	var reports []PiEstimate
	result := EstimatePi(300, core.NewSeededSampler(1), func(e PiEstimate) {
		reports = append(reports, e)
	})

	if result.Samples != 300*300 {
		t.Errorf("Expected %d samples, got %d", 300*300, result.Samples)
	}
	if math.Abs(result.Regular-math.Pi) > 0.05 {
		t.Errorf("Regular estimate %f too far from pi", result.Regular)
	}
	// Stratification keeps the error near the circle's boundary cells
	if math.Abs(result.Stratified-math.Pi) > 0.005 {
		t.Errorf("Stratified estimate %f too far from pi", result.Stratified)
	}

	// Reports at j = 0, 100, 200 of each of 300 rows
	if len(reports) != 900 {
		t.Fatalf("Expected 900 progress reports, got %d", len(reports))
	}
	if reports[0].Samples != 1 || reports[1].Samples != 101 || reports[3].Samples != 301 {
		t.Errorf("Unexpected report sample counts %d, %d, %d", reports[0].Samples, reports[1].Samples, reports[3].Samples)
	}
}

func TestEstimatePiEmpty(t *testing.T) {
	if got := EstimatePi(0, core.NewSeededSampler(1), nil); got != (PiEstimate{}) {
		t.Errorf("Expected a zero estimate, got %+v", got)
	}
}

func TestIntegrate(t *testing.T) {
	const exact = 8.0 / 3.0

	t.Run("perfect importance sampling has no variance", func(t *testing.T) {
		got := Integrate(10, core.NewSeededSampler(3), SquareICD, SquarePDF, Square)
		if math.Abs(got-exact) > 1e-9 {
			t.Errorf("Expected %f, got %f", exact, got)
		}
	})

	t.Run("uniform sampling converges", func(t *testing.T) {
		got := Integrate(100000, core.NewSeededSampler(3), UniformICD, UniformPDF, Square)
		if math.Abs(got-exact) > 0.05 {
			t.Errorf("Expected about %f, got %f", exact, got)
		}
	})

	t.Run("zero draws are counted but skipped", func(t *testing.T) {
		sampler := &fixedSampler{values: []float64{0, 0.5}}
		got := Integrate(2, sampler, SquareICD, SquarePDF, Square)
		if math.Abs(got-exact/2) > 1e-9 {
			t.Errorf("Expected %f, got %f", exact/2, got)
		}
	})

	if got := Integrate(0, core.NewSeededSampler(3), SquareICD, SquarePDF, Square); got != 0 {
		t.Errorf("Expected 0 for no draws, got %f", got)
	}
}
