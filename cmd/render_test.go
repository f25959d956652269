package cmd

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/df07/go-bvh-pathtracer/pkg/montecarlo"
)

func TestParseOverrides(t *testing.T) {
	got, err := parseOverrides([]string{
		"camera.vfov=30",
		"objects.0.radius=0.25",
		"render.bvh=true",
		"render.mode=depth",
		"objects.1.material=glass=clear",
		"render.depth=1",
	})
	if err != nil {
		t.Fatalf("parseOverrides failed: %v", err)
	}

	want := map[string]any{
		"camera.vfov":        int64(30),
		"objects.0.radius":   0.25,
		"render.bvh":         true,
		"render.mode":        "depth",
		"objects.1.material": "glass=clear",
		"render.depth":       int64(1),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overrides mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOverridesMalformed(t *testing.T) {
	for _, pair := range []string{"vfov", "=30"} {
		if _, err := parseOverrides([]string{pair}); err == nil {
			t.Errorf("Expected an error for %q", pair)
		}
	}
}

func TestPiTrace(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	trace, err := piTrace(w)
	if err != nil {
		t.Fatalf("piTrace failed: %v", err)
	}
	trace(montecarlo.PiEstimate{Samples: 100, Regular: 3.2, Stratified: 3.12})
	w.Flush()

	want := "samples,regular,stratified\n100,3.200000000000,3.120000000000\n"
	if got := buf.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestWriteIntegral(t *testing.T) {
	var buf bytes.Buffer
	writeIntegral(&buf, 10, 2.5, 8.0/3.0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"N = 10, exact I = 2.666666666667",
		"Uniform I = 2.500000000000",
		"Importance I = 2.666666666667",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
}
