package stats

import "testing"

func TestCompute(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		d := Compute(nil)
		if d.Min != 0 || d.Max != 0 || d.Avg != 0 {
			t.Errorf("expected zero distribution, got %+v", d)
		}
	})

	t.Run("single value", func(t *testing.T) {
		d := Compute([]float64{42})
		if d.Min != 42 || d.Max != 42 || d.Avg != 42 || d.P99 != 42 {
			t.Errorf("expected all stats 42, got %+v", d)
		}
	})

	t.Run("unsorted input", func(t *testing.T) {
		durations := []float64{500, 100, 300, 200, 400}
		d := Compute(durations)

		if d.Min != 100 {
			t.Errorf("expected min 100, got %f", d.Min)
		}
		if d.Max != 500 {
			t.Errorf("expected max 500, got %f", d.Max)
		}
		if d.Avg != 300 {
			t.Errorf("expected avg 300, got %f", d.Avg)
		}
		if d.P50 != 300 {
			t.Errorf("expected p50 300, got %f", d.P50)
		}

		// Input must not be reordered.
		if durations[0] != 500 {
			t.Error("expected input slice to be left untouched")
		}
	})
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	if p := Percentile(sorted, 90); p != 100 {
		t.Errorf("expected p90 100, got %f", p)
	}
	if p := Percentile(sorted, 50); p != 60 {
		t.Errorf("expected p50 60, got %f", p)
	}
	if p := Percentile(nil, 50); p != 0 {
		t.Errorf("expected 0 for empty input, got %f", p)
	}
}
