package finance

import (
	"math"
	"testing"
)

func TestProject_StartOnly(t *testing.T) {
	p := New(DefaultRate)
	if got := p.Project(0, 1000, 10); got != 2253 {
		t.Fatalf("Project(0, 1000, 10) = %d, want 2253", got)
	}

	for _, start := range []int64{0, 1, 999, 10_000, 1_234_567} {
		for years := int64(0); years <= 40; years += 7 {
			want := int64(math.Round(float64(start) * math.Pow(1+DefaultRate, float64(years))))
			if got := p.Project(0, start, years); got != want {
				t.Errorf("Project(0, %d, %d) = %d, want %d", start, years, got, want)
			}
		}
	}
}

func TestProject_ZeroYearsIsStart(t *testing.T) {
	p := New(DefaultRate)
	for _, m := range []int64{0, 100, 5_000, 1_000_000} {
		if got := p.Project(m, 0, 0); got != 0 {
			t.Errorf("Project(%d, 0, 0) = %d, want 0", m, got)
		}
		if got := p.Project(m, 4_200, 0); got != 4_200 {
			t.Errorf("Project(%d, 4200, 0) = %d, want 4200", m, got)
		}
	}
}

func TestProject_OneYearOfContributions(t *testing.T) {
	// 12*m*((1+r)-1)/r == 12*m exactly.
	p := New(DefaultRate)
	if got := p.Project(500, 0, 1); got != 6_000 {
		t.Fatalf("Project(500, 0, 1) = %d, want 6000", got)
	}
}

func TestProject_ZeroRate(t *testing.T) {
	p := New(0)
	if got := p.Project(100, 1_000, 5); got != 7_000 {
		t.Fatalf("Project(100, 1000, 5) at r=0 = %d, want 7000", got)
	}
}

func TestProject_NegativeInputsClamp(t *testing.T) {
	p := New(DefaultRate)
	if got := p.Project(-100, -5, -3); got != 0 {
		t.Fatalf("Project(-100, -5, -3) = %d, want 0", got)
	}
}

func TestProject_Monotonic(t *testing.T) {
	p := New(DefaultRate)
	base := [3]int64{300, 20_000, 5}

	for arg := 0; arg < 3; arg++ {
		prev := int64(-1)
		for v := int64(0); v <= 60; v++ {
			in := base
			in[arg] = v * []int64{100, 10_000, 1}[arg]
			got := p.Project(in[0], in[1], in[2])
			if got < prev {
				t.Fatalf("arg %d: Project(%v) = %d < previous %d", arg, in, got, prev)
			}
			prev = got
		}
	}
}

func TestSchedule(t *testing.T) {
	p := New(DefaultRate)
	points := p.Schedule(100, 1_000, 3)
	if len(points) != 4 {
		t.Fatalf("len(Schedule) = %d, want 4", len(points))
	}
	if points[0].Total != 1_000 || points[0].Contributed != 1_000 {
		t.Errorf("year 0 = %+v, want total and contributed 1000", points[0])
	}
	last := points[3]
	if last.Total != p.Project(100, 1_000, 3) {
		t.Errorf("year 3 total = %d, want %d", last.Total, p.Project(100, 1_000, 3))
	}
	if last.Contributed != 1_000+12*100*3 {
		t.Errorf("year 3 contributed = %d, want 4600", last.Contributed)
	}
}
