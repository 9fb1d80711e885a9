package reveal

import (
	"slices"
	"testing"
)

func TestPermutation_IsPermutation(t *testing.T) {
	for _, n := range []int{1, 2, 7, 24, 100} {
		perm := Permutation(n, 42)
		sorted := slices.Clone(perm)
		slices.Sort(sorted)
		for i, v := range sorted {
			if v != i {
				t.Fatalf("Permutation(%d) = %v is not a permutation", n, perm)
			}
		}
	}
	if Permutation(0, 1) != nil {
		t.Fatal("Permutation(0) should be nil")
	}
}

func TestPermutation_Deterministic(t *testing.T) {
	a := Permutation(32, 1)
	b := Permutation(32, 1)
	if !slices.Equal(a, b) {
		t.Fatalf("same seed produced %v and %v", a, b)
	}

	c := Permutation(32, 2)
	if slices.Equal(a, c) {
		t.Fatalf("seeds 1 and 2 produced the same permutation %v", a)
	}
}

func TestCompute_Counts(t *testing.T) {
	tests := []struct {
		total int64
		price float64
		n     int
		want  int
	}{
		{0, 300_000, 24, 0},
		{12_000, 300_000, 24, 0},
		{13_000, 300_000, 24, 1},
		{150_000, 300_000, 24, 12},
		{300_000, 300_000, 24, 24},
		{9_000_000, 300_000, 24, 24},
		{-5, 300_000, 24, 0},
		{1, 0, 10, 10},
	}
	for _, tt := range tests {
		p := Compute(tt.total, tt.price, tt.n, 1)
		if p.Count() != tt.want {
			t.Errorf("Compute(%d, %.0f, %d).Count() = %d, want %d", tt.total, tt.price, tt.n, p.Count(), tt.want)
		}
		shown := 0
		for i := 0; i < tt.n; i++ {
			if p.Revealed(i) {
				shown++
			}
		}
		if shown != p.Count() {
			t.Errorf("Compute(%d, ...) reveals %d indices, Count() = %d", tt.total, shown, p.Count())
		}
	}
}

func TestCompute_EmptyAsset(t *testing.T) {
	p := Compute(1_000_000, 300_000, 0, 1)
	if p.Len() != 0 || p.Count() != 0 || p.Fraction() != 0 {
		t.Fatalf("empty plan = len %d count %d frac %v", p.Len(), p.Count(), p.Fraction())
	}
	if p.Revealed(0) {
		t.Fatal("empty plan reveals index 0")
	}
}

func TestCompute_StablePrefix(t *testing.T) {
	const (
		price = 1_000_000.0
		n     = 32
		seed  = 1
	)
	prev := Compute(0, price, n, seed)
	for total := int64(0); total <= 1_200_000; total += 7_919 {
		cur := Compute(total, price, n, seed)
		if cur.Count() < prev.Count() {
			t.Fatalf("total %d: Count %d < previous %d", total, cur.Count(), prev.Count())
		}
		for i := 0; i < n; i++ {
			if prev.Revealed(i) && !cur.Revealed(i) {
				t.Fatalf("total %d: submesh %d hidden again", total, i)
			}
		}
		prev = cur
	}
}
