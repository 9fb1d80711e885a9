package reactive

import "context"

// CombineLatest2 joins two sources. The output fires once both have
// produced a value and again on every later update to either one. The
// output channel is last-value-wins and closes when ctx ends or any source
// closes.
func CombineLatest2[A, B, R any](ctx context.Context, a <-chan A, b <-chan B, fn func(A, B) R) <-chan R {
	out := make(chan R, 1)
	go func() {
		defer close(out)
		var (
			va     A
			vb     B
			ha, hb bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-a:
				if !ok {
					return
				}
				va, ha = v, true
			case v, ok := <-b:
				if !ok {
					return
				}
				vb, hb = v, true
			}
			if ha && hb {
				offer(out, fn(va, vb))
			}
		}
	}()
	return out
}

// CombineLatest3 is CombineLatest2 over three sources.
func CombineLatest3[A, B, C, R any](ctx context.Context, a <-chan A, b <-chan B, c <-chan C, fn func(A, B, C) R) <-chan R {
	out := make(chan R, 1)
	go func() {
		defer close(out)
		var (
			va         A
			vb         B
			vc         C
			ha, hb, hc bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-a:
				if !ok {
					return
				}
				va, ha = v, true
			case v, ok := <-b:
				if !ok {
					return
				}
				vb, hb = v, true
			case v, ok := <-c:
				if !ok {
					return
				}
				vc, hc = v, true
			}
			if ha && hb && hc {
				offer(out, fn(va, vb, vc))
			}
		}
	}()
	return out
}

// Map applies fn to every value from in.
func Map[A, B any](ctx context.Context, in <-chan A, fn func(A) B) <-chan B {
	out := make(chan B, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				offer(out, fn(v))
			}
		}
	}()
	return out
}
