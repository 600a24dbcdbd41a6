package veneer

import (
	"math"
	"testing"
)

const evalTol = 1e-6

// forwardX evaluates the curve's x polynomial at parameter t.
func forwardX(c Curve, t float64) float64 {
	return bezierAxis(c.P1.X, c.P2.X, t)
}

// --- Curve.Evaluate ---

func TestEvaluateIdentityCurve(t *testing.T) {
	// Both control points at the endpoints: x(t) == y(t), so y(x) == x.
	c := Curve{Vec2{0, 0}, Vec2{1, 1}}
	for x := 0.0; x <= 1.0; x += 0.01 {
		got := c.Evaluate(x)
		if math.Abs(got-x) > evalTol {
			t.Fatalf("Evaluate(%v) = %v, want %v", x, got, x)
		}
	}
}

func TestEvaluateDiagonalControlPoints(t *testing.T) {
	// Control points on the diagonal give a perfectly linear curve too.
	c := Curve{Vec2{1.0 / 3, 1.0 / 3}, Vec2{2.0 / 3, 2.0 / 3}}
	for x := 0.0; x <= 1.0; x += 0.05 {
		got := c.Evaluate(x)
		if math.Abs(got-x) > evalTol {
			t.Fatalf("Evaluate(%v) = %v, want %v", x, got, x)
		}
	}
}

func TestEvaluateEndpoints(t *testing.T) {
	curves := []Curve{CurveEase, CurveEaseIn, CurveEaseOut, CurveEaseInOut,
		{Vec2{0.9, 0.1}, Vec2{0.1, 0.9}}}
	for _, c := range curves {
		if got := c.Evaluate(0); got != 0 {
			t.Errorf("curve %+v: Evaluate(0) = %v, want 0", c, got)
		}
		if got := c.Evaluate(1); got != 1 {
			t.Errorf("curve %+v: Evaluate(1) = %v, want 1", c, got)
		}
	}
}

func TestEvaluateClampsInput(t *testing.T) {
	c := CurveEaseInOut
	if got := c.Evaluate(-0.5); got != 0 {
		t.Errorf("Evaluate(-0.5) = %v, want 0", got)
	}
	if got := c.Evaluate(1.5); got != 1 {
		t.Errorf("Evaluate(1.5) = %v, want 1", got)
	}
}

// TestEvaluateRoundTrip solves for t across a control-point grid and checks
// that the forward x polynomial reproduces the requested x.
func TestEvaluateRoundTrip(t *testing.T) {
	coords := []float64{0, 0.1, 0.25, 1.0 / 3, 0.5, 2.0 / 3, 0.75, 0.9, 1}
	xs := []float64{0.05, 0.2, 0.35, 0.5, 0.65, 0.8, 0.95}
	for _, p1x := range coords {
		for _, p2x := range coords {
			c := Curve{Vec2{p1x, 0.3}, Vec2{p2x, 0.7}}
			for _, x := range xs {
				root := solveCubic(
					3*c.P1.X-3*c.P2.X+1,
					3*c.P2.X-6*c.P1.X,
					3*c.P1.X,
					-x,
				)
				if root.clamped {
					// Degenerate control points may have no in-range
					// root; the clamp fallback is exercised elsewhere.
					continue
				}
				back := forwardX(c, root.t)
				if math.Abs(back-x) > 1e-5 {
					t.Fatalf("p1x=%v p2x=%v: x=%v solved t=%v (branch %d) maps back to %v",
						p1x, p2x, x, root.t, root.branch, back)
				}
			}
		}
	}
}

func TestEvaluateMonotonic(t *testing.T) {
	// A well-formed curve must be non-decreasing in x.
	curves := []Curve{CurveEase, CurveEaseIn, CurveEaseOut, CurveEaseInOut}
	for _, c := range curves {
		prev := 0.0
		for x := 0.0; x <= 1.0; x += 0.01 {
			y := c.Evaluate(x)
			if y < prev-evalTol {
				t.Fatalf("curve %+v not monotonic: y(%v)=%v < %v", c, x, y, prev)
			}
			prev = y
		}
	}
}

// --- solveCubic branch coverage ---

func TestSolveCubicBranches(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d float64
		branch     solveBranch
		root       float64
	}{
		// t − 0.5 = 0
		{"linear", 0, 0, 1, -0.5, branchLinear, 0.5},
		// t² + 1 = 0 has no real root; fallback 0.
		{"no real root", 0, 1, 0, 1, branchNoRealRoot, 0},
		// (t − 0.5)² = t² − t + 0.25
		{"quadratic double", 0, 1, -1, 0.25, branchQuadraticDouble, 0.5},
		// (t − 0.25)(t − 2) = t² − 2.25t + 0.5
		{"quadratic", 0, 1, -2.25, 0.5, branchQuadratic, 0.25},
		// (t − 0.5)³ expanded: depressed form has p == 0, q == 0.
		{"triple root", 1, -1.5, 0.75, -0.125, branchTripleRoot, 0.5},
		// t³ − 0.125: already depressed, p == 0, q != 0.
		{"pure cube", 1, 0, 0, -0.125, branchPureCube, 0.5},
		// t³ − 0.25t = t(t − 0.5)(t + 0.5): depressed with q == 0.
		{"zero q", 1, 0, -0.25, 0, branchZeroQ, 0.5},
		// (t − 1)²(t + 2) = t³ − 3t + 2: Δ == 0.
		{"double root", 1, 0, -3, 2, branchDoubleRoot, 1},
		// t³ + t − 0.625 has Δ > 0: single real root at 0.5.
		{"cardano", 1, 0, 1, -0.625, branchCardano, 0.5},
		// (t − 0.2)(t − 0.5)(t − 3): three real roots, Δ < 0.
		{"trigonometric", 1, -3.7, 2.2, -0.3, branchTrig, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := solveCubic(tt.a, tt.b, tt.c, tt.d)
			if got.branch != tt.branch {
				t.Fatalf("branch = %d, want %d", got.branch, tt.branch)
			}
			if math.Abs(got.t-tt.root) > 1e-6 {
				t.Errorf("t = %v, want %v", got.t, tt.root)
			}
		})
	}
}

func TestSolveCubicPrefersInRangeRoot(t *testing.T) {
	// (t − 0.5)(t − 3)(t + 4) = t³ + 0.5t² − 12.5t + 6: only one root in
	// [0, 1]; the solver must pick it, not the larger ones.
	got := solveCubic(1, 0.5, -12.5, 6)
	if got.clamped {
		t.Fatal("root should not be clamped")
	}
	if math.Abs(got.t-0.5) > 1e-9 {
		t.Errorf("t = %v, want 0.5", got.t)
	}
}

func TestSolveCubicClampFallback(t *testing.T) {
	// (t − 2)(t − 3)(t − 4): all roots above 1; the principal root is
	// clamped into range instead of failing.
	got := solveCubic(1, -9, 26, -24)
	if !got.clamped {
		t.Fatal("expected clamp fallback")
	}
	if got.t != 1 {
		t.Errorf("t = %v, want 1", got.t)
	}
}

// --- gween adapter ---

func TestTweenFunc(t *testing.T) {
	fn := Curve{Vec2{0, 0}, Vec2{1, 1}}.TweenFunc()
	// Identity curve: halfway through the duration is halfway through the
	// value range.
	got := fn(1, 10, 20, 2)
	if math.Abs(float64(got)-20) > 1e-4 {
		t.Errorf("fn(1, 10, 20, 2) = %v, want 20", got)
	}
	if got := fn(2, 10, 20, 2); got != 30 {
		t.Errorf("fn at end = %v, want 30", got)
	}
	if got := fn(0.5, 0, 1, 0); got != 1 {
		t.Errorf("zero duration should jump to the end, got %v", got)
	}
}
