package veneer

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Curve is a cubic Bézier easing curve with endpoints fixed at (0,0) and
// (1,1). P1 and P2 are the interior control points, each expected to lie in
// the unit square. The zero value is a valid curve: with both control points
// at the endpoints the mapping is the identity.
//
// Evaluating a curve means inverting its x polynomial: given a time ratio x,
// find the Bézier parameter t with x(t) == x, then return y(t). The
// inversion is a closed-form cubic solve, not an iterative search, so a
// single evaluation has a fixed cost regardless of the curve shape.
type Curve struct {
	P1, P2 Vec2
}

// Standard CSS timing curves.
var (
	CurveEase      = Curve{Vec2{0.25, 0.1}, Vec2{0.25, 1}}
	CurveEaseIn    = Curve{Vec2{0.42, 0}, Vec2{1, 1}}
	CurveEaseOut   = Curve{Vec2{0, 0}, Vec2{0.58, 1}}
	CurveEaseInOut = Curve{Vec2{0.42, 0}, Vec2{0.58, 1}}
)

// Evaluate maps a time ratio x in [0, 1] to the curve's value ratio.
// Inputs outside [0, 1] are clamped. The function is deterministic and
// side-effect-free; the geometry stage calls it up to four times per vertex.
func (c Curve) Evaluate(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	// x(t) = (3·p1x − 3·p2x + 1)t³ + (3·p2x − 6·p1x)t² + 3·p1x·t
	root := solveCubic(
		3*c.P1.X-3*c.P2.X+1,
		3*c.P2.X-6*c.P1.X,
		3*c.P1.X,
		-x,
	)
	return bezierAxis(c.P1.Y, c.P2.Y, root.t)
}

// TweenFunc adapts the curve to gween's easing signature so it can drive
// [gween.Tween] values alongside the stock gween/ease functions.
func (c Curve) TweenFunc() ease.TweenFunc {
	return func(t, begin, change, duration float32) float32 {
		if duration <= 0 {
			return begin + change
		}
		return begin + change*float32(c.Evaluate(float64(t/duration)))
	}
}

// bezierAxis evaluates one axis of the Bézier polynomial at parameter t:
// (3·p1 − 3·p2 + 1)t³ + (3·p2 − 6·p1)t² + 3·p1·t.
func bezierAxis(p1, p2, t float64) float64 {
	return ((3*p1-3*p2+1)*t+(3*p2-6*p1))*t*t + 3*p1*t
}

// solveBranch identifies which case of the cubic solve produced a root.
// Exposed on cubicRoot so tests can assert the case analysis directly on
// crafted coefficients rather than only on the numeric output.
type solveBranch uint8

const (
	branchLinear          solveBranch = iota // a == 0, b == 0: c·t + d = 0
	branchNoRealRoot                         // negative quadratic discriminant (or c == 0 above)
	branchQuadraticDouble                    // a == 0, discriminant zero: one root
	branchQuadratic                          // a == 0: two real roots
	branchTripleRoot                         // depressed p == 0, q == 0
	branchPureCube                           // depressed p == 0: s³ = −q
	branchZeroQ                              // depressed q == 0: s(s² + p) = 0
	branchDoubleRoot                         // Δ == 0: double plus simple root
	branchCardano                            // Δ > 0: one real root
	branchTrig                               // Δ < 0: three real roots (Viète)
)

// cubicRoot is the outcome of one cubic (or degraded) solve. clamped is set
// when no candidate root lay in [0, 1] and the principal root was clamped
// into range, the defined degenerate-input fallback.
type cubicRoot struct {
	t       float64
	branch  solveBranch
	clamped bool
}

// solveCubic finds a root of a·t³ + b·t² + c·t + d = 0 inside [0, 1].
//
// Root selection is uniform across branches: the first candidate lying in
// [0, 1] wins; with none in range the principal root is clamped. Well-formed
// easing curves are monotonic in x, so exactly one in-range root is the
// common case and clamping only fires for degenerate control points.
func solveCubic(a, b, c, d float64) cubicRoot {
	if a == 0 {
		return solveQuadratic(b, c, d)
	}

	// Depress: substitute t = s − a1/3 into t³ + a1·t² + b1·t + c1 = 0.
	a1 := b / a
	b1 := c / a
	c1 := d / a
	p := (3*b1 - a1*a1) / 3
	q := (2*a1*a1*a1 - 9*a1*b1 + 27*c1) / 27
	shift := a1 / 3

	if p == 0 {
		if q == 0 {
			// s³ = 0: triple root at the inflection point.
			t, cl := pickRoot(-shift)
			return cubicRoot{t, branchTripleRoot, cl}
		}
		// s³ + q = 0: a single real root.
		t, cl := pickRoot(math.Cbrt(-q) - shift)
		return cubicRoot{t, branchPureCube, cl}
	}
	if q == 0 {
		// s(s² + p) = 0. The ±√(−p) pair only exists for negative p.
		if p > 0 {
			t, cl := pickRoot(-shift)
			return cubicRoot{t, branchZeroQ, cl}
		}
		r := math.Sqrt(-p)
		t, cl := pickRoot(-shift, -r-shift, r-shift)
		return cubicRoot{t, branchZeroQ, cl}
	}

	disc := q*q/4 + p*p*p/27
	switch {
	case disc == 0:
		// One double root and one simple root.
		t, cl := pickRoot(2*math.Cbrt(-q/2)-shift, math.Cbrt(q/2)-shift)
		return cubicRoot{t, branchDoubleRoot, cl}
	case disc > 0:
		// One real root, two complex. math.Cbrt is sign-aware, so the
		// Cardano operands need no special casing for negative values.
		sd := math.Sqrt(disc)
		u := math.Cbrt(-q/2 + sd)
		v := math.Cbrt(q/2 + sd)
		t, cl := pickRoot(u - v - shift)
		return cubicRoot{t, branchCardano, cl}
	default:
		// Irreducible case: three distinct real roots via the
		// trigonometric substitution.
		r := math.Sqrt(-p / 3)
		phi := math.Acos(clamp(-q/(2*r*r*r), -1, 1))
		t1 := 2*r*math.Cos(phi/3) - shift
		t2 := 2*r*math.Cos((phi+2*math.Pi)/3) - shift
		t3 := 2*r*math.Cos((phi+4*math.Pi)/3) - shift
		t, cl := pickRoot(t1, t3, t2)
		return cubicRoot{t, branchTrig, cl}
	}
}

// solveQuadratic handles the a == 0 degradation: b·t² + c·t + d = 0.
func solveQuadratic(b, c, d float64) cubicRoot {
	if b == 0 {
		// Linear: c·t + d = 0.
		if c == 0 {
			// No root at all; 0 is the defined fallback.
			return cubicRoot{0, branchNoRealRoot, false}
		}
		t, cl := pickRoot(-d / c)
		return cubicRoot{t, branchLinear, cl}
	}

	dq := c*c - 4*b*d
	if dq < 0 {
		return cubicRoot{0, branchNoRealRoot, false}
	}
	if dq == 0 {
		t, cl := pickRoot(-c / (2 * b))
		return cubicRoot{t, branchQuadraticDouble, cl}
	}
	sq := math.Sqrt(dq)
	t, cl := pickRoot((-c+sq)/(2*b), (-c-sq)/(2*b))
	return cubicRoot{t, branchQuadratic, cl}
}

// pickRoot returns the first of the secondary candidates lying in [0, 1],
// then the principal root if it is in range, and finally the principal root
// clamped into range. The bool reports whether clamping was needed.
func pickRoot(principal float64, secondary ...float64) (float64, bool) {
	for _, t := range secondary {
		if 0 <= t && t <= 1 {
			return t, false
		}
	}
	if 0 <= principal && principal <= 1 {
		return principal, false
	}
	return clamp(principal, 0, 1), true
}
