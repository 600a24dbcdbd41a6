package veneer

import (
	"github.com/tanema/gween"
)

// Channel animates one scalar of an instance (width, height, x, or y)
// between its base value and Target over the [Start, End] time window,
// shaped by an easing curve. A channel with Start == End is static: the base
// value passes through untouched for any time, and the easing evaluator is
// never consulted.
//
// Channels never extrapolate — before Start the base value holds, after End
// the target value holds.
type Channel struct {
	Start, End float64 // window in seconds on the host's clock
	Target     float64
	Curve      Curve
}

// Static reports whether the channel leaves its value unanimated.
func (ch Channel) Static() bool {
	return ch.Start == ch.End
}

// Value resolves the channel at the given time against a base value.
func (ch Channel) Value(base, now float64) float64 {
	if ch.Static() {
		return base
	}
	r := ch.Curve.Evaluate(clamp((now-ch.Start)/(ch.End-ch.Start), 0, 1))
	return lerp(base, ch.Target, r)
}

// ColorChannel animates an RGBA tint toward Target through an easing curve,
// the color analogue of [Channel]. All four components share one window and
// one curve.
type ColorChannel struct {
	Start, End float64
	Target     Color
	Curve      Curve
}

// Static reports whether the channel leaves the tint unanimated.
func (ch ColorChannel) Static() bool {
	return ch.Start == ch.End
}

// Value resolves the channel at the given time against a base color.
func (ch ColorChannel) Value(base Color, now float64) Color {
	if ch.Static() {
		return base
	}
	r := ch.Curve.Evaluate(clamp((now-ch.Start)/(ch.End-ch.Start), 0, 1))
	return base.Lerp(ch.Target, r)
}

// TweenGroup animates up to 4 float64 fields of an [Instance] with gween
// tweens, for the properties the declarative channels don't cover (opacity,
// tint components). Call Update(dt) each frame.
//
// There is no global animation manager — callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. Once every tween has finished, Done is set and Update becomes a
// no-op.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenOpacity creates a TweenGroup animating an instance's opacity to the
// given value over duration seconds, shaped by the curve.
func TweenOpacity(inst *Instance, to float64, duration float32, curve Curve) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(inst.Opacity), float32(to), duration, curve.TweenFunc())
	g.fields[0] = &inst.Opacity
	return g
}

// TweenTint creates a TweenGroup animating all four components of an
// instance's tint to the target color over duration seconds.
func TweenTint(inst *Instance, to Color, duration float32, curve Curve) *TweenGroup {
	fn := curve.TweenFunc()
	g := &TweenGroup{count: 4}
	g.tweens[0] = gween.New(float32(inst.Tint.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(inst.Tint.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(inst.Tint.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(inst.Tint.A), float32(to.A), duration, fn)
	g.fields[0] = &inst.Tint.R
	g.fields[1] = &inst.Tint.G
	g.fields[2] = &inst.Tint.B
	g.fields[3] = &inst.Tint.A
	return g
}
