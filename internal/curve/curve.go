// Package curve evaluates keyframe interpolation curves.
//
// All arithmetic is float32 so that converted data matches what players
// built against the same tables compute at runtime.
package curve

import (
	"fmt"
	"strings"

	"github.com/ivlev/ssconv/internal/errkind"
)

// Type is an interpolation family.
type Type int

const (
	None Type = iota
	Linear
	Hermite
	Bezier
)

// bezierIterations bounds the bisection used to invert the Bezier X
// coordinate. Changing it changes produced output.
const bezierIterations = 8

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	case Bezier:
		return "bezier"
	default:
		return fmt.Sprintf("curve(%d)", int(t))
	}
}

// Valid reports whether t is one of the known families.
func (t Type) Valid() bool {
	return t >= None && t <= Bezier
}

// ParseType maps a curve name to its Type. Matching is case-insensitive and
// the empty string means None.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "step":
		return None, nil
	case "linear":
		return Linear, nil
	case "hermite":
		return Hermite, nil
	case "bezier":
		return Bezier, nil
	}
	return None, errkind.New(errkind.UnresolvedCurve, "unknown curve type %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, errkind.New(errkind.UnresolvedCurve, "unknown curve type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Curve is the interpolation attached to a keyframe. StartT/StartV and
// EndT/EndV are only used by Hermite (values) and Bezier (both); for Bezier
// they are offsets from the forward and backward key points.
type Curve struct {
	Type   Type
	StartT float32
	StartV float32
	EndT   float32
	EndV   float32
}

// Params describes one interpolation between two keyframes.
type Params struct {
	Ratio         float32
	Curve         Curve
	ForwardFrame  int
	BackwardFrame int
}

// Ratio returns the normalized position of frame between two key frames,
// clamped to [0,1].
func Ratio(forwardFrame, backwardFrame, frame int) float32 {
	if backwardFrame <= forwardFrame {
		return 0
	}
	r := float32(frame-forwardFrame) / float32(backwardFrame-forwardFrame)
	if r < 0 {
		r = 0
	}
	if r > 1 {
		r = 1
	}
	return r
}

// Evaluate interpolates between the forward and backward values.
//
// At ratio 0 every family returns fwd and at ratio 1 every family except
// None returns bwd, independent of float rounding in the curve formulas.
func Evaluate(p Params, fwd, bwd float32) (float32, error) {
	if !p.Curve.Type.Valid() {
		return 0, errkind.New(errkind.UnresolvedCurve, "unknown curve type %d", int(p.Curve.Type))
	}
	if p.Curve.Type == None || p.Ratio <= 0 {
		return fwd, nil
	}
	if p.Ratio >= 1 {
		return bwd, nil
	}

	switch p.Curve.Type {
	case Linear:
		return linear(p.Ratio, fwd, bwd), nil
	case Hermite:
		return hermite(p.Ratio, p.Curve, fwd, bwd), nil
	default:
		return bezier(p, fwd, bwd), nil
	}
}

// EvaluateColor interpolates an 8-bit color channel.
func EvaluateColor(p Params, fwd, bwd uint8) (uint8, error) {
	v, err := Evaluate(p, float32(fwd), float32(bwd))
	if err != nil {
		return 0, err
	}
	return Clip(v), nil
}

// Clip rounds half up and clamps into [0,255].
func Clip(v float32) uint8 {
	i := int(v + 0.5)
	if i <= 0 {
		return 0
	}
	if i >= 255 {
		return 255
	}
	return uint8(i)
}

func linear(t, fwd, bwd float32) float32 {
	return (bwd-fwd)*t + fwd
}

func hermite(t float32, c Curve, fwd, bwd float32) float32 {
	t2 := t * t
	t3 := t2 * t
	return (2*t3-3*t2+1)*fwd +
		(-2*t3+3*t2)*bwd +
		(t3-2*t2+t)*(c.StartV-fwd) +
		(t3-t2)*(c.EndV-bwd)
}

// bezier finds the curve parameter whose X coordinate matches the target
// frame by bisection, then evaluates Y there.
func bezier(p Params, fwd, bwd float32) float32 {
	fwdF := float32(p.ForwardFrame)
	bwdF := float32(p.BackwardFrame)
	pos := (bwdF-fwdF)*p.Ratio + fwdF

	cur := float32(0.5)
	step := float32(0.5)
	for i := 0; i < bezierIterations; i++ {
		x := cubic(cur, fwdF, p.Curve.StartT+fwdF, p.Curve.EndT+bwdF, bwdF)
		step *= 0.5
		if x > pos {
			cur -= step
		} else {
			cur += step
		}
	}
	return cubic(cur, fwd, p.Curve.StartV+fwd, p.Curve.EndV+bwd, bwd)
}

func cubic(u, p0, p1, p2, p3 float32) float32 {
	t1 := 1 - u
	t2 := t1 * t1
	t3 := t2 * t1
	return t3*p0 + 3*t2*u*p1 + 3*t1*u*u*p2 + u*u*u*p3
}
