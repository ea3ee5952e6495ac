package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DeviceInfo carries the per-device values the evaluator needs, decoupled
// from how they were read.
type DeviceInfo struct {
	Cur       int
	Max       int
	Type      string
	Subsystem string
}

// minBrightness is the lowest value a "set" may resolve to. Backlights are
// kept at 1 so a typo cannot black out the screen; raw devices with coarse
// ranges and non-backlight subsystems (LEDs) are allowed to reach true off.
func (d DeviceInfo) minBrightness() int {
	if d.Max < 99 && d.Type == "raw" {
		return 0
	}
	if d.Subsystem != "backlight" {
		return 0
	}
	return 1
}

func (d DeviceInfo) clamp(v int) int {
	if v < d.minBrightness() {
		return d.minBrightness()
	}
	if v > d.Max {
		return d.Max
	}
	return v
}

// SetExpr is one parsed branch of the "set" expression grammar.
type SetExpr interface {
	setExpr()
}

// LogStep moves along the logarithmic step table ("+//N" / "-//N").
// Steps carries the direction: negative steps downward.
type LogStep struct {
	Steps int
}

// LinearStep moves along a linear grid of max/Divisor increments
// ("+/N" / "-/N"). Divisor carries the sign character of the prefix.
type LinearStep struct {
	Divisor int
}

// Multiply scales the current brightness ("xF").
type Multiply struct {
	Scale float64
}

// Divide divides the current brightness ("/F").
type Divide struct {
	Scale float64
}

// Offset adjusts relative to the current brightness ("+N" / "-N",
// optionally as a percentage of max).
type Offset struct {
	Delta   float64
	Percent bool
}

// Absolute sets the brightness outright ("N", optionally "N%").
type Absolute struct {
	Value   float64
	Percent bool
}

func (LogStep) setExpr()    {}
func (LinearStep) setExpr() {}
func (Multiply) setExpr()   {}
func (Divide) setExpr()     {}
func (Offset) setExpr()     {}
func (Absolute) setExpr()   {}

// ParseSetExpr parses a raw "set" expression into its variant. Prefixes are
// checked longest-first so "+//3" is a log step, not a linear step over "/3".
func ParseSetExpr(target string) (SetExpr, error) {
	invalid := func() error {
		return fmt.Errorf("%w: %q", ErrInvalidValue, target)
	}

	switch {
	case strings.HasPrefix(target, "+//") || strings.HasPrefix(target, "-//"):
		// The sign character and the step count parse as one integer,
		// so a second sign after the slashes is rejected.
		steps, err := strconv.Atoi(string(target[0]) + target[3:])
		if err != nil {
			return nil, invalid()
		}
		return LogStep{Steps: steps}, nil

	case strings.HasPrefix(target, "+/") || strings.HasPrefix(target, "-/"):
		divisor, err := strconv.Atoi(string(target[0]) + target[2:])
		if err != nil || divisor == 0 {
			return nil, invalid()
		}
		return LinearStep{Divisor: divisor}, nil

	case strings.HasPrefix(target, "x"):
		scale, err := strconv.ParseFloat(target[1:], 64)
		if err != nil {
			return nil, invalid()
		}
		return Multiply{Scale: scale}, nil

	case strings.HasPrefix(target, "/"):
		scale, err := strconv.ParseFloat(target[1:], 64)
		if err != nil {
			return nil, invalid()
		}
		return Divide{Scale: scale}, nil
	}

	num := target
	percent := false
	if strings.HasSuffix(num, "%") {
		percent = true
		num = num[:len(num)-1]
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return nil, invalid()
	}

	if strings.HasPrefix(target, "+") || strings.HasPrefix(target, "-") {
		return Offset{Delta: value, Percent: percent}, nil
	}
	return Absolute{Value: value, Percent: percent}, nil
}

// EvalSet resolves a parsed expression against a device's current state.
// Every branch except the zero-delta short circuit passes through clamp,
// so the result satisfies minBrightness <= v <= Max.
func EvalSet(expr SetExpr, dev DeviceInfo) (int, error) {
	switch e := expr.(type) {
	case LogStep:
		return evalLogStep(e, dev), nil
	case LinearStep:
		return evalLinearStep(e, dev)
	case Multiply:
		v := int(math.Round(float64(dev.Cur) * e.Scale))
		if v == dev.Cur {
			// Never a silent no-op: nudge in the requested direction.
			if e.Scale > 1 {
				v++
			} else if e.Scale < 1 {
				v--
			}
		}
		return dev.clamp(v), nil
	case Divide:
		v := int(math.Round(float64(dev.Cur) / e.Scale))
		if v == dev.Cur {
			if e.Scale > 1 {
				v--
			} else if e.Scale < 1 {
				v++
			}
		}
		return dev.clamp(v), nil
	case Offset:
		return evalNumeric(e.Delta, e.Percent, dev.Cur, dev), nil
	case Absolute:
		return evalNumeric(e.Value, e.Percent, 0, dev), nil
	}
	return 0, fmt.Errorf("%w: unhandled expression %T", ErrInvalidValue, expr)
}

func evalLogStep(e LogStep, dev DeviceInfo) int {
	var v int
	if e.Steps < 0 {
		levels := logSteps(dev.Max, -e.Steps)
		idx := bisectLeft(levels, dev.Cur) - 1
		if idx < 0 {
			idx = 0
		}
		v = levels[idx]
	} else {
		levels := logSteps(dev.Max, e.Steps)
		idx := bisectRight(levels, dev.Cur)
		if idx > len(levels)-1 {
			idx = len(levels) - 1
		}
		v = levels[idx]
	}
	return dev.clamp(v)
}

// evalLinearStep advances along the max/Divisor grid: an on-grid value
// steps by one increment, an off-grid value snaps to the next grid line in
// the increment's direction. The divisor's sign flows into the increment
// via floored division, so "-/N" yields a negative increment and the same
// modulo test steps the other way.
func evalLinearStep(e LinearStep, dev DeviceInfo) (int, error) {
	inc := floorDiv(dev.Max, e.Divisor)
	if inc == 0 {
		return 0, fmt.Errorf("%w: step divisor %d exceeds maximum %d", ErrInvalidValue, e.Divisor, dev.Max)
	}

	var v int
	if floorMod(dev.Cur, inc) == 0 {
		v = dev.Cur + inc
	} else {
		v = dev.Cur - floorMod(dev.Cur, -inc)
	}
	return dev.clamp(v), nil
}

// evalNumeric handles the absolute/relative branch. A value of exactly
// zero returns the base untouched ("set +0" keeps the current level, and
// "set 0" writes 0 even below the backlight floor, matching blight's
// long-standing behavior).
func evalNumeric(value float64, percent bool, base int, dev DeviceInfo) int {
	if percent {
		value *= float64(dev.Max) / 100
	}
	if value == 0 {
		return base
	}
	return dev.clamp(base + int(math.Round(value)))
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod is the modulo paired with floorDiv: the result takes the sign
// of the divisor.
func floorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
