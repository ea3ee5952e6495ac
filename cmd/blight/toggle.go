package main

import (
	"fmt"
	"strconv"
	"strings"
)

// EvalToggle computes the "toggle" target.
//
// No expression cycles through every level, wrapping past max to 0. A
// signed expression shifts by that amount with the same wraparound. An
// unsigned expression is a plain literal, except that toggling to the value
// the device already shows turns it off instead — that is what makes
// "toggle 255" on an LED behave like an on/off switch.
func EvalToggle(target string, dev DeviceInfo) (int, error) {
	if target == "" {
		return floorMod(dev.Cur+1, dev.Max+1), nil
	}

	value, err := strconv.Atoi(target)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid toggle value %q", ErrInvalidValue, target)
	}

	if strings.HasPrefix(target, "+") || strings.HasPrefix(target, "-") {
		return floorMod(dev.Cur+value, dev.Max+1), nil
	}
	if value == dev.Cur {
		return 0, nil
	}
	return value, nil
}
