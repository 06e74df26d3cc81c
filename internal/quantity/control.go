// Package quantity implements the +/− quantity selector shared by the cart
// and product detail views. It holds no state: the owner supplies the current
// value and receives every accepted change through OnChange.
package quantity

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const DefaultFloor = 1

type Control struct {
	Floor    int
	OnChange func(int)
}

func NewControl(onChange func(int)) Control {
	return Control{Floor: DefaultFloor, OnChange: onChange}
}

func (c Control) DecrementDisabled(current int) bool {
	return current <= c.Floor
}

// Decrement reports whether the change was accepted.
func (c Control) Decrement(current int) bool {
	if c.DecrementDisabled(current) {
		return false
	}
	c.emit(current - 1)
	return true
}

// Increment is unbounded apart from the int range; at math.MaxInt it is a no-op.
func (c Control) Increment(current int) {
	if current == math.MaxInt {
		return
	}
	c.emit(current + 1)
}

// Input handles direct entry and returns the value passed to OnChange.
func (c Control) Input(raw string) int {
	v := c.Clamp(raw)
	c.emit(v)
	return v
}

// Clamp parses raw the way a number input does (leading integer prefix) and
// falls back to the floor for non-numeric or too-small values.
func (c Control) Clamp(raw string) int {
	n, ok := parseIntPrefix(raw)
	if !ok || n < c.Floor {
		return c.Floor
	}
	return n
}

func (c Control) emit(v int) {
	if c.OnChange != nil {
		c.OnChange(v)
	}
}

func parseIntPrefix(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	// out of range prefixes saturate at math.MaxInt / math.MinInt
	n, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}
