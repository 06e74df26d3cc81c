package quantity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	values []int
}

func (r *recorder) onChange(v int) {
	r.values = append(r.values, v)
}

func TestDecrement_AtFloorIsNoop(t *testing.T) {
	rec := &recorder{}
	c := NewControl(rec.onChange)

	assert.True(t, c.DecrementDisabled(1))
	assert.False(t, c.Decrement(1))
	assert.Empty(t, rec.values)
}

func TestDecrement_AboveFloor(t *testing.T) {
	rec := &recorder{}
	c := NewControl(rec.onChange)

	assert.False(t, c.DecrementDisabled(3))
	assert.True(t, c.Decrement(3))
	assert.Equal(t, []int{2}, rec.values)
}

func TestIncrement_Unbounded(t *testing.T) {
	rec := &recorder{}
	c := NewControl(rec.onChange)

	c.Increment(1)
	c.Increment(999999)
	c.Increment(math.MaxInt)
	assert.Equal(t, []int{2, 1000000}, rec.values)
}

func TestInput(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"7", 7},
		{"abc", 1},
		{"0", 1},
		{"-4", 1},
		{"", 1},
		{" 12 ", 12},
		{"3.9", 3},
		{"5kg", 5},
		{"+8", 8},
		{"99999999999999999999", math.MaxInt},
		{"-99999999999999999999", 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rec := &recorder{}
			c := NewControl(rec.onChange)

			got := c.Input(tt.raw)
			assert.Equal(t, tt.want, got)
			require.Len(t, rec.values, 1)
			assert.Equal(t, tt.want, rec.values[0])
		})
	}
}

func TestCustomFloor(t *testing.T) {
	rec := &recorder{}
	c := Control{Floor: 0, OnChange: rec.onChange}

	assert.Equal(t, 0, c.Clamp("abc"))
	assert.True(t, c.Decrement(1))
	assert.False(t, c.Decrement(0))
	assert.Equal(t, []int{0}, rec.values)
}

func TestNilOnChange(t *testing.T) {
	c := Control{Floor: 1}
	assert.NotPanics(t, func() {
		c.Increment(1)
		c.Input("4")
	})
}
