package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, 12, ParseValue("12"))
	assert.Equal(t, -3, ParseValue(" -3 "))
	assert.Equal(t, 29.85, ParseValue("29.85"))
	assert.Equal(t, "Month-to-month", ParseValue("Month-to-month"))
	assert.Equal(t, "", ParseValue("  "))
}

func TestNumeric(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
		ok   bool
	}{
		{12, 12, true},
		{int64(7), 7, true},
		{float64(0.5), 0.5, true},
		{float32(2), 2, true},
		{"29.85", 29.85, true},
		{" 4 ", 4, true},
		{"Month-to-month", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, c := range cases {
		got, ok := Numeric(c.in)
		assert.Equal(t, c.ok, ok, "input %v", c.in)
		assert.InDelta(t, c.want, got, 1e-9, "input %v", c.in)
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, 0.0, Clip(-0.2, 0, 1))
	assert.Equal(t, 1.0, Clip(1.7, 0, 1))
	assert.Equal(t, 0.4, Clip(0.4, 0, 1))
}
