package state_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-state/framework/state"
)

func TestDefaultComparer(t *testing.T) {
	p := &point{}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"equal structs", point{1, 2}, point{1, 2}, true},
		{"same pointer", p, p, true},
		{"distinct pointers", &point{}, &point{}, false},
		{"equal slices", []int{1, 2}, []int{1, 2}, true},
		{"nil and empty slice", []int(nil), []int{}, false},
		{"equal maps", map[string]int{"a": 1}, map[string]int{"a": 1}, true},
		{"both nil", nil, nil, true},
		{"nil and value", nil, 1, false},
		{"different dynamic types", 1, int64(1), false},
		{"NaN", math.NaN(), math.NaN(), true},
		{"float32 NaN", float32(math.NaN()), float32(math.NaN()), true},
		{"NaN and number", math.NaN(), 1.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, state.DefaultComparer[any]().Equal(tt.a, tt.b))
		})
	}
}

func TestComparerFunc(t *testing.T) {
	always := state.ComparerFunc[int](func(a, b int) bool { return true })
	assert.True(t, always.Equal(1, 2))
}
