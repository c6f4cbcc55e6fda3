package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShift_IsNewerThan(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		self     *Shift
		other    *Shift
		name     string
		expected bool
	}{
		{
			name:     "self updated later",
			self:     &Shift{ID: "a", UpdatedAt: base.Add(time.Second)},
			other:    &Shift{ID: "a", UpdatedAt: base},
			expected: true,
		},
		{
			name:     "self updated earlier",
			self:     &Shift{ID: "a", UpdatedAt: base},
			other:    &Shift{ID: "a", UpdatedAt: base.Add(time.Millisecond)},
			expected: false,
		},
		{
			name:     "equal timestamps, greater id wins",
			self:     &Shift{ID: "b", UpdatedAt: base},
			other:    &Shift{ID: "a", UpdatedAt: base},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.self.IsNewerThan(tt.other))
		})
	}
}

func TestShift_SameContent(t *testing.T) {
	a := &Shift{ID: "1", Date: "2024-05-01", Kind: ShiftKindA, Notes: "x", OriginClientID: "c1"}
	b := &Shift{ID: "2", Date: "2024-05-01", Kind: ShiftKindA, Notes: "x", OriginClientID: "c2"}
	assert.True(t, a.SameContent(b))

	b.Notes = "y"
	assert.False(t, a.SameContent(b))
}

func TestShift_Clone(t *testing.T) {
	original := &Shift{ID: "1", Notes: "note"}
	clone := original.Clone()

	clone.Notes = "changed"
	assert.Equal(t, "note", original.Notes)

	var nilShift *Shift
	assert.Nil(t, nilShift.Clone())
}

func TestShiftKind_IsValid(t *testing.T) {
	assert.True(t, ShiftKindA.IsValid())
	assert.True(t, ShiftKindC.IsValid())
	assert.False(t, ShiftKind("").IsValid())
	assert.False(t, ShiftKind("D").IsValid())
}
