package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeTags(t *testing.T) {
	tests := []struct {
		name  string
		tags  []string
		extra []string
		want  []string
	}{
		{
			name:  "normalizes and deduplicates",
			tags:  []string{"River", "river", " Flood "},
			extra: []string{"RIVER", "basin"},
			want:  []string{"river", "flood", "basin"},
		},
		{
			name:  "existing tags never removed",
			tags:  []string{"manual"},
			extra: nil,
			want:  []string{"manual"},
		},
		{
			name:  "empty strings dropped",
			tags:  []string{"", "  "},
			extra: []string{"ward"},
			want:  []string{"ward"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Feature{Tags: tt.tags}
			f.MergeTags(tt.extra...)
			assert.Equal(t, tt.want, f.Tags)
		})
	}
}

func TestHasTag(t *testing.T) {
	f := &Feature{Tags: []string{"river", "flood"}}

	assert.True(t, f.HasTag("river"))
	assert.True(t, f.HasTag(" River "))
	assert.False(t, f.HasTag("road"))
}

func TestNaturalKeyString(t *testing.T) {
	f := &Feature{Nature: "Waterway", Family: "River", Type: "Unknown", Name: "Msimbazi"}

	assert.Equal(t, "Waterway/River/Unknown/Msimbazi", f.NaturalKey().String())
}
