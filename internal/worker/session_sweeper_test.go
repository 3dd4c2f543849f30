package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaleIDs(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		alive []bool
		want  []string
	}{
		{"all alive", []string{"a", "b"}, []bool{true, true}, nil},
		{"mixed keeps order", []string{"a", "b", "c"}, []bool{false, true, false}, []string{"a", "c"}},
		{"missing flags count as stale", []string{"a", "b"}, []bool{true}, []string{"b"}},
		{"empty", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, staleIDs(tt.ids, tt.alive))
		})
	}
}
