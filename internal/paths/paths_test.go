package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrunc(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		want     string
	}{
		{
			name:     "short path unchanged",
			path:     "main.go",
			maxWidth: 40,
			want:     "main.go",
		},
		{
			name:     "drops leading directories",
			path:     "/home/user/project/internal/view/view.go",
			maxWidth: 25,
			want:     "...internal/view/view.go",
		},
		{
			name:     "filename wider than budget wins",
			path:     "/tmp/a_very_long_file_name.go",
			maxWidth: 10,
			want:     "a_very_long_file_name.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trunc(tt.path, tt.maxWidth))
		})
	}
}
