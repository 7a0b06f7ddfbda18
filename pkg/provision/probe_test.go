package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		token   int
		want    string
		wantErr bool
	}{
		{
			name:   "cmake version line",
			output: "cmake version 3.27.4\n\nCMake suite maintained and supported by Kitware (kitware.com/cmake).\n",
			token:  2,
			want:   "3.27.4",
		},
		{
			name:   "release candidate",
			output: "cmake version 3.28.0-rc1",
			token:  2,
			want:   "3.28.0-rc1",
		},
		{
			name:   "pkg-config modversion",
			output: "4.6.0\n",
			token:  0,
			want:   "4.6.0",
		},
		{
			name:    "empty output",
			output:  "",
			token:   2,
			wantErr: true,
		},
		{
			name:    "too few words",
			output:  "cmake version",
			token:   2,
			wantErr: true,
		},
		{
			name:    "not a version",
			output:  "cmake: command not found",
			token:   2,
			wantErr: true,
		},
		{
			name:    "negative index",
			output:  "3.27.4",
			token:   -1,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.output, tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errNoVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "installed", StateInstalled.String())
	assert.Equal(t, "mismatched", StateMismatched.String())
	assert.Equal(t, "absent", StateAbsent.String())
}
