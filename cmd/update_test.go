package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("stdin closed") }

func TestConfirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr error
	}{
		{"yes", "y\n", true, nil},
		{"yes word upper case", "YES\n", true, nil},
		{"no", "n\n", false, nil},
		{"empty line", "\n", false, nil},
		{"answer without newline", "y", true, nil},
		{"no input", "", false, errNoAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirm(strings.NewReader(tt.input), &out, "Update?")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(out.String(), "Update? [y/N] "))
		})
	}
}

func TestConfirm_ReadError(t *testing.T) {
	_, err := confirm(failingReader{}, &bytes.Buffer{}, "Update?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdin closed")
}
