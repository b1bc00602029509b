package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilePath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"absolute", filepath.Join(dir, "habits.json"), false},
		{"dot segments", filepath.Join(dir, "a", "..", "habits.json"), false},
		{"empty", "", true},
		{"blank", "  ", true},
		{"semicolon", "habits.json; rm -rf /", true},
		{"command substitution", "$(whoami).json", true},
		{"pipe", "a|b", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateFilePath(tc.path)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsafePath)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got))
			assert.NotContains(t, got, "..")
		})
	}
}

func TestValidateFilePath_RelativeBecomesAbsolute(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := ValidateFilePath("export.json")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "export.json", filepath.Base(got))
	assert.Equal(t, mustEval(t, dir), mustEval(t, filepath.Dir(got)))
}

func TestSafeWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")

	written, err := SafeWriteFile(path, []byte(`[]`))
	require.NoError(t, err)

	data, err := SafeReadFile(written)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestSafeWriteFile_RejectsUnsafePath(t *testing.T) {
	_, err := SafeWriteFile("out`id`.json", []byte(`[]`))
	assert.ErrorIs(t, err, ErrUnsafePath)
}

func TestSafeReadFile_Missing(t *testing.T) {
	_, err := SafeReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func mustEval(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}
