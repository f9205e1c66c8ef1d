package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFingerprint(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"short file", "date,status,num_packages\n"},
		{"longer than the window", strings.Repeat("x", 3*fingerprintWindow)},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, string(rune('a'+i))+".csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			fp, err := FileFingerprint(path)
			require.NoError(t, err)
			assert.Len(t, fp, 8)

			again, err := FileFingerprint(path)
			require.NoError(t, err)
			assert.Equal(t, fp, again)
		})
	}
}

func TestFileFingerprintOnlyHashesTail(t *testing.T) {
	dir := t.TempDir()
	tail := strings.Repeat("y", fingerprintWindow)

	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(a, []byte("head-one\n"+tail), 0644))
	require.NoError(t, os.WriteFile(b, []byte("head-two-longer\n"+tail), 0644))

	fpA, err := FileFingerprint(a)
	require.NoError(t, err)
	fpB, err := FileFingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fpA, fpB)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,status,num_packages\n"), 0644))

	before, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(25), before.Size)
	assert.NotZero(t, before.Inode)
	assert.True(t, before.Equal(before))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("2015-10-10 00:00:00 UTC,done,5\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	after, err := StatFile(path)
	require.NoError(t, err)
	assert.False(t, before.Equal(after))
	assert.NotEqual(t, before.Fingerprint, after.Fingerprint)
}

func TestStatFileMissing(t *testing.T) {
	_, err := StatFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
