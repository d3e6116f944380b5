package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hatlonely/uidx/ref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const namespace = "github.com/hatlonely/uidx/log/writer"

func TestConsoleWriter(t *testing.T) {
	tests := []struct {
		name    string
		options *ConsoleWriterOptions
		wantErr bool
	}{
		{"nil options", nil, false},
		{"stdout", &ConsoleWriterOptions{Target: "stdout"}, false},
		{"stderr", &ConsoleWriterOptions{Target: "stderr"}, false},
		{"unknown target", &ConsoleWriterOptions{Target: "syslog"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewConsoleWriterWithOptions(tt.options)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, w.Close())
		})
	}
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "snowflake.log")

	w, err := NewFileWriterWithOptions(&FileWriterOptions{Path: path})
	require.NoError(t, err)

	n, err := w.Write([]byte("first\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, err = w.Write([]byte("closed\n"))
	assert.Error(t, err)

	// 重新打开时追加
	w, err = NewFileWriterWithOptions(&FileWriterOptions{Path: path})
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))

	_, err = NewFileWriterWithOptions(&FileWriterOptions{})
	assert.Error(t, err)
	_, err = NewFileWriterWithOptions(nil)
	assert.Error(t, err)
}

func TestMultiWriter(t *testing.T) {
	dir := t.TempDir()
	path1 := filepath.Join(dir, "a.log")
	path2 := filepath.Join(dir, "b.log")

	w, err := NewMultiWriterWithOptions(&MultiWriterOptions{
		Writers: []ref.TypeOptions{
			{Namespace: namespace, Type: "FileWriter", Options: &FileWriterOptions{Path: path1}},
			{Namespace: namespace, Type: "FileWriter", Options: &FileWriterOptions{Path: path2}},
			{Namespace: namespace, Type: "ConsoleWriter", Options: &ConsoleWriterOptions{Target: "stderr"}},
		},
	})
	require.NoError(t, err)

	n, err := w.Write([]byte("multi\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	require.NoError(t, w.Close())

	for _, path := range []string{path1, path2} {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "multi\n", string(content))
	}

	_, err = NewMultiWriterWithOptions(&MultiWriterOptions{})
	assert.Error(t, err)

	_, err = NewMultiWriterWithOptions(&MultiWriterOptions{
		Writers: []ref.TypeOptions{{Namespace: namespace, Type: "Missing"}},
	})
	assert.Error(t, err)
}

func TestNewWriterWithOptions(t *testing.T) {
	w, err := NewWriterWithOptions(&ref.TypeOptions{Namespace: namespace, Type: "ConsoleWriter"})
	require.NoError(t, err)
	assert.IsType(t, &ConsoleWriter{}, w)

	_, err = NewWriterWithOptions(nil)
	assert.Error(t, err)
}
