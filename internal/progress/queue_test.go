package progress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func TestQueueFlushInOrder(t *testing.T) {
	var q Queue
	q.Push("warning: first\n")
	q.Push("")
	q.Push("warning: second\n")
	assert.Equal(t, 2, q.Len())

	var buf bytes.Buffer
	n, err := q.Flush(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "warning: first\nwarning: second\n", buf.String())
	assert.Equal(t, 0, q.Len())
}

func TestQueueFlushClearsOnError(t *testing.T) {
	var q Queue
	q.Push("a\n")
	q.Push("b\n")

	w := &failingWriter{}
	n, err := q.Flush(w)
	assert.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, w.writes, "every message is attempted")
	assert.Equal(t, 0, q.Len())
}
