package progress

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tick struct {
	name        string
	done, total int64
}

type recordingSink struct {
	totals []int64
	ticks  []tick
}

func (s *recordingSink) DownloadTotal(total int64) {
	s.totals = append(s.totals, total)
}

func (s *recordingSink) Download(filename string, done, total int64) {
	s.ticks = append(s.ticks, tick{filename, done, total})
}

func TestReaderReportsTicks(t *testing.T) {
	sink := &recordingSink{}
	src := iotest.OneByteReader(bytes.NewReader([]byte("abc")))
	r := NewReader(src, "core.db", 3, sink)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	assert.Equal(t, int64(3), r.Transferred())

	assert.Equal(t, []tick{
		{"core.db", 0, 3},
		{"core.db", 1, 3},
		{"core.db", 2, 3},
		{"core.db", 3, 3},
	}, sink.ticks)
}

func TestReaderOverlongSource(t *testing.T) {
	sink := &recordingSink{}
	r := NewReader(bytes.NewReader([]byte("abcdef")), "x", 2, sink)

	_, err := io.ReadAll(r)
	require.NoError(t, err)

	last := sink.ticks[len(sink.ticks)-1]
	assert.Equal(t, UnknownTotal, last.total)
}

func TestRendererImplementsSink(t *testing.T) {
	var _ DownloadSink = (*Renderer)(nil)
	var _ DownloadSink = (*ParallelView)(nil)
}
