// Package progress renders callback-driven progress: a throttled,
// width-aware single-line bar per stream with rate and ETA, batch-level
// aggregation of downloads, and a queue for messages that arrive while a
// bar is being redrawn in place.
package progress

import (
	"io"
)

// Reader wraps an io.Reader and reports every read as a download tick.
// The sink throttles; Reader reports unconditionally.
type Reader struct {
	reader   io.Reader
	sink     DownloadSink
	filename string
	total    int64
	current  int64
	started  bool
}

// NewReader creates a progress-reporting reader for filename of total bytes.
func NewReader(reader io.Reader, filename string, total int64, sink DownloadSink) *Reader {
	return &Reader{
		reader:   reader,
		sink:     sink,
		filename: filename,
		total:    total,
	}
}

// Read implements io.Reader interface with progress reporting.
func (pr *Reader) Read(p []byte) (int, error) {
	if !pr.started {
		pr.started = true
		pr.sink.Download(pr.filename, 0, pr.total)
	}

	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.current += int64(n)
		if pr.total >= 0 && pr.current > pr.total {
			// a source longer than announced; stop reporting a total
			pr.total = UnknownTotal
		}
		pr.sink.Download(pr.filename, pr.current, pr.total)
	}
	return n, err
}

// Transferred returns the number of bytes read so far.
func (pr *Reader) Transferred() int64 {
	return pr.current
}
