package progress

import (
	"io"

	"github.com/rescale/pkgview/internal/terminal"
)

// Output is the surface progress lines are drawn on.
// *terminal.Console implements it.
type Output interface {
	// Columns returns the terminal width; 0 means no bars.
	Columns() int

	// Write appends text to a stream without flushing it.
	Write(s terminal.Stream, text string)

	// Flush makes buffered text of a stream visible.
	Flush(s terminal.Stream)

	// Writer returns an io.Writer appending to a stream.
	Writer(s terminal.Stream) io.Writer
}

// DownloadSink receives byte-level progress of file transfers. Both the
// single-line Renderer and the multi-bar ParallelView implement it.
type DownloadSink interface {
	// DownloadTotal announces the size of the next batch; 0 ends it.
	DownloadTotal(total int64)

	// Download reports fileDone of fileTotal bytes for filename. A
	// fileTotal of UnknownTotal means the size is not known.
	Download(filename string, fileDone, fileTotal int64)
}

// UnknownTotal marks a transfer whose size is not known in advance.
const UnknownTotal int64 = -1
