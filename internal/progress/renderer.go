package progress

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rescale/pkgview/internal/clock"
	"github.com/rescale/pkgview/internal/constants"
	"github.com/rescale/pkgview/internal/format"
	"github.com/rescale/pkgview/internal/layout"
	"github.com/rescale/pkgview/internal/logging"
	"github.com/rescale/pkgview/internal/terminal"
	pvstrings "github.com/rescale/pkgview/internal/util/strings"
)

// Options configure a Renderer.
type Options struct {
	// NoProgressBar disables bars; downloads are announced with one line.
	NoProgressBar bool
	// TotalDownload labels download bars with the batch percentage.
	TotalDownload bool
	// Theme selects the bar glyphs.
	Theme Theme
	// Color enables ANSI colours in themed bars.
	Color bool
	// Width overrides the per-character display width. Nil uses go-runewidth.
	Width layout.WidthFunc
}

// Renderer draws the two single-line progress streams: the transaction bar
// ("(1/3) installing zlib [####---]  40%") and the download bar
// ("zlib  120.0 KiB  1.50M/s 00:02 [####---]  40%"). Each stream owns its
// throttle, rate history and bar animation state.
//
// While a transaction bar is on screen, messages that would tear it are
// deferred with Defer and written to stderr once the bar completes.
type Renderer struct {
	mu     sync.Mutex
	opts   Options
	out    Output
	clock  clock.Clock
	logger *logging.Logger

	txn    *Session
	txnBar *Bar

	dl *downloadStream

	aggregate  *Aggregate
	queue      *Queue
	onProgress bool
}

// downloadStream is the state of the single-line download bar.
type downloadStream struct {
	session   *Session
	estimator *RateEstimator
	bar       *Bar
	filename  string
}

// NewRenderer creates a renderer drawing on out.
func NewRenderer(out Output, c clock.Clock, logger *logging.Logger, opts Options) *Renderer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.Width == nil {
		opts.Width = layout.RuneWidth
	}
	return &Renderer{
		opts:   opts,
		out:    out,
		clock:  c,
		logger: logger,
		txn:    NewSession(c),
		txnBar: NewBar(opts.Theme, opts.Color),
		dl: &downloadStream{
			session:   NewSession(c),
			estimator: NewRateEstimator(c),
			bar:       NewBar(opts.Theme, opts.Color),
		},
		aggregate: NewAggregate(),
		queue:     &Queue{},
	}
}

// InfoLen returns the number of columns given to the text left of the bar.
func InfoLen(cols int) int {
	infolen := cols * constants.InfoLenNumerator / constants.InfoLenDenominator
	if infolen < constants.InfoLenMinimum {
		infolen = constants.InfoLenMinimum
	}
	return infolen
}

// Transaction draws the bar of a multi-item operation such as installing
// count packages, current of which is in progress.
func (r *Renderer) Transaction(op, name string, percent, count, current int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cols := r.out.Columns()
	if r.opts.NoProgressBar || cols == 0 {
		return
	}
	if percent < 0 || percent > 100 {
		r.logger.Debug().Int("percent", percent).Str("op", op).Msg("dropping out-of-range progress tick")
		return
	}
	if !r.txn.Admit(percent, current, name != "") {
		return
	}

	infolen := InfoLen(cols)
	digits := pvstrings.NumberLength(count)
	textlen := infolen - 3 - 2*digits - 1

	text := layout.Pad(op+" "+name, textlen, r.opts.Width)

	var sb strings.Builder
	fmt.Fprintf(&sb, "(%*d/%*d) %s", digits, current, digits, count, text)
	sb.WriteString(r.txnBar.Render(percent, percent, cols-infolen))

	r.out.Write(terminal.Stdout, sb.String())
	r.out.Flush(terminal.Stdout)

	if percent == 100 {
		r.onProgress = false
		r.flushDeferred()
	} else {
		r.onProgress = true
	}
}

// flushDeferred releases the deferred queue to stderr. Caller holds mu.
func (r *Renderer) flushDeferred() {
	n, err := r.queue.Flush(r.out.Writer(terminal.Stderr))
	r.out.Flush(terminal.Stderr)
	if err != nil {
		r.logger.Warn().Err(err).Int("messages", n).Msg("failed to flush deferred messages")
	}
}

// DownloadTotal announces the size of the next download batch. 0 ends the batch.
func (r *Renderer) DownloadTotal(total int64) {
	r.aggregate.SetTotal(total)
}

// Download draws the download bar of filename.
func (r *Renderer) Download(filename string, fileDone, fileTotal int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cols := r.out.Columns()
	if r.opts.NoProgressBar || cols == 0 || fileTotal == UnknownTotal {
		if fileDone == 0 {
			r.out.Write(terminal.Stdout, fmt.Sprintf("downloading %s...\n", filename))
			r.out.Flush(terminal.Stdout)
		}
		return
	}
	if fileDone < 0 || fileDone > fileTotal {
		r.logger.Debug().Str("file", filename).Int64("done", fileDone).Int64("total", fileTotal).
			Msg("dropping inconsistent download tick")
		return
	}

	aggregate := r.opts.TotalDownload && r.aggregate.Consider(fileTotal)
	batchDone, batchTotal := r.aggregate.Snapshot()

	done, total := fileDone, fileTotal
	if aggregate {
		done, total = batchDone+fileDone, batchTotal
	}
	if done > total || done < 0 {
		return
	}

	st := r.dl
	if filename != st.filename {
		st.filename = filename
		st.session.Reset()
	}

	var rate float64
	var eta ETA
	switch {
	case fileDone == 0:
		// in aggregate mode the rate spans the whole batch
		if !aggregate || batchDone == 0 {
			st.estimator.Reset()
			st.session.Throttle().Prime()
		}
		st.session.Activate(0)
	case fileDone == fileTotal:
		if st.session.State() == Complete {
			return
		}
		rate, eta = st.estimator.Finish(done)
	default:
		elapsed := st.session.Throttle().Elapsed(false)
		if elapsed >= 0 && elapsed < st.session.Throttle().Interval() {
			return
		}
		rate, eta = st.estimator.Sample(done, total, elapsed)
		st.session.Activate(0)
	}

	filePercent := 100
	if fileTotal > 0 {
		filePercent = int(fileDone * 100 / fileTotal)
	}

	var view View = PerItemView{Percent: filePercent}
	if aggregate {
		view = AggregateView{ItemPercent: filePercent, BatchPercent: r.aggregate.Percent(fileDone)}
	}
	if filePercent == 100 {
		if !st.session.Finish() {
			return
		}
		if aggregate {
			r.aggregate.Complete(fileTotal)
		}
	}

	infolen := InfoLen(cols)
	line := DownloadLine(pvstrings.TrimPackageExt(filename), done, rate, eta, infolen, r.opts.Width)
	fill, display := view.Percents()
	line += st.bar.Render(fill, display, cols-infolen)

	r.out.Write(terminal.Stdout, line)
	r.out.Flush(terminal.Stdout)
}

// DownloadLine formats the text left of a download bar: the name padded or
// cut to fit, transferred size, rate and ETA. It is infolen columns wide.
func DownloadLine(name string, done int64, rate float64, eta ETA, infolen int, width layout.WidthFunc) string {
	namelen := infolen - constants.DownloadFixedColumns
	if !eta.HasHours() {
		namelen += constants.ETAHourColumns
	}
	text, pad := layout.Fit(name, namelen, width)

	rateHuman, rateLabel := format.HumanizeSize(int64(rate))
	doneHuman, doneLabel := format.HumanizeSize(done)

	var sb strings.Builder
	sb.WriteString(" ")
	sb.WriteString(text)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(" ")

	// 1.62M/s, 11.6M/s, but 116K/s and 1116K/s
	switch {
	case rateHuman < 9.995:
		fmt.Fprintf(&sb, "%6.1f %3s  %4.2f%c/s ", doneHuman, doneLabel, rateHuman, rateLabel[0])
	case rateHuman < 99.95:
		fmt.Fprintf(&sb, "%6.1f %3s  %4.1f%c/s ", doneHuman, doneLabel, rateHuman, rateLabel[0])
	default:
		fmt.Fprintf(&sb, "%6.1f %3s  %4.0f%c/s ", doneHuman, doneLabel, rateHuman, rateLabel[0])
	}
	sb.WriteString(eta.String())
	return sb.String()
}

// InProgress reports whether a transaction bar is on screen.
func (r *Renderer) InProgress() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onProgress
}

// Defer queues msg for stderr until the transaction bar completes.
func (r *Renderer) Defer(msg string) {
	r.queue.Push(msg)
}

// Deferred returns the number of queued messages.
func (r *Renderer) Deferred() int {
	return r.queue.Len()
}

// Close releases anything still deferred, for example when a transaction is
// interrupted before its bar reached 100%.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.onProgress {
		r.out.Write(terminal.Stdout, "\n")
		r.out.Flush(terminal.Stdout)
		r.onProgress = false
	}
	if r.queue.Len() > 0 {
		r.flushDeferred()
	}
}

// Aggregate returns the batch tracker shared by the download streams.
func (r *Renderer) Aggregate() *Aggregate {
	return r.aggregate
}
