package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/rescale/pkgview/internal/clock"
	"github.com/rescale/pkgview/internal/constants"
	"github.com/rescale/pkgview/internal/format"
	"github.com/rescale/pkgview/internal/logging"
	pvstrings "github.com/rescale/pkgview/internal/util/strings"
)

// ParallelView draws one bar per concurrent download with mpb, used when
// more than one download runs at a time and a single redrawn line would
// interleave. Rates and ETAs come from the same estimator as the
// single-line renderer, one per file.
type ParallelView struct {
	progress  *mpb.Progress
	clock     clock.Clock
	logger    *logging.Logger
	opts      Options
	aggregate *Aggregate
	streams   *Registry[*parallelStream]

	// mu guards the summary bar and the in-flight counters. A stream's
	// own mu is always taken before it.
	mu           sync.Mutex
	totalBar     *mpb.Bar
	pendingTotal int64
	pendingDone  int64
	finished     map[string]struct{}
}

// parallelStream is the state of one file's bar. mu serialises ticks; the
// decorator only reads info, which mpb calls from its own goroutine.
type parallelStream struct {
	mu        sync.Mutex
	bar       *mpb.Bar
	session   *Session
	estimator *RateEstimator
	total     int64
	done      int64
	info      atomic.Pointer[streamInfo]
}

// streamInfo is what the rate decorator shows.
type streamInfo struct {
	done int64
	rate float64
	eta  ETA
}

// NewParallelView creates a multi-bar view writing to w.
func NewParallelView(w io.Writer, c clock.Clock, logger *logging.Logger, opts Options) *ParallelView {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	p := mpb.New(
		mpb.WithOutput(w),
		mpb.WithRefreshRate(constants.ParallelRefreshRate),
		mpb.WithWidth(constants.ParallelBarWidth),
	)
	return &ParallelView{
		progress:  p,
		clock:     c,
		logger:    logger,
		opts:      opts,
		aggregate: NewAggregate(),
		finished:  make(map[string]struct{}),
		streams: NewRegistry(func(string) *parallelStream {
			return &parallelStream{
				session:   NewSession(c),
				estimator: NewRateEstimator(c),
			}
		}),
	}
}

func barStyle() mpb.BarStyleComposer {
	return mpb.BarStyle().
		Lbound("[").
		Filler("#").
		Tip("#").
		Padding("-").
		Rbound("]")
}

// DownloadTotal announces the batch size. With TotalDownload set a summary
// bar tracks the batch; 0 ends it, leaving a short batch's bar where it
// stopped.
func (v *ParallelView) DownloadTotal(total int64) {
	v.aggregate.SetTotal(total)

	v.mu.Lock()
	defer v.mu.Unlock()

	if total == 0 {
		clear(v.finished)
	}
	if !v.opts.TotalDownload {
		return
	}

	v.dropTotal()
	if total > 0 {
		v.totalBar = v.progress.New(total, barStyle(),
			mpb.PrependDecorators(decor.Name("total", decor.WCSyncSpaceR)),
			mpb.AppendDecorators(
				decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncSpace),
				decor.Percentage(decor.WCSyncSpace),
			),
		)
		v.syncTotal()
	}
}

// dropTotal stops the summary bar. A full bar has completed already and
// Abort leaves it alone. Called with v.mu held.
func (v *ParallelView) dropTotal() {
	if v.totalBar == nil {
		return
	}
	v.totalBar.Abort(false)
	v.totalBar = nil
}

// syncTotal moves the summary bar to the bytes completed in the batch plus
// the bytes of files in flight. When the files in flight no longer fit the
// announced batch the aggregate falls back and the summary bar is dropped.
// Called with v.mu held.
func (v *ParallelView) syncTotal() {
	if v.totalBar == nil {
		return
	}
	if !v.aggregate.Consider(v.pendingTotal) {
		v.logger.Debug().Int64("inflight", v.pendingTotal).
			Msg("download sizes exceed batch total, dropping total bar")
		v.dropTotal()
		return
	}
	completed, _ := v.aggregate.Snapshot()
	v.totalBar.SetCurrent(completed + v.pendingDone)
}

// Download updates the bar of filename.
func (v *ParallelView) Download(filename string, fileDone, fileTotal int64) {
	if fileTotal == UnknownTotal {
		if fileDone == 0 {
			fmt.Fprintf(v.progress, "downloading %s...\n", filename)
		}
		return
	}
	if fileDone < 0 || fileDone > fileTotal {
		v.logger.Debug().Str("file", filename).Int64("done", fileDone).Int64("total", fileTotal).
			Msg("dropping inconsistent download tick")
		return
	}
	if !v.restart(filename, fileDone) {
		return
	}

	st, created := v.streams.Get(filename)
	st.mu.Lock()
	defer st.mu.Unlock()

	if created {
		st.total = fileTotal
		st.bar = v.newFileBar(filename, fileTotal, st)
		v.mu.Lock()
		v.pendingTotal += fileTotal
		v.mu.Unlock()
	} else if fileTotal != st.total {
		v.logger.Debug().Str("file", filename).Int64("total", fileTotal).Int64("expected", st.total).
			Msg("dropping download tick with changed total")
		return
	}

	var rate float64
	var eta ETA
	switch {
	case fileDone == 0:
		st.estimator.Reset()
		st.session.Throttle().Prime()
		st.session.Activate(0)
	case fileDone == fileTotal:
		if st.session.State() == Complete {
			return
		}
		rate, eta = st.estimator.Finish(fileDone)
	default:
		elapsed := st.session.Throttle().Elapsed(false)
		if elapsed >= 0 && elapsed < st.session.Throttle().Interval() {
			return
		}
		rate, eta = st.estimator.Sample(fileDone, fileTotal, elapsed)
		st.session.Activate(0)
	}

	st.info.Store(&streamInfo{done: fileDone, rate: rate, eta: eta})
	st.bar.SetCurrent(fileDone)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.pendingDone += fileDone - st.done
	st.done = fileDone
	v.syncTotal()

	if fileDone == fileTotal && st.session.Finish() {
		if v.totalBar != nil {
			v.aggregate.Complete(fileTotal)
		}
		v.pendingTotal -= fileTotal
		v.pendingDone -= fileTotal
		v.finished[filename] = struct{}{}
		v.streams.Delete(filename)
	}
}

// restart reports whether a tick for filename should be drawn. Once a file
// has finished only a 0-byte tick, which starts it over, is accepted until
// the batch ends.
func (v *ParallelView) restart(filename string, fileDone int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.finished[filename]; !ok {
		return true
	}
	if fileDone != 0 {
		return false
	}
	delete(v.finished, filename)
	return true
}

func (v *ParallelView) newFileBar(filename string, total int64, st *parallelStream) *mpb.Bar {
	name := pvstrings.TrimPackageExt(filename)
	return v.progress.New(total, barStyle(),
		mpb.PrependDecorators(decor.Name(name, decor.WCSyncSpaceR)),
		mpb.AppendDecorators(
			decor.Any(func(decor.Statistics) string {
				info := st.info.Load()
				if info == nil {
					return ""
				}
				return fmt.Sprintf("%10s  %12s  %s",
					format.Bytes(info.done), format.Rate(info.rate), info.eta)
			}, decor.WCSyncSpace),
			decor.Percentage(decor.WCSyncSpace),
		),
	)
}

// Active returns the number of files still downloading.
func (v *ParallelView) Active() int {
	return v.streams.Len()
}

// Writer returns an io.Writer that prints above the bars.
func (v *ParallelView) Writer() io.Writer {
	return v.progress
}

// Wait aborts bars of unfinished downloads and blocks until the view has
// rendered its final frame.
func (v *ParallelView) Wait() {
	for _, key := range v.streams.Keys() {
		st, _ := v.streams.Get(key)
		st.mu.Lock()
		if st.bar != nil {
			st.bar.Abort(false)
		}
		st.mu.Unlock()
		v.streams.Delete(key)
	}

	v.mu.Lock()
	v.dropTotal()
	v.pendingTotal = 0
	v.pendingDone = 0
	v.mu.Unlock()

	v.progress.Wait()
}
