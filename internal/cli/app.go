package cli

import (
	"context"
	"io"

	"github.com/rescale/pkgview/internal/callback"
	"github.com/rescale/pkgview/internal/clock"
	"github.com/rescale/pkgview/internal/config"
	"github.com/rescale/pkgview/internal/constants"
	"github.com/rescale/pkgview/internal/events"
	"github.com/rescale/pkgview/internal/logging"
	"github.com/rescale/pkgview/internal/progress"
)

// app is one rendering pipeline: a producer publishes notifications on the
// bus and a dispatcher draws them.
type app struct {
	cfg        *config.Options
	out        progress.Output
	clock      clock.Clock
	logger     *logging.Logger
	bus        *events.EventBus
	renderer   *progress.Renderer
	parallel   *progress.ParallelView
	dispatcher *callback.Dispatcher
}

// newApp wires a pipeline drawing on out. barOut receives the multi-bar
// view when more than one download may run at once.
func newApp(cfg *config.Options, out progress.Output, barOut io.Writer, color bool,
	c clock.Clock, prompter callback.Prompter, logger *logging.Logger) *app {
	theme := progress.ThemePlain
	if cfg.ILoveCandy {
		theme = progress.ThemeChomp
	}
	renderOpts := progress.Options{
		NoProgressBar: cfg.NoProgressBar,
		TotalDownload: cfg.TotalDownload,
		Theme:         theme,
		Color:         color,
	}

	a := &app{
		cfg:      cfg,
		out:      out,
		clock:    c,
		logger:   logger,
		bus:      events.NewEventBus(constants.EventBusDefaultBuffer),
		renderer: progress.NewRenderer(out, c, logger, renderOpts),
	}

	var downloads progress.DownloadSink
	if cfg.ParallelDownloads > 1 && !cfg.NoProgressBar && out.Columns() > 0 {
		a.parallel = progress.NewParallelView(barOut, c, logger, renderOpts)
		downloads = a.parallel
	}

	a.dispatcher = callback.New(out, a.renderer, downloads, prompter, logger, callback.Options{
		Print:         cfg.Print,
		DownloadOnly:  cfg.DownloadOnly,
		Debug:         cfg.Debug,
		NoProgressBar: cfg.NoProgressBar,
		NoAsk:         cfg.NoAsk,
		Ask:           cfg.Ask,
		Color:         color,
	})
	return a
}

// run starts the dispatcher, calls produce and waits until every
// published notification has been drawn.
func (a *app) run(ctx context.Context, produce func(ctx context.Context, bus *events.EventBus) error) error {
	ch := a.bus.SubscribeAll()

	dispatched := make(chan error, 1)
	go func() {
		dispatched <- a.dispatcher.Run(ctx, ch)
	}()

	err := produce(ctx, a.bus)
	a.bus.Close()
	runErr := <-dispatched

	if a.parallel != nil {
		a.parallel.Wait()
	}

	if dropped := a.bus.GetDroppedEventCount(); dropped > 0 {
		a.logger.Warn().Int64("dropped", dropped).Msg("notifications dropped")
	}

	if err != nil {
		return err
	}
	return runErr
}

// busSink publishes download ticks as events, so that transfers running
// in their own goroutines reach the dispatcher in order.
type busSink struct {
	ctx context.Context
	bus *events.EventBus
}

func (s busSink) DownloadTotal(total int64) {
	_ = s.bus.PublishSync(s.ctx, events.NewDownloadTotal(total))
}

func (s busSink) Download(filename string, fileDone, fileTotal int64) {
	_ = s.bus.PublishSync(s.ctx, events.NewDownload(filename, fileDone, fileTotal))
}

// ask publishes q and blocks until the dispatcher answers it.
func ask(ctx context.Context, bus *events.EventBus, q *events.QuestionEvent) (int, error) {
	if err := bus.PublishSync(ctx, q); err != nil {
		return 0, err
	}
	return q.Wait(ctx)
}
