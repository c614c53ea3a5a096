// Package callback turns transaction notifications into terminal output:
// discrete events become message lines, questions are put to the user,
// progress ticks go to the renderer and log lines are printed or deferred
// while a progress bar is on screen.
package callback

import (
	"context"
	"fmt"
	"strings"

	"github.com/rescale/pkgview/internal/events"
	"github.com/rescale/pkgview/internal/layout"
	"github.com/rescale/pkgview/internal/logging"
	"github.com/rescale/pkgview/internal/progress"
	"github.com/rescale/pkgview/internal/terminal"
	pvstrings "github.com/rescale/pkgview/internal/util/strings"
)

// Options control what the dispatcher prints and how questions are answered.
type Options struct {
	// Print suppresses event output and answers questions automatically.
	Print bool
	// DownloadOnly installs ignored packages without asking.
	DownloadOnly bool
	// Debug shows debug log lines.
	Debug bool
	// NoProgressBar prints the textual form of operations that would
	// otherwise be shown as bars.
	NoProgressBar bool
	// SyncDatabases silences missing-database warnings while databases
	// are being synchronised.
	SyncDatabases bool
	// NoAsk inverts the answer of every question type in Ask.
	NoAsk bool
	Ask   events.QuestionType
	// Color enables ANSI colours in message prefixes.
	Color bool
	// Width is the per-character display width. Nil uses go-runewidth.
	Width layout.WidthFunc
}

// Prompter puts questions to the user.
type Prompter interface {
	// YesNo asks question and returns the answer; preset is the default.
	YesNo(question string, preset bool) bool
	// SelectIndex asks for a number between 1 and count and returns the
	// chosen zero-based index.
	SelectIndex(count int) int
}

// Dispatcher routes events to output. It is not safe for concurrent use;
// Run consumes events serially.
type Dispatcher struct {
	opts      Options
	out       progress.Output
	renderer  *progress.Renderer
	downloads progress.DownloadSink
	prompter  Prompter
	logger    *logging.Logger
	colors    palette
}

// New creates a dispatcher. downloads receives download ticks; nil routes
// them to renderer.
func New(out progress.Output, renderer *progress.Renderer, downloads progress.DownloadSink,
	prompter Prompter, logger *logging.Logger, opts Options) *Dispatcher {
	if downloads == nil {
		downloads = renderer
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.Width == nil {
		opts.Width = layout.RuneWidth
	}
	return &Dispatcher{
		opts:      opts,
		out:       out,
		renderer:  renderer,
		downloads: downloads,
		prompter:  prompter,
		logger:    logger,
		colors:    newPalette(opts.Color),
	}
}

// Run handles events from ch until it is closed or ctx ends. Whatever is
// still deferred is released before returning.
func (d *Dispatcher) Run(ctx context.Context, ch <-chan events.Event) error {
	defer d.renderer.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			d.Handle(ev)
		}
	}
}

// Handle routes one event.
func (d *Dispatcher) Handle(ev events.Event) {
	switch e := ev.(type) {
	case *events.NoticeEvent:
		d.OnEvent(e)
	case *events.QuestionEvent:
		d.OnQuestion(e)
	case *events.ProgressEvent:
		d.OnProgress(e.Op, e.Package, e.Percent, e.HowMany, e.Current)
	case *events.DownloadTotalEvent:
		d.OnDownloadTotal(e.Total)
	case *events.DownloadEvent:
		d.OnDownload(e.File, e.Done, e.Total)
	case *events.LogEvent:
		d.OnLog(e.Level, e.Message)
	default:
		d.logger.Debug().Str("type", string(ev.Type())).Msg("ignoring unknown event")
	}
}

// OnProgress forwards a transaction tick to the renderer.
func (d *Dispatcher) OnProgress(op events.ProgressOp, pkg string, percent, howmany, current int) {
	text, ok := progressText(op)
	if !ok {
		d.logger.Debug().Int("op", int(op)).Msg("ignoring progress for unknown operation")
		return
	}
	d.renderer.Transaction(text, pkg, percent, howmany, current)
}

// OnDownloadTotal forwards the batch size of the next downloads.
func (d *Dispatcher) OnDownloadTotal(total int64) {
	d.downloads.DownloadTotal(total)
}

// OnDownload forwards a download tick.
func (d *Dispatcher) OnDownload(filename string, done, total int64) {
	d.downloads.Download(filename, done, total)
}

// OnLog prints a log line to stderr, or defers it while a transaction bar
// is being drawn.
func (d *Dispatcher) OnLog(level events.LogLevel, msg string) {
	if msg == "" {
		return
	}
	if level == events.DebugLevel && !d.opts.Debug {
		return
	}
	d.warnOrDefer(d.colors.level(level, msg))
}

func (d *Dispatcher) warnOrDefer(line string) {
	if d.renderer.InProgress() {
		d.renderer.Defer(line)
		return
	}
	d.out.Write(terminal.Stderr, line)
	d.out.Flush(terminal.Stderr)
}

func (d *Dispatcher) stdout(text string) {
	d.out.Write(terminal.Stdout, text)
}

func (d *Dispatcher) barsOff() bool {
	return d.opts.NoProgressBar || d.out.Columns() == 0
}

// OnEvent prints the text of a discrete notification.
func (d *Dispatcher) OnEvent(ev *events.NoticeEvent) {
	if d.opts.Print {
		return
	}
	defer d.out.Flush(terminal.Stdout)

	switch ev.Code {
	case events.HookStart:
		if ev.When == events.PreTransaction {
			d.stdout(d.colors.colon("Running pre-transaction hooks...\n"))
		} else {
			d.stdout(d.colors.colon("Running post-transaction hooks...\n"))
		}
	case events.HookRunStart:
		digits := pvstrings.NumberLength(ev.Total)
		name := ev.Desc
		if name == "" {
			name = ev.Name
		}
		d.stdout(fmt.Sprintf("(%*d/%*d) %s\n", digits, ev.Position, digits, ev.Total, name))
	case events.CheckDepsStart:
		d.stdout("checking dependencies...\n")
	case events.FileConflictsStart:
		if d.barsOff() {
			d.stdout("checking for file conflicts...\n")
		}
	case events.ResolveDepsStart:
		d.stdout("resolving dependencies...\n")
	case events.InterConflictsStart:
		d.stdout("looking for conflicting packages...\n")
	case events.TransactionStart:
		d.stdout(d.colors.colon("Processing package changes...\n"))
	case events.PackageOperationStart:
		if d.barsOff() {
			d.packageOperationStart(ev)
		}
	case events.PackageOperationDone:
		d.packageOperationDone(ev)
	case events.IntegrityStart:
		if d.barsOff() {
			d.stdout("checking package integrity...\n")
		}
	case events.KeyringStart:
		if d.barsOff() {
			d.stdout("checking keyring...\n")
		}
	case events.KeyDownloadStart:
		d.stdout("downloading required keys...\n")
	case events.LoadStart:
		if d.barsOff() {
			d.stdout("loading package files...\n")
		}
	case events.DeltaIntegrityStart:
		d.stdout("checking delta integrity...\n")
	case events.DeltaPatchesStart:
		d.stdout("applying deltas...\n")
	case events.DeltaPatchStart:
		d.stdout(fmt.Sprintf("generating %s with %s... ", ev.DeltaTo, ev.DeltaFile))
	case events.DeltaPatchDone:
		d.stdout("success!\n")
	case events.DeltaPatchFailed:
		d.stdout("failed.\n")
	case events.ScriptletInfo:
		d.stdout(ev.Line)
	case events.RetrieveStart:
		d.stdout(d.colors.colon("Retrieving packages...\n"))
	case events.DiskSpaceStart:
		if d.barsOff() {
			d.stdout("checking available disk space...\n")
		}
	case events.OptDepRemoval:
		d.stdout(d.colors.colon("%s optionally requires %s\n", ev.Pkg, ev.OptDep))
	case events.DatabaseMissing:
		if !d.opts.SyncDatabases {
			d.out.Write(terminal.Stderr, d.colors.level(events.WarnLevel,
				fmt.Sprintf("database file for '%s' does not exist\n", ev.Database)))
			d.out.Flush(terminal.Stderr)
		}
	case events.PacnewCreated:
		d.warnOrDefer(d.colors.level(events.WarnLevel,
			fmt.Sprintf("%s installed as %s.pacnew\n", ev.File, ev.File)))
	case events.PacsaveCreated:
		d.warnOrDefer(d.colors.level(events.WarnLevel,
			fmt.Sprintf("%s saved as %s.pacsave\n", ev.File, ev.File)))
	default:
		// the *Done, retrieve failure and per-package download notices
		// carry nothing to show
	}
}

func (d *Dispatcher) packageOperationStart(ev *events.NoticeEvent) {
	switch ev.Operation {
	case events.OperationInstall:
		d.stdout(fmt.Sprintf("installing %s...\n", pkgName(ev.NewPkg)))
	case events.OperationUpgrade:
		d.stdout(fmt.Sprintf("upgrading %s...\n", pkgName(ev.NewPkg)))
	case events.OperationReinstall:
		d.stdout(fmt.Sprintf("reinstalling %s...\n", pkgName(ev.NewPkg)))
	case events.OperationDowngrade:
		d.stdout(fmt.Sprintf("downgrading %s...\n", pkgName(ev.NewPkg)))
	case events.OperationRemove:
		d.stdout(fmt.Sprintf("removing %s...\n", pkgName(ev.OldPkg)))
	}
}

func (d *Dispatcher) packageOperationDone(ev *events.NoticeEvent) {
	switch ev.Operation {
	case events.OperationInstall:
		if ev.NewPkg != nil && len(ev.NewPkg.OptDepends) > 0 {
			d.stdout(fmt.Sprintf("Optional dependencies for %s\n", ev.NewPkg.Name))
			d.stdout(d.lineBreakList(ev.NewPkg.OptDepends))
		}
	case events.OperationUpgrade, events.OperationDowngrade:
		if added := newOptDepends(ev.OldPkg, ev.NewPkg); len(added) > 0 {
			d.stdout(fmt.Sprintf("New optional dependencies for %s\n", pkgName(ev.NewPkg)))
			d.stdout(d.lineBreakList(added))
		}
	}
}

// lineBreakList prints one item per line under a four-column indent.
func (d *Dispatcher) lineBreakList(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("    ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return sb.String()
}
