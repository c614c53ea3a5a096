package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rescale/pkgview/internal/clock"
	"github.com/rescale/pkgview/internal/events"
	"github.com/rescale/pkgview/internal/progress"
	"github.com/rescale/pkgview/internal/ratelimit"
	"github.com/rescale/pkgview/internal/terminal"
)

// demoNames are the packages of a synthetic transaction, cycled when more
// are requested.
var demoNames = []string{
	"zlib", "openssl", "ncurses", "readline", "gcc-libs", "python",
	"linux-firmware", "systemd", "glib2", "sqlite", "curl", "gnupg",
}

// demoTicksPerSecond is how often a synthetic transfer delivers a chunk.
const demoTicksPerSecond = 20

type demoPackage struct {
	name    string
	version string
	size    int64
}

func (p demoPackage) filename() string {
	return fmt.Sprintf("%s-%s-x86_64.pkg.tar.zst", p.name, p.version)
}

// demo produces the notifications of an install transaction: a download
// batch followed by the per-package install steps.
type demo struct {
	packages []demoPackage
	rate     int64
	parallel int
	sleep    func(ctx context.Context, ms int64) error
}

func newDemo(count int, size, rate int64, parallel int) *demo {
	d := &demo{rate: rate, parallel: parallel, sleep: sleepContext}
	for i := 0; i < count; i++ {
		name := demoNames[i%len(demoNames)]
		if i >= len(demoNames) {
			name = fmt.Sprintf("%s%d", name, i/len(demoNames)+1)
		}
		// vary sizes so bars finish at different times
		pkgSize := size/2 + size*int64(i%3)/2
		d.packages = append(d.packages, demoPackage{name: name, version: "1.0-1", size: pkgSize})
	}
	return d
}

func (d *demo) totalSize() int64 {
	var total int64
	for _, p := range d.packages {
		total += p.size
	}
	return total
}

func (d *demo) play(ctx context.Context, bus *events.EventBus) error {
	publish := func(ev events.Event) error { return bus.PublishSync(ctx, ev) }
	n := len(d.packages)

	for _, code := range []events.NoticeCode{events.ResolveDepsStart, events.InterConflictsStart, events.RetrieveStart} {
		if err := publish(events.NewNotice(code)); err != nil {
			return err
		}
	}

	sink := busSink{ctx: ctx, bus: bus}
	sink.DownloadTotal(d.totalSize())
	if err := d.downloadAll(ctx, sink); err != nil {
		return err
	}
	sink.DownloadTotal(0)

	checks := []struct {
		code events.NoticeCode
		op   events.ProgressOp
	}{
		{events.KeyringStart, events.ProgressKeyringStart},
		{events.IntegrityStart, events.ProgressIntegrityStart},
		{events.LoadStart, events.ProgressLoadStart},
		{events.FileConflictsStart, events.ProgressConflictsStart},
		{events.DiskSpaceStart, events.ProgressDiskspaceStart},
	}
	for _, check := range checks {
		if err := publish(events.NewNotice(check.code)); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := publish(events.NewProgress(check.op, "", (i+1)*100/n, n, i+1)); err != nil {
				return err
			}
			if err := d.sleep(ctx, 1000/demoTicksPerSecond); err != nil {
				return err
			}
		}
	}

	if err := publish(events.NewNotice(events.TransactionStart)); err != nil {
		return err
	}
	for i, p := range d.packages {
		if err := d.install(ctx, publish, p, i, n); err != nil {
			return err
		}
	}

	hook := events.NewNotice(events.HookStart)
	hook.When = events.PostTransaction
	if err := publish(hook); err != nil {
		return err
	}
	run := events.NewNotice(events.HookRunStart)
	run.Name = "ldconfig"
	run.Desc = "Updating the library cache..."
	run.Position, run.Total = 1, 1
	return publish(run)
}

func (d *demo) install(ctx context.Context, publish func(events.Event) error, p demoPackage, i, n int) error {
	pkg := &events.Package{Name: p.name, Version: p.version}
	if i == 0 {
		pkg.OptDepends = []string{"demo-docs: documentation"}
	}

	start := events.NewNotice(events.PackageOperationStart)
	start.Operation = events.OperationInstall
	start.NewPkg = pkg
	if err := publish(start); err != nil {
		return err
	}

	for percent := 0; percent <= 100; percent += 25 {
		if err := publish(events.NewProgress(events.ProgressAddStart, p.name, percent, n, i+1)); err != nil {
			return err
		}
		// a configuration file created mid-install is held back until
		// the bar completes
		if i == 1 && percent == 50 {
			pacnew := events.NewNotice(events.PacnewCreated)
			pacnew.File = "/etc/" + p.name + ".conf"
			if err := publish(pacnew); err != nil {
				return err
			}
		}
		if err := d.sleep(ctx, 1000/demoTicksPerSecond); err != nil {
			return err
		}
	}

	done := events.NewNotice(events.PackageOperationDone)
	done.Operation = events.OperationInstall
	done.NewPkg = pkg
	return publish(done)
}

// downloadAll transfers every package through a progress.Reader, at most
// parallel at a time.
func (d *demo) downloadAll(ctx context.Context, sink progress.DownloadSink) error {
	limit := d.parallel
	if limit < 1 {
		limit = 1
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, p := range d.packages {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		}

		wg.Add(1)
		go func(p demoPackage) {
			defer wg.Done()
			defer func() { <-sem }()

			limiter := ratelimit.NewRateLimiter(float64(d.rate), float64(d.chunk()))
			src := ratelimit.NewReader(ctx, io.LimitReader(zeroes{}, p.size), limiter)
			reader := progress.NewReader(src, p.filename(), p.size, sink)
			if _, err := io.Copy(io.Discard, reader); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("download %s: %w", p.filename(), err)
				}
				mu.Unlock()
			}
		}(p)
	}

	wg.Wait()
	return firstErr
}

func (d *demo) chunk() int64 {
	c := d.rate / demoTicksPerSecond
	if c < 1 {
		c = 1
	}
	return c
}

// zeroes is an endless source of zero bytes.
type zeroes struct{}

func (zeroes) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// newDemoCmd creates the 'demo' command.
func newDemoCmd() *cobra.Command {
	var (
		count int
		size  string
		rate  string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render a synthetic download and install transaction",
		Long: `Run a synthetic transaction: download --packages files of about --size
bytes each at --rate bytes per second, then check and install them.

Downloads run concurrently when ParallelDownloads (or --parallel) is
greater than 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--packages must be at least 1")
			}
			sizeBytes, err := humanize.ParseBytes(size)
			if err != nil {
				return fmt.Errorf("invalid --size: %w", err)
			}
			rateBytes, err := humanize.ParseBytes(rate)
			if err != nil || rateBytes == 0 {
				return fmt.Errorf("invalid --rate %q", rate)
			}

			cfg := GetOptions()
			log := GetLogger()
			d := newDemo(count, int64(sizeBytes), int64(rateBytes), cfg.ParallelDownloads)

			console := terminal.NewStdConsole()
			color := cfg.WantColor(os.Stdout)
			a := newApp(cfg, console, os.Stdout, color, clock.NewMonotonic(),
				NewTerminalPrompter(os.Stdin, os.Stderr, cfg.NoConfirm, color), log)
			if a.parallel != nil {
				log.SetOutput(a.parallel.Writer())
			}

			started := time.Now()
			err = a.run(GetContext(), d.play)
			console.Flush(terminal.Stdout)
			console.Flush(terminal.Stderr)
			if err != nil {
				return err
			}

			log.SetOutput(os.Stderr)
			log.Info().
				Int("packages", count).
				Str("downloaded", humanize.IBytes(uint64(d.totalSize()))).
				Str("elapsed", time.Since(started).Round(time.Millisecond).String()).
				Msg("demo transaction complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "packages", 5, "Number of packages")
	cmd.Flags().StringVar(&size, "size", "4MiB", "Approximate size of each package")
	cmd.Flags().StringVar(&rate, "rate", "2MiB", "Transfer rate of each download per second")
	return cmd
}
