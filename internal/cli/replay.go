package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rescale/pkgview/internal/clock"
	"github.com/rescale/pkgview/internal/events"
	"github.com/rescale/pkgview/internal/pathutil"
	"github.com/rescale/pkgview/internal/terminal"
)

// Step is one entry of a replay script. Exactly one of the notification
// fields is set; SleepMs waits before the notification is published.
//
//   - event: {code: retrieve_start}
//   - total: {total: 2097152}
//   - download: {file: zlib-1.3-1-x86_64.pkg.tar.zst, done: 0, total: 2097152}
//     sleep_ms: 250
//   - progress: {op: install, pkg: zlib, percent: 40, howmany: 3, current: 1}
//   - question: {type: replace_pkg, oldpkg: foo, newpkg: bar, newdb: extra}
//   - log: {level: warning, message: "something odd"}
type Step struct {
	Event    *events.NoticeEvent        `yaml:"event"`
	Question *events.QuestionEvent      `yaml:"question"`
	Progress *events.ProgressEvent      `yaml:"progress"`
	Download *events.DownloadEvent      `yaml:"download"`
	Total    *events.DownloadTotalEvent `yaml:"total"`
	Log      *events.LogEvent           `yaml:"log"`
	SleepMs  int64                      `yaml:"sleep_ms"`
}

// ErrEmptyScript is returned for a script without steps.
var ErrEmptyScript = errors.New("replay script has no steps")

// notification returns the event of the step, nil for a pure sleep.
func (s *Step) notification() (events.Event, error) {
	var found []events.Event
	if s.Event != nil {
		found = append(found, s.Event)
	}
	if s.Question != nil {
		found = append(found, s.Question)
	}
	if s.Progress != nil {
		found = append(found, s.Progress)
	}
	if s.Download != nil {
		found = append(found, s.Download)
	}
	if s.Total != nil {
		found = append(found, s.Total)
	}
	if s.Log != nil {
		found = append(found, s.Log)
	}

	switch len(found) {
	case 0:
		if s.SleepMs <= 0 {
			return nil, errors.New("step has no notification and no sleep")
		}
		return nil, nil
	case 1:
		return events.Stamp(found[0]), nil
	default:
		return nil, fmt.Errorf("step has %d notifications, expected one", len(found))
	}
}

// ParseScript decodes and checks a replay script.
func ParseScript(r io.Reader) ([]Step, error) {
	var steps []Step
	if err := yaml.NewDecoder(r).Decode(&steps); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScript
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if len(steps) == 0 {
		return nil, ErrEmptyScript
	}
	for i := range steps {
		if _, err := steps[i].notification(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return steps, nil
}

// replayer publishes script steps on a bus.
type replayer struct {
	steps []Step
	// sleep waits between steps; replaced by a manual clock advance when
	// replaying in virtual time.
	sleep func(ctx context.Context, ms int64) error
}

// replayResult summarises a finished replay.
type replayResult struct {
	published  int
	questions  int
	downloaded int64
}

func (r *replayer) play(ctx context.Context, bus *events.EventBus) (replayResult, error) {
	var res replayResult
	for i := range r.steps {
		step := &r.steps[i]
		if step.SleepMs > 0 {
			if err := r.sleep(ctx, step.SleepMs); err != nil {
				return res, err
			}
		}

		ev, err := step.notification()
		if err != nil {
			return res, fmt.Errorf("step %d: %w", i+1, err)
		}
		if ev == nil {
			continue
		}

		if q, ok := ev.(*events.QuestionEvent); ok {
			if _, err := ask(ctx, bus, q); err != nil {
				return res, err
			}
			res.questions++
		} else if err := bus.PublishSync(ctx, ev); err != nil {
			return res, err
		}
		res.published++

		if d, ok := ev.(*events.DownloadEvent); ok && d.Total > 0 && d.Done == d.Total {
			res.downloaded += d.Done
		}
	}
	return res, nil
}

func sleepContext(ctx context.Context, ms int64) error {
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// newReplayCmd creates the 'replay' command.
func newReplayCmd() *cobra.Command {
	var clockMode string

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Render a recorded sequence of transaction notifications",
		Long: `Replay a YAML script of notifications through the renderer.

Each step holds one of event, question, progress, download, total or log,
and an optional sleep_ms to wait before it is published.

With --clock manual the sleeps advance a virtual clock instead of waiting,
so a script renders instantly with the same throttling and rates as in
real time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pathutil.ExpandHome(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open script: %w", err)
			}
			defer f.Close()

			steps, err := ParseScript(f)
			if err != nil {
				return err
			}

			cfg := GetOptions()
			log := GetLogger()

			r := &replayer{steps: steps, sleep: sleepContext}
			var c clock.Clock
			switch clockMode {
			case "real":
				c = clock.NewMonotonic()
			case "manual":
				manual := clock.NewManual(0)
				c = manual
				r.sleep = func(ctx context.Context, ms int64) error {
					manual.Advance(ms)
					return ctx.Err()
				}
			default:
				return fmt.Errorf("invalid --clock %q: expected real or manual", clockMode)
			}

			console := terminal.NewStdConsole()
			color := cfg.WantColor(os.Stdout)
			a := newApp(cfg, console, os.Stdout, color, c,
				NewTerminalPrompter(os.Stdin, os.Stderr, cfg.NoConfirm, color), log)
			if a.parallel != nil {
				log.SetOutput(a.parallel.Writer())
			}

			var res replayResult
			err = a.run(GetContext(), func(ctx context.Context, bus *events.EventBus) error {
				var playErr error
				res, playErr = r.play(ctx, bus)
				return playErr
			})
			console.Flush(terminal.Stdout)
			console.Flush(terminal.Stderr)

			log.Debug().
				Str("steps", humanize.Comma(int64(len(steps)))).
				Int("published", res.published).
				Int("questions", res.questions).
				Str("downloaded", humanize.IBytes(uint64(res.downloaded))).
				Msg("replay finished")
			return err
		},
	}

	cmd.Flags().StringVar(&clockMode, "clock", "real", "Clock driving throttling and rates: real or manual")
	return cmd
}
