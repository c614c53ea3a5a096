package cli

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescale/pkgview/internal/config"
)

func noSleep(ctx context.Context, ms int64) error { return ctx.Err() }

func TestNewDemoPackages(t *testing.T) {
	d := newDemo(14, 1000, 100, 1)
	require.Len(t, d.packages, 14)

	assert.Equal(t, "zlib-1.0-1-x86_64.pkg.tar.zst", d.packages[0].filename())
	assert.Equal(t, "zlib2", d.packages[12].name)
	assert.Equal(t, int64(500), d.packages[0].size)
	assert.Equal(t, int64(1000), d.packages[1].size)
	assert.Equal(t, int64(1500), d.packages[2].size)
}

func TestZeroes(t *testing.T) {
	data, err := io.ReadAll(io.LimitReader(zeroes{}, 250))
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 250), data)
}

func TestDemoChunk(t *testing.T) {
	assert.Equal(t, int64(100), newDemo(1, 10, 2000, 1).chunk())
	assert.Equal(t, int64(1), newDemo(1, 10, 5, 1).chunk())
}

func TestDemoTransaction(t *testing.T) {
	a, console, _, _ := newTestApp(config.NewOptions(), 80)
	d := newDemo(3, 1000, 20000, 1)
	d.sleep = noSleep

	require.NoError(t, a.run(context.Background(), d.play))

	out := console.Out.String()
	assert.Contains(t, out, ":: Retrieving packages...\n")
	assert.Contains(t, out, " zlib-1.0-1-x86_64 ")
	assert.Contains(t, out, ":: Processing package changes...\n")
	assert.Contains(t, out, "(3/3) checking available disk space")
	assert.Contains(t, out, "(1/3) installing zlib")
	assert.Contains(t, out, "(3/3) installing ncurses")
	assert.Contains(t, out, "Optional dependencies for zlib\n    demo-docs: documentation\n")
	assert.Contains(t, out, ":: Running post-transaction hooks...\n(1/1) Updating the library cache...\n")

	// held back while the openssl bar was on screen
	assert.Equal(t, "warning: /etc/openssl.conf installed as /etc/openssl.conf.pacnew\n", console.Err.String())
}

func TestDemoParallelDownloads(t *testing.T) {
	cfg := config.NewOptions()
	cfg.ParallelDownloads = 3
	cfg.NoProgressBar = true
	a, console, _, _ := newTestApp(cfg, 80)
	d := newDemo(4, 1000, 20000, cfg.ParallelDownloads)
	d.sleep = noSleep

	require.NoError(t, a.run(context.Background(), d.play))

	out := console.Out.String()
	for _, p := range d.packages {
		assert.Contains(t, out, "downloading "+p.filename()+"...\n")
	}
}

func TestDemoStopsOnCancel(t *testing.T) {
	a, _, _, _ := newTestApp(config.NewOptions(), 80)
	d := newDemo(2, 1000, 100, 1)
	d.sleep = noSleep

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.run(ctx, d.play)
	assert.ErrorIs(t, err, context.Canceled)
}
