package callback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rescale/pkgview/internal/events"
)

func answer(t *testing.T, d *Dispatcher, q *events.QuestionEvent) int {
	t.Helper()
	d.OnQuestion(q)
	if !q.Answered() {
		t.Fatal("question was not resolved")
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	a, _ := q.Wait(ctx)
	return a
}

func TestQuestionText(t *testing.T) {
	tests := []struct {
		q        *events.QuestionEvent
		expected string
	}{
		{&events.QuestionEvent{Kind: events.QuestionInstallIgnorePkg, Package: "linux"},
			"linux is in IgnorePkg/IgnoreGroup. Install anyway?"},
		{&events.QuestionEvent{Kind: events.QuestionReplacePkg, OldPkg: "foo", NewDB: "extra", NewPkg: "bar"},
			"Replace foo with extra/bar?"},
		{&events.QuestionEvent{Kind: events.QuestionConflictPkg, Package1: "a", Package2: "b", Reason: "b"},
			"a and b are in conflict. Remove b?"},
		{&events.QuestionEvent{Kind: events.QuestionConflictPkg, Package1: "a", Package2: "b", Reason: "libc"},
			"a and b are in conflict (libc). Remove b?"},
		{&events.QuestionEvent{Kind: events.QuestionCorruptedPkg, FilePath: "/var/cache/x.pkg", Error: "invalid or corrupted package"},
			"File /var/cache/x.pkg is corrupted (invalid or corrupted package).\nDo you want to delete it?"},
		{&events.QuestionEvent{Kind: events.QuestionImportKey, Key: events.Key{
			Length: 4096, PubkeyAlgo: "R", Fingerprint: "ABCD", UID: "Dev <dev@example.org>",
			Created: time.Date(2020, 5, 17, 12, 0, 0, 0, time.UTC)}},
			"Import PGP key 4096R/ABCD, \"Dev <dev@example.org>\", created: 2020-05-17?"},
		{&events.QuestionEvent{Kind: events.QuestionImportKey, Key: events.Key{
			Length: 2048, PubkeyAlgo: "D", Fingerprint: "EF01", UID: "Old",
			Created: time.Date(2011, 1, 2, 12, 0, 0, 0, time.UTC), Revoked: true}},
			"Import PGP key 2048D/EF01, \"Old\", created: 2011-01-02 (revoked)?"},
	}

	for _, tt := range tests {
		d, _, prompter := newTestDispatcher(80, Options{})
		assert.Equal(t, 1, answer(t, d, events.Stamp(tt.q).(*events.QuestionEvent)))
		if assert.Len(t, prompter.questions, 1) {
			assert.Equal(t, tt.expected, prompter.questions[0])
		}
	}
}

func TestPrintModeAnswers(t *testing.T) {
	d, _, prompter := newTestDispatcher(80, Options{Print: true})

	assert.Equal(t, 1, answer(t, d, events.NewQuestion(events.QuestionInstallIgnorePkg)))
	assert.Equal(t, 1, answer(t, d, events.NewQuestion(events.QuestionReplacePkg)))
	assert.Equal(t, 0, answer(t, d, events.NewQuestion(events.QuestionConflictPkg)))
	assert.Equal(t, 0, answer(t, d, events.NewQuestion(events.QuestionImportKey)))
	assert.Empty(t, prompter.questions)
}

func TestDownloadOnlyInstallsIgnored(t *testing.T) {
	d, _, prompter := newTestDispatcher(80, Options{DownloadOnly: true})
	prompter.yes = false

	assert.Equal(t, 1, answer(t, d, events.NewQuestion(events.QuestionInstallIgnorePkg)))
	assert.Empty(t, prompter.questions)
}

func TestAskMaskInvertsAnswers(t *testing.T) {
	d, _, _ := newTestDispatcher(80, Options{
		NoAsk: true,
		Ask:   events.QuestionReplacePkg | events.QuestionSelectProvider,
	})

	// prompter says yes; replace is in the mask so it flips
	assert.Equal(t, 0, answer(t, d, events.NewQuestion(events.QuestionReplacePkg)))
	assert.Equal(t, 1, answer(t, d, events.NewQuestion(events.QuestionConflictPkg)))

	q := events.NewQuestion(events.QuestionSelectProvider)
	q.Providers = []events.Provider{{Name: "a", Repository: "core"}, {Name: "b", Repository: "core"}}
	assert.Equal(t, 1, answer(t, d, q))
}

func TestRemovePkgsQuestion(t *testing.T) {
	d, console, prompter := newTestDispatcher(80, Options{})
	q := events.NewQuestion(events.QuestionRemovePkgs)
	q.Packages = []string{"foo", "bar"}

	assert.Equal(t, 1, answer(t, d, q))
	assert.Equal(t,
		":: The following packages cannot be upgraded due to unresolvable dependencies:\n"+
			"     foo  bar\n\n",
		console.Out.String())
	assert.Equal(t, []string{"Do you want to skip the above packages for this upgrade?"}, prompter.questions)

	d, console, prompter = newTestDispatcher(80, Options{})
	q = events.NewQuestion(events.QuestionRemovePkgs)
	q.Packages = []string{"foo"}
	answer(t, d, q)
	assert.Contains(t, console.Out.String(), "The following package cannot")
	assert.Equal(t, []string{"Do you want to skip the above package for this upgrade?"}, prompter.questions)
}

func TestSelectProvider(t *testing.T) {
	d, console, prompter := newTestDispatcher(80, Options{})
	prompter.index = 2

	q := events.NewQuestion(events.QuestionSelectProvider)
	q.Depend = "sh"
	q.Providers = []events.Provider{
		{Name: "bash", Repository: "core"},
		{Name: "dash", Repository: "core"},
		{Name: "zsh", Repository: "extra"},
	}

	assert.Equal(t, 2, answer(t, d, q))
	assert.Equal(t,
		":: There are 3 providers available for sh:\n"+
			":: Repository core\n"+
			"   1) bash  2) dash\n"+
			":: Repository extra\n"+
			"   3) zsh\n",
		console.Out.String())
	assert.Equal(t, []string{"select"}, prompter.questions)
}

func TestSelectProviderSingular(t *testing.T) {
	d, console, _ := newTestDispatcher(80, Options{})
	q := events.NewQuestion(events.QuestionSelectProvider)
	q.Depend = "java-runtime"
	q.Providers = []events.Provider{{Name: "jre-openjdk", Repository: "extra"}}

	answer(t, d, q)
	assert.Contains(t, console.Out.String(), ":: There is 1 provider available for java-runtime\n")
}

func TestUnknownQuestionAnsweredNo(t *testing.T) {
	d, _, prompter := newTestDispatcher(80, Options{})
	assert.Equal(t, 0, answer(t, d, events.NewQuestion(events.QuestionType(1<<20))))
	assert.Empty(t, prompter.questions)
}
