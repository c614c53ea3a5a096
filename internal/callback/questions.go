package callback

import (
	"fmt"
	"strings"

	"github.com/rescale/pkgview/internal/events"
	"github.com/rescale/pkgview/internal/layout"
	"github.com/rescale/pkgview/internal/terminal"
	pvstrings "github.com/rescale/pkgview/internal/util/strings"
)

// OnQuestion answers q, asking the user when needed, and resolves it.
func (d *Dispatcher) OnQuestion(q *events.QuestionEvent) {
	if d.opts.Print {
		switch q.Kind {
		case events.QuestionInstallIgnorePkg, events.QuestionReplacePkg:
			q.Resolve(1)
		default:
			q.Resolve(0)
		}
		return
	}

	answer := d.ask(q)
	if d.opts.NoAsk && d.opts.Ask&q.Kind != 0 {
		if answer == 0 {
			answer = 1
		} else {
			answer = 0
		}
	}
	q.Resolve(answer)
}

func (d *Dispatcher) ask(q *events.QuestionEvent) int {
	switch q.Kind {
	case events.QuestionInstallIgnorePkg:
		if d.opts.DownloadOnly {
			return 1
		}
		return d.yesNo(fmt.Sprintf("%s is in IgnorePkg/IgnoreGroup. Install anyway?", q.Package))

	case events.QuestionReplacePkg:
		return d.yesNo(fmt.Sprintf("Replace %s with %s/%s?", q.OldPkg, q.NewDB, q.NewPkg))

	case events.QuestionConflictPkg:
		// the reason is only worth printing when it names neither package
		if q.Reason == "" || q.Package1 == q.Reason || q.Package2 == q.Reason {
			return d.yesNo(fmt.Sprintf("%s and %s are in conflict. Remove %s?",
				q.Package1, q.Package2, q.Package2))
		}
		return d.yesNo(fmt.Sprintf("%s and %s are in conflict (%s). Remove %s?",
			q.Package1, q.Package2, q.Reason, q.Package2))

	case events.QuestionRemovePkgs:
		count := int64(len(q.Packages))
		d.stdout(d.colors.colon("%s", pvstrings.Choose(
			"The following package cannot be upgraded due to unresolvable dependencies:\n",
			"The following packages cannot be upgraded due to unresolvable dependencies:\n",
			count)))
		d.stdout(layout.ListDisplay("     ", q.Packages, d.out.Columns(), d.opts.Width))
		d.stdout("\n")
		d.out.Flush(terminal.Stdout)
		return d.yesNo(pvstrings.Choose(
			"Do you want to skip the above package for this upgrade?",
			"Do you want to skip the above packages for this upgrade?",
			count))

	case events.QuestionSelectProvider:
		count := len(q.Providers)
		if count == 1 {
			d.stdout(d.colors.colon("There is %d provider available for %s\n", count, q.Depend))
		} else {
			d.stdout(d.colors.colon("There are %d providers available for %s:\n", count, q.Depend))
		}
		d.stdout(d.selectDisplay(q.Providers))
		d.out.Flush(terminal.Stdout)
		if count == 0 {
			return 0
		}
		return d.prompter.SelectIndex(count)

	case events.QuestionCorruptedPkg:
		return d.yesNo(fmt.Sprintf("File %s is corrupted (%s).\nDo you want to delete it?",
			q.FilePath, q.Error))

	case events.QuestionImportKey:
		k := q.Key
		created := k.Created.Format("2006-01-02")
		revoked := ""
		if k.Revoked {
			revoked = " (revoked)"
		}
		return d.yesNo(fmt.Sprintf("Import PGP key %d%s/%s, \"%s\", created: %s%s?",
			k.Length, k.PubkeyAlgo, k.Fingerprint, k.UID, created, revoked))

	default:
		d.logger.Debug().Uint32("type", uint32(q.Kind)).Msg("unknown question, answering no")
		return 0
	}
}

func (d *Dispatcher) yesNo(question string) int {
	d.out.Flush(terminal.Stdout)
	if d.prompter.YesNo(question, true) {
		return 1
	}
	return 0
}

// selectDisplay lists providers grouped by repository, numbered from 1
// across all groups.
func (d *Dispatcher) selectDisplay(providers []events.Provider) string {
	var sb strings.Builder
	var names []string
	repo := ""
	flush := func() {
		if len(names) == 0 {
			return
		}
		sb.WriteString(d.colors.colon("Repository %s\n", repo))
		sb.WriteString(layout.ListDisplay("   ", names, d.out.Columns(), d.opts.Width))
		names = nil
	}

	for i, p := range providers {
		if i == 0 || p.Repository != repo {
			flush()
			repo = p.Repository
		}
		names = append(names, fmt.Sprintf("%d) %s", i+1, p.Name))
	}
	flush()
	return sb.String()
}
