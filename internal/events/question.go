package events

import (
	"context"
	"strings"
	"sync"
	"time"
)

// QuestionType identifies a question. Values are bit flags so that a set
// of types can be given as a mask (the --ask option).
type QuestionType uint32

const (
	QuestionInstallIgnorePkg QuestionType = 1 << iota
	QuestionReplacePkg
	QuestionConflictPkg
	QuestionCorruptedPkg
	QuestionRemovePkgs
	QuestionSelectProvider
	QuestionImportKey
)

var questionNames = map[QuestionType]string{
	QuestionInstallIgnorePkg: "install_ignorepkg",
	QuestionReplacePkg:       "replace_pkg",
	QuestionConflictPkg:      "conflict_pkg",
	QuestionCorruptedPkg:     "corrupted_pkg",
	QuestionRemovePkgs:       "remove_pkgs",
	QuestionSelectProvider:   "select_provider",
	QuestionImportKey:        "import_key",
}

func (q QuestionType) String() string { return nameOf(questionNames, q) }

// UnmarshalText parses a question name.
func (q *QuestionType) UnmarshalText(text []byte) error {
	return parseName(questionNames, "question", strings.TrimSpace(string(text)), q)
}

// Provider is one candidate of a SelectProvider question.
type Provider struct {
	Name       string `yaml:"name"`
	Version    string `yaml:"version"`
	Repository string `yaml:"repo"`
}

// Key describes the PGP key of an ImportKey question.
type Key struct {
	Length      int       `yaml:"length"`
	PubkeyAlgo  string    `yaml:"algo"`
	Fingerprint string    `yaml:"fingerprint"`
	UID         string    `yaml:"uid"`
	Created     time.Time `yaml:"created"`
	Revoked     bool      `yaml:"revoked"`
}

// QuestionEvent asks the user to decide something. The producer blocks in
// Wait until the dispatcher calls Resolve. For yes/no questions the answer
// is 1 or 0; for SelectProvider it is the chosen index.
type QuestionEvent struct {
	BaseEvent `yaml:"-"`
	Kind      QuestionType `yaml:"type"`

	// InstallIgnorePkg
	Package string `yaml:"pkg"`

	// ReplacePkg
	OldPkg string `yaml:"oldpkg"`
	NewPkg string `yaml:"newpkg"`
	NewDB  string `yaml:"newdb"`

	// ConflictPkg
	Package1 string `yaml:"package1"`
	Package2 string `yaml:"package2"`
	Reason   string `yaml:"reason"`

	// RemovePkgs
	Packages []string `yaml:"packages"`

	// SelectProvider
	Depend    string     `yaml:"depend"`
	Providers []Provider `yaml:"providers"`

	// CorruptedPkg
	FilePath string `yaml:"filepath"`
	Error    string `yaml:"error"`

	// ImportKey
	Key Key `yaml:"key"`

	initOnce sync.Once
	once     sync.Once
	done     chan struct{}
	answer   int
}

// NewQuestion creates an unanswered question of kind.
func NewQuestion(kind QuestionType) *QuestionEvent {
	q := &QuestionEvent{BaseEvent: base(EventQuestion), Kind: kind}
	q.init()
	return q
}

func (q *QuestionEvent) init() {
	q.initOnce.Do(func() {
		q.done = make(chan struct{})
	})
}

// Resolve records the answer and releases Wait. Later calls are ignored.
func (q *QuestionEvent) Resolve(answer int) {
	q.init()
	q.once.Do(func() {
		q.answer = answer
		close(q.done)
	})
}

// Wait blocks until the question is resolved or ctx ends.
func (q *QuestionEvent) Wait(ctx context.Context) (int, error) {
	q.init()
	select {
	case <-q.done:
		return q.answer, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Answered reports whether Resolve was called.
func (q *QuestionEvent) Answered() bool {
	q.init()
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}
