package events

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownName is returned when a script names a code that does not exist.
var ErrUnknownName = errors.New("unknown name")

// NoticeCode identifies a discrete transaction notification.
type NoticeCode int

const (
	CheckDepsStart NoticeCode = iota + 1
	CheckDepsDone
	FileConflictsStart
	FileConflictsDone
	ResolveDepsStart
	ResolveDepsDone
	InterConflictsStart
	InterConflictsDone
	TransactionStart
	TransactionDone
	PackageOperationStart
	PackageOperationDone
	IntegrityStart
	IntegrityDone
	LoadStart
	LoadDone
	DeltaIntegrityStart
	DeltaIntegrityDone
	DeltaPatchesStart
	DeltaPatchesDone
	DeltaPatchStart
	DeltaPatchDone
	DeltaPatchFailed
	ScriptletInfo
	RetrieveStart
	RetrieveDone
	RetrieveFailed
	PkgDownloadStart
	PkgDownloadDone
	PkgDownloadFailed
	DiskSpaceStart
	DiskSpaceDone
	OptDepRemoval
	DatabaseMissing
	KeyringStart
	KeyringDone
	KeyDownloadStart
	KeyDownloadDone
	PacnewCreated
	PacsaveCreated
	HookStart
	HookDone
	HookRunStart
	HookRunDone
)

var noticeNames = map[NoticeCode]string{
	CheckDepsStart:        "checkdeps_start",
	CheckDepsDone:         "checkdeps_done",
	FileConflictsStart:    "fileconflicts_start",
	FileConflictsDone:     "fileconflicts_done",
	ResolveDepsStart:      "resolvedeps_start",
	ResolveDepsDone:       "resolvedeps_done",
	InterConflictsStart:   "interconflicts_start",
	InterConflictsDone:    "interconflicts_done",
	TransactionStart:      "transaction_start",
	TransactionDone:       "transaction_done",
	PackageOperationStart: "package_operation_start",
	PackageOperationDone:  "package_operation_done",
	IntegrityStart:        "integrity_start",
	IntegrityDone:         "integrity_done",
	LoadStart:             "load_start",
	LoadDone:              "load_done",
	DeltaIntegrityStart:   "delta_integrity_start",
	DeltaIntegrityDone:    "delta_integrity_done",
	DeltaPatchesStart:     "delta_patches_start",
	DeltaPatchesDone:      "delta_patches_done",
	DeltaPatchStart:       "delta_patch_start",
	DeltaPatchDone:        "delta_patch_done",
	DeltaPatchFailed:      "delta_patch_failed",
	ScriptletInfo:         "scriptlet_info",
	RetrieveStart:         "retrieve_start",
	RetrieveDone:          "retrieve_done",
	RetrieveFailed:        "retrieve_failed",
	PkgDownloadStart:      "pkgdownload_start",
	PkgDownloadDone:       "pkgdownload_done",
	PkgDownloadFailed:     "pkgdownload_failed",
	DiskSpaceStart:        "diskspace_start",
	DiskSpaceDone:         "diskspace_done",
	OptDepRemoval:         "optdep_removal",
	DatabaseMissing:       "database_missing",
	KeyringStart:          "keyring_start",
	KeyringDone:           "keyring_done",
	KeyDownloadStart:      "key_download_start",
	KeyDownloadDone:       "key_download_done",
	PacnewCreated:         "pacnew_created",
	PacsaveCreated:        "pacsave_created",
	HookStart:             "hook_start",
	HookDone:              "hook_done",
	HookRunStart:          "hook_run_start",
	HookRunDone:           "hook_run_done",
}

func (c NoticeCode) String() string { return nameOf(noticeNames, c) }

// UnmarshalText parses a snake_case notice name.
func (c *NoticeCode) UnmarshalText(text []byte) error {
	return parseName(noticeNames, "notice", string(text), c)
}

// HookWhen says which hook phase a HookStart notice opens.
type HookWhen int

const (
	PreTransaction HookWhen = iota
	PostTransaction
)

var hookNames = map[HookWhen]string{
	PreTransaction:  "pre",
	PostTransaction: "post",
}

func (w HookWhen) String() string { return nameOf(hookNames, w) }

// UnmarshalText parses "pre" or "post".
func (w *HookWhen) UnmarshalText(text []byte) error {
	return parseName(hookNames, "hook phase", string(text), w)
}

// PackageOperation is what a transaction does to one package.
type PackageOperation int

const (
	OperationInstall PackageOperation = iota + 1
	OperationUpgrade
	OperationReinstall
	OperationDowngrade
	OperationRemove
)

var operationNames = map[PackageOperation]string{
	OperationInstall:   "install",
	OperationUpgrade:   "upgrade",
	OperationReinstall: "reinstall",
	OperationDowngrade: "downgrade",
	OperationRemove:    "remove",
}

func (o PackageOperation) String() string { return nameOf(operationNames, o) }

// UnmarshalText parses an operation name.
func (o *PackageOperation) UnmarshalText(text []byte) error {
	return parseName(operationNames, "operation", string(text), o)
}

// ProgressOp is the operation a ProgressEvent reports on.
type ProgressOp int

const (
	ProgressAddStart ProgressOp = iota + 1
	ProgressUpgradeStart
	ProgressDowngradeStart
	ProgressReinstallStart
	ProgressRemoveStart
	ProgressConflictsStart
	ProgressDiskspaceStart
	ProgressIntegrityStart
	ProgressLoadStart
	ProgressKeyringStart
)

var progressNames = map[ProgressOp]string{
	ProgressAddStart:       "install",
	ProgressUpgradeStart:   "upgrade",
	ProgressDowngradeStart: "downgrade",
	ProgressReinstallStart: "reinstall",
	ProgressRemoveStart:    "remove",
	ProgressConflictsStart: "conflicts",
	ProgressDiskspaceStart: "diskspace",
	ProgressIntegrityStart: "integrity",
	ProgressLoadStart:      "load",
	ProgressKeyringStart:   "keyring",
}

func (p ProgressOp) String() string { return nameOf(progressNames, p) }

// UnmarshalText parses a progress operation name.
func (p *ProgressOp) UnmarshalText(text []byte) error {
	return parseName(progressNames, "progress operation", string(text), p)
}

// LogLevel defines log severity levels
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// UnmarshalText accepts debug, info, warning/warn and error in any case.
func (l *LogLevel) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "debug":
		*l = DebugLevel
	case "info", "":
		*l = InfoLevel
	case "warn", "warning":
		*l = WarnLevel
	case "error":
		*l = ErrorLevel
	default:
		return fmt.Errorf("log level %q: %w", string(text), ErrUnknownName)
	}
	return nil
}

func nameOf[T comparable](names map[T]string, v T) string {
	if s, ok := names[v]; ok {
		return s
	}
	return "unknown"
}

func parseName[T comparable](names map[T]string, kind, s string, out *T) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range names {
		if name == s {
			*out = v
			return nil
		}
	}
	return fmt.Errorf("%s %q: %w", kind, s, ErrUnknownName)
}
