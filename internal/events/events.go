// Package events is the notification data model of a package transaction
// (discrete notices, questions, progress ticks and log lines) and the
// EventBus that carries them from a producer to the dispatcher.
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rescale/pkgview/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	EventNotice        EventType = "notice"
	EventQuestion      EventType = "question"
	EventProgress      EventType = "progress"
	EventDownload      EventType = "download"
	EventDownloadTotal EventType = "download_total"
	EventLog           EventType = "log"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType `yaml:"-"`
	Time      time.Time `yaml:"-"`
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

func base(t EventType) BaseEvent {
	return BaseEvent{EventType: t, Time: time.Now()}
}

// Package is the subset of package metadata notices refer to.
type Package struct {
	Name       string   `yaml:"name"`
	Version    string   `yaml:"version"`
	OptDepends []string `yaml:"optdepends"`
}

// NoticeEvent is a discrete transaction notification. Which fields are set
// depends on Code.
type NoticeEvent struct {
	BaseEvent `yaml:"-"`
	Code      NoticeCode `yaml:"code"`

	// HookStart
	When HookWhen `yaml:"when"`

	// HookRunStart
	Name     string `yaml:"name"`
	Desc     string `yaml:"desc"`
	Position int    `yaml:"position"`
	Total    int    `yaml:"total"`

	// PackageOperationStart/Done
	Operation PackageOperation `yaml:"operation"`
	OldPkg    *Package         `yaml:"oldpkg"`
	NewPkg    *Package         `yaml:"newpkg"`

	// DeltaPatchStart
	DeltaTo   string `yaml:"delta_to"`
	DeltaFile string `yaml:"delta_file"`

	// ScriptletInfo
	Line string `yaml:"line"`

	// OptDepRemoval
	Pkg    string `yaml:"pkg"`
	OptDep string `yaml:"optdep"`

	// DatabaseMissing
	Database string `yaml:"database"`

	// PacnewCreated/PacsaveCreated
	File string `yaml:"file"`
}

// NewNotice creates a notice event for code.
func NewNotice(code NoticeCode) *NoticeEvent {
	return &NoticeEvent{BaseEvent: base(EventNotice), Code: code}
}

// ProgressEvent is a tick of a multi-item transaction operation.
type ProgressEvent struct {
	BaseEvent `yaml:"-"`
	Op        ProgressOp `yaml:"op"`
	Package   string     `yaml:"pkg"`
	Percent   int        `yaml:"percent"`
	HowMany   int        `yaml:"howmany"`
	Current   int        `yaml:"current"`
}

// NewProgress creates a transaction progress tick.
func NewProgress(op ProgressOp, pkg string, percent, howmany, current int) *ProgressEvent {
	return &ProgressEvent{
		BaseEvent: base(EventProgress),
		Op:        op,
		Package:   pkg,
		Percent:   percent,
		HowMany:   howmany,
		Current:   current,
	}
}

// DownloadEvent is a byte-level tick of one file transfer. Total is -1 when
// the size is unknown.
type DownloadEvent struct {
	BaseEvent `yaml:"-"`
	File      string `yaml:"file"`
	Done      int64  `yaml:"done"`
	Total     int64  `yaml:"total"`
}

// NewDownload creates a download tick.
func NewDownload(file string, done, total int64) *DownloadEvent {
	return &DownloadEvent{BaseEvent: base(EventDownload), File: file, Done: done, Total: total}
}

// DownloadTotalEvent announces the size of a download batch; 0 ends it.
type DownloadTotalEvent struct {
	BaseEvent `yaml:"-"`
	Total     int64 `yaml:"total"`
}

// NewDownloadTotal creates a batch size announcement.
func NewDownloadTotal(total int64) *DownloadTotalEvent {
	return &DownloadTotalEvent{BaseEvent: base(EventDownloadTotal), Total: total}
}

// LogEvent represents log messages
type LogEvent struct {
	BaseEvent `yaml:"-"`
	Level     LogLevel `yaml:"level"`
	Message   string   `yaml:"message"`
}

// NewLog creates a log line event.
func NewLog(level LogLevel, message string) *LogEvent {
	return &LogEvent{BaseEvent: base(EventLog), Level: level, Message: message}
}

// Stamp fills in the type and time of an event decoded from a script.
func Stamp(ev Event) Event {
	now := time.Now()
	switch e := ev.(type) {
	case *NoticeEvent:
		e.BaseEvent = BaseEvent{EventType: EventNotice, Time: now}
	case *QuestionEvent:
		e.BaseEvent = BaseEvent{EventType: EventQuestion, Time: now}
		e.init()
	case *ProgressEvent:
		e.BaseEvent = BaseEvent{EventType: EventProgress, Time: now}
	case *DownloadEvent:
		e.BaseEvent = BaseEvent{EventType: EventDownload, Time: now}
	case *DownloadTotalEvent:
		e.BaseEvent = BaseEvent{EventType: EventDownloadTotal, Time: now}
	case *LogEvent:
		e.BaseEvent = BaseEvent{EventType: EventLog, Time: now}
	}
	return ev
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event // Subscribers to all events
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of dropped events due to full buffers
}

// NewEventBus creates a new event bus with specified buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer // Cap at maximum
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers without blocking. Events that
// do not fit a subscriber's buffer are dropped and counted.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.targets(event) {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// PublishSync sends an event to all subscribers, waiting for buffer space.
// Progress ticks must not be lost, so producers that cannot tolerate drops
// use this instead of Publish. Returns ctx.Err() if ctx ends first.
func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return nil
	}

	for _, ch := range eb.targets(event) {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// targets lists the channels event goes to. Caller holds mu.
func (eb *EventBus) targets(event Event) []chan Event {
	typed := eb.subscribers[event.Type()]
	out := make([]chan Event, 0, len(typed)+len(eb.all))
	out = append(out, typed...)
	return append(out, eb.all...)
}

// Close shuts down the event bus and closes all channels
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	eb.closed = true

	// Close specific type channels
	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}

	// Close all-events channels
	for _, ch := range eb.all {
		close(ch)
	}
}

// PublishLog is a convenience method for publishing log events
func (eb *EventBus) PublishLog(level LogLevel, message string) {
	eb.Publish(NewLog(level, message))
}

// Unsubscribe removes a subscription channel from a specific event type
// This prevents memory leaks from abandoned subscriptions
func (eb *EventBus) Unsubscribe(eventType EventType, ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	subscribers := eb.subscribers[eventType]
	for i, subCh := range subscribers {
		if subCh == ch {
			// Remove channel by replacing with last element and truncating
			subscribers[i] = subscribers[len(subscribers)-1]
			eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
			break
		}
	}
}

// UnsubscribeAll removes a subscription channel from all event types
// Use this when cleaning up a subscriber that subscribed to multiple event types
func (eb *EventBus) UnsubscribeAll(ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	for eventType, subscribers := range eb.subscribers {
		for i, subCh := range subscribers {
			if subCh == ch {
				subscribers[i] = subscribers[len(subscribers)-1]
				eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
				break
			}
		}
	}

	for i, subCh := range eb.all {
		if subCh == ch {
			eb.all[i] = eb.all[len(eb.all)-1]
			eb.all = eb.all[:len(eb.all)-1]
			break
		}
	}
}

// GetDroppedEventCount returns the total number of events dropped due to full buffers
// Useful for monitoring and detecting if buffer sizes need adjustment
func (eb *EventBus) GetDroppedEventCount() int64 {
	return eb.droppedEvents.Load()
}

// ResetDroppedEventCount resets the dropped event counter to zero
// Useful for periodic monitoring windows
func (eb *EventBus) ResetDroppedEventCount() int64 {
	return eb.droppedEvents.Swap(0)
}
