package bilingual

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/vishwasT007/grampanchayat-multi-tenant-sub002/internal/common"
)

const (
	SourceLang = "en"
	TargetLang = "mr"

	DefaultDebounce         = 1500 * time.Millisecond
	DefaultTranslateTimeout = 10 * time.Second
)

var (
	ErrFieldClosed   = errors.New("bilingual field is closed")
	ErrFieldDisabled = errors.New("bilingual field is disabled")
)

// Translator is the outbound translation endpoint.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

type State int

const (
	StateIdle State = iota
	StatePendingTranslation
	StateTranslating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingTranslation:
		return "pending"
	case StateTranslating:
		return "translating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Options are the display hints of a field.
type Options struct {
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Multiline   bool   `json:"multiline,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// Status is what the caller shows next to the field: the in-progress
// indicator and the auto-translate toggle.
type Status struct {
	State         State `json:"state"`
	Translating   bool  `json:"translating"`
	AutoTranslate bool  `json:"autoTranslate"`
}

type Option func(*Field)

func WithDebounce(d time.Duration) Option {
	return func(f *Field) {
		if d > 0 {
			f.debounce = d
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(f *Field) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithClock(c Clock) Option {
	return func(f *Field) { f.clock = c }
}

func WithAutoTranslate(on bool) Option {
	return func(f *Field) { f.auto = on }
}

func WithOptions(o Options) Option {
	return func(f *Field) { f.opts = o }
}

// OnChange registers the callback receiving the full value after every edit
// and after every applied translation.
func OnChange(fn func(Text)) Option {
	return func(f *Field) { f.onChange = fn }
}

// OnStatus registers the callback receiving status transitions.
func OnStatus(fn func(Status)) Option {
	return func(f *Field) { f.onStatus = fn }
}

// Field pairs an English and a Marathi input. English edits are translated
// to Marathi after a quiet period; Marathi can be edited by hand at any time.
//
// Every request is tagged with a token. Any English edit, Marathi edit,
// toggle-off or Close bumps the token, so a result can only be applied while
// its token is still current. Callbacks run synchronously, in the order the
// mutations happened, and must not call mutating methods of the same Field.
type Field struct {
	tr       Translator
	clock    Clock
	debounce time.Duration
	timeout  time.Duration
	opts     Options
	onChange func(Text)
	onStatus func(Status)

	mu      sync.Mutex
	value   Text
	auto    bool
	state   State
	token   uint64
	timer   Timer
	cancel  context.CancelFunc
	lastErr error
	closed  bool
	ticket  uint64

	emitMu   sync.Mutex
	emitCond *sync.Cond
	serving  uint64
}

// NewField creates a field holding initial. Auto-translation is on unless
// WithAutoTranslate(false) is given.
func NewField(initial Text, tr Translator, opts ...Option) *Field {
	f := &Field{
		tr:       tr,
		clock:    RealClock,
		debounce: DefaultDebounce,
		timeout:  DefaultTranslateTimeout,
		value:    initial,
		auto:     true,
		serving:  1,
	}
	f.emitCond = sync.NewCond(&f.emitMu)
	for _, opt := range opts {
		opt(f)
	}
	if f.tr == nil {
		f.auto = false
	}
	return f
}

func (f *Field) Value() Text {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *Field) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusLocked()
}

func (f *Field) Options() Options {
	return f.opts
}

// Err returns the outcome of the last translation that resolved for the
// current English text: nil on success, ErrTranslationUnavailable otherwise.
func (f *Field) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Validate enforces the required flag on the English side.
func (f *Field) Validate() error {
	v := f.Value()
	if f.opts.Required && strings.TrimSpace(v.En) == "" {
		name := f.opts.Label
		if name == "" {
			name = "field"
		}
		return fmt.Errorf("%s is required: %w", name, common.ErrValidation)
	}
	return nil
}

// SetEnglish records an English keystroke and (re)starts the debounce timer.
func (f *Field) SetEnglish(text string) error {
	f.mu.Lock()
	if err := f.editableLocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	f.value.En = text
	f.invalidateLocked()
	f.lastErr = nil
	if f.auto && strings.TrimSpace(text) != "" {
		tok := f.token
		f.state = StatePendingTranslation
		f.timer = f.clock.AfterFunc(f.debounce, func() { f.fire(tok) })
	} else {
		f.state = StateIdle
	}
	f.unlockAndEmit(true, true)
	return nil
}

// SetMarathi records a manual Marathi edit. It overrides any pending or
// in-flight translation.
func (f *Field) SetMarathi(text string) error {
	f.mu.Lock()
	if err := f.editableLocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	f.value.Mr = text
	f.invalidateLocked()
	f.state = StateIdle
	f.unlockAndEmit(true, true)
	return nil
}

// SetAutoTranslate flips the toggle. Turning it off drops whatever is pending
// or in flight; turning it on waits for the next English edit.
func (f *Field) SetAutoTranslate(on bool) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFieldClosed
	}
	if on && f.tr == nil {
		f.mu.Unlock()
		return fmt.Errorf("no translator configured: %w", common.ErrTranslationUnavailable)
	}
	if f.auto == on {
		f.mu.Unlock()
		return nil
	}
	f.auto = on
	if !on {
		f.invalidateLocked()
		f.state = StateIdle
	}
	f.unlockAndEmit(false, true)
	return nil
}

// Close stops the timer and discards any in-flight result. No callback runs
// after Close returns, except one that was already being delivered.
func (f *Field) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.invalidateLocked()
	f.closed = true
	f.state = StateIdle
}

func (f *Field) editableLocked() error {
	if f.closed {
		return ErrFieldClosed
	}
	if f.opts.Disabled {
		return ErrFieldDisabled
	}
	return nil
}

// invalidateLocked supersedes the current request: the timer is stopped,
// the in-flight call is cancelled and its token retired.
func (f *Field) invalidateLocked() {
	f.token++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *Field) fire(tok uint64) {
	f.mu.Lock()
	if f.closed || tok != f.token || !f.auto {
		f.mu.Unlock()
		return
	}
	text := f.value.En
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	f.cancel = cancel
	f.timer = nil
	f.state = StateTranslating
	f.unlockAndEmit(false, true)

	go func() {
		out, err := f.tr.Translate(ctx, text, SourceLang, TargetLang)
		f.resolve(tok, out, err)
	}()
}

// resolve applies the outcome of request tok. It returns ErrStaleResult
// when tok has been superseded.
func (f *Field) resolve(tok uint64, out string, err error) error {
	f.mu.Lock()
	if f.closed || tok != f.token {
		f.mu.Unlock()
		return common.ErrStaleResult
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.state = StateIdle

	if err == nil && strings.TrimSpace(out) == "" {
		err = errors.New("empty translation")
	}
	if err != nil {
		if !errors.Is(err, common.ErrTranslationUnavailable) {
			err = fmt.Errorf("%w: %v", common.ErrTranslationUnavailable, err)
		}
		f.lastErr = err
		log.Printf("WARN: bilingual field %q: %v", f.opts.Label, err)
		f.unlockAndEmit(false, true)
		return err
	}

	f.value.Mr = out
	f.lastErr = nil
	f.unlockAndEmit(true, true)
	return nil
}

func (f *Field) statusLocked() Status {
	return Status{
		State:         f.state,
		Translating:   f.state == StateTranslating,
		AutoTranslate: f.auto,
	}
}

// unlockAndEmit releases mu and then delivers callbacks in ticket order, so
// observers see values in the order the mutations happened.
func (f *Field) unlockAndEmit(value, status bool) {
	f.ticket++
	my := f.ticket
	v, s := f.value, f.statusLocked()
	f.mu.Unlock()

	f.emitMu.Lock()
	for f.serving != my {
		f.emitCond.Wait()
	}
	f.emitMu.Unlock()

	if value && f.onChange != nil {
		f.onChange(v)
	}
	if status && f.onStatus != nil {
		f.onStatus(s)
	}

	f.emitMu.Lock()
	f.serving++
	f.emitCond.Broadcast()
	f.emitMu.Unlock()
}
