// Package insight produces short natural-language descriptions of the current
// function by asking a generative text service. Parameter changes are
// debounced so a burst of slider movements results in a single request.
package insight

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"absviz/internal/absfn"
	"absviz/internal/logging"
)

// ErrNotConfigured is returned when no credential is available.
var ErrNotConfigured = errors.New("insight: no API key configured")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// State is the pipeline's position in its request cycle.
type State int

const (
	Idle State = iota
	PendingDebounce
	Requesting
	Displaying
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingDebounce:
		return "pending"
	case Requesting:
		return "requesting"
	case Displaying:
		return "displaying"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Update is a snapshot of what the pipeline wants displayed.
type Update struct {
	Seq     uint64 // latest issued request
	State   State
	Text    string
	Loading bool
}

// Options tunes the pipeline and the requests it issues.
type Options struct {
	Debounce        time.Duration
	RequestTimeout  time.Duration
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultOptions mirrors the defaults in the config package.
func DefaultOptions() Options {
	return Options{
		Debounce:        time.Second,
		RequestTimeout:  15 * time.Second,
		Model:           "gemini-3-flash-preview",
		Temperature:     0.7,
		MaxOutputTokens: 100,
	}
}

// Pipeline debounces parameter changes and keeps the latest insight text.
//
// Every Notify re-arms the debounce timer. When the timer fires, one request
// is issued with the most recent parameters and tagged with a monotonically
// increasing sequence number. In-flight requests are never aborted by newer
// changes, but only the response carrying the latest sequence number is
// applied; older ones are dropped.
type Pipeline struct {
	gen    Generator
	opts   Options
	logger *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	mu      sync.Mutex
	timer   *time.Timer
	armed   uint64 // debounce generation; a timer only fires if still current
	issued  uint64 // sequence number of the latest request
	pending absfn.Params
	state   State
	text    string
	loading bool
	closed  bool

	changed chan struct{}
}

// New creates a pipeline. A nil gen means no credential is configured: each
// debounce cycle then resolves to NotConfiguredText without network I/O.
func New(gen Generator, opts Options, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultOptions().Debounce
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultOptions().RequestTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		gen:     gen,
		opts:    opts,
		logger:  logger.WithComponent("insight"),
		ctx:     ctx,
		cancel:  cancel,
		state:   Idle,
		text:    PlaceholderText,
		changed: make(chan struct{}, 1),
	}
}

// Notify records a parameter change and (re)arms the debounce timer.
func (p *Pipeline) Notify(params absfn.Params) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}

	p.armed++
	gen := p.armed
	p.pending = params
	p.state = PendingDebounce
	p.timer = time.AfterFunc(p.opts.Debounce, func() { p.fire(gen) })
	p.signal()
}

// fire runs when a debounce timer expires. Timers superseded by a later
// Notify may still fire if Stop raced with them; the generation check drops
// those.
func (p *Pipeline) fire(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || gen != p.armed {
		return
	}
	p.timer = nil
	params := p.pending

	if p.gen == nil {
		p.logger.Debug("insight skipped, no credential")
		p.state = Displaying
		p.text = NotConfiguredText
		p.loading = false
		p.signal()
		return
	}

	p.issued++
	seq := p.issued
	p.state = Requesting
	p.loading = true
	p.signal()

	p.wg.Go(func() { p.request(seq, params) })
}

func (p *Pipeline) request(seq uint64, params absfn.Params) {
	log := p.logger.With("request_id", uuid.NewString(), "seq", seq)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("insight generator panicked", "panic", fmt.Sprint(r))
			p.apply(seq, FailureText, log)
		}
	}()

	ctx, cancel := context.WithTimeout(p.ctx, p.opts.RequestTimeout)
	defer cancel()

	text, err := p.gen.Generate(ctx, p.buildRequest(params))
	if err != nil {
		log.Error("insight request failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
	} else {
		log.Info("insight request done", "duration_ms", time.Since(start).Milliseconds(), "chars", len(text))
	}
	p.apply(seq, Resolve(text, err), log)
}

func (p *Pipeline) buildRequest(params absfn.Params) Request {
	return Request{
		Model:           p.opts.Model,
		Prompt:          BuildPrompt(params),
		Temperature:     p.opts.Temperature,
		MaxOutputTokens: p.opts.MaxOutputTokens,
	}
}

// apply installs text if seq is still the latest request.
func (p *Pipeline) apply(seq uint64, text string, log *logging.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.issued {
		log.Debug("stale insight dropped", "latest", p.issued)
		return
	}
	p.text = text
	p.loading = false
	if p.state == Requesting {
		p.state = Displaying
	}
	p.signal()
}

// signal wakes a listener without blocking; one pending wake-up is enough
// because listeners read the whole state through Snapshot.
func (p *Pipeline) signal() {
	select {
	case p.changed <- struct{}{}:
	default:
	}
}

// Changed returns a channel that receives after every state change.
func (p *Pipeline) Changed() <-chan struct{} {
	return p.changed
}

// Snapshot returns the current display state.
func (p *Pipeline) Snapshot() Update {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Update{
		Seq:     p.issued,
		State:   p.state,
		Text:    p.text,
		Loading: p.loading,
	}
}

// Close stops any armed timer, cancels in-flight requests and waits for them.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
	}
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

// FetchOnce issues a single request for params without debouncing and
// returns the text to display along with the underlying error, if any.
func FetchOnce(ctx context.Context, gen Generator, opts Options, params absfn.Params) (string, error) {
	if gen == nil {
		return NotConfiguredText, ErrNotConfigured
	}
	if opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.RequestTimeout)
		defer cancel()
	}

	req := Request{
		Model:           opts.Model,
		Prompt:          BuildPrompt(params),
		Temperature:     opts.Temperature,
		MaxOutputTokens: opts.MaxOutputTokens,
	}
	text, err := gen.Generate(ctx, req)
	return Resolve(text, err), err
}
