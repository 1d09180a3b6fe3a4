package insight

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absviz/internal/absfn"
)

// fakeGenerator records calls and answers through respond.
type fakeGenerator struct {
	calls   atomic.Int32
	mu      sync.Mutex
	reqs    []Request
	times   []time.Time
	respond func(ctx context.Context, n int, req Request) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, req Request) (string, error) {
	n := int(f.calls.Add(1))
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.times = append(f.times, time.Now())
	f.mu.Unlock()
	if f.respond == nil {
		return "A narrow V opening upward.", nil
	}
	return f.respond(ctx, n, req)
}

func (f *fakeGenerator) requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.reqs...)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Debounce = 100 * time.Millisecond
	opts.RequestTimeout = time.Second
	return opts
}

func waitForText(t *testing.T, p *Pipeline, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		u := p.Snapshot()
		return u.Text == want && !u.Loading
	}, 2*time.Second, 5*time.Millisecond, "last snapshot: %+v", p.Snapshot())
}

func TestPipelineInitialState(t *testing.T) {
	p := New(&fakeGenerator{}, testOptions(), nil)
	defer p.Close()

	u := p.Snapshot()
	assert.Equal(t, Idle, u.State)
	assert.Equal(t, PlaceholderText, u.Text)
	assert.False(t, u.Loading)
}

func TestPipelineDebounceCoalescesBurst(t *testing.T) {
	gen := &fakeGenerator{}
	opts := testOptions()
	p := New(gen, opts, nil)
	defer p.Close()

	var last time.Time
	for i := range 6 {
		p.Notify(absfn.Params{A: 1, H: float64(i), K: 0})
		last = time.Now()
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, PendingDebounce, p.Snapshot().State)

	waitForText(t, p, "A narrow V opening upward.")
	time.Sleep(2 * opts.Debounce)

	require.Equal(t, int32(1), gen.calls.Load())
	reqs := gen.requests()
	assert.Contains(t, reqs[0].Prompt, "h = 5 (Horizontal shift)")

	gen.mu.Lock()
	fired := gen.times[0]
	gen.mu.Unlock()
	assert.GreaterOrEqual(t, fired.Sub(last), opts.Debounce-5*time.Millisecond)
	assert.Equal(t, Displaying, p.Snapshot().State)
}

func TestPipelineSeparateBurstsIssueSeparateRequests(t *testing.T) {
	gen := &fakeGenerator{}
	p := New(gen, testOptions(), nil)
	defer p.Close()

	p.Notify(absfn.DefaultParams())
	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	p.Notify(absfn.Params{A: 2})
	require.Eventually(t, func() bool { return gen.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(2), p.Snapshot().Seq)
}

func TestPipelineRequestCarriesOptions(t *testing.T) {
	gen := &fakeGenerator{}
	opts := testOptions()
	opts.Model = "test-model"
	opts.Temperature = 0.3
	opts.MaxOutputTokens = 42
	p := New(gen, opts, nil)
	defer p.Close()

	p.Notify(absfn.Params{A: -2, H: 3, K: -1})
	waitForText(t, p, "A narrow V opening upward.")

	req := gen.requests()[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, float32(0.3), req.Temperature)
	assert.Equal(t, int32(42), req.MaxOutputTokens)
	assert.Equal(t, BuildPrompt(absfn.Params{A: -2, H: 3, K: -1}), req.Prompt)
}

func TestPipelineWithoutCredential(t *testing.T) {
	p := New(nil, testOptions(), nil)
	defer p.Close()

	p.Notify(absfn.DefaultParams())
	waitForText(t, p, NotConfiguredText)
	u := p.Snapshot()
	assert.Equal(t, Displaying, u.State)
	assert.Equal(t, uint64(0), u.Seq, "no request is issued")
}

func TestPipelineFailureFallback(t *testing.T) {
	gen := &fakeGenerator{respond: func(context.Context, int, Request) (string, error) {
		return "", errors.New("503 service unavailable")
	}}
	p := New(gen, testOptions(), nil)
	defer p.Close()

	p.Notify(absfn.DefaultParams())
	waitForText(t, p, FailureText)
}

func TestPipelineEmptyResponseFallback(t *testing.T) {
	gen := &fakeGenerator{respond: func(context.Context, int, Request) (string, error) {
		return "  \n ", nil
	}}
	p := New(gen, testOptions(), nil)
	defer p.Close()

	p.Notify(absfn.DefaultParams())
	waitForText(t, p, EmptyText)
	assert.NotEqual(t, FailureText, p.Snapshot().Text)
}

func TestPipelineGeneratorPanicIsContained(t *testing.T) {
	gen := &fakeGenerator{respond: func(context.Context, int, Request) (string, error) {
		panic("boom")
	}}
	p := New(gen, testOptions(), nil)

	p.Notify(absfn.DefaultParams())
	waitForText(t, p, FailureText)
	assert.NotPanics(t, p.Close)
}

func TestPipelineRequestTimeout(t *testing.T) {
	gen := &fakeGenerator{respond: func(ctx context.Context, _ int, _ Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	opts := testOptions()
	opts.RequestTimeout = 50 * time.Millisecond
	p := New(gen, opts, nil)
	defer p.Close()

	p.Notify(absfn.DefaultParams())
	waitForText(t, p, FailureText)
}

func TestPipelineDropsStaleResponse(t *testing.T) {
	releaseFirst := make(chan struct{})
	firstDone := make(chan struct{})
	gen := &fakeGenerator{respond: func(_ context.Context, n int, _ Request) (string, error) {
		if n == 1 {
			defer close(firstDone)
			<-releaseFirst
			return "first", nil
		}
		return "second", nil
	}}
	p := New(gen, testOptions(), nil)
	defer p.Close()

	p.Notify(absfn.Params{A: 1})
	require.Eventually(t, func() bool { return gen.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, p.Snapshot().Loading)

	// A change while the first request is in flight arms a new cycle
	// without aborting the first request.
	p.Notify(absfn.Params{A: 2})
	waitForText(t, p, "second")

	close(releaseFirst)
	<-firstDone
	time.Sleep(20 * time.Millisecond)

	u := p.Snapshot()
	assert.Equal(t, "second", u.Text)
	assert.Equal(t, uint64(2), u.Seq)
	assert.False(t, u.Loading)
}

func TestPipelineLoadingUntilLatestResolves(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{respond: func(context.Context, int, Request) (string, error) {
		<-release
		return "done", nil
	}}
	p := New(gen, testOptions(), nil)

	p.Notify(absfn.DefaultParams())
	require.Eventually(t, func() bool { return p.Snapshot().State == Requesting }, time.Second, 5*time.Millisecond)
	assert.True(t, p.Snapshot().Loading)

	close(release)
	waitForText(t, p, "done")
	p.Close()
}

func TestPipelineCloseCancelsArmedTimer(t *testing.T) {
	gen := &fakeGenerator{}
	opts := testOptions()
	p := New(gen, opts, nil)

	p.Notify(absfn.DefaultParams())
	p.Close()
	time.Sleep(2 * opts.Debounce)

	assert.Equal(t, int32(0), gen.calls.Load())
	p.Notify(absfn.DefaultParams())
	time.Sleep(2 * opts.Debounce)
	assert.Equal(t, int32(0), gen.calls.Load(), "notify after close is ignored")
}

func TestPipelineChangedSignal(t *testing.T) {
	p := New(nil, testOptions(), nil)
	defer p.Close()

	p.Notify(absfn.DefaultParams())
	select {
	case <-p.Changed():
	case <-time.After(time.Second):
		t.Fatal("expected a change signal after Notify")
	}
}

func TestFetchOnce(t *testing.T) {
	text, err := FetchOnce(context.Background(), nil, testOptions(), absfn.DefaultParams())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, NotConfiguredText, text)

	gen := GeneratorFunc(func(_ context.Context, req Request) (string, error) {
		if !strings.Contains(req.Prompt, "a = 3") {
			return "", errors.New("unexpected prompt")
		}
		return "**Steep** V.", nil
	})
	text, err = FetchOnce(context.Background(), gen, testOptions(), absfn.Params{A: 3})
	require.NoError(t, err)
	assert.Equal(t, "Steep V.", text)
}

func TestNewGeneratorWithoutKey(t *testing.T) {
	gen, err := NewGenerator(context.Background(), "  ")
	require.NoError(t, err)
	assert.Nil(t, gen)
}
