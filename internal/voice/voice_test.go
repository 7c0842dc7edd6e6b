package voice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecognizer plays one scripted session per call. A session marked block
// waits for cancellation after sending its results.
type fakeRecognizer struct {
	mu       sync.Mutex
	log      []string
	sessions []fakeSession
	started  chan int
	calls    int
}

type fakeSession struct {
	results []Result
	block   bool
	err     error
}

func (f *fakeRecognizer) record(event string) {
	f.mu.Lock()
	f.log = append(f.log, event)
	f.mu.Unlock()
}

func (f *fakeRecognizer) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.log...)
}

func (f *fakeRecognizer) Recognize(ctx context.Context, lang string, out chan<- Result) error {
	f.mu.Lock()
	n := f.calls
	f.calls++
	sess := f.sessions[n]
	f.mu.Unlock()

	f.record(fmt.Sprintf("start %d", n))
	for _, r := range sess.results {
		out <- r
	}
	if f.started != nil {
		f.started <- n
	}
	if sess.block {
		<-ctx.Done()
		f.record(fmt.Sprintf("stop %d", n))
		return ctx.Err()
	}
	f.record(fmt.Sprintf("end %d", n))
	return sess.err
}

type fakeSynthesizer struct {
	mu      sync.Mutex
	log     []string
	voices  []Voice
	started chan string
	last    Utterance
}

func (f *fakeSynthesizer) Voices() []Voice { return f.voices }

func (f *fakeSynthesizer) Speak(ctx context.Context, u Utterance) error {
	f.mu.Lock()
	f.log = append(f.log, "start "+u.Text)
	f.last = u
	f.mu.Unlock()
	if f.started != nil {
		f.started <- u.Text
	}
	<-ctx.Done()
	f.mu.Lock()
	f.log = append(f.log, "cancel "+u.Text)
	f.mu.Unlock()
	return ctx.Err()
}

func TestUnsupportedIsDistinct(t *testing.T) {
	s := NewService("", nil)

	_, err := s.StartListening(context.Background())
	assert.ErrorIs(t, err, ErrRecognitionUnsupported)
	assert.ErrorIs(t, s.Speak(context.Background(), "hi", 1), ErrSynthesisUnsupported)
	assert.False(t, errors.Is(ErrRecognitionUnsupported, ErrSynthesisUnsupported))
	assert.False(t, s.RecognitionSupported())
	assert.False(t, s.SynthesisSupported())
}

func TestPlatformInitialisedOnce(t *testing.T) {
	var inits atomic.Int32
	s := NewService(DefaultLang, func() Platform {
		inits.Add(1)
		return Platform{}
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.RecognitionSupported()
			_, _ = s.StartListening(context.Background())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), inits.Load())
}

func TestStartListeningReturnsFinalTranscript(t *testing.T) {
	rec := &fakeRecognizer{sessions: []fakeSession{{results: []Result{
		{Text: "add"}, {Text: "add 200", Final: true}, {Text: "for lunch", Final: true},
	}}}}
	s := NewService(DefaultLang, func() Platform { return Platform{Recognizer: rec} })

	text, err := s.StartListening(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "add 200 for lunch", text)
	assert.Equal(t, "add 200 for lunch", s.Transcript())
	assert.False(t, s.Listening())
}

func TestStartListeningFallsBackToInterim(t *testing.T) {
	rec := &fakeRecognizer{sessions: []fakeSession{{results: []Result{{Text: "spent"}, {Text: "spent 500"}}}}}
	s := NewService(DefaultLang, func() Platform { return Platform{Recognizer: rec} })

	text, err := s.StartListening(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "spent 500", text)
}

func TestStartListeningStopsPriorSession(t *testing.T) {
	rec := &fakeRecognizer{
		started: make(chan int, 2),
		sessions: []fakeSession{
			{results: []Result{{Text: "half heard"}}, block: true},
			{results: []Result{{Text: "yes", Final: true}}},
		},
	}
	s := NewService(DefaultLang, func() Platform { return Platform{Recognizer: rec} })

	type res struct {
		text string
		err  error
	}
	first := make(chan res, 1)
	go func() {
		text, err := s.StartListening(context.Background())
		first <- res{text, err}
	}()
	<-rec.started
	assert.True(t, s.Listening())

	text, err := s.StartListening(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "yes", text)

	select {
	case r := <-first:
		assert.NoError(t, r.err)
		assert.Equal(t, "half heard", r.text)
	case <-time.After(2 * time.Second):
		t.Fatal("first session never resolved")
	}

	assert.Equal(t, []string{"start 0", "stop 0", "start 1", "end 1"}, rec.events())
}

func TestStopListeningResolvesWithHeardText(t *testing.T) {
	rec := &fakeRecognizer{
		started:  make(chan int, 1),
		sessions: []fakeSession{{results: []Result{{Text: "cancel", Final: true}}, block: true}},
	}
	s := NewService(DefaultLang, func() Platform { return Platform{Recognizer: rec} })

	done := make(chan string, 1)
	go func() {
		text, _ := s.StartListening(context.Background())
		done <- text
	}()
	<-rec.started
	s.StopListening()

	assert.Equal(t, "cancel", <-done)
	assert.False(t, s.Listening())
}

func TestRecognitionFailureIsWrapped(t *testing.T) {
	rec := &fakeRecognizer{sessions: []fakeSession{{err: errors.New("no-speech")}}}
	s := NewService(DefaultLang, func() Platform { return Platform{Recognizer: rec} })

	_, err := s.StartListening(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-speech")
	assert.NotErrorIs(t, err, ErrRecognitionUnsupported)
}

func TestSpeakCancelsPriorUtterance(t *testing.T) {
	synth := &fakeSynthesizer{
		started: make(chan string, 2),
		voices:  []Voice{{Name: "us", Lang: "en-US"}, {Name: "heera", Lang: "en-IN"}},
	}
	s := NewService(DefaultLang, func() Platform { return Platform{Synthesizer: synth} })

	first := make(chan error, 1)
	go func() { first <- s.Speak(context.Background(), "one", 1.2) }()
	<-synth.started
	assert.True(t, s.Speaking())

	ctx, cancel := context.WithCancel(context.Background())
	second := make(chan error, 1)
	go func() { second <- s.Speak(ctx, "two", 0) }()
	<-synth.started

	assert.ErrorIs(t, <-first, ErrInterrupted)
	assert.True(t, s.Speaking())

	s.StopSpeaking()
	assert.ErrorIs(t, <-second, ErrInterrupted)
	assert.False(t, s.Speaking())
	cancel()

	synth.mu.Lock()
	defer synth.mu.Unlock()
	assert.Equal(t, []string{"start one", "cancel one", "start two", "cancel two"}, synth.log)
	assert.Equal(t, "heera", synth.last.Voice.Name)
	assert.Equal(t, 1.0, synth.last.Rate)
	assert.Equal(t, 1.0, synth.last.Pitch)
	assert.Equal(t, 1.0, synth.last.Volume)
}

func TestPickVoice(t *testing.T) {
	v, ok := PickVoice([]Voice{{Name: "fr", Lang: "fr-FR"}, {Name: "gb", Lang: "en-GB"}}, "en-IN")
	require.True(t, ok)
	assert.Equal(t, "gb", v.Name)

	_, ok = PickVoice([]Voice{{Name: "fr", Lang: "fr-FR"}}, "en-IN")
	assert.False(t, ok)
}

func TestCommandRecognizer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script recognizer")
	}
	script := filepath.Join(t.TempDir(), "listen.sh")
	body := "#!/bin/sh\necho \"partial: add two\"\necho \"add 200 for lunch\"\necho \"lang $1\"\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	rec := NewCommandRecognizer(ParseCommand(script + " {lang}"))
	out := make(chan Result, 8)
	require.NoError(t, rec.Recognize(context.Background(), "en-IN", out))
	close(out)

	var got []Result
	for r := range out {
		got = append(got, r)
	}
	assert.Equal(t, []Result{
		{Text: "add two"},
		{Text: "add 200 for lunch", Final: true},
		{Text: "lang en-IN", Final: true},
	}, got)
}

func TestCommandPlatformMissingCommands(t *testing.T) {
	p := CommandPlatform(ParseCommand(""), ParseCommand("definitely-not-a-real-binary-xyz"), nil)()
	assert.Nil(t, p.Recognizer)
	assert.Nil(t, p.Synthesizer)
}
