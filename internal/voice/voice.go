package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrRecognitionUnsupported = errors.New("speech recognition not supported")
	ErrSynthesisUnsupported   = errors.New("speech synthesis not supported")
	ErrInterrupted            = errors.New("utterance interrupted")
)

// DefaultLang is the recognition and synthesis locale.
const DefaultLang = "en-IN"

// Result is one recognition event. Interim results may be revised; final ones are not.
type Result struct {
	Text  string
	Final bool
}

// Recognizer runs one listening session, sending results to out until the
// utterance ends or ctx is cancelled. It must not send after returning.
type Recognizer interface {
	Recognize(ctx context.Context, lang string, out chan<- Result) error
}

type Voice struct {
	Name string `yaml:"name"`
	Lang string `yaml:"lang"`
}

type Utterance struct {
	Text   string
	Rate   float64
	Pitch  float64
	Volume float64
	Lang   string
	Voice  *Voice
}

// Synthesizer speaks one utterance, blocking until it finishes or ctx is cancelled.
type Synthesizer interface {
	Voices() []Voice
	Speak(ctx context.Context, u Utterance) error
}

// Platform holds the host primitives. A nil field means the capability is absent.
type Platform struct {
	Recognizer  Recognizer
	Synthesizer Synthesizer
}

type session struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Service is the single owner of the host speech primitives. Construct one per
// process and pass it to every consumer.
type Service struct {
	lang     string
	initFn   func() Platform
	once     sync.Once
	platform Platform

	// mu serialises switching between sessions and utterances
	mu       sync.Mutex
	listen   *session
	utter    *session
	speaking bool

	transcriptMu sync.RWMutex
	transcript   string
}

// NewService defers calling initFn until the first use; it runs exactly once.
func NewService(lang string, initFn func() Platform) *Service {
	if lang == "" {
		lang = DefaultLang
	}
	if initFn == nil {
		initFn = func() Platform { return Platform{} }
	}
	return &Service{lang: lang, initFn: initFn}
}

func (s *Service) ensure() Platform {
	s.once.Do(func() {
		s.platform = s.initFn()
		zap.L().Info("Voice platform initialized",
			zap.Bool("recognition", s.platform.Recognizer != nil),
			zap.Bool("synthesis", s.platform.Synthesizer != nil),
			zap.String("lang", s.lang))
	})
	return s.platform
}

func (s *Service) RecognitionSupported() bool {
	return s.ensure().Recognizer != nil
}

func (s *Service) SynthesisSupported() bool {
	return s.ensure().Synthesizer != nil
}

func (s *Service) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listen != nil
}

func (s *Service) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Transcript is the text recognized so far in the current or last session.
func (s *Service) Transcript() string {
	s.transcriptMu.RLock()
	defer s.transcriptMu.RUnlock()
	return s.transcript
}

func (s *Service) setTranscript(t string) {
	s.transcriptMu.Lock()
	s.transcript = t
	s.transcriptMu.Unlock()
}

type outcome struct {
	text string
	err  error
}

// StartListening stops any active session, runs a new one and returns the
// concatenated final transcript, or the latest interim one when no final
// result arrived. A session ended by StopListening resolves with what was heard.
func (s *Service) StartListening(ctx context.Context) (string, error) {
	rec := s.ensure().Recognizer
	if rec == nil {
		return "", ErrRecognitionUnsupported
	}

	s.mu.Lock()
	s.stopListeningLocked()
	sessCtx, cancel := context.WithCancel(ctx)
	sess := &session{cancel: cancel, done: make(chan struct{})}
	s.listen = sess
	s.mu.Unlock()
	defer cancel()

	s.setTranscript("")
	result := make(chan outcome, 1)

	go func() {
		defer close(sess.done)

		events := make(chan Result)
		errCh := make(chan error, 1)
		go func() {
			errCh <- rec.Recognize(sessCtx, s.lang, events)
			close(events)
		}()

		var finals []string
		interim := ""
		for r := range events {
			text := strings.TrimSpace(r.Text)
			if r.Final {
				if text != "" {
					finals = append(finals, text)
				}
			} else {
				interim = text
			}
			if len(finals) > 0 {
				s.setTranscript(strings.Join(finals, " "))
			} else {
				s.setTranscript(interim)
			}
		}

		text := interim
		if len(finals) > 0 {
			text = strings.Join(finals, " ")
		}
		result <- outcome{text: text, err: <-errCh}
	}()

	out := <-result

	s.mu.Lock()
	if s.listen == sess {
		s.listen = nil
	}
	s.mu.Unlock()

	if ctx.Err() != nil {
		return out.text, ctx.Err()
	}
	if out.err != nil && !errors.Is(out.err, context.Canceled) {
		return "", fmt.Errorf("speech recognition error: %w", out.err)
	}
	return out.text, nil
}

// StopListening ends the active session, if any, and waits for it to wind down.
func (s *Service) StopListening() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopListeningLocked()
}

func (s *Service) stopListeningLocked() {
	if s.listen == nil {
		return
	}
	s.listen.cancel()
	<-s.listen.done
	s.listen = nil
}

// Speak cancels any in-flight utterance, then speaks text at rate with fixed
// pitch and volume. It returns ErrInterrupted when a later call cuts it short.
func (s *Service) Speak(ctx context.Context, text string, rate float64) error {
	synth := s.ensure().Synthesizer
	if synth == nil {
		return ErrSynthesisUnsupported
	}
	if rate <= 0 {
		rate = 1
	}

	u := Utterance{Text: text, Rate: rate, Pitch: 1, Volume: 1, Lang: s.lang}
	if v, ok := PickVoice(synth.Voices(), s.lang); ok {
		u.Voice = &v
	}

	s.mu.Lock()
	s.stopSpeakingLocked()
	sessCtx, cancel := context.WithCancel(ctx)
	sess := &session{cancel: cancel, done: make(chan struct{})}
	s.utter = sess
	s.speaking = true
	s.mu.Unlock()
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(sess.done)
		errCh <- synth.Speak(sessCtx, u)
	}()
	err := <-errCh

	s.mu.Lock()
	interrupted := s.utter != sess
	if !interrupted {
		s.utter = nil
		s.speaking = false
	}
	s.mu.Unlock()

	switch {
	case interrupted || (errors.Is(err, context.Canceled) && ctx.Err() == nil):
		return ErrInterrupted
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		return fmt.Errorf("speech synthesis error: %w", err)
	}
	return nil
}

// StopSpeaking cancels the in-flight utterance, if any.
func (s *Service) StopSpeaking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSpeakingLocked()
}

func (s *Service) stopSpeakingLocked() {
	if s.utter == nil {
		return
	}
	s.utter.cancel()
	<-s.utter.done
	s.utter = nil
	s.speaking = false
}

// Close stops both capabilities.
func (s *Service) Close() {
	s.StopListening()
	s.StopSpeaking()
}

// PickVoice prefers an exact locale match, then any English voice.
func PickVoice(voices []Voice, lang string) (Voice, bool) {
	for _, v := range voices {
		if v.Lang == lang {
			return v, true
		}
	}
	for _, v := range voices {
		if strings.HasPrefix(v.Lang, "en") {
			return v, true
		}
	}
	return Voice{}, false
}
