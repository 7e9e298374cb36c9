// Package voice runs the microphone-driven session: listen, transcribe,
// route through the assistant, speak the answer.
package voice

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"sync"

	"kenki/internal/assist"
)

const helpText = `I can help with security testing tasks. Try:
explain nmap - detailed explanation of a command.
translate find open ports - convert a request to a shell command.
analyze metasploit - usage guide for a tool.
help - this text. stop - end voice mode.`

const greeting = "KENKI voice interface ready. How can I help you?"

// Listener produces one utterance of 16 kHz mono PCM per call.
type Listener interface {
	Listen(ctx context.Context) ([]float32, error)
}

// Transcriber turns PCM into text.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []float32) (string, error)
}

// Output voices responses without blocking the loop.
type Output interface {
	Say(text string)
	Flush()
}

// Session serializes its rounds: overlapping triggers wait their turn
// instead of opening a second microphone stream.
type Session struct {
	listener    Listener
	transcriber Transcriber
	out         Output
	assistant   *assist.Assistant
	wakeWord    string

	mu           sync.Mutex
	lastResponse string
	stopped      bool
}

func NewSession(l Listener, t Transcriber, out Output, a *assist.Assistant, wakeWord string) *Session {
	return &Session{
		listener:    l,
		transcriber: t,
		out:         out,
		assistant:   a,
		wakeWord:    wakeWord,
	}
}

// Run loops until a stop utterance or context cancellation. Errors in a
// single round are logged and the loop keeps serving.
func (s *Session) Run(ctx context.Context) error {
	s.out.Say(greeting)

	for !s.Stopped() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, _, err := s.round(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Warn("listen round failed", "err", err)
		}
	}

	return nil
}

// HandleOnce serves a single push-to-talk trigger.
func (s *Session) HandleOnce(ctx context.Context) (string, string, error) {
	return s.round(ctx)
}

// round serves one listen/answer cycle. The lock covers the microphone,
// the routing state, and the speech output.
func (s *Session) round(ctx context.Context) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.listenOnce(ctx)
	if err != nil || text == "" {
		return "", "", err
	}

	response := s.handle(ctx, text)
	if response != "" {
		s.out.Say(response)
	}
	return text, response, nil
}

func (s *Session) listenOnce(ctx context.Context) (string, error) {
	pcm, err := s.listener.Listen(ctx)
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", nil
	}

	text, err := s.transcriber.Transcribe(ctx, pcm)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text != "" {
		log.Info("heard", "text", text)
	}
	return text, nil
}

// Handle routes one utterance and returns the spoken response. Exported
// so the CLI can feed typed "voice commands" through the same path.
func (s *Session) Handle(ctx context.Context, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle(ctx, text)
}

func (s *Session) handle(ctx context.Context, text string) string {
	text = StripWakeWord(text, s.wakeWord)
	if text == "" {
		return "I didn't hear anything. Please try again."
	}

	switch Classify(text) {
	case ActionExplain:
		command, ok := ExtractCommand(text)
		if !ok {
			return s.remember("Please specify what command you'd like me to explain.")
		}
		return s.respond(s.assistant.Explain(ctx, command))

	case ActionTranslate:
		request, ok := ExtractRequest(text)
		if !ok {
			return s.remember("Please tell me what you'd like to do.")
		}
		return s.respond(s.assistant.Translate(ctx, request))

	case ActionAnalyze:
		tool, ok := ExtractTool(text)
		if !ok {
			return s.remember("Please specify what you'd like me to analyze.")
		}
		return s.respond(s.assistant.ToolGuide(ctx, tool, ""))

	case ActionHelp:
		return s.remember(helpText)

	case ActionStop:
		s.stopped = true
		return s.remember("Goodbye.")

	case ActionClear:
		s.lastResponse = ""
		s.out.Flush()
		return "Starting fresh. How can I help you?"

	case ActionRepeat:
		if s.lastResponse == "" {
			return "I don't have a previous response to repeat."
		}
		return s.lastResponse

	default:
		return s.respond(s.assistant.Query(ctx, text))
	}
}

func (s *Session) respond(res assist.Result, err error) string {
	if err != nil {
		log.Error("assistant failed", "err", err)
		return s.remember("Sorry, I ran into an error: " + err.Error())
	}
	return s.remember(res.Text)
}

func (s *Session) remember(response string) string {
	s.lastResponse = response
	return response
}

// Stopped reports whether a stop utterance ended the session.
func (s *Session) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
