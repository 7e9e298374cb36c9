package tts

import (
	log "log/slog"
	"sync"
)

// Speaker serializes speech on a background goroutine so the voice loop
// can keep listening while an answer plays.
type Speaker struct {
	lang string

	speak  func(text, lang string) error
	cancel func()

	mu      sync.Mutex
	queue   chan string
	done    chan struct{}
	started bool
}

func NewSpeaker(lang string) *Speaker {
	return &Speaker{
		lang:   lang,
		speak:  Speak,
		cancel: Cancel,
		queue:  make(chan string, 8),
		done:   make(chan struct{}),
	}
}

// Start launches the playback goroutine. Safe to call once.
func (s *Speaker) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	go func() {
		for text := range s.queue {
			if err := s.speak(text, s.lang); err != nil {
				log.Error("tts playback failed", "err", err)
			}
		}
		close(s.done)
	}()
}

// Say enqueues text. Drops the utterance when the queue is full rather
// than blocking the voice loop.
func (s *Speaker) Say(text string) {
	if text == "" {
		return
	}
	select {
	case s.queue <- text:
	default:
		log.Warn("speech queue full, dropping utterance")
	}
}

// Flush discards queued utterances and interrupts the one currently
// playing.
func (s *Speaker) Flush() {
	for {
		select {
		case <-s.queue:
		default:
			s.cancel()
			return
		}
	}
}

// Close stops accepting speech and waits for playback to drain.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	close(s.queue)
	<-s.done
	s.started = false
}
