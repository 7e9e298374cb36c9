package voice

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kenki/internal/ai"
	"kenki/internal/assist"
)

type scriptListener struct {
	rounds []func() ([]float32, error)
	i      int
}

func (l *scriptListener) Listen(_ context.Context) ([]float32, error) {
	if l.i >= len(l.rounds) {
		return nil, errors.New("script exhausted")
	}
	round := l.rounds[l.i]
	l.i++
	return round()
}

type scriptTranscriber struct {
	texts []string
	i     int
}

func (t *scriptTranscriber) Transcribe(_ context.Context, _ []float32) (string, error) {
	if t.i >= len(t.texts) {
		return "", errors.New("script exhausted")
	}
	text := t.texts[t.i]
	t.i++
	return text, nil
}

type captureOutput struct {
	said    []string
	flushed int
}

func (o *captureOutput) Say(text string) { o.said = append(o.said, text) }
func (o *captureOutput) Flush()          { o.flushed++ }

// newOfflineSession wires a session to an assistant with no AI backends,
// so every answer comes from the static fallbacks.
func newOfflineSession(out *captureOutput) *Session {
	assistant := assist.New(ai.NewChain(), nil, assist.Prefs{})
	return NewSession(nil, nil, out, assistant, "kenki")
}

func TestHandleExplain(t *testing.T) {
	s := newOfflineSession(&captureOutput{})

	resp := s.Handle(context.Background(), "kenki explain tcpdump")
	assert.Contains(t, resp, "man tcpdump")
}

func TestHandleTranslatePattern(t *testing.T) {
	s := newOfflineSession(&captureOutput{})

	resp := s.Handle(context.Background(), "translate find open ports on 10.0.0.5")
	assert.Contains(t, resp, "nmap")
	assert.Contains(t, resp, "10.0.0.5")
}

func TestHandleAnalyzeTool(t *testing.T) {
	s := newOfflineSession(&captureOutput{})

	resp := s.Handle(context.Background(), "analyze metasploit for me")
	assert.Contains(t, resp, "metasploit")
}

func TestHandleMissingArguments(t *testing.T) {
	s := newOfflineSession(&captureOutput{})

	resp := s.Handle(context.Background(), "please do something")
	assert.NotEmpty(t, resp)

	resp = s.Handle(context.Background(), "translate")
	assert.Equal(t, "Please tell me what you'd like to do.", resp)

	resp = s.Handle(context.Background(), "kenki")
	assert.Equal(t, "I didn't hear anything. Please try again.", resp)
}

func TestHandleHelpStopRepeatClear(t *testing.T) {
	out := &captureOutput{}
	s := newOfflineSession(out)

	assert.Equal(t, helpText, s.Handle(context.Background(), "help"))

	// repeat echoes the previous response
	assert.Equal(t, helpText, s.Handle(context.Background(), "say again"))

	// clear forgets it and flushes pending speech
	resp := s.Handle(context.Background(), "start over")
	assert.Equal(t, "Starting fresh. How can I help you?", resp)
	assert.Equal(t, 1, out.flushed)
	assert.Equal(t, "I don't have a previous response to repeat.",
		s.Handle(context.Background(), "repeat"))

	assert.False(t, s.Stopped())
	assert.Equal(t, "Goodbye.", s.Handle(context.Background(), "goodbye"))
	assert.True(t, s.Stopped())
}

func TestRunStopsOnGoodbye(t *testing.T) {
	pcm := []float32{0.1, 0.2}
	listener := &scriptListener{rounds: []func() ([]float32, error){
		func() ([]float32, error) { return nil, errors.New("mic glitch") }, // survived
		func() ([]float32, error) { return pcm, nil },
		func() ([]float32, error) { return pcm, nil },
	}}
	transcriber := &scriptTranscriber{texts: []string{"explain tcpdump", "goodbye"}}
	out := &captureOutput{}

	s := NewSession(listener, transcriber, out, assist.New(ai.NewChain(), nil, assist.Prefs{}), "kenki")
	require.NoError(t, s.Run(context.Background()))

	require.GreaterOrEqual(t, len(out.said), 3)
	assert.Equal(t, greeting, out.said[0])
	assert.Contains(t, out.said[1], "man tcpdump")
	assert.Equal(t, "Goodbye.", out.said[len(out.said)-1])
	assert.True(t, s.Stopped())
}

// blockingListener reports how many Listen calls overlap.
type blockingListener struct {
	inFlight   atomic.Int32
	maxOverlap atomic.Int32
}

func (l *blockingListener) Listen(_ context.Context) ([]float32, error) {
	n := l.inFlight.Add(1)
	defer l.inFlight.Add(-1)
	for {
		prev := l.maxOverlap.Load()
		if n <= prev || l.maxOverlap.CompareAndSwap(prev, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return []float32{0.1}, nil
}

func TestHandleOnceSerializesTriggers(t *testing.T) {
	listener := &blockingListener{}
	transcriber := &scriptTranscriber{texts: []string{"explain tcpdump", "explain tcpdump", "explain tcpdump"}}
	out := &captureOutput{}

	s := NewSession(listener, transcriber, out, assist.New(ai.NewChain(), nil, assist.Prefs{}), "kenki")

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.HandleOnce(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// the microphone is never opened twice at once
	assert.Equal(t, int32(1), listener.maxOverlap.Load())
	assert.Len(t, out.said, 3)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(&scriptListener{}, &scriptTranscriber{}, &captureOutput{},
		assist.New(ai.NewChain(), nil, assist.Prefs{}), "kenki")
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
}
