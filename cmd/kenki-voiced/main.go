package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"kenki/internal/ai"
	"kenki/internal/assist"
	"kenki/internal/audio"
	"kenki/internal/config"
	"kenki/internal/feed"
	"kenki/internal/history"
	"kenki/internal/ipc"
	"kenki/internal/notify"
	"kenki/internal/proxy"
	"kenki/internal/tts"
	"kenki/internal/voice"
	"kenki/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	continuous := cli.BoolP("continuous", "c", false, "Listen continuously instead of waiting for triggers")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	rec := audio.NewRecorder()
	rec.MaxLength = cfg.Voice.ListenTimeout
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	log.Debug("Loaded recorder")

	whisper, err := stt.NewTranscriber(cfg.Voice.WhisperModel)
	if err != nil {
		log.Error("Failed to init whisper", "model", cfg.Voice.WhisperModel, "err", err)
		os.Exit(1)
	}
	defer whisper.Close()

	log.Debug("Loaded whisper")

	speaker := tts.NewSpeaker(cfg.Voice.Language)
	speaker.Start()
	defer speaker.Close()

	var events *feed.Server
	if cfg.Feed.Enabled {
		events = feed.NewServer(cfg.Feed.Addr)
		if err := events.Start(); err != nil {
			log.Error("Failed to start event feed", "err", err)
			os.Exit(1)
		}
		defer events.Shutdown(context.Background())
	}

	var store *history.Store
	if cfg.History.Enabled {
		if store, err = history.Open(cfg.History.Path); err != nil {
			log.Warn("History disabled", "err", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	assistant := assist.New(buildChain(cfg), store, assist.Prefs{
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	})
	ducker := audio.NewDucker([]string{"kenki-voiced"}, 20)

	listener := &micListener{rec: rec, ducker: ducker, cue: cfg.Voice.CuePath}
	transcriber := &whisperAdapter{tr: whisper, lang: cfg.Voice.Language}
	session := voice.NewSession(listener, transcriber, speaker, assistant, cfg.Voice.WakeWord)

	log.Info("Boot up - successful")

	stop := make(chan struct{})

	if *continuous {
		go runContinuous(session, events, stop)
	}

	// One capture at a time: a trigger that lands while another is being
	// served is refused instead of queuing a second microphone round.
	var triggerBusy atomic.Bool

	ln, err := ipc.StartServer(*socket, func(msg ipc.ControlMessage) ipc.Reply {
		switch msg.Cmd {
		case ipc.CmdTrigger:
			if *continuous {
				return ipc.Reply{OK: false, Info: "continuous mode active"}
			}
			if !triggerBusy.CompareAndSwap(false, true) {
				return ipc.Reply{OK: false, Info: "already listening"}
			}
			go func() {
				defer triggerBusy.Store(false)
				handleTrigger(session, events)
			}()
			return ipc.Reply{OK: true, Info: "listening"}
		case ipc.CmdStatus:
			return ipc.Reply{OK: true, Info: "running"}
		case ipc.CmdStop:
			close(stop)
			return ipc.Reply{OK: true, Info: "stopping"}
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return ipc.Reply{OK: false, Info: "unknown command"}
		}
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}
	defer ln.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("Stop requested over control socket")
	case s := <-sig:
		log.Info("Shutting down", "signal", s)
	}
}

func buildChain(cfg *config.Config) ai.Client {
	var backends []ai.Client

	if cfg.AI.APIKey != "" {
		remote := ai.OpenAIConfig{
			Name:   "remote",
			APIKey: cfg.AI.APIKey,
			Model:  cfg.AI.Model,
		}
		if cfg.AI.ProxyAddr != "" {
			httpClient, err := proxy.NewSocksClient(cfg.AI.ProxyAddr)
			if err != nil {
				log.Error("Failed to dial socks proxy", "proxy", cfg.AI.ProxyAddr, "err", err)
				os.Exit(1)
			}
			remote.HTTPClient = httpClient
		}
		backends = append(backends, ai.NewOpenAI(remote))
	}

	if cfg.AI.LocalEnabled {
		backends = append(backends, ai.NewOpenAI(ai.OpenAIConfig{
			Name:    "local",
			APIKey:  "local",
			BaseURL: cfg.AI.LocalURL,
			Model:   cfg.AI.LocalModel,
		}))
	}

	if len(backends) == 0 {
		log.Warn("No AI backend configured, answers fall back to static tables")
	}

	return ai.NewChain(backends...)
}

func handleTrigger(session *voice.Session, events *feed.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	transcript, response, err := session.HandleOnce(ctx)
	if err != nil {
		log.Error("Trigger failed", "err", err)
		publish(events, feed.Event{Kind: "error", Response: err.Error()})
		return
	}
	if transcript == "" {
		log.Info("Nothing heard")
		return
	}

	log.Info("──────── KENKI ────────")
	log.Info("heard:  " + transcript)
	log.Info("answer: " + response)
	log.Info("───────────────────────")

	publish(events, feed.Event{Kind: "response", Input: transcript, Response: response})
}

func runContinuous(session *voice.Session, events *feed.Server, stop chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-stop
		cancel()
	}()

	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("Voice session ended", "err", err)
	}
	if session.Stopped() {
		select {
		case <-stop:
		default:
			close(stop)
		}
	}
}

// micListener adapts the recorder to the session: duck other audio,
// play the cue, capture one utterance, restore volumes.
type micListener struct {
	rec    *audio.Recorder
	ducker *audio.Ducker
	cue    string
}

func (m *micListener) Listen(ctx context.Context) ([]float32, error) {
	if err := m.ducker.DuckOthers(ctx, 0.3, 200*time.Millisecond); err != nil {
		log.Warn("Duck failed", "err", err)
	}
	defer func() {
		if err := m.ducker.UnduckOthers(ctx, 200*time.Millisecond); err != nil {
			log.Warn("Unduck failed", "err", err)
		}
	}()

	if err := notify.Cue(m.cue); err != nil {
		log.Warn("Cue failed", "err", err)
	}
	notify.Desktop("Listening...")

	return m.rec.RecordAuto()
}

// whisperAdapter narrows the transcriber to what the session needs.
type whisperAdapter struct {
	tr   *stt.Transcriber
	lang string
}

func (w *whisperAdapter) Transcribe(ctx context.Context, pcm []float32) (string, error) {
	res, err := w.tr.TranscribePCM(ctx, pcm, stt.Options{
		Language:      w.lang,
		InitialPrompt: "nmap, metasploit, sqlmap, hydra, wireshark, tcpdump",
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func publish(events *feed.Server, ev feed.Event) {
	if events == nil {
		return
	}
	events.Publish(ev)
}
