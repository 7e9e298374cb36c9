package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"kenki/internal/ai"
	"kenki/internal/assist"
	"kenki/internal/config"
	"kenki/internal/history"
	"kenki/internal/proxy"
	"kenki/internal/translate"
	"kenki/pkg/audioconv"
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
	logLevel := cli.StringP("log", "l", "warn", "Log level")
	tool := cli.StringP("tool", "t", "", "Produce a usage guide for a security tool")
	logFile := cli.String("log-file", "", "Analyze a log file")
	interactive := cli.BoolP("interactive", "i", false, "Start the interactive prompt")
	alternatives := cli.BoolP("alternatives", "a", false, "Suggest alternative commands for the query")
	validate := cli.String("validate", "", "Check a shell command for dangerous patterns")
	historyN := cli.Int("history", 0, "Show the N most recent queries")
	transcribe := cli.String("transcribe", "", "Transcribe an audio file and run it as a query")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	godotenv.Load(*envFile)

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	// --validate and --history never need a backend
	if *validate != "" {
		printValidation(*validate)
		return
	}

	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
	}

	if *historyN > 0 {
		printHistory(store, *historyN)
		return
	}

	assistant := assist.New(buildChain(cfg), store, assist.Prefs{
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.AI.Timeout)
	defer cancel()

	switch {
	case *interactive:
		runInteractive(assistant)

	case *tool != "":
		extra := strings.Join(cli.Args(), " ")
		printResult(assistant.ToolGuide(ctx, *tool, extra))

	case *logFile != "":
		printResult(assistant.AnalyzeLog(ctx, *logFile))

	case *transcribe != "":
		runTranscribed(ctx, cfg, assistant, *transcribe)

	case cli.NArg() > 0:
		query := strings.Join(cli.Args(), " ")
		if *alternatives {
			printAlternatives(ctx, assistant.Translator(), query)
			return
		}
		printResult(assistant.Query(ctx, query))

	default:
		cli.Usage()
	}
}

// buildChain assembles the backend order: remote API, then the local
// model server. Either may be absent; the chain handles the empty case.
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
	} else {
		log.Warn("KENKI_API_KEY not set, remote backend disabled")
	}

	if cfg.AI.LocalEnabled {
		backends = append(backends, ai.NewOpenAI(ai.OpenAIConfig{
			Name:    "local",
			APIKey:  "local",
			BaseURL: cfg.AI.LocalURL,
			Model:   cfg.AI.LocalModel,
		}))
	}

	return ai.NewChain(backends...)
}

func openHistory(cfg *config.Config) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Warn("History disabled", "err", err)
		return nil
	}
	return store
}

func printResult(res assist.Result, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Print(res.Render())
}

func printValidation(command string) {
	v := translate.Validate(command)
	if v.Safe {
		fmt.Println("safe: yes")
	} else {
		fmt.Println("safe: NO")
	}
	for _, w := range v.Warnings {
		fmt.Println("warning:", w)
	}
	for _, r := range v.Recommendations {
		fmt.Println("recommendation:", r)
	}
}

func printAlternatives(ctx context.Context, tr *translate.Translator, query string) {
	alts, err := tr.Alternatives(ctx, query)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if len(alts) == 0 {
		fmt.Println("no alternatives available (no AI backend configured)")
		return
	}
	for _, alt := range alts {
		fmt.Println(alt)
	}
}

func printHistory(store *history.Store, n int) {
	if store == nil {
		fmt.Fprintln(os.Stderr, "history is disabled")
		os.Exit(1)
	}
	entries, err := store.Recent(n)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Printf("%s  [%s/%s]  %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Kind, e.Backend, e.Input)
	}
}

func runTranscribed(ctx context.Context, cfg *config.Config, assistant *assist.Assistant, path string) {
	pcm, err := audioconv.DecodeFile(path, audioconv.Limits{MaxSamples: audioconv.TargetRate * 60})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	whisper, err := stt.NewTranscriber(cfg.Voice.WhisperModel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer whisper.Close()

	res, err := whisper.TranscribePCM(ctx, pcm, stt.Options{Language: cfg.Voice.Language})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Println("transcript:", res.Text)
	printResult(assistant.Query(ctx, res.Text))
}

const interactiveHelp = `Available commands:
  explain <command>    explain a Linux/security command
  translate <request>  convert natural language to a shell command
  analyze <tool>       usage guide for a security tool
  log <file>           analyze a log file
  help                 show this help
  quit                 leave the prompt`

func runInteractive(assistant *assist.Assistant) {
	fmt.Println("KENKI Assist - interactive mode. Type 'help' for commands, 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nKENKI> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye.")
			return
		case "help":
			fmt.Println(interactiveHelp)
			continue
		}

		ctx := context.Background()
		lower := strings.ToLower(line)

		var (
			res assist.Result
			err error
		)
		switch {
		case strings.HasPrefix(lower, "analyze "):
			res, err = assistant.ToolGuide(ctx, strings.TrimSpace(line[len("analyze "):]), "")
		case strings.HasPrefix(lower, "log "):
			res, err = assistant.AnalyzeLog(ctx, strings.TrimSpace(line[len("log "):]))
		case strings.HasPrefix(lower, "translate "):
			res, err = assistant.Translate(ctx, strings.TrimSpace(line[len("translate "):]))
		default:
			res, err = assistant.Query(ctx, line)
		}

		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Print(res.Render())
	}
}
