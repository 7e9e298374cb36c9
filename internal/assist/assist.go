// Package assist is the assistant facade: it routes queries to the
// explain/translate modules, builds the tool-guide and log-analysis
// prompts, and records every interaction in the history store.
package assist

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"strings"
	"time"

	"kenki/internal/ai"
	"kenki/internal/explain"
	"kenki/internal/history"
	"kenki/internal/translate"
)

// logReadLimit bounds how much of a log file goes into the prompt.
const logReadLimit = 5000

// Kind labels a query for history and the event feed.
type Kind string

const (
	KindExplain   Kind = "explain"
	KindTranslate Kind = "translate"
	KindTool      Kind = "tool"
	KindLog       Kind = "log"
)

// Prefs are the model preferences from configuration, applied to every
// request that has no operation-specific values of its own.
type Prefs struct {
	MaxTokens   int
	Temperature float64
}

type Assistant struct {
	client     ai.Client
	explainer  *explain.Explainer
	translator *translate.Translator
	store      *history.Store // optional
	prefs      Prefs
}

// Result is a formatted assistant answer.
type Result struct {
	Kind    Kind
	Input   string
	Text    string // raw response body
	Backend string
}

func New(client ai.Client, store *history.Store, prefs Prefs) *Assistant {
	explainer := explain.New(client)
	explainer.MaxTokens = prefs.MaxTokens
	explainer.Temperature = prefs.Temperature
	return &Assistant{
		client:     client,
		explainer:  explainer,
		translator: translate.New(client),
		store:      store,
		prefs:      prefs,
	}
}

func (a *Assistant) Translator() *translate.Translator { return a.translator }

// Query auto-detects the query type the way the interactive prompt does:
// question-ish openers go to Explain, action verbs go to Translate, and
// anything else defaults to Explain.
func (a *Assistant) Query(ctx context.Context, input string) (Result, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	for _, prefix := range []string{"explain", "what", "how", "why"} {
		if strings.HasPrefix(lower, prefix) {
			return a.Explain(ctx, input)
		}
	}
	for _, word := range []string{"find", "scan", "check", "analyze", "get"} {
		if strings.Contains(lower, word) {
			return a.Translate(ctx, input)
		}
	}
	return a.Explain(ctx, input)
}

// Explain explains a shell or security-tool command line.
func (a *Assistant) Explain(ctx context.Context, command string) (Result, error) {
	if strings.TrimSpace(command) == "" {
		return Result{}, errors.New("please provide a command to explain")
	}
	start := time.Now()
	resp, err := a.explainer.Explain(ctx, command)
	return a.finish(KindExplain, command, resp, start, err)
}

// Translate converts a natural-language request into a shell command.
func (a *Assistant) Translate(ctx context.Context, request string) (Result, error) {
	if strings.TrimSpace(request) == "" {
		return Result{}, errors.New("please describe what you want to do")
	}
	start := time.Now()
	resp, err := a.translator.Translate(ctx, request)
	return a.finish(KindTranslate, request, resp, start, err)
}

// ToolGuide produces a usage guide for a named security tool. Extra
// context (a target, a scenario) is appended to the prompt when given.
func (a *Assistant) ToolGuide(ctx context.Context, tool, extra string) (Result, error) {
	if strings.TrimSpace(tool) == "" {
		return Result{}, errors.New("please name a tool")
	}
	start := time.Now()
	resp, err := a.client.Ask(ctx, ai.Request{
		Prompt:      toolGuidePrompt(tool, extra),
		MaxTokens:   a.prefs.MaxTokens,
		Temperature: a.prefs.Temperature,
	})
	if errors.Is(err, ai.ErrNoBackend) {
		resp = ai.Response{Text: explain.Fallback(tool), Backend: "static"}
		err = nil
	}
	return a.finish(KindTool, tool, resp, start, err)
}

// AnalyzeLog reads at most logReadLimit bytes of the file and asks for a
// security-focused summary. A missing file is an error before any
// backend is touched.
func (a *Assistant) AnalyzeLog(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("log file not found: %s", path)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, logReadLimit))
	if err != nil {
		return Result{}, fmt.Errorf("read log file: %w", err)
	}

	start := time.Now()
	resp, err := a.client.Ask(ctx, ai.Request{
		Prompt:      logAnalysisPrompt(string(content)),
		MaxTokens:   a.prefs.MaxTokens,
		Temperature: a.prefs.Temperature,
	})
	if errors.Is(err, ai.ErrNoBackend) {
		resp = ai.Response{
			Text:    "No AI backend available for log analysis. Try: grep -iE 'fail|error|denied|invalid' " + path,
			Backend: "static",
		}
		err = nil
	}
	return a.finish(KindLog, path, resp, start, err)
}

func (a *Assistant) finish(kind Kind, input string, resp ai.Response, start time.Time, err error) (Result, error) {
	a.record(history.Entry{
		Kind:     string(kind),
		Input:    input,
		Response: resp.Text,
		Backend:  resp.Backend,
		Duration: time.Since(start),
		OK:       err == nil,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: kind, Input: input, Text: resp.Text, Backend: resp.Backend}, nil
}

// record is best-effort: a storage failure must never lose the answer.
func (a *Assistant) record(e history.Entry) {
	if a.store == nil {
		return
	}
	if err := a.store.Insert(e); err != nil {
		log.Warn("history insert failed", "err", err)
	}
}

func toolGuidePrompt(tool, extra string) string {
	return fmt.Sprintf(`Provide a comprehensive guide for using %s in ethical hacking and security testing.

Include:
1. Basic usage examples
2. Common parameters and flags
3. Security best practices
4. Legal considerations
5. Real-world use cases

Context: %s`, tool, extra)
}

func logAnalysisPrompt(content string) string {
	return fmt.Sprintf(`Analyze this log file for security insights, anomalies, and potential threats:

%s

Provide:
1. Summary of log contents
2. Potential security issues
3. Recommended actions
4. Tools to investigate further`, content)
}
