// Package explain turns a command line into a detailed explanation,
// using a specialized prompt when the command is a known security tool.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kenki/internal/ai"
)

type Explainer struct {
	client ai.Client

	// MaxTokens and Temperature are applied to every request; zero
	// values leave the backend defaults in place.
	MaxTokens   int
	Temperature float64
}

func New(client ai.Client) *Explainer {
	return &Explainer{client: client}
}

// Explain answers with the backend that responds first; when none is
// available the static fallback text is returned instead of an error.
func (e *Explainer) Explain(ctx context.Context, command string) (ai.Response, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return ai.Response{}, errors.New("empty command")
	}

	prompt := generalPrompt(command)
	if tp, ok := lookupTool(command); ok {
		prompt = tp.build(command)
	}

	resp, err := e.client.Ask(ctx, ai.Request{
		Prompt:      prompt,
		MaxTokens:   e.MaxTokens,
		Temperature: e.Temperature,
	})
	if errors.Is(err, ai.ErrNoBackend) {
		return ai.Response{Text: Fallback(command), Backend: "static"}, nil
	}
	if err != nil {
		return ai.Response{}, err
	}
	return resp, nil
}

// lookupTool matches the first word of the command against the tool
// prompt registry.
func lookupTool(command string) (toolPrompt, bool) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return toolPrompt{}, false
	}
	tp, ok := tools[strings.ToLower(fields[0])]
	return tp, ok
}

func generalPrompt(command string) string {
	return fmt.Sprintf(`Explain this Linux/Unix command in detail for a security professional:

Command: %s

Please provide:
1. What the command does
2. What each flag/parameter means
3. Common use cases in security testing
4. Potential risks or considerations
5. Related commands or alternatives

Format the response clearly with sections and examples.`, command)
}

// Fallback is the canned text shown when no backend answered.
func Fallback(command string) string {
	return fmt.Sprintf(`Command: %s

No AI backend is available, so only generic guidance can be offered:
- use 'man %s' for the manual page
- try the '--help' flag for built-in usage
- check the project documentation online

Set KENKI_API_KEY or enable the local model to get full explanations.`,
		command, firstWord(command))
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}
