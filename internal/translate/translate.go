// Package translate converts natural-language requests into shell
// commands. Known request categories are served from a keyword table
// without any backend call; everything else goes to the AI chain.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kenki/internal/ai"
)

type Translator struct {
	client ai.Client
}

func New(client ai.Client) *Translator {
	return &Translator{client: client}
}

// Translate returns a single executable shell command for the request.
func (t *Translator) Translate(ctx context.Context, request string) (ai.Response, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return ai.Response{}, errors.New("empty request")
	}

	if cmd, ok := MatchPattern(request); ok {
		return ai.Response{Text: cmd, Backend: "pattern"}, nil
	}

	resp, err := t.client.Ask(ctx, ai.Request{
		Prompt:      translationPrompt(request),
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if errors.Is(err, ai.ErrNoBackend) {
		return ai.Response{Text: FallbackCommand(request), Backend: "static"}, nil
	}
	if err != nil {
		return ai.Response{}, err
	}
	resp.Text = strings.TrimSpace(resp.Text)
	return resp, nil
}

// Alternatives asks for three different command approaches. Without a
// backend there is nothing sensible to suggest, so the slice is empty.
func (t *Translator) Alternatives(ctx context.Context, request string) ([]string, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, errors.New("empty request")
	}

	resp, err := t.client.Ask(ctx, ai.Request{
		Prompt:      alternativesPrompt(request),
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if errors.Is(err, ai.ErrNoBackend) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []string
	for _, line := range strings.Split(resp.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func translationPrompt(request string) string {
	return fmt.Sprintf(`Convert this natural language request into a Linux shell command for security testing:

Request: %s

Requirements:
1. Generate a single, executable shell command
2. Focus on security and penetration testing tools
3. Include appropriate flags and parameters
4. Consider safety and legal implications
5. Use common security tools like nmap, nikto, dirb, etc.
6. Provide a command that would be useful for ethical hacking

Return only the shell command, no explanations.`, request)
}

func alternativesPrompt(request string) string {
	return fmt.Sprintf(`For this security testing request, suggest 3 alternative Linux shell commands:

Request: %s

Provide 3 different approaches, each as a single shell command.
Focus on different tools and methodologies.
Return only the commands, one per line, no explanations.`, request)
}

// FallbackCommand is the reduced keyword table used when no backend is
// available and no full pattern matched.
func FallbackCommand(request string) string {
	lower := strings.ToLower(request)
	switch {
	case strings.Contains(lower, "port") && strings.Contains(lower, "scan"):
		return "nmap -sS -p 80,443,22,21,23,25,53 " + ExtractTarget(request)
	case strings.Contains(lower, "web") && strings.Contains(lower, "scan"):
		return "nikto -h " + ExtractTarget(request)
	case strings.Contains(lower, "directory") || strings.Contains(lower, "dir"):
		return "dirb http://" + ExtractTarget(request)
	case strings.Contains(lower, "password") && strings.Contains(lower, "crack"):
		return "john --wordlist=/usr/share/wordlists/rockyou.txt hash.txt"
	case strings.Contains(lower, "wifi") || strings.Contains(lower, "wireless"):
		return "airodump-ng wlan0"
	default:
		return fmt.Sprintf("# no offline translation for: %s\n# configure an AI backend for full translation", request)
	}
}
