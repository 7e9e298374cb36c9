package assist

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kenki/internal/ai"
	"kenki/internal/history"
)

type stubClient struct {
	resp    ai.Response
	err     error
	reqs    []ai.Request
	prompts []string
}

func (s *stubClient) Name() string { return "stub" }

func (s *stubClient) Ask(_ context.Context, req ai.Request) (ai.Response, error) {
	s.reqs = append(s.reqs, req)
	s.prompts = append(s.prompts, req.Prompt)
	if s.err != nil {
		return ai.Response{}, s.err
	}
	return s.resp, nil
}

func newStub(text string) *stubClient {
	return &stubClient{resp: ai.Response{Text: text, Backend: "remote"}}
}

func TestQueryAutoDetection(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"explain nmap -sS", KindExplain},
		{"what is netcat", KindExplain},
		{"how does hydra work", KindExplain},
		{"what's scanning here", KindExplain},
		{"find open ports on 10.0.0.1", KindTranslate},
		{"scan the office network", KindTranslate},
		{"tcpdump -i eth0", KindExplain},
	}

	for _, tt := range tests {
		a := New(newStub("answer"), nil, Prefs{})
		res, err := a.Query(context.Background(), tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, res.Kind, tt.input)
	}
}

func TestExplainEmptyInput(t *testing.T) {
	a := New(newStub("x"), nil, Prefs{})
	_, err := a.Explain(context.Background(), " ")
	assert.Error(t, err)

	_, err = a.Translate(context.Background(), "")
	assert.Error(t, err)

	_, err = a.ToolGuide(context.Background(), "", "")
	assert.Error(t, err)
}

func TestToolGuidePrompt(t *testing.T) {
	stub := newStub("guide text")
	a := New(stub, nil, Prefs{})

	res, err := a.ToolGuide(context.Background(), "metasploit", "against a lab VM")
	require.NoError(t, err)
	assert.Equal(t, KindTool, res.Kind)
	assert.Equal(t, "guide text", res.Text)

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "using metasploit in ethical hacking")
	assert.Contains(t, stub.prompts[0], "Context: against a lab VM")
}

func TestPrefsReachEveryRequest(t *testing.T) {
	stub := newStub("answer")
	a := New(stub, nil, Prefs{MaxTokens: 512, Temperature: 0.4})
	ctx := context.Background()

	_, err := a.Explain(ctx, "nmap -sS host")
	require.NoError(t, err)
	_, err = a.ToolGuide(ctx, "nmap", "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "auth.log")
	require.NoError(t, os.WriteFile(path, []byte("line"), 0o600))
	_, err = a.AnalyzeLog(ctx, path)
	require.NoError(t, err)

	require.Len(t, stub.reqs, 3)
	for _, req := range stub.reqs {
		assert.Equal(t, 512, req.MaxTokens)
		assert.Equal(t, 0.4, req.Temperature)
	}

	// translation keeps its own tighter limits
	_, err = a.Translate(ctx, "who owns example.com")
	require.NoError(t, err)
	require.Len(t, stub.reqs, 4)
	assert.Equal(t, 200, stub.reqs[3].MaxTokens)
	assert.Equal(t, 0.3, stub.reqs[3].Temperature)
}

func TestAnalyzeLogMissingFile(t *testing.T) {
	a := New(newStub("x"), nil, Prefs{})
	_, err := a.AnalyzeLog(context.Background(), "/nonexistent/auth.log")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAnalyzeLogTruncatesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("A", 9000)), 0o600))

	stub := newStub("summary")
	a := New(stub, nil, Prefs{})

	res, err := a.AnalyzeLog(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, KindLog, res.Kind)

	require.Len(t, stub.prompts, 1)
	assert.Equal(t, logReadLimit, strings.Count(stub.prompts[0], "A"))
}

func TestNoBackendFallbacks(t *testing.T) {
	a := New(ai.NewChain(), nil, Prefs{})

	res, err := a.Explain(context.Background(), "ls -la")
	require.NoError(t, err)
	assert.Equal(t, "static", res.Backend)

	res, err = a.ToolGuide(context.Background(), "nmap", "")
	require.NoError(t, err)
	assert.Equal(t, "static", res.Backend)

	path := filepath.Join(t.TempDir(), "x.log")
	require.NoError(t, os.WriteFile(path, []byte("line"), 0o600))
	res, err = a.AnalyzeLog(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "static", res.Backend)
}

func TestHistoryRecording(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	defer store.Close()

	a := New(newStub("answer"), store, Prefs{})

	_, err = a.Explain(context.Background(), "nmap -sS host")
	require.NoError(t, err)
	_, err = a.Translate(context.Background(), "find open ports on 10.0.0.1")
	require.NoError(t, err)

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// newest first
	assert.Equal(t, "translate", entries[0].Kind)
	assert.Equal(t, "explain", entries[1].Kind)
	assert.True(t, entries[0].OK)
}

func TestRender(t *testing.T) {
	res := Result{Kind: KindExplain, Input: "nmap", Text: "does scans\n", Backend: "remote"}
	out := res.Render()
	assert.Contains(t, out, "Command Explanation")
	assert.Contains(t, out, "Input: nmap")
	assert.Contains(t, out, "does scans")
	assert.Contains(t, out, "[remote]")
	assert.True(t, strings.HasPrefix(out, border))
}
