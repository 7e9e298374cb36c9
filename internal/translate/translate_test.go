package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kenki/internal/ai"
)

type stubClient struct {
	resp   ai.Response
	err    error
	lastIn ai.Request
}

func (s *stubClient) Name() string { return "stub" }

func (s *stubClient) Ask(_ context.Context, req ai.Request) (ai.Response, error) {
	s.lastIn = req
	return s.resp, s.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		request string
		want    Category
	}{
		{"please scan network 10.0.0.0/24", NetworkScan},
		{"run a vulnerability scan on the server", VulnerabilityScan},
		{"web application test against example.com", WebScan},
		{"crack password hashes from the dump", PasswordCrack},
		{"wifi audit of the office network", WirelessAttack},
		{"memory analysis of the captured image", Forensics},
		{"reverse engineering this binary", MalwareAnalysis},
		{"osint on the target company", OSINT},
	}
	for _, tt := range tests {
		cat, ok := Classify(tt.request)
		require.True(t, ok, tt.request)
		assert.Equal(t, tt.want, cat, tt.request)
	}

	_, ok := Classify("how do I exit vim")
	assert.False(t, ok)
}

func TestMatchPatternNetworkScanVariants(t *testing.T) {
	cmd, ok := MatchPattern("quick port scan of 10.1.2.3")
	require.True(t, ok)
	assert.Equal(t, "nmap -sS -p 80,443,22,21,23,25,53,110,143,993,995 10.1.2.3", cmd)

	cmd, ok = MatchPattern("full network enumeration of 10.1.2.3")
	require.True(t, ok)
	assert.Equal(t, "nmap -sS -sV -O -p- 10.1.2.3", cmd)

	cmd, ok = MatchPattern("stealth port scan of 10.1.2.3")
	require.True(t, ok)
	assert.Equal(t, "nmap -sS -T2 -p 80,443,22 10.1.2.3", cmd)

	cmd, ok = MatchPattern("port scan of 10.1.2.3")
	require.True(t, ok)
	assert.Equal(t, "nmap -sS -p 80,443,22,21,23,25,53 10.1.2.3", cmd)
}

func TestMatchPatternWebAndOSINT(t *testing.T) {
	cmd, ok := MatchPattern("web scan of example.com for wordpress")
	require.True(t, ok)
	assert.Equal(t, "wpscan --url http://example.com", cmd)

	cmd, ok = MatchPattern("email osint for example.org")
	require.True(t, ok)
	assert.Equal(t, "theharvester -d example.org -b google", cmd)

	cmd, ok = MatchPattern("wifi audit, capture a handshake")
	require.True(t, ok)
	assert.Equal(t, "airodump-ng -w capture wlan0", cmd)
}

func TestExtractTarget(t *testing.T) {
	assert.Equal(t, "192.168.0.12", ExtractTarget("scan 192.168.0.12 please"))
	assert.Equal(t, "10.0.0.0/24", ExtractTarget("sweep 10.0.0.0/24"))
	assert.Equal(t, "sub.example.com", ExtractTarget("look at sub.example.com today"))
	assert.Equal(t, "localhost", ExtractTarget("scan ports on localhost"))
	assert.Equal(t, DefaultTarget, ExtractTarget("scan something"))
}

func TestTranslatePatternSkipsBackend(t *testing.T) {
	stub := &stubClient{err: errors.New("backend must not be called")}
	tr := New(stub)

	resp, err := tr.Translate(context.Background(), "find open ports on 10.9.9.9")
	require.NoError(t, err)
	assert.Equal(t, "pattern", resp.Backend)
	assert.Contains(t, resp.Text, "10.9.9.9")
	assert.Empty(t, stub.lastIn.Prompt)
}

func TestTranslateUsesBackendForUnknownRequests(t *testing.T) {
	stub := &stubClient{resp: ai.Response{Text: "  whois example.com\n", Backend: "remote"}}
	tr := New(stub)

	resp, err := tr.Translate(context.Background(), "who owns example.com")
	require.NoError(t, err)
	assert.Equal(t, "whois example.com", resp.Text)
	assert.Contains(t, stub.lastIn.Prompt, "who owns example.com")
	assert.Equal(t, 200, stub.lastIn.MaxTokens)
}

func TestTranslateFallsBackWithoutBackend(t *testing.T) {
	tr := New(ai.NewChain())

	resp, err := tr.Translate(context.Background(), "please look up something odd")
	require.NoError(t, err)
	assert.Equal(t, "static", resp.Backend)
	assert.Contains(t, resp.Text, "no offline translation")
}

func TestTranslateEmptyRequest(t *testing.T) {
	tr := New(ai.NewChain())
	_, err := tr.Translate(context.Background(), "   ")
	assert.Error(t, err)
}

func TestAlternatives(t *testing.T) {
	stub := &stubClient{resp: ai.Response{Text: "nmap -sV host\n\nmasscan host\n  rustscan host  \n"}}
	tr := New(stub)

	alts, err := tr.Alternatives(context.Background(), "scan the host")
	require.NoError(t, err)
	assert.Equal(t, []string{"nmap -sV host", "masscan host", "rustscan host"}, alts)

	alts, err = New(ai.NewChain()).Alternatives(context.Background(), "scan the host")
	require.NoError(t, err)
	assert.Empty(t, alts)
}

func TestFallbackCommand(t *testing.T) {
	assert.Equal(t, "nmap -sS -p 80,443,22,21,23,25,53 172.16.0.5",
		FallbackCommand("port scan 172.16.0.5"))
	assert.Equal(t, "airodump-ng wlan0", FallbackCommand("wifi something"))
	assert.Contains(t, FallbackCommand("bake a cake"), "no offline translation")
}

func TestValidateDangerousPatterns(t *testing.T) {
	v := Validate("rm -rf / --no-preserve-root")
	assert.False(t, v.Safe)
	require.NotEmpty(t, v.Warnings)
	assert.Contains(t, v.Recommendations, "review warnings before executing")

	v = Validate("dd if=/dev/zero of=/dev/sda")
	assert.False(t, v.Safe)

	v = Validate(":(){ :|: & };:")
	assert.False(t, v.Safe)
}

func TestValidateAuthorizationWarnings(t *testing.T) {
	v := Validate("nmap -sS -p- internal-lan")
	assert.True(t, v.Safe)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "without specific target")

	v = Validate("hydra -l admin -P list ssh://10.0.0.1")
	assert.True(t, v.Safe)
	assert.Contains(t, v.Warnings[0], "password attack tool")

	v = Validate("nikto -h 10.0.0.1")
	assert.Contains(t, v.Warnings[0], "web security tool")
}

func TestValidateCleanCommand(t *testing.T) {
	v := Validate("ls -la /var/log")
	assert.True(t, v.Safe)
	assert.Empty(t, v.Warnings)
	assert.Equal(t, []string{"command appears safe for authorized testing"}, v.Recommendations)
}
