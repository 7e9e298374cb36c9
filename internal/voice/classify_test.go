package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Action
	}{
		{"explain nmap for me", ActionExplain},
		{"what is metasploit", ActionExplain},
		{"translate find open ports", ActionTranslate},
		{"get command for listing files", ActionTranslate},
		{"scan the network", ActionAnalyze},
		{"what can you do", ActionHelp},
		{"goodbye", ActionStop},
		{"start over", ActionClear},
		{"say again", ActionRepeat},
		{"tell me a joke", ActionGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.text), tt.text)
	}
}

func TestStripWakeWord(t *testing.T) {
	assert.Equal(t, "explain nmap", StripWakeWord("kenki explain nmap", "kenki"))
	assert.Equal(t, "explain nmap", StripWakeWord("explain kenki nmap", "kenki"))
	assert.Equal(t, "explain nmap", StripWakeWord("Kenki explain nmap", "kenki"))
	assert.Equal(t, "explain nmap", StripWakeWord("explain nmap", "kenki"))
	assert.Equal(t, "", StripWakeWord("kenki", "kenki"))
	assert.Equal(t, "hello", StripWakeWord("  hello  ", ""))
}

func TestExtractCommand(t *testing.T) {
	cmd, ok := ExtractCommand(`explain "nmap -sS -p 80 target.com"`)
	require.True(t, ok)
	assert.Equal(t, "nmap -sS -p 80 target.com", cmd)

	cmd, ok = ExtractCommand("explain tcpdump")
	require.True(t, ok)
	assert.Equal(t, "tcpdump", cmd)

	cmd, ok = ExtractCommand("what is netcat")
	require.True(t, ok)
	assert.Equal(t, "netcat", cmd)

	_, ok = ExtractCommand("please do something")
	assert.False(t, ok)
}

func TestExtractRequest(t *testing.T) {
	req, ok := ExtractRequest("translate find all open ports")
	require.True(t, ok)
	assert.Equal(t, "find all open ports", req)

	req, ok = ExtractRequest("convert list the users")
	require.True(t, ok)
	assert.Equal(t, "list the users", req)

	_, ok = ExtractRequest("translate   ")
	assert.False(t, ok)
}

func TestExtractTool(t *testing.T) {
	tool, ok := ExtractTool("analyze metasploit for me")
	require.True(t, ok)
	assert.Equal(t, "metasploit", tool)

	tool, ok = ExtractTool(`check "custom-scanner"`)
	require.True(t, ok)
	assert.Equal(t, "custom-scanner", tool)

	_, ok = ExtractTool("analyze the thing")
	assert.False(t, ok)
}
