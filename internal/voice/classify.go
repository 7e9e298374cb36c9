package voice

import (
	"regexp"
	"sort"
	"strings"

	"kenki/internal/explain"
)

// Action is what a spoken utterance asks the assistant to do.
type Action string

const (
	ActionExplain   Action = "explain"
	ActionTranslate Action = "translate"
	ActionAnalyze   Action = "analyze"
	ActionHelp      Action = "help"
	ActionStop      Action = "stop"
	ActionClear     Action = "clear"
	ActionRepeat    Action = "repeat"
	ActionGeneral   Action = "general"
)

// actionOrder fixes lookup order so "explain what is nmap" classifies as
// explain, not translate.
var actionOrder = []Action{
	ActionExplain, ActionTranslate, ActionAnalyze,
	ActionHelp, ActionStop, ActionClear, ActionRepeat,
}

var actionKeywords = map[Action][]string{
	ActionExplain:   {"explain", "what is", "how does", "tell me about"},
	ActionTranslate: {"translate", "convert", "find command", "get command"},
	ActionAnalyze:   {"analyze", "scan", "check", "test"},
	ActionHelp:      {"help", "what can you do", "commands", "options"},
	ActionStop:      {"stop", "quit", "exit", "goodbye", "bye"},
	ActionClear:     {"clear", "reset", "start over"},
	ActionRepeat:    {"repeat", "say again", "what did you say"},
}

// Classify picks the action whose keyword appears in the utterance;
// unmatched utterances are handled as general questions.
func Classify(text string) Action {
	lower := strings.ToLower(text)
	for _, action := range actionOrder {
		for _, kw := range actionKeywords[action] {
			if strings.Contains(lower, kw) {
				return action
			}
		}
	}
	return ActionGeneral
}

// StripWakeWord removes the wake word wherever it occurs, not only as a
// prefix; recognizers often swallow leading words.
func StripWakeWord(text, wakeWord string) string {
	if wakeWord == "" {
		return strings.TrimSpace(text)
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(wakeWord) + `\b`)
	return strings.TrimSpace(strings.Join(strings.Fields(re.ReplaceAllString(text, " ")), " "))
}

var (
	quotedRe      = regexp.MustCompile(`"([^"]*)"`)
	commandRes    []*regexp.Regexp
	commandShapes = []string{
		`command\s+([a-zA-Z0-9\s\-\.\/]+)`,
		`tool\s+([a-zA-Z0-9\s\-\.\/]+)`,
		`explain\s+([a-zA-Z0-9\s\-\.\/]+)`,
		`what\s+is\s+([a-zA-Z0-9\s\-\.\/]+)`,
		`how\s+does\s+([a-zA-Z0-9\s\-\.\/]+)`,
	}
)

func init() {
	for _, shape := range commandShapes {
		commandRes = append(commandRes, regexp.MustCompile(`(?i)`+shape))
	}
}

// ExtractCommand pulls the command to explain out of an utterance:
// quoted text wins, then the spoken "explain X" shapes.
func ExtractCommand(text string) (string, bool) {
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	for _, re := range commandRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if cmd := strings.TrimSpace(m[1]); cmd != "" {
				return cmd, true
			}
		}
	}
	return "", false
}

var requestPrefixes = []string{"translate", "convert", "find command", "get command", "make command"}

// ExtractRequest strips the translation verb so only the actual request
// reaches the translator.
func ExtractRequest(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, prefix := range requestPrefixes {
		if strings.HasPrefix(lower, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			break
		}
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

var knownTools = func() []string {
	tools := explain.KnownTools()
	// also answer for spoken names that differ from the binary name
	tools = append(tools, "aircrack", "burp suite")
	sort.Strings(tools)
	return tools
}()

// ExtractTool finds a known security tool name in the utterance, falling
// back to quoted text.
func ExtractTool(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, tool := range knownTools {
		if strings.Contains(lower, tool) {
			return tool, true
		}
	}
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}
