package assist

import (
	"fmt"
	"strings"
)

var titles = map[Kind]string{
	KindExplain:   "Command Explanation",
	KindTranslate: "Shell Translation",
	KindTool:      "Security Tool Guide",
	KindLog:       "Log Analysis",
}

const border = "============================================================"

// Render formats a result as the bordered terminal report.
func (r Result) Render() string {
	title := titles[r.Kind]
	if title == "" {
		title = "Response"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nKENKI Assist - %s\n%s\n\n", border, title, border)
	fmt.Fprintf(&b, "Input: %s\n\n", r.Input)
	fmt.Fprintf(&b, "%s\n", strings.TrimSpace(r.Text))
	if r.Backend != "" {
		fmt.Fprintf(&b, "\n[%s]\n", r.Backend)
	}
	b.WriteString(border + "\n")
	return b.String()
}
