package translate

import (
	"regexp"
	"strings"
)

// Validation reports on a command before the user runs it. It never
// blocks execution; it only warns.
type Validation struct {
	Safe            bool
	Warnings        []string
	Recommendations []string
}

var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)rm\s+-rf\s+/`),
	regexp.MustCompile(`(?i)dd\s+if=/dev/zero`),
	regexp.MustCompile(`:\(\)\s*\{\s*:\|:\s*&\s*\}`),
	regexp.MustCompile(`(?i)chmod\s+777\s+/`),
	regexp.MustCompile(`(?i)chown\s+root\s+/`),
	regexp.MustCompile(`(?i)mkfs\s+`),
	regexp.MustCompile(`(?i)fdisk\s+`),
	regexp.MustCompile(`(?i)format\s+`),
	regexp.MustCompile(`(?i)wipe\s+`),
	regexp.MustCompile(`(?i)shred\s+`),
}

var bareIPRe = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)

var (
	passwordTools = []string{"hydra", "john", "hashcat"}
	webTools      = []string{"sqlmap", "nikto", "dirb"}
)

// Validate checks a shell command for destructive patterns and for
// tooling that requires explicit authorization.
func Validate(command string) Validation {
	v := Validation{Safe: true}
	lower := strings.ToLower(command)

	for _, re := range dangerousPatterns {
		if re.MatchString(command) {
			v.Safe = false
			v.Warnings = append(v.Warnings, "dangerous command pattern detected: "+re.String())
		}
	}

	if strings.Contains(command, "nmap") && !bareIPRe.MatchString(command) {
		v.Warnings = append(v.Warnings, "network scan without specific target - ensure you have authorization")
	}
	if containsAny(lower, passwordTools) {
		v.Warnings = append(v.Warnings, "password attack tool detected - ensure you have authorization")
	}
	if containsAny(lower, webTools) {
		v.Warnings = append(v.Warnings, "web security tool detected - ensure you have authorization")
	}

	if len(v.Warnings) == 0 {
		v.Recommendations = append(v.Recommendations, "command appears safe for authorized testing")
	} else {
		v.Recommendations = append(v.Recommendations,
			"review warnings before executing",
			"ensure you have proper authorization",
			"test in an isolated environment first",
		)
	}
	return v
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
