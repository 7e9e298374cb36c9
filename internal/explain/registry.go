package explain

import (
	"fmt"
	"strings"
)

// toolPrompt is a specialized explanation template for one security tool.
type toolPrompt struct {
	intro   string   // "this nmap command for network security testing"
	points  []string // numbered Include list
	closing string   // emphasis line
}

func (tp toolPrompt) build(command string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Explain %s:\n\nCommand: %s\n\nInclude:\n", tp.intro, command)
	for i, p := range tp.points {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	b.WriteString("\n")
	b.WriteString(tp.closing)
	return b.String()
}

const (
	authTesting    = "Emphasize authorized testing and responsible disclosure."
	authPrivacy    = "Emphasize privacy protection and authorized investigation."
	authMonitoring = "Emphasize authorized monitoring and privacy protection."
	authForensics  = "Emphasize forensic integrity and legal compliance."
	authAnalysis   = "Emphasize authorized analysis and legal compliance."
)

// tools maps a command name to its explanation template. The set mirrors
// the tool inventory shipped with the distribution.
var tools = map[string]toolPrompt{
	"nmap": {
		intro: "this nmap command in detail for network security testing",
		points: []string{
			"What this specific nmap scan does",
			"Meaning of each flag and parameter",
			"What information it will reveal",
			"Legal and ethical considerations",
			"Common variations and alternatives",
			"Expected output format",
			"Security implications",
		},
		closing: "Focus on practical security testing scenarios.",
	},
	"metasploit": {
		intro: "this Metasploit command for penetration testing",
		points: []string{
			"What this Metasploit module/command does",
			"Target system requirements",
			"Required parameters and options",
			"Expected outcomes and payloads",
			"Legal and ethical considerations",
			"Risk assessment",
			"Post-exploitation steps",
		},
		closing: "Emphasize responsible disclosure and authorized testing only.",
	},
	"sqlmap": {
		intro: "this sqlmap command for SQL injection testing",
		points: []string{
			"What this sqlmap scan targets",
			"Injection techniques being used",
			"Database fingerprinting process",
			"Data extraction capabilities",
			"Legal and ethical considerations",
			"Responsible disclosure practices",
			"Alternative testing methods",
		},
		closing: authTesting,
	},
	"hydra": {
		intro: "this Hydra command for brute force testing",
		points: []string{
			"What service is being tested",
			"Brute force methodology",
			"Wordlist considerations",
			"Rate limiting and timing",
			"Legal and ethical considerations",
			"Account lockout risks",
			"Alternative testing approaches",
		},
		closing: "Emphasize authorized testing and account protection.",
	},
	"aircrack-ng": {
		intro: "this aircrack-ng command for wireless security testing",
		points: []string{
			"What wireless attack/analysis is being performed",
			"Capture file analysis process",
			"Password cracking methodology",
			"Legal and ethical considerations",
			"Wireless security implications",
			"Countermeasures and protection",
			"Responsible testing practices",
		},
		closing: "Emphasize authorized testing and wireless security awareness.",
	},
	"wireshark": {
		intro: "this Wireshark command for network analysis",
		points: []string{
			"What network traffic is being analyzed",
			"Capture filters and display filters",
			"Protocol analysis capabilities",
			"Security implications of captured data",
			"Privacy considerations",
			"Legal compliance requirements",
			"Network troubleshooting applications",
		},
		closing: "Emphasize privacy protection and authorized monitoring.",
	},
	"tcpdump": {
		intro: "this tcpdump command for packet capture",
		points: []string{
			"What network traffic is being captured",
			"Filter syntax and options",
			"Output format and analysis",
			"Network troubleshooting applications",
			"Security monitoring capabilities",
			"Legal and privacy considerations",
			"Performance implications",
		},
		closing: authMonitoring,
	},
	"netcat": {
		intro: "this netcat command for network connectivity testing",
		points: []string{
			"What network operation is being performed",
			"Connection establishment process",
			"Data transfer capabilities",
			"Security testing applications",
			"Network troubleshooting uses",
			"Legal and ethical considerations",
			"Alternative tools and methods",
		},
		closing: "Emphasize authorized testing and network security.",
	},
	"john": {
		intro: "this John the Ripper command for password cracking",
		points: []string{
			"What password hash is being cracked",
			"Cracking methodology and algorithms",
			"Wordlist and rule-based attacks",
			"Performance considerations",
			"Legal and ethical considerations",
			"Password security implications",
			"Responsible testing practices",
		},
		closing: "Emphasize authorized testing and password security awareness.",
	},
	"hashcat": {
		intro: "this hashcat command for password recovery",
		points: []string{
			"What hash type is being processed",
			"Attack modes and methodologies",
			"Hardware acceleration capabilities",
			"Performance optimization",
			"Legal and ethical considerations",
			"Password security implications",
			"Responsible testing practices",
		},
		closing: "Emphasize authorized testing and password security.",
	},
	"volatility": {
		intro: "this Volatility command for memory forensics",
		points: []string{
			"What memory analysis is being performed",
			"Memory dump analysis process",
			"Malware detection capabilities",
			"Forensic investigation applications",
			"Legal and compliance considerations",
			"Evidence handling procedures",
			"Incident response applications",
		},
		closing: authForensics,
	},
	"ghidra": {
		intro: "this Ghidra command for reverse engineering",
		points: []string{
			"What binary analysis is being performed",
			"Disassembly and decompilation process",
			"Malware analysis capabilities",
			"Vulnerability research applications",
			"Legal and ethical considerations",
			"Intellectual property concerns",
			"Responsible disclosure practices",
		},
		closing: authAnalysis,
	},
	"radare2": {
		intro: "this radare2 command for binary analysis",
		points: []string{
			"What binary analysis is being performed",
			"Disassembly and debugging capabilities",
			"Malware analysis applications",
			"Vulnerability research uses",
			"Legal and ethical considerations",
			"Reverse engineering techniques",
			"Responsible analysis practices",
		},
		closing: authAnalysis,
	},
	"beef": {
		intro: "this BeEF command for browser exploitation",
		points: []string{
			"What browser exploitation is being performed",
			"Client-side attack methodology",
			"JavaScript injection techniques",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"Browser security implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
	"maltego": {
		intro: "this Maltego command for OSINT gathering",
		points: []string{
			"What OSINT investigation is being performed",
			"Data collection and correlation process",
			"Privacy and legal considerations",
			"Responsible information gathering",
			"Threat intelligence applications",
			"Data protection requirements",
			"Ethical investigation practices",
		},
		closing: authPrivacy,
	},
	"recon-ng": {
		intro: "this Recon-ng command for reconnaissance",
		points: []string{
			"What reconnaissance is being performed",
			"Information gathering methodology",
			"OSINT techniques and sources",
			"Legal and ethical considerations",
			"Responsible investigation practices",
			"Threat intelligence applications",
			"Privacy protection measures",
		},
		closing: "Emphasize authorized investigation and privacy protection.",
	},
	"theharvester": {
		intro: "this theHarvester command for email enumeration",
		points: []string{
			"What email enumeration is being performed",
			"Data source collection process",
			"Privacy and legal considerations",
			"Responsible information gathering",
			"OSINT applications",
			"Data protection requirements",
			"Ethical investigation practices",
		},
		closing: authPrivacy,
	},
	"amass": {
		intro: "this Amass command for subdomain enumeration",
		points: []string{
			"What subdomain enumeration is being performed",
			"DNS reconnaissance methodology",
			"Data source integration",
			"Legal and ethical considerations",
			"Responsible investigation practices",
			"Attack surface mapping applications",
			"Privacy protection measures",
		},
		closing: "Emphasize authorized investigation and responsible disclosure.",
	},
	"dirb": {
		intro: "this dirb command for directory enumeration",
		points: []string{
			"What directory enumeration is being performed",
			"Web crawling methodology",
			"Wordlist-based discovery",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"Web application security implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
	"nikto": {
		intro: "this Nikto command for web vulnerability scanning",
		points: []string{
			"What web vulnerability scan is being performed",
			"Security test methodology",
			"Vulnerability detection capabilities",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"Web application security implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
	"wpscan": {
		intro: "this WPScan command for WordPress security testing",
		points: []string{
			"What WordPress security scan is being performed",
			"Vulnerability detection methodology",
			"Plugin and theme analysis",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"WordPress security implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
	"joomscan": {
		intro: "this JoomScan command for Joomla security testing",
		points: []string{
			"What Joomla security scan is being performed",
			"Vulnerability detection methodology",
			"Component and extension analysis",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"Joomla security implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
	"skipfish": {
		intro: "this Skipfish command for web application security testing",
		points: []string{
			"What web application security scan is being performed",
			"Crawling and testing methodology",
			"Vulnerability detection capabilities",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"Web application security implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
	"w3af": {
		intro: "this w3af command for web application security testing",
		points: []string{
			"What web application security scan is being performed",
			"Vulnerability detection methodology",
			"Plugin-based testing approach",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"Web application security implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
	"zap": {
		intro: "this OWASP ZAP command for web application security testing",
		points: []string{
			"What web application security scan is being performed",
			"Vulnerability detection methodology",
			"Automated and manual testing capabilities",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"Web application security implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
	"burp": {
		intro: "this Burp Suite command for web application security testing",
		points: []string{
			"What web application security test is being performed",
			"Proxy and interception capabilities",
			"Vulnerability detection methodology",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"Web application security implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
	"nessus": {
		intro: "this Nessus command for vulnerability scanning",
		points: []string{
			"What vulnerability scan is being performed",
			"Network and application testing methodology",
			"Vulnerability detection capabilities",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"Security assessment implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
	"openvas": {
		intro: "this OpenVAS command for vulnerability scanning",
		points: []string{
			"What vulnerability scan is being performed",
			"Network and application testing methodology",
			"Vulnerability detection capabilities",
			"Legal and ethical considerations",
			"Responsible testing practices",
			"Security assessment implications",
			"Alternative testing approaches",
		},
		closing: authTesting,
	},
}

// KnownTools lists the registry keys; the voice front-end uses it to
// spot tool names in an utterance.
func KnownTools() []string {
	out := make([]string, 0, len(tools))
	for name := range tools {
		out = append(out, name)
	}
	return out
}
