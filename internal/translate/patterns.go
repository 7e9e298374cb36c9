package translate

import "strings"

// Category is a recognized class of security-testing request.
type Category string

const (
	NetworkScan       Category = "network_scan"
	VulnerabilityScan Category = "vulnerability_scan"
	WebScan           Category = "web_scan"
	PasswordCrack     Category = "password_crack"
	WirelessAttack    Category = "wireless_attack"
	Forensics         Category = "forensics"
	MalwareAnalysis   Category = "malware_analysis"
	OSINT             Category = "osint"
)

// categoryPhrases maps each category to the phrases that select it.
// Order matters: the first category whose phrase appears in the request
// wins, so broader categories come later.
var categoryOrder = []Category{
	NetworkScan, VulnerabilityScan, WebScan, PasswordCrack,
	WirelessAttack, Forensics, MalwareAnalysis, OSINT,
}

var categoryPhrases = map[Category][]string{
	NetworkScan: {
		"scan network", "find open ports", "check ports", "network discovery",
		"port scan", "host discovery", "network enumeration",
	},
	VulnerabilityScan: {
		"vulnerability scan", "security scan", "find vulnerabilities",
		"security assessment", "penetration test", "security audit",
	},
	WebScan: {
		"web scan", "website scan", "web application test", "web security",
		"web vulnerability", "web audit", "web penetration test",
	},
	PasswordCrack: {
		"crack password", "break password", "password recovery",
		"hash crack", "password attack", "brute force",
	},
	WirelessAttack: {
		"wifi hack", "wireless attack", "wifi crack", "wireless security",
		"wifi password", "wireless network", "wifi audit",
	},
	Forensics: {
		"forensics", "memory analysis", "disk analysis", "file recovery",
		"evidence analysis", "digital forensics", "incident response",
	},
	MalwareAnalysis: {
		"malware analysis", "virus analysis", "reverse engineering",
		"binary analysis", "malware reverse", "virus reverse",
	},
	OSINT: {
		"osint", "open source intelligence", "information gathering",
		"reconnaissance", "intelligence gathering", "threat intelligence",
	},
}

// Classify returns the first matching category for the request.
func Classify(request string) (Category, bool) {
	lower := strings.ToLower(request)
	for _, cat := range categoryOrder {
		for _, phrase := range categoryPhrases[cat] {
			if strings.Contains(lower, phrase) {
				return cat, true
			}
		}
	}
	return "", false
}

// MatchPattern produces a canned command when the request falls into a
// known category. These never hit a backend.
func MatchPattern(request string) (string, bool) {
	cat, ok := Classify(request)
	if !ok {
		return "", false
	}

	lower := strings.ToLower(request)
	target := ExtractTarget(request)

	switch cat {
	case NetworkScan:
		switch {
		case strings.Contains(lower, "quick") || strings.Contains(lower, "fast"):
			return "nmap -sS -p 80,443,22,21,23,25,53,110,143,993,995 " + target, true
		case strings.Contains(lower, "comprehensive") || strings.Contains(lower, "full"):
			return "nmap -sS -sV -O -p- " + target, true
		case strings.Contains(lower, "stealth") || strings.Contains(lower, "quiet"):
			return "nmap -sS -T2 -p 80,443,22 " + target, true
		default:
			return "nmap -sS -p 80,443,22,21,23,25,53 " + target, true
		}

	case VulnerabilityScan:
		if strings.Contains(lower, "web") {
			return "nikto -h " + target, true
		}
		return "nmap -sS -sV --script vuln " + target, true

	case WebScan:
		switch {
		case strings.Contains(lower, "directory") || strings.Contains(lower, "dir"):
			return "dirb http://" + target, true
		case strings.Contains(lower, "wordpress"):
			return "wpscan --url http://" + target, true
		case strings.Contains(lower, "joomla"):
			return "joomscan --url http://" + target, true
		default:
			return "nikto -h " + target, true
		}

	case PasswordCrack:
		switch {
		case strings.Contains(lower, "hash"):
			return "john --wordlist=/usr/share/wordlists/rockyou.txt hash.txt", true
		case strings.Contains(lower, "zip"):
			return "john --wordlist=/usr/share/wordlists/rockyou.txt archive.zip", true
		default:
			return "john --wordlist=/usr/share/wordlists/rockyou.txt password.txt", true
		}

	case WirelessAttack:
		switch {
		case strings.Contains(lower, "capture") || strings.Contains(lower, "handshake"):
			return "airodump-ng -w capture wlan0", true
		case strings.Contains(lower, "crack") || strings.Contains(lower, "attack"):
			return "aircrack-ng -w /usr/share/wordlists/rockyou.txt capture-01.cap", true
		default:
			return "airodump-ng wlan0", true
		}

	case Forensics:
		switch {
		case strings.Contains(lower, "memory"):
			return "volatility -f memory.dmp imageinfo", true
		case strings.Contains(lower, "disk"):
			return "strings disk.img | grep -i password", true
		default:
			return "strings file.bin | grep -i suspicious", true
		}

	case MalwareAnalysis:
		switch {
		case strings.Contains(lower, "static"):
			return "strings malware.exe", true
		case strings.Contains(lower, "dynamic"):
			return "strace ./malware", true
		default:
			return "file malware.exe", true
		}

	case OSINT:
		switch {
		case strings.Contains(lower, "email"):
			return "theharvester -d " + target + " -b google", true
		case strings.Contains(lower, "domain"):
			return "amass enum -d " + target, true
		default:
			return "theharvester -d " + target + " -b all", true
		}
	}

	return "", false
}
