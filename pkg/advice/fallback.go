package advice

var fallbackExplanations = map[string]string{
	"Account Security":         "Strong passwords and two-factor authentication prevent most account takeovers. Without proper account security, cybercriminals can easily access your personal information, financial accounts, and use your identity for further attacks.",
	"Device Security":          "Keeping devices updated and protected prevents malware infections and unauthorized access. Outdated devices with security vulnerabilities are prime targets for cybercriminals who exploit known weaknesses.",
	"Digital Awareness":        "Understanding common online scams and phishing techniques helps you avoid becoming a victim. Most successful cyber attacks rely on tricking people rather than technical exploits.",
	"Privacy Protection":       "Controlling what information you share online reduces your risk of identity theft and targeted attacks. Too much personal information makes you an easy target for scammers.",
	"Data Protection":          "Regular backups protect your important files from ransomware, device failure, and theft. Without backups, you could lose years of irreplaceable photos and documents forever.",
	"Mobile & Smart Home":      "Securing connected devices prevents them from being hijacked and used to spy on you or attack other devices on your network. Unsecured smart devices are common entry points for hackers.",
	"Personal Data Management": "Monitoring where your information appears online helps you respond quickly to data breaches and identity theft attempts. Early detection allows you to protect yourself before serious damage occurs.",
}

const genericExplanation = "This security practice helps protect you from common cyber threats and keeps your personal information safe from criminals."

var fallbackAdvice = map[string][]string{
	"Account Security": {
		"Enable two-factor authentication on all important accounts like email, banking, and social media. This prevents 99% of account takeovers even if your password is stolen.",
		"Use a password manager to create unique passwords for every account. Password reuse is one of the biggest security risks that criminals exploit.",
		"Regularly review and remove access for old apps and services you no longer use. This reduces your attack surface and prevents unauthorized access.",
	},
	"Device Security": {
		"Enable automatic updates on all devices to patch security vulnerabilities as soon as fixes are available. Outdated devices are easy targets for cybercriminals.",
		"Install security software on all devices including phones and tablets. Modern threats target all platforms and need comprehensive protection.",
		"Use a VPN when connecting to public Wi-Fi to prevent others from intercepting your internet traffic and personal information.",
	},
	"Digital Awareness": {
		"Learn to recognize phishing emails and suspicious messages that try to steal your information. Look for urgent requests, spelling errors, and unexpected attachments.",
		"Verify unexpected communications by contacting organizations directly rather than clicking links or calling numbers in suspicious messages.",
		"Stay informed about current scams and cyber threats so you can recognize new attack methods targeting people in your situation.",
	},
	"Data Protection": {
		"Keep at least two backups of important files in different places, such as a cloud service and an external drive. One failure or ransomware infection should never cost you everything.",
		"Send sensitive documents through encrypted apps or password-protected files instead of plain email or text messages.",
		"Delete old files and accounts that hold personal data you no longer need. Data that no longer exists cannot be stolen.",
	},
	"Privacy Protection": {
		"Review the privacy settings of your social media accounts every few months and limit who can see your posts, contacts, and location.",
		"Only grant apps the permissions they truly need. Revoke camera, microphone, contacts, and location access that an app does not use.",
		"Use a privacy-focused browser or tracker blocker to reduce how much of your activity is collected by advertisers.",
	},
	"Mobile & Smart Home": {
		"Lock your phone and tablet with a strong passcode plus fingerprint or face recognition. An unlocked phone gives access to your whole digital life.",
		"Change default passwords on smart speakers, cameras, and doorbells, and keep their firmware updated.",
		"Put smart home devices on a separate guest network so a compromised gadget cannot reach your computers and phones.",
	},
	"Personal Data Management": {
		"Check whether your email appears in known data breaches with a service like Have I Been Pwned and sign up for future alerts.",
		"Never share a verification code sent to your phone, even with someone claiming to be your bank or a support agent.",
		"When a service you use is breached, change that password right away and turn on two-factor authentication for the account.",
	},
}

var genericAdvice = []string{
	"Strengthen account security with two-factor authentication across all critical accounts.",
	"Implement a comprehensive password management strategy using dedicated tools.",
	"Establish regular security update routines for all connected devices.",
}

// FallbackExplanation returns the expert text for a category, or a generic one
func FallbackExplanation(category string) string {
	if e, ok := fallbackExplanations[category]; ok {
		return e
	}
	return genericExplanation
}

// FallbackAdvice picks up to limit expert lines for the weak areas, taking one line from
// each area in turn so several areas are all represented. Unknown or missing areas use the
// generic lines. The result is never empty for limit > 0.
func FallbackAdvice(weakAreas []string, limit int) []string {
	var tables [][]string
	seenArea := make(map[string]bool)
	for _, area := range weakAreas {
		if seenArea[area] {
			continue
		}
		seenArea[area] = true
		if lines, ok := fallbackAdvice[area]; ok {
			tables = append(tables, lines)
		}
	}
	if len(tables) == 0 {
		tables = append(tables, genericAdvice)
	}

	var out []string
	seen := make(map[string]bool)
	for round := 0; len(out) < limit; round++ {
		added := false
		for _, lines := range tables {
			if round >= len(lines) || len(out) >= limit {
				continue
			}
			added = true
			if !seen[lines[round]] {
				seen[lines[round]] = true
				out = append(out, lines[round])
			}
		}
		if !added {
			break
		}
	}
	return out
}
