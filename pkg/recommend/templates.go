package recommend

import "github.com/privscore/privscore/pkg/models"

// GeneralCategory labels recommendations that are not tied to a bank category
const GeneralCategory = "General Security"

// override is a bespoke recommendation for one question, keyed by the recorded score
type override func(score int) (models.Recommendation, bool)

var overrides = map[int]override{
	0: func(score int) (models.Recommendation, bool) {
		switch score {
		case 0:
			return models.Recommendation{
				Priority:        models.PriorityCritical,
				Category:        "Account Security",
				Action:          "Set up two-factor authentication immediately",
				Description:     "You have no 2FA protection. This single step prevents 99% of account takeovers.",
				Impact:          "Prevents 99% of account takeovers",
				TimeToImplement: "15 minutes",
				Steps: []string{
					"Go to accounts.google.com → Security → 2-Step Verification",
					"Add your phone number for verification codes",
					"Repeat for banking, social media, and work accounts",
					"Consider using Google Authenticator app for extra security",
				},
			}, true
		case 5:
			return models.Recommendation{
				Priority:        models.PriorityHigh,
				Category:        "Account Security",
				Action:          "Complete two-factor authentication setup",
				Description:     "You've started but need to add 2FA to ALL important accounts.",
				Impact:          "Comprehensive account protection",
				TimeToImplement: "30 minutes",
				Steps: []string{
					"List all your important accounts (email, banking, social media, work)",
					"Check which ones already have 2FA enabled",
					"Add 2FA to remaining accounts, starting with banking",
					"Use authenticator apps instead of SMS when possible",
				},
			}, true
		}
		return models.Recommendation{}, false
	},
	1: func(score int) (models.Recommendation, bool) {
		if score != 0 {
			return models.Recommendation{}, false
		}
		return models.Recommendation{
			Priority:        models.PriorityCritical,
			Category:        "Account Security",
			Action:          "Stop reusing passwords - get a password manager",
			Description:     "Using the same password everywhere means one breach exposes everything.",
			Impact:          "Protects all accounts from credential stuffing attacks",
			TimeToImplement: "1 hour",
			Steps: []string{
				"Download Bitwarden (free) or 1Password",
				"Import existing passwords from your browser",
				"Generate new unique passwords for email and banking first",
				"Never reuse passwords again",
			},
		}, true
	},
	6: func(score int) (models.Recommendation, bool) {
		if score > 3 {
			return models.Recommendation{}, false
		}
		priority := models.PriorityHigh
		if score == 0 {
			priority = models.PriorityCritical
		}
		return models.Recommendation{
			Priority:        priority,
			Category:        "Device Security",
			Action:          "Enable automatic updates on all devices",
			Description:     "Outdated devices are vulnerable to known security exploits.",
			Impact:          "Protects against known vulnerabilities",
			TimeToImplement: "20 minutes",
			Steps: []string{
				"Enable automatic updates on your phone (Settings → Software Update)",
				"Enable automatic updates on Windows (Settings → Update & Security)",
				"Enable automatic updates on Mac (System Preferences → Software Update)",
				"Set apps to auto-update in app stores",
			},
		}, true
	},
	9: func(score int) (models.Recommendation, bool) {
		if score != 0 {
			return models.Recommendation{}, false
		}
		return models.Recommendation{
			Priority:        models.PriorityHigh,
			Category:        "Digital Awareness",
			Action:          "Learn to identify phishing attempts",
			Description:     "You've fallen for scams before. Build recognition skills.",
			Impact:          "Prevents social engineering attacks",
			TimeToImplement: "2 hours learning",
			Steps: []string{
				"Take free phishing awareness training online",
				"Learn warning signs: urgent language, spelling errors, odd sender addresses",
				"Always verify unexpected requests by calling the company directly",
				"Use official websites instead of clicking email links",
			},
		}, true
	},
}

// template is the canned action for a weak category; priority is filled in later
type template struct {
	action, description, impact, time string
	steps                             []string
}

var categoryTemplates = map[string]template{
	"Account Security": {
		action:      "Strengthen account security practices",
		description: "Multiple account security improvements needed.",
		impact:      "Reduces account takeover risk",
		time:        "1-2 hours",
		steps:       []string{"Review and strengthen passwords", "Enable 2FA on remaining accounts", "Remove unnecessary app permissions"},
	},
	"Device Security": {
		action:      "Improve device security posture",
		description: "Your devices need better protection against threats.",
		impact:      "Prevents malware and unauthorized access",
		time:        "1 hour",
		steps:       []string{"Install security software on all devices", "Enable automatic updates", "Use VPN for public Wi-Fi"},
	},
	"Data Protection": {
		action:      "Create secure backup strategy",
		description: "Protect your important data from loss or ransomware.",
		impact:      "Prevents data loss",
		time:        "2 hours setup",
		steps:       []string{"Set up cloud backup for important files", "Create local backup to external drive", "Test restore process monthly"},
	},
	"Digital Awareness": {
		action:      "Develop threat recognition skills",
		description: "Improve your ability to spot and avoid online threats.",
		impact:      "Prevents social engineering attacks",
		time:        "2-3 hours learning",
		steps:       []string{"Take phishing awareness training", "Learn current scam techniques", "Practice suspicious email identification"},
	},
	"Privacy Protection": {
		action:      "Enhance privacy controls",
		description: "Better control over your personal information sharing.",
		impact:      "Reduces data exposure",
		time:        "1 hour",
		steps:       []string{"Review social media privacy settings", "Audit app permissions", "Use privacy-focused browser"},
	},
	"Mobile & Smart Home": {
		action:      "Secure mobile and IoT devices",
		description: "Strengthen security for connected devices.",
		impact:      "Prevents device compromise",
		time:        "1 hour",
		steps:       []string{"Use strong device lock screens", "Change default IoT passwords", "Review location tracking settings"},
	},
	"Personal Data Management": {
		action:      "Monitor and manage data exposure",
		description: "Stay informed about your data in breaches.",
		impact:      "Early breach detection",
		time:        "30 minutes",
		steps:       []string{"Check Have I Been Pwned regularly", "Set up breach notifications", "Never share verification codes"},
	},
}

var generalTemplate = template{
	action:      "Create comprehensive security plan",
	description: "Develop a systematic approach to your digital security.",
	impact:      "Overall security improvement",
	time:        "2 hours",
	steps:       []string{"Assess current security practices", "Prioritize highest-impact improvements", "Create security maintenance schedule"},
}

func maintainExcellent() models.Recommendation {
	return models.Recommendation{
		Priority:        models.PriorityExcellent,
		Category:        GeneralCategory,
		Action:          "Maintain your excellent security practices",
		Description:     "You have outstanding security habits. Keep up the great work!",
		Impact:          "Sustained high security posture",
		TimeToImplement: "Ongoing",
		Steps: []string{
			"Review security settings quarterly",
			"Stay updated on current threats",
			"Help others improve their security",
			"Consider advanced security training",
		},
	}
}
