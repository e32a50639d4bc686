package credentials

import (
	"fmt"
	"regexp"
	"strconv"
)

func defaultContracts() map[string]Contract {
	googleOAuth := Contract{
		RequiredFields: []string{"clientId", "clientSecret"},
		Patterns: map[string]*regexp.Regexp{
			"clientId": regexp.MustCompile(`\.apps\.googleusercontent\.com$`),
		},
	}

	return map[string]Contract{
		"slackApi": {
			RequiredFields: []string{"accessToken"},
			Prefixes:       map[string][]string{"accessToken": {"xoxb-", "xoxp-", "xoxa-", "xapp-"}},
		},
		"telegramApi": {
			RequiredFields: []string{"accessToken"},
			Patterns:       map[string]*regexp.Regexp{"accessToken": regexp.MustCompile(`^\d+:[A-Za-z0-9_-]+$`)},
		},
		"openAiApi": {
			RequiredFields: []string{"apiKey"},
			Prefixes:       map[string][]string{"apiKey": {"sk-"}},
		},
		"githubApi": {
			RequiredFields: []string{"accessToken"},
			Prefixes:       map[string][]string{"accessToken": {"ghp_", "gho_", "ghu_", "ghs_", "github_pat_"}},
		},
		"notionApi": {
			RequiredFields: []string{"apiKey"},
			Prefixes:       map[string][]string{"apiKey": {"secret_", "ntn_"}},
		},
		"airtableTokenApi": {
			RequiredFields: []string{"accessToken"},
			Prefixes:       map[string][]string{"accessToken": {"pat"}},
		},
		"stripeApi": {
			RequiredFields: []string{"secretKey"},
			Prefixes:       map[string][]string{"secretKey": {"sk_", "rk_"}},
		},
		"awsApi": {
			RequiredFields: []string{"accessKeyId", "secretAccessKey", "region"},
			Patterns:       map[string]*regexp.Regexp{"accessKeyId": regexp.MustCompile(`^(AKIA|ASIA)[A-Z0-9]{16}$`)},
		},
		"postgres": {
			RequiredFields: []string{"host", "database", "user", "password"},
			Check:          portInRange("postgres"),
		},
		"imap": {
			RequiredFields: []string{"host", "user", "password"},
			Check:          portInRange("imap"),
		},
		"smtp": {
			RequiredFields: []string{"host", "user", "password"},
			Check:          portInRange("smtp"),
		},
		"httpBasicAuth":         {RequiredFields: []string{"user", "password"}},
		"httpHeaderAuth":        {RequiredFields: []string{"name", "value"}},
		"googleOAuth2Api":       googleOAuth,
		"gmailOAuth2":           googleOAuth,
		"googleSheetsOAuth2Api": googleOAuth,
		"discordWebhookApi": {
			RequiredFields: []string{"webhookUri"},
			Prefixes:       map[string][]string{"webhookUri": {"https://discord.com/api/webhooks/", "https://discordapp.com/api/webhooks/"}},
		},
	}
}

// portInRange accepts an absent port, otherwise a number (or numeric string) in 1..65535.
func portInRange(credentialType string) func(map[string]any) error {
	return func(fields map[string]any) error {
		raw, ok := fields["port"]
		if !ok || raw == nil {
			return nil
		}

		var port float64

		switch v := raw.(type) {
		case float64:
			port = v
		case int:
			port = float64(v)
		case string:
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return &FieldError{CredentialType: credentialType, Field: "port", Detail: "not a number", Err: ErrInvalidFormat}
			}

			port = float64(parsed)
		default:
			return &FieldError{CredentialType: credentialType, Field: "port", Detail: fmt.Sprintf("unexpected %T", raw), Err: ErrInvalidFormat}
		}

		if port < 1 || port > 65535 {
			return &FieldError{CredentialType: credentialType, Field: "port", Detail: "out of range", Err: ErrInvalidFormat}
		}

		return nil
	}
}
