package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// Authorization header values, as forwarded by the gateway.
	authSchemePattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`)

	// Connection strings: key=value DSNs and URLs with user info.
	dsnPasswordPattern = regexp.MustCompile(`(?i)(\bpassword=\S+|://[^:/@\s]+:[^@\s]+@)`)
)

// RedactOptions lists what never reaches a log line: credentials from the
// database and cache configuration, authorization material, and an
// employee's date of birth.
func RedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("Password"),
		masq.WithFieldName("dsn"),
		masq.WithFieldName("DSN"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("cookie"),
		masq.WithFieldName("dateOfBirth"),
		masq.WithFieldName("DateOfBirth"),
		masq.WithFieldName("date_of_birth"),
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(authSchemePattern),
		masq.WithRegex(dsnPasswordPattern),
	}
}

// ReplaceAttr returns a slog.HandlerOptions.ReplaceAttr that applies
// RedactOptions plus extra.
func ReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(RedactOptions(), extra...)...)
}
