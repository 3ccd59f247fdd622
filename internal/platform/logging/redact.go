package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// secretFields are attribute and struct field names whose values never
// reach a log sink. user_context is the free text readers attach to
// reading requests.
var secretFields = []string{
	// generic credentials
	"password", "secret", "token", "credential", "credentials",
	"authorization", "auth", "bearer", "cookie", "session",
	"accessToken", "access_token", "refreshToken", "refresh_token",
	"privateKey", "private_key", "secretKey", "secret_key",

	// language model
	"apiKey", "apikey", "api_key",

	// profile database and token verifier
	"service_key", "jwt_secret", "dsn",

	// reader supplied text
	"user_context",
}

var secretPrefixes = []string{"secret", "private"}

// secretValues match credentials wherever they appear, whatever the field.
var secretValues = []*regexp.Regexp{
	// JWT: three base64url segments
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+$`),
	regexp.MustCompile(`(?i)^basic\s+.+$`),
	// language model API key
	regexp.MustCompile(`^sk-[A-Za-z0-9_-]{16,}$`),
}

// DefaultRedactOptions returns the masq options for every secret the
// service handles.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(secretFields)+len(secretPrefixes)+len(secretValues))

	for _, name := range secretFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, prefix := range secretPrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}

	for _, re := range secretValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr that redacts everything matched
// by DefaultRedactOptions and opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
