package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger for the given environment.
// Local runs get human-readable debug output, everything else JSON.
func Setup(env string) {
	switch env {
	case "local":
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

var sensitiveKeys = []string{"password", "token", "secret", "authorization", "cookie"}

// Redact replaces values of known sensitive keys so credentials never reach
// a log sink. Matching is case-insensitive on key substrings.
func Redact(fields logrus.Fields) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for k, v := range fields {
		out[k] = v
		lower := strings.ToLower(k)
		for _, s := range sensitiveKeys {
			if strings.Contains(lower, s) {
				out[k] = "[redacted]"
				break
			}
		}
	}
	return out
}
