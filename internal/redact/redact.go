// Package redact masks credentials in storage connection strings before they
// are logged or included in error messages.
package redact

import (
	"net/url"
	"regexp"
	"strings"
)

// RedactedCredentialPlaceholder replaces any masked secret.
const RedactedCredentialPlaceholder = "[REDACTED]"

var (
	// user:password@ inside a URL-style DSN
	userInfoRegex = regexp.MustCompile(`(?i)([a-z][a-z0-9+.-]*://[^:/@\s]+):[^@\s]*@`)

	// password=... in key/value DSNs and query strings
	passwordRegex = regexp.MustCompile(`(?i)\b(password|passwd|pwd)=('[^']*'|[^\s&]+)`)
)

// DSN returns dsn with any password replaced by RedactedCredentialPlaceholder.
// It understands postgres URLs, key/value connection strings and SQLite
// file URIs; anything else is passed through String.
func DSN(dsn string) string {
	if dsn == "" {
		return dsn
	}

	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), RedactedCredentialPlaceholder)
		}
		q := u.Query()
		for key := range q {
			if isPasswordKey(key) {
				q.Set(key, RedactedCredentialPlaceholder)
			}
		}
		u.RawQuery = q.Encode()
		// UserPassword escapes the brackets; undo that for readability.
		return strings.NewReplacer("%5B", "[", "%5D", "]").Replace(u.String())
	}

	return String(dsn)
}

// String masks credentials embedded anywhere in s.
func String(s string) string {
	if s == "" {
		return s
	}
	s = userInfoRegex.ReplaceAllString(s, "${1}:"+RedactedCredentialPlaceholder+"@")
	return passwordRegex.ReplaceAllString(s, "${1}="+RedactedCredentialPlaceholder)
}

// Error masks credentials in err's message.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

func isPasswordKey(key string) bool {
	switch strings.ToLower(key) {
	case "password", "passwd", "pwd":
		return true
	}
	return false
}
