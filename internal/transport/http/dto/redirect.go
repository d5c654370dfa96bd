package dto

import "strings"

const DefaultAfterLogin = "/dashboard/"

// SafeNext returns next when it is a local absolute path, otherwise the
// dashboard. Scheme-relative ("//host") and backslash tricks are refused.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return DefaultAfterLogin
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return DefaultAfterLogin
	}
	if strings.ContainsAny(next, "\r\n") {
		return DefaultAfterLogin
	}
	return next
}
