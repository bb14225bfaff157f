//go:build !(js && wasm)

package api

import (
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"
)

// Outside the browser the session cookie lives in the http.Client's jar.
func applyCredentials(*http.Request) {}

// NewCookieClient returns an http.Client that keeps cookies per origin,
// the terminal equivalent of same-origin credentials.
func NewCookieClient() (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &http.Client{Jar: jar}, nil
}
