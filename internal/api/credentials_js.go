//go:build js && wasm

package api

import "net/http"

// The wasm transport reads js.fetch:* headers as fetch() options instead
// of sending them.
func applyCredentials(req *http.Request) {
	req.Header.Set("js.fetch:credentials", "same-origin")
}
