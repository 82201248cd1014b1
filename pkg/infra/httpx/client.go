package httpx

import "net/http"

// Client abstracts the HTTP transport so callers can be tested against a
// mock and production code can swap net/http for fasthttp.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
