// Package greeting serves the fixed greeting for every request.
package greeting

import (
	"io"
	"net/http"
	"strconv"

	"github.com/skshamimiqbal/greeter/internal/domain"
)

var contentLength = strconv.Itoa(len(domain.Greeting))

// Handler returns the greeting handler. Method, path, headers and body of
// the request are ignored.
func Handler() http.Handler {
	return http.HandlerFunc(serveGreeting)
}

func serveGreeting(w http.ResponseWriter, _ *http.Request) {
	h := w.Header()
	h.Set("Content-Type", domain.GreetingContentType)
	h.Set("Content-Length", contentLength)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, domain.Greeting)
}
