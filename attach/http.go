// Package attach renders HTTP exchanges as record attachments. Snapshots are taken when
// constructed, on the producer goroutine, so later changes to the request or response do not
// leak into the log line.
package attach

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"
)

const none = "-none-"

// Request is a snapshot of an outgoing or incoming request
type Request struct {
	Method  string
	URL     string
	Headers string
	Body    string
}

// NewRequest snapshots r. The body is read through GetBody when available, so r.Body is left
// unconsumed; otherwise the body is reported as absent.
func NewRequest(r *http.Request) *Request {
	snap := &Request{Method: none, URL: none, Headers: "[]", Body: none}
	if r == nil {
		return snap
	}
	if r.Method != "" {
		snap.Method = r.Method
	}
	if r.URL != nil {
		snap.URL = r.URL.String()
	}
	snap.Headers = headerString(r.Header)

	if r.GetBody != nil {
		if rc, err := r.GetBody(); err == nil {
			data, errRead := io.ReadAll(rc)
			_ = rc.Close()
			if errRead == nil {
				snap.Body = bodyString(data, none)
			}
		}
	}
	return snap
}

// LogMessage implements record.CustomMessager
func (r *Request) LogMessage() string {
	return fmt.Sprintf("\n----> REQUEST\nMETHOD:  %s\nURL:     %s\nHEADERS: %s\nBODY:    %s",
		r.Method, r.URL, r.Headers, r.Body)
}

// Response is a snapshot of a received response with its already-read body
type Response struct {
	Status  int
	URL     string
	Headers string
	Body    string
	hasBody bool
}

// NewResponse snapshots resp. body is the payload the caller already read; nil leaves the
// BODY line out.
func NewResponse(resp *http.Response, body []byte) *Response {
	snap := &Response{URL: none, Headers: "[]"}
	if body != nil {
		snap.hasBody = true
		snap.Body = bodyString(body, "-")
	}
	if resp == nil {
		return snap
	}
	snap.Status = resp.StatusCode
	if resp.Request != nil && resp.Request.URL != nil {
		snap.URL = resp.Request.URL.String()
	}
	snap.Headers = headerString(resp.Header)
	return snap
}

// LogMessage implements record.CustomMessager
func (r *Response) LogMessage() string {
	msg := fmt.Sprintf("\n<---- RESPONSE\nSTATUS:  %d\nURL:     %s\nHEADERS: %s", r.Status, r.URL, r.Headers)
	if r.hasBody {
		msg += "\nBODY: " + r.Body
	}
	return msg
}

// headerString renders headers sorted by name as "[Name: v1, v2; Other: v]"
func headerString(h http.Header) string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, strings.Join(h[k], ", ")})
	}
	return joinHeaders(pairs)
}

func joinHeaders(pairs [][2]string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p[0])
		b.WriteString(": ")
		b.WriteString(p[1])
	}
	b.WriteByte(']')
	return b.String()
}

// bodyString returns data as text, or fallback when it is empty or not valid UTF-8
func bodyString(data []byte, fallback string) string {
	if len(data) == 0 || !utf8.Valid(data) {
		return fallback
	}
	return string(data)
}
