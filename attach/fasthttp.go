package attach

import (
	"sort"

	"github.com/valyala/fasthttp"
)

// NewFastRequest snapshots a fasthttp request, body included
func NewFastRequest(r *fasthttp.Request) *Request {
	snap := &Request{Method: none, URL: none, Headers: "[]", Body: none}
	if r == nil {
		return snap
	}
	if m := r.Header.Method(); len(m) > 0 {
		snap.Method = string(m)
	}
	if uri := r.URI().String(); uri != "" {
		snap.URL = uri
	}
	var pairs [][2]string
	r.Header.VisitAll(func(k, v []byte) {
		pairs = append(pairs, [2]string{string(k), string(v)})
	})
	snap.Headers = sortedHeaders(pairs)
	snap.Body = bodyString(r.Body(), none)
	return snap
}

// NewFastResponse snapshots a fasthttp response. fasthttp responses do not carry their URL,
// so the caller passes it; empty means unknown.
func NewFastResponse(resp *fasthttp.Response, url string) *Response {
	snap := &Response{URL: none, Headers: "[]"}
	if url != "" {
		snap.URL = url
	}
	if resp == nil {
		return snap
	}
	snap.Status = resp.StatusCode()
	var pairs [][2]string
	resp.Header.VisitAll(func(k, v []byte) {
		pairs = append(pairs, [2]string{string(k), string(v)})
	})
	snap.Headers = sortedHeaders(pairs)
	snap.hasBody = true
	snap.Body = bodyString(resp.Body(), "-")
	return snap
}

// sortedHeaders merges repeated names and renders them like headerString
func sortedHeaders(pairs [][2]string) string {
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })
	merged := pairs[:0]
	for _, p := range pairs {
		if n := len(merged); n > 0 && merged[n-1][0] == p[0] {
			merged[n-1][1] += ", " + p[1]
			continue
		}
		merged = append(merged, p)
	}
	return joinHeaders(merged)
}
