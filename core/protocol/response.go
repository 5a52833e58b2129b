package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
)

// Cross-origin headers present on every response.
const (
	AllowOrigin  = "*"
	AllowMethods = "GET, POST, OPTIONS"
	AllowHeaders = "Content-Type, Accept, Authorization, X-API-Key"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  AllowOrigin,
	"Access-Control-Allow-Methods": AllowMethods,
	"Access-Control-Allow-Headers": AllowHeaders,
}

// Response is a response ready to be written.
type Response struct {
	Status int
	// Header holds canonical header names.
	Header map[string]string
	Body   []byte
}

// NewResponse creates a response with the given status, content type and body.
func NewResponse(status int, contentType string, body []byte) *Response {
	r := &Response{Status: status, Header: map[string]string{}, Body: body}
	if contentType != "" {
		r.Header["Content-Type"] = contentType
	}
	return r
}

// JSON encodes v as the response body.
func JSON(status int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Text(http.StatusInternalServerError, "500 Internal Server Error")
	}
	return NewResponse(status, "application/json; charset=utf-8", body)
}

// Text returns a plain text response.
func Text(status int, body string) *Response {
	return NewResponse(status, "text/plain; charset=utf-8", []byte(body))
}

// HTML returns an HTML response.
func HTML(status int, body string) *Response {
	return NewResponse(status, "text/html; charset=utf-8", []byte(body))
}

// Empty returns a response without a body.
func Empty(status int) *Response {
	return NewResponse(status, "", nil)
}

// Set sets a header and returns the response.
func (r *Response) Set(key, value string) *Response {
	r.Header[http.CanonicalHeaderKey(key)] = value
	return r
}

// Get returns a header value.
func (r *Response) Get(key string) string {
	return r.Header[http.CanonicalHeaderKey(key)]
}

// Write serializes the response. With headOnly the body is omitted but
// Content-Length still describes it. Missing cross-origin headers are added.
func (r *Response) Write(w io.Writer, headOnly bool) error {
	bw := bufio.NewWriter(w)

	header := make(map[string]string, len(r.Header)+len(corsHeaders))
	for k, v := range corsHeaders {
		header[k] = v
	}
	for k, v := range r.Header {
		header[k] = v
	}

	text := http.StatusText(r.Status)
	if text == "" {
		text = "Unknown"
	}
	fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", r.Status, text)

	keys := make([]string, 0, len(header))
	for k := range header {
		if k == "Content-Length" || k == "Connection" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(bw, "%s: %s\r\n", k, header[k])
	}
	fmt.Fprintf(bw, "Content-Length: %s\r\n", strconv.Itoa(len(r.Body)))
	bw.WriteString("Connection: close\r\n\r\n")

	if !headOnly && len(r.Body) > 0 {
		bw.Write(r.Body)
	}
	return bw.Flush()
}
