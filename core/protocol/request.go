package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

const (
	// MaxHeaders is the maximum number of header lines.
	MaxHeaders = 100
	// MaxBodyBytes is the maximum request body size.
	MaxBodyBytes = 1 << 20
	// MaxLineBytes is the maximum length of a single line.
	MaxLineBytes = 8 << 10
)

var allowedMethods = map[string]struct{}{
	"GET":     {},
	"POST":    {},
	"PUT":     {},
	"DELETE":  {},
	"HEAD":    {},
	"OPTIONS": {},
}

// Header maps lower-cased keys to values.
type Header map[string]string

// Get returns the value for key, case-insensitively.
func (h Header) Get(key string) string {
	return h[strings.ToLower(key)]
}

// Set stores value under the lower-cased key.
func (h Header) Set(key, value string) {
	h[strings.ToLower(key)] = value
}

// Request is a parsed request.
type Request struct {
	Method string
	// Target is the raw request target.
	Target string
	// Path is the decoded path without the query string.
	Path   string
	Query  url.Values
	Proto  string
	Header Header
	Body   []byte
}

// ReadRequestLine reads and validates "METHOD target HTTP/x.y".
func ReadRequestLine(r *bufio.Reader) (*Request, error) {
	line, err := readLine(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return nil, ErrEmpty
	}

	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: invalid request line %q", ErrMalformed, line)
	}

	method := strings.ToUpper(parts[0])
	if _, ok := allowedMethods[method]; !ok {
		return nil, fmt.Errorf("%w: unsupported method %q", ErrMalformed, parts[0])
	}
	if !strings.HasPrefix(parts[2], "HTTP/") {
		return nil, fmt.Errorf("%w: invalid protocol %q", ErrMalformed, parts[2])
	}

	target := parts[1]
	if !strings.HasPrefix(target, "/") {
		return nil, fmt.Errorf("%w: invalid target %q", ErrMalformed, target)
	}

	u, err := url.ParseRequestURI(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return &Request{
		Method: method,
		Target: target,
		Path:   u.Path,
		Query:  u.Query(),
		Proto:  parts[2],
		Header: Header{},
	}, nil
}

// ReadHeaders reads header lines up to the blank line.
// Lines without a colon are ignored.
func ReadHeaders(r *bufio.Reader, req *Request) error {
	count := 0
	for {
		line, err := readLine(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: unterminated headers", ErrMalformed)
			}
			return err
		}
		if line == "" {
			return nil
		}

		count++
		if count > MaxHeaders {
			return fmt.Errorf("%w: more than %d headers", ErrTooLarge, MaxHeaders)
		}

		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		req.Header.Set(key, value)
	}
}

// ReadBody reads Content-Length bytes into req.Body.
func ReadBody(r *bufio.Reader, req *Request) error {
	raw := req.Header.Get("content-length")
	if raw == "" {
		return nil
	}
	if strings.EqualFold(req.Header.Get("transfer-encoding"), "chunked") {
		return fmt.Errorf("%w: chunked transfer encoding", ErrMalformed)
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return fmt.Errorf("%w: invalid content-length %q", ErrMalformed, raw)
	}
	if n == 0 {
		return nil
	}
	if n > MaxBodyBytes {
		return fmt.Errorf("%w: body of %d bytes", ErrTooLarge, n)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: truncated body", ErrMalformed)
		}
		return err
	}
	req.Body = body
	return nil
}

// ReadRequest reads a whole request.
func ReadRequest(r *bufio.Reader) (*Request, error) {
	req, err := ReadRequestLine(r)
	if err != nil {
		return nil, err
	}
	if err := ReadHeaders(r, req); err != nil {
		return nil, err
	}
	if err := ReadBody(r, req); err != nil {
		return nil, err
	}
	return req, nil
}

func readLine(r *bufio.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return "", err
		}
		if buf.Len()+len(chunk) > MaxLineBytes {
			return "", fmt.Errorf("%w: line exceeds %d bytes", ErrTooLarge, MaxLineBytes)
		}
		buf.Write(chunk)
		if !isPrefix {
			return buf.String(), nil
		}
	}
}
