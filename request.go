package serv

import (
	"errors"
	"strings"
)

// Request is one parsed HTTP-shaped request. Header keys are
// case-sensitive and unique; when a key repeats, the last value wins.
// Body is everything after the header/body delimiter, with no length
// negotiation.
type Request struct {
	Method string
	Path   string
	Header map[string]string
	Body   string
}

// ErrMalformedRequest reports input that does not have the expected
// request-line/headers/blank-line/body shape.
var ErrMalformedRequest = errors.New("serv: non-standard http structure")

// ParseRequest decodes buf as one request. Invalid UTF-8 is tolerated by
// substitution and never fails the parse. The protocol version token is
// required on the request line but not exposed.
func ParseRequest(buf []byte) (*Request, error) {
	text := strings.ToValidUTF8(string(buf), "�")

	head, body, found := strings.Cut(text, "\r\n\r\n")
	if !found {
		return nil, ErrMalformedRequest
	}

	lines := strings.Split(head, "\r\n")
	tokens := strings.Fields(lines[0])
	if len(tokens) != 3 {
		return nil, ErrMalformedRequest
	}

	req := &Request{
		Method: tokens[0],
		Path:   tokens[1],
		Header: make(map[string]string, len(lines)-1),
		Body:   body,
	}
	for _, line := range lines[1:] {
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		value := strings.TrimSpace(line[i+1:])
		req.Header[key] = value
	}
	return req, nil
}
