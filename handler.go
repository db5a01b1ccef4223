package serv

import (
	"errors"
	"fmt"
	"io"
)

type (
	// WriteFlusher is the interface that groups the basic Write and Flush
	// methods, the sink an error response goes to.
	WriteFlusher interface {
		io.Writer
		Flush() error
	}

	// RawRoute maps the unparsed bytes of one read to complete response
	// bytes and a keep-alive decision. The response must carry its own
	// framing; the server writes it verbatim.
	RawRoute func(buf []byte) (resp []byte, keepAlive bool)

	// HTTPRoute maps a parsed request to complete response bytes and a
	// keep-alive decision. The response must be a well-formed HTTP
	// response; the server writes it verbatim.
	HTTPRoute func(req *Request) (resp []byte, keepAlive bool)
)

// Fixed wire messages of the diagnostic response.
const (
	msgEmptyInput = "Empty Input!"
	msgMalformed  = "Non-Standard HTTP Structure!"
)

// SetRawRoute installs a ConnHandler that feeds each read to route
// without parsing. The buffer route receives is its own copy.
func (s *Server) SetRawRoute(route RawRoute) {
	s.ConnHandler = s.routeLoop(func(buf []byte) ([]byte, bool, error) {
		data := make([]byte, len(buf))
		copy(data, buf)
		return callRoute(func() ([]byte, bool) { return route(data) })
	})
}

// SetHTTPRoute installs a ConnHandler that parses each read as an
// HTTP-shaped request before invoking route.
func (s *Server) SetHTTPRoute(route HTTPRoute) {
	s.ConnHandler = s.routeLoop(func(buf []byte) ([]byte, bool, error) {
		req, err := ParseRequest(buf)
		if err != nil {
			return nil, false, errors.New(msgMalformed)
		}
		return callRoute(func() ([]byte, bool) { return route(req) })
	})
}

// routeLoop builds the request/response cycle shared by both modes:
// fill, dispatch, write, then either consume-and-flush and go again or
// close. Any failure answers with the diagnostic response and ends the
// connection; there is no retry path back into the loop.
func (s *Server) routeLoop(dispatch func([]byte) ([]byte, bool, error)) ConnHandler {
	return func(conn Conn) {
		for {
			buf, err := conn.Fill()
			if err != nil {
				msg := err.Error()
				if err == io.EOF {
					// A closed or empty peer is an error here, not a
					// quiet end-of-stream.
					msg = msgEmptyInput
				}
				RespondError(conn, s.logger(), msg)
				return
			}
			if len(buf) == 0 {
				RespondError(conn, s.logger(), msgEmptyInput)
				return
			}

			resp, keepAlive, err := dispatch(buf)
			if err != nil {
				if err == ErrAbortHandler {
					return
				}
				RespondError(conn, s.logger(), err.Error())
				return
			}

			if _, err = conn.Write(resp); err != nil {
				RespondError(conn, s.logger(), err.Error())
				return
			}

			if !keepAlive {
				// Closing flushes whatever is buffered.
				return
			}

			// Consume exactly this iteration's bytes so the next fill
			// starts at the following request.
			if _, err = conn.Discard(len(buf)); err != nil {
				RespondError(conn, s.logger(), err.Error())
				return
			}
			if err = conn.Flush(); err != nil {
				RespondError(conn, s.logger(), err.Error())
				return
			}
		}
	}
}

// callRoute invokes a route inside a fault boundary. A panic becomes an
// error result instead of unwinding into the connection loop; panicking
// with ErrAbortHandler is passed through as that sentinel.
func callRoute(invoke func() ([]byte, bool)) (resp []byte, keepAlive bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == ErrAbortHandler {
				err = ErrAbortHandler
				return
			}
			err = fmt.Errorf("route panic: %v", r)
		}
	}()
	resp, keepAlive = invoke()
	return
}
