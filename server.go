package serv

import (
	"errors"
	"net"
	"runtime"
	"sync"
	"time"
)

type (
	// ConnHandler owns one accepted connection for its whole lifetime.
	// SetRawRoute and SetHTTPRoute install ready-made ones; assign the
	// field directly for full control over the connection.
	ConnHandler func(Conn)

	// Server accepts TCP connections and hands each to ConnHandler,
	// admitting at most MaxConn handlers at a time.
	Server struct {
		Addr string

		// MaxConn caps concurrently handled connections. Zero is a
		// valid-but-degenerate capacity: every connection waits forever.
		MaxConn int

		ConnHandler ConnHandler

		// Configurable components
		NewConn    NewConn
		Logger     Logger
		Retry      Retry
		Statistics Statistics

		gate     *Gate
		listener net.Listener

		mu sync.Mutex
	}
)

// ErrAbortHandler is a sentinel panic value to abort a connection without
// the diagnostic response and without a logged stack.
var ErrAbortHandler = errors.New("serv: abort handler")

// ListenAndServe binds Addr and runs the accept loop. The only error it
// can return is the bind failure, which is fatal to the server; once
// serving it never returns.
func (s *Server) ListenAndServe() error {
	addr := s.Addr
	if addr == "" {
		addr = ":8888"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(tcpKeepAliveListener{ln.(*net.TCPListener)})
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (c net.Conn, err error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return
	}
	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)
	return tc, nil
}

// ListenAndServeRaw serves route on addr in raw mode with at most maxConn
// concurrent connections. It blocks forever unless the bind fails.
func ListenAndServeRaw(addr string, maxConn int, route RawRoute) error {
	srv := &Server{Addr: addr, MaxConn: maxConn}
	srv.SetRawRoute(route)
	return srv.ListenAndServe()
}

// ListenAndServeHTTP serves route on addr in HTTP mode with at most
// maxConn concurrent connections. It blocks forever unless the bind fails.
func ListenAndServeHTTP(addr string, maxConn int, route HTTPRoute) error {
	srv := &Server{Addr: addr, MaxConn: maxConn}
	srv.SetHTTPRoute(route)
	return srv.ListenAndServe()
}

// ListenerAddr returns the bound address, or nil before Serve.
func (s *Server) ListenerAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections on l forever. Individual accept failures are
// logged and retried with backoff; they never stop the loop. Process
// termination is the only stop condition.
func (s *Server) Serve(l net.Listener) error {
	var retry uint64

	if s.ConnHandler == nil {
		panic("serv: nil handler")
	}

	// set reasonable default to each component
	if s.Logger == nil {
		s.Logger = DefaultLogger
	}
	if s.Retry == nil {
		s.Retry = DefaultRetry
	}
	if s.Statistics == nil {
		s.Statistics = &TrafficStatistics{}
	}
	if s.NewConn == nil {
		s.NewConn = NewBufferedConn
	}
	s.gate = NewGate(s.MaxConn)

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	for {
		rw, e := l.Accept()
		if e != nil {
			delay := s.Retry.Backoff(retry)
			s.Logger.Errorf("serv: accept error: %v; retrying in %v", e, delay)
			time.Sleep(delay)
			retry++
			continue
		}
		retry = 0
		conn := s.NewConn(NewBaseConn(rw))
		// Submit waits here, on the accept goroutine, until a capacity
		// unit frees up. Admission is the only accept-path suspension.
		s.gate.Submit(func() {
			s.serveConn(conn)
		})
	}
}

func (s *Server) serveConn(conn Conn) {
	defer func() {
		if err := recover(); err != nil && err != ErrAbortHandler {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			s.Logger.Errorf("serv: panic serving %v: %v\n%s", conn.RemoteAddr(), err, buf)
		}
		// Close first: it flushes anything the close path left buffered,
		// and those bytes belong in the stats.
		conn.Close()
		s.Statistics.AddConnStats(conn)
	}()
	s.ConnHandler(conn)
}

func (s *Server) logger() Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return DefaultLogger
}
