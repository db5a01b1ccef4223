package serv_test

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

type (
	// debugNetConn is a scriptable net.Conn for unit-level tests.
	debugNetConn struct {
		ReadFunc  func([]byte) (int, error)
		WriteFunc func([]byte) (int, error)
		Local     string
		Remote    string
	}

	nullLogger struct{}

	// recordLogger keeps every formatted log line for assertions.
	recordLogger struct {
		mu      sync.Mutex
		entries []string
	}
)

var errTest = errors.New("errTest")

func (l nullLogger) Errorf(format string, args ...interface{}) {
	// nop
}

func (l *recordLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *recordLogger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func (dc *debugNetConn) Read(b []byte) (int, error) {
	return dc.ReadFunc(b)
}

func (dc *debugNetConn) Write(b []byte) (int, error) {
	return dc.WriteFunc(b)
}

func (dc *debugNetConn) Close() error {
	return nil
}

func (dc *debugNetConn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP(dc.Local), Port: 1979}
}

func (dc *debugNetConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP(dc.Remote), Port: 1979}
}

func (dc *debugNetConn) SetDeadline(t time.Time) error {
	return nil
}

func (dc *debugNetConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (dc *debugNetConn) SetWriteDeadline(t time.Time) error {
	return nil
}
