package serv

import (
	"bufio"
	"log"
	"net"
	"sync"
)

type (
	// Conn is the connection surface the handler loop works against.
	// Fill returns the bytes currently readable without consuming them;
	// Discard consumes bytes previously returned by Fill. Implementations
	// wrap each other so behavior can be layered.
	Conn interface {
		net.Conn
		Fill() ([]byte, error)
		Discard(n int) (int, error)
		Flush() error
		Stats() (int64, int64)
	}

	// NewConn adapts a Conn, typically to layer extra behavior on top.
	NewConn func(Conn) Conn

	baseConn struct {
		net.Conn
		buf []byte
	}

	// BufferedConn wraps Conn in bufio.Reader/Writer drawn from pools.
	BufferedConn struct {
		Conn
		bufr *bufio.Reader
		bufw *bufio.Writer
		once sync.Once
	}

	// StatsConn wraps Conn to measure incoming/outgoing bytes.
	StatsConn struct {
		Conn
		InBytes  int64
		OutBytes int64
	}

	// DebugConn wraps Conn to output debug information.
	DebugConn struct {
		Conn
	}
)

const fillBufSize = 4 << 10

var (
	readerPool sync.Pool
	writerPool sync.Pool
)

// NewBaseConn adapts a net.Conn into a Conn.
// Fill reads at most once; unconsumed bytes are handed back by later
// Read or Fill calls so the stream position only advances on Discard.
func NewBaseConn(conn net.Conn) Conn {
	return &baseConn{Conn: conn}
}

func (bc *baseConn) Fill() ([]byte, error) {
	if len(bc.buf) > 0 {
		return bc.buf, nil
	}
	chunk := make([]byte, fillBufSize)
	n, err := bc.Conn.Read(chunk)
	if n > 0 {
		bc.buf = chunk[:n]
		return bc.buf, nil
	}
	return nil, err
}

func (bc *baseConn) Discard(n int) (int, error) {
	if n > len(bc.buf) {
		n = len(bc.buf)
	}
	bc.buf = bc.buf[n:]
	return n, nil
}

func (bc *baseConn) Read(buf []byte) (int, error) {
	if len(bc.buf) > 0 {
		n := copy(buf, bc.buf)
		bc.buf = bc.buf[n:]
		return n, nil
	}
	return bc.Conn.Read(buf)
}

func (bc *baseConn) Flush() error {
	return nil
}

func (bc *baseConn) Stats() (int64, int64) {
	return 0, 0
}

// NewBufferedConn wraps conn in a pooled bufio.Reader/Writer pair.
// It is the default NewConn of a Server.
func NewBufferedConn(conn Conn) Conn {
	var br *bufio.Reader
	var bw *bufio.Writer
	if v := readerPool.Get(); v != nil {
		br = v.(*bufio.Reader)
		br.Reset(conn)
	} else {
		br = bufio.NewReader(conn)
	}
	if v := writerPool.Get(); v != nil {
		bw = v.(*bufio.Writer)
		bw.Reset(conn)
	} else {
		bw = bufio.NewWriter(conn)
	}
	return &BufferedConn{
		Conn: conn,
		bufr: br,
		bufw: bw,
	}
}

func (b *BufferedConn) Fill() ([]byte, error) {
	if _, err := b.bufr.Peek(1); err != nil {
		return nil, err
	}
	return b.bufr.Peek(b.bufr.Buffered())
}

func (b *BufferedConn) Discard(n int) (int, error) {
	return b.bufr.Discard(n)
}

func (b *BufferedConn) Read(buf []byte) (n int, err error) {
	n, err = b.bufr.Read(buf)
	return
}

func (b *BufferedConn) Write(buf []byte) (n int, err error) {
	n, err = b.bufw.Write(buf)
	return
}

func (b *BufferedConn) Close() (err error) {
	b.once.Do(func() {
		b.bufr.Reset(nil)
		readerPool.Put(b.bufr)
		b.bufr = nil
		err = b.bufw.Flush()
		b.bufw.Reset(nil)
		writerPool.Put(b.bufw)
		b.bufw = nil
		e := b.Conn.Close()
		if err == nil {
			err = e
		}
	})
	return
}

func (b *BufferedConn) Flush() (err error) {
	return b.bufw.Flush()
}

// NewStatsConn wraps conn to count bytes moved in each direction.
func NewStatsConn(conn Conn) Conn {
	return &StatsConn{Conn: conn}
}

func (s *StatsConn) Read(buf []byte) (n int, err error) {
	n, err = s.Conn.Read(buf)
	s.InBytes += int64(n)
	return
}

func (s *StatsConn) Write(buf []byte) (n int, err error) {
	n, err = s.Conn.Write(buf)
	s.OutBytes += int64(n)
	return
}

func (s *StatsConn) Stats() (int64, int64) {
	return s.InBytes, s.OutBytes
}

// NewDebugConn wraps conn to log every operation.
func NewDebugConn(conn Conn) Conn {
	return &DebugConn{Conn: conn}
}

func (d *DebugConn) Fill() (buf []byte, err error) {
	log.Printf("Fill() = ....")
	buf, err = d.Conn.Fill()
	log.Printf("Fill() = %d, %v", len(buf), err)
	return
}

func (d *DebugConn) Discard(n int) (m int, err error) {
	m, err = d.Conn.Discard(n)
	log.Printf("Discard(%d) = %d, %v", n, m, err)
	return
}

func (d *DebugConn) Read(buf []byte) (n int, err error) {
	log.Printf("Read(%d) = ....", len(buf))
	n, err = d.Conn.Read(buf)
	log.Printf("Read(%d) = %d, %v", len(buf), n, err)
	return
}

func (d *DebugConn) Write(buf []byte) (n int, err error) {
	log.Printf("Write(%d) = ....", len(buf))
	n, err = d.Conn.Write(buf)
	log.Printf("Write(%d) = %d, %v", len(buf), n, err)
	return
}

func (d *DebugConn) Flush() (err error) {
	err = d.Conn.Flush()
	log.Printf("Flush() = %v", err)
	return
}

func (d *DebugConn) Close() (err error) {
	log.Printf("Close() = ...")
	err = d.Conn.Close()
	log.Printf("Close() = %v", err)
	return
}
