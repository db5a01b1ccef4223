package serv_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serv "github.com/Salfa-04/serv-stre"
)

func TestBaseConnFill(t *testing.T) {
	t.Parallel()
	dc := &debugNetConn{}
	bc := serv.NewBaseConn(dc)

	dc.ReadFunc = func(buf []byte) (int, error) {
		copy(buf, "1979")
		return 4, nil
	}
	buf, err := bc.Fill()
	require.NoError(t, err)
	assert.Equal(t, "1979", string(buf))

	// a second Fill must serve the same bytes without touching the stream
	dc.ReadFunc = func(buf []byte) (int, error) {
		t.Error("Fill consumed the stream position")
		return 0, errTest
	}
	buf, err = bc.Fill()
	require.NoError(t, err)
	assert.Equal(t, "1979", string(buf))

	n, err := bc.Discard(2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	buf, err = bc.Fill()
	require.NoError(t, err)
	assert.Equal(t, "79", string(buf))

	// Read drains the rebuffered bytes before hitting the stream
	p := make([]byte, 8)
	n, err = bc.Read(p)
	require.NoError(t, err)
	assert.Equal(t, "79", string(p[:n]))

	// discarding more than is buffered consumes what is there
	n, err = bc.Discard(10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.NoError(t, bc.Flush())
	in, out := bc.Stats()
	assert.Zero(t, in)
	assert.Zero(t, out)
}

func TestBaseConnFillError(t *testing.T) {
	t.Parallel()
	dc := &debugNetConn{}
	bc := serv.NewBaseConn(dc)
	dc.ReadFunc = func(buf []byte) (int, error) {
		return 0, errTest
	}
	buf, err := bc.Fill()
	assert.Nil(t, buf)
	assert.Equal(t, errTest, err)
}

func TestBufferedConnFill(t *testing.T) {
	t.Parallel()
	dc := &debugNetConn{}
	var wrote []byte
	dc.ReadFunc = func(buf []byte) (int, error) {
		copy(buf, "1979")
		return 4, nil
	}
	dc.WriteFunc = func(buf []byte) (int, error) {
		wrote = append(wrote, buf...)
		return len(buf), nil
	}
	c := serv.NewBufferedConn(serv.NewBaseConn(dc))

	buf, err := c.Fill()
	require.NoError(t, err)
	assert.Equal(t, "1979", string(buf))

	n, err := c.Discard(4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// writes stay buffered until Flush
	_, err = c.Write([]byte("pong"))
	require.NoError(t, err)
	assert.Empty(t, wrote)
	require.NoError(t, c.Flush())
	assert.Equal(t, "pong", string(wrote))

	// EOF surfaces from Fill untouched
	dc.ReadFunc = func(buf []byte) (int, error) {
		return 0, io.EOF
	}
	buf, err = c.Fill()
	assert.Nil(t, buf)
	assert.Equal(t, io.EOF, err)
}

func TestBufferedConnCloseFlushes(t *testing.T) {
	t.Parallel()
	dc := &debugNetConn{}
	var wrote []byte
	dc.WriteFunc = func(buf []byte) (int, error) {
		wrote = append(wrote, buf...)
		return len(buf), nil
	}
	c := serv.NewBufferedConn(serv.NewBaseConn(dc))
	_, err := c.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.Equal(t, "tail", string(wrote))
	// double close is safe
	assert.NoError(t, c.Close())
}

func TestBufferedConnCloseReportsFlushError(t *testing.T) {
	t.Parallel()
	dc := &debugNetConn{}
	dc.WriteFunc = func(buf []byte) (int, error) {
		return 0, errTest
	}
	c := serv.NewBufferedConn(serv.NewBaseConn(dc))
	_, err := c.Write([]byte("tail"))
	require.NoError(t, err)
	assert.Equal(t, errTest, c.Close())
}

func TestStatsConn(t *testing.T) {
	t.Parallel()
	dc := &debugNetConn{}
	dc.ReadFunc = func(buf []byte) (int, error) {
		copy(buf, "1979")
		return 4, nil
	}
	dc.WriteFunc = func(buf []byte) (int, error) {
		return len(buf), nil
	}
	sc := serv.NewStatsConn(serv.NewBaseConn(dc))
	buf := make([]byte, 4)
	for i := 0; i < 3; i++ {
		_, err := sc.Read(buf)
		require.NoError(t, err)
	}
	_, err := sc.Write([]byte("1979"))
	require.NoError(t, err)
	in, out := sc.Stats()
	assert.Equal(t, int64(12), in)
	assert.Equal(t, int64(4), out)
}

func TestLayeredConn(t *testing.T) {
	t.Parallel()
	dc := &debugNetConn{}
	var wrote []byte
	dc.ReadFunc = func(buf []byte) (int, error) {
		copy(buf, "ping")
		return 4, nil
	}
	dc.WriteFunc = func(buf []byte) (int, error) {
		wrote = append(wrote, buf...)
		return len(buf), nil
	}
	// the layering a stats-collecting server uses
	c := serv.NewBufferedConn(serv.NewStatsConn(serv.NewBaseConn(dc)))

	buf, err := c.Fill()
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))
	in, _ := c.Stats()
	assert.Equal(t, int64(4), in, "bytes pulled into the buffer are counted")

	_, err = c.Write([]byte("pong"))
	require.NoError(t, err)
	_, out := c.Stats()
	assert.Zero(t, out, "still buffered")
	require.NoError(t, c.Flush())
	_, out = c.Stats()
	assert.Equal(t, int64(4), out)
	assert.Equal(t, "pong", string(wrote))
}
