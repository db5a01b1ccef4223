/*
Package serv is a small concurrent TCP server core with an HTTP-flavored
request mode, built around a bounded-concurrency admission gate.

### Features
- Gate, a counting semaphore that caps how many connections are handled
  in parallel; submitting work blocks only until a capacity unit is free.
- Two route shapes:
  - Raw mode: func(buf []byte) (resp []byte, keepAlive bool) receives the
    unparsed bytes of each read.
  - HTTP mode: func(req *Request) (resp []byte, keepAlive bool) receives
    method, path, headers and body after a line-oriented parse.
- Route functions return complete response bytes; the core adds no framing.
  A keep-alive result keeps the connection open for the next request.
- Failures anywhere in the read/parse/dispatch/write cycle answer with a
  fixed diagnostic response (HTTP/1.1 520 LOVE YOU) and close the
  connection. A panicking route never takes down the server or sibling
  connections.
- Provides flexibility through built-in interfaces:
  - Conn
    - BufferedConn that wraps Conn in pooled bufio.Reader/Writer (default).
    - StatsConn that wraps Conn to measure incoming/outgoing bytes.
    - DebugConn that wraps Conn to output debug information.
  - Logger
    - zap-backed DefaultLogger.
    - BuiltinLogger that logs using the standard log package.
  - Retry
    - ExponentialRetry that backs off failed accepts without jitter.
  - Statistics
    - TrafficStatistics that measures traffic across a server.
    - PromStatistics that exports the same through Prometheus counters.

### Deliberate limitations
- Not an HTTP/1.1 implementation: no Content-Length handling, no chunked
  transfer, no pipelining. A request must arrive within a single read.
- No TLS, no graceful shutdown, no per-connection deadlines. A stalled
  peer holds its capacity unit until the process exits.
*/
package serv
