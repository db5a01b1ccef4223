package serv

import "io"

// The one response shape used for every internal failure. The status code
// is deliberately outside the standard range so it never collides with
// anything a route returns.
const errorResponseHeader = "HTTP/1.1 520 LOVE YOU\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Connection: close\r\n\r\n"

// RespondError writes the fixed diagnostic response carrying msg to w and
// flushes it. A failure to write or flush the diagnostic itself is
// reported through logger and otherwise swallowed; there is no retry.
func RespondError(w WriteFlusher, logger Logger, msg string) {
	if _, err := io.WriteString(w, errorResponseHeader+msg+"\r\n"); err != nil {
		logger.Errorf("serv: write failure: %s: %v", msg, err)
	}
	if err := w.Flush(); err != nil {
		logger.Errorf("serv: flush failure: %s: %v", msg, err)
	}
}
