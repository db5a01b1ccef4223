package serv

import (
	"log"

	"go.uber.org/zap"
)

type (
	// Logger is the interface that wraps logging operations.
	Logger interface {
		// Errorf logs error information.
		// Arguments are handled in the manner of fmt.Printf.
		Errorf(format string, args ...interface{})
	}
	// BuiltinLogger implements Logger based on the standard log package.
	BuiltinLogger struct{}
)

// DefaultLogger is the default Logger, a production zap logger.
// *zap.SugaredLogger satisfies Logger directly, so any zap setup can be
// assigned here or to Server.Logger.
var DefaultLogger Logger = zap.Must(zap.NewProduction()).Sugar()

// Errorf logs error information using the standard log package.
func (l BuiltinLogger) Errorf(format string, args ...interface{}) {
	log.Printf(format, args...)
}
