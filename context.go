package tokenswap

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int // local to the tokenswap module

const (
	contextKeyLogger contextKey = iota
	contextKeyInvoker
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()
)

// WithLogger sets the logger for this context.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the currently set logger, or DefaultLogger if none was
// set.
func GetLogger(ctx context.Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithLogInfo accepts keyvalue pairs, and returns another context like this,
// after passing all the keyvals to the Logger.
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// WithInvoker sets the cross program invoker available to programs.
func WithInvoker(ctx context.Context, inv Invoker) context.Context {
	return context.WithValue(ctx, contextKeyInvoker, inv)
}

// GetInvoker returns the invoker set by the runtime. It returns nil outside
// of a program execution.
func GetInvoker(ctx context.Context) Invoker {
	val, _ := ctx.Value(contextKeyInvoker).(Invoker)
	return val
}
