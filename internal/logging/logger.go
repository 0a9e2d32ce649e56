// Package logging defines the structured-logging interface used across the
// ledger packages. The variadic args are key-value pairs:
//
//	log.Info(ctx, "deposit committed", "account", number, "amount", amount)
package logging

import "context"

type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
