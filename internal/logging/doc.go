// Package logging provides concrete implementations of the define.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: prefixed text lines on stderr
//   - ZapLogger: structured JSON entries via go.uber.org/zap
//   - NullLogger: discards all messages
package logging
