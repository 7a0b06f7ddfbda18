// Package status defines how workflows report progress to the user.
package status

import "io"

// Printer is the interface used to print status updates.
type Printer interface {
	// Printf should perform formatted printing.
	Printf(format string, args ...any)
	// Println should perform line-based printing.
	Println(args ...any)
	// Write implements io.Writer for streaming subprocess output.
	Write(p []byte) (n int, err error)
}

// noopPrinter is used to silence output, e.g. in tests or probes.
type noopPrinter struct{}

// Printf implements Printer.Printf.
func (*noopPrinter) Printf(format string, args ...any) {}

// Println implements Printer.Println.
func (*noopPrinter) Println(args ...any) {}

// Write implements Printer.Write.
func (*noopPrinter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// NoopPrinter returns a Printer that does nothing.
func NoopPrinter() Printer {
	return &noopPrinter{}
}

var _ io.Writer = NoopPrinter()
