// Package tty runs a child process on a pseudo-terminal attached to the
// user's terminal.
//
// [Runner.Launch] starts the child with the current terminal geometry, puts
// the local terminal into raw mode, relays input and output, and keeps the
// child's window size in step with the local one whenever the terminal is
// resized (SIGWINCH on unix). It returns the child's exit status.
package tty
