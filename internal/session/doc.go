// Package session decides how ssh is invoked and launches it.
//
// A [Dispatcher] runs one invocation through a fixed sequence: validate the
// network interface, classify the target host, choose the LAN or WAN path,
// then launch ssh on a pty. On the WAN path the connection is pinned to the
// interface (-B) and to the interface's stable privacy IPv6 address (-b).
// Any failure before launch is returned as an error and ssh is never
// started.
package session
