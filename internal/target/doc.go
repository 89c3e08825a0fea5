// Package target finds the host sshbind's ssh invocation is aimed at and
// classifies it as LAN or WAN.
//
// It does not parse ssh options. Tokens starting with "-" are skipped, every
// other token is tried in order, and the first one that classifies decides.
package target
