// Package pty allocates a pseudo-terminal pair, announces the slave device
// path so another process can open it, and holds the pair for the life of
// the process.
package pty
