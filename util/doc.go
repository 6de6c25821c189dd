// Package util holds small helpers shared by the twitterkit packages:
// secret masking for display, environment value cleanup, and coalescing.
package util
