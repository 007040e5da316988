//go:build !probedebug

package api

// Production builds compile the protocol assertions out entirely; misuse
// is undefined by contract. See debug.go.

func debugAssertLive(*Lock, string) {}

func debugAssertReusable(*Locker) {}

func debugAssertStarted(*Locker, WaitClass) {}
