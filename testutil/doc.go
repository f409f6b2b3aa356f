// Package testutil provides fixtures and scripted randomness for tests of
// clustering sessions.
//
// This package is intended for use in tests only.
package testutil
