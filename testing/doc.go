// Package testing provides helpers for testing code that uses solwatch:
// a testing.T-backed logger and a scriptable in-memory PubSubClient.
package testing
