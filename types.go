package solwatch

import "github.com/ssisaa/solwatch/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types and
// interfaces via type aliases. Internal packages depend on the types
// subpackage directly, which keeps them independent of this root package
// while users still write solwatch.Status, solwatch.AccountWatch, etc.
type (
	Status    = types.Status
	WatchKind = types.WatchKind
	WatchSpec = types.WatchSpec
	Event     = types.Event
)

// Re-export the watch spec variants.
type (
	AccountWatch   = types.AccountWatch
	ProgramWatch   = types.ProgramWatch
	SignatureWatch = types.SignatureWatch
	SlotWatch      = types.SlotWatch
	RootWatch      = types.RootWatch
)

// Re-export interfaces for convenience.
type (
	Logger               = types.Logger
	MetricsCollector     = types.MetricsCollector
	PubSubClient         = types.PubSubClient
	ProviderSubscription = types.ProviderSubscription
)

// Re-export Status constants.
const (
	StatusPending      = types.StatusPending
	StatusActive       = types.StatusActive
	StatusError        = types.StatusError
	StatusUnsubscribed = types.StatusUnsubscribed
)

// Re-export WatchKind constants.
const (
	WatchAccount   = types.WatchAccount
	WatchProgram   = types.WatchProgram
	WatchSignature = types.WatchSignature
	WatchSlot      = types.WatchSlot
	WatchRoot      = types.WatchRoot
)
