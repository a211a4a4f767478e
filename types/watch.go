package types

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/zeebo/xxh3"
)

// WatchKind identifies a category of remote push events.
type WatchKind int

const (
	// WatchAccount watches lamport/data changes of a single account.
	WatchAccount WatchKind = iota

	// WatchProgram watches owned-account changes of a program, optionally filtered.
	WatchProgram

	// WatchSignature watches confirmation of a single transaction signature.
	WatchSignature

	// WatchSlot watches slot advancement notifications.
	WatchSlot

	// WatchRoot watches rooted-slot notifications.
	WatchRoot
)

// String returns the string representation of the watch kind.
func (k WatchKind) String() string {
	switch k {
	case WatchAccount:
		return "account"
	case WatchProgram:
		return "program"
	case WatchSignature:
		return "signature"
	case WatchSlot:
		return "slot"
	case WatchRoot:
		return "root"
	default:
		return "unknown"
	}
}

// WatchSpec is the tagged union of subscription targets. Exactly one concrete
// type exists per WatchKind, so registration, unregistration, and cache-key
// derivation can switch exhaustively instead of probing optional fields.
type WatchSpec interface {
	// Kind returns the watch category tag.
	Kind() WatchKind

	// CacheKey returns the stable key under which pushed values for this watch
	// are written through the manager's cache. Two specs targeting the same
	// remote stream produce the same key.
	CacheKey() string
}

// AccountWatch subscribes to changes of a single account.
type AccountWatch struct {
	// Address is the account public key to watch.
	Address solana.PublicKey

	// Commitment is the confirmation level for notifications.
	// Zero value falls back to the manager's configured default.
	Commitment rpc.CommitmentType
}

// Kind returns WatchAccount.
func (w AccountWatch) Kind() WatchKind { return WatchAccount }

// CacheKey returns "account:<address>".
func (w AccountWatch) CacheKey() string { return "account:" + w.Address.String() }

// ProgramWatch subscribes to changes of all accounts owned by a program.
type ProgramWatch struct {
	// ProgramID is the owning program to watch.
	ProgramID solana.PublicKey

	// Commitment is the confirmation level for notifications.
	Commitment rpc.CommitmentType

	// Filters optionally narrow the owned-account set (dataSize / memcmp).
	Filters []rpc.RPCFilter
}

// Kind returns WatchProgram.
func (w ProgramWatch) Kind() WatchKind { return WatchProgram }

// CacheKey returns "program:<id>" for unfiltered watches, or
// "program:<id>:<fp>" where fp is a fingerprint of the filter list, so
// differently filtered watches on the same program do not collide.
func (w ProgramWatch) CacheKey() string {
	if len(w.Filters) == 0 {
		return "program:" + w.ProgramID.String()
	}

	return fmt.Sprintf("program:%s:%016x", w.ProgramID, filterFingerprint(w.Filters))
}

// SignatureWatch subscribes to confirmation of a transaction signature.
type SignatureWatch struct {
	// Signature is the transaction signature to watch.
	Signature solana.Signature

	// Commitment is the confirmation level that completes the watch.
	Commitment rpc.CommitmentType
}

// Kind returns WatchSignature.
func (w SignatureWatch) Kind() WatchKind { return WatchSignature }

// CacheKey returns "signature:<sig>".
func (w SignatureWatch) CacheKey() string { return "signature:" + w.Signature.String() }

// SlotWatch subscribes to slot advancement notifications. All slot watches
// share one remote stream semantically, so they share one cache key.
type SlotWatch struct{}

// Kind returns WatchSlot.
func (w SlotWatch) Kind() WatchKind { return WatchSlot }

// CacheKey returns "slot".
func (w SlotWatch) CacheKey() string { return "slot" }

// RootWatch subscribes to rooted-slot notifications.
type RootWatch struct{}

// Kind returns WatchRoot.
func (w RootWatch) Kind() WatchKind { return WatchRoot }

// CacheKey returns "root".
func (w RootWatch) CacheKey() string { return "root" }

// filterFingerprint hashes the serialized filter list into a compact stable
// value. Marshal errors cannot occur for rpc.RPCFilter values; a zero
// fingerprint stands in if one ever does.
func filterFingerprint(filters []rpc.RPCFilter) uint64 {
	raw, err := json.Marshal(filters)
	if err != nil {
		return 0
	}

	return xxh3.Hash(raw)
}
