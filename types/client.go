package types

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ProviderSubscription is a live registration on the remote node.
//
// Recv blocks until the next push notification or an error; Unsubscribe
// removes the listener on the remote side. Implementations wrap the concrete
// per-kind subscription objects of the underlying RPC client.
type ProviderSubscription interface {
	// Recv returns the next notification. It returns an error when the stream
	// terminates or the context is cancelled.
	Recv(ctx context.Context) (any, error)

	// Unsubscribe removes the registration on the remote node. Safe to call
	// more than once.
	Unsubscribe()
}

// PubSubClient is the capability set the manager requires from a remote
// pub/sub connection: one subscribe call per watch kind. The wire protocol is
// the provider's concern; see the provider package for the websocket-backed
// implementation.
//
// Each call performs one network round-trip and either returns a live
// ProviderSubscription or an error. Errors are treated as recoverable
// registration failures and retried by the manager.
type PubSubClient interface {
	// SubscribeAccount registers for changes of a single account.
	SubscribeAccount(ctx context.Context, address solana.PublicKey, commitment rpc.CommitmentType) (ProviderSubscription, error)

	// SubscribeProgram registers for owned-account changes of a program.
	SubscribeProgram(ctx context.Context, programID solana.PublicKey, commitment rpc.CommitmentType, filters []rpc.RPCFilter) (ProviderSubscription, error)

	// SubscribeSignature registers for confirmation of a transaction signature.
	SubscribeSignature(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) (ProviderSubscription, error)

	// SubscribeSlots registers for slot advancement notifications.
	SubscribeSlots(ctx context.Context) (ProviderSubscription, error)

	// SubscribeRoots registers for rooted-slot notifications.
	SubscribeRoots(ctx context.Context) (ProviderSubscription, error)
}
