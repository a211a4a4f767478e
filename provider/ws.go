// Package provider adapts concrete RPC pub/sub transports to the
// types.PubSubClient capability set consumed by the manager.
package provider

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"

	"github.com/ssisaa/solwatch/types"
)

// WSClient implements types.PubSubClient on top of the Solana websocket
// pub/sub protocol.
type WSClient struct {
	conn *ws.Client
}

// Compile-time assertion that WSClient implements PubSubClient.
var _ types.PubSubClient = (*WSClient)(nil)

// NewWS wraps an established websocket connection.
//
// Parameters:
//   - conn: Connected ws.Client (see ConnectWS)
//
// Returns:
//   - *WSClient: Adapter usable as a manager connection
func NewWS(conn *ws.Client) *WSClient {
	return &WSClient{conn: conn}
}

// ConnectWS dials the websocket endpoint and wraps the connection.
//
// Parameters:
//   - ctx: Context bounding the dial
//   - endpoint: Websocket RPC URL, e.g. "wss://api.mainnet-beta.solana.com"
//
// Returns:
//   - *WSClient: Adapter usable as a manager connection
//   - error: Dial failure
func ConnectWS(ctx context.Context, endpoint string) (*WSClient, error) {
	conn, err := ws.Connect(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return NewWS(conn), nil
}

// Close shuts down the underlying websocket connection.
func (c *WSClient) Close() {
	c.conn.Close()
}

// SubscribeAccount registers for changes of a single account.
func (c *WSClient) SubscribeAccount(_ context.Context, address solana.PublicKey, commitment rpc.CommitmentType) (types.ProviderSubscription, error) {
	sub, err := c.conn.AccountSubscribe(address, commitment)
	if err != nil {
		return nil, err
	}

	return accountSub{sub}, nil
}

// SubscribeProgram registers for owned-account changes of a program.
func (c *WSClient) SubscribeProgram(_ context.Context, programID solana.PublicKey, commitment rpc.CommitmentType, filters []rpc.RPCFilter) (types.ProviderSubscription, error) {
	sub, err := c.conn.ProgramSubscribeWithOpts(programID, commitment, solana.EncodingBase64, filters)
	if err != nil {
		return nil, err
	}

	return programSub{sub}, nil
}

// SubscribeSignature registers for confirmation of a transaction signature.
func (c *WSClient) SubscribeSignature(_ context.Context, signature solana.Signature, commitment rpc.CommitmentType) (types.ProviderSubscription, error) {
	sub, err := c.conn.SignatureSubscribe(signature, commitment)
	if err != nil {
		return nil, err
	}

	return signatureSub{sub}, nil
}

// SubscribeSlots registers for slot advancement notifications.
func (c *WSClient) SubscribeSlots(_ context.Context) (types.ProviderSubscription, error) {
	sub, err := c.conn.SlotSubscribe()
	if err != nil {
		return nil, err
	}

	return slotSub{sub}, nil
}

// SubscribeRoots registers for rooted-slot notifications.
func (c *WSClient) SubscribeRoots(_ context.Context) (types.ProviderSubscription, error) {
	sub, err := c.conn.RootSubscribe()
	if err != nil {
		return nil, err
	}

	return rootSub{sub}, nil
}

// Per-kind wrappers erasing the concrete result types behind
// types.ProviderSubscription.

type accountSub struct{ sub *ws.AccountSubscription }

func (s accountSub) Recv(ctx context.Context) (any, error) { return s.sub.Recv(ctx) }
func (s accountSub) Unsubscribe()                          { s.sub.Unsubscribe() }

type programSub struct{ sub *ws.ProgramSubscription }

func (s programSub) Recv(ctx context.Context) (any, error) { return s.sub.Recv(ctx) }
func (s programSub) Unsubscribe()                          { s.sub.Unsubscribe() }

type signatureSub struct{ sub *ws.SignatureSubscription }

func (s signatureSub) Recv(ctx context.Context) (any, error) { return s.sub.Recv(ctx) }
func (s signatureSub) Unsubscribe()                          { s.sub.Unsubscribe() }

type slotSub struct{ sub *ws.SlotSubscription }

func (s slotSub) Recv(ctx context.Context) (any, error) { return s.sub.Recv(ctx) }
func (s slotSub) Unsubscribe()                          { s.sub.Unsubscribe() }

type rootSub struct{ sub *ws.RootSubscription }

func (s rootSub) Recv(ctx context.Context) (any, error) { return s.sub.Recv(ctx) }
func (s rootSub) Unsubscribe()                          { s.sub.Unsubscribe() }
