// Package solwatch provides a Go library for multiplexing real-time Solana
// pub/sub subscriptions with throttled registration, retry, and caching.
//
// Solwatch registers interest in push-based events (account changes,
// program-account changes, signature confirmations, slot and root advances)
// against a remote RPC node while respecting the node's rate limits,
// recovering from transient registration failures, reclaiming abandoned
// subscriptions, and shielding callers from redundant reads via a bounded,
// time-expiring cache.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    "github.com/ssisaa/solwatch"
//	    "github.com/ssisaa/solwatch/provider"
//	)
//
//	client, err := provider.ConnectWS(ctx, "wss://api.mainnet-beta.solana.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mgr, err := solwatch.NewManager([]solwatch.PubSubClient{client}, solwatch.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := mgr.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Stop()
//
//	sub, err := mgr.Subscribe(solwatch.AccountWatch{Address: pool})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for ev := range sub.Events() {
//	    // Handle pushed account updates
//	}
//
// # Key Features
//
//   - Synchronous subscribe: ids are allocated immediately, registration runs
//     asynchronously on a single-flight, rate-limited queue
//   - Exponential-backoff retries with a per-subscription ceiling
//   - Round-robin spreading of registration traffic over redundant connections
//   - Write-through LRU+TTL cache so callers can poll the last known value
//   - Periodic stale reaping of subscriptions whose owners disappeared
//
// # Architecture
//
// Subscriptions progress through a small state machine:
//
//	Pending → Active → Unsubscribed
//	Pending → Error (retries exhausted) → Unsubscribed
//
// Registration failures never propagate to the Subscribe caller; the feed is
// best effort, and a permanently failed subscription is observable only via
// Status/IsActive and the terminal state of its handle. Callers that care
// must check.
package solwatch
