package testing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/ssisaa/solwatch/types"
)

// ErrSubscriptionClosed is returned by FakeSubscription.Recv after Unsubscribe.
var ErrSubscriptionClosed = errors.New("subscription closed")

// FakeClient is an in-memory types.PubSubClient for tests.
//
// Registration behavior is scripted with FailNext: the next n subscribe
// calls return the given error, later calls succeed and hand out a
// FakeSubscription whose events the test pushes by hand.
type FakeClient struct {
	mu        sync.Mutex
	failures  int
	failErr   error
	calls     int
	callTimes []time.Time
	subs      []*FakeSubscription
}

// Compile-time assertion that FakeClient implements PubSubClient.
var _ types.PubSubClient = (*FakeClient)(nil)

// NewFakeClient creates a fake client whose subscribe calls all succeed.
func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

// FailNext makes the next n subscribe calls fail with err.
func (c *FakeClient) FailNext(n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures = n
	c.failErr = err
}

// Calls returns how many subscribe calls the client has seen.
func (c *FakeClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls
}

// CallTimes returns when each subscribe call arrived, in order.
func (c *FakeClient) CallTimes() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]time.Time(nil), c.callTimes...)
}

// Subs returns every subscription handed out so far.
func (c *FakeClient) Subs() []*FakeSubscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*FakeSubscription(nil), c.subs...)
}

// LastSub returns the most recently handed-out subscription, or nil.
func (c *FakeClient) LastSub() *FakeSubscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.subs) == 0 {
		return nil
	}

	return c.subs[len(c.subs)-1]
}

func (c *FakeClient) subscribe(kind types.WatchKind) (types.ProviderSubscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	c.callTimes = append(c.callTimes, time.Now())
	if c.failures > 0 {
		c.failures--
		return nil, c.failErr
	}

	sub := &FakeSubscription{
		kind:   kind,
		events: make(chan any, 64),
		done:   make(chan struct{}),
	}
	c.subs = append(c.subs, sub)

	return sub, nil
}

// SubscribeAccount implements types.PubSubClient.
func (c *FakeClient) SubscribeAccount(_ context.Context, _ solana.PublicKey, _ rpc.CommitmentType) (types.ProviderSubscription, error) {
	return c.subscribe(types.WatchAccount)
}

// SubscribeProgram implements types.PubSubClient.
func (c *FakeClient) SubscribeProgram(_ context.Context, _ solana.PublicKey, _ rpc.CommitmentType, _ []rpc.RPCFilter) (types.ProviderSubscription, error) {
	return c.subscribe(types.WatchProgram)
}

// SubscribeSignature implements types.PubSubClient.
func (c *FakeClient) SubscribeSignature(_ context.Context, _ solana.Signature, _ rpc.CommitmentType) (types.ProviderSubscription, error) {
	return c.subscribe(types.WatchSignature)
}

// SubscribeSlots implements types.PubSubClient.
func (c *FakeClient) SubscribeSlots(_ context.Context) (types.ProviderSubscription, error) {
	return c.subscribe(types.WatchSlot)
}

// SubscribeRoots implements types.PubSubClient.
func (c *FakeClient) SubscribeRoots(_ context.Context) (types.ProviderSubscription, error) {
	return c.subscribe(types.WatchRoot)
}

// FakeSubscription is the live handle handed out by FakeClient.
type FakeSubscription struct {
	kind   types.WatchKind
	events chan any

	once sync.Once
	done chan struct{}
}

var _ types.ProviderSubscription = (*FakeSubscription)(nil)

// Kind returns the watch kind this subscription was created for.
func (s *FakeSubscription) Kind() types.WatchKind { return s.kind }

// Push delivers a value to the next Recv call.
func (s *FakeSubscription) Push(v any) {
	select {
	case s.events <- v:
	case <-s.done:
	}
}

// Recv implements types.ProviderSubscription.
func (s *FakeSubscription) Recv(ctx context.Context) (any, error) {
	select {
	case v := <-s.events:
		return v, nil
	case <-s.done:
		return nil, ErrSubscriptionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Unsubscribe implements types.ProviderSubscription. Safe to call twice.
func (s *FakeSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.done) })
}

// Unsubscribed reports whether Unsubscribe has been called.
func (s *FakeSubscription) Unsubscribed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
