package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/layer-3/walletauth/core"
	"go.uber.org/zap"
)

// State of the login flow
type State int

const (
	Idle State = iota
	Connecting
	Connected
	AwaitingSignature
	Verifying
	Authenticated
	ErrorRecovery
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case AwaitingSignature:
		return "awaiting_signature"
	case Verifying:
		return "verifying"
	case Authenticated:
		return "authenticated"
	case ErrorRecovery:
		return "error_recovery"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// events consumed by the loop; results of side effects carry the attempt
// they were started under
type (
	connectRequested    struct{}
	disconnectRequested struct{}
	walletConnected     struct {
		attempt uint64
		address string
	}
	walletSigned struct {
		attempt uint64
		message string
		signed  SignedMessage
	}
	sessionEstablished struct {
		attempt uint64
		session *Session
	}
	stepFailed struct {
		attempt uint64
		err     error
	}
	recoveryDone struct {
		attempt uint64
	}
)

// Option customizes a Machine
type Option func(*Machine)

// WithLogger sets the machine logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Machine) { m.log = log }
}

// WithClock replaces time.Now for challenge timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// OnTransition registers a hook called from the loop after every state change.
func OnTransition(fn func(from, to State)) Option {
	return func(m *Machine) { m.onTransition = fn }
}

// Machine drives the wallet login flow as an explicit state machine. All
// state changes happen on the goroutine running Run; wallet and server calls
// run asynchronously and report back as events.
type Machine struct {
	wallet   WalletProvider
	auth     Authenticator
	sessions SessionStore
	nav      Navigator

	log          *zap.Logger
	now          func() time.Time
	onTransition func(from, to State)

	events chan any

	// owned by the loop
	attempt uint64
	address string

	mu      sync.RWMutex
	state   State
	lastErr error
}

func NewMachine(wallet WalletProvider, auth Authenticator, sessions SessionStore, nav Navigator, opts ...Option) *Machine {
	m := &Machine{
		wallet:   wallet,
		auth:     auth,
		sessions: sessions,
		nav:      nav,
		log:      zap.NewNop(),
		now:      time.Now,
		events:   make(chan any, 16),
		state:    Idle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Err returns the error that last sent the flow into recovery, if any.
func (m *Machine) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// Connect starts a login attempt. It is ignored unless the machine is idle.
func (m *Machine) Connect(ctx context.Context) error {
	return m.send(ctx, connectRequested{})
}

// Disconnect abandons any attempt in flight and disconnects the wallet.
func (m *Machine) Disconnect(ctx context.Context) error {
	return m.send(ctx, disconnectRequested{})
}

func (m *Machine) send(ctx context.Context, ev any) error {
	select {
	case m.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events until ctx is cancelled.
func (m *Machine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-m.events:
			m.handle(ctx, ev)
		}
	}
}

func (m *Machine) handle(ctx context.Context, ev any) {
	state := m.State()

	switch ev := ev.(type) {
	case connectRequested:
		if state != Idle {
			m.log.Debug("connect ignored", zap.Stringer("state", state))
			return
		}
		m.attempt++
		m.setErr(nil)
		m.transition(ctx, Connecting)

	case disconnectRequested:
		if state == Idle {
			return
		}
		m.attempt++
		m.address = ""
		m.goDo(ctx, func(ctx context.Context) any {
			if err := m.wallet.Disconnect(ctx); err != nil {
				m.log.Warn("wallet disconnect failed", zap.Error(err))
			}
			return nil
		})
		m.transition(ctx, Idle)

	case walletConnected:
		if !m.current(ev.attempt, state, Connecting) {
			return
		}
		m.address = ev.address
		m.transition(ctx, Connected)

	case walletSigned:
		if !m.current(ev.attempt, state, AwaitingSignature) {
			return
		}
		m.transition(ctx, Verifying)
		req := LoginRequest{
			WalletAddress: m.address,
			Message:       ev.message,
			Signature:     ev.signed.Signature,
			SignedPayload: ev.signed.SignedPayload,
		}
		attempt := m.attempt
		m.goDo(ctx, func(ctx context.Context) any {
			session, err := m.auth.Login(ctx, req)
			if err != nil {
				return stepFailed{attempt: attempt, err: err}
			}
			return sessionEstablished{attempt: attempt, session: session}
		})

	case sessionEstablished:
		if !m.current(ev.attempt, state, Verifying) {
			return
		}
		if err := m.sessions.Save(ev.session); err != nil {
			m.fail(ctx, fmt.Errorf("failed to store session: %w", err))
			return
		}
		m.transition(ctx, Authenticated)

	case stepFailed:
		if ev.attempt != m.attempt {
			return
		}
		switch state {
		case Connecting:
			// nothing is connected yet, so there is nothing to tear down
			m.setErr(ev.err)
			m.transition(ctx, Idle)
		case AwaitingSignature, Verifying:
			m.fail(ctx, ev.err)
		}

	case recoveryDone:
		if !m.current(ev.attempt, state, ErrorRecovery) {
			return
		}
		m.transition(ctx, Idle)
	}
}

// current reports whether a side-effect result still belongs to the live attempt.
func (m *Machine) current(attempt uint64, state, want State) bool {
	if attempt != m.attempt || state != want {
		m.log.Debug("stale result dropped",
			zap.Uint64("attempt", attempt),
			zap.Uint64("current", m.attempt),
			zap.Stringer("state", state),
		)
		return false
	}
	return true
}

func (m *Machine) fail(ctx context.Context, err error) {
	m.log.Info("login attempt failed", zap.Stringer("state", m.State()), zap.Error(err))
	m.setErr(err)
	m.transition(ctx, ErrorRecovery)
}

// transition moves to the next state and runs its entry action.
func (m *Machine) transition(ctx context.Context, to State) {
	m.mu.Lock()
	from := m.state
	m.state = to
	m.mu.Unlock()

	m.log.Debug("login state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	if m.onTransition != nil {
		m.onTransition(from, to)
	}

	attempt := m.attempt
	switch to {
	case Connecting:
		m.goDo(ctx, func(ctx context.Context) any {
			address, err := m.wallet.Connect(ctx)
			if err != nil {
				return stepFailed{attempt: attempt, err: err}
			}
			return walletConnected{attempt: attempt, address: address}
		})

	case Connected:
		// Entered once per connection, so the challenge is requested at most once.
		if _, ok := m.sessions.Load(); ok {
			return
		}
		message := core.NewChallenge(m.address, m.now()).Message()
		m.transition(ctx, AwaitingSignature)
		m.goDo(ctx, func(ctx context.Context) any {
			signed, err := m.wallet.SignMessage(ctx, []byte(message))
			if err != nil {
				return stepFailed{attempt: attempt, err: err}
			}
			return walletSigned{attempt: attempt, message: message, signed: signed}
		})

	case Authenticated:
		m.nav.Navigate(ProtectedPath)

	case ErrorRecovery:
		m.address = ""
		m.goDo(ctx, func(ctx context.Context) any {
			if err := m.wallet.Disconnect(ctx); err != nil {
				m.log.Warn("wallet disconnect failed", zap.Error(err))
			}
			return recoveryDone{attempt: attempt}
		})
	}
}

// goDo runs fn off the loop and feeds its result back as an event.
func (m *Machine) goDo(ctx context.Context, fn func(ctx context.Context) any) {
	go func() {
		ev := fn(ctx)
		if ev == nil {
			return
		}
		select {
		case m.events <- ev:
		case <-ctx.Done():
		}
	}()
}

func (m *Machine) setErr(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}
