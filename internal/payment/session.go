// Package payment drives the simulated UPI confirmation flow. A session walks
// selection → qr_scan/app_redirected → verifying → done, with one
// controller-owned timer that is cancelled and replaced on every state entry.
// Sessions are ephemeral: they live in memory and dismissal moves them to the
// terminal abandoned state without side effects.
package payment

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"
)

type State string

const (
	StateSelection     State = "selection"
	StateQRScan        State = "qr_scan"
	StateAppRedirected State = "app_redirected"
	StateVerifying     State = "verifying"
	StateDone          State = "done"
	StateAbandoned     State = "abandoned"
)

var (
	ErrBadTransition   = errors.New("event not valid in current state")
	ErrSessionNotFound = errors.New("payment session not found")
)

type Config struct {
	QRCountdown     time.Duration // countdown shown with the QR code
	VerifyCountdown time.Duration // fast-track countdown after app return
	PayeeVPA        string
	PayeeName       string
	Apps            []string // enabled wallet apps, shown on the selection screen
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.QRCountdown == 0 {
		out.QRCountdown = 45 * time.Second
	}
	if out.VerifyCountdown == 0 {
		out.VerifyCountdown = 5 * time.Second
	}
	if out.Apps == nil {
		out.Apps = []string{"gpay", "phonepe", "paytm", "other"}
	}
	return out
}

// SubmitFunc persists the order once verification completes; it receives the
// unique payable amount as the verified amount and returns the order ID.
type SubmitFunc func(verifiedAmount float64) (orderID string, err error)

type Session struct {
	ID             string
	BaseTotal      float64
	SurchargePaise int
	PayableAmount  float64

	mgr    *Manager
	submit SubmitFunc

	mu           sync.Mutex
	state        State
	channel      string
	timer        *time.Timer
	deadline     time.Time
	visibleFired bool
	completing   bool
	orderID      string
	failure      string
}

// Status is the JSON snapshot handed to the client on every poll.
type Status struct {
	ID               string  `json:"id"`
	State            State   `json:"state"`
	PayableAmount    float64 `json:"payable_amount"`
	Channel          string  `json:"channel,omitempty"`
	RemainingSeconds int     `json:"remaining_seconds"`
	QRPayload        string  `json:"qr_payload,omitempty"`
	Apps             []string `json:"apps"`
	OrderID          string  `json:"order_id,omitempty"`
	Failure          string  `json:"failure,omitempty"`
}

type Manager struct {
	cfg   Config
	alloc *AmountAllocator

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:      cfg.withDefaults(),
		alloc:    NewAmountAllocator(),
		sessions: make(map[string]*Session),
	}
}

// Create opens a session for an online payment. The surcharge is allocated up
// front and stays fixed for the session's lifetime; allocation failure aborts
// creation and no session exists afterwards.
func (m *Manager) Create(baseTotal float64, submit SubmitFunc) (*Session, error) {
	paise, err := m.alloc.Allocate()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:             newSessionID(),
		BaseTotal:      baseTotal,
		SurchargePaise: paise,
		PayableAmount:  math.Round(baseTotal*100+float64(paise)) / 100,
		mgr:            m,
		submit:         submit,
		state:          StateSelection,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Dismiss abandons a session: the timer is stopped, the surcharge released,
// and nothing is persisted. The abandoned state is what keeps an
// already-fired timer goroutine from walking the session forward afterwards.
// Dismissing a finished session, or one whose verification is mid-submit, is
// rejected.
func (m *Manager) Dismiss(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == StateDone || s.state == StateAbandoned || s.completing {
		s.mu.Unlock()
		return ErrBadTransition
	}
	s.stopTimerLocked()
	s.state = StateAbandoned
	s.mu.Unlock()

	m.remove(s)
	return nil
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.ID)
	m.mu.Unlock()
	m.alloc.Release(s.SurchargePaise)
}

func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "sess-" + hex.EncodeToString([]byte(time.Now().String()))[:16]
	}
	return hex.EncodeToString(b)
}

// ChooseQR moves selection → qr_scan and arms the QR countdown.
func (s *Session) ChooseQR() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSelection {
		return ErrBadTransition
	}
	s.channel = "qr"
	s.enterLocked(StateQRScan, s.mgr.cfg.QRCountdown)
	return nil
}

// BackToSelection is the manual return from the QR screen. The QR countdown
// is discarded.
func (s *Session) BackToSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateQRScan {
		return ErrBadTransition
	}
	s.channel = ""
	s.enterLocked(StateSelection, 0)
	return nil
}

// ChooseApp hands off to the named wallet app and returns the deep link. No
// timer runs while the external app is frontmost; the only way forward is
// PageVisible.
func (s *Session) ChooseApp(app string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSelection {
		return "", ErrBadTransition
	}
	if !s.mgr.appEnabled(app) {
		return "", errors.New("payment app not enabled: " + app)
	}
	s.channel = app
	s.enterLocked(StateAppRedirected, 0)
	note := "Order payment " + s.ID[:8]
	return BuildUPILink(s.mgr.cfg.PayeeVPA, s.mgr.cfg.PayeeName, s.PayableAmount, note), nil
}

// PageVisible is the externally triggered transition: the hosting page became
// visible again after the wallet app handoff. Honoured once, and only in
// app_redirected.
func (s *Session) PageVisible() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAppRedirected || s.visibleFired {
		return ErrBadTransition
	}
	s.visibleFired = true
	s.enterLocked(StateVerifying, s.mgr.cfg.VerifyCountdown)
	return nil
}

// Status snapshots the session for the client.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		ID:            s.ID,
		State:         s.state,
		PayableAmount: s.PayableAmount,
		Channel:       s.channel,
		Apps:          s.mgr.cfg.Apps,
		OrderID:       s.orderID,
		Failure:       s.failure,
	}
	if s.timer != nil {
		if rem := time.Until(s.deadline); rem > 0 {
			st.RemainingSeconds = int(rem.Round(time.Second) / time.Second)
		}
	}
	if s.state == StateQRScan {
		st.QRPayload = BuildUPILink(s.mgr.cfg.PayeeVPA, s.mgr.cfg.PayeeName, s.PayableAmount, "Order payment "+s.ID[:8])
	}
	return st
}

// enterLocked replaces the session's single timer on every state change.
// countdown 0 means the new state has no timer.
func (s *Session) enterLocked(next State, countdown time.Duration) {
	s.stopTimerLocked()
	s.state = next
	if countdown > 0 {
		s.deadline = time.Now().Add(countdown)
		s.timer = time.AfterFunc(countdown, s.expire)
	}
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// expire handles countdown completion. QR expiry fast-tracks to verifying;
// verifying expiry is the simulated success: the verifier has no failure
// path, the unique amount becomes the verified amount and submission runs.
// A timer that fired before Dismiss stopped it arrives here with the session
// abandoned and falls through to the stale-timer case.
func (s *Session) expire() {
	s.mu.Lock()
	switch s.state {
	case StateQRScan:
		s.enterLocked(StateVerifying, s.mgr.cfg.VerifyCountdown)
		s.mu.Unlock()
		return
	case StateVerifying:
		s.timer = nil
		s.completing = true
		s.mu.Unlock()
		s.complete()
		return
	default:
		// A stale timer that lost the race with a state change.
		s.mu.Unlock()
	}
}

func (s *Session) complete() {
	orderID, err := s.submit(s.PayableAmount)

	s.mu.Lock()
	s.state = StateDone
	if err != nil {
		s.failure = "failed to place order"
		slog.Error("Order submission after payment verification failed", "session", s.ID, "error", err)
	} else {
		s.orderID = orderID
	}
	s.mu.Unlock()

	s.mgr.release(s)
}

// release frees the surcharge but keeps the finished session readable for a
// minute so the client can poll the terminal state.
func (m *Manager) release(s *Session) {
	m.alloc.Release(s.SurchargePaise)
	time.AfterFunc(time.Minute, func() {
		m.mu.Lock()
		delete(m.sessions, s.ID)
		m.mu.Unlock()
	})
}

// PayeeVPA exposes the configured payee identifier for order records.
func (m *Manager) PayeeVPA() string {
	return m.cfg.PayeeVPA
}

func (m *Manager) appEnabled(app string) bool {
	for _, a := range m.cfg.Apps {
		if a == app {
			return true
		}
	}
	return false
}
