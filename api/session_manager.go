package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopherriscv/rv32i-emulator/config"
	"github.com/gopherriscv/rv32i-emulator/vm"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when trying to create a session with an existing ID.
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session owns one vm.Processor exclusively for its lifetime. Mu serializes
// concurrent requests against the session: every handler that touches Proc
// holds the lock for the duration of the call.
type Session struct {
	ID        string
	Proc      *vm.Processor
	CreatedAt time.Time
	Mu        sync.Mutex
}

// SessionManager manages the set of active sessions. defaults holds the
// sizing fields used to fill in any zero-valued field of a create request;
// it is the config loaded by the hosting serve command, not a fresh
// DefaultConfig() per session.
type SessionManager struct {
	sessions map[string]*Session
	defaults *config.Config
	mu       sync.RWMutex
}

// NewSessionManager creates an empty session manager that falls back to
// defaults for any zero-valued sizing field on session creation.
func NewSessionManager(defaults *config.Config) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		defaults: defaults,
	}
}

// CreateSession builds a processor from req, falling back to sm.defaults
// for any zero-valued sizing field, and registers it under a freshly
// generated session ID.
func (sm *SessionManager) CreateSession(req SessionCreateRequest) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	memWords := req.MemoryWords
	if memWords == 0 {
		memWords = sm.defaults.Execution.MemoryWords
	}
	dataStart := req.DataStart
	if dataStart == 0 {
		dataStart = sm.defaults.Execution.DataStart
	}
	maxSteps := req.MaxSteps
	if maxSteps == 0 {
		maxSteps = sm.defaults.Execution.MaxSteps
	}

	mem := vm.NewMemory(memWords)
	for i, w := range req.Data {
		// dataStart and i both come from request-controlled fields (directly
		// or via slice length); reject anything that would wrap instead of
		// silently aliasing a different word.
		addr, err := vm.SafeIntToUint32((dataStart + i) * 4)
		if err != nil {
			return nil, fmt.Errorf("data word %d: %w", i, err)
		}
		if err := mem.WriteWord(addr, w); err != nil {
			return nil, err
		}
	}

	proc := vm.NewProcessor(vm.NewProgram(req.Program), mem)
	proc.MaxSteps = maxSteps

	session := &Session{
		ID:        id,
		Proc:      proc,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[id]; exists {
		return nil, ErrSessionAlreadyExists
	}
	sm.sessions[id] = session
	debugLog("session %s created: %d text words, %d data words, %d memory words", id, len(req.Program), len(req.Data), memWords)

	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[id]; !exists {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	return nil
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
