package api

import (
	"fmt"
	"net/http"

	"github.com/gopherriscv/rv32i-emulator/vm"
)

// handleCreateSession handles POST /sessions.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create session: %v", err))
		return
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
		State:     toStateView(session.Proc),
	})
}

// handleDestroySession handles DELETE /sessions/{id}.
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStep handles POST /sessions/{id}/step: exactly one Step call,
// matching the core's instruction-atomicity guarantee (spec 4.3).
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	if session.Proc.State != vm.StateRunning {
		writeError(w, http.StatusConflict, fmt.Sprintf("processor is not running (state=%s)", session.Proc.State))
		return
	}
	if err := session.Proc.Step(); err != nil {
		debugLog("session %s: step error: %v", sessionID, err)
	}

	writeJSON(w, http.StatusOK, StepResponse{State: toStateView(session.Proc)})
}

// handleRun handles POST /sessions/{id}/run: steps until the processor
// leaves StateRunning, or for at most req.Steps instructions if given.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req RunRequest
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	before := session.Proc.Steps
	if req.Steps > 0 {
		if err := session.Proc.RunFor(req.Steps); err != nil {
			debugLog("session %s: run error: %v", sessionID, err)
		}
	} else {
		if err := session.Proc.Run(); err != nil {
			debugLog("session %s: run error: %v", sessionID, err)
		}
	}

	writeJSON(w, http.StatusOK, RunResponse{
		State:         toStateView(session.Proc),
		StepsExecuted: session.Proc.Steps - before,
	})
}

// handleState handles GET /sessions/{id} and /sessions/{id}/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	writeJSON(w, http.StatusOK, toStateView(session.Proc))
}

func toStateView(p *vm.Processor) StateView {
	view := StateView{
		PC:    p.CPU.PC,
		State: p.State.String(),
		Steps: p.Steps,
	}
	for i := 0; i < vm.RegisterCount; i++ {
		view.Registers[i] = p.CPU.GetRegister(i)
	}
	if p.LastError != nil {
		view.Error = p.LastError.Error()
	}
	return view
}
