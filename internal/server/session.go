package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"rrtstar-planner/internal/rrtstar"
)

// session is one long-running plan. The planner is not safe for concurrent
// use; every access holds mu.
type session struct {
	id      uuid.UUID
	created time.Time

	mu      sync.Mutex
	planner *rrtstar.Planner
}

func (s *Server) addSession(p *rrtstar.Planner) (*session, error) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	sess := &session{id: uuid.New(), created: time.Now().UTC(), planner: p}
	s.sessions[sess.id] = sess
	s.metrics.sessions.Set(float64(len(s.sessions)))
	return sess, nil
}

func (s *Server) getSession(raw string) (*session, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return sess, nil
}

func (s *Server) removeSession(raw string) error {
	id, err := uuid.Parse(raw)
	if err != nil {
		return ErrPlanNotFound
	}

	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrPlanNotFound
	}
	delete(s.sessions, id)
	s.metrics.sessions.Set(float64(len(s.sessions)))
	return nil
}

func (s *Server) sessionCount() int {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	return len(s.sessions)
}
