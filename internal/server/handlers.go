package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rrtstar-planner/internal/geometry"
	"rrtstar-planner/internal/obstacle"
	"rrtstar-planner/internal/rrtstar"
)

// RouteRequest asks for a complete plan in one call
type RouteRequest struct {
	Start      *geometry.Point    `json:"start" binding:"required"`
	End        *geometry.Point    `json:"end" binding:"required"`
	NoFlyZones []obstacle.Polygon `json:"noFlyZones,omitempty"` // Optional: replaces the server map

	// Optional planner settings, merged over the server defaults
	Config json.RawMessage `json:"config,omitempty"`
}

// RouteResponse is the outcome of a one-shot plan
type RouteResponse struct {
	Path       []geometry.Point `json:"path"`
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Cost       float64          `json:"cost,omitempty"`
	Iterations int              `json:"iterations"`
	Nodes      int              `json:"nodes"`
}

// CreatePlanRequest opens a planning session
type CreatePlanRequest struct {
	Start      *geometry.Point    `json:"start" binding:"required"`
	Goal       *geometry.Point    `json:"goal" binding:"required"`
	NoFlyZones []obstacle.Polygon `json:"noFlyZones,omitempty"`
	Config     json.RawMessage    `json:"config,omitempty"`
}

// StepRequest advances a session by a number of iterations
type StepRequest struct {
	Iterations int `json:"iterations" binding:"required,gt=0"`
}

// PlanStatus reports the state of a session
type PlanStatus struct {
	ID            uuid.UUID        `json:"id"`
	Created       time.Time        `json:"created"`
	Iteration     int              `json:"iteration"`
	Nodes         int              `json:"nodes"`
	Found         bool             `json:"found"`
	Done          bool             `json:"done"`
	Cost          *float64         `json:"cost,omitempty"`
	FirstSolution *int             `json:"firstSolution,omitempty"`
	Path          []geometry.Point `json:"path,omitempty"`
}

// TreeResponse carries the session tree for drawing
type TreeResponse struct {
	ID uuid.UUID `json:"id"`
	rrtstar.Snapshot
	Lines [][2]geometry.Point `json:"lines"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func abort(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// GET /health - Health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"sessions": s.sessionCount(),
		"hasMap":   s.field != nil,
	})
}

// POST /route - Plan from start to end and return the best path
func (s *Server) handleRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	planner, err := s.newPlanner(*req.Start, *req.End, req.NoFlyZones, req.Config)
	if err != nil {
		abort(c, http.StatusBadRequest, "INVALID_CONFIG", err)
		return
	}

	s.logger.Infow("route request",
		"start", req.Start,
		"end", req.End,
		"no_fly_zones", len(req.NoFlyZones),
	)

	res, err := planner.Run(c.Request.Context())
	switch {
	case errors.Is(err, rrtstar.ErrNoPath):
		c.JSON(http.StatusOK, RouteResponse{
			Success:    false,
			Message:    "No path found within the iteration budget",
			Iterations: res.Iterations,
			Nodes:      res.Nodes,
		})
		return
	case err != nil:
		abort(c, http.StatusServiceUnavailable, "CANCELLED", err)
		return
	}

	c.JSON(http.StatusOK, RouteResponse{
		Path:       res.Path,
		Success:    true,
		Cost:       res.Cost,
		Iterations: res.Iterations,
		Nodes:      res.Nodes,
	})
}

// POST /plans - Open a planning session
func (s *Server) handleCreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	planner, err := s.newPlanner(*req.Start, *req.Goal, req.NoFlyZones, req.Config)
	if err != nil {
		abort(c, http.StatusBadRequest, "INVALID_CONFIG", err)
		return
	}

	sess, err := s.addSession(planner)
	if err != nil {
		abort(c, http.StatusTooManyRequests, "TOO_MANY_SESSIONS", err)
		return
	}

	s.logger.Infow("planning session created", "id", sess.id, "start", req.Start, "goal", req.Goal)
	c.JSON(http.StatusCreated, planStatus(sess))
}

// GET /plans/:id - Session status and best path
func (s *Server) handleGetPlan(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, planStatus(sess))
}

// POST /plans/:id/step - Advance a session
func (s *Server) handleStepPlan(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}

	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	if req.Iterations > s.cfg.MaxStepIterations {
		abort(c, http.StatusBadRequest, "INVALID_REQUEST",
			fmt.Errorf("iterations %d exceeds the limit of %d", req.Iterations, s.cfg.MaxStepIterations))
		return
	}

	sess.mu.Lock()
	for i := 0; i < req.Iterations; i++ {
		if !sess.planner.Step() {
			break
		}
	}
	sess.mu.Unlock()

	c.JSON(http.StatusOK, planStatus(sess))
}

// POST /plans/:id/run - Run a session until it stops
func (s *Server) handleRunPlan(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}

	sess.mu.Lock()
	_, err := sess.planner.Run(c.Request.Context())
	sess.mu.Unlock()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		abort(c, http.StatusServiceUnavailable, "CANCELLED", err)
		return
	}
	// ErrNoPath is reported through the status
	c.JSON(http.StatusOK, planStatus(sess))
}

// GET /plans/:id/tree - Tree edges for visualization
func (s *Server) handleGetTree(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}

	sess.mu.Lock()
	snapshot := sess.planner.Snapshot()
	sess.mu.Unlock()

	c.JSON(http.StatusOK, TreeResponse{
		ID:       sess.id,
		Snapshot: snapshot,
		Lines:    snapshot.Lines(),
	})
}

// DELETE /plans/:id - Drop a session
func (s *Server) handleDeletePlan(c *gin.Context) {
	if err := s.removeSession(c.Param("id")); err != nil {
		abort(c, http.StatusNotFound, "NOT_FOUND", err)
		return
	}
	s.logger.Infow("planning session deleted", "id", c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) lookup(c *gin.Context) (*session, bool) {
	sess, err := s.getSession(c.Param("id"))
	if err != nil {
		abort(c, http.StatusNotFound, "NOT_FOUND", err)
		return nil, false
	}
	return sess, true
}

// newPlanner merges the request settings over the server defaults and picks
// the obstacle field: request polygons, else the server map, else free space
func (s *Server) newPlanner(start, goal geometry.Point, zones []obstacle.Polygon, raw json.RawMessage) (*rrtstar.Planner, error) {
	cfg := s.plannerCfg
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("invalid planner config: %w", err)
		}
	}
	// the iteration budget bounds both run time and tree size
	if cfg.MaxIterations > s.cfg.MaxPlanIterations {
		return nil, fmt.Errorf("%w: maxIterations %d exceeds the limit of %d",
			ErrBudgetTooLarge, cfg.MaxIterations, s.cfg.MaxPlanIterations)
	}

	field := s.field
	if len(zones) > 0 {
		field = obstacle.NewPolygonFieldFromOutlines(zones)
	}

	return rrtstar.New(cfg, start, goal, field,
		rrtstar.WithLogger(s.logger),
		rrtstar.WithMetrics(s.plannerMetrics),
	)
}

func planStatus(sess *session) PlanStatus {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	p := sess.planner
	st := PlanStatus{
		ID:        sess.id,
		Created:   sess.created,
		Iteration: p.Iteration(),
		Nodes:     p.Len(),
		Found:     p.Found(),
		Done:      p.Done(),
	}
	if first, ok := p.FirstSolution(); ok {
		cost := p.BestCost()
		st.Cost = &cost
		st.FirstSolution = &first
		st.Path = p.Path()
	}
	return st
}
