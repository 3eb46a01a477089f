// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/geniehub/locator/spatial"
	"github.com/google/uuid"
)

// DefaultZoom frames the contiguous US.
const DefaultZoom = 4

// PointResolver resolves postal input to a reference point.
type PointResolver interface {
	Resolve(ctx context.Context, text string) (spatial.Point, bool)
}

// PostalOutcome reports what a postal search did to the session.
type PostalOutcome string

const (
	// PostalApplied means the reference point was set.
	PostalApplied PostalOutcome = "applied"
	// PostalNotFound means the input could not be resolved and the reference
	// point was cleared.
	PostalNotFound PostalOutcome = "not_found"
	// PostalSuperseded means a newer search was issued before this one
	// returned; its answer was dropped.
	PostalSuperseded PostalOutcome = "superseded"
)

// Session holds the mutable map state of one user: criteria, zoom, reference
// point and selection. Every mutation reruns the pipeline before returning.
type Session struct {
	ID string

	clusterer Clusterer
	centers   []*Center
	resolver  PointResolver

	mu        sync.Mutex
	criteria  Criteria
	zoom      float64
	view      View
	selected  *Center
	postal    string
	latest    uuid.UUID
	touchedAt time.Time
}

// NewSession creates a session over centers. resolver may be nil, in which
// case postal searches never resolve.
func NewSession(centers []*Center, resolver PointResolver, clusterer Clusterer) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		clusterer: clusterer,
		centers:   centers,
		resolver:  resolver,
		zoom:      DefaultZoom,
		touchedAt: time.Now(),
	}

	s.recompute()

	return s
}

// recompute must be called with mu held, or before s is shared.
func (s *Session) recompute() {
	s.view = s.clusterer.Locate(s.centers, s.criteria, s.zoom)
	s.touchedAt = time.Now()
}

// View returns the current pipeline output.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view
}

// Criteria returns the criteria in effect, including the reference point.
func (s *Session) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.criteria
}

// Zoom returns the current zoom.
func (s *Session) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.zoom
}

// Selected returns the selected center, if any.
func (s *Session) Selected() *Center {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selected
}

// Postal returns the last postal input that was applied.
func (s *Session) Postal() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.postal
}

// SetCriteria replaces the attribute and location criteria. The reference
// point belongs to postal search and is kept.
func (s *Session) SetCriteria(c Criteria) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.Reference = s.criteria.Reference
	s.criteria = c
	s.selected = nil
	s.recompute()

	return s.view
}

// SetZoom reclusters at zoom.
func (s *Session) SetZoom(zoom float64) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.zoom = zoom
	s.recompute()

	return s.view
}

// Click applies a click on the cluster at index in the current view and
// returns the resulting viewport.
func (s *Session) Click(index int) (Viewport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.view.Clusters) {
		return Viewport{}, ErrClusterNotFound
	}

	vp := Click(s.view.Clusters[index], s.zoom)

	s.selected = vp.Selected
	if vp.Zoom != s.zoom {
		s.zoom = vp.Zoom
		s.recompute()
	}

	return vp, nil
}

// SearchPostal geocodes text and, unless a newer search was issued in the
// meantime, uses the answer as the reference point. The geocoder runs
// without the session lock held.
func (s *Session) SearchPostal(ctx context.Context, text string) (View, PostalOutcome) {
	token := uuid.New()

	s.mu.Lock()
	s.latest = token
	resolver := s.resolver
	s.mu.Unlock()

	var (
		p  spatial.Point
		ok bool
	)

	if resolver != nil {
		p, ok = resolver.Resolve(ctx, text)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest != token {
		log.Printf("Dropping stale geocode for %q in session %s", text, s.ID)

		return s.view, PostalSuperseded
	}

	outcome := PostalNotFound
	s.criteria.Reference = nil
	s.postal = ""

	if ok {
		s.criteria.Reference = &p
		s.postal = text
		outcome = PostalApplied
	}

	s.recompute()

	return s.view, outcome
}

// ClearPostal drops the reference point.
func (s *Session) ClearPostal() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = uuid.New()
	s.criteria.Reference = nil
	s.postal = ""
	s.recompute()

	return s.view
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchedAt = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.touchedAt
}

// Sessions is an in-memory registry of sessions with idle expiry.
type Sessions struct {
	ttl time.Duration

	mu   sync.Mutex
	byID map[string]*Session
}

// NewSessions creates a registry; sessions idle longer than ttl are dropped
// on the next Add. A zero ttl keeps them forever.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, byID: make(map[string]*Session)}
}

// Add registers s.
func (r *Sessions) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ttl > 0 {
		cutoff := time.Now().Add(-r.ttl)

		for id, old := range r.byID {
			if old.idleSince().Before(cutoff) {
				delete(r.byID, id)
			}
		}
	}

	r.byID[s.ID] = s
}

// Get returns the session with id or ErrSessionNotFound. A session idle for
// longer than the TTL is dropped; any other is marked as active.
func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	if r.ttl > 0 && s.idleSince().Before(time.Now().Add(-r.ttl)) {
		delete(r.byID, id)

		return nil, ErrSessionNotFound
	}

	s.touch()

	return s, nil
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.byID)
}
