// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionTTL is how long an idle session is kept.
const SessionTTL = 2 * time.Hour

// Server exposes the locator over HTTP.
type Server struct {
	centers   []*Center
	facets    Facets
	resolver  *Resolver
	clusterer Clusterer
	sessions  *Sessions
}

// NewServer creates a server over a loaded dataset. resolver may be nil, in
// which case zip parameters and postal searches never resolve.
func NewServer(centers []*Center, resolver *Resolver) *Server {
	return &Server{
		centers:   centers,
		facets:    CollectFacets(centers),
		resolver:  resolver,
		clusterer: DefaultClusterer,
		sessions:  NewSessions(SessionTTL),
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.GET("/health", s.health)
	api.GET("/centers", s.listCenters)
	api.GET("/clusters", s.listClusters)
	api.GET("/clusters.geojson", s.clustersGeoJSON)
	api.GET("/facets", s.getFacets)
	api.GET("/geocode", s.geocode)

	api.POST("/sessions", s.createSession)
	api.GET("/sessions/:id", s.getSession)
	api.PUT("/sessions/:id/criteria", s.setSessionCriteria)
	api.PUT("/sessions/:id/zoom", s.setSessionZoom)
	api.POST("/sessions/:id/postal", s.searchSessionPostal)
	api.DELETE("/sessions/:id/postal", s.clearSessionPostal)
	api.POST("/sessions/:id/click", s.clickSessionCluster)

	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "centers": len(s.centers)})
}

// queryList accepts both repeated and comma separated values.
func queryList(ctx *gin.Context, name string) []string {
	var out []string

	for _, raw := range ctx.QueryArray(name) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}

	return out
}

func (s *Server) criteriaFromQuery(ctx *gin.Context) (Criteria, error) {
	c := Criteria{
		Areas:         queryList(ctx, "area"),
		Manufacturers: queryList(ctx, "manufacturer"),
		Products:      queryList(ctx, "product"),
		Defaults: Selection{
			Areas:         queryList(ctx, "default_area"),
			Manufacturers: queryList(ctx, "default_manufacturer"),
			Products:      queryList(ctx, "default_product"),
		},
		State: ctx.Query("state"),
		City:  ctx.Query("city"),
		Query: ctx.Query("q"),
	}

	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c, fmt.Errorf("invalid limit %q", raw)
		}

		c.Limit = limit
	}

	if zip := strings.TrimSpace(ctx.Query("zip")); zip != "" && s.resolver != nil {
		if p, ok := s.resolver.Resolve(ctx.Request.Context(), zip); ok {
			c.Reference = &p
		}
	}

	return c, nil
}

// validZoom rejects negative and non-finite zoom levels; JSON can't carry
// NaN or infinities back to the client.
func validZoom(zoom float64) bool {
	return zoom >= 0 && !math.IsInf(zoom, 0)
}

func zoomFromQuery(ctx *gin.Context) (float64, error) {
	raw := ctx.Query("zoom")
	if raw == "" {
		return DefaultZoom, nil
	}

	zoom, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validZoom(zoom) {
		return 0, fmt.Errorf("invalid zoom %q", raw)
	}

	return zoom, nil
}

func (s *Server) listCenters(ctx *gin.Context) {
	c, err := s.criteriaFromQuery(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	results, fellBack := filterCenters(s.centers, c)

	ctx.JSON(http.StatusOK, gin.H{
		"results":            results,
		"total":              len(results),
		"location_fallback":  fellBack,
		"sorted_by_distance": c.Reference != nil,
	})
}

func (s *Server) locateFromQuery(ctx *gin.Context) (View, bool) {
	c, err := s.criteriaFromQuery(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return View{}, false
	}

	zoom, err := zoomFromQuery(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return View{}, false
	}

	return s.clusterer.Locate(s.centers, c, zoom), true
}

func (s *Server) listClusters(ctx *gin.Context) {
	v, ok := s.locateFromQuery(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"zoom":              v.Zoom,
		"clusters":          v.Clusters,
		"total":             len(v.Results),
		"location_fallback": v.Fallback,
	})
}

func (s *Server) clustersGeoJSON(ctx *gin.Context) {
	v, ok := s.locateFromQuery(ctx)
	if !ok {
		return
	}

	data, err := ClustersToGeoJSON(v.Clusters).MarshalJSON()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode geojson"})

		return
	}

	ctx.Data(http.StatusOK, "application/geo+json", data)
}

func (s *Server) getFacets(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.facets)
}

func (s *Server) geocode(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	if q == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})

		return
	}

	if s.resolver == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "geocoding is not configured"})

		return
	}

	res, err := s.resolver.Lookup(ctx.Request.Context(), q)

	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, res)
	case IsNotFoundError(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case IsUnauthorizedError(err):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case IsRateLimitError(err), IsQuotaExceededError(err):
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

type sessionResponse struct {
	ID       string    `json:"id"`
	Criteria Criteria  `json:"criteria"`
	Postal   string    `json:"postal,omitempty"`
	Selected *Center   `json:"selected,omitempty"`
	View     View      `json:"view"`
	Viewport *Viewport `json:"viewport,omitempty"`
	Outcome  string    `json:"postal_outcome,omitempty"`
}

func newSessionResponse(sess *Session) sessionResponse {
	return sessionResponse{
		ID:       sess.ID,
		Criteria: sess.Criteria(),
		Postal:   sess.Postal(),
		Selected: sess.Selected(),
		View:     sess.View(),
	}
}

func (s *Server) lookupSession(ctx *gin.Context) (*Session, bool) {
	sess, err := s.sessions.Get(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

		return nil, false
	}

	return sess, true
}

func (s *Server) createSession(ctx *gin.Context) {
	var resolver PointResolver
	if s.resolver != nil {
		resolver = s.resolver
	}

	sess := NewSession(s.centers, resolver, s.clusterer)
	s.sessions.Add(sess)

	ctx.JSON(http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) getSession(ctx *gin.Context) {
	sess, ok := s.lookupSession(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (s *Server) setSessionCriteria(ctx *gin.Context) {
	sess, ok := s.lookupSession(ctx)
	if !ok {
		return
	}

	var c Criteria
	if err := ctx.ShouldBindJSON(&c); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if c.Limit < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit can't be negative"})

		return
	}

	sess.SetCriteria(c)
	ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (s *Server) setSessionZoom(ctx *gin.Context) {
	sess, ok := s.lookupSession(ctx)
	if !ok {
		return
	}

	var req struct {
		Zoom *float64 `json:"zoom"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil || req.Zoom == nil || !validZoom(*req.Zoom) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "zoom must be a non-negative number"})

		return
	}

	sess.SetZoom(*req.Zoom)
	ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (s *Server) searchSessionPostal(ctx *gin.Context) {
	sess, ok := s.lookupSession(ctx)
	if !ok {
		return
	}

	var req struct {
		Postal string `json:"postal"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Postal) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "postal is required"})

		return
	}

	_, outcome := sess.SearchPostal(ctx.Request.Context(), req.Postal)

	resp := newSessionResponse(sess)
	resp.Outcome = string(outcome)
	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) clearSessionPostal(ctx *gin.Context) {
	sess, ok := s.lookupSession(ctx)
	if !ok {
		return
	}

	sess.ClearPostal()
	ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (s *Server) clickSessionCluster(ctx *gin.Context) {
	sess, ok := s.lookupSession(ctx)
	if !ok {
		return
	}

	var req struct {
		Index *int `json:"index"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil || req.Index == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "index is required"})

		return
	}

	vp, err := sess.Click(*req.Index)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

		return
	}

	resp := newSessionResponse(sess)
	resp.Viewport = &vp
	ctx.JSON(http.StatusOK, resp)
}
