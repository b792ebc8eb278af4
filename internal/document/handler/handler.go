package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/actadigital/registry/handlers"
	"github.com/actadigital/registry/internal/document"
	"github.com/actadigital/registry/internal/document/service"
)

func recordView(r document.Record) gin.H {
	return gin.H{
		"owner":           r.Owner,
		"hash":            r.Fingerprint,
		"content_preview": r.ContentPreview,
		"time":            document.EpochSeconds(r.RegisteredAt),
		"registered_at":   r.RegisteredAt.Format(time.RFC3339Nano),
	}
}

func recordViews(recs []document.Record) []gin.H {
	out := make([]gin.H, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordView(r))
	}
	return out
}

func RegisterDocumentRoutes(r gin.IRouter, svc service.Service) {
	r.POST("/api/fingerprints", func(c *gin.Context) {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"hash": svc.Fingerprint(req.Content)})
	})

	// already_existed reflects the ledger before this registration; a
	// duplicate is flagged, never rejected
	r.POST("/api/documents", func(c *gin.Context) {
		var req struct {
			Owner   string `json:"owner"`
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := c.Request.Context()
		existed := false
		if req.Content != "" {
			ok, err := svc.Exists(ctx, req.Content)
			if err != nil {
				handlers.RespondError(c, err)
				return
			}
			existed = ok
		}
		rec, err := svc.Register(ctx, req.Owner, req.Content)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"record": recordView(rec), "already_existed": existed})
	})

	r.GET("/api/documents", func(c *gin.Context) {
		hist, err := svc.History(c.Request.Context())
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, recordViews(hist))
	})

	r.GET("/api/documents/:hash", func(c *gin.Context) {
		recs, err := svc.Lookup(c.Request.Context(), c.Param("hash"))
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		if len(recs) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, recordViews(recs))
	})

	r.POST("/api/documents/exists", func(c *gin.Context) {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ok, err := svc.Exists(c.Request.Context(), req.Content)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"exists": ok, "hash": svc.Fingerprint(req.Content)})
	})

	r.POST("/api/documents/verify", func(c *gin.Context) {
		var req struct {
			Content string `json:"content"`
			Hash    string `json:"hash"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"match":         svc.VerifyMatch(req.Content, req.Hash),
			"computed_hash": svc.Fingerprint(req.Content),
		})
	})
}
