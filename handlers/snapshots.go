package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/actadigital/registry/internal/ledger"
	"github.com/actadigital/registry/internal/storage"
)

// RegisterSnapshotRoutes exposes POST /api/admin/snapshots, which uploads a
// copy of every given log.
func RegisterSnapshotRoutes(r gin.IRouter, archiver *storage.SnapshotArchiver, logs ...ledger.Log) {
	r.POST("/api/admin/snapshots", func(c *gin.Context) {
		out := make([]storage.Snapshot, 0, len(logs))
		for _, l := range logs {
			snap, err := archiver.Snapshot(c.Request.Context(), l)
			if err != nil {
				RespondError(c, err)
				return
			}
			out = append(out, snap)
		}
		c.JSON(http.StatusCreated, gin.H{"snapshots": out})
	})
}
