package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/actadigital/registry/handlers"
	"github.com/actadigital/registry/internal/vote"
	"github.com/actadigital/registry/internal/vote/service"
)

func RegisterVoteRoutes(r gin.IRouter, svc service.Service) {
	r.POST("/api/votes", func(c *gin.Context) {
		var req struct {
			Hash string `json:"hash"`
			Vote string `json:"vote"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		choice, err := vote.ParseChoice(req.Vote)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		if err := svc.CastVote(c.Request.Context(), req.Hash, choice); err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"hash": req.Hash, "vote": choice})
	})

	// ?hash= narrows the tally to one fingerprint
	r.GET("/api/votes/tally", func(c *gin.Context) {
		var (
			t   vote.Tally
			err error
		)
		if fp, ok := c.GetQuery("hash"); ok {
			t, err = svc.TallyFor(c.Request.Context(), fp)
		} else {
			t, err = svc.Tally(c.Request.Context())
		}
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})
}
