package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cinelog/internal/api/dto"
	"cinelog/internal/api/models"
	"cinelog/internal/api/service"
)

type FriendHandler struct {
	svc service.FriendService
}

func NewFriendHandler(svc service.FriendService) *FriendHandler {
	return &FriendHandler{svc: svc}
}

func (h *FriendHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.SearchUsers)
	rg.POST("/requests", h.SendRequest)
	rg.GET("", h.List)
	rg.GET("/accepted", h.ListAccepted)
	rg.PUT("/:id/accept", h.Accept)
	rg.PUT("/:id/respond", h.Respond)
	rg.DELETE("/:id", h.Remove)
	rg.GET("/:id/movies", h.FriendMovies)
	rg.GET("/:id/tvshows", h.FriendTVShows)
}

// SearchUsers finds users by email so a friend request can be addressed.
func (h *FriendHandler) SearchUsers(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	matches, err := h.svc.SearchUsersByEmail(ctx, userID.(string), c.Query("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": matches})
}

func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	friendship, err := h.svc.SendFriendRequest(ctx, userID.(string), req.TargetUserID)
	if err != nil {
		switch err {
		case service.ErrDuplicateRequest:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case service.ErrSelfRequest, service.ErrRequestsDisabled:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, friendship)
}

func (h *FriendHandler) List(c *gin.Context) {
	h.listEdges(c, false)
}

func (h *FriendHandler) ListAccepted(c *gin.Context) {
	h.listEdges(c, true)
}

func (h *FriendHandler) listEdges(c *gin.Context, acceptedOnly bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var (
		edges []service.FriendEdge
		err   error
	)
	if acceptedOnly {
		edges, err = h.svc.GetAcceptedFriends(ctx, userID.(string))
	} else {
		edges, err = h.svc.GetFriends(ctx, userID.(string))
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": edges, "total": len(edges)})
}

func (h *FriendHandler) Accept(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friendship id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.AcceptFriendRequest(ctx, userID.(string), id); err != nil {
		h.writeFriendshipError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FriendHandler) Respond(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friendship id"})
		return
	}

	var req dto.RespondToRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.svc.RespondToRequest(ctx, userID.(string), id, *req.Accept)
	if err != nil {
		h.writeFriendshipError(c, err)
		return
	}

	if *req.Accept {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, dto.RemoveFriendResponse{DeletedNotificationIDs: deleted})
}

func (h *FriendHandler) Remove(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friendship id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.svc.RemoveFriend(ctx, userID.(string), id)
	if err != nil {
		h.writeFriendshipError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RemoveFriendResponse{DeletedNotificationIDs: deleted})
}

func (h *FriendHandler) FriendMovies(c *gin.Context) {
	h.friendCollection(c, models.KindMovie)
}

func (h *FriendHandler) FriendTVShows(c *gin.Context) {
	h.friendCollection(c, models.KindTV)
}

func (h *FriendHandler) friendCollection(c *gin.Context, kind models.MediaKind) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	friendID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.svc.GetFriendCollection(ctx, userID.(string), friendID, kind)
	if err != nil {
		switch err {
		case service.ErrNotFriends, service.ErrActivityHidden:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *FriendHandler) writeFriendshipError(c *gin.Context, err error) {
	switch err {
	case service.ErrFriendshipNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case service.ErrNotParticipant, service.ErrNotRequestTarget:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case service.ErrNotPending:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
