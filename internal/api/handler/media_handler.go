package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cinelog/internal/api/dto"
	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
	"cinelog/internal/api/service"
)

// MediaHandler serves one collection kind. The same handler type is mounted
// twice, under /movies and /tvshows.
type MediaHandler struct {
	svc  service.MediaService
	kind models.MediaKind
}

func NewMediaHandler(svc service.MediaService, kind models.MediaKind) *MediaHandler {
	return &MediaHandler{svc: svc, kind: kind}
}

func (h *MediaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Add)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *MediaHandler) Add(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.AddMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &models.MediaItem{
		Kind:          h.kind,
		CatalogID:     req.CatalogID,
		Title:         req.Title,
		Year:          req.Year,
		PosterPath:    req.PosterPath,
		Overview:      req.Overview,
		Watched:       req.Watched,
		Favorite:      req.Favorite,
		Watchlist:     req.Watchlist,
		Rating:        req.Rating,
		TotalEpisodes: req.TotalEpisodes,
	}
	if req.Watched {
		now := time.Now()
		item.WatchedAt = &now
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	created, err := h.svc.Add(ctx, userID.(string), item)
	if err != nil {
		switch err {
		case service.ErrAlreadyInCollection:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case service.ErrInvalidRating:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *MediaHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var filters repository.MediaFilters
	if v, ok := boolQuery(c, "watched"); ok {
		filters.Watched = &v
	}
	if v, ok := boolQuery(c, "favorite"); ok {
		filters.Favorite = &v
	}
	if v, ok := boolQuery(c, "watchlist"); ok {
		filters.Watchlist = &v
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.svc.List(ctx, userID.(string), h.kind, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *MediaHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.svc.Get(ctx, userID.(string), id)
	if err != nil {
		if err == service.ErrNotInCollection {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *MediaHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req dto.UpdateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.svc.Update(ctx, userID.(string), id, service.MediaUpdate{
		Watched:        req.Watched,
		Favorite:       req.Favorite,
		Watchlist:      req.Watchlist,
		Rating:         req.Rating,
		ClearRating:    req.ClearRating,
		WatchedAt:      req.WatchedAt,
		CurrentSeason:  req.CurrentSeason,
		CurrentEpisode: req.CurrentEpisode,
		TotalEpisodes:  req.TotalEpisodes,
	})
	if err != nil {
		switch err {
		case service.ErrNotInCollection:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrInvalidRating, service.ErrNotTVShow:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *MediaHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, userID.(string), id); err != nil {
		if err == service.ErrNotInCollection {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func boolQuery(c *gin.Context, name string) (bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
