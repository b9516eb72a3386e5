package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cinelog/internal/catalog"
)

// CatalogHandler proxies catalog search and detail lookups through the
// configured provider so API keys never reach the client.
type CatalogHandler struct {
	provider catalog.Provider
}

func NewCatalogHandler(provider catalog.Provider) *CatalogHandler {
	return &CatalogHandler{provider: provider}
}

func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/movies/search", h.SearchMovies)
	rg.GET("/tv/search", h.SearchTV)
	rg.GET("/movies/popular", h.PopularMovies)
	rg.GET("/movies/:id", h.MovieDetails)
	rg.GET("/tv/:id", h.TVDetails)
}

func (h *CatalogHandler) SearchMovies(c *gin.Context) {
	h.search(c, h.provider.SearchMovies)
}

func (h *CatalogHandler) SearchTV(c *gin.Context) {
	h.search(c, h.provider.SearchTV)
}

func (h *CatalogHandler) search(c *gin.Context, fn func(context.Context, string, int) (*catalog.SearchResult, error)) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	result, err := fn(ctx, query, page)
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CatalogHandler) PopularMovies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	result, err := h.provider.PopularMovies(ctx, page)
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CatalogHandler) MovieDetails(c *gin.Context) {
	h.details(c, h.provider.MovieDetails)
}

func (h *CatalogHandler) TVDetails(c *gin.Context) {
	h.details(c, h.provider.TVDetails)
}

func (h *CatalogHandler) details(c *gin.Context, fn func(context.Context, string) (*catalog.Item, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	item, err := fn(ctx, c.Param("id"))
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) writeCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrMissingAPIKey):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrUnsupported):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
