package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cinelog/internal/api/models"
	"cinelog/internal/api/repository"
	"cinelog/internal/api/service"
)

type mockMediaService struct {
	mock.Mock
}

func (m *mockMediaService) Add(ctx context.Context, userID string, item *models.MediaItem) (*models.MediaItem, error) {
	args := m.Called(ctx, userID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaItem), args.Error(1)
}

func (m *mockMediaService) List(ctx context.Context, userID string, kind models.MediaKind, filters repository.MediaFilters) ([]models.MediaItem, error) {
	args := m.Called(ctx, userID, kind, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MediaItem), args.Error(1)
}

func (m *mockMediaService) Get(ctx context.Context, userID string, id int64) (*models.MediaItem, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaItem), args.Error(1)
}

func (m *mockMediaService) Update(ctx context.Context, userID string, id int64, update service.MediaUpdate) (*models.MediaItem, error) {
	args := m.Called(ctx, userID, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaItem), args.Error(1)
}

func (m *mockMediaService) Delete(ctx context.Context, userID string, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func newMediaRouter(svc service.MediaService, kind models.MediaKind, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/movies")
	group.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	NewMediaHandler(svc, kind).RegisterRoutes(group)
	return r
}

func TestMediaHandler_AddSetsWatchedAt(t *testing.T) {
	userID := uuid.New().String()
	svc := new(mockMediaService)

	var captured *models.MediaItem
	svc.On("Add", mock.Anything, userID, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*models.MediaItem)
		}).
		Return(&models.MediaItem{ID: 1, Title: "The Matrix"}, nil)

	r := newMediaRouter(svc, models.KindMovie, userID)

	body, _ := json.Marshal(gin.H{"catalog_id": "603", "title": "The Matrix", "watched": true})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/movies", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, models.KindMovie, captured.Kind)
	assert.True(t, captured.Watched)
	// Marking watched on the way in stamps the time server-side.
	assert.NotNil(t, captured.WatchedAt)
}

func TestMediaHandler_AddDuplicate(t *testing.T) {
	userID := uuid.New().String()
	svc := new(mockMediaService)
	svc.On("Add", mock.Anything, userID, mock.Anything).Return(nil, service.ErrAlreadyInCollection)
	r := newMediaRouter(svc, models.KindMovie, userID)

	body, _ := json.Marshal(gin.H{"catalog_id": "603", "title": "The Matrix"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/movies", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMediaHandler_AddMissingTitle(t *testing.T) {
	userID := uuid.New().String()
	r := newMediaRouter(new(mockMediaService), models.KindMovie, userID)

	body, _ := json.Marshal(gin.H{"catalog_id": "603"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/movies", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_ListParsesFilters(t *testing.T) {
	userID := uuid.New().String()
	svc := new(mockMediaService)

	var captured repository.MediaFilters
	svc.On("List", mock.Anything, userID, models.KindMovie, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(3).(repository.MediaFilters)
		}).
		Return([]models.MediaItem{}, nil)

	r := newMediaRouter(svc, models.KindMovie, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/movies?watched=true&favorite=false", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured.Watched)
	assert.True(t, *captured.Watched)
	require.NotNil(t, captured.Favorite)
	assert.False(t, *captured.Favorite)
	assert.Nil(t, captured.Watchlist)
}

func TestMediaHandler_UpdateNotTV(t *testing.T) {
	userID := uuid.New().String()
	svc := new(mockMediaService)
	svc.On("Update", mock.Anything, userID, int64(3), mock.Anything).Return(nil, service.ErrNotTVShow)
	r := newMediaRouter(svc, models.KindMovie, userID)

	body, _ := json.Marshal(gin.H{"current_episode": 5})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/movies/3", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_DeleteMissing(t *testing.T) {
	userID := uuid.New().String()
	svc := new(mockMediaService)
	svc.On("Delete", mock.Anything, userID, int64(3)).Return(service.ErrNotInCollection)
	r := newMediaRouter(svc, models.KindMovie, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/movies/3", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
