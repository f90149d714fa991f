package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pantrysnap/backend/internal/mocks"
	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/service"
	"github.com/pantrysnap/backend/internal/types"
)

type fakeGenerator struct {
	generate func(ctx context.Context, userID uuid.UUID, req types.GenerateRequest, onStage func(service.Stage)) (*service.GenerationResult, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, userID uuid.UUID, req types.GenerateRequest, onStage func(service.Stage)) (*service.GenerationResult, error) {
	return f.generate(ctx, userID, req, onStage)
}

type fakeLock struct {
	busy bool
}

func (f *fakeLock) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	if f.busy {
		return nil, service.ErrGenerationInFlight
	}
	return func() {}, nil
}

func setupGenerateRouter(t *testing.T, gen Generator, drafts DraftReader, saver RecipeSaver, lock RunLock) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	auth := service.NewAuthService(db, "test-secret")
	_, token := createTestUserAndToken(t, auth)

	router := gin.New()
	NewGenerateHandler(gen, drafts, saver, lock, auth, nil).RegisterRoutes(router.Group("/api/v1"))
	return router, token
}

func TestGenerateStreamsStagesAndResult(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(ctx context.Context, userID uuid.UUID, req types.GenerateRequest, onStage func(service.Stage)) (*service.GenerationResult, error) {
			for _, s := range service.GenerationStages {
				onStage(s)
			}
			onStage(service.StageComplete)
			return &service.GenerationResult{
				DraftID: "draft-1",
				Recipes: []models.Recipe{{Title: "Soup", UserID: userID}},
			}, nil
		},
	}

	router, token := setupGenerateRouter(t, gen, nil, nil, &fakeLock{})
	w := doJSON(t, router, "POST", "/api/v1/recipes/generate", token, map[string]interface{}{
		"requirements": "dinner",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	// Every stage precedes the result; the result is present exactly once.
	resultIdx := strings.Index(body, "event:result")
	require.GreaterOrEqual(t, resultIdx, 0)
	for _, s := range service.GenerationStages {
		idx := strings.Index(body, s.Name)
		assert.GreaterOrEqual(t, idx, 0, "missing stage %s", s.Name)
		assert.Less(t, idx, resultIdx, "stage %s after result", s.Name)
	}
	assert.Contains(t, body, "draft-1")
}

func TestGenerateStreamsTaxonomyError(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(ctx context.Context, userID uuid.UUID, req types.GenerateRequest, onStage func(service.Stage)) (*service.GenerationResult, error) {
			return nil, service.ErrGenerationFailure
		},
	}

	router, token := setupGenerateRouter(t, gen, nil, nil, &fakeLock{})
	w := doJSON(t, router, "POST", "/api/v1/recipes/generate", token, map[string]interface{}{
		"requirements": "dinner",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "event:error")
	assert.Contains(t, body, "generation_failure")
	assert.NotContains(t, body, "event:result")
}

func TestGenerateConflictsWhenRunInFlight(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(ctx context.Context, userID uuid.UUID, req types.GenerateRequest, onStage func(service.Stage)) (*service.GenerationResult, error) {
			t.Fatal("orchestrator must not run while locked")
			return nil, nil
		},
	}

	router, token := setupGenerateRouter(t, gen, nil, nil, &fakeLock{busy: true})
	w := doJSON(t, router, "POST", "/api/v1/recipes/generate", token, map[string]interface{}{
		"requirements": "dinner",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGenerateRequiresAuth(t *testing.T) {
	router, _ := setupGenerateRouter(t, &fakeGenerator{}, nil, nil, &fakeLock{})
	w := doJSON(t, router, "POST", "/api/v1/recipes/generate", "", map[string]interface{}{
		"requirements": "dinner",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetDraftEndpoint(t *testing.T) {
	drafts := new(mocks.MockDraftStore)
	drafts.On("GetDraftBatch", mock.Anything, mock.Anything, "known").
		Return(&service.DraftBatch{ID: "known", Recipes: []models.Recipe{{Title: "Soup"}}}, nil)
	drafts.On("GetDraftBatch", mock.Anything, mock.Anything, "missing").
		Return(nil, service.ErrNotFound)

	router, token := setupGenerateRouter(t, &fakeGenerator{}, drafts, nil, &fakeLock{})

	w := doJSON(t, router, "GET", "/api/v1/recipes/drafts/known", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/recipes/drafts/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteDraftEndpoint(t *testing.T) {
	drafts := new(mocks.MockDraftStore)
	drafts.On("DeleteDraftBatch", mock.Anything, mock.Anything, "batch-1").Return(nil)

	router, token := setupGenerateRouter(t, &fakeGenerator{}, drafts, nil, &fakeLock{})

	w := doJSON(t, router, "DELETE", "/api/v1/recipes/drafts/batch-1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	drafts.AssertExpectations(t)
}

func TestSaveFromDraftEndpoint(t *testing.T) {
	batch := &service.DraftBatch{
		ID:      "batch-1",
		Recipes: []models.Recipe{{Title: "First"}, {Title: "Second"}},
	}
	drafts := new(mocks.MockDraftStore)
	drafts.On("GetDraftBatch", mock.Anything, mock.Anything, "batch-1").Return(batch, nil)

	saver := new(mocks.MockRecipeStore)
	stored := models.Recipe{ID: uuid.New(), Title: "Second"}
	saver.On("Save", mock.Anything, mock.Anything, batch.Recipes[1]).Return(&stored, nil)

	router, token := setupGenerateRouter(t, &fakeGenerator{}, drafts, saver, &fakeLock{})

	w := doJSON(t, router, "POST", "/api/v1/recipes/drafts/batch-1/save", token, map[string]int{"index": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.Recipe
	decodeJSON(t, w, &resp)
	assert.Equal(t, stored.ID, resp.ID)

	w = doJSON(t, router, "POST", "/api/v1/recipes/drafts/batch-1/save", token, map[string]int{"index": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorKindMapping(t *testing.T) {
	assert.Equal(t, "authentication_required", errorKind(service.ErrAuthenticationRequired))
	assert.Equal(t, "recognition_failure", errorKind(service.ErrRecognitionFailure))
	assert.Equal(t, "internal", errorKind(errors.New("anything else")))
}
