package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/types"
)

// DefaultCookingTime is substituted when the generator omits a cooking time.
const DefaultCookingTime = "30 minutes"

// defaultServings is substituted when the generator omits servings or
// returns a non-positive count.
const defaultServings = 2

// Recognizer maps ingredient photos to ingredient names.
type Recognizer interface {
	AnalyzeIngredients(ctx context.Context, images []string, requirements string) ([]string, error)
}

// RecipeGenerator produces recipe drafts from ingredients, requirements, and
// the user's stored preferences.
type RecipeGenerator interface {
	GenerateRecipes(ctx context.Context, ingredients []string, requirements string, userID uuid.UUID) ([]RecipeData, error)
}

// DraftStore caches generation results for later explicit saves.
type DraftStore interface {
	SaveDraftBatch(ctx context.Context, userID uuid.UUID, recipes []models.Recipe) (*DraftBatch, error)
}

// GenerationResult is the outcome of one successful run: the normalized
// recipes plus the draft id under which they are cached.
type GenerationResult struct {
	DraftID string          `json:"draft_id"`
	Recipes []models.Recipe `json:"recipes"`
}

// Orchestrator drives one generation request through recognition, recipe
// generation, normalization, and draft caching, while a cosmetic stage
// sequence runs alongside. Results are revealed only after both the real
// work and the stage floor have finished; nothing is persisted to the recipe
// store by a generation run.
type Orchestrator struct {
	vision Recognizer
	llm    RecipeGenerator
	drafts DraftStore
	runner *StageRunner
}

func NewOrchestrator(vision Recognizer, llm RecipeGenerator, drafts DraftStore, stageInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		vision: vision,
		llm:    llm,
		drafts: drafts,
		runner: NewStageRunner(GenerationStages, stageInterval),
	}
}

// Generate runs the workflow for one request. onStage (may be nil) receives
// the cosmetic stage sequence and, after everything has finished, the
// StageComplete marker. Any failure cancels the stage timer, discards
// partial results, and surfaces as exactly one taxonomy error.
func (o *Orchestrator) Generate(ctx context.Context, userID uuid.UUID, req types.GenerateRequest, onStage func(Stage)) (*GenerationResult, error) {
	if userID == uuid.Nil {
		return nil, ErrAuthenticationRequired
	}
	if len(req.Images) == 0 && req.Requirements == "" {
		return nil, ErrInvalidRequest
	}

	var result *GenerationResult

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := o.run(gctx, userID, req)
		if err != nil {
			return err
		}
		result = res
		return nil
	})

	g.Go(func() error {
		// The timer's own cancellation (real work failed, caller gone)
		// must not mask the real error, so it always reports nil.
		if err := o.runner.Run(gctx, onStage); err != nil {
			log.Printf("[Orchestrator] stage sequence cut short: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if onStage != nil {
		onStage(StageComplete)
	}
	return result, nil
}

// run is the real pipeline: recognition (when images exist), generation,
// normalization, draft caching.
func (o *Orchestrator) run(ctx context.Context, userID uuid.UUID, req types.GenerateRequest) (*GenerationResult, error) {
	var ingredients []string
	if len(req.Images) > 0 {
		recognized, err := o.vision.AnalyzeIngredients(ctx, req.Images, req.Requirements)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRecognitionFailure, err)
		}
		ingredients = recognized
	}

	drafts, err := o.llm.GenerateRecipes(ctx, ingredients, req.Requirements, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}

	recipes := make([]models.Recipe, 0, len(drafts))
	for _, d := range drafts {
		recipes = append(recipes, normalizeRecipe(d, userID))
	}

	batch, err := o.drafts.SaveDraftBatch(ctx, userID, recipes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	return &GenerationResult{DraftID: batch.ID, Recipes: batch.Recipes}, nil
}

// normalizeRecipe converts a generator draft into the persistence shape:
// fallback cooking time and servings, owner attached.
func normalizeRecipe(d RecipeData, userID uuid.UUID) models.Recipe {
	cookingTime := d.CookingTime
	if cookingTime == "" {
		cookingTime = DefaultCookingTime
	}
	servings := d.Servings.Value
	if servings <= 0 {
		servings = defaultServings
	}

	return models.Recipe{
		Title:           d.Title,
		Description:     d.Description,
		CookingTime:     cookingTime,
		Servings:        servings,
		Ingredients:     models.JSONBStringArray(d.Ingredients),
		Instructions:    models.JSONBStringArray(d.Instructions),
		PreferenceNotes: models.JSONBStringArray(d.PreferenceNotes),
		UserID:          userID,
	}
}
