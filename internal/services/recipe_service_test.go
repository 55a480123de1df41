package services_test

import (
	"testing"

	"recipehub/internal/models"
	"recipehub/internal/repositories"
	"recipehub/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturedEvent records a published activity event.
type capturedEvent struct {
	Exchange   string
	RoutingKey string
	Body       []byte
}

// fakePublisher collects published events for assertions.
type fakePublisher struct {
	events []capturedEvent
}

func (p *fakePublisher) Publish(exchange, routingKey string, body []byte) error {
	p.events = append(p.events, capturedEvent{exchange, routingKey, body})
	return nil
}

func newRecipeFixture(t *testing.T) (*services.RecipeService, *repositories.MockRecipeRepository, *fakePublisher) {
	t.Helper()
	repo := repositories.NewMockRecipeRepository()
	publisher := &fakePublisher{}
	return services.NewRecipeService(repo, publisher), repo, publisher
}

func author() *models.User {
	return &models.User{ID: "author-1", Username: "cook", Role: models.RoleUser}
}

func sampleRecipe() *models.Recipe {
	return &models.Recipe{
		Title:        "Pasta Carbonara",
		Description:  "Classic Roman pasta",
		Ingredients:  models.StringList{"spaghetti", "eggs", "guanciale"},
		Instructions: models.StringList{"Boil pasta", "Mix eggs", "Combine"},
		Difficulty:   models.DifficultyMedium,
		Category:     "italian",
		Servings:     2,
	}
}

func TestRecipeService_CreateStampsAuthor(t *testing.T) {
	svc, _, publisher := newRecipeFixture(t)

	created, err := svc.CreateRecipe(sampleRecipe(), author())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "author-1", created.AuthorID)
	assert.Equal(t, "cook", created.AuthorName)
	assert.Equal(t, 0, created.LikesCount)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "recipe.created", publisher.events[0].RoutingKey)
}

func TestRecipeService_CreateRejectsUnknownDifficulty(t *testing.T) {
	svc, _, _ := newRecipeFixture(t)

	recipe := sampleRecipe()
	recipe.Difficulty = "impossible"
	_, err := svc.CreateRecipe(recipe, author())
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestRecipeService_ToggleLike(t *testing.T) {
	svc, _, publisher := newRecipeFixture(t)

	created, err := svc.CreateRecipe(sampleRecipe(), author())
	require.NoError(t, err)

	// First toggle adds the like.
	result, err := svc.ToggleLike(created.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikesCount)

	// Second toggle by the same user removes it; the count floors at 0.
	result, err = svc.ToggleLike(created.ID, "user-1")
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.LikesCount)

	// Two different users each count once.
	_, err = svc.ToggleLike(created.ID, "user-1")
	require.NoError(t, err)
	result, err = svc.ToggleLike(created.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 2, result.LikesCount)

	// Only the like events (not the unlike) are published.
	var likeEvents int
	for _, e := range publisher.events {
		if e.RoutingKey == "recipe.liked" {
			likeEvents++
		}
	}
	assert.Equal(t, 3, likeEvents)

	// Unknown recipe
	_, err = svc.ToggleLike("missing", "user-1")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRecipeService_Search(t *testing.T) {
	svc, _, _ := newRecipeFixture(t)

	_, err := svc.CreateRecipe(sampleRecipe(), author())
	require.NoError(t, err)
	other := sampleRecipe()
	other.Title = "Miso Soup"
	other.Description = "Quick Japanese breakfast"
	_, err = svc.CreateRecipe(other, author())
	require.NoError(t, err)

	// Case-insensitive substring match on title.
	found, err := svc.Search("CARBO")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Pasta Carbonara", found[0].Title)

	// Match on the description too.
	found, err = svc.Search("japanese")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Miso Soup", found[0].Title)

	// Blank query matches nothing instead of everything.
	found, err = svc.Search("   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRecipeService_ListCommunity(t *testing.T) {
	svc, _, _ := newRecipeFixture(t)

	first, err := svc.CreateRecipe(sampleRecipe(), author())
	require.NoError(t, err)
	other := sampleRecipe()
	other.Title = "Miso Soup"
	other.Category = "japanese"
	_, err = svc.CreateRecipe(other, author())
	require.NoError(t, err)

	page, err := svc.ListCommunity(1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Recipes, 2)

	page, err = svc.ListCommunity(1, 20, "italian")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, first.ID, page.Recipes[0].ID)
}

func TestRecipeService_DeleteOwnership(t *testing.T) {
	svc, _, _ := newRecipeFixture(t)

	created, err := svc.CreateRecipe(sampleRecipe(), author())
	require.NoError(t, err)

	stranger := &models.User{ID: "stranger", Username: "someone", Role: models.RoleUser}
	err = svc.DeleteRecipe(created.ID, stranger, false)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// The recipe is still there.
	_, err = svc.GetRecipeByID(created.ID)
	assert.NoError(t, err)

	// A moderator acting through the moderation route may remove it.
	moderator := &models.User{ID: "mod-1", Username: "mod", Role: models.RoleModerator}
	err = svc.DeleteRecipe(created.ID, moderator, true)
	assert.NoError(t, err)

	_, err = svc.GetRecipeByID(created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRecipeService_UpdateOwnership(t *testing.T) {
	svc, _, _ := newRecipeFixture(t)

	created, err := svc.CreateRecipe(sampleRecipe(), author())
	require.NoError(t, err)

	patch := sampleRecipe()
	patch.Title = "Pasta Carbonara (improved)"

	_, err = svc.UpdateRecipe(created.ID, patch, &models.User{ID: "stranger", Username: "x"})
	assert.ErrorIs(t, err, services.ErrForbidden)

	updated, err := svc.UpdateRecipe(created.ID, patch, author())
	require.NoError(t, err)
	assert.Equal(t, "Pasta Carbonara (improved)", updated.Title)
}
