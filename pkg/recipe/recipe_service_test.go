package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/internal/utils/storage"
	"tastebook/pkg/comment"
	"tastebook/pkg/user"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Recipe{}, &entities.Comment{}))
	return db
}

func newTestService(t *testing.T) (RecipeService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	service := NewRecipeService(
		NewRecipeRepository(db),
		user.NewUserRepository(db),
		comment.NewCommentRepository(db),
		storage.NewLocalStorage(t.TempDir()),
	)
	return service, db
}

func seedUser(t *testing.T, db *gorm.DB, username string) entities.User {
	t.Helper()
	u := entities.User{
		Username:     username,
		Name:         "Test " + username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		LikedRecipes: "[]",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedRecipe(t *testing.T, db *gorm.DB, r entities.Recipe) entities.Recipe {
	t.Helper()
	if r.Steps == "" {
		r.Steps = "[]"
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func TestSaveAndPublish(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")

	form := domain.RecipeFormRequest{
		Title:       "Pancakes",
		Description: "Fluffy",
		Ingredients: "flour, milk, eggs",
		Steps:       []domain.RecipeStepInput{{Description: "mix"}, {Description: "fry"}},
	}

	require.NoError(t, service.Save(context.Background(), form, owner.ID, false))
	form.Title = "Waffles"
	require.NoError(t, service.Save(context.Background(), form, owner.ID, true))

	var saved, published entities.Recipe
	require.NoError(t, db.Where("title = ?", "Pancakes").First(&saved).Error)
	require.NoError(t, db.Where("title = ?", "Waffles").First(&published).Error)

	assert.False(t, saved.Published)
	assert.True(t, published.Published)
	for _, r := range []entities.Recipe{saved, published} {
		assert.Equal(t, owner.ID, r.CreatedBy)
		assert.NotZero(t, r.CreatedOn)
		assert.Zero(t, r.LikeRating)
		assert.Zero(t, r.ViewCount)
		assert.False(t, r.Reported)
	}

	steps, err := decodeSteps(saved.Steps)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "mix", steps[0].Description)
}

func TestLoadIncrementsViews(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Soup", Published: true})

	first, err := service.Load(context.Background(), r.ID, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Views)

	second, err := service.Load(context.Background(), r.ID, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Views)
}

func TestLoadUnpublishedVisibility(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Secret Stew"})

	_, err := service.Load(context.Background(), r.ID, owner.ID, true)
	assert.NoError(t, err)

	// Non-owners get "not found", never "forbidden"; existence stays hidden.
	_, err = service.Load(context.Background(), r.ID, other.ID, true)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	_, err = service.Load(context.Background(), r.ID, 0, false)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	require.NoError(t, service.TogglePublished(context.Background(), r.ID, owner.ID))

	_, err = service.Load(context.Background(), r.ID, other.ID, true)
	assert.NoError(t, err)
}

func TestLoadMissingRecipe(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Load(context.Background(), 12345, 0, false)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestLoadJoinsCommentsWithAuthorNames(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	commenter := seedUser(t, db, "bob")
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Chili", Published: true})

	first := entities.Comment{CreatedBy: commenter.ID, CreatedOn: 100, RecipeID: r.ID, Comment: "Looks great"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&entities.Comment{
		CreatedBy: owner.ID, CreatedOn: 200, RecipeID: r.ID, Comment: "Thanks!", Parent: &first.ID,
	}).Error)

	res, err := service.Load(context.Background(), r.ID, 0, false)
	require.NoError(t, err)
	require.Len(t, res.Comments, 2)
	assert.Equal(t, "Test bob", res.Comments[0].Name)
	assert.Nil(t, res.Comments[0].Parent)
	assert.Equal(t, "Test alice", res.Comments[1].Name)
	require.NotNil(t, res.Comments[1].Parent)
	assert.Equal(t, first.ID, *res.Comments[1].Parent)
}

func TestEditStripsStepImages(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	stepsJSON, _ := json.Marshal([]domain.RecipeStep{
		{Description: "chop", Image: "/uploads/steps/a.jpg"},
		{Description: "boil"},
	})
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Stew", Steps: string(stepsJSON)})

	res, err := service.Edit(context.Background(), r.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, res.ID)
	require.Len(t, res.Steps, 2)
	assert.Empty(t, res.Steps[0].Image)
	assert.Equal(t, "chop", res.Steps[0].Description)
}

func TestEditForbiddenForNonOwner(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Stew"})

	_, err := service.Edit(context.Background(), r.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrRecipeForbidden)

	_, err = service.Edit(context.Background(), 999, other.ID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestUpdateScalarFields(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	r := seedRecipe(t, db, entities.Recipe{
		CreatedBy: owner.ID, Title: "Stew", Description: "old", Ingredients: "water",
	})

	title := "Beef Stew"
	require.NoError(t, service.Update(context.Background(), domain.RecipeUpdateRequest{
		ID:    r.ID,
		Title: &title,
	}, owner.ID))

	var updated entities.Recipe
	require.NoError(t, db.First(&updated, r.ID).Error)
	assert.Equal(t, "Beef Stew", updated.Title)
	// Absent fields stay untouched.
	assert.Equal(t, "old", updated.Description)
	assert.Equal(t, "water", updated.Ingredients)
}

func TestUpdateStepsPreservesImagesIndexAligned(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	stepsJSON, _ := json.Marshal([]domain.RecipeStep{
		{Description: "chop", Image: "/uploads/steps/a.jpg"},
		{Description: "boil", Image: "/uploads/steps/b.jpg"},
		{Description: "serve"},
	})
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Stew", Steps: string(stepsJSON)})

	require.NoError(t, service.Update(context.Background(), domain.RecipeUpdateRequest{
		ID: r.ID,
		Steps: []domain.RecipeStepInput{
			{Description: "chop finely"},
			{Description: "simmer"},
			{Description: "serve hot"},
		},
	}, owner.ID))

	var updated entities.Recipe
	require.NoError(t, db.First(&updated, r.ID).Error)
	steps, err := decodeSteps(updated.Steps)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "chop finely", steps[0].Description)
	assert.Equal(t, "/uploads/steps/a.jpg", steps[0].Image)
	assert.Equal(t, "/uploads/steps/b.jpg", steps[1].Image)
	assert.Empty(t, steps[2].Image)
}

func TestUpdateForbiddenForNonOwner(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Stew"})

	title := "Hijacked"
	err := service.Update(context.Background(), domain.RecipeUpdateRequest{ID: r.ID, Title: &title}, other.ID)
	assert.ErrorIs(t, err, domain.ErrRecipeForbidden)
}

func TestTogglePublished(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Stew"})

	assert.ErrorIs(t, service.TogglePublished(context.Background(), r.ID, other.ID), domain.ErrRecipeForbidden)

	require.NoError(t, service.TogglePublished(context.Background(), r.ID, owner.ID))
	var updated entities.Recipe
	require.NoError(t, db.First(&updated, r.ID).Error)
	assert.True(t, updated.Published)

	require.NoError(t, service.TogglePublished(context.Background(), r.ID, owner.ID))
	require.NoError(t, db.First(&updated, r.ID).Error)
	assert.False(t, updated.Published)
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	liker := seedUser(t, db, "bob")
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Stew", Published: true})

	require.NoError(t, service.Like(context.Background(), r.ID, liker.ID))

	var updated entities.Recipe
	require.NoError(t, db.First(&updated, r.ID).Error)
	assert.Equal(t, 1, updated.LikeRating)

	var u entities.User
	require.NoError(t, db.First(&u, liker.ID).Error)
	assert.Equal(t, fmt.Sprintf("[%d]", r.ID), u.LikedRecipes)

	res, err := service.Load(context.Background(), r.ID, liker.ID, true)
	require.NoError(t, err)
	assert.True(t, res.Liked)

	require.NoError(t, service.Unlike(context.Background(), r.ID, liker.ID))

	require.NoError(t, db.First(&updated, r.ID).Error)
	assert.Equal(t, 0, updated.LikeRating)
	require.NoError(t, db.First(&u, liker.ID).Error)
	assert.Equal(t, "[]", u.LikedRecipes)
}

func TestLikeTwiceDoubleCounts(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	liker := seedUser(t, db, "bob")
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Stew", Published: true})

	require.NoError(t, service.Like(context.Background(), r.ID, liker.ID))
	require.NoError(t, service.Like(context.Background(), r.ID, liker.ID))

	var updated entities.Recipe
	require.NoError(t, db.First(&updated, r.ID).Error)
	assert.Equal(t, 2, updated.LikeRating)
}

func TestReport(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	r := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Spam", Published: true})

	require.NoError(t, service.Report(context.Background(), r.ID))

	var updated entities.Recipe
	require.NoError(t, db.First(&updated, r.ID).Error)
	assert.True(t, updated.Reported)
}

func TestRecentAndTop(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")

	for i := 1; i <= 6; i++ {
		seedRecipe(t, db, entities.Recipe{
			CreatedBy:  owner.ID,
			CreatedOn:  int64(i * 100),
			Title:      fmt.Sprintf("Recipe %d", i),
			LikeRating: i,
			Published:  true,
		})
	}
	seedRecipe(t, db, entities.Recipe{
		CreatedBy: owner.ID, CreatedOn: 9999, Title: "Hidden Draft", LikeRating: 100,
	})

	recent, err := service.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "Recipe 6", recent[0].Title)
	assert.Equal(t, "Recipe 2", recent[4].Title)

	top, err := service.Top(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, "Recipe 6", top[0].Title)
	assert.Equal(t, "Recipe 2", top[4].Title)

	for _, list := range [][]domain.RecipeSummary{recent, top} {
		for _, summary := range list {
			assert.NotEqual(t, "Hidden Draft", summary.Title)
		}
	}
}

func TestSearchDeduplicatesByID(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")

	// Matches on title, description and ingredients; must appear once.
	match := seedRecipe(t, db, entities.Recipe{
		CreatedBy:   owner.ID,
		Title:       "Apple Pie",
		Description: "Classic apple dessert",
		Ingredients: "apple, flour, butter",
		Published:   true,
	})
	seedRecipe(t, db, entities.Recipe{
		CreatedBy: owner.ID, Title: "Banana Bread", Description: "No fruit pun", Ingredients: "banana", Published: true,
	})
	seedRecipe(t, db, entities.Recipe{
		CreatedBy: owner.ID, Title: "Secret Apple Cake", Description: "apple", Ingredients: "apple",
	})

	res, err := service.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, match.ID, res[0].ID)
}

func TestByUserSamplesUpToFive(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")

	for i := 0; i < 7; i++ {
		seedRecipe(t, db, entities.Recipe{
			CreatedBy: owner.ID,
			Title:     fmt.Sprintf("Recipe %d", i),
			Published: i%2 == 0,
		})
	}

	res, err := service.ByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Len(t, res, 5)
	for _, r := range res {
		assert.Equal(t, owner.ID, r.CreatedBy)
	}
}

func TestLikedSkipsUnpublishedAndStaleIDs(t *testing.T) {
	service, db := newTestService(t)
	owner := seedUser(t, db, "alice")
	liker := seedUser(t, db, "bob")

	published := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Visible", Published: true})
	draft := seedRecipe(t, db, entities.Recipe{CreatedBy: owner.ID, Title: "Draft"})

	liked, _ := json.Marshal([]uint{published.ID, draft.ID, 9999})
	require.NoError(t, db.Model(&entities.User{}).Where("id = ?", liker.ID).
		Update("liked_recipes", string(liked)).Error)

	res, err := service.Liked(context.Background(), liker.ID)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, published.ID, res[0].ID)
}
