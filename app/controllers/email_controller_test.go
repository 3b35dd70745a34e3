package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/influxity/influxity/app/models"
	"github.com/influxity/influxity/internal/pkg/aicache"
)

type fakeContentRepo struct {
	saved []models.GeneratedContent
}

func (f *fakeContentRepo) Save(content *models.GeneratedContent) error {
	content.ID = uint(len(f.saved) + 1)
	f.saved = append(f.saved, *content)
	return nil
}

func (f *fakeContentRepo) ListByUser(userID uint, contentType string) ([]models.GeneratedContent, error) {
	var list []models.GeneratedContent
	for _, item := range f.saved {
		if item.UserID != userID {
			continue
		}
		if contentType != "" && item.Type != contentType {
			continue
		}
		list = append(list, item)
	}
	return list, nil
}

func newEmailTestApp(repo *fakeContentRepo, invoker *scriptedInvoker, cache aicache.ResponseCache, userID uint) *fiber.App {
	controller := NewEmailController(repo, invoker, cache)

	app := fiber.New()
	email := app.Group("/email", withTestUser(userID))
	email.Post("/generate", controller.HandleGenerate)
	email.Get("/history", controller.HandleHistory)
	return app
}

func TestEmailGenerate_SavesTypedHistory(t *testing.T) {
	repo := &fakeContentRepo{}
	invoker := &scriptedInvoker{reply: "Dear customer, ..."}
	app := newEmailTestApp(repo, invoker, aicache.New(aicache.Config{}), 3)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/email/generate", `{"type":"sales","context":"new product launch"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, "email_sales", repo.saved[0].Type)
	assert.Equal(t, "new product launch", repo.saved[0].Prompt)
	assert.Equal(t, "Dear customer, ...", repo.saved[0].Content)
}

func TestEmailGenerate_RepeatRequestServedFromCache(t *testing.T) {
	repo := &fakeContentRepo{}
	invoker := &scriptedInvoker{reply: "Hello!"}
	app := newEmailTestApp(repo, invoker, aicache.New(aicache.Config{}), 3)

	body := `{"type":"support","context":"refund question"}`
	for i := 0; i < 2; i++ {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/email/generate", body), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	// one model call, but both runs land in the history
	assert.Len(t, invoker.calls, 1)
	assert.Len(t, repo.saved, 2)
}

func TestEmailGenerate_ToneGetsItsOwnCacheEntry(t *testing.T) {
	repo := &fakeContentRepo{}
	invoker := &scriptedInvoker{reply: "Hello!"}
	app := newEmailTestApp(repo, invoker, aicache.New(aicache.Config{}), 3)

	for _, tone := range []string{"professional", "casual"} {
		body := fmt.Sprintf(`{"type":"sales","context":"new product launch","tone":%q}`, tone)
		resp, err := app.Test(jsonRequest(http.MethodPost, "/email/generate", body), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	// same context but a different tone must not reuse the cached output
	require.Len(t, invoker.calls, 2)
	assert.Contains(t, invoker.calls[0][0].Content, "professional")
	assert.Contains(t, invoker.calls[1][0].Content, "casual")
}

func TestEmailGenerate_CacheIsScopedPerUser(t *testing.T) {
	repo := &fakeContentRepo{}
	cache := aicache.New(aicache.Config{})
	invoker := &scriptedInvoker{reply: "Hello!"}

	body := `{"type":"support","context":"refund question"}`
	for _, userID := range []uint{3, 4} {
		app := newEmailTestApp(repo, invoker, cache, userID)
		resp, err := app.Test(jsonRequest(http.MethodPost, "/email/generate", body), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Len(t, invoker.calls, 2)
}

func TestEmailGenerate_UnknownTypeRejected(t *testing.T) {
	repo := &fakeContentRepo{}
	invoker := &scriptedInvoker{reply: "Hello!"}
	app := newEmailTestApp(repo, invoker, aicache.New(aicache.Config{}), 3)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/email/generate", `{"type":"ransom","context":"x"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, invoker.calls)
	assert.Empty(t, repo.saved)
}
