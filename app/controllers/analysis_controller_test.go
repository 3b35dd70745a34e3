package controllers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/influxity/influxity/app/models"
)

type fakeAnalysisRepo struct {
	saved []models.AnalysisResult
}

func (f *fakeAnalysisRepo) Save(result *models.AnalysisResult) error {
	result.ID = uint(len(f.saved) + 1)
	f.saved = append(f.saved, *result)
	return nil
}

func (f *fakeAnalysisRepo) ListByUser(userID uint, analysisType string) ([]models.AnalysisResult, error) {
	var list []models.AnalysisResult
	for _, item := range f.saved {
		if item.UserID != userID {
			continue
		}
		if analysisType != "" && item.AnalysisType != analysisType {
			continue
		}
		list = append(list, item)
	}
	return list, nil
}

func newAnalysisTestApp(repo *fakeAnalysisRepo, invoker *scriptedInvoker, userID uint) *fiber.App {
	controller := NewAnalysisController(repo, invoker)

	app := fiber.New()
	analysis := app.Group("/analysis", withTestUser(userID))
	analysis.Post("/analyze", controller.HandleAnalyze)
	analysis.Get("/history", controller.HandleHistory)
	return app
}

func TestAnalyze_StoresInsightsAndRecommendations(t *testing.T) {
	repo := &fakeAnalysisRepo{}
	invoker := &scriptedInvoker{reply: "Summary\nRevenue is up.\n\nKey Insights\n- Q2 beat Q1.\n\nRecommendations\n- Double down on outbound."}
	app := newAnalysisTestApp(repo, invoker, 5)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/analysis/analyze", `{"type":"sales","data":"Q1: 100, Q2: 140"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, repo.saved, 1)
	saved := repo.saved[0]
	assert.Equal(t, models.AnalysisTypeSales, saved.AnalysisType)
	assert.Equal(t, "Q1: 100, Q2: 140", saved.InputData)
	assert.Equal(t, invoker.reply, saved.Insights)
	assert.Equal(t, "- Double down on outbound.", saved.Recommendations)
}

func TestAnalyze_UnknownTypeRejected(t *testing.T) {
	repo := &fakeAnalysisRepo{}
	invoker := &scriptedInvoker{reply: "ok"}
	app := newAnalysisTestApp(repo, invoker, 5)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/analysis/analyze", `{"type":"astrology","data":"stars"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, invoker.calls)
}

func TestExtractRecommendations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "markdown heading",
			text: "## Summary\nFine.\n\n## Recommendations\n- Do A\n- Do B",
			want: "- Do A\n- Do B",
		},
		{
			name: "bold heading with colon",
			text: "**Summary:** fine\n**Recommendations:**\n1. Do A",
			want: "1. Do A",
		},
		{
			name: "numbered heading",
			text: "1. Summary\nok\n3. Recommendations\nDo A",
			want: "Do A",
		},
		{
			name: "lowercase heading",
			text: "summary\nok\nrecommendations\nDo A",
			want: "Do A",
		},
		{
			name: "inline mention only",
			text: "See Recommendations: hire more reps.",
			want: "hire more reps.",
		},
		{
			name: "no section",
			text: "Just a summary with no structure.",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractRecommendations(tt.text))
		})
	}
}
