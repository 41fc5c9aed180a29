package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engagementapp "github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

const device = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"

type fakeEngagement struct {
	prefs      domain.Preferences
	prompt     *domain.Survey
	err        error
	lastPrompt engagementapp.PromptRequest
	calls      []string
}

func (f *fakeEngagement) record(call string) (domain.Preferences, error) {
	f.calls = append(f.calls, call)
	return f.prefs, f.err
}

func (f *fakeEngagement) RecordLaunch(_ context.Context, id string) (domain.Preferences, error) {
	return f.record("launch:" + id)
}

func (f *fakeEngagement) Preferences(_ context.Context, id string) (domain.Preferences, error) {
	return f.record("preferences:" + id)
}

func (f *fakeEngagement) SetSurveyEnabled(_ context.Context, id string, enabled bool) (domain.Preferences, error) {
	return f.record(fmt.Sprintf("enabled:%s:%t", id, enabled))
}

func (f *fakeEngagement) NextPrompt(_ context.Context, _ string, req engagementapp.PromptRequest) (*domain.Survey, error) {
	f.lastPrompt = req
	return f.prompt, f.err
}

func (f *fakeEngagement) Complete(_ context.Context, _ string, surveyID int) (domain.Preferences, error) {
	return f.record(fmt.Sprintf("complete:%d", surveyID))
}

func (f *fakeEngagement) Skip(_ context.Context, _ string, surveyID int) (domain.Preferences, error) {
	return f.record(fmt.Sprintf("skip:%d", surveyID))
}

func (f *fakeEngagement) RemindLater(_ context.Context, _ string, surveyID int) (domain.Preferences, error) {
	return f.record(fmt.Sprintf("remind_later:%d", surveyID))
}

type fakeResponses struct {
	got engagementapp.SubmitResponseCommand
	err error
}

func (f *fakeResponses) Submit(_ context.Context, cmd engagementapp.SubmitResponseCommand) (*domain.SurveyResponse, error) {
	f.got = cmd
	if f.err != nil {
		return nil, f.err
	}
	return &domain.SurveyResponse{
		ID:          "resp-1",
		DeviceID:    cmd.DeviceID,
		SurveyID:    cmd.SurveyID,
		Answers:     cmd.Answers,
		SubmittedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}, nil
}

func newTestRouter(eng *fakeEngagement, resp *fakeResponses) http.Handler {
	h := NewHandler(Config{Logger: zerolog.New(io.Discard), Engagement: eng, Responses: resp})
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPromptHandler(t *testing.T) {
	survey := &domain.Survey{
		ID:            4,
		Name:          "Stop amenities",
		AllowsVisible: true,
		Questions:     []domain.Question{{ID: 1, Position: 1, Type: domain.QuestionRadio, Options: []string{"a", "b"}}},
	}

	t.Run("selected survey", func(t *testing.T) {
		eng := &fakeEngagement{prompt: survey}
		rec := do(t, newTestRouter(eng, &fakeResponses{}), http.MethodGet, "/devices/"+device+"/survey-prompt?stopId=S1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(4), body["id"])
		assert.Equal(t, "always_visible", body["class"])
		assert.Equal(t, "S1", eng.lastPrompt.StopID)
	})

	t.Run("nothing to show", func(t *testing.T) {
		eng := &fakeEngagement{}
		rec := do(t, newTestRouter(eng, &fakeResponses{}), http.MethodGet, "/devices/"+device+"/survey-prompt", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Empty(t, eng.lastPrompt.StopID)
	})

	t.Run("invalid device", func(t *testing.T) {
		rec := do(t, newTestRouter(&fakeEngagement{}, &fakeResponses{}), http.MethodGet, "/devices/not-a-uuid/survey-prompt", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("catalog failure", func(t *testing.T) {
		eng := &fakeEngagement{err: errors.New("mongo down")}
		rec := do(t, newTestRouter(eng, &fakeResponses{}), http.MethodGet, "/devices/"+device+"/survey-prompt", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "処理に失敗しました", decodeBody(t, rec)["error"])
	})
}

func TestPreferenceHandlers(t *testing.T) {
	prefs := domain.DefaultPreferences()
	prefs.AppLaunchCount = 3
	prefs.CompletedSurveyIDs.Add(2)

	eng := &fakeEngagement{prefs: prefs}
	router := newTestRouter(eng, &fakeResponses{})

	rec := do(t, router, http.MethodPost, "/devices/"+strings.ToUpper(device)+"/launches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["appLaunchCount"])
	assert.Equal(t, []any{float64(2)}, body["completedSurveyIds"])
	assert.Equal(t, []any{}, body["skippedSurveyIds"])

	rec = do(t, router, http.MethodPatch, "/devices/"+device+"/preferences", `{"surveyEnabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPatch, "/devices/"+device+"/preferences", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, []string{"launch:" + device, "enabled:" + device + ":false"}, eng.calls)
}

func TestSurveyActionHandlers(t *testing.T) {
	tests := []struct {
		path     string
		wantCall string
	}{
		{"/complete", "complete:7"},
		{"/skip", "skip:7"},
		{"/remind-later", "remind_later:7"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			eng := &fakeEngagement{prefs: domain.DefaultPreferences()}
			rec := do(t, newTestRouter(eng, &fakeResponses{}), http.MethodPost, "/devices/"+device+"/surveys/7"+tt.path, "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, []string{tt.wantCall}, eng.calls)
		})
	}

	t.Run("unknown survey", func(t *testing.T) {
		eng := &fakeEngagement{err: engagementapp.ErrSurveyNotFound}
		rec := do(t, newTestRouter(eng, &fakeResponses{}), http.MethodPost, "/devices/"+device+"/surveys/7/skip", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("remind later for unknown survey", func(t *testing.T) {
		eng := &fakeEngagement{err: engagementapp.ErrSurveyNotFound}
		rec := do(t, newTestRouter(eng, &fakeResponses{}), http.MethodPost, "/devices/"+device+"/surveys/7/remind-later", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad survey id", func(t *testing.T) {
		rec := do(t, newTestRouter(&fakeEngagement{}, &fakeResponses{}), http.MethodPost, "/devices/"+device+"/surveys/zero/skip", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResponseCreateHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		eng := &fakeEngagement{prefs: domain.DefaultPreferences()}
		resp := &fakeResponses{}
		body := `{"stopId":"S1","answers":[{"questionId":2,"values":["weekly"]}]}`
		rec := do(t, newTestRouter(eng, resp), http.MethodPost, "/devices/"+device+"/surveys/21/responses", body)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "resp-1", decodeBody(t, rec)["id"])
		assert.Equal(t, 21, resp.got.SurveyID)
		assert.Equal(t, "S1", resp.got.StopID)
		assert.Equal(t, []domain.Answer{{QuestionID: 2, Values: []string{"weekly"}}}, resp.got.Answers)
	})

	t.Run("invalid answers", func(t *testing.T) {
		resp := &fakeResponses{err: fmt.Errorf("%w: question 2 is required", engagementapp.ErrInvalidAnswers)}
		rec := do(t, newTestRouter(&fakeEngagement{}, resp), http.MethodPost, "/devices/"+device+"/surveys/21/responses", `{"answers":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "question 2 is required")
	})

	t.Run("non-positive question id", func(t *testing.T) {
		rec := do(t, newTestRouter(&fakeEngagement{}, &fakeResponses{}), http.MethodPost, "/devices/"+device+"/surveys/21/responses", `{"answers":[{"questionId":0}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
