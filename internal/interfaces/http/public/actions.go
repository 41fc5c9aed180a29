package public

import (
	"context"
	"net/http"

	engagementapp "github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
	"github.com/sngm3741/transit-survey-services/api/internal/interfaces/http/common"
)

type surveyAction func(ctx context.Context, deviceID string, surveyID int) (domain.Preferences, error)

func (h *Handler) completeHandler() http.HandlerFunc {
	return h.surveyActionHandler("complete", h.engagement.Complete)
}

func (h *Handler) skipHandler() http.HandlerFunc {
	return h.surveyActionHandler("skip", h.engagement.Skip)
}

func (h *Handler) remindLaterHandler() http.HandlerFunc {
	return h.surveyActionHandler("remind_later", h.engagement.RemindLater)
}

func (h *Handler) surveyActionHandler(op string, action surveyAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}
		surveyID, ok := h.surveyID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		prefs, err := action(ctx, deviceID, surveyID)
		if err != nil {
			h.writeServiceError(w, err, op)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildPreferencesResponse(prefs))
	}
}

func (h *Handler) responseCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}
		surveyID, ok := h.surveyID(w, r)
		if !ok {
			return
		}

		var req responseCreateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		answers := make([]domain.Answer, 0, len(req.Answers))
		for _, a := range req.Answers {
			answers = append(answers, domain.Answer{QuestionID: a.QuestionID, Values: a.Values})
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		response, err := h.responses.Submit(ctx, engagementapp.SubmitResponseCommand{
			DeviceID: deviceID,
			SurveyID: surveyID,
			StopID:   req.StopID,
			Answers:  answers,
		})
		if err != nil {
			h.writeServiceError(w, err, "submit_response")
			return
		}

		prefs, err := h.engagement.Preferences(ctx, deviceID)
		if err != nil {
			h.writeServiceError(w, err, "preferences")
			return
		}

		h.logger.Info().
			Str("device_id", deviceID).
			Int("survey_id", surveyID).
			Str("response_id", response.ID).
			Msg("survey response stored")

		common.WriteJSON(h.logger, w, http.StatusCreated, responseCreateResponse{
			ID:          response.ID,
			SurveyID:    response.SurveyID,
			SubmittedAt: response.SubmittedAt,
			Preferences: buildPreferencesResponse(prefs),
		})
	}
}
