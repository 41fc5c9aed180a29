package public

import (
	"context"
	"net/http"

	"github.com/sngm3741/transit-survey-services/api/internal/interfaces/http/common"
)

func (h *Handler) launchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		prefs, err := h.engagement.RecordLaunch(ctx, deviceID)
		if err != nil {
			h.writeServiceError(w, err, "record_launch")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildPreferencesResponse(prefs))
	}
}

func (h *Handler) preferencesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		prefs, err := h.engagement.Preferences(ctx, deviceID)
		if err != nil {
			h.writeServiceError(w, err, "preferences")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildPreferencesResponse(prefs))
	}
}

func (h *Handler) preferencesUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}

		var req preferencesUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		prefs, err := h.engagement.SetSurveyEnabled(ctx, deviceID, *req.SurveyEnabled)
		if err != nil {
			h.writeServiceError(w, err, "set_survey_enabled")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildPreferencesResponse(prefs))
	}
}
