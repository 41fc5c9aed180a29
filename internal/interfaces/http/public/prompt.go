package public

import (
	"context"
	"net/http"
	"strings"

	engagementapp "github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	"github.com/sngm3741/transit-survey-services/api/internal/interfaces/http/common"
)

// promptHandler は表示すべきアンケートを返す。表示対象がなければ 204。
func (h *Handler) promptHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		req := engagementapp.PromptRequest{StopID: strings.TrimSpace(r.URL.Query().Get("stopId"))}
		survey, err := h.engagement.NextPrompt(ctx, deviceID, req)
		if err != nil {
			h.writeServiceError(w, err, "next_prompt")
			return
		}
		if survey == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildSurveyPromptResponse(*survey))
	}
}
