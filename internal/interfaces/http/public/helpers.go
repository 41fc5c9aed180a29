package public

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	engagementapp "github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	"github.com/sngm3741/transit-survey-services/api/internal/interfaces/http/common"
)

// deviceID はパスパラメータのデバイス ID を検証する。失敗時はレスポンスを書き込んで false を返す。
func (h *Handler) deviceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := common.ParseDeviceID(chi.URLParam(r, "deviceID"))
	if err != nil {
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// surveyID はパスパラメータのアンケート ID を検証する。
func (h *Handler) surveyID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := common.ParseID(chi.URLParam(r, "surveyID"))
	if !ok {
		common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDの形式が不正です")
		return 0, false
	}
	return id, true
}

// writeServiceError はアプリケーション層のエラーを HTTP ステータスへ変換する。
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, engagementapp.ErrInvalidDeviceID):
		common.WriteError(h.logger, w, http.StatusBadRequest, "デバイスIDの形式が不正です")
	case errors.Is(err, engagementapp.ErrSurveyNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません")
	case errors.Is(err, engagementapp.ErrInvalidAnswers):
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Str("op", op).Msg("request failed")
		common.WriteError(h.logger, w, http.StatusInternalServerError, "処理に失敗しました")
	}
}
