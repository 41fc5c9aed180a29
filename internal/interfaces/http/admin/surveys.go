package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/sngm3741/transit-survey-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
	"github.com/sngm3741/transit-survey-services/api/internal/interfaces/http/common"
)

func (h *Handler) surveyListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		query := r.URL.Query()
		filter := adminapp.SurveyFilter{
			Keyword: strings.TrimSpace(query.Get("keyword")),
			StopID:  strings.TrimSpace(query.Get("stopId")),
			RouteID: strings.TrimSpace(query.Get("routeId")),
		}
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 50)
		if limit > 200 {
			limit = 200
		}

		surveys, err := h.surveyService.List(ctx, filter, adminapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.logger.Error().Err(err).Msg("admin survey list failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケート一覧の取得に失敗しました")
			return
		}

		items := make([]surveyResponse, 0, len(surveys))
		for _, survey := range surveys {
			items = append(items, surveyDomainToResponse(survey))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, surveyListResponse{Items: items})
	}
}

func (h *Handler) surveyDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := common.ParseID(chi.URLParam(r, "id"))
		if !ok {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDの形式が不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		survey, err := h.surveyService.Detail(ctx, id)
		if err != nil {
			h.writeSurveyError(w, err, id, "detail")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, surveyDomainToResponse(*survey))
	}
}

func (h *Handler) surveyCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req surveyCreateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		survey, err := h.surveyService.Create(ctx, buildSurveyCommand(req))
		if err != nil {
			h.writeSurveyError(w, err, 0, "create")
			return
		}

		h.auditLog(r, "survey_created").Int("survey_id", survey.ID).Send()
		common.WriteJSON(h.logger, w, http.StatusCreated, surveyDomainToResponse(*survey))
	}
}

func (h *Handler) surveyUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := common.ParseID(chi.URLParam(r, "id"))
		if !ok {
			common.WriteError(h.logger, w, http.StatusBadRequest, "アンケートIDの形式が不正です")
			return
		}

		var req surveyUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		existing, err := h.surveyService.Detail(ctx, id)
		if err != nil {
			h.writeSurveyError(w, err, id, "update")
			return
		}

		cmd := buildSurveyCommandFromDomain(*existing)
		applySurveyUpdateRequest(req, &cmd)

		survey, err := h.surveyService.Update(ctx, id, cmd)
		if err != nil {
			h.writeSurveyError(w, err, id, "update")
			return
		}
		survey.Stats = existing.Stats

		h.auditLog(r, "survey_updated").Int("survey_id", id).Send()
		common.WriteJSON(h.logger, w, http.StatusOK, surveyDomainToResponse(*survey))
	}
}

func (h *Handler) writeSurveyError(w http.ResponseWriter, err error, id int, op string) {
	switch {
	case errors.Is(err, adminapp.ErrNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません")
	case errors.Is(err, admindomain.ErrInvalid):
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Int("survey_id", id).Str("op", op).Msg("admin survey request failed")
		common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケートの処理に失敗しました")
	}
}
