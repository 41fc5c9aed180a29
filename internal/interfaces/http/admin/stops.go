package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	adminapp "github.com/sngm3741/transit-survey-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
	"github.com/sngm3741/transit-survey-services/api/internal/interfaces/http/common"
)

func (h *Handler) stopSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		query := r.URL.Query()
		filter := adminapp.StopFilter{
			Keyword: strings.TrimSpace(query.Get("keyword")),
			RouteID: strings.TrimSpace(query.Get("routeId")),
		}
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 50)

		stops, err := h.stopService.List(ctx, filter, adminapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.logger.Error().Err(err).Msg("admin stop search failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "停留所一覧の取得に失敗しました")
			return
		}

		items := make([]stopResponse, 0, len(stops))
		for _, stop := range stops {
			items = append(items, stopDomainToResponse(stop))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, stopListResponse{Items: items})
	}
}

func (h *Handler) stopDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		stop, err := h.stopService.Detail(ctx, idParam)
		if err != nil {
			if errors.Is(err, adminapp.ErrNotFound) {
				common.WriteError(h.logger, w, http.StatusNotFound, "停留所が見つかりません")
				return
			}
			h.logger.Error().Err(err).Str("stop_id", idParam).Msg("admin stop detail fetch failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "停留所情報の取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, stopDomainToResponse(*stop))
	}
}

func (h *Handler) stopUpsertHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))

		var req stopUpsertRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		stop, err := h.stopService.Upsert(ctx, idParam, adminapp.UpsertStopCommand{Name: req.Name, RouteIDs: req.RouteIDs})
		if err != nil {
			if errors.Is(err, admindomain.ErrInvalid) {
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
				return
			}
			h.logger.Error().Err(err).Str("stop_id", idParam).Msg("admin stop upsert failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "停留所の保存に失敗しました")
			return
		}

		h.auditLog(r, "stop_upserted").Str("stop_id", stop.ID.String()).Send()
		common.WriteJSON(h.logger, w, http.StatusOK, stopDomainToResponse(*stop))
	}
}

// auditLog は操作したオペレーターを付与した監査ログイベントを返す。
func (h *Handler) auditLog(r *http.Request, action string) *zerolog.Event {
	ev := h.logger.Info().Str("action", action)
	if user, ok := common.UserFromContext(r.Context()); ok {
		ev = ev.Str("operator_id", user.ID)
	}
	return ev
}
