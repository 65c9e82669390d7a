package handlers

import (
	"log/slog"
	"net/http"

	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/validation"
	"go_igreja_admin/internal/webutil"
)

type ReportHandler struct {
	store  ReportStore
	logger *slog.Logger
}

func NewReportHandler(s ReportStore, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{store: s, logger: logger}
}

// periodFromQuery は from / to を期間に変換する。両方とも未指定なら nil。
func periodFromQuery(r *http.Request) (*model.Period, error) {
	q := r.URL.Query()
	from, err := model.ParseDate(q.Get("from"))
	if err != nil {
		return nil, model.NewAppError("INVALID_QUERY", "Data inicial inválida.", "from", err)
	}
	to, err := model.ParseDate(q.Get("to"))
	if err != nil {
		return nil, model.NewAppError("INVALID_QUERY", "Data final inválida.", "to", err)
	}
	switch {
	case from == nil && to == nil:
		return nil, nil
	case from == nil || to == nil:
		return nil, model.NewAppError("INVALID_QUERY", "Informe as datas inicial e final.", "from,to", model.ErrInvalidInput)
	case to.Before(*from):
		return nil, model.NewAppError("INVALID_QUERY", "A data final deve ser posterior à inicial.", "to", model.ErrInvalidInput)
	}
	return &model.Period{From: *from, To: *to}, nil
}

func optional[T ~string](q string) *T {
	if q == "" {
		return nil
	}
	v := T(q)
	return &v
}

// ListMembers は type / sex / status / from / to で絞り込んだ教会員を返す
func (h *ReportHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "ReportListMembers")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := &model.MemberFilter{
		Type:   optional[model.MemberType](q.Get("type")),
		Sex:    optional[string](q.Get("sex")),
		Status: optional[model.MemberStatus](q.Get("status")),
	}
	if err := validation.Struct(filter); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	period, err := periodFromQuery(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if period != nil {
		filter.AdmittedFrom = &period.From
		filter.AdmittedUntil = &period.To
	}

	members, err := h.store.GetMembersFiltered(r.Context(), igrejaID, filter)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, emptyIfNil(members))
}

func (h *ReportHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "GetStatistics")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	period, err := periodFromQuery(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	stats, err := h.store.GetStatistics(r.Context(), igrejaID, period)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *ReportHandler) GetOccurrences(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "GetOccurrences")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	period, err := periodFromQuery(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	occurrences, err := h.store.GetOccurrences(r.Context(), igrejaID, period)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, emptyIfNil(occurrences))
}

func (h *ReportHandler) GetChartData(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r, h.logger, "GetChartData")
	igrejaID, ok := igrejaFromRequest(w, r, logger)
	if !ok {
		return
	}
	data, err := h.store.GetChartData(r.Context(), igrejaID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, data)
}
