package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/prometheus/internal/domain/league"
	"github.com/riskibarqy/prometheus/internal/domain/ranking"
	"github.com/riskibarqy/prometheus/internal/usecase"
)

func (h *Handler) Rankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Rankings")
	defer span.End()

	req, err := decodeRankingsRequest(r, h.defaults)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	metric, err := ranking.ParseMetric(req.Metric)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	table, err := h.rankingService.Rank(ctx, usecase.RankInput{
		Metric:         req.Metric,
		Years:          req.Years,
		Leagues:        req.Leagues,
		MinimumMatches: req.MinimumMatches,
		Baseline:       req.Baseline,
		ZScores:        req.ZScores,
		SkipRescale:    req.SkipRescale,
		SortBy:         req.SortBy,
		SkipEmptyYears: req.SkipEmptyYears,
	})
	if err != nil {
		h.fail(ctx, w, "rank teams failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toRankingsDTO(metric, req, table))
}

func decodeRankingsRequest(r *http.Request, defaults Defaults) (rankingsRequest, error) {
	q := r.URL.Query()

	req := rankingsRequest{
		Metric:  strings.ToLower(strings.TrimSpace(q.Get("metric"))),
		Leagues: queryLeagues(q),
		SortBy:  strings.TrimSpace(q.Get("sort_by")),
	}
	if req.Metric == "" {
		req.Metric = string(ranking.MetricGlory)
	}

	var err error
	if req.Years, err = queryInts(q, "year"); err != nil {
		return rankingsRequest{}, err
	}
	if req.Limit, err = queryInt(q, "n", 0); err != nil {
		return rankingsRequest{}, err
	}
	if req.MinimumMatches, err = queryInt(q, "min_matches", defaults.MinimumMatches); err != nil {
		return rankingsRequest{}, err
	}
	if req.ZScores, err = queryBool(q, "zscores"); err != nil {
		return rankingsRequest{}, err
	}
	if req.Baseline, err = queryBool(q, "baseline"); err != nil {
		return rankingsRequest{}, err
	}
	if req.SkipRescale, err = queryBool(q, "no_rescale"); err != nil {
		return rankingsRequest{}, err
	}
	if req.SkipEmptyYears, err = queryBool(q, "skip_empty_years"); err != nil {
		return rankingsRequest{}, err
	}
	return req, nil
}

func (h *Handler) Weights(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Weights")
	defer span.End()

	q := r.URL.Query()
	years, err := queryInts(q, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := weightsRequest{Years: years, Leagues: queryLeagues(q)}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	weights, err := h.weightsService.Weights(ctx, usecase.WeightsInput{
		StatSource: h.defaults.StatSource,
		Features:   h.defaults.Features,
		Years:      req.Years,
		Leagues:    req.Leagues,
	})
	if err != nil {
		h.fail(ctx, w, "fit weights failed", err)
		return
	}

	out := make([]yearWeightsDTO, 0, len(weights))
	for _, item := range weights {
		out = append(out, toYearWeightsDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) Leagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leagues")
	defer span.End()

	years := league.DefaultYears()
	major := make([]majorLeaguesDTO, 0, len(years))
	for _, year := range years {
		major = append(major, majorLeaguesDTO{Year: year, Leagues: league.Strings(league.MajorFor(year))})
	}

	writeSuccess(ctx, w, http.StatusOK, leaguesDTO{
		Leagues: league.Strings(league.All()),
		Major:   major,
	})
}
