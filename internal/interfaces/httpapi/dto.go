package httpapi

import (
	"math"

	"github.com/riskibarqy/prometheus/internal/domain/ranking"
	"github.com/riskibarqy/prometheus/internal/usecase"
)

type rankingsRequest struct {
	Metric         string   `validate:"required,oneof=glory glorb"`
	Years          []int    `validate:"max=50,dive,gte=2000,lte=2100"`
	Leagues        []string `validate:"max=32,dive,required,max=16"`
	Limit          int      `validate:"gte=0,lte=10000"`
	MinimumMatches int      `validate:"gte=0"`
	SortBy         string   `validate:"omitempty,max=64"`
	ZScores        bool
	Baseline       bool
	SkipRescale    bool
	SkipEmptyYears bool
}

type weightsRequest struct {
	Years   []int    `validate:"max=50,dive,gte=2000,lte=2100"`
	Leagues []string `validate:"max=32,dive,required,max=16"`
}

type rankingsDTO struct {
	Metric      string          `json:"metric"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Features    []string        `json:"features"`
	ZScores     bool            `json:"zscores"`
	Total       int             `json:"total"`
	Rows        []rankingRowDTO `json:"rows"`
}

type rankingRowDTO struct {
	Rank        int                `json:"rank"`
	TeamName    string             `json:"team_name"`
	Year        int                `json:"year"`
	League      string             `json:"league"`
	Games       int                `json:"games"`
	Score       float64            `json:"score"`
	EraScore    *float64           `json:"era_score,omitempty"`
	LeagueScore *float64           `json:"league_score,omitempty"`
	Features    map[string]float64 `json:"features"`
}

type yearWeightsDTO struct {
	Year         int                `json:"year"`
	Leagues      []string           `json:"leagues"`
	Features     []string           `json:"features"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	TrainRows    int                `json:"train_rows"`
	TestRows     int                `json:"test_rows"`
	Accuracy     *float64           `json:"accuracy"`
	RSquared     *float64           `json:"r_squared"`
}

type majorLeaguesDTO struct {
	Year    int      `json:"year"`
	Leagues []string `json:"leagues"`
}

type leaguesDTO struct {
	Leagues []string          `json:"leagues"`
	Major   []majorLeaguesDTO `json:"major"`
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toRankingsDTO(metric ranking.Metric, req rankingsRequest, table ranking.Table) rankingsDTO {
	head := table.Head(req.Limit)
	rows := make([]rankingRowDTO, 0, len(head.Rows))
	for i, r := range head.Rows {
		row := rankingRowDTO{
			Rank:     i + 1,
			TeamName: r.TeamName,
			Year:     r.Year,
			League:   r.League,
			Games:    r.Games,
			Score:    r.Score,
			Features: r.Features,
		}
		if r.EraScore != nil {
			row.EraScore = finiteOrNil(*r.EraScore)
		}
		if r.LeagueScore != nil {
			row.LeagueScore = finiteOrNil(*r.LeagueScore)
		}
		rows = append(rows, row)
	}
	return rankingsDTO{
		Metric:      string(metric),
		Title:       metric.Heading(req.Leagues, req.Years),
		Description: metric.Description(),
		Features:    table.Features,
		ZScores:     table.ZScores,
		Total:       len(table.Rows),
		Rows:        rows,
	}
}

func toYearWeightsDTO(w usecase.YearWeights) yearWeightsDTO {
	return yearWeightsDTO{
		Year:         w.Year,
		Leagues:      w.Leagues,
		Features:     w.Features,
		Intercept:    w.Intercept,
		Coefficients: w.Coefficients,
		TrainRows:    w.TrainRows,
		TestRows:     w.Evaluation.Samples,
		Accuracy:     finiteOrNil(w.Evaluation.Accuracy),
		RSquared:     finiteOrNil(w.Evaluation.RSquared),
	}
}
