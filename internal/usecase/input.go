package usecase

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/prometheus/internal/domain/league"
	"github.com/riskibarqy/prometheus/internal/domain/match"
)

const (
	minYear = 2000
	maxYear = 2100
)

func validateStatSource(statSource string) (string, error) {
	statSource = strings.TrimSpace(statSource)
	if !match.ValidIdentifier(statSource) {
		return "", fmt.Errorf("%w: invalid stat source %q", ErrInvalidInput, statSource)
	}
	return statSource, nil
}

func normalizeFeatures(features, fallback []string) ([]string, error) {
	if len(features) == 0 {
		features = fallback
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: at least one feature is required", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(features))
	out := make([]string, 0, len(features))
	for _, raw := range features {
		name := strings.TrimSpace(raw)
		if !match.ValidIdentifier(name) {
			return nil, fmt.Errorf("%w: invalid feature %q", ErrInvalidInput, raw)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

func normalizeYears(years []int) ([]int, error) {
	if len(years) == 0 {
		return league.DefaultYears(), nil
	}
	seen := make(map[int]struct{}, len(years))
	out := make([]int, 0, len(years))
	for _, year := range years {
		if year < minYear || year > maxYear {
			return nil, fmt.Errorf("%w: year %d out of range %d-%d", ErrInvalidInput, year, minYear, maxYear)
		}
		if _, ok := seen[year]; ok {
			continue
		}
		seen[year] = struct{}{}
		out = append(out, year)
	}
	return out, nil
}

func parseLeagues(raw []string) ([]league.Code, error) {
	codes, err := league.ParseAll(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return codes, nil
}
