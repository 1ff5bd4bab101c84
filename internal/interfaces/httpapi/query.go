package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/prometheus/internal/usecase"
)

// queryList accepts both repeated keys and comma separated values.
func queryList(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryLeagues(values url.Values) []string {
	out := queryList(values, "league")
	for i, item := range out {
		out[i] = strings.ToUpper(strings.Join(strings.Fields(item), " "))
	}
	return out
}

func queryInts(values url.Values, key string) ([]int, error) {
	raw := queryList(values, key)
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		v, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, key, item)
		}
		out = append(out, v)
	}
	return out, nil
}

func queryInt(values url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, key, raw)
	}
	return v, nil
}

func queryBool(values url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean, got %q", usecase.ErrInvalidInput, key, raw)
	}
	return v, nil
}
