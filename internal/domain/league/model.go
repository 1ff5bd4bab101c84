package league

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownLeague = errors.New("unknown league")

// Code is a professional League of Legends competition as labelled in match data.
type Code string

const (
	LCK    Code = "LCK"
	LPL    Code = "LPL"
	EULCS  Code = "EU LCS"
	NALCS  Code = "NA LCS"
	LEC    Code = "LEC"
	LCS    Code = "LCS"
	LTAN   Code = "LTA N"
	LTAS   Code = "LTA S"
	LCP    Code = "LCP"
	PCS    Code = "PCS"
	VCS    Code = "VCS"
	LJL    Code = "LJL"
	TCL    Code = "TCL"
	CBLOL  Code = "CBLOL"
	LLA    Code = "LLA"
	OPL    Code = "OPL"
	LCL    Code = "LCL"
	LCO    Code = "LCO"
	WCS    Code = "WCS"
	MSI    Code = "MSI"
	WORLDS Code = "WORLDS"

	// Major is a pseudo-league that expands to the major leagues of a year.
	Major Code = "MAJOR"
)

var allCodes = []Code{
	LCK, LPL, EULCS, NALCS, LEC, LCS, LTAN, LTAS, LCP,
	PCS, VCS, LJL, TCL, CBLOL, LLA, OPL, LCL, LCO,
	WCS, MSI, WORLDS,
}

var codeByName = func() map[string]Code {
	out := make(map[string]Code, len(allCodes)+1)
	for _, code := range allCodes {
		out[string(code)] = code
	}
	out[string(Major)] = Major
	return out
}()

// All returns every concrete league code, excluding Major.
func All() []Code {
	return append([]Code(nil), allCodes...)
}

// Parse resolves a league label case-insensitively.
func Parse(raw string) (Code, error) {
	name := strings.ToUpper(strings.Join(strings.Fields(raw), " "))
	code, ok := codeByName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLeague, raw)
	}
	return code, nil
}

// ParseAll parses every label and keeps their order.
func ParseAll(raw []string) ([]Code, error) {
	out := make([]Code, 0, len(raw))
	for _, item := range raw {
		code, err := Parse(item)
		if err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return out, nil
}

func (c Code) String() string {
	return string(c)
}

func Strings(codes []Code) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		out = append(out, string(code))
	}
	return out
}
