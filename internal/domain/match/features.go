package match

import (
	"math"
	"regexp"
)

const (
	FeatureGPM          = "gpm"
	FeatureKillsPer10   = "kills_per_10"
	FeatureTurretsPer10 = "turrets_per_10"
	FeatureDragonPer10  = "dragon_per_10"
	FeatureBaronPer10   = "baron_per_10"
	FeatureHeraldPer10  = "herald_per_10"
	FeatureVSPM         = "vspm"
	FeatureFirstTower   = "firsttower"
	FeatureFirstDragon  = "firstdragon"
	FeatureFirstHerald  = "firstherald"
	FeatureFirstBaron   = "firstbaron"
)

// GloryFeatures is the default feature set for scoring.
var GloryFeatures = []string{
	FeatureGPM,
	FeatureKillsPer10,
	FeatureTurretsPer10,
	FeatureDragonPer10,
	FeatureBaronPer10,
	FeatureHeraldPer10,
	FeatureVSPM,
	FeatureFirstTower,
	FeatureFirstDragon,
	FeatureFirstHerald,
	FeatureFirstBaron,
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether name can be used as a stat source or
// feature column without quoting.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// FeatureRow is the rate-normalized view of a Record.
type FeatureRow struct {
	GameID string
	TeamID string
	Values map[string]float64
}

// DeriveFeatures computes every glory feature for a record. It returns false
// when the game length is not positive or any value is not finite.
func DeriveFeatures(r Record) (FeatureRow, bool) {
	minutes := r.GameLength / 60
	if !(minutes > 0) {
		return FeatureRow{}, false
	}
	tens := minutes / 10

	values := map[string]float64{
		FeatureGPM:          r.TotalGold / minutes,
		FeatureKillsPer10:   r.Kills / tens,
		FeatureTurretsPer10: r.Towers / tens,
		FeatureDragonPer10:  r.Dragons / tens,
		FeatureBaronPer10:   r.Barons / tens,
		FeatureHeraldPer10:  r.Heralds / tens,
		FeatureVSPM:         r.VisionScore / minutes,
		FeatureFirstTower:   boolValue(r.FirstTower),
		FeatureFirstDragon:  boolValue(r.FirstDragon),
		FeatureFirstHerald:  boolValue(r.FirstHerald),
		FeatureFirstBaron:   boolValue(r.FirstBaron),
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FeatureRow{}, false
		}
	}

	return FeatureRow{GameID: r.GameID, TeamID: r.TeamID, Values: values}, true
}

func boolValue(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
