package analytics

import "github.com/gemscap/statarb-engine/internal/model"

// DefaultUpperThreshold and DefaultLowerThreshold are the spec's signal
// defaults.
const (
	DefaultUpperThreshold = 2.0
	DefaultLowerThreshold = -2.0
)

// Signal derives a buy/sell/neutral signal from the current z-score.
// sell when z exceeds upper, buy when z is below lower, else neutral.
func Signal(z, upper, lower float64) model.Signal {
	switch {
	case z > upper:
		return model.SignalSell
	case z < lower:
		return model.SignalBuy
	default:
		return model.SignalNeutral
	}
}
