package server

import "github.com/footlab/pronos/pkg/predict"

// Display labels for market picks. The UI is French, matching the audience
// the team tables were curated for.
const (
	labelOver2p5  = "Plus de 2.5 buts"
	labelUnder2p5 = "Moins de 2.5 buts"
	labelYes      = "Oui"
	labelNo       = "Non"
)

// OverUnderLabel renders the over/under pick for display
func OverUnderLabel(pick predict.OverUnderPick) string {
	if pick == predict.PickOver2p5 {
		return labelOver2p5
	}
	return labelUnder2p5
}

// YesNoLabel renders a yes/no pick for display
func YesNoLabel(pick predict.YesNo) string {
	if pick == predict.PickYes {
		return labelYes
	}
	return labelNo
}
