package usecase

import (
	settingsdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/settings/domain"
)

// Disposition is what the router decides to do with a fresh draft.
type Disposition int

const (
	DispositionQueue Disposition = iota
	DispositionAutoSend
)

func (d Disposition) String() string {
	if d == DispositionAutoSend {
		return "auto_send"
	}
	return "queue"
}

// Route gates a drafted reply on the operation mode and the model's
// confidence. thresholdPct is the 50..100 integer setting; confidence is the
// model's 0..1 score. Meeting the threshold exactly auto-sends.
func Route(mode settingsdomain.OperationMode, thresholdPct int, confidence float64) Disposition {
	switch mode {
	case settingsdomain.ModeAuto:
		return DispositionAutoSend
	case settingsdomain.ModeSemiAuto:
		if confidence*100 >= float64(thresholdPct) {
			return DispositionAutoSend
		}
		return DispositionQueue
	default:
		return DispositionQueue
	}
}
