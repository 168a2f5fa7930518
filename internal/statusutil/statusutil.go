// Package statusutil implements the item status cycle.
package statusutil

import "github.com/nhle/hammer-list/internal/model"

// Advance returns the status that follows s in the fixed cycle
// NotStarted -> InProgress -> Completed -> NotStarted. It is the only
// permitted transition. Unknown values restart the cycle.
func Advance(s model.Status) model.Status {
	if !s.Valid() {
		return model.StatusNotStarted
	}
	all := model.AllStatuses
	for i, st := range all {
		if st == s {
			return all[(i+1)%len(all)]
		}
	}
	return model.StatusNotStarted
}

// Repair maps a persisted status outside the known set to Completed. Old
// databases stored a boolean "checked" flag whose true value lands there.
func Repair(s model.Status) (model.Status, bool) {
	if s.Valid() {
		return s, false
	}
	return model.StatusCompleted, true
}

// IsDone reports whether s ends the cycle.
func IsDone(s model.Status) bool {
	return s == model.StatusCompleted
}
