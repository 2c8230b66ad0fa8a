package deadline

import "time"

// Label derives the binary training label for one deadline, where 1 means
// "was or will be missed". The rule only builds a training set — rows it
// cannot decide are excluded from training, never scored as wrong:
//
//   - fulfilled:     1 iff fulfilled after due; unlabeled when either date
//     is missing.
//   - not fulfilled: 1 iff already past due at now; otherwise the outcome
//     is still pending and the row is unlabeled.
//
// The second return value reports whether a label exists.
func Label(fulfilled bool, dueAt, fulfilledAt *time.Time, now time.Time) (int, bool) {
	if fulfilled {
		if fulfilledAt == nil || dueAt == nil {
			return 0, false
		}
		if fulfilledAt.After(*dueAt) {
			return 1, true
		}
		return 0, true
	}
	if dueAt == nil {
		return 0, false
	}
	if now.After(*dueAt) {
		return 1, true
	}
	return 0, false
}

// Labeled returns the indices and labels of every row the labeling rule can
// decide, in input order.
func Labeled(rows []Deadline, now time.Time) (idx []int, labels []int) {
	for i, r := range rows {
		if y, ok := Label(r.Fulfilled, r.DueAt, r.FulfilledAt, now); ok {
			idx = append(idx, i)
			labels = append(labels, y)
		}
	}
	return idx, labels
}
