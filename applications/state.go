package applications

import "acmex/models"

// Transition actors
const (
	byManager  = "manager"
	byExplorer = "explorer"
	byPayment  = "payment"
)

// allowed maps actor -> from-status -> permitted target statuses.
// PENDING -> {DUE, REJECTED} is manager-driven, PENDING|ACCEPTED ->
// CANCELLED is explorer-driven, DUE -> ACCEPTED happens only through a
// confirmed payment.
var allowed = map[string]map[string][]string{
	byManager: {
		models.StatusPending: {models.StatusDue, models.StatusRejected},
	},
	byExplorer: {
		models.StatusPending:  {models.StatusCancelled},
		models.StatusAccepted: {models.StatusCancelled},
	},
	byPayment: {
		models.StatusDue: {models.StatusAccepted},
	},
}

// CanTransition reports whether the given actor kind may move an
// application from one status to another.
func CanTransition(actor, from, to string) bool {
	for _, t := range allowed[actor][from] {
		if t == to {
			return true
		}
	}
	return false
}
