package billing

import "github.com/noah-isme/tutor-adp-api/internal/models"

// ReconcileAction is the decision the bad-debt reconciler takes for a student.
type ReconcileAction string

// Possible reconcile decisions.
const (
	ActionKeepBadDebt    ReconcileAction = "KEEP_BAD_DEBT"
	ActionClearBadDebt   ReconcileAction = "CLEAR_BAD_DEBT"
	ActionAutoSetBadDebt ReconcileAction = "AUTO_SET_BAD_DEBT"
	ActionNoAction       ReconcileAction = "NO_ACTION"
)

// Decide resolves the bad-debt action from the student's settlement-invoice
// history and raw session counters. A BAD_DEBT invoice always wins: once a
// debt has been written off, counter drift or a later PAID invoice must not
// silently clear the flag; only the invoice history itself is evidence.
// The function never fails; absent data routes to NO_ACTION.
func Decide(history models.InvoiceHistory, attended, registered int) ReconcileAction {
	if history.HasBadDebt {
		return ActionKeepBadDebt
	}
	if history.HasPaid {
		return ActionClearBadDebt
	}
	if attended > registered {
		return ActionAutoSetBadDebt
	}
	return ActionNoAction
}
