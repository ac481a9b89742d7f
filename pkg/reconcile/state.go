package reconcile

import "github.com/chris/topup-webhook-bridge/pkg/models"

// Gateway transaction statuses.
const (
	StatusCapture    = "capture"
	StatusSettlement = "settlement"
	StatusPending    = "pending"
	StatusCancel     = "cancel"
	StatusDeny       = "deny"
	StatusExpire     = "expire"
	StatusFailure    = "failure"
)

// Gateway fraud verdicts.
const (
	FraudAccept    = "accept"
	FraudChallenge = "challenge"
)

// NextStatus computes the record status that follows a gateway event.
// Terminal statuses never change. The second result is false when the event
// is not one the table knows, in which case the status is returned unchanged.
func NextStatus(current models.TransactionStatus, transactionStatus, fraudStatus string) (models.TransactionStatus, bool) {
	if current.IsTerminal() {
		return current, true
	}

	switch transactionStatus {
	case StatusCapture:
		switch fraudStatus {
		case FraudChallenge:
			return models.CHALLENGE, true
		case FraudAccept:
			return models.SUCCESS, true
		}
		return current, false
	case StatusSettlement:
		return models.SUCCESS, true
	case StatusPending:
		return current, true
	case StatusCancel, StatusDeny, StatusExpire, StatusFailure:
		return models.FAILED, true
	}
	return current, false
}
