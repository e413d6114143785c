package services

import "time"

// Outcome classifies how a core operation ended. Fatal storage failures are
// reported separately as a Go error.
type Outcome string

const (
	OutcomeOK        Outcome = "OK"
	OutcomeNotFound  Outcome = "NOT_FOUND"
	OutcomeDeclined  Outcome = "DECLINED"
	OutcomeForbidden Outcome = "FORBIDDEN"
	OutcomeConflict  Outcome = "CONFLICT"
)

type AuthorizationStatus string

const (
	StatusAuthorized    AuthorizationStatus = "AUTHORIZED"
	StatusNotAuthorized AuthorizationStatus = "NOT_AUTHORIZED"
)

type DeclineReason string

const (
	ReasonNone              DeclineReason = ""
	ReasonUserNotFound      DeclineReason = "UserNotFound"
	ReasonCardNotFound      DeclineReason = "CardNotFound"
	ReasonCardExpired       DeclineReason = "CardExpired"
	ReasonInsufficientFunds DeclineReason = "InsufficientFunds"
	ReasonInvalidAmount     DeclineReason = "InvalidAmount"
	ReasonConflict          DeclineReason = "Conflict"
)

var reasonMessages = map[DeclineReason]string{
	ReasonUserNotFound:      "User not found",
	ReasonCardNotFound:      "Card not found for user",
	ReasonCardExpired:       "Card expired",
	ReasonInsufficientFunds: "Insufficient funds for purchase",
	ReasonInvalidAmount:     "Amount must be greater than zero with at most two decimal places",
	ReasonConflict:          "Card is being updated concurrently, please retry",
}

// AuthorizationResult is what the authorize endpoint returns to clients.
type AuthorizationResult struct {
	Status            AuthorizationStatus `json:"status"`
	Timestamp         time.Time           `json:"timestamp"`
	Message           string              `json:"message"`
	AuthorizationCode string              `json:"authorizationCode,omitempty"`

	Reason DeclineReason `json:"-"`
	CardID int64         `json:"-"`
}

func (r AuthorizationResult) Authorized() bool {
	return r.Status == StatusAuthorized
}

func (r AuthorizationResult) Outcome() Outcome {
	switch r.Reason {
	case ReasonNone:
		return OutcomeOK
	case ReasonUserNotFound, ReasonCardNotFound:
		return OutcomeNotFound
	case ReasonConflict:
		return OutcomeConflict
	default:
		return OutcomeDeclined
	}
}

func declined(reason DeclineReason, at time.Time) AuthorizationResult {
	return AuthorizationResult{
		Status:    StatusNotAuthorized,
		Timestamp: at,
		Message:   reasonMessages[reason],
		Reason:    reason,
	}
}
