package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	Timestamp         time.Time        `json:"timestamp"`
	EventType         string           `json:"event_type"`
	AuthorizationCode string           `json:"authorization_code,omitempty"`
	UserID            int64            `json:"user_id,omitempty"`
	CardID            int64            `json:"card_id,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Status            string           `json:"status"`
	Details           any              `json:"details,omitempty"`
}

// Logger writes one JSON line per event with an AUDIT: prefix.
type Logger struct {
	out *log.Logger
	now func() time.Time
}

func NewLogger() *Logger {
	return &Logger{out: log.Default(), now: time.Now}
}

// NewLoggerTo is NewLogger with an explicit destination.
func NewLoggerTo(out *log.Logger) *Logger {
	return &Logger{out: out, now: time.Now}
}

func (a *Logger) LogCardIssued(userID, cardID int64, balance decimal.Decimal) {
	a.log(Event{
		EventType: "CARD_ISSUED",
		UserID:    userID,
		CardID:    cardID,
		Amount:    &balance,
		Status:    "SUCCESS",
	})
}

func (a *Logger) LogAuthorization(userID, cardID int64, amount decimal.Decimal, code, status, reason string) {
	event := Event{
		EventType:         "AUTHORIZATION",
		AuthorizationCode: code,
		UserID:            userID,
		CardID:            cardID,
		Amount:            &amount,
		Status:            status,
	}
	if reason != "" {
		event.Details = map[string]string{"reason": reason}
	}
	a.log(event)
}

func (a *Logger) LogReversal(cardID int64, amount decimal.Decimal, code, description string) {
	a.log(Event{
		EventType:         "REVERSAL",
		AuthorizationCode: code,
		CardID:            cardID,
		Amount:            &amount,
		Status:            "SUCCESS",
		Details:           map[string]string{"description": description},
	})
}

func (a *Logger) LogError(operation string, userID int64, err error) {
	a.log(Event{
		EventType: "ERROR",
		UserID:    userID,
		Status:    "FAILED",
		Details:   map[string]string{"operation": operation, "error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	if a == nil {
		return
	}
	event.Timestamp = a.now()
	data, _ := json.Marshal(event)
	a.out.Printf("AUDIT: %s", string(data))
}
