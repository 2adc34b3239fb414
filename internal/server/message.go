package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lox/handeval/internal/evaluator"
	"github.com/lox/handeval/poker"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeEvaluate MessageType = "evaluate"
	MessageTypeCompare  MessageType = "compare"

	// Server to client messages
	MessageTypeResults    MessageType = "results"
	MessageTypeComparison MessageType = "comparison"
	MessageTypeError      MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes sent in ErrorData.
const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeBatchTooLarge  = "batch_too_large"
	ErrCodeUnknownType    = "unknown_message_type"
	ErrCodeInvalidHand    = "invalid_hand"
	ErrCodeCancelled      = "cancelled"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type EvaluateData struct {
	Hands []string `json:"hands"`
}

type CompareData struct {
	Hands []string `json:"hands"`
}

// Server → Client Messages

// HandResult describes one evaluated input. Error fields are set instead of
// the hand fields when the input was rejected.
type HandResult struct {
	Input     string   `json:"input"`
	Cards     []string `json:"cards,omitempty"`
	Category  string   `json:"category,omitempty"`
	Ordinal   int      `json:"ordinal"`
	Rank      []int    `json:"rank,omitempty"`
	Error     string   `json:"error,omitempty"`
	ErrorKind string   `json:"errorKind,omitempty"`
}

type ResultsData struct {
	Results []HandResult `json:"results"`
}

type ComparisonData struct {
	Hands  []HandResult `json:"hands"`
	Result int          `json:"result"` // -1, 0 or 1 comparing the first hand to the second
	Winner int          `json:"winner"` // index of the stronger hand, -1 on a tie
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// newHandResult converts a batch result for the wire.
func newHandResult(r evaluator.Result) HandResult {
	out := HandResult{Input: r.Input}
	if r.Err != nil {
		out.Error = r.Err.Error()
		out.ErrorKind = errorKind(r.Err)
		return out
	}

	for _, c := range r.Hand.Cards() {
		out.Cards = append(out.Cards, c.String())
	}
	out.Category = r.Hand.Category().String()
	out.Ordinal = r.Hand.Category().Ordinal()
	key := r.Hand.Rank()
	out.Rank = key[:]
	return out
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, poker.ErrInvalidCard):
		return "card"
	case errors.Is(err, poker.ErrInvalidHand):
		return "hand"
	default:
		return "unknown"
	}
}
