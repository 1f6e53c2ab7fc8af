package amqp

import (
	"encoding/json"
	"time"
)

// RunCompletedMessage announces a finished processing run. It carries only
// summary figures; consumers fetch the full dataset from the runs database
// by ID.
type RunCompletedMessage struct {
	RunID         string    `json:"run_id"`
	Source        string    `json:"source"`
	Sheet         string    `json:"sheet"`
	BudgetLines   int       `json:"budget_lines"`
	MonthsStored  int       `json:"months_stored"`
	Diagnostics   int       `json:"diagnostics"`
	TotalPlanned  float64   `json:"total_planned"`
	TotalSpent    float64   `json:"total_spent"`
	TotalVariance float64   `json:"total_variance"`
	OutputPath    string    `json:"output_path"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewRunCompletedMessage(runID, source, sheet string) *RunCompletedMessage {
	return &RunCompletedMessage{
		RunID:     runID,
		Source:    source,
		Sheet:     sheet,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RunCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RunCompletedMessageFromJSON creates a message from JSON bytes
func RunCompletedMessageFromJSON(data []byte) (*RunCompletedMessage, error) {
	var msg RunCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
