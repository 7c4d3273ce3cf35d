package amqp

import (
	"encoding/json"
	"time"
)

// ReportRequestMessage asks a worker to compute the report for a dataset file.
type ReportRequestMessage struct {
	Source    string    `json:"source"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReportReadyMessage announces a computed and stored report.
type ReportReadyMessage struct {
	ReportID  int64     `json:"report_id"`
	Source    string    `json:"source"`
	RequestID string    `json:"request_id,omitempty"`
	Items     int       `json:"items"`
	Average   int64     `json:"average"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportRequestMessage(source, requestID string) *ReportRequestMessage {
	return &ReportRequestMessage{
		Source:    source,
		RequestID: requestID,
		Timestamp: time.Now(),
	}
}

func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *ReportReadyMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
