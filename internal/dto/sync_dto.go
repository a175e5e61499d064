package dto

// Envelope shapes shared by every /api/sync endpoint. Single-record
// endpoints answer with SyncEnvelope; batch endpoints answer 207-style with
// one SyncResult per submitted record so a device can retry only failures.

type SyncEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type SyncResult struct {
	GlobalID string `json:"global_id"`
	Success  bool   `json:"success"`
	// Action: "inserted" | "updated" | "skipped"
	Action  string `json:"action,omitempty"`
	Message string `json:"message,omitempty"`
}

type SyncBatchEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Results []SyncResult `json:"results"`
}
