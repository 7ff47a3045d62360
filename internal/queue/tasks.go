package queue

const (
	TypeVoiceExtract = "extraction:voice"
	TypeCardExtract  = "extraction:card"
)

type VoiceExtractPayload struct {
	LeadID      string `json:"lead_id"`
	ExhibitorID string `json:"exhibitor_id"`
	StorageKey  string `json:"storage_key"`
	ContentType string `json:"content_type"`
	// Language is an optional BCP-47 hint forwarded to the transcriber.
	Language string `json:"language,omitempty"`
}

type CardExtractPayload struct {
	LeadID      string `json:"lead_id"`
	ExhibitorID string `json:"exhibitor_id"`
	StorageKey  string `json:"storage_key"`
	ContentType string `json:"content_type"`
}
