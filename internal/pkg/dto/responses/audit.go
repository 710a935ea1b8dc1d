package responses

import "time"

type AuditExport struct {
	TargetID   string    `json:"targetId"`
	Entries    int       `json:"entries"`
	URL        string    `json:"url"`
	ExportedAt time.Time `json:"exportedAt"`
}
