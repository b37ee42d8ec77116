package domain

import "time"

// AuditFields holds standard audit information for domain entities. The By
// fields carry the operator identity supplied with the originating request
// and are empty for unattributed actions.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
