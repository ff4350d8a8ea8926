package domain

import "time"

// AuditAction names a recorded action.
type AuditAction string

const (
	AuditAccountCreated      AuditAction = "ACCOUNT_CREATED"
	AuditAccountUpdated      AuditAction = "ACCOUNT_UPDATED"
	AuditAccountDeleted      AuditAction = "ACCOUNT_DELETED"
	AuditChartSeeded         AuditAction = "CHART_OF_ACCOUNTS_SEEDED"
	AuditTransactionPosted   AuditAction = "TRANSACTION_POSTED"
	AuditTransactionReversed AuditAction = "TRANSACTION_REVERSED"
)

// Audited entity types.
const (
	EntityAccount     = "ACCOUNT"
	EntityTransaction = "TRANSACTION"
	EntityChart       = "CHART_OF_ACCOUNTS"
)

// AuditRecord is an immutable record of an action taken against the ledger.
type AuditRecord struct {
	AuditID        string         `json:"auditID"`
	Action         AuditAction    `json:"action"`
	EntityType     string         `json:"entityType"`
	EntityID       string         `json:"entityID"`
	OrganizationID string         `json:"organizationID"`
	ActorID        string         `json:"actorID"`
	Details        map[string]any `json:"details,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}
