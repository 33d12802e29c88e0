package models

// PlaidItem is one linked Plaid connection: the long-lived access token and
// the transaction sync cursor that marks how far we have ingested its
// change feed. The cursor is only written after a sync page has been
// durably committed.
type PlaidItem struct {
	Base
	ItemID      string `gorm:"not null;uniqueIndex" json:"item_id"`
	AccessToken string `gorm:"not null" json:"-"`
	UserID      string `gorm:"not null;default:'finsmar-local-user-01'" json:"user_id"`

	// Empty string means "sync from the beginning of the item's history".
	SyncCursor string `json:"sync_cursor"`

	InstitutionID   string `json:"institution_id"`
	InstitutionName string `json:"institution_name"`

	Accounts []Account `gorm:"foreignKey:PlaidItemID" json:"accounts,omitempty"`
}
