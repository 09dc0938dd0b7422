package types

// Status tracks the lifecycle of a row and decides whether queries include it.
// Any changes to this type should be reflected in the migrations.
type Status string

const (
	// StatusPublished is the default status of a visible row
	StatusPublished Status = "published"
	// StatusDeleted marks a soft deleted row
	StatusDeleted Status = "deleted"
	// StatusArchived marks a row hidden from default listings
	StatusArchived Status = "archived"
)
