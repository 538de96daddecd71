package model

// CheckStatus is the outcome of reconciling one tracked card against its
// current remote state.
type CheckStatus string

const (
	// CheckUnchanged means the card is still in its recorded list.
	CheckUnchanged CheckStatus = "unchanged"
	// CheckMoved means the card is now in a different list than recorded.
	CheckMoved CheckStatus = "moved"
	// CheckError means the remote card could not be fetched; it may have
	// been deleted.
	CheckError CheckStatus = "error"
)

// CardCheck is one reconciliation signal emitted by an accountability pass.
// Exactly one CardCheck is produced per tracked card examined.
type CardCheck struct {
	CardID      string
	CardName    string // Remote card name; empty when the fetch failed.
	Status      CheckStatus
	OldListID   string // Recorded list at card creation time.
	NewListID   string // Current remote list; set when Status is CheckMoved.
	NewListName string // Resolved name of the new list; falls back to the ID.
	Detail      string // Error text when Status is CheckError.
}
