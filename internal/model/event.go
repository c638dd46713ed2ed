package model

// ChangeAction names the kind of mutation that produced a ChangeEvent.
type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

// ChangeEvent tells listeners that the profile list changed and should be
// re-requested.
type ChangeEvent struct {
	Action ChangeAction `json:"action"`
	ID     ProfileID    `json:"id"`
}
