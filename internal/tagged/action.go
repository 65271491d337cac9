package tagged

// Action is the action performed on a file at a given revision. Values the
// client reports that are not listed below are kept verbatim.
type Action string

const (
	ActionAdd        Action = "add"
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
	ActionBranch     Action = "branch"
	ActionMoveAdd    Action = "move/add"
	ActionMoveDelete Action = "move/delete"
	ActionIntegrate  Action = "integrate"
	ActionImport     Action = "import"
	ActionPurge      Action = "purge"
	ActionArchive    Action = "archive"

	// sync reports what it did to the workspace file.
	ActionAdded     Action = "added"
	ActionUpdated   Action = "updated"
	ActionDeleted   Action = "deleted"
	ActionRefreshed Action = "refreshed"
)

var knownActions = map[Action]struct{}{
	ActionAdd: {}, ActionEdit: {}, ActionDelete: {}, ActionBranch: {},
	ActionMoveAdd: {}, ActionMoveDelete: {}, ActionIntegrate: {},
	ActionImport: {}, ActionPurge: {}, ActionArchive: {},
	ActionAdded: {}, ActionUpdated: {}, ActionDeleted: {}, ActionRefreshed: {},
}

// Known reports whether a is one of the actions listed above.
func (a Action) Known() bool {
	_, ok := knownActions[a]
	return ok
}

func (a Action) String() string { return string(a) }
