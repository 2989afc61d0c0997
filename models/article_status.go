package models

type ArticleStatus string

const (
	StatusDraft    ArticleStatus = "draft"
	StatusPending  ArticleStatus = "pending"
	StatusPublic   ArticleStatus = "public"
	StatusRejected ArticleStatus = "rejected"
)

type ArticleAction string

const (
	ActionSaveDraft ArticleAction = "save_draft"
	ActionSubmit    ArticleAction = "submit"
	ActionApprove   ArticleAction = "approve"
	ActionReject    ArticleAction = "reject"
)

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// Privacy and IsDraft project the status onto the legacy privacy/is_draft columns.
func (s ArticleStatus) Privacy() string {
	if s == StatusPublic {
		return PrivacyPublic
	}
	return PrivacyPrivate
}

func (s ArticleStatus) IsDraft() bool {
	return s == StatusDraft || s == StatusRejected
}

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPublic, StatusRejected:
		return true
	}
	return false
}

var anyStatus = []ArticleStatus{StatusDraft, StatusPending, StatusPublic, StatusRejected}

type transition struct {
	from []ArticleStatus
	to   ArticleStatus
}

// transitions maps (action, submitter is admin) to the allowed source states and
// the result. Approve and reject have no non-admin edge.
var transitions = map[ArticleAction]map[bool]transition{
	ActionSaveDraft: {
		false: {from: anyStatus, to: StatusDraft},
		true:  {from: anyStatus, to: StatusDraft},
	},
	ActionSubmit: {
		false: {from: anyStatus, to: StatusPending},
		true:  {from: anyStatus, to: StatusPublic},
	},
	ActionApprove: {
		true: {from: []ArticleStatus{StatusDraft, StatusPending}, to: StatusPublic},
	},
	ActionReject: {
		true: {from: []ArticleStatus{StatusPending}, to: StatusRejected},
	},
}

// Transition returns the status reached by applying action to s on behalf of a
// submitter with the given admin flag. ok is false when the table has no edge.
func (s ArticleStatus) Transition(action ArticleAction, admin bool) (next ArticleStatus, ok bool) {
	byRole, exists := transitions[action]
	if !exists {
		return s, false
	}
	t, exists := byRole[admin]
	if !exists {
		return s, false
	}
	for _, from := range t.from {
		if from == s {
			return t.to, true
		}
	}
	return s, false
}

// InitialStatus is the status a new article gets from the requested draft flag.
func InitialStatus(draft bool, admin bool) ArticleStatus {
	if draft {
		return StatusDraft
	}
	if admin {
		return StatusPublic
	}
	return StatusPending
}
