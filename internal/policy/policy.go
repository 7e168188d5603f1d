package policy

// Action is what the caller wants to do with a record.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// accessRule describes who may perform an action on a kind beyond the
// privileged bypass. ownerOnly rules bind even privileged actors.
type accessRule struct {
	privilegedOnly bool
	ownerOnly      bool
	owner          bool
	creator        bool
	participants   bool
}

// accessRules is the whole authorization table. A missing action entry means
// the action is denied outright for that kind.
var accessRules = map[Kind]map[Action]accessRule{
	KindUser: {
		ActionView:   {owner: true},
		ActionCreate: {privilegedOnly: true},
		ActionUpdate: {owner: true},
		ActionDelete: {privilegedOnly: true},
	},
	KindTask: {
		ActionView:   {owner: true, creator: true},
		ActionCreate: {privilegedOnly: true},
		ActionUpdate: {owner: true, creator: true},
		ActionDelete: {privilegedOnly: true},
	},
	KindLeaveRequest: {
		ActionView:   {owner: true},
		ActionCreate: {},
		ActionUpdate: {ownerOnly: true},
		ActionDelete: {ownerOnly: true},
	},
	KindMeeting: {
		ActionView:   {creator: true, participants: true},
		ActionCreate: {},
		ActionUpdate: {creator: true, participants: true},
		ActionDelete: {creator: true},
	},
	KindClient: {
		ActionView:   {owner: true, creator: true},
		ActionCreate: {},
		ActionUpdate: {owner: true, creator: true},
		ActionDelete: {owner: true, creator: true},
	},
	KindFollowUp: {
		ActionView:   {owner: true, creator: true},
		ActionCreate: {},
		ActionUpdate: {creator: true},
		ActionDelete: {creator: true},
	},
	KindSalesActivity: {
		ActionView:   {owner: true, creator: true},
		ActionCreate: {},
		ActionUpdate: {creator: true},
		ActionDelete: {privilegedOnly: true},
	},
}

// roleCarrier exposes the role stored on a record; only user records do.
type roleCarrier interface {
	RecordRole() Role
}

// Authorize is the single entry point for per-record decisions. The
// superadmin delete guard runs before everything else so the verdict does not
// depend on who asks. Role and active edits on users have their own guards
// in CheckRoleChange and CheckActiveChange with the same ordering.
func Authorize(actor Actor, action Action, kind Kind, rec Record) error {
	if action == ActionDelete && rec != nil {
		if rc, ok := rec.(roleCarrier); ok && rc.RecordRole() == RoleSuperadmin {
			return Forbidden("the superadmin account cannot be deleted")
		}
	}

	kindRules, ok := accessRules[kind]
	if !ok {
		return Forbidden("no policy for " + string(kind))
	}
	rule, ok := kindRules[action]
	if !ok {
		return Forbidden(string(action) + " is not permitted on " + string(kind))
	}

	if rule.privilegedOnly {
		if !actor.Privileged() {
			return Forbidden("you do not have permission to " + string(action) + " this " + string(kind))
		}
		if action == ActionCreate {
			return nil
		}
	}
	if action == ActionCreate {
		return nil
	}
	if rec == nil {
		return NotFound(string(kind) + " not found")
	}

	if rule.ownerOnly {
		if actor.ID != "" && rec.OwnerID() == actor.ID {
			return nil
		}
		return Forbidden("only the owner may " + string(action) + " this " + string(kind))
	}

	if actor.Privileged() {
		return nil
	}
	if actor.ID == "" {
		return Forbidden("you do not have permission to " + string(action) + " this " + string(kind))
	}
	if rule.owner && rec.OwnerID() == actor.ID {
		return nil
	}
	if rule.creator && rec.CreatorID() == actor.ID {
		return nil
	}
	if rule.participants {
		for _, p := range rec.ParticipantIDs() {
			if p == actor.ID {
				return nil
			}
		}
	}
	return Forbidden("you do not have permission to " + string(action) + " this " + string(kind))
}
