package policy

import "testing"

// fakeUserRecord carries a role the way a user record does, so the
// superadmin delete guard can see it.
type fakeUserRecord struct {
	fakeRecord
	role Role
}

func (r fakeUserRecord) RecordRole() Role { return r.role }

func TestAuthorize(t *testing.T) {
	employee := Actor{ID: "7", Role: RoleUser}
	other := Actor{ID: "9", Role: RoleUser}
	hr := Actor{ID: "1", Role: RoleHR}

	tests := []struct {
		name     string
		actor    Actor
		action   Action
		kind     Kind
		rec      Record
		wantCode Code
	}{
		{name: "owner views own task", actor: employee, action: ActionView, kind: KindTask, rec: fakeRecord{owner: "7"}},
		{name: "creator updates task", actor: employee, action: ActionUpdate, kind: KindTask, rec: fakeRecord{owner: "42", creator: "7"}},
		{name: "stranger blocked from task", actor: other, action: ActionView, kind: KindTask, rec: fakeRecord{owner: "7"}, wantCode: CodeForbidden},
		{name: "employee cannot create task", actor: employee, action: ActionCreate, kind: KindTask, wantCode: CodeForbidden},
		{name: "hr creates task", actor: hr, action: ActionCreate, kind: KindTask},
		{name: "employee cannot delete task", actor: employee, action: ActionDelete, kind: KindTask, rec: fakeRecord{owner: "7"}, wantCode: CodeForbidden},
		{name: "hr deletes task", actor: hr, action: ActionDelete, kind: KindTask, rec: fakeRecord{owner: "7"}},

		{name: "anyone files leave", actor: employee, action: ActionCreate, kind: KindLeaveRequest},
		{name: "owner edits own leave", actor: employee, action: ActionUpdate, kind: KindLeaveRequest, rec: fakeRecord{owner: "7"}},
		{name: "hr cannot edit leave content", actor: hr, action: ActionUpdate, kind: KindLeaveRequest, rec: fakeRecord{owner: "7"}, wantCode: CodeForbidden},
		{name: "hr cannot delete leave", actor: hr, action: ActionDelete, kind: KindLeaveRequest, rec: fakeRecord{owner: "7"}, wantCode: CodeForbidden},
		{name: "hr views any leave", actor: hr, action: ActionView, kind: KindLeaveRequest, rec: fakeRecord{owner: "7"}},

		{name: "participant updates meeting", actor: employee, action: ActionUpdate, kind: KindMeeting, rec: fakeRecord{creator: "9", participants: []string{"7"}}},
		{name: "participant cannot delete meeting", actor: employee, action: ActionDelete, kind: KindMeeting, rec: fakeRecord{creator: "9", participants: []string{"7"}}, wantCode: CodeForbidden},
		{name: "creator deletes meeting", actor: other, action: ActionDelete, kind: KindMeeting, rec: fakeRecord{creator: "9"}},

		{name: "assignee updates client", actor: employee, action: ActionUpdate, kind: KindClient, rec: fakeRecord{owner: "7", creator: "42"}},
		{name: "creator updates follow-up", actor: employee, action: ActionUpdate, kind: KindFollowUp, rec: fakeRecord{owner: "42", creator: "7"}},
		{name: "assignee cannot edit follow-up", actor: employee, action: ActionUpdate, kind: KindFollowUp, rec: fakeRecord{owner: "7", creator: "42"}, wantCode: CodeForbidden},
		{name: "creator cannot delete activity", actor: employee, action: ActionDelete, kind: KindSalesActivity, rec: fakeRecord{owner: "42", creator: "7"}, wantCode: CodeForbidden},

		{name: "missing record", actor: hr, action: ActionView, kind: KindTask, rec: nil, wantCode: CodeNotFound},
		{name: "anonymous blocked", actor: Actor{}, action: ActionView, kind: KindTask, rec: fakeRecord{owner: ""}, wantCode: CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.action, tt.kind, tt.rec)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if CodeOf(err) != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", CodeOf(err), tt.wantCode, err)
			}
		})
	}
}

// Deleting the superadmin account is refused before any other rule runs, so
// the verdict is identical for every caller.
func TestAuthorizeSuperadminDeleteGuard(t *testing.T) {
	target := fakeUserRecord{fakeRecord: fakeRecord{owner: "2"}, role: RoleSuperadmin}

	actors := []Actor{
		{ID: "1", Role: RoleAdmin},
		{ID: "2", Role: RoleSuperadmin},
		{ID: "7", Role: RoleUser},
	}
	var first string
	for _, actor := range actors {
		err := Authorize(actor, ActionDelete, KindUser, target)
		if CodeOf(err) != CodeForbidden {
			t.Fatalf("actor %s: code = %q, want %q", actor.ID, CodeOf(err), CodeForbidden)
		}
		if first == "" {
			first = err.Error()
		} else if err.Error() != first {
			t.Errorf("actor %s: denial %q differs from %q", actor.ID, err.Error(), first)
		}
	}

	regular := fakeUserRecord{fakeRecord: fakeRecord{owner: "7"}, role: RoleUser}
	if err := Authorize(Actor{ID: "1", Role: RoleAdmin}, ActionDelete, KindUser, regular); err != nil {
		t.Errorf("admin should delete a regular account: %v", err)
	}
}

func TestAuthorizeUnknownKind(t *testing.T) {
	err := Authorize(Actor{ID: "1", Role: RoleAdmin}, ActionView, Kind("invoice"), fakeRecord{owner: "1"})
	if CodeOf(err) != CodeForbidden {
		t.Errorf("code = %q, want %q", CodeOf(err), CodeForbidden)
	}
}
