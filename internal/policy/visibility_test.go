package policy

import "testing"

type fakeRecord struct {
	owner        string
	creator      string
	participants []string
}

func (r fakeRecord) OwnerID() string          { return r.owner }
func (r fakeRecord) CreatorID() string        { return r.creator }
func (r fakeRecord) ParticipantIDs() []string { return r.participants }

func TestCanView(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		rec   fakeRecord
		want  bool
	}{
		{name: "owner sees own", actor: Actor{ID: "7", Role: RoleUser}, rec: fakeRecord{owner: "7"}, want: true},
		{name: "stranger blocked", actor: Actor{ID: "7", Role: RoleUser}, rec: fakeRecord{owner: "42"}, want: false},
		{name: "creator sees", actor: Actor{ID: "7", Role: RoleUser}, rec: fakeRecord{owner: "42", creator: "7"}, want: true},
		{name: "participant sees", actor: Actor{ID: "7", Role: RoleUser}, rec: fakeRecord{owner: "42", participants: []string{"9", "7"}}, want: true},
		{name: "hr sees everything", actor: Actor{ID: "1", Role: RoleHR}, rec: fakeRecord{owner: "42"}, want: true},
		{name: "admin sees everything", actor: Actor{ID: "1", Role: RoleAdmin}, rec: fakeRecord{owner: "42"}, want: true},
		{name: "finance is self scoped", actor: Actor{ID: "1", Role: RoleFinance}, rec: fakeRecord{owner: "42"}, want: false},
		{name: "anonymous blocked", actor: Actor{}, rec: fakeRecord{owner: ""}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanView(tt.actor, tt.rec); got != tt.want {
				t.Errorf("CanView() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A filtered list must contain exactly the records the actor could fetch one
// by one; the list path and the single-record path can never disagree.
func TestVisibleMatchesCanView(t *testing.T) {
	records := []fakeRecord{
		{owner: "7"},
		{owner: "42"},
		{owner: "50", creator: "7"},
		{owner: "50", participants: []string{"7"}},
		{owner: "9"},
	}

	actors := []Actor{
		{ID: "7", Role: RoleUser},
		{ID: "42", Role: RoleFinance},
		{ID: "1", Role: RoleHR},
		{ID: "2", Role: RoleSuperadmin},
	}

	for _, actor := range actors {
		visible := Visible(actor, records)
		for _, rec := range visible {
			if !CanView(actor, rec) {
				t.Errorf("actor %s: Visible returned record owner=%s that CanView denies", actor.ID, rec.owner)
			}
		}
		for _, rec := range records {
			if CanView(actor, rec) {
				found := false
				for _, v := range visible {
					if v.owner == rec.owner && v.creator == rec.creator {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("actor %s: CanView allows record owner=%s but Visible dropped it", actor.ID, rec.owner)
				}
			}
		}
	}
}

func TestVisibleNeverNil(t *testing.T) {
	got := Visible(Actor{ID: "7", Role: RoleUser}, []fakeRecord{{owner: "42"}})
	if got == nil {
		t.Fatal("Visible returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("Visible returned %d records, want 0", len(got))
	}
}

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields []string
		want   bool
	}{
		{name: "blank matches all", query: "", fields: []string{"acme"}, want: true},
		{name: "whitespace matches all", query: "   ", fields: []string{"acme"}, want: true},
		{name: "case insensitive", query: "ACME", fields: []string{"Acme Industrial"}, want: true},
		{name: "substring", query: "dust", fields: []string{"Acme Industrial"}, want: true},
		{name: "any field", query: "borealis", fields: []string{"Acme", "contact@borealis.example"}, want: true},
		{name: "no match", query: "zenith", fields: []string{"Acme", "Borealis"}, want: false},
		{name: "no fields", query: "acme", fields: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesQuery(tt.query, tt.fields...); got != tt.want {
				t.Errorf("MatchesQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
