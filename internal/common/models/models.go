package models

import (
	"time"

	"team-crm/internal/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account in the system. Role is the closed policy enum; there is
// exactly one superadmin, seeded outside the API.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	FirstName  string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName   string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Role       policy.Role        `bson:"role" json:"role"`
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	DOB        *time.Time         `bson:"dob,omitempty" json:"dob,omitempty"`
	DOJ        *time.Time         `bson:"doj,omitempty" json:"doj,omitempty"`
	Age        int                `bson:"age,omitempty" json:"age,omitempty"`
	Active     bool               `bson:"active" json:"active"`
	DateJoined time.Time          `bson:"date_joined" json:"date_joined"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// OwnerID makes User a policy.Record: a user record is "owned" by itself, so
// self-scoped actors can read and edit their own profile.
func (u *User) OwnerID() string          { return u.ID.Hex() }
func (u *User) CreatorID() string        { return "" }
func (u *User) ParticipantIDs() []string { return nil }

// RecordRole exposes the role to the policy facade's superadmin guard.
func (u *User) RecordRole() policy.Role { return u.Role }

// FullName is the display name used in DTO-ish payloads.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// Actor converts the stored user into the policy actor identity.
func (u *User) Actor() policy.Actor {
	return policy.Actor{ID: u.ID.Hex(), Role: u.Role}
}

// Change captures an old/new pair for the audit trail.
type Change struct {
	Old interface{} `bson:"old,omitempty" json:"old,omitempty"`
	New interface{} `bson:"new,omitempty" json:"new,omitempty"`
}

// Audit actions.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// Log is the persisted form of a zap entry written by the logger tee.
type Log struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Message      string             `bson:"message" json:"message"`
	Caller       string             `bson:"caller,omitempty" json:"caller,omitempty"`
	AppId        string             `bson:"app_id" json:"app_id"`
	LogLevelId   int                `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time          `bson:"created_on_utc" json:"created_on_utc"`
}
