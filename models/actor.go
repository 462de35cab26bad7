package models

import "time"

// Actor roles
const (
	RoleExplorer      = "EXPLORER"
	RoleManager       = "MANAGER"
	RoleSponsor       = "SPONSOR"
	RoleAdministrator = "ADMINISTRATOR"
)

// SelfServiceRoles are the roles an actor may sign up with; the rest
// are assigned by an administrator.
var SelfServiceRoles = []string{RoleExplorer, RoleSponsor}

var AllRoles = []string{RoleExplorer, RoleManager, RoleSponsor, RoleAdministrator}

type Actor struct {
	ActorID   string    `json:"actorid" bson:"actorid"`
	Name      string    `json:"name" bson:"name"`
	Surname   string    `json:"surname" bson:"surname"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address   string    `json:"address,omitempty" bson:"address,omitempty"`
	Roles     []string  `json:"roles" bson:"roles"`
	Banned    bool      `json:"banned" bson:"banned"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// HasRole reports whether the actor holds any of the given roles.
func (a *Actor) HasRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range a.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
