package models

import "testing"

func TestHasRole(t *testing.T) {
	actor := Actor{Roles: []string{RoleExplorer, RoleSponsor}}

	if !actor.HasRole(RoleExplorer) {
		t.Error("expected explorer role")
	}
	if !actor.HasRole(RoleManager, RoleSponsor) {
		t.Error("expected match on any of the given roles")
	}
	if actor.HasRole(RoleAdministrator) {
		t.Error("did not expect administrator role")
	}
	if actor.HasRole() {
		t.Error("no roles asked, no match expected")
	}
}
