package role

import (
	"testing"

	"github.com/shulehq/shule/core"
)

func TestPermission_Can(t *testing.T) {
	p := Permission{Page: "students", CanView: true, CanEdit: true}

	tests := []struct {
		action Action
		want   bool
	}{
		{ActionView, true},
		{ActionEdit, true},
		{ActionAdd, false},
		{ActionDelete, false},
		{Action("export"), false}, // unknown actions are denials
	}
	for _, tt := range tests {
		if got := p.Can(tt.action); got != tt.want {
			t.Errorf("Can(%q) = %v, want %v", tt.action, got, tt.want)
		}
	}
}

func TestRole_Permission(t *testing.T) {
	r := Role{Permissions: []Permission{
		{Page: "students", CanView: true},
		{Page: "roles"},
	}}

	if p, ok := r.Permission("students"); !ok || !p.CanView {
		t.Errorf("Permission(students) = %+v, %v; want the view entry", p, ok)
	}
	if _, ok := r.Permission("performance"); ok {
		t.Error("Permission(performance) = true, want no entry")
	}
}

func TestNewRole_Validate(t *testing.T) {
	nr := NewRole{
		Name: "  Teacher ",
		Permissions: []Permission{
			{Page: "students", CanView: true},
			{Page: "performance", CanView: true},
		},
	}
	if err := nr.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if nr.Name != "Teacher" {
		t.Errorf("Name = %q, want trimmed", nr.Name)
	}
}

func TestNewRole_Validate_duplicatePage(t *testing.T) {
	nr := NewRole{
		Name: "Teacher",
		Permissions: []Permission{
			{Page: "students", CanView: true},
			{Page: "students", CanDelete: true},
		},
	}
	err := nr.Validate()
	if _, ok := err.(*core.ValidationError); !ok {
		t.Errorf("Validate() error = %v, want *core.ValidationError", err)
	}
}

func TestUpdatePermissions_Validate(t *testing.T) {
	up := UpdatePermissions{}
	if err := up.Validate(); err == nil {
		t.Error("Validate() = nil, want error for missing permissions")
	}

	up.Permissions = []Permission{{Page: "students"}}
	if err := up.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}
