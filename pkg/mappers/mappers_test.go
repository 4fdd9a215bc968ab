package mappers

import (
	"testing"

	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

func TestNewIdentityRequiredFields(t *testing.T) {
	full := models.IdentityRequest{Username: "ada", Password: "pw", Email: "ada@corp.io", Phone: "555-0100"}

	cases := []struct {
		field string
		mut   func(r *models.IdentityRequest)
	}{
		{"username", func(r *models.IdentityRequest) { r.Username = "" }},
		{"password", func(r *models.IdentityRequest) { r.Password = "  " }},
		{"email", func(r *models.IdentityRequest) { r.Email = "" }},
		{"phone", func(r *models.IdentityRequest) { r.Phone = "" }},
	}
	for _, c := range cases {
		req := full
		c.mut(&req)
		_, err := NewIdentity(&req)
		if !apperr.IsEmptyRequiredField(err) {
			t.Errorf("missing %s: got %v, want EmptyRequiredField", c.field, err)
			continue
		}
		if got := apperr.FieldOf(err); got != c.field {
			t.Errorf("missing %s: error names field %q", c.field, got)
		}
	}

	identity, err := NewIdentity(&full)
	if err != nil {
		t.Fatalf("complete request rejected: %v", err)
	}
	if identity.Authority != models.AuthorityUser {
		t.Errorf("new identity authority = %s, want USER", identity.Authority)
	}
	if !identity.Enabled {
		t.Error("new identity should default to enabled")
	}
}

func TestMergeIdentityByPresence(t *testing.T) {
	existing := &models.Identity{
		ID: "i1", Username: "ada", Password: "hash", Email: "ada@corp.io",
		Phone: "555-0100", Authority: models.AuthorityWorker, Enabled: true, EmployeeID: "e1",
	}
	merged := MergeIdentity(existing, &models.IdentityRequest{Email: "ada@new.io", Password: "sneak"})

	if merged.Email != "ada@new.io" {
		t.Errorf("supplied field not taken: %s", merged.Email)
	}
	if merged.Username != "ada" || merged.Phone != "555-0100" {
		t.Error("empty fields must retain persisted values")
	}
	// Password, authority, enabled and the employee link have dedicated
	// operations and never move through a plain update.
	if merged.Password != "hash" || merged.Authority != models.AuthorityWorker || !merged.Enabled || merged.EmployeeID != "e1" {
		t.Error("protected fields leaked through merge")
	}
}

func TestNewCorporationRequiresFounderDirector(t *testing.T) {
	_, err := NewCorporation(&models.CorporationRequest{Name: "Acme", Description: "widgets"})
	if !apperr.IsEmptyRequiredField(err) || apperr.FieldOf(err) != "director_id" {
		t.Fatalf("got %v, want EmptyRequiredField(director_id)", err)
	}

	corp, err := NewCorporation(&models.CorporationRequest{Name: "Acme", Description: "widgets", DirectorID: "d1"})
	if err != nil {
		t.Fatalf("complete request rejected: %v", err)
	}
	if len(corp.Directors) != 1 || corp.Directors[0] != "d1" {
		t.Errorf("directors = %v, want [d1]", corp.Directors)
	}
}

func TestMergeCorporationKeepsDirectors(t *testing.T) {
	existing := &models.Corporation{ID: "c1", Name: "Acme", Description: "widgets", Directors: []string{"d1"}}
	merged := MergeCorporation(existing, &models.CorporationRequest{Name: "Acme Global", DirectorID: "d9"})

	if merged.Name != "Acme Global" || merged.Description != "widgets" {
		t.Errorf("merge wrong: %+v", merged)
	}
	if len(merged.Directors) != 1 || merged.Directors[0] != "d1" {
		t.Errorf("directors changed through plain update: %v", merged.Directors)
	}
}

func TestAddDirector(t *testing.T) {
	corp := &models.Corporation{ID: "c1", Directors: []string{"d1"}}

	updated, err := AddDirector(corp, "d1", "d3")
	if err != nil {
		t.Fatalf("valid elevation rejected: %v", err)
	}
	if len(updated.Directors) != 2 || updated.Directors[1] != "d3" {
		t.Errorf("directors = %v, want [d1 d3]", updated.Directors)
	}
	// Source must be untouched.
	if len(corp.Directors) != 1 {
		t.Error("AddDirector mutated its input")
	}

	if _, err := AddDirector(corp, "d2", "d3"); !apperr.IsConflictingNoOp(err) {
		t.Errorf("forged elevation: got %v, want ConflictingNoOp", err)
	}
	if _, err := AddDirector(corp, "d1", "d1"); !apperr.IsConflictingNoOp(err) {
		t.Errorf("duplicate director: got %v, want ConflictingNoOp", err)
	}
}

func TestResolveOfficeKeyComponents(t *testing.T) {
	if _, err := ResolveOfficeKey("c1", ""); !apperr.IsInvalidReference(err) {
		t.Errorf("missing address: got %v, want InvalidReference", err)
	}
	if _, err := ResolveOfficeKey("", "a1"); !apperr.IsInvalidReference(err) {
		t.Errorf("missing corporation: got %v, want InvalidReference", err)
	}
	key, err := ResolveOfficeKey("c1", "a1")
	if err != nil {
		t.Fatalf("complete key rejected: %v", err)
	}
	if key.CorporationID != "c1" || key.AddressID != "a1" {
		t.Errorf("key = %+v", key)
	}
}

func TestMergeDepartmentReferenceFallback(t *testing.T) {
	existing := &models.Department{ID: "d1", Name: "R&D", Description: "research", CorporationID: "c1"}
	resolves := func(id string) bool { return id == "c2" }

	merged := MergeDepartment(existing, &models.DepartmentRequest{CorporationID: "c2"}, resolves)
	if merged.CorporationID != "c2" {
		t.Errorf("resolvable reference not substituted: %s", merged.CorporationID)
	}

	merged = MergeDepartment(existing, &models.DepartmentRequest{CorporationID: "ghost"}, resolves)
	if merged.CorporationID != "c1" {
		t.Errorf("unresolvable reference must fall back, got %s", merged.CorporationID)
	}
}

func TestMergePositionByPresence(t *testing.T) {
	existing := &models.Position{ID: "p1", Name: "Engineer", Description: "builds", DepartmentID: "d1", EmployeeID: "e1"}
	always := func(string) bool { return true }
	never := func(string) bool { return false }

	merged := MergePosition(existing, &models.PositionRequest{Description: "ships", EmployeeID: "e2"}, never, always)
	if merged.Name != "Engineer" || merged.Description != "ships" {
		t.Errorf("merge wrong: %+v", merged)
	}
	if merged.EmployeeID != "e2" || merged.DepartmentID != "d1" {
		t.Errorf("reference merge wrong: %+v", merged)
	}
}

func TestNewEmployee(t *testing.T) {
	_, err := NewEmployee(&models.EmployeeRequest{
		FirstName: "Grace", LastName: "Hopper",
		Office: models.OfficeKey{CorporationID: "c1"},
	})
	if !apperr.IsInvalidReference(err) {
		t.Fatalf("half office key: got %v, want InvalidReference", err)
	}

	_, err = NewEmployee(&models.EmployeeRequest{LastName: "Hopper", Office: models.OfficeKey{CorporationID: "c1", AddressID: "a1"}})
	if !apperr.IsEmptyRequiredField(err) || apperr.FieldOf(err) != "first_name" {
		t.Fatalf("got %v, want EmptyRequiredField(first_name)", err)
	}

	emp, err := NewEmployee(&models.EmployeeRequest{
		FirstName: "Grace", LastName: "Hopper",
		Office: models.OfficeKey{CorporationID: "c1", AddressID: "a1"},
	})
	if err != nil {
		t.Fatalf("complete request rejected: %v", err)
	}
	if emp.OfficeKey() != (models.OfficeKey{CorporationID: "c1", AddressID: "a1"}) {
		t.Errorf("office key = %+v", emp.OfficeKey())
	}
}

func TestMergeEmployeeNeverMovesOffice(t *testing.T) {
	existing := &models.Employee{
		ID: "e1", FirstName: "Grace", LastName: "Hopper",
		OfficeCorporationID: "c1", OfficeAddressID: "a1",
	}
	always := func(string) bool { return true }

	merged := MergeEmployee(existing, &models.EmployeeRequest{
		LastName: "Hopper-Smith",
		Office:   models.OfficeKey{CorporationID: "c2", AddressID: "a9"},
	}, always, always, always)

	if merged.LastName != "Hopper-Smith" || merged.FirstName != "Grace" {
		t.Errorf("merge wrong: %+v", merged)
	}
	if merged.OfficeKey() != existing.OfficeKey() {
		t.Error("office membership moved through a plain update")
	}
}
