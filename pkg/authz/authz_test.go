package authz

import (
	"testing"

	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

// fakeStore records reads so tests can assert none happen for
// unauthenticated callers.
type fakeStore struct {
	corporations map[string]*models.Corporation
	employees    map[string]*models.Employee
	reads        int
}

func (s *fakeStore) GetCorporation(id string) (*models.Corporation, error) {
	s.reads++
	if corp, ok := s.corporations[id]; ok {
		return corp, nil
	}
	return nil, apperr.NotFound("corporation", id)
}

func (s *fakeStore) GetEmployeeByIdentity(identityID string) (*models.Employee, error) {
	s.reads++
	if emp, ok := s.employees[identityID]; ok {
		return emp, nil
	}
	return nil, apperr.NotFound("employee", "identity="+identityID)
}

func enabledCaller(id string, a models.Authority) *models.Caller {
	return &models.Caller{ID: id, Authority: a, Enabled: true}
}

func TestRequireAuthenticated(t *testing.T) {
	if err := RequireAuthenticated(nil); !apperr.IsNotAuthenticated(err) {
		t.Errorf("nil caller: got %v", err)
	}
	disabled := &models.Caller{ID: "i1", Enabled: false}
	if err := RequireAuthenticated(disabled); !apperr.IsNotAuthenticated(err) {
		t.Errorf("disabled caller: got %v", err)
	}
	if err := RequireAuthenticated(enabledCaller("i1", models.AuthorityUser)); err != nil {
		t.Errorf("enabled caller rejected: %v", err)
	}
}

func TestRejectionPrecedesStoreReads(t *testing.T) {
	store := &fakeStore{}
	if _, err := RequireDirectorOf(store, nil, "c1"); !apperr.IsNotAuthenticated(err) {
		t.Fatalf("got %v", err)
	}
	if _, err := RequireEmployeeOfCorporation(store, nil, "c1"); !apperr.IsNotAuthenticated(err) {
		t.Fatalf("got %v", err)
	}
	if store.reads != 0 {
		t.Errorf("unauthenticated caller triggered %d store reads", store.reads)
	}
}

func TestRequireSelf(t *testing.T) {
	caller := enabledCaller("i1", models.AuthorityUser)
	if err := RequireSelf(caller, "i1"); err != nil {
		t.Errorf("self rejected: %v", err)
	}
	if err := RequireSelf(caller, "i2"); !apperr.IsNotAuthorized(err) {
		t.Errorf("other identity: got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	worker := enabledCaller("i1", models.AuthorityWorker)
	if err := RequireRole(worker, models.AuthorityWorker, models.AuthorityDirector); err != nil {
		t.Errorf("allowed role rejected: %v", err)
	}
	if err := RequireRole(worker, models.AuthorityAdmin); !apperr.IsNotAuthorized(err) {
		t.Errorf("disallowed role: got %v", err)
	}
}

func TestRequireDirectorOf(t *testing.T) {
	store := &fakeStore{corporations: map[string]*models.Corporation{
		"c1": {ID: "c1", Directors: []string{"d1"}},
	}}

	if _, err := RequireDirectorOf(store, enabledCaller("d1", models.AuthorityDirector), "c1"); err != nil {
		t.Errorf("director rejected: %v", err)
	}
	if _, err := RequireDirectorOf(store, enabledCaller("d2", models.AuthorityDirector), "c1"); !apperr.IsNotDirector(err) {
		t.Errorf("non-director: got %v", err)
	}
	if _, err := RequireDirectorOf(store, enabledCaller("d1", models.AuthorityDirector), "ghost"); !apperr.IsNotFound(err) {
		t.Errorf("missing corporation: got %v", err)
	}
}

func TestRequireEmployeeOfCorporation(t *testing.T) {
	store := &fakeStore{employees: map[string]*models.Employee{
		"i1": {ID: "e1", IdentityID: "i1", OfficeCorporationID: "c1"},
	}}

	emp, err := RequireEmployeeOfCorporation(store, enabledCaller("i1", models.AuthorityWorker), "c1")
	if err != nil {
		t.Fatalf("in-scope employee rejected: %v", err)
	}
	if emp.ID != "e1" {
		t.Errorf("wrong employee returned: %+v", emp)
	}

	if _, err := RequireEmployeeOfCorporation(store, enabledCaller("i1", models.AuthorityWorker), "c2"); !apperr.IsNotEmployeeOfScope(err) {
		t.Errorf("out-of-scope: got %v", err)
	}
	if _, err := RequireEmployeeOfCorporation(store, enabledCaller("i9", models.AuthorityWorker), "c1"); !apperr.IsNotEmployeeOfScope(err) {
		t.Errorf("no employee record: got %v", err)
	}
}

func TestRequireSameCorporation(t *testing.T) {
	a := models.OfficeKey{CorporationID: "c1", AddressID: "a1"}
	b := models.OfficeKey{CorporationID: "c1", AddressID: "a2"}
	c := models.OfficeKey{CorporationID: "c2", AddressID: "a3"}

	if err := RequireSameCorporation(a, b); err != nil {
		t.Errorf("same corporation rejected: %v", err)
	}
	if err := RequireSameCorporation(a, c); !apperr.IsInvalidReference(err) {
		t.Errorf("cross-corporation: got %v", err)
	}
}

func TestRequireSelfOrDirector(t *testing.T) {
	store := &fakeStore{corporations: map[string]*models.Corporation{
		"c1": {ID: "c1", Directors: []string{"d1"}},
	}}
	target := &models.Employee{ID: "e1", IdentityID: "i1", OfficeCorporationID: "c1"}

	if err := RequireSelfOrDirector(store, enabledCaller("i1", models.AuthorityWorker), target); err != nil {
		t.Errorf("self rejected: %v", err)
	}
	if err := RequireSelfOrDirector(store, enabledCaller("d1", models.AuthorityDirector), target); err != nil {
		t.Errorf("director rejected: %v", err)
	}
	if err := RequireSelfOrDirector(store, enabledCaller("i9", models.AuthorityWorker), target); !apperr.IsNotDirector(err) {
		t.Errorf("stranger: got %v", err)
	}
}
