package services

import (
	"testing"

	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/database"
	"corporate-backend-refactor/pkg/models"
)

type fixture struct {
	db *database.LocalDatabase

	identities   *IdentityService
	corporations *CorporationService
	offices      *OfficeService
	departments  *DepartmentService
	positions    *PositionService
	employees    *EmployeeService
	addresses    *AddressService
}

func newFixture() *fixture {
	db := database.NewLocalDatabase()
	return &fixture{
		db:           db,
		identities:   NewIdentityService(db),
		corporations: NewCorporationService(db),
		offices:      NewOfficeService(db),
		departments:  NewDepartmentService(db),
		positions:    NewPositionService(db),
		employees:    NewEmployeeService(db),
		addresses:    NewAddressService(db),
	}
}

func (f *fixture) signup(t *testing.T, username string, authority models.Authority) (*models.Identity, *models.Caller) {
	t.Helper()
	identity, err := f.identities.Create(&models.IdentityRequest{
		Username: username,
		Password: "secret-" + username,
		Email:    username + "@corp.example",
		Phone:    "+10000000000",
	})
	if err != nil {
		t.Fatalf("signup %s: %v", username, err)
	}
	if authority != models.AuthorityUser {
		identity.Authority = authority
		if err := f.db.UpdateIdentity(identity); err != nil {
			t.Fatalf("set authority: %v", err)
		}
	}
	return identity, &models.Caller{ID: identity.ID, Email: identity.Email, Authority: authority, Enabled: true}
}

func (f *fixture) founded(t *testing.T, director *models.Caller, name string) *models.Corporation {
	t.Helper()
	corp, err := f.corporations.Create(director, &models.CorporationRequest{
		Name:        name,
		Description: name + " description",
	})
	if err != nil {
		t.Fatalf("found corporation %s: %v", name, err)
	}
	return corp
}

func (f *fixture) office(t *testing.T, director *models.Caller, corporationID, city string) *models.Office {
	t.Helper()
	office, err := f.offices.Create(director, &models.OfficeRequest{
		CorporationID: corporationID,
		NewAddress:    &models.AddressRequest{Street: "Main", City: city, House: "1"},
	})
	if err != nil {
		t.Fatalf("create office in %s: %v", city, err)
	}
	return office
}

func (f *fixture) hire(t *testing.T, director *models.Caller, office *models.Office, firstName string) *models.Employee {
	t.Helper()
	emp, err := f.employees.Create(director, &models.EmployeeRequest{
		IdentityID: director.ID,
		FirstName:  firstName,
		LastName:   "Smith",
		Office:     office.Key(),
	})
	if err != nil {
		t.Fatalf("hire %s: %v", firstName, err)
	}
	return emp
}

func TestSignupDefaultsAndLogin(t *testing.T) {
	f := newFixture()

	identity, _ := f.signup(t, "alice", models.AuthorityUser)
	if identity.Authority != models.AuthorityUser || !identity.Enabled {
		t.Fatalf("expected USER+enabled defaults, got %s enabled=%t", identity.Authority, identity.Enabled)
	}
	if identity.Password == "secret-alice" {
		t.Fatal("plaintext password reached the store")
	}

	if _, err := f.identities.Authenticate("alice", "secret-alice"); err != nil {
		t.Fatalf("valid login rejected: %v", err)
	}
	if _, err := f.identities.Authenticate("alice", "wrong"); !apperr.IsNotAuthenticated(err) {
		t.Fatalf("expected NotAuthenticated for bad password, got %v", err)
	}
	if _, err := f.identities.Authenticate("nobody", "secret"); !apperr.IsNotAuthenticated(err) {
		t.Fatalf("expected NotAuthenticated for unknown user, got %v", err)
	}
}

func TestCorporationUpdateOwnershipGate(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	_, d2 := f.signup(t, "d2", models.AuthorityDirector)
	corp := f.founded(t, d1, "Initech")

	if _, err := f.corporations.Update(d2, corp.ID, &models.CorporationRequest{Name: "X"}); !apperr.IsNotDirector(err) {
		t.Fatalf("expected NotDirector for outsider update, got %v", err)
	}

	updated, err := f.corporations.Update(d1, corp.ID, &models.CorporationRequest{Name: "X"})
	if err != nil {
		t.Fatalf("director update failed: %v", err)
	}
	if updated.Name != "X" {
		t.Fatalf("name not merged, got %q", updated.Name)
	}
	if updated.Description != corp.Description {
		t.Fatal("empty description should not overwrite the stored one")
	}
	if len(updated.Directors) != 1 || updated.Directors[0] != d1.ID {
		t.Fatalf("director set must stay unchanged, got %v", updated.Directors)
	}
}

func TestAddDirectorForgeryCheck(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	d3Identity, _ := f.signup(t, "d3", models.AuthorityUser)
	corp := f.founded(t, d1, "Initech")

	updated, err := f.corporations.AddDirector(d1, corp.ID, &models.AddDirectorRequest{
		AlreadyDirectorID: d1.ID,
		NewDirectorID:     d3Identity.ID,
	})
	if err != nil {
		t.Fatalf("add director: %v", err)
	}
	if !updated.HasDirector(d3Identity.ID) {
		t.Fatal("new director missing from the set")
	}

	// A caller quoting themselves while not in the set never elevates anyone.
	_, outsider := f.signup(t, "mallory", models.AuthorityUser)
	_, err = f.corporations.AddDirector(outsider, corp.ID, &models.AddDirectorRequest{
		AlreadyDirectorID: outsider.ID,
		NewDirectorID:     outsider.ID,
	})
	if !apperr.IsConflictingNoOp(err) {
		t.Fatalf("expected ConflictingNoOp for forged request, got %v", err)
	}
	after, _ := f.corporations.Get(corp.ID)
	if after.HasDirector(outsider.ID) {
		t.Fatal("forged request mutated the director set")
	}
}

func TestAddDirectorBindsQuotedIDToCaller(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	corp := f.founded(t, d1, "Initech")

	// A director of some other corporation quoting d1's genuine id must not
	// be able to push themselves into the set.
	_, rival := f.signup(t, "rival", models.AuthorityDirector)
	f.founded(t, rival, "Globex")

	_, err := f.corporations.AddDirector(rival, corp.ID, &models.AddDirectorRequest{
		AlreadyDirectorID: d1.ID,
		NewDirectorID:     rival.ID,
	})
	if !apperr.IsNotAuthorized(err) {
		t.Fatalf("expected NotAuthorized for a quoted id that is not the caller, got %v", err)
	}
	after, _ := f.corporations.Get(corp.ID)
	if after.HasDirector(rival.ID) {
		t.Fatal("cross-corporation caller entered the director set")
	}
	if len(after.Directors) != 1 || !after.HasDirector(d1.ID) {
		t.Fatalf("director set changed: %v", after.Directors)
	}
}

func TestOfficeCreateMaintainsCounter(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	corp := f.founded(t, d1, "Initech")

	f.office(t, d1, corp.ID, "Austin")
	f.office(t, d1, corp.ID, "Dallas")

	got, _ := f.corporations.Get(corp.ID)
	if got.OfficesAmount != 2 {
		t.Fatalf("officesAmount = %d, want 2", got.OfficesAmount)
	}
}

func TestEmployeeCounterConsistency(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	corp := f.founded(t, d1, "Initech")
	o1 := f.office(t, d1, corp.ID, "Austin")
	o2 := f.office(t, d1, corp.ID, "Dallas")

	e1 := f.hire(t, d1, o1, "Peter")

	// Second employee without an identity link, created by the director for
	// a separate worker identity is not possible (self-check), so hire via
	// the store directly the way a future signup-then-link flow would.
	if err := f.db.CreateEmployee(&models.Employee{
		FirstName:           "Samir",
		LastName:            "N",
		OfficeCorporationID: o1.CorporationID,
		OfficeAddressID:     o1.AddressID,
	}); err != nil {
		t.Fatalf("seed second employee: %v", err)
	}

	assertCounters := func(wantO1, wantO2, wantCorp int) {
		t.Helper()
		gotO1, _ := f.db.GetOffice(o1.Key())
		gotO2, _ := f.db.GetOffice(o2.Key())
		gotCorp, _ := f.db.GetCorporation(corp.ID)
		if gotO1.EmployeesAmount != wantO1 || gotO2.EmployeesAmount != wantO2 || gotCorp.EmployeesAmount != wantCorp {
			t.Fatalf("counters = %d/%d/%d, want %d/%d/%d",
				gotO1.EmployeesAmount, gotO2.EmployeesAmount, gotCorp.EmployeesAmount, wantO1, wantO2, wantCorp)
		}
	}
	assertCounters(2, 0, 2)

	moved, err := f.employees.Transfer(d1, e1.ID, o2.Key())
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if moved.OfficeKey() != o2.Key() {
		t.Fatalf("employee office = %v, want %v", moved.OfficeKey(), o2.Key())
	}
	assertCounters(1, 1, 2)

	if err := f.employees.Delete(d1, moved.ID); err != nil {
		t.Fatalf("delete own employee record: %v", err)
	}
	assertCounters(1, 0, 1)
}

func TestTransferRejections(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	corp := f.founded(t, d1, "Initech")
	other := f.founded(t, d1, "Globex")
	o1 := f.office(t, d1, corp.ID, "Austin")
	foreign := f.office(t, d1, other.ID, "Berlin")
	e1 := f.hire(t, d1, o1, "Peter")

	// Same office is a conflicting no-op, not a silent success.
	if _, err := f.employees.Transfer(d1, e1.ID, o1.Key()); !apperr.IsConflictingNoOp(err) {
		t.Fatalf("expected ConflictingNoOp, got %v", err)
	}

	// Cross-corporation target is a reference problem, not a director one.
	if _, err := f.employees.Transfer(d1, e1.ID, foreign.Key()); !apperr.IsInvalidReference(err) {
		t.Fatalf("expected InvalidReference, got %v", err)
	}

	after, _ := f.db.GetOffice(o1.Key())
	if after.EmployeesAmount != 1 {
		t.Fatalf("rejected transfers must not move counters, got %d", after.EmployeesAmount)
	}
}

func TestEmployeeCreateHalfKey(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	corp := f.founded(t, d1, "Initech")

	_, err := f.employees.Create(d1, &models.EmployeeRequest{
		IdentityID: d1.ID,
		FirstName:  "Peter",
		LastName:   "Gibbons",
		Office:     models.OfficeKey{CorporationID: corp.ID},
	})
	if !apperr.IsInvalidReference(err) {
		t.Fatalf("expected InvalidReference for missing address component, got %v", err)
	}
}

func TestEmployeeDeleteRequiresOwnRecord(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	_, stranger := f.signup(t, "w1", models.AuthorityWorker)
	corp := f.founded(t, d1, "Initech")
	o1 := f.office(t, d1, corp.ID, "Austin")
	e1 := f.hire(t, d1, o1, "Peter")

	if err := f.employees.Delete(stranger, e1.ID); !apperr.IsNotEmployeeOfScope(err) {
		t.Fatalf("expected NotEmployeeOfScope, got %v", err)
	}
	if _, err := f.db.GetEmployee(e1.ID); err != nil {
		t.Fatal("rejected delete removed the record")
	}
}

func TestOfficeDeleteCascadesCounters(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	corp := f.founded(t, d1, "Initech")
	o1 := f.office(t, d1, corp.ID, "Austin")
	f.hire(t, d1, o1, "Peter")

	if err := f.offices.Delete(d1, o1.Key()); err != nil {
		t.Fatalf("delete office: %v", err)
	}
	got, _ := f.corporations.Get(corp.ID)
	if got.OfficesAmount != 0 || got.EmployeesAmount != 0 {
		t.Fatalf("counters after cascade = %d/%d, want 0/0", got.OfficesAmount, got.EmployeesAmount)
	}
	if emps, _ := f.db.ListEmployeesByCorporation(corp.ID); len(emps) != 0 {
		t.Fatalf("cascade left %d employee rows", len(emps))
	}
}

func TestDepartmentScopeGate(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	_, w1 := f.signup(t, "w1", models.AuthorityWorker)
	corp := f.founded(t, d1, "Initech")
	o1 := f.office(t, d1, corp.ID, "Austin")
	f.hire(t, d1, o1, "Peter")

	dept, err := f.departments.Create(d1, &models.DepartmentRequest{
		Name:          "TPS Reports",
		Description:   "paperwork",
		CorporationID: corp.ID,
	})
	if err != nil {
		t.Fatalf("create department: %v", err)
	}

	// w1 has no employee record under the corporation.
	if _, err := f.departments.Get(w1, dept.ID); !apperr.IsNotEmployeeOfScope(err) {
		t.Fatalf("expected NotEmployeeOfScope, got %v", err)
	}
	// d1 is hired into an office of the corporation, so reads pass.
	if _, err := f.departments.Get(d1, dept.ID); err != nil {
		t.Fatalf("in-scope read failed: %v", err)
	}
}

func TestSetDepartmentOfficesCrossCorporation(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	corp := f.founded(t, d1, "Initech")
	other := f.founded(t, d1, "Globex")
	o1 := f.office(t, d1, corp.ID, "Austin")
	foreign := f.office(t, d1, other.ID, "Berlin")

	dept, err := f.departments.Create(d1, &models.DepartmentRequest{
		Name: "Sales", Description: "field sales", CorporationID: corp.ID,
	})
	if err != nil {
		t.Fatalf("create department: %v", err)
	}

	if _, err := f.departments.SetOffices(d1, dept.ID, []models.OfficeKey{foreign.Key()}); !apperr.IsInvalidReference(err) {
		t.Fatalf("expected InvalidReference for foreign office, got %v", err)
	}

	updated, err := f.departments.SetOffices(d1, dept.ID, []models.OfficeKey{o1.Key()})
	if err != nil {
		t.Fatalf("set offices: %v", err)
	}
	if len(updated.OfficeKeys) != 1 || updated.OfficeKeys[0] != o1.Key() {
		t.Fatalf("join relation = %v, want [%v]", updated.OfficeKeys, o1.Key())
	}
}

func TestPositionLifecycle(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	corp := f.founded(t, d1, "Initech")
	o1 := f.office(t, d1, corp.ID, "Austin")
	f.hire(t, d1, o1, "Peter")

	dept, _ := f.departments.Create(d1, &models.DepartmentRequest{
		Name: "Engineering", Description: "builds things", CorporationID: corp.ID,
	})

	pos, err := f.positions.Create(d1, &models.PositionRequest{
		Name: "Staff Engineer", Description: "senior IC", DepartmentID: dept.ID,
	})
	if err != nil {
		t.Fatalf("create position: %v", err)
	}

	// Unresolvable department reference falls back silently on update.
	updated, err := f.positions.Update(d1, pos.ID, &models.PositionRequest{
		Name:         "Principal Engineer",
		DepartmentID: "no-such-department",
	})
	if err != nil {
		t.Fatalf("update position: %v", err)
	}
	if updated.Name != "Principal Engineer" || updated.DepartmentID != dept.ID {
		t.Fatalf("merge got %q/%q", updated.Name, updated.DepartmentID)
	}
}

func TestEnableDisableNoOp(t *testing.T) {
	f := newFixture()
	_, admin := f.signup(t, "root", models.AuthorityAdmin)
	target, _ := f.signup(t, "alice", models.AuthorityUser)

	if _, err := f.identities.EnableDisable(admin, target.ID, true); !apperr.IsConflictingNoOp(err) {
		t.Fatalf("expected ConflictingNoOp enabling an enabled identity, got %v", err)
	}
	disabled, err := f.identities.EnableDisable(admin, target.ID, false)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if disabled.Enabled {
		t.Fatal("identity still enabled")
	}

	_, user := f.signup(t, "bob", models.AuthorityUser)
	if _, err := f.identities.EnableDisable(user, target.ID, true); !apperr.IsNotAuthorized(err) {
		t.Fatalf("expected NotAuthorized for non-admin, got %v", err)
	}
}

func TestRoleTransitions(t *testing.T) {
	f := newFixture()
	identity, caller := f.signup(t, "alice", models.AuthorityUser)

	// USER may become WORKER or DIRECTOR, not USER again.
	if _, err := f.identities.MakeUser(caller, identity.ID); !apperr.IsNotAuthorized(err) {
		t.Fatalf("expected NotAuthorized for USER→USER path, got %v", err)
	}
	promoted, err := f.identities.MakeWorker(caller, identity.ID)
	if err != nil {
		t.Fatalf("make worker: %v", err)
	}
	if promoted.Authority != models.AuthorityWorker {
		t.Fatalf("authority = %s, want WORKER", promoted.Authority)
	}

	// Transitions are self-gated.
	_, other := f.signup(t, "bob", models.AuthorityUser)
	if _, err := f.identities.MakeWorker(other, identity.ID); !apperr.IsNotAuthorized(err) {
		t.Fatalf("expected NotAuthorized for non-self transition, got %v", err)
	}
}

func TestChangePasswordNoOp(t *testing.T) {
	f := newFixture()
	identity, caller := f.signup(t, "alice", models.AuthorityUser)

	if err := f.identities.ChangePassword(caller, identity.ID, "secret-alice"); !apperr.IsConflictingNoOp(err) {
		t.Fatalf("expected ConflictingNoOp for unchanged password, got %v", err)
	}
	if err := f.identities.ChangePassword(caller, identity.ID, ""); !apperr.IsEmptyRequiredField(err) {
		t.Fatalf("expected EmptyRequiredField, got %v", err)
	}
	if err := f.identities.ChangePassword(caller, identity.ID, "fresh-secret"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := f.identities.Authenticate("alice", "fresh-secret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestAsyncMatchesSync(t *testing.T) {
	f := newFixture()
	_, d1 := f.signup(t, "d1", models.AuthorityDirector)
	f.founded(t, d1, "Initech")
	f.founded(t, d1, "Globex")

	pool := NewPool(4)
	future := Submit(pool, func() ([]models.Corporation, error) {
		return f.corporations.List()
	})
	async, err := future.Wait()
	if err != nil {
		t.Fatalf("async list: %v", err)
	}
	sync, _ := f.corporations.List()
	if len(async) != len(sync) {
		t.Fatalf("async returned %d rows, sync %d", len(async), len(sync))
	}
}
