package database

import (
	"testing"

	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

func seedCorporation(t *testing.T, db *LocalDatabase, name string) *models.Corporation {
	t.Helper()
	corp := &models.Corporation{Name: name, Description: "d", Directors: []string{"dir-1"}}
	if err := db.CreateCorporation(corp); err != nil {
		t.Fatalf("create corporation: %v", err)
	}
	return corp
}

func seedOffice(t *testing.T, db *LocalDatabase, corporationID string) *models.Office {
	t.Helper()
	addr := &models.Address{Street: "Main", City: "Austin", House: "1"}
	if err := db.CreateAddress(addr); err != nil {
		t.Fatalf("create address: %v", err)
	}
	office := &models.Office{CorporationID: corporationID, AddressID: addr.ID}
	if err := db.CreateOffice(office); err != nil {
		t.Fatalf("create office: %v", err)
	}
	return office
}

func seedEmployee(t *testing.T, db *LocalDatabase, office *models.Office) *models.Employee {
	t.Helper()
	emp := &models.Employee{
		FirstName:           "Peter",
		LastName:            "Gibbons",
		OfficeCorporationID: office.CorporationID,
		OfficeAddressID:     office.AddressID,
	}
	if err := db.CreateEmployee(emp); err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return emp
}

// 不变式：每个静止点上 office.employeesAmount 等于实际行数，
// corporation.employeesAmount 等于其办公室之和。
func assertCounterInvariant(t *testing.T, db *LocalDatabase, corporationID string) {
	t.Helper()
	offices, _ := db.ListOfficesByCorporation(corporationID)
	total := 0
	for _, office := range offices {
		emps, _ := db.ListEmployeesByOffice(office.Key())
		if office.EmployeesAmount != len(emps) {
			t.Fatalf("office %s/%s counter %d, rows %d",
				office.CorporationID, office.AddressID, office.EmployeesAmount, len(emps))
		}
		total += office.EmployeesAmount
	}
	corp, err := db.GetCorporation(corporationID)
	if err != nil {
		t.Fatalf("get corporation: %v", err)
	}
	if corp.EmployeesAmount != total {
		t.Fatalf("corporation counter %d, sum of offices %d", corp.EmployeesAmount, total)
	}
	if corp.OfficesAmount != len(offices) {
		t.Fatalf("officesAmount %d, rows %d", corp.OfficesAmount, len(offices))
	}
}

func TestCountersAcrossEmployeeLifecycle(t *testing.T) {
	db := NewLocalDatabase()
	corp := seedCorporation(t, db, "Initech")
	o1 := seedOffice(t, db, corp.ID)
	o2 := seedOffice(t, db, corp.ID)

	e1 := seedEmployee(t, db, o1)
	seedEmployee(t, db, o1)
	assertCounterInvariant(t, db, corp.ID)

	if err := db.TransferEmployee(e1.ID, o2.Key()); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	assertCounterInvariant(t, db, corp.ID)

	moved, _ := db.GetEmployee(e1.ID)
	if moved.OfficeKey() != o2.Key() {
		t.Fatalf("employee office %v, want %v", moved.OfficeKey(), o2.Key())
	}

	if err := db.DeleteEmployee(e1.ID); err != nil {
		t.Fatalf("delete employee: %v", err)
	}
	assertCounterInvariant(t, db, corp.ID)
}

func TestDeleteEmployeeDetachesLinks(t *testing.T) {
	db := NewLocalDatabase()
	corp := seedCorporation(t, db, "Initech")
	o1 := seedOffice(t, db, corp.ID)

	identity := &models.Identity{
		Username: "peter", Password: "x", Email: "p@corp.example",
		Phone: "+1", Authority: models.AuthorityWorker, Enabled: true,
	}
	if err := db.CreateIdentity(identity); err != nil {
		t.Fatalf("create identity: %v", err)
	}
	emp := &models.Employee{
		IdentityID:          identity.ID,
		FirstName:           "Peter",
		LastName:            "Gibbons",
		OfficeCorporationID: o1.CorporationID,
		OfficeAddressID:     o1.AddressID,
	}
	if err := db.CreateEmployee(emp); err != nil {
		t.Fatalf("create employee: %v", err)
	}
	identity.EmployeeID = emp.ID
	if err := db.UpdateIdentity(identity); err != nil {
		t.Fatalf("link identity: %v", err)
	}

	dept := &models.Department{Name: "Eng", Description: "d", CorporationID: corp.ID}
	if err := db.CreateDepartment(dept); err != nil {
		t.Fatalf("create department: %v", err)
	}
	pos := &models.Position{Name: "IC", Description: "d", DepartmentID: dept.ID, EmployeeID: emp.ID}
	if err := db.CreatePosition(pos); err != nil {
		t.Fatalf("create position: %v", err)
	}

	if err := db.DeleteEmployee(emp.ID); err != nil {
		t.Fatalf("delete employee: %v", err)
	}
	gotIdentity, _ := db.GetIdentityByID(identity.ID)
	if gotIdentity.EmployeeID != "" {
		t.Fatal("identity still linked to the deleted employee")
	}
	gotPos, _ := db.GetPosition(pos.ID)
	if gotPos.EmployeeID != "" {
		t.Fatal("position still held by the deleted employee")
	}
}

func TestDeleteOfficeCascade(t *testing.T) {
	db := NewLocalDatabase()
	corp := seedCorporation(t, db, "Initech")
	o1 := seedOffice(t, db, corp.ID)
	o2 := seedOffice(t, db, corp.ID)
	seedEmployee(t, db, o1)
	seedEmployee(t, db, o1)
	seedEmployee(t, db, o2)

	if err := db.DeleteOffice(o1.Key()); err != nil {
		t.Fatalf("delete office: %v", err)
	}
	assertCounterInvariant(t, db, corp.ID)

	got, _ := db.GetCorporation(corp.ID)
	if got.OfficesAmount != 1 || got.EmployeesAmount != 1 {
		t.Fatalf("counters %d/%d, want 1/1", got.OfficesAmount, got.EmployeesAmount)
	}
}

func TestUpdateCorporationKeepsStoredCounters(t *testing.T) {
	db := NewLocalDatabase()
	corp := seedCorporation(t, db, "Initech")
	seedOffice(t, db, corp.ID)

	corp.Name = "Initech Global"
	corp.OfficesAmount = 99
	if err := db.UpdateCorporation(corp); err != nil {
		t.Fatalf("update corporation: %v", err)
	}
	got, _ := db.GetCorporation(corp.ID)
	if got.OfficesAmount != 1 {
		t.Fatalf("stored counter overwritten, got %d", got.OfficesAmount)
	}
	if got.Name != "Initech Global" {
		t.Fatalf("name not updated, got %q", got.Name)
	}
}

func TestCorporationNameUnique(t *testing.T) {
	db := NewLocalDatabase()
	seedCorporation(t, db, "Initech")
	err := db.CreateCorporation(&models.Corporation{Name: "Initech", Description: "d", Directors: []string{"x"}})
	if !apperr.IsStorageIntegrity(err) {
		t.Fatalf("expected StorageIntegrity for duplicate name, got %v", err)
	}
}

func TestOfficeKeyUnique(t *testing.T) {
	db := NewLocalDatabase()
	corp := seedCorporation(t, db, "Initech")
	o1 := seedOffice(t, db, corp.ID)
	err := db.CreateOffice(&models.Office{CorporationID: o1.CorporationID, AddressID: o1.AddressID})
	if !apperr.IsStorageIntegrity(err) {
		t.Fatalf("expected StorageIntegrity for duplicate key, got %v", err)
	}
}

func TestDeleteReferencedAddressRejected(t *testing.T) {
	db := NewLocalDatabase()
	corp := seedCorporation(t, db, "Initech")
	o1 := seedOffice(t, db, corp.ID)

	if err := db.DeleteAddress(o1.AddressID); !apperr.IsStorageIntegrity(err) {
		t.Fatalf("expected StorageIntegrity, got %v", err)
	}
	if err := db.DeleteOffice(o1.Key()); err != nil {
		t.Fatalf("delete office: %v", err)
	}
	if err := db.DeleteAddress(o1.AddressID); err != nil {
		t.Fatalf("delete address after office removal: %v", err)
	}
}

func TestSetDepartmentOfficesReplaces(t *testing.T) {
	db := NewLocalDatabase()
	corp := seedCorporation(t, db, "Initech")
	o1 := seedOffice(t, db, corp.ID)
	o2 := seedOffice(t, db, corp.ID)

	dept := &models.Department{Name: "Eng", Description: "d", CorporationID: corp.ID}
	if err := db.CreateDepartment(dept); err != nil {
		t.Fatalf("create department: %v", err)
	}

	if err := db.SetDepartmentOffices(dept.ID, []models.OfficeKey{o1.Key(), o2.Key()}); err != nil {
		t.Fatalf("set offices: %v", err)
	}
	got, _ := db.GetDepartment(dept.ID)
	if len(got.OfficeKeys) != 2 {
		t.Fatalf("join rows %d, want 2", len(got.OfficeKeys))
	}

	// The relation is replaced, never appended.
	if err := db.SetDepartmentOffices(dept.ID, []models.OfficeKey{o2.Key()}); err != nil {
		t.Fatalf("replace offices: %v", err)
	}
	got, _ = db.GetDepartment(dept.ID)
	if len(got.OfficeKeys) != 1 || got.OfficeKeys[0] != o2.Key() {
		t.Fatalf("join rows %v, want [%v]", got.OfficeKeys, o2.Key())
	}
}

func TestDeleteOfficeRemovesJoinRows(t *testing.T) {
	db := NewLocalDatabase()
	corp := seedCorporation(t, db, "Initech")
	o1 := seedOffice(t, db, corp.ID)
	o2 := seedOffice(t, db, corp.ID)

	dept := &models.Department{Name: "Eng", Description: "d", CorporationID: corp.ID}
	if err := db.CreateDepartment(dept); err != nil {
		t.Fatalf("create department: %v", err)
	}
	if err := db.SetDepartmentOffices(dept.ID, []models.OfficeKey{o1.Key(), o2.Key()}); err != nil {
		t.Fatalf("set offices: %v", err)
	}

	if err := db.DeleteOffice(o1.Key()); err != nil {
		t.Fatalf("delete office: %v", err)
	}

	// A deleted office must not linger in any department's relation.
	got, _ := db.GetDepartment(dept.ID)
	if len(got.OfficeKeys) != 1 || got.OfficeKeys[0] != o2.Key() {
		t.Fatalf("join rows %v after office delete, want [%v]", got.OfficeKeys, o2.Key())
	}
}

func TestDeleteCorporationCascade(t *testing.T) {
	db := NewLocalDatabase()
	corp := seedCorporation(t, db, "Initech")
	o1 := seedOffice(t, db, corp.ID)
	seedEmployee(t, db, o1)
	dept := &models.Department{Name: "Eng", Description: "d", CorporationID: corp.ID}
	if err := db.CreateDepartment(dept); err != nil {
		t.Fatalf("create department: %v", err)
	}
	pos := &models.Position{Name: "IC", Description: "d", DepartmentID: dept.ID}
	if err := db.CreatePosition(pos); err != nil {
		t.Fatalf("create position: %v", err)
	}

	if err := db.DeleteCorporation(corp.ID); err != nil {
		t.Fatalf("delete corporation: %v", err)
	}
	for name, check := range map[string]func() error{
		"corporation": func() error { _, err := db.GetCorporation(corp.ID); return err },
		"office":      func() error { _, err := db.GetOffice(o1.Key()); return err },
		"department":  func() error { _, err := db.GetDepartment(dept.ID); return err },
		"position":    func() error { _, err := db.GetPosition(pos.ID); return err },
	} {
		if err := check(); !apperr.IsNotFound(err) {
			t.Fatalf("%s survived the cascade: %v", name, err)
		}
	}
}

func TestLocalDatabaseImplementsInterface(t *testing.T) {
	var _ DatabaseInterface = NewLocalDatabase()
}

func TestManyOfficesStayConsistent(t *testing.T) {
	db := NewLocalDatabase()
	corp := seedCorporation(t, db, "Initech")
	for i := 0; i < 10; i++ {
		office := seedOffice(t, db, corp.ID)
		for j := 0; j <= i%3; j++ {
			seedEmployee(t, db, office)
		}
	}
	assertCounterInvariant(t, db, corp.ID)

	offices, _ := db.ListOfficesByCorporation(corp.ID)
	if len(offices) != 10 {
		t.Fatalf("offices %d, want 10", len(offices))
	}
}
