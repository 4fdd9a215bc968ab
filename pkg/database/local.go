package database

import (
	"fmt"
	"sync"
	"time"

	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"

	"github.com/google/uuid"
)

// LocalDatabase 内存数据库实现（开发与测试用）
// One coarse mutex stands in for the store transaction: every mutating
// operation, including its counter adjustments, commits under a single
// critical section.
type LocalDatabase struct {
	mu sync.RWMutex

	identities   map[string]*models.Identity
	corporations map[string]*models.Corporation
	addresses    map[string]*models.Address
	offices      map[models.OfficeKey]*models.Office
	departments  map[string]*models.Department
	positions    map[string]*models.Position
	employees    map[string]*models.Employee
}

// NewLocalDatabase 创建内存数据库实例
func NewLocalDatabase() *LocalDatabase {
	return &LocalDatabase{
		identities:   make(map[string]*models.Identity),
		corporations: make(map[string]*models.Corporation),
		addresses:    make(map[string]*models.Address),
		offices:      make(map[models.OfficeKey]*models.Office),
		departments:  make(map[string]*models.Department),
		positions:    make(map[string]*models.Position),
		employees:    make(map[string]*models.Employee),
	}
}

// ==== Identities ====

func (db *LocalDatabase) CreateIdentity(identity *models.Identity) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.identities {
		if existing.Username == identity.Username {
			return apperr.StorageIntegrity(fmt.Errorf("username %q already taken", identity.Username))
		}
	}

	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	now := time.Now()
	identity.CreatedAt = now
	identity.UpdatedAt = now

	cp := *identity
	db.identities[identity.ID] = &cp
	return nil
}

func (db *LocalDatabase) GetIdentityByID(id string) (*models.Identity, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	identity, ok := db.identities[id]
	if !ok {
		return nil, apperr.NotFound("identity", id)
	}
	cp := *identity
	return &cp, nil
}

func (db *LocalDatabase) GetIdentityByUsername(username string) (*models.Identity, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, identity := range db.identities {
		if identity.Username == username {
			cp := *identity
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("identity", username)
}

func (db *LocalDatabase) ListIdentities() ([]models.Identity, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Identity, 0, len(db.identities))
	for _, identity := range db.identities {
		out = append(out, *identity)
	}
	return out, nil
}

func (db *LocalDatabase) UpdateIdentity(identity *models.Identity) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.identities[identity.ID]; !ok {
		return apperr.NotFound("identity", identity.ID)
	}
	identity.UpdatedAt = time.Now()
	cp := *identity
	db.identities[identity.ID] = &cp
	return nil
}

func (db *LocalDatabase) DeleteIdentity(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.identities[id]; !ok {
		return apperr.NotFound("identity", id)
	}
	delete(db.identities, id)
	return nil
}

// ==== Corporations ====

func (db *LocalDatabase) CreateCorporation(corp *models.Corporation) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.corporations {
		if existing.Name == corp.Name {
			return apperr.StorageIntegrity(fmt.Errorf("corporation name %q already taken", corp.Name))
		}
	}

	if corp.ID == "" {
		corp.ID = uuid.NewString()
	}
	now := time.Now()
	corp.CreatedAt = now
	corp.UpdatedAt = now

	db.corporations[corp.ID] = copyCorporation(corp)
	return nil
}

func (db *LocalDatabase) GetCorporation(id string) (*models.Corporation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	corp, ok := db.corporations[id]
	if !ok {
		return nil, apperr.NotFound("corporation", id)
	}
	return copyCorporation(corp), nil
}

func (db *LocalDatabase) ListCorporations() ([]models.Corporation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Corporation, 0, len(db.corporations))
	for _, corp := range db.corporations {
		out = append(out, *copyCorporation(corp))
	}
	return out, nil
}

func (db *LocalDatabase) UpdateCorporation(corp *models.Corporation) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, ok := db.corporations[corp.ID]
	if !ok {
		return apperr.NotFound("corporation", corp.ID)
	}
	// Counters belong to the store; keep the stored values.
	corp.OfficesAmount = stored.OfficesAmount
	corp.EmployeesAmount = stored.EmployeesAmount
	corp.UpdatedAt = time.Now()
	db.corporations[corp.ID] = copyCorporation(corp)
	return nil
}

func (db *LocalDatabase) DeleteCorporation(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.corporations[id]; !ok {
		return apperr.NotFound("corporation", id)
	}

	// Cascade: departments, positions, offices and employees of the corporation.
	for deptID, dept := range db.departments {
		if dept.CorporationID != id {
			continue
		}
		for posID, pos := range db.positions {
			if pos.DepartmentID == deptID {
				delete(db.positions, posID)
			}
		}
		delete(db.departments, deptID)
	}
	for key := range db.offices {
		if key.CorporationID == id {
			delete(db.offices, key)
		}
	}
	for empID, emp := range db.employees {
		if emp.OfficeCorporationID == id {
			delete(db.employees, empID)
		}
	}
	delete(db.corporations, id)
	return nil
}

// ==== Addresses ====

func (db *LocalDatabase) CreateAddress(addr *models.Address) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}
	now := time.Now()
	addr.CreatedAt = now
	addr.UpdatedAt = now

	cp := *addr
	db.addresses[addr.ID] = &cp
	return nil
}

func (db *LocalDatabase) GetAddress(id string) (*models.Address, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	addr, ok := db.addresses[id]
	if !ok {
		return nil, apperr.NotFound("address", id)
	}
	cp := *addr
	return &cp, nil
}

func (db *LocalDatabase) ListAddresses() ([]models.Address, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Address, 0, len(db.addresses))
	for _, addr := range db.addresses {
		out = append(out, *addr)
	}
	return out, nil
}

func (db *LocalDatabase) UpdateAddress(addr *models.Address) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.addresses[addr.ID]; !ok {
		return apperr.NotFound("address", addr.ID)
	}
	addr.UpdatedAt = time.Now()
	cp := *addr
	db.addresses[addr.ID] = &cp
	return nil
}

func (db *LocalDatabase) DeleteAddress(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.addresses[id]; !ok {
		return apperr.NotFound("address", id)
	}
	for key := range db.offices {
		if key.AddressID == id {
			return apperr.StorageIntegrity(fmt.Errorf("address %s is referenced by an office", id))
		}
	}
	delete(db.addresses, id)
	return nil
}

// ==== Offices ====

func (db *LocalDatabase) CreateOffice(office *models.Office) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := office.Key()
	if _, exists := db.offices[key]; exists {
		return apperr.StorageIntegrity(fmt.Errorf("office %s/%s already exists", key.CorporationID, key.AddressID))
	}
	corp, ok := db.corporations[key.CorporationID]
	if !ok {
		return apperr.NotFound("corporation", key.CorporationID)
	}
	if _, ok := db.addresses[key.AddressID]; !ok {
		return apperr.NotFound("address", key.AddressID)
	}

	now := time.Now()
	office.EmployeesAmount = 0
	office.CreatedAt = now
	office.UpdatedAt = now

	cp := *office
	db.offices[key] = &cp
	// Same critical section as the insert: the counter is never observed stale.
	corp.OfficesAmount++
	corp.UpdatedAt = now
	return nil
}

func (db *LocalDatabase) GetOffice(key models.OfficeKey) (*models.Office, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	office, ok := db.offices[key]
	if !ok {
		return nil, apperr.NotFound("office", key.CorporationID+"/"+key.AddressID)
	}
	cp := *office
	return &cp, nil
}

func (db *LocalDatabase) ListOffices() ([]models.Office, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Office, 0, len(db.offices))
	for _, office := range db.offices {
		out = append(out, *office)
	}
	return out, nil
}

func (db *LocalDatabase) ListOfficesByCorporation(corporationID string) ([]models.Office, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []models.Office
	for key, office := range db.offices {
		if key.CorporationID == corporationID {
			out = append(out, *office)
		}
	}
	return out, nil
}

func (db *LocalDatabase) DeleteOffice(key models.OfficeKey) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.offices[key]; !ok {
		return apperr.NotFound("office", key.CorporationID+"/"+key.AddressID)
	}

	// Cascade employees of the office, then settle both counters in the same
	// critical section.
	removed := 0
	for empID, emp := range db.employees {
		if emp.OfficeKey() == key {
			delete(db.employees, empID)
			removed++
		}
	}
	delete(db.offices, key)

	// The join relation must not keep keys of deleted offices.
	for _, dept := range db.departments {
		kept := dept.OfficeKeys[:0]
		for _, k := range dept.OfficeKeys {
			if k != key {
				kept = append(kept, k)
			}
		}
		if len(kept) != len(dept.OfficeKeys) {
			dept.OfficeKeys = kept
			dept.UpdatedAt = time.Now()
		}
	}

	if corp, ok := db.corporations[key.CorporationID]; ok {
		corp.OfficesAmount--
		corp.EmployeesAmount -= removed
		corp.UpdatedAt = time.Now()
	}
	return nil
}

// ==== Departments ====

func (db *LocalDatabase) CreateDepartment(dept *models.Department) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.corporations[dept.CorporationID]; !ok {
		return apperr.NotFound("corporation", dept.CorporationID)
	}

	if dept.ID == "" {
		dept.ID = uuid.NewString()
	}
	now := time.Now()
	dept.CreatedAt = now
	dept.UpdatedAt = now

	db.departments[dept.ID] = copyDepartment(dept)
	return nil
}

func (db *LocalDatabase) GetDepartment(id string) (*models.Department, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	dept, ok := db.departments[id]
	if !ok {
		return nil, apperr.NotFound("department", id)
	}
	return copyDepartment(dept), nil
}

func (db *LocalDatabase) ListDepartments() ([]models.Department, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Department, 0, len(db.departments))
	for _, dept := range db.departments {
		out = append(out, *copyDepartment(dept))
	}
	return out, nil
}

func (db *LocalDatabase) ListDepartmentsByCorporation(corporationID string) ([]models.Department, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []models.Department
	for _, dept := range db.departments {
		if dept.CorporationID == corporationID {
			out = append(out, *copyDepartment(dept))
		}
	}
	return out, nil
}

func (db *LocalDatabase) UpdateDepartment(dept *models.Department) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, ok := db.departments[dept.ID]
	if !ok {
		return apperr.NotFound("department", dept.ID)
	}
	// Join relation is owned by SetDepartmentOffices.
	dept.OfficeKeys = stored.OfficeKeys
	dept.UpdatedAt = time.Now()
	db.departments[dept.ID] = copyDepartment(dept)
	return nil
}

func (db *LocalDatabase) DeleteDepartment(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.departments[id]; !ok {
		return apperr.NotFound("department", id)
	}
	for posID, pos := range db.positions {
		if pos.DepartmentID == id {
			delete(db.positions, posID)
		}
	}
	delete(db.departments, id)
	return nil
}

func (db *LocalDatabase) SetDepartmentOffices(departmentID string, keys []models.OfficeKey) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	dept, ok := db.departments[departmentID]
	if !ok {
		return apperr.NotFound("department", departmentID)
	}
	for _, key := range keys {
		if _, ok := db.offices[key]; !ok {
			return apperr.NotFound("office", key.CorporationID+"/"+key.AddressID)
		}
	}
	dept.OfficeKeys = append([]models.OfficeKey(nil), keys...)
	dept.UpdatedAt = time.Now()
	return nil
}

// ==== Positions ====

func (db *LocalDatabase) CreatePosition(pos *models.Position) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.departments[pos.DepartmentID]; !ok {
		return apperr.NotFound("department", pos.DepartmentID)
	}

	if pos.ID == "" {
		pos.ID = uuid.NewString()
	}
	now := time.Now()
	pos.CreatedAt = now
	pos.UpdatedAt = now

	cp := *pos
	db.positions[pos.ID] = &cp
	return nil
}

func (db *LocalDatabase) GetPosition(id string) (*models.Position, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	pos, ok := db.positions[id]
	if !ok {
		return nil, apperr.NotFound("position", id)
	}
	cp := *pos
	return &cp, nil
}

func (db *LocalDatabase) ListPositions() ([]models.Position, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Position, 0, len(db.positions))
	for _, pos := range db.positions {
		out = append(out, *pos)
	}
	return out, nil
}

func (db *LocalDatabase) ListPositionsByDepartment(departmentID string) ([]models.Position, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []models.Position
	for _, pos := range db.positions {
		if pos.DepartmentID == departmentID {
			out = append(out, *pos)
		}
	}
	return out, nil
}

func (db *LocalDatabase) ListPositionsByCorporation(corporationID string) ([]models.Position, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []models.Position
	for _, pos := range db.positions {
		dept, ok := db.departments[pos.DepartmentID]
		if ok && dept.CorporationID == corporationID {
			out = append(out, *pos)
		}
	}
	return out, nil
}

func (db *LocalDatabase) UpdatePosition(pos *models.Position) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.positions[pos.ID]; !ok {
		return apperr.NotFound("position", pos.ID)
	}
	pos.UpdatedAt = time.Now()
	cp := *pos
	db.positions[pos.ID] = &cp
	return nil
}

func (db *LocalDatabase) DeletePosition(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.positions[id]; !ok {
		return apperr.NotFound("position", id)
	}
	delete(db.positions, id)
	return nil
}

// ==== Employees ====

func (db *LocalDatabase) CreateEmployee(emp *models.Employee) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := emp.OfficeKey()
	office, ok := db.offices[key]
	if !ok {
		return apperr.NotFound("office", key.CorporationID+"/"+key.AddressID)
	}
	corp, ok := db.corporations[key.CorporationID]
	if !ok {
		return apperr.NotFound("corporation", key.CorporationID)
	}

	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	now := time.Now()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	cp := *emp
	db.employees[emp.ID] = &cp

	// Membership change and both counters commit together.
	office.EmployeesAmount++
	office.UpdatedAt = now
	corp.EmployeesAmount++
	corp.UpdatedAt = now
	return nil
}

func (db *LocalDatabase) GetEmployee(id string) (*models.Employee, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	emp, ok := db.employees[id]
	if !ok {
		return nil, apperr.NotFound("employee", id)
	}
	cp := *emp
	return &cp, nil
}

func (db *LocalDatabase) GetEmployeeByIdentity(identityID string) (*models.Employee, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if identityID != "" {
		for _, emp := range db.employees {
			if emp.IdentityID == identityID {
				cp := *emp
				return &cp, nil
			}
		}
	}
	return nil, apperr.NotFound("employee", "identity="+identityID)
}

func (db *LocalDatabase) ListEmployees() ([]models.Employee, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Employee, 0, len(db.employees))
	for _, emp := range db.employees {
		out = append(out, *emp)
	}
	return out, nil
}

func (db *LocalDatabase) ListEmployeesByOffice(key models.OfficeKey) ([]models.Employee, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []models.Employee
	for _, emp := range db.employees {
		if emp.OfficeKey() == key {
			out = append(out, *emp)
		}
	}
	return out, nil
}

func (db *LocalDatabase) ListEmployeesByCorporation(corporationID string) ([]models.Employee, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []models.Employee
	for _, emp := range db.employees {
		if emp.OfficeCorporationID == corporationID {
			out = append(out, *emp)
		}
	}
	return out, nil
}

func (db *LocalDatabase) UpdateEmployee(emp *models.Employee) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, ok := db.employees[emp.ID]
	if !ok {
		return apperr.NotFound("employee", emp.ID)
	}
	// Office membership is immutable here; TransferEmployee owns it.
	emp.OfficeCorporationID = stored.OfficeCorporationID
	emp.OfficeAddressID = stored.OfficeAddressID
	emp.UpdatedAt = time.Now()
	cp := *emp
	db.employees[emp.ID] = &cp
	return nil
}

func (db *LocalDatabase) DeleteEmployee(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	emp, ok := db.employees[id]
	if !ok {
		return apperr.NotFound("employee", id)
	}
	delete(db.employees, id)

	now := time.Now()
	if office, ok := db.offices[emp.OfficeKey()]; ok {
		office.EmployeesAmount--
		office.UpdatedAt = now
	}
	if corp, ok := db.corporations[emp.OfficeCorporationID]; ok {
		corp.EmployeesAmount--
		corp.UpdatedAt = now
	}
	// Detach the identity link and any position held.
	for _, identity := range db.identities {
		if identity.EmployeeID == id {
			identity.EmployeeID = ""
			identity.UpdatedAt = now
		}
	}
	for _, pos := range db.positions {
		if pos.EmployeeID == id {
			pos.EmployeeID = ""
			pos.UpdatedAt = now
		}
	}
	return nil
}

func (db *LocalDatabase) TransferEmployee(id string, to models.OfficeKey) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	emp, ok := db.employees[id]
	if !ok {
		return apperr.NotFound("employee", id)
	}
	from := emp.OfficeKey()
	oldOffice, ok := db.offices[from]
	if !ok {
		return apperr.NotFound("office", from.CorporationID+"/"+from.AddressID)
	}
	newOffice, ok := db.offices[to]
	if !ok {
		return apperr.NotFound("office", to.CorporationID+"/"+to.AddressID)
	}

	// Decrement, reassign, increment: all three under the same lock.
	now := time.Now()
	oldOffice.EmployeesAmount--
	oldOffice.UpdatedAt = now
	emp.OfficeCorporationID = to.CorporationID
	emp.OfficeAddressID = to.AddressID
	emp.UpdatedAt = now
	newOffice.EmployeesAmount++
	newOffice.UpdatedAt = now
	return nil
}

// ==== 基础设施 ====

func (db *LocalDatabase) HealthCheck() error {
	return nil
}

func (db *LocalDatabase) Close() error {
	return nil
}

func copyCorporation(corp *models.Corporation) *models.Corporation {
	cp := *corp
	cp.Directors = append([]string(nil), corp.Directors...)
	return &cp
}

func copyDepartment(dept *models.Department) *models.Department {
	cp := *dept
	cp.OfficeKeys = append([]models.OfficeKey(nil), dept.OfficeKeys...)
	return &cp
}
