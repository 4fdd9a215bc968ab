package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"

	"github.com/lib/pq"
)

// PostgresDatabase PostgreSQL数据库实现
type PostgresDatabase struct {
	db *sql.DB
}

// NewPostgresDatabase 创建PostgreSQL数据库实例
func NewPostgresDatabase(dsn string) DatabaseInterface {
	// Sanitize DSN to avoid stray CR/LF from env values
	dsn = strings.TrimSpace(dsn)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		panic(fmt.Sprintf("Failed to open PostgreSQL connection: %v", err))
	}

	// 连接池参数
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		panic(fmt.Sprintf("Failed to ping PostgreSQL: %v", err))
	}

	fmt.Printf("✅ PostgreSQL connection established successfully\n")
	return &PostgresDatabase{db: db}
}

// mapPQError 将存储层错误翻译成领域错误类别
// 23505 = unique_violation, 23503 = foreign_key_violation, 23502 = not_null_violation
func mapPQError(err error, entity, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(entity, key)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505", "23503", "23502":
			return apperr.StorageIntegrity(err)
		}
	}
	return fmt.Errorf("%s: %w", entity, err)
}

// nullIfEmpty 空字符串写入 NULL，供 COALESCE 部分更新使用
func nullIfEmpty(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// ==== Identities ====

func (db *PostgresDatabase) CreateIdentity(identity *models.Identity) error {
	query := `
		INSERT INTO identities (username, password_hash, email, phone, authority, enabled, employee_id, image_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := db.db.QueryRow(query,
		identity.Username, identity.Password, identity.Email, identity.Phone,
		string(identity.Authority), identity.Enabled,
		nullIfEmpty(identity.EmployeeID), nullIfEmpty(identity.ImageRef),
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
	return mapPQError(err, "identity", identity.Username)
}

const identityColumns = `
	id, username, COALESCE(password_hash,''), email, COALESCE(phone,''),
	authority, enabled, COALESCE(employee_id::text,''), COALESCE(image_ref,''),
	created_at, updated_at
`

func scanIdentity(row interface{ Scan(...interface{}) error }) (*models.Identity, error) {
	var ident models.Identity
	var authority string
	err := row.Scan(
		&ident.ID, &ident.Username, &ident.Password, &ident.Email, &ident.Phone,
		&authority, &ident.Enabled, &ident.EmployeeID, &ident.ImageRef,
		&ident.CreatedAt, &ident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ident.Authority = models.Authority(authority)
	return &ident, nil
}

func (db *PostgresDatabase) GetIdentityByID(id string) (*models.Identity, error) {
	row := db.db.QueryRow(`SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
	ident, err := scanIdentity(row)
	if err != nil {
		return nil, mapPQError(err, "identity", id)
	}
	return ident, nil
}

func (db *PostgresDatabase) GetIdentityByUsername(username string) (*models.Identity, error) {
	row := db.db.QueryRow(`SELECT `+identityColumns+` FROM identities WHERE username = $1`, username)
	ident, err := scanIdentity(row)
	if err != nil {
		return nil, mapPQError(err, "identity", username)
	}
	return ident, nil
}

func (db *PostgresDatabase) ListIdentities() ([]models.Identity, error) {
	rows, err := db.db.Query(`SELECT ` + identityColumns + ` FROM identities ORDER BY created_at`)
	if err != nil {
		return nil, mapPQError(err, "identity", "list")
	}
	defer rows.Close()

	var out []models.Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, mapPQError(err, "identity", "list")
		}
		out = append(out, *ident)
	}
	return out, rows.Err()
}

func (db *PostgresDatabase) UpdateIdentity(identity *models.Identity) error {
	query := `
		UPDATE identities
		SET username = COALESCE($1, username),
		    password_hash = COALESCE($2, password_hash),
		    email = COALESCE($3, email),
		    phone = COALESCE($4, phone),
		    authority = $5,
		    enabled = $6,
		    employee_id = $7,
		    image_ref = $8,
		    updated_at = NOW()
		WHERE id = $9
	`
	res, err := db.db.Exec(query,
		nullIfEmpty(identity.Username), nullIfEmpty(identity.Password),
		nullIfEmpty(identity.Email), nullIfEmpty(identity.Phone),
		string(identity.Authority), identity.Enabled,
		nullIfEmpty(identity.EmployeeID), nullIfEmpty(identity.ImageRef),
		identity.ID,
	)
	if err != nil {
		return mapPQError(err, "identity", identity.ID)
	}
	return requireRowAffected(res, "identity", identity.ID)
}

func (db *PostgresDatabase) DeleteIdentity(id string) error {
	res, err := db.db.Exec(`DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return mapPQError(err, "identity", id)
	}
	return requireRowAffected(res, "identity", id)
}

// ==== Corporations ====

func (db *PostgresDatabase) CreateCorporation(corp *models.Corporation) error {
	query := `
		INSERT INTO corporations (name, description, offices_amount, employees_amount, directors, image_ref, created_at, updated_at)
		VALUES ($1, $2, 0, 0, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := db.db.QueryRow(query,
		corp.Name, corp.Description, pq.Array(corp.Directors), nullIfEmpty(corp.ImageRef),
	).Scan(&corp.ID, &corp.CreatedAt, &corp.UpdatedAt)
	if err != nil {
		return mapPQError(err, "corporation", corp.Name)
	}
	corp.OfficesAmount = 0
	corp.EmployeesAmount = 0
	return nil
}

const corporationColumns = `
	id, name, COALESCE(description,''), offices_amount, employees_amount,
	directors, COALESCE(image_ref,''), created_at, updated_at
`

func scanCorporation(row interface{ Scan(...interface{}) error }) (*models.Corporation, error) {
	var corp models.Corporation
	var directors pq.StringArray
	err := row.Scan(
		&corp.ID, &corp.Name, &corp.Description, &corp.OfficesAmount, &corp.EmployeesAmount,
		&directors, &corp.ImageRef, &corp.CreatedAt, &corp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	corp.Directors = []string(directors)
	return &corp, nil
}

func (db *PostgresDatabase) GetCorporation(id string) (*models.Corporation, error) {
	row := db.db.QueryRow(`SELECT `+corporationColumns+` FROM corporations WHERE id = $1`, id)
	corp, err := scanCorporation(row)
	if err != nil {
		return nil, mapPQError(err, "corporation", id)
	}
	return corp, nil
}

func (db *PostgresDatabase) ListCorporations() ([]models.Corporation, error) {
	rows, err := db.db.Query(`SELECT ` + corporationColumns + ` FROM corporations ORDER BY name`)
	if err != nil {
		return nil, mapPQError(err, "corporation", "list")
	}
	defer rows.Close()

	var out []models.Corporation
	for rows.Next() {
		corp, err := scanCorporation(rows)
		if err != nil {
			return nil, mapPQError(err, "corporation", "list")
		}
		out = append(out, *corp)
	}
	return out, rows.Err()
}

func (db *PostgresDatabase) UpdateCorporation(corp *models.Corporation) error {
	// Counters are never written here; they move only inside the structural
	// transactions below.
	query := `
		UPDATE corporations
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    directors = $3,
		    image_ref = $4,
		    updated_at = NOW()
		WHERE id = $5
	`
	res, err := db.db.Exec(query,
		nullIfEmpty(corp.Name), nullIfEmpty(corp.Description),
		pq.Array(corp.Directors), nullIfEmpty(corp.ImageRef), corp.ID,
	)
	if err != nil {
		return mapPQError(err, "corporation", corp.ID)
	}
	return requireRowAffected(res, "corporation", corp.ID)
}

func (db *PostgresDatabase) DeleteCorporation(id string) error {
	// Departments, positions, offices and employees cascade via FK.
	res, err := db.db.Exec(`DELETE FROM corporations WHERE id = $1`, id)
	if err != nil {
		return mapPQError(err, "corporation", id)
	}
	return requireRowAffected(res, "corporation", id)
}

// ==== Addresses ====

func (db *PostgresDatabase) CreateAddress(addr *models.Address) error {
	query := `
		INSERT INTO addresses (street, city, house, apartment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := db.db.QueryRow(query, addr.Street, addr.City, addr.House, nullIfEmpty(addr.Apartment)).
		Scan(&addr.ID, &addr.CreatedAt, &addr.UpdatedAt)
	return mapPQError(err, "address", addr.Street)
}

func (db *PostgresDatabase) GetAddress(id string) (*models.Address, error) {
	query := `
		SELECT id, street, city, house, COALESCE(apartment,''), created_at, updated_at
		FROM addresses WHERE id = $1
	`
	var addr models.Address
	err := db.db.QueryRow(query, id).Scan(
		&addr.ID, &addr.Street, &addr.City, &addr.House, &addr.Apartment,
		&addr.CreatedAt, &addr.UpdatedAt,
	)
	if err != nil {
		return nil, mapPQError(err, "address", id)
	}
	return &addr, nil
}

func (db *PostgresDatabase) ListAddresses() ([]models.Address, error) {
	query := `
		SELECT id, street, city, house, COALESCE(apartment,''), created_at, updated_at
		FROM addresses ORDER BY city, street
	`
	rows, err := db.db.Query(query)
	if err != nil {
		return nil, mapPQError(err, "address", "list")
	}
	defer rows.Close()

	var out []models.Address
	for rows.Next() {
		var addr models.Address
		if err := rows.Scan(&addr.ID, &addr.Street, &addr.City, &addr.House, &addr.Apartment,
			&addr.CreatedAt, &addr.UpdatedAt); err != nil {
			return nil, mapPQError(err, "address", "list")
		}
		out = append(out, addr)
	}
	return out, rows.Err()
}

func (db *PostgresDatabase) UpdateAddress(addr *models.Address) error {
	query := `
		UPDATE addresses
		SET street = COALESCE($1, street),
		    city = COALESCE($2, city),
		    house = COALESCE($3, house),
		    apartment = COALESCE($4, apartment),
		    updated_at = NOW()
		WHERE id = $5
	`
	res, err := db.db.Exec(query,
		nullIfEmpty(addr.Street), nullIfEmpty(addr.City), nullIfEmpty(addr.House),
		nullIfEmpty(addr.Apartment), addr.ID,
	)
	if err != nil {
		return mapPQError(err, "address", addr.ID)
	}
	return requireRowAffected(res, "address", addr.ID)
}

func (db *PostgresDatabase) DeleteAddress(id string) error {
	res, err := db.db.Exec(`DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return mapPQError(err, "address", id)
	}
	return requireRowAffected(res, "address", id)
}

// ==== Offices ====

func (db *PostgresDatabase) CreateOffice(office *models.Office) error {
	// 插入与 officesAmount 自增在同一事务提交
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin create office: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO offices (corporation_id, address_id, employees_amount, created_at, updated_at)
		VALUES ($1, $2, 0, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	if err := tx.QueryRow(query, office.CorporationID, office.AddressID).
		Scan(&office.CreatedAt, &office.UpdatedAt); err != nil {
		return mapPQError(err, "office", office.CorporationID+"/"+office.AddressID)
	}
	office.EmployeesAmount = 0

	res, err := tx.Exec(`
		UPDATE corporations SET offices_amount = offices_amount + 1, updated_at = NOW()
		WHERE id = $1
	`, office.CorporationID)
	if err != nil {
		return mapPQError(err, "corporation", office.CorporationID)
	}
	if err := requireRowAffected(res, "corporation", office.CorporationID); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *PostgresDatabase) GetOffice(key models.OfficeKey) (*models.Office, error) {
	query := `
		SELECT corporation_id, address_id, employees_amount, created_at, updated_at
		FROM offices WHERE corporation_id = $1 AND address_id = $2
	`
	var office models.Office
	err := db.db.QueryRow(query, key.CorporationID, key.AddressID).Scan(
		&office.CorporationID, &office.AddressID, &office.EmployeesAmount,
		&office.CreatedAt, &office.UpdatedAt,
	)
	if err != nil {
		return nil, mapPQError(err, "office", key.CorporationID+"/"+key.AddressID)
	}
	return &office, nil
}

func (db *PostgresDatabase) ListOffices() ([]models.Office, error) {
	return db.queryOffices(`
		SELECT corporation_id, address_id, employees_amount, created_at, updated_at
		FROM offices ORDER BY corporation_id
	`)
}

func (db *PostgresDatabase) ListOfficesByCorporation(corporationID string) ([]models.Office, error) {
	return db.queryOffices(`
		SELECT corporation_id, address_id, employees_amount, created_at, updated_at
		FROM offices WHERE corporation_id = $1
	`, corporationID)
}

func (db *PostgresDatabase) queryOffices(query string, args ...interface{}) ([]models.Office, error) {
	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, mapPQError(err, "office", "list")
	}
	defer rows.Close()

	var out []models.Office
	for rows.Next() {
		var office models.Office
		if err := rows.Scan(&office.CorporationID, &office.AddressID, &office.EmployeesAmount,
			&office.CreatedAt, &office.UpdatedAt); err != nil {
			return nil, mapPQError(err, "office", "list")
		}
		out = append(out, office)
	}
	return out, rows.Err()
}

func (db *PostgresDatabase) DeleteOffice(key models.OfficeKey) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete office: %w", err)
	}
	defer tx.Rollback()

	// Lock the office row so concurrent transfers serialize on its counter.
	var removed int
	err = tx.QueryRow(`
		SELECT employees_amount FROM offices
		WHERE corporation_id = $1 AND address_id = $2
		FOR UPDATE
	`, key.CorporationID, key.AddressID).Scan(&removed)
	if err != nil {
		return mapPQError(err, "office", key.CorporationID+"/"+key.AddressID)
	}

	if _, err := tx.Exec(`
		DELETE FROM employees WHERE office_corporation_id = $1 AND office_address_id = $2
	`, key.CorporationID, key.AddressID); err != nil {
		return mapPQError(err, "employee", "cascade")
	}
	if _, err := tx.Exec(`
		DELETE FROM offices WHERE corporation_id = $1 AND address_id = $2
	`, key.CorporationID, key.AddressID); err != nil {
		return mapPQError(err, "office", key.CorporationID+"/"+key.AddressID)
	}
	if _, err := tx.Exec(`
		UPDATE corporations
		SET offices_amount = offices_amount - 1,
		    employees_amount = employees_amount - $2,
		    updated_at = NOW()
		WHERE id = $1
	`, key.CorporationID, removed); err != nil {
		return mapPQError(err, "corporation", key.CorporationID)
	}
	return tx.Commit()
}

// ==== Departments ====

func (db *PostgresDatabase) CreateDepartment(dept *models.Department) error {
	query := `
		INSERT INTO departments (name, description, corporation_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := db.db.QueryRow(query, dept.Name, dept.Description, dept.CorporationID).
		Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
	return mapPQError(err, "department", dept.Name)
}

func (db *PostgresDatabase) GetDepartment(id string) (*models.Department, error) {
	query := `
		SELECT id, name, COALESCE(description,''), corporation_id, created_at, updated_at
		FROM departments WHERE id = $1
	`
	var dept models.Department
	err := db.db.QueryRow(query, id).Scan(
		&dept.ID, &dept.Name, &dept.Description, &dept.CorporationID,
		&dept.CreatedAt, &dept.UpdatedAt,
	)
	if err != nil {
		return nil, mapPQError(err, "department", id)
	}
	keys, err := db.loadDepartmentOffices(id)
	if err != nil {
		return nil, err
	}
	dept.OfficeKeys = keys
	return &dept, nil
}

func (db *PostgresDatabase) loadDepartmentOffices(departmentID string) ([]models.OfficeKey, error) {
	rows, err := db.db.Query(`
		SELECT office_corporation_id, office_address_id
		FROM department_offices WHERE department_id = $1
	`, departmentID)
	if err != nil {
		return nil, mapPQError(err, "department", departmentID)
	}
	defer rows.Close()

	var keys []models.OfficeKey
	for rows.Next() {
		var key models.OfficeKey
		if err := rows.Scan(&key.CorporationID, &key.AddressID); err != nil {
			return nil, mapPQError(err, "department", departmentID)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (db *PostgresDatabase) ListDepartments() ([]models.Department, error) {
	return db.queryDepartments(`
		SELECT id, name, COALESCE(description,''), corporation_id, created_at, updated_at
		FROM departments ORDER BY name
	`)
}

func (db *PostgresDatabase) ListDepartmentsByCorporation(corporationID string) ([]models.Department, error) {
	return db.queryDepartments(`
		SELECT id, name, COALESCE(description,''), corporation_id, created_at, updated_at
		FROM departments WHERE corporation_id = $1 ORDER BY name
	`, corporationID)
}

func (db *PostgresDatabase) queryDepartments(query string, args ...interface{}) ([]models.Department, error) {
	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, mapPQError(err, "department", "list")
	}
	defer rows.Close()

	var out []models.Department
	for rows.Next() {
		var dept models.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.Description, &dept.CorporationID,
			&dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, mapPQError(err, "department", "list")
		}
		out = append(out, dept)
	}
	return out, rows.Err()
}

func (db *PostgresDatabase) UpdateDepartment(dept *models.Department) error {
	query := `
		UPDATE departments
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    corporation_id = $3,
		    updated_at = NOW()
		WHERE id = $4
	`
	res, err := db.db.Exec(query,
		nullIfEmpty(dept.Name), nullIfEmpty(dept.Description), dept.CorporationID, dept.ID)
	if err != nil {
		return mapPQError(err, "department", dept.ID)
	}
	return requireRowAffected(res, "department", dept.ID)
}

func (db *PostgresDatabase) DeleteDepartment(id string) error {
	res, err := db.db.Exec(`DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return mapPQError(err, "department", id)
	}
	return requireRowAffected(res, "department", id)
}

func (db *PostgresDatabase) SetDepartmentOffices(departmentID string, keys []models.OfficeKey) error {
	// 整个关联集合在一个事务里替换，任何一个键无效则全部回滚
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin set department offices: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM departments WHERE id = $1)`, departmentID).
		Scan(&exists); err != nil {
		return mapPQError(err, "department", departmentID)
	}
	if !exists {
		return apperr.NotFound("department", departmentID)
	}

	if _, err := tx.Exec(`DELETE FROM department_offices WHERE department_id = $1`, departmentID); err != nil {
		return mapPQError(err, "department", departmentID)
	}
	for _, key := range keys {
		if _, err := tx.Exec(`
			INSERT INTO department_offices (department_id, office_corporation_id, office_address_id)
			VALUES ($1, $2, $3)
		`, departmentID, key.CorporationID, key.AddressID); err != nil {
			return mapPQError(err, "office", key.CorporationID+"/"+key.AddressID)
		}
	}
	return tx.Commit()
}

// ==== Positions ====

func (db *PostgresDatabase) CreatePosition(pos *models.Position) error {
	query := `
		INSERT INTO positions (name, description, department_id, employee_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := db.db.QueryRow(query, pos.Name, pos.Description, pos.DepartmentID, nullIfEmpty(pos.EmployeeID)).
		Scan(&pos.ID, &pos.CreatedAt, &pos.UpdatedAt)
	return mapPQError(err, "position", pos.Name)
}

const positionColumns = `
	id, name, COALESCE(description,''), department_id, COALESCE(employee_id::text,''),
	created_at, updated_at
`

func (db *PostgresDatabase) GetPosition(id string) (*models.Position, error) {
	var pos models.Position
	err := db.db.QueryRow(`SELECT `+positionColumns+` FROM positions WHERE id = $1`, id).Scan(
		&pos.ID, &pos.Name, &pos.Description, &pos.DepartmentID, &pos.EmployeeID,
		&pos.CreatedAt, &pos.UpdatedAt,
	)
	if err != nil {
		return nil, mapPQError(err, "position", id)
	}
	return &pos, nil
}

func (db *PostgresDatabase) ListPositions() ([]models.Position, error) {
	return db.queryPositions(`SELECT ` + positionColumns + ` FROM positions ORDER BY name`)
}

func (db *PostgresDatabase) ListPositionsByDepartment(departmentID string) ([]models.Position, error) {
	return db.queryPositions(`SELECT `+positionColumns+` FROM positions WHERE department_id = $1 ORDER BY name`, departmentID)
}

func (db *PostgresDatabase) ListPositionsByCorporation(corporationID string) ([]models.Position, error) {
	return db.queryPositions(`
		SELECT p.id, p.name, COALESCE(p.description,''), p.department_id,
		       COALESCE(p.employee_id::text,''), p.created_at, p.updated_at
		FROM positions p
		JOIN departments d ON d.id = p.department_id
		WHERE d.corporation_id = $1
		ORDER BY p.name
	`, corporationID)
}

func (db *PostgresDatabase) queryPositions(query string, args ...interface{}) ([]models.Position, error) {
	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, mapPQError(err, "position", "list")
	}
	defer rows.Close()

	var out []models.Position
	for rows.Next() {
		var pos models.Position
		if err := rows.Scan(&pos.ID, &pos.Name, &pos.Description, &pos.DepartmentID, &pos.EmployeeID,
			&pos.CreatedAt, &pos.UpdatedAt); err != nil {
			return nil, mapPQError(err, "position", "list")
		}
		out = append(out, pos)
	}
	return out, rows.Err()
}

func (db *PostgresDatabase) UpdatePosition(pos *models.Position) error {
	query := `
		UPDATE positions
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    department_id = $3,
		    employee_id = $4,
		    updated_at = NOW()
		WHERE id = $5
	`
	res, err := db.db.Exec(query,
		nullIfEmpty(pos.Name), nullIfEmpty(pos.Description),
		pos.DepartmentID, nullIfEmpty(pos.EmployeeID), pos.ID)
	if err != nil {
		return mapPQError(err, "position", pos.ID)
	}
	return requireRowAffected(res, "position", pos.ID)
}

func (db *PostgresDatabase) DeletePosition(id string) error {
	res, err := db.db.Exec(`DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return mapPQError(err, "position", id)
	}
	return requireRowAffected(res, "position", id)
}

// ==== Employees ====

func (db *PostgresDatabase) CreateEmployee(emp *models.Employee) error {
	// 插入与两级计数器自增在同一事务提交；办公室行先锁
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin create employee: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRow(`
		SELECT employees_amount FROM offices
		WHERE corporation_id = $1 AND address_id = $2
		FOR UPDATE
	`, emp.OfficeCorporationID, emp.OfficeAddressID).Scan(&current)
	if err != nil {
		return mapPQError(err, "office", emp.OfficeCorporationID+"/"+emp.OfficeAddressID)
	}

	query := `
		INSERT INTO employees (identity_id, first_name, last_name, address_id, office_corporation_id, office_address_id, position_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(query,
		nullIfEmpty(emp.IdentityID), emp.FirstName, emp.LastName, nullIfEmpty(emp.AddressID),
		emp.OfficeCorporationID, emp.OfficeAddressID, nullIfEmpty(emp.PositionID),
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
		return mapPQError(err, "employee", emp.FirstName+" "+emp.LastName)
	}

	if _, err := tx.Exec(`
		UPDATE offices SET employees_amount = employees_amount + 1, updated_at = NOW()
		WHERE corporation_id = $1 AND address_id = $2
	`, emp.OfficeCorporationID, emp.OfficeAddressID); err != nil {
		return mapPQError(err, "office", emp.OfficeCorporationID+"/"+emp.OfficeAddressID)
	}
	if _, err := tx.Exec(`
		UPDATE corporations SET employees_amount = employees_amount + 1, updated_at = NOW()
		WHERE id = $1
	`, emp.OfficeCorporationID); err != nil {
		return mapPQError(err, "corporation", emp.OfficeCorporationID)
	}
	return tx.Commit()
}

const employeeColumns = `
	id, COALESCE(identity_id::text,''), first_name, last_name, COALESCE(address_id::text,''),
	office_corporation_id, office_address_id, COALESCE(position_id::text,''),
	created_at, updated_at
`

func scanEmployee(row interface{ Scan(...interface{}) error }) (*models.Employee, error) {
	var emp models.Employee
	err := row.Scan(
		&emp.ID, &emp.IdentityID, &emp.FirstName, &emp.LastName, &emp.AddressID,
		&emp.OfficeCorporationID, &emp.OfficeAddressID, &emp.PositionID,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (db *PostgresDatabase) GetEmployee(id string) (*models.Employee, error) {
	row := db.db.QueryRow(`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	emp, err := scanEmployee(row)
	if err != nil {
		return nil, mapPQError(err, "employee", id)
	}
	return emp, nil
}

func (db *PostgresDatabase) GetEmployeeByIdentity(identityID string) (*models.Employee, error) {
	row := db.db.QueryRow(`SELECT `+employeeColumns+` FROM employees WHERE identity_id = $1`, identityID)
	emp, err := scanEmployee(row)
	if err != nil {
		return nil, mapPQError(err, "employee", "identity="+identityID)
	}
	return emp, nil
}

func (db *PostgresDatabase) ListEmployees() ([]models.Employee, error) {
	return db.queryEmployees(`SELECT ` + employeeColumns + ` FROM employees ORDER BY last_name, first_name`)
}

func (db *PostgresDatabase) ListEmployeesByOffice(key models.OfficeKey) ([]models.Employee, error) {
	return db.queryEmployees(`
		SELECT `+employeeColumns+` FROM employees
		WHERE office_corporation_id = $1 AND office_address_id = $2
		ORDER BY last_name, first_name
	`, key.CorporationID, key.AddressID)
}

func (db *PostgresDatabase) ListEmployeesByCorporation(corporationID string) ([]models.Employee, error) {
	return db.queryEmployees(`
		SELECT `+employeeColumns+` FROM employees
		WHERE office_corporation_id = $1
		ORDER BY last_name, first_name
	`, corporationID)
}

func (db *PostgresDatabase) queryEmployees(query string, args ...interface{}) ([]models.Employee, error) {
	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, mapPQError(err, "employee", "list")
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, mapPQError(err, "employee", "list")
		}
		out = append(out, *emp)
	}
	return out, rows.Err()
}

func (db *PostgresDatabase) UpdateEmployee(emp *models.Employee) error {
	// Office columns deliberately absent; TransferEmployee owns them.
	query := `
		UPDATE employees
		SET identity_id = $1,
		    first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    address_id = $4,
		    position_id = $5,
		    updated_at = NOW()
		WHERE id = $6
	`
	res, err := db.db.Exec(query,
		nullIfEmpty(emp.IdentityID), nullIfEmpty(emp.FirstName), nullIfEmpty(emp.LastName),
		nullIfEmpty(emp.AddressID), nullIfEmpty(emp.PositionID), emp.ID)
	if err != nil {
		return mapPQError(err, "employee", emp.ID)
	}
	return requireRowAffected(res, "employee", emp.ID)
}

func (db *PostgresDatabase) DeleteEmployee(id string) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete employee: %w", err)
	}
	defer tx.Rollback()

	var corpID, addrID string
	err = tx.QueryRow(`
		SELECT office_corporation_id, office_address_id FROM employees WHERE id = $1
	`, id).Scan(&corpID, &addrID)
	if err != nil {
		return mapPQError(err, "employee", id)
	}

	if _, err := tx.Exec(`UPDATE identities SET employee_id = NULL, updated_at = NOW() WHERE employee_id = $1`, id); err != nil {
		return mapPQError(err, "identity", id)
	}
	if _, err := tx.Exec(`UPDATE positions SET employee_id = NULL, updated_at = NOW() WHERE employee_id = $1`, id); err != nil {
		return mapPQError(err, "position", id)
	}
	if _, err := tx.Exec(`DELETE FROM employees WHERE id = $1`, id); err != nil {
		return mapPQError(err, "employee", id)
	}
	if _, err := tx.Exec(`
		UPDATE offices SET employees_amount = employees_amount - 1, updated_at = NOW()
		WHERE corporation_id = $1 AND address_id = $2
	`, corpID, addrID); err != nil {
		return mapPQError(err, "office", corpID+"/"+addrID)
	}
	if _, err := tx.Exec(`
		UPDATE corporations SET employees_amount = employees_amount - 1, updated_at = NOW()
		WHERE id = $1
	`, corpID); err != nil {
		return mapPQError(err, "corporation", corpID)
	}
	return tx.Commit()
}

func (db *PostgresDatabase) TransferEmployee(id string, to models.OfficeKey) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transfer employee: %w", err)
	}
	defer tx.Rollback()

	var fromCorp, fromAddr string
	err = tx.QueryRow(`
		SELECT office_corporation_id, office_address_id FROM employees WHERE id = $1 FOR UPDATE
	`, id).Scan(&fromCorp, &fromAddr)
	if err != nil {
		return mapPQError(err, "employee", id)
	}

	// Lock both office rows in a fixed order so concurrent transfers between
	// the same pair cannot deadlock.
	first, second := models.OfficeKey{CorporationID: fromCorp, AddressID: fromAddr}, to
	if second.CorporationID+second.AddressID < first.CorporationID+first.AddressID {
		first, second = second, first
	}
	for _, key := range []models.OfficeKey{first, second} {
		var n int
		if err := tx.QueryRow(`
			SELECT employees_amount FROM offices
			WHERE corporation_id = $1 AND address_id = $2
			FOR UPDATE
		`, key.CorporationID, key.AddressID).Scan(&n); err != nil {
			return mapPQError(err, "office", key.CorporationID+"/"+key.AddressID)
		}
	}

	// Decrement, reassign, increment: all three or none.
	if _, err := tx.Exec(`
		UPDATE offices SET employees_amount = employees_amount - 1, updated_at = NOW()
		WHERE corporation_id = $1 AND address_id = $2
	`, fromCorp, fromAddr); err != nil {
		return mapPQError(err, "office", fromCorp+"/"+fromAddr)
	}
	if _, err := tx.Exec(`
		UPDATE employees SET office_corporation_id = $1, office_address_id = $2, updated_at = NOW()
		WHERE id = $3
	`, to.CorporationID, to.AddressID, id); err != nil {
		return mapPQError(err, "employee", id)
	}
	if _, err := tx.Exec(`
		UPDATE offices SET employees_amount = employees_amount + 1, updated_at = NOW()
		WHERE corporation_id = $1 AND address_id = $2
	`, to.CorporationID, to.AddressID); err != nil {
		return mapPQError(err, "office", to.CorporationID+"/"+to.AddressID)
	}
	return tx.Commit()
}

// ==== 基础设施 ====

func (db *PostgresDatabase) HealthCheck() error {
	return db.db.Ping()
}

func (db *PostgresDatabase) Close() error {
	return db.db.Close()
}

func requireRowAffected(res sql.Result, entity, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if n == 0 {
		return apperr.NotFound(entity, key)
	}
	return nil
}
