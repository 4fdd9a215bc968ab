package models

import "time"

// Employee 员工实体，属于唯一一个办公室（复合键引用）
// IdentityID is the optional 1:1 link to an account; it may be pre-assigned
// before the person ever logs in.
type Employee struct {
	ID                  string    `json:"id" db:"id"`
	IdentityID          string    `json:"identity_id,omitempty" db:"identity_id"`
	FirstName           string    `json:"first_name" db:"first_name"`
	LastName            string    `json:"last_name" db:"last_name"`
	AddressID           string    `json:"address_id,omitempty" db:"address_id"`
	OfficeCorporationID string    `json:"office_corporation_id" db:"office_corporation_id"`
	OfficeAddressID     string    `json:"office_address_id" db:"office_address_id"`
	PositionID          string    `json:"position_id,omitempty" db:"position_id"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// OfficeKey returns the composite key of the employee's current office.
func (e *Employee) OfficeKey() OfficeKey {
	return OfficeKey{CorporationID: e.OfficeCorporationID, AddressID: e.OfficeAddressID}
}

// EmployeeRequest 员工创建/更新请求体
type EmployeeRequest struct {
	IdentityID string    `json:"identity_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	AddressID  string    `json:"address_id"`
	Office     OfficeKey `json:"office"`
	PositionID string    `json:"position_id"`
}

// EmployeeResponse is the outward projection; related entities are fetched
// one level deep and only by the named variants.
type EmployeeResponse struct {
	Employee
	Identity *Identity `json:"identity,omitempty"`
	Position *Position `json:"position,omitempty"`
}
