package models

import "time"

// OfficeKey 办公室复合主键：公司 + 地址
// The key is immutable once created; moving an office means creating a new
// key, never mutating one in place.
type OfficeKey struct {
	CorporationID string `json:"corporation_id" db:"corporation_id"`
	AddressID     string `json:"address_id" db:"address_id"`
}

// IsZero reports whether either key component is missing.
func (k OfficeKey) IsZero() bool {
	return k.CorporationID == "" || k.AddressID == ""
}

// Office 办公室实体，EmployeesAmount 由存储层事务性维护
type Office struct {
	CorporationID   string    `json:"corporation_id" db:"corporation_id"`
	AddressID       string    `json:"address_id" db:"address_id"`
	EmployeesAmount int       `json:"employees_amount" db:"employees_amount"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Key returns the composite key of the office.
func (o *Office) Key() OfficeKey {
	return OfficeKey{CorporationID: o.CorporationID, AddressID: o.AddressID}
}

// OfficeRequest 办公室创建请求体
// Either AddressID names an existing address, or NewAddress is created inline
// and its id becomes the key component.
type OfficeRequest struct {
	CorporationID string          `json:"corporation_id"`
	AddressID     string          `json:"address_id"`
	NewAddress    *AddressRequest `json:"new_address,omitempty"`
}

// OfficeResponse is the outward projection; Employees is populated only by
// the "with employees" variant.
type OfficeResponse struct {
	Office
	Address   *Address   `json:"address,omitempty"`
	Employees []Employee `json:"employees,omitempty"`
}

// OfficeTransferRequest moves an employee between two offices of the same
// corporation.
type OfficeTransferRequest struct {
	EmployeeID string    `json:"employee_id"`
	To         OfficeKey `json:"to"`
}
