package models

import "time"

// Department 部门实体，属于唯一一家公司，与办公室多对多
// OfficeKeys is the owned side of the department↔office join relation; it is
// replaced atomically through SetDepartmentOffices and never mutated from the
// office side.
type Department struct {
	ID            string      `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	Description   string      `json:"description" db:"description"`
	CorporationID string      `json:"corporation_id" db:"corporation_id"`
	OfficeKeys    []OfficeKey `json:"office_keys,omitempty" db:"-"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// DepartmentRequest 部门创建/更新请求体
type DepartmentRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CorporationID string `json:"corporation_id"`
}

// SetDepartmentOfficesRequest replaces the office set served by a department.
type SetDepartmentOfficesRequest struct {
	OfficeKeys []OfficeKey `json:"office_keys"`
}

// DepartmentResponse is the outward projection; Positions is populated only
// by the "with positions" variant.
type DepartmentResponse struct {
	Department
	Positions []Position `json:"positions,omitempty"`
}
