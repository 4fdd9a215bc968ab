package models

import "time"

// Position 职位实体，属于一个部门，最多绑定一名在任员工
type Position struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	DepartmentID string    `json:"department_id" db:"department_id"`
	EmployeeID   string    `json:"employee_id,omitempty" db:"employee_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// PositionRequest 职位创建/更新请求体
type PositionRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id"`
	EmployeeID   string `json:"employee_id"`
}
