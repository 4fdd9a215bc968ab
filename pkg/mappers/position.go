package mappers

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

// NewPosition 创建路径：名称、描述、所属部门必填，员工可选
func NewPosition(req *models.PositionRequest) (*models.Position, error) {
	if isEmpty(req.Name) {
		return nil, apperr.EmptyRequiredField("position", "name")
	}
	if isEmpty(req.Description) {
		return nil, apperr.EmptyRequiredField("position", "description")
	}
	if isEmpty(req.DepartmentID) {
		return nil, apperr.EmptyRequiredField("position", "department_id")
	}

	return &models.Position{
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		EmployeeID:   req.EmployeeID,
	}, nil
}

// MergePosition 更新路径：部门与员工引用只有在能解析时才替换
func MergePosition(existing *models.Position, req *models.PositionRequest, departmentResolves, employeeResolves func(id string) bool) *models.Position {
	merged := *existing
	merged.Name = pickString(req.Name, existing.Name)
	merged.Description = pickString(req.Description, existing.Description)
	merged.DepartmentID = pickRef(req.DepartmentID, existing.DepartmentID, departmentResolves)
	merged.EmployeeID = pickRef(req.EmployeeID, existing.EmployeeID, employeeResolves)
	return &merged
}
