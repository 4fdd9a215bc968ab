package mappers

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

// NewDepartment 创建路径：名称、描述、所属公司必填
func NewDepartment(req *models.DepartmentRequest) (*models.Department, error) {
	if isEmpty(req.Name) {
		return nil, apperr.EmptyRequiredField("department", "name")
	}
	if isEmpty(req.Description) {
		return nil, apperr.EmptyRequiredField("department", "description")
	}
	if isEmpty(req.CorporationID) {
		return nil, apperr.EmptyRequiredField("department", "corporation_id")
	}

	return &models.Department{
		Name:          req.Name,
		Description:   req.Description,
		CorporationID: req.CorporationID,
	}, nil
}

// MergeDepartment 更新路径：公司引用只有在能解析时才替换
func MergeDepartment(existing *models.Department, req *models.DepartmentRequest, corporationResolves func(id string) bool) *models.Department {
	merged := *existing
	merged.OfficeKeys = append([]models.OfficeKey(nil), existing.OfficeKeys...)
	merged.Name = pickString(req.Name, existing.Name)
	merged.Description = pickString(req.Description, existing.Description)
	merged.CorporationID = pickRef(req.CorporationID, existing.CorporationID, corporationResolves)
	return &merged
}

// ProjectDepartment 外投影，positions 仅由 with-positions 变体填充
func ProjectDepartment(dept *models.Department, positions []models.Position) models.DepartmentResponse {
	return models.DepartmentResponse{Department: *dept, Positions: positions}
}
