package mappers

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

// NewEmployee 创建路径：姓名必填，办公室复合键两个分量都要在场
func NewEmployee(req *models.EmployeeRequest) (*models.Employee, error) {
	if isEmpty(req.FirstName) {
		return nil, apperr.EmptyRequiredField("employee", "first_name")
	}
	if isEmpty(req.LastName) {
		return nil, apperr.EmptyRequiredField("employee", "last_name")
	}
	key, err := ResolveOfficeKey(req.Office.CorporationID, req.Office.AddressID)
	if err != nil {
		return nil, err
	}

	return &models.Employee{
		IdentityID:          req.IdentityID,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		AddressID:           req.AddressID,
		OfficeCorporationID: key.CorporationID,
		OfficeAddressID:     key.AddressID,
		PositionID:          req.PositionID,
	}, nil
}

// MergeEmployee 更新路径：办公室归属不在此变动，转移走 transfer 操作
func MergeEmployee(existing *models.Employee, req *models.EmployeeRequest, identityResolves, addressResolves, positionResolves func(id string) bool) *models.Employee {
	merged := *existing
	merged.FirstName = pickString(req.FirstName, existing.FirstName)
	merged.LastName = pickString(req.LastName, existing.LastName)
	merged.IdentityID = pickRef(req.IdentityID, existing.IdentityID, identityResolves)
	merged.AddressID = pickRef(req.AddressID, existing.AddressID, addressResolves)
	merged.PositionID = pickRef(req.PositionID, existing.PositionID, positionResolves)
	return &merged
}

// ProjectEmployee 外投影，identity/position 一层深，仅由具名变体填充
func ProjectEmployee(emp *models.Employee, identity *models.Identity, position *models.Position) models.EmployeeResponse {
	return models.EmployeeResponse{Employee: *emp, Identity: identity, Position: position}
}
