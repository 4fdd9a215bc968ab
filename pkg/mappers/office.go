package mappers

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

// ResolveOfficeKey 复合键两个分量都必须在场，缺哪个就报哪个
func ResolveOfficeKey(corporationID, addressID string) (models.OfficeKey, error) {
	if isEmpty(corporationID) {
		return models.OfficeKey{}, apperr.InvalidReference("office key is missing its corporation component")
	}
	if isEmpty(addressID) {
		return models.OfficeKey{}, apperr.InvalidReference("office key is missing its address component")
	}
	return models.OfficeKey{CorporationID: corporationID, AddressID: addressID}, nil
}

// NewOffice 创建路径：键一旦成立便不可变，换地址等于建新键
func NewOffice(req *models.OfficeRequest) (*models.Office, error) {
	key, err := ResolveOfficeKey(req.CorporationID, req.AddressID)
	if err != nil {
		return nil, err
	}
	return &models.Office{
		CorporationID: key.CorporationID,
		AddressID:     key.AddressID,
	}, nil
}

// ProjectOffice 外投影，address/employees 仅由具名变体填充
func ProjectOffice(office *models.Office, addr *models.Address, employees []models.Employee) models.OfficeResponse {
	return models.OfficeResponse{Office: *office, Address: addr, Employees: employees}
}
