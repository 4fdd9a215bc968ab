package mappers

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

// NewAddress 创建路径：街道、城市、门牌必填，公寓号可选
func NewAddress(req *models.AddressRequest) (*models.Address, error) {
	if isEmpty(req.Street) {
		return nil, apperr.EmptyRequiredField("address", "street")
	}
	if isEmpty(req.City) {
		return nil, apperr.EmptyRequiredField("address", "city")
	}
	if isEmpty(req.House) {
		return nil, apperr.EmptyRequiredField("address", "house")
	}

	return &models.Address{
		Street:    req.Street,
		City:      req.City,
		House:     req.House,
		Apartment: req.Apartment,
	}, nil
}

// MergeAddress 更新路径：非空请求字段覆盖，其余保留
func MergeAddress(existing *models.Address, req *models.AddressRequest) *models.Address {
	merged := *existing
	merged.Street = pickString(req.Street, existing.Street)
	merged.City = pickString(req.City, existing.City)
	merged.House = pickString(req.House, existing.House)
	merged.Apartment = pickString(req.Apartment, existing.Apartment)
	return &merged
}
