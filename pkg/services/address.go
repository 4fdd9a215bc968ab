package services

import (
	"corporate-backend-refactor/pkg/authz"
	"corporate-backend-refactor/pkg/database"
	"corporate-backend-refactor/pkg/mappers"
	"corporate-backend-refactor/pkg/models"
)

// AddressService 地址操作门面
type AddressService struct {
	db database.DatabaseInterface
}

// NewAddressService 创建地址服务
func NewAddressService(db database.DatabaseInterface) *AddressService {
	return &AddressService{db: db}
}

// Create 任意已认证调用者可建地址
func (s *AddressService) Create(caller *models.Caller, req *models.AddressRequest) (*models.Address, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	addr, err := mappers.NewAddress(req)
	if err != nil {
		return nil, err
	}
	if err := s.db.CreateAddress(addr); err != nil {
		return nil, err
	}
	return addr, nil
}

// Get 读取单个地址
func (s *AddressService) Get(caller *models.Caller, id string) (*models.Address, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	return s.db.GetAddress(id)
}

// List 全量列表
func (s *AddressService) List(caller *models.Caller) ([]models.Address, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	return s.db.ListAddresses()
}

// Update 合并更新
func (s *AddressService) Update(caller *models.Caller, id string, req *models.AddressRequest) (*models.Address, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	addr, err := s.db.GetAddress(id)
	if err != nil {
		return nil, err
	}
	merged := mappers.MergeAddress(addr, req)
	if err := s.db.UpdateAddress(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete 仍被办公室引用的地址由存储层以完整性错误拒绝
func (s *AddressService) Delete(caller *models.Caller, id string) error {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return err
	}
	return s.db.DeleteAddress(id)
}
