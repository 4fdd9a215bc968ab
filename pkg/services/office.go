package services

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/authz"
	"corporate-backend-refactor/pkg/database"
	"corporate-backend-refactor/pkg/mappers"
	"corporate-backend-refactor/pkg/models"
)

// OfficeService 办公室操作门面
type OfficeService struct {
	db database.DatabaseInterface
}

// NewOfficeService 创建办公室服务
func NewOfficeService(db database.DatabaseInterface) *OfficeService {
	return &OfficeService{db: db}
}

// Create 董事专属；officesAmount 随插入同事务自增
// 请求可以内联一个新地址，先落地地址再组装复合键。
func (s *OfficeService) Create(caller *models.Caller, req *models.OfficeRequest) (*models.Office, error) {
	if req.CorporationID == "" {
		return nil, apperr.InvalidReference("office key is missing its corporation component")
	}
	if _, err := authz.RequireDirectorOf(s.db, caller, req.CorporationID); err != nil {
		return nil, err
	}
	if req.AddressID == "" && req.NewAddress != nil {
		addr, err := mappers.NewAddress(req.NewAddress)
		if err != nil {
			return nil, err
		}
		if err := s.db.CreateAddress(addr); err != nil {
			return nil, err
		}
		req.AddressID = addr.ID
	}
	office, err := mappers.NewOffice(req)
	if err != nil {
		return nil, err
	}
	// The address component must resolve before the key can exist.
	if _, err := s.db.GetAddress(office.AddressID); err != nil {
		return nil, err
	}

	if err := s.db.CreateOffice(office); err != nil {
		return nil, err
	}
	return office, nil
}

// Get 公开读取
func (s *OfficeService) Get(key models.OfficeKey) (*models.Office, error) {
	return s.db.GetOffice(key)
}

// GetWithEmployees 带地址与员工的一层投影变体
func (s *OfficeService) GetWithEmployees(key models.OfficeKey) (*models.OfficeResponse, error) {
	office, err := s.db.GetOffice(key)
	if err != nil {
		return nil, err
	}
	addr, err := s.db.GetAddress(key.AddressID)
	if err != nil {
		return nil, err
	}
	employees, err := s.db.ListEmployeesByOffice(key)
	if err != nil {
		return nil, err
	}
	resp := mappers.ProjectOffice(office, addr, employees)
	return &resp, nil
}

// List 全量列表
func (s *OfficeService) List() ([]models.Office, error) {
	return s.db.ListOffices()
}

// ListByCorporation 公开的派生查询
func (s *OfficeService) ListByCorporation(corporationID string) ([]models.Office, error) {
	return s.db.ListOfficesByCorporation(corporationID)
}

// Delete 董事专属；两级计数器与员工级联同事务结清
func (s *OfficeService) Delete(caller *models.Caller, key models.OfficeKey) error {
	if _, err := authz.RequireDirectorOf(s.db, caller, key.CorporationID); err != nil {
		return err
	}
	return s.db.DeleteOffice(key)
}
