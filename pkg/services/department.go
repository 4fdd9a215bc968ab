package services

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/authz"
	"corporate-backend-refactor/pkg/database"
	"corporate-backend-refactor/pkg/mappers"
	"corporate-backend-refactor/pkg/models"
)

// DepartmentService 部门操作门面
type DepartmentService struct {
	db database.DatabaseInterface
}

// NewDepartmentService 创建部门服务
func NewDepartmentService(db database.DatabaseInterface) *DepartmentService {
	return &DepartmentService{db: db}
}

// Create 董事专属
func (s *DepartmentService) Create(caller *models.Caller, req *models.DepartmentRequest) (*models.Department, error) {
	dept, err := mappers.NewDepartment(req)
	if err != nil {
		return nil, err
	}
	if _, err := authz.RequireDirectorOf(s.db, caller, dept.CorporationID); err != nil {
		return nil, err
	}

	if err := s.db.CreateDepartment(dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// Get 读取门禁：调用者必须是该部门所属公司范围内的员工
func (s *DepartmentService) Get(caller *models.Caller, id string) (*models.Department, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	dept, err := s.db.GetDepartment(id)
	if err != nil {
		return nil, err
	}
	if _, err := authz.RequireEmployeeOfDepartment(s.db, caller, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// GetWithPositions 带职位的一层投影变体
func (s *DepartmentService) GetWithPositions(caller *models.Caller, id string) (*models.DepartmentResponse, error) {
	dept, err := s.Get(caller, id)
	if err != nil {
		return nil, err
	}
	positions, err := s.db.ListPositionsByDepartment(id)
	if err != nil {
		return nil, err
	}
	resp := mappers.ProjectDepartment(dept, positions)
	return &resp, nil
}

// ListByCorporation 读取门禁同上
func (s *DepartmentService) ListByCorporation(caller *models.Caller, corporationID string) ([]models.Department, error) {
	if _, err := authz.RequireEmployeeOfCorporation(s.db, caller, corporationID); err != nil {
		return nil, err
	}
	return s.db.ListDepartmentsByCorporation(corporationID)
}

// Update 董事专属的合并更新；公司引用只有能解析时才替换
func (s *DepartmentService) Update(caller *models.Caller, id string, req *models.DepartmentRequest) (*models.Department, error) {
	dept, err := s.db.GetDepartment(id)
	if err != nil {
		return nil, err
	}
	if _, err := authz.RequireDirectorOf(s.db, caller, dept.CorporationID); err != nil {
		return nil, err
	}

	merged := mappers.MergeDepartment(dept, req, func(corpID string) bool {
		_, err := s.db.GetCorporation(corpID)
		return err == nil
	})
	if err := s.db.UpdateDepartment(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete 董事专属，职位级联
func (s *DepartmentService) Delete(caller *models.Caller, id string) error {
	dept, err := s.db.GetDepartment(id)
	if err != nil {
		return err
	}
	if _, err := authz.RequireDirectorOf(s.db, caller, dept.CorporationID); err != nil {
		return err
	}
	return s.db.DeleteDepartment(id)
}

// SetOffices 单向替换部门↔办公室关联；跨公司的办公室一律拒绝
func (s *DepartmentService) SetOffices(caller *models.Caller, id string, keys []models.OfficeKey) (*models.Department, error) {
	dept, err := s.db.GetDepartment(id)
	if err != nil {
		return nil, err
	}
	if _, err := authz.RequireDirectorOf(s.db, caller, dept.CorporationID); err != nil {
		return nil, err
	}
	for _, key := range keys {
		resolved, err := mappers.ResolveOfficeKey(key.CorporationID, key.AddressID)
		if err != nil {
			return nil, err
		}
		if resolved.CorporationID != dept.CorporationID {
			return nil, apperr.InvalidReference("office belongs to a different corporation than the department")
		}
	}

	if err := s.db.SetDepartmentOffices(id, keys); err != nil {
		return nil, err
	}
	return s.db.GetDepartment(id)
}
