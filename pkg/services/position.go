package services

import (
	"corporate-backend-refactor/pkg/authz"
	"corporate-backend-refactor/pkg/database"
	"corporate-backend-refactor/pkg/mappers"
	"corporate-backend-refactor/pkg/models"
)

// PositionService 职位操作门面
type PositionService struct {
	db database.DatabaseInterface
}

// NewPositionService 创建职位服务
func NewPositionService(db database.DatabaseInterface) *PositionService {
	return &PositionService{db: db}
}

// directorOfDepartment 沿部门→公司所有权链做董事检查
func (s *PositionService) directorOfDepartment(caller *models.Caller, departmentID string) (*models.Department, error) {
	dept, err := s.db.GetDepartment(departmentID)
	if err != nil {
		return nil, err
	}
	if _, err := authz.RequireDirectorOf(s.db, caller, dept.CorporationID); err != nil {
		return nil, err
	}
	return dept, nil
}

// Create 董事专属；部门引用必须真实存在
func (s *PositionService) Create(caller *models.Caller, req *models.PositionRequest) (*models.Position, error) {
	pos, err := mappers.NewPosition(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.directorOfDepartment(caller, pos.DepartmentID); err != nil {
		return nil, err
	}
	if pos.EmployeeID != "" {
		if _, err := s.db.GetEmployee(pos.EmployeeID); err != nil {
			return nil, err
		}
	}

	if err := s.db.CreatePosition(pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// Get 读取门禁：调用者必须是职位所属公司范围内的员工
func (s *PositionService) Get(caller *models.Caller, id string) (*models.Position, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	pos, err := s.db.GetPosition(id)
	if err != nil {
		return nil, err
	}
	dept, err := s.db.GetDepartment(pos.DepartmentID)
	if err != nil {
		return nil, err
	}
	if _, err := authz.RequireEmployeeOfDepartment(s.db, caller, dept); err != nil {
		return nil, err
	}
	return pos, nil
}

// ListByDepartment 读取门禁同上
func (s *PositionService) ListByDepartment(caller *models.Caller, departmentID string) ([]models.Position, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	dept, err := s.db.GetDepartment(departmentID)
	if err != nil {
		return nil, err
	}
	if _, err := authz.RequireEmployeeOfDepartment(s.db, caller, dept); err != nil {
		return nil, err
	}
	return s.db.ListPositionsByDepartment(departmentID)
}

// ListByCorporation 公司维度的扁平列表
func (s *PositionService) ListByCorporation(caller *models.Caller, corporationID string) ([]models.Position, error) {
	if _, err := authz.RequireEmployeeOfCorporation(s.db, caller, corporationID); err != nil {
		return nil, err
	}
	return s.db.ListPositionsByCorporation(corporationID)
}

// Update 董事专属合并更新；部门与员工引用不可解析时静默保留旧值
func (s *PositionService) Update(caller *models.Caller, id string, req *models.PositionRequest) (*models.Position, error) {
	pos, err := s.db.GetPosition(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.directorOfDepartment(caller, pos.DepartmentID); err != nil {
		return nil, err
	}

	merged := mappers.MergePosition(pos, req,
		func(deptID string) bool {
			_, err := s.db.GetDepartment(deptID)
			return err == nil
		},
		func(empID string) bool {
			_, err := s.db.GetEmployee(empID)
			return err == nil
		})
	if err := s.db.UpdatePosition(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete 董事专属
func (s *PositionService) Delete(caller *models.Caller, id string) error {
	pos, err := s.db.GetPosition(id)
	if err != nil {
		return err
	}
	if _, err := s.directorOfDepartment(caller, pos.DepartmentID); err != nil {
		return err
	}
	return s.db.DeletePosition(id)
}
