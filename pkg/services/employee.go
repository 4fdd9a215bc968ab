package services

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/authz"
	"corporate-backend-refactor/pkg/database"
	"corporate-backend-refactor/pkg/mappers"
	"corporate-backend-refactor/pkg/models"
)

// EmployeeService 员工操作门面；计数器调整全部委托给存储层事务
type EmployeeService struct {
	db database.DatabaseInterface
}

// NewEmployeeService 创建员工服务
func NewEmployeeService(db database.DatabaseInterface) *EmployeeService {
	return &EmployeeService{db: db}
}

// Create 请求里的身份必须是调用者本人，且调用者是目标公司的董事
// 办公室与公司的 employeesAmount 随插入同事务自增。
func (s *EmployeeService) Create(caller *models.Caller, req *models.EmployeeRequest) (*models.Employee, error) {
	emp, err := mappers.NewEmployee(req)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireSelf(caller, req.IdentityID); err != nil {
		return nil, err
	}
	if _, err := authz.RequireDirectorOf(s.db, caller, emp.OfficeCorporationID); err != nil {
		return nil, err
	}
	if _, err := s.db.GetOffice(emp.OfficeKey()); err != nil {
		return nil, err
	}

	if err := s.db.CreateEmployee(emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// Get 任意已认证的 WORKER/DIRECTOR 可读（角色门禁在路由层）
func (s *EmployeeService) Get(caller *models.Caller, id string) (*models.Employee, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	return s.db.GetEmployee(id)
}

// GetWithRelations 一层投影：挂上身份与职位
func (s *EmployeeService) GetWithRelations(caller *models.Caller, id string) (*models.EmployeeResponse, error) {
	emp, err := s.Get(caller, id)
	if err != nil {
		return nil, err
	}
	var identity *models.Identity
	if emp.IdentityID != "" {
		if got, err := s.db.GetIdentityByID(emp.IdentityID); err == nil {
			identity = got
		}
	}
	var position *models.Position
	if emp.PositionID != "" {
		if got, err := s.db.GetPosition(emp.PositionID); err == nil {
			position = got
		}
	}
	resp := mappers.ProjectEmployee(emp, identity, position)
	return &resp, nil
}

// ListByOffice 办公室维度列表
func (s *EmployeeService) ListByOffice(caller *models.Caller, key models.OfficeKey) ([]models.Employee, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	return s.db.ListEmployeesByOffice(key)
}

// ListByCorporation 公司维度列表
func (s *EmployeeService) ListByCorporation(caller *models.Caller, corporationID string) ([]models.Employee, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	return s.db.ListEmployeesByCorporation(corporationID)
}

// Update 门禁与 Create 相同；办公室归属从不经由普通更新移动
func (s *EmployeeService) Update(caller *models.Caller, id string, req *models.EmployeeRequest) (*models.Employee, error) {
	emp, err := s.db.GetEmployee(id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireSelf(caller, req.IdentityID); err != nil {
		return nil, err
	}
	if _, err := authz.RequireDirectorOf(s.db, caller, emp.OfficeCorporationID); err != nil {
		return nil, err
	}

	merged := mappers.MergeEmployee(emp, req,
		func(identityID string) bool {
			_, err := s.db.GetIdentityByID(identityID)
			return err == nil
		},
		func(addressID string) bool {
			_, err := s.db.GetAddress(addressID)
			return err == nil
		},
		func(positionID string) bool {
			_, err := s.db.GetPosition(positionID)
			return err == nil
		})
	if err := s.db.UpdateEmployee(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete 只能删除调用者自己关联的员工记录
// 两个 employeesAmount 随删除同事务自减。
func (s *EmployeeService) Delete(caller *models.Caller, id string) error {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return err
	}
	own, err := s.db.GetEmployeeByIdentity(caller.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotEmployeeOfScope("caller has no employee record")
		}
		return err
	}
	if own.ID != id {
		return apperr.NotEmployeeOfScope("target employee is not linked to the caller")
	}
	return s.db.DeleteEmployee(id)
}

// Transfer 三步不变式序列由存储层一次事务完成
// 跨公司目标 → InvalidReference；原办公室 → ConflictingNoOp；
// 其余情况要求目标是调用者自己的员工记录或调用者为董事。
func (s *EmployeeService) Transfer(caller *models.Caller, employeeID string, to models.OfficeKey) (*models.Employee, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	target, err := mappers.ResolveOfficeKey(to.CorporationID, to.AddressID)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.GetEmployeeByIdentity(caller.ID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotEmployeeOfScope("caller has no employee record")
		}
		return nil, err
	}

	emp, err := s.db.GetEmployee(employeeID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireSameCorporation(emp.OfficeKey(), target); err != nil {
		return nil, err
	}
	if emp.OfficeKey() == target {
		return nil, apperr.ConflictingNoOp("employee is already assigned to this office")
	}
	if err := authz.RequireSelfOrDirector(s.db, caller, emp); err != nil {
		return nil, err
	}
	if _, err := s.db.GetOffice(target); err != nil {
		return nil, err
	}

	if err := s.db.TransferEmployee(employeeID, target); err != nil {
		return nil, err
	}
	return s.db.GetEmployee(employeeID)
}
