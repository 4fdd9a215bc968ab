package services

import (
	"fmt"

	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/authz"
	"corporate-backend-refactor/pkg/database"
	"corporate-backend-refactor/pkg/mappers"
	"corporate-backend-refactor/pkg/models"

	"golang.org/x/crypto/bcrypt"
)

// IdentityService 身份操作门面
type IdentityService struct {
	db database.DatabaseInterface
}

// NewIdentityService 创建身份服务
func NewIdentityService(db database.DatabaseInterface) *IdentityService {
	return &IdentityService{db: db}
}

// Create 公开注册：必填校验走创建路径，密码入库前先哈希
func (s *IdentityService) Create(req *models.IdentityRequest) (*models.Identity, error) {
	identity, err := mappers.NewIdentity(req)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(identity.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	identity.Password = string(hash)

	if err := s.db.CreateIdentity(identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Authenticate 校验用户名密码，成功返回身份
func (s *IdentityService) Authenticate(username, password string) (*models.Identity, error) {
	identity, err := s.db.GetIdentityByUsername(username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotAuthenticated()
		}
		return nil, err
	}
	if !identity.Enabled {
		return nil, apperr.NotAuthenticated()
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.Password), []byte(password)) != nil {
		return nil, apperr.NotAuthenticated()
	}
	return identity, nil
}

// Get 自我门禁：只能查看自己的身份
func (s *IdentityService) Get(caller *models.Caller, id string) (*models.Identity, error) {
	if err := authz.RequireSelf(caller, id); err != nil {
		return nil, err
	}
	return s.db.GetIdentityByID(id)
}

// List 管理员专用的全量列表
func (s *IdentityService) List(caller *models.Caller) ([]models.Identity, error) {
	if err := authz.RequireRole(caller, models.AuthorityAdmin); err != nil {
		return nil, err
	}
	return s.db.ListIdentities()
}

// Update 自我门禁的合并更新：密码、角色、启用态、员工链接都不在此变动
func (s *IdentityService) Update(caller *models.Caller, id string, req *models.IdentityRequest) (*models.Identity, error) {
	if err := authz.RequireSelf(caller, id); err != nil {
		return nil, err
	}
	existing, err := s.db.GetIdentityByID(id)
	if err != nil {
		return nil, err
	}
	merged := mappers.MergeIdentity(existing, req)
	if err := s.db.UpdateIdentity(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete 自我门禁删除，员工记录独立于身份存续
func (s *IdentityService) Delete(caller *models.Caller, id string) error {
	if err := authz.RequireSelf(caller, id); err != nil {
		return err
	}
	return s.db.DeleteIdentity(id)
}

// ChangePassword 自我门禁；新旧密码相同视为冲突的空操作
func (s *IdentityService) ChangePassword(caller *models.Caller, id, password string) error {
	if err := authz.RequireSelf(caller, id); err != nil {
		return err
	}
	if password == "" {
		return apperr.EmptyRequiredField("identity", "password")
	}
	identity, err := s.db.GetIdentityByID(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.Password), []byte(password)) == nil {
		return apperr.ConflictingNoOp("new password matches the current one")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	identity.Password = string(hash)
	return s.db.UpdateIdentity(identity)
}

// EnableDisable 管理员开关；切到当前状态视为冲突的空操作
func (s *IdentityService) EnableDisable(caller *models.Caller, id string, enabled bool) (*models.Identity, error) {
	if err := authz.RequireRole(caller, models.AuthorityAdmin); err != nil {
		return nil, err
	}
	identity, err := s.db.GetIdentityByID(id)
	if err != nil {
		return nil, err
	}
	if identity.Enabled == enabled {
		return nil, apperr.ConflictingNoOp(fmt.Sprintf("identity is already enabled=%t", enabled))
	}
	identity.Enabled = enabled
	if err := s.db.UpdateIdentity(identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// 角色流转：三条过渡各有自己的出发角色集合，且都只能作用于调用者本人

// MakeUser 从 {ADMIN, WORKER, DIRECTOR} 回到普通用户
func (s *IdentityService) MakeUser(caller *models.Caller, id string) (*models.Identity, error) {
	return s.transition(caller, id, models.AuthorityUser,
		models.AuthorityAdmin, models.AuthorityWorker, models.AuthorityDirector)
}

// MakeWorker 从 {USER, DIRECTOR} 转为员工角色
func (s *IdentityService) MakeWorker(caller *models.Caller, id string) (*models.Identity, error) {
	return s.transition(caller, id, models.AuthorityWorker,
		models.AuthorityUser, models.AuthorityDirector)
}

// MakeDirector 从 {USER, WORKER} 转为董事角色
func (s *IdentityService) MakeDirector(caller *models.Caller, id string) (*models.Identity, error) {
	return s.transition(caller, id, models.AuthorityDirector,
		models.AuthorityUser, models.AuthorityWorker)
}

func (s *IdentityService) transition(caller *models.Caller, id string, target models.Authority, from ...models.Authority) (*models.Identity, error) {
	if err := authz.RequireSelf(caller, id); err != nil {
		return nil, err
	}
	if err := authz.RequireRole(caller, from...); err != nil {
		return nil, err
	}
	identity, err := s.db.GetIdentityByID(id)
	if err != nil {
		return nil, err
	}
	if identity.Authority == target {
		return nil, apperr.ConflictingNoOp(fmt.Sprintf("identity already has authority %s", target))
	}
	identity.Authority = target
	if err := s.db.UpdateIdentity(identity); err != nil {
		return nil, err
	}
	return identity, nil
}
