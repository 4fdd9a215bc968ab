package services

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/authz"
	"corporate-backend-refactor/pkg/database"
	"corporate-backend-refactor/pkg/mappers"
	"corporate-backend-refactor/pkg/models"
)

// CorporationService 公司操作门面
type CorporationService struct {
	db database.DatabaseInterface
}

// NewCorporationService 创建公司服务
func NewCorporationService(db database.DatabaseInterface) *CorporationService {
	return &CorporationService{db: db}
}

// Create 创始董事默认为调用者本人；显式给出的必须就是调用者
func (s *CorporationService) Create(caller *models.Caller, req *models.CorporationRequest) (*models.Corporation, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if req.DirectorID == "" {
		req.DirectorID = caller.ID
	}
	if req.DirectorID != caller.ID {
		return nil, apperr.NotAuthorized("founding director must be the caller")
	}

	corp, err := mappers.NewCorporation(req)
	if err != nil {
		return nil, err
	}
	if err := s.db.CreateCorporation(corp); err != nil {
		return nil, err
	}
	return corp, nil
}

// Get 公开读取
func (s *CorporationService) Get(id string) (*models.Corporation, error) {
	return s.db.GetCorporation(id)
}

// GetWithOffices 带办公室的一层投影变体
func (s *CorporationService) GetWithOffices(id string) (*models.CorporationResponse, error) {
	corp, err := s.db.GetCorporation(id)
	if err != nil {
		return nil, err
	}
	offices, err := s.db.ListOfficesByCorporation(id)
	if err != nil {
		return nil, err
	}
	resp := mappers.ProjectCorporation(corp, offices)
	return &resp, nil
}

// List 公开目录
func (s *CorporationService) List() ([]models.Corporation, error) {
	return s.db.ListCorporations()
}

// Update 请求中的董事 id 必须是调用者本人，且调用者必须在现存董事列表里
func (s *CorporationService) Update(caller *models.Caller, id string, req *models.CorporationRequest) (*models.Corporation, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if req.DirectorID != "" && req.DirectorID != caller.ID {
		return nil, apperr.NotAuthorized("submitted director id is not the caller")
	}
	corp, err := authz.RequireDirectorOf(s.db, caller, id)
	if err != nil {
		return nil, err
	}

	merged := mappers.MergeCorporation(corp, req)
	if err := s.db.UpdateCorporation(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete 董事专属，部门、办公室、员工级联
func (s *CorporationService) Delete(caller *models.Caller, id string) error {
	if _, err := authz.RequireDirectorOf(s.db, caller, id); err != nil {
		return err
	}
	return s.db.DeleteCorporation(id)
}

// AddDirector 提名新董事：already-director 字段必须就是调用者本人，
// 随后的 set-membership 防伪检查在 mapper 中
func (s *CorporationService) AddDirector(caller *models.Caller, id string, req *models.AddDirectorRequest) (*models.Corporation, error) {
	if err := authz.RequireSelf(caller, req.AlreadyDirectorID); err != nil {
		return nil, err
	}
	corp, err := s.db.GetCorporation(id)
	if err != nil {
		return nil, err
	}
	updated, err := mappers.AddDirector(corp, req.AlreadyDirectorID, req.NewDirectorID)
	if err != nil {
		return nil, err
	}
	// The new director must be a resolvable identity.
	if _, err := s.db.GetIdentityByID(req.NewDirectorID); err != nil {
		return nil, err
	}
	if err := s.db.UpdateCorporation(updated); err != nil {
		return nil, err
	}
	return updated, nil
}
