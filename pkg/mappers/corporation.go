package mappers

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

// NewCorporation 创建路径：名称、描述、创始董事都必填
func NewCorporation(req *models.CorporationRequest) (*models.Corporation, error) {
	if isEmpty(req.Name) {
		return nil, apperr.EmptyRequiredField("corporation", "name")
	}
	if isEmpty(req.Description) {
		return nil, apperr.EmptyRequiredField("corporation", "description")
	}
	if isEmpty(req.DirectorID) {
		return nil, apperr.EmptyRequiredField("corporation", "director_id")
	}

	return &models.Corporation{
		Name:        req.Name,
		Description: req.Description,
		Directors:   []string{req.DirectorID},
	}, nil
}

// MergeCorporation 更新路径：只合并名称与描述，董事集合不在此变动
func MergeCorporation(existing *models.Corporation, req *models.CorporationRequest) *models.Corporation {
	merged := *existing
	merged.Directors = append([]string(nil), existing.Directors...)
	merged.Name = pickString(req.Name, existing.Name)
	merged.Description = pickString(req.Description, existing.Description)
	return &merged
}

// AddDirector appends a new director, guarded by the wrong-elevation check:
// the submitted "already a director" id must currently be in the set. This is
// a safety check against forged requests, not a capability check.
func AddDirector(corp *models.Corporation, alreadyDirectorID, newDirectorID string) (*models.Corporation, error) {
	if isEmpty(newDirectorID) {
		return nil, apperr.EmptyRequiredField("corporation", "new_director_id")
	}
	if !corp.HasDirector(alreadyDirectorID) {
		return nil, apperr.ConflictingNoOp("submitted director id is not in the director set")
	}
	if corp.HasDirector(newDirectorID) {
		return nil, apperr.ConflictingNoOp("identity is already a director")
	}

	updated := *corp
	updated.Directors = append(append([]string(nil), corp.Directors...), newDirectorID)
	return &updated, nil
}

// ProjectCorporation 外投影，offices 仅由 with-offices 变体填充
func ProjectCorporation(corp *models.Corporation, offices []models.Office) models.CorporationResponse {
	return models.CorporationResponse{Corporation: *corp, Offices: offices}
}
