package mappers

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

// NewIdentity 创建路径：所有必填字段都要有，缺哪个就报哪个
// The password still holds plaintext here; the service hashes it before the
// entity reaches the store.
func NewIdentity(req *models.IdentityRequest) (*models.Identity, error) {
	if isEmpty(req.Username) {
		return nil, apperr.EmptyRequiredField("identity", "username")
	}
	if isEmpty(req.Password) {
		return nil, apperr.EmptyRequiredField("identity", "password")
	}
	if isEmpty(req.Email) {
		return nil, apperr.EmptyRequiredField("identity", "email")
	}
	if isEmpty(req.Phone) {
		return nil, apperr.EmptyRequiredField("identity", "phone")
	}

	// 领域默认值：新身份一律 USER 且启用
	return &models.Identity{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		Phone:     req.Phone,
		Authority: models.AuthorityUser,
		Enabled:   true,
	}, nil
}

// MergeIdentity 更新路径：非空请求字段覆盖，其余保留
// Password, authority, enabled state and the employee link never move here;
// they have their own dedicated operations.
func MergeIdentity(existing *models.Identity, req *models.IdentityRequest) *models.Identity {
	merged := *existing
	merged.Username = pickString(req.Username, existing.Username)
	merged.Email = pickString(req.Email, existing.Email)
	merged.Phone = pickString(req.Phone, existing.Phone)
	return &merged
}
