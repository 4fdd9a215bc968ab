package services

import (
	"context"
	"fmt"

	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/authz"
	"corporate-backend-refactor/pkg/blob"
	"corporate-backend-refactor/pkg/database"
	"corporate-backend-refactor/pkg/models"
)

// MediaService 身份与公司头像的 blob 侧操作
// Blob 调用在实体事务之外尽力而为：实体变更一旦落库，blob 故障只以
// 警告形式上浮，绝不回滚。
type MediaService struct {
	db    database.DatabaseInterface
	blobs blob.Store
}

// NewMediaService 创建媒体服务
func NewMediaService(db database.DatabaseInterface, blobs blob.Store) *MediaService {
	return &MediaService{db: db, blobs: blobs}
}

// MediaResult 媒体操作结果；Warning 非空表示 blob 侧的尽力而为步骤失败
type MediaResult struct {
	Reference string `json:"reference,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// UploadIdentityImage 自我门禁：只能给自己的身份设置头像
func (s *MediaService) UploadIdentityImage(ctx context.Context, caller *models.Caller, identityID string, data []byte, contentType string) (*MediaResult, error) {
	if err := authz.RequireSelf(caller, identityID); err != nil {
		return nil, err
	}
	identity, err := s.db.GetIdentityByID(identityID)
	if err != nil {
		return nil, err
	}

	ref, err := s.blobs.Upload(ctx, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	old := identity.ImageRef
	identity.ImageRef = string(ref)
	if err := s.db.UpdateIdentity(identity); err != nil {
		// 实体未变，刚传的对象成了孤儿，顺手清掉
		_ = s.blobs.Delete(ctx, ref)
		return nil, err
	}

	result := &MediaResult{Reference: string(ref)}
	if old != "" {
		if err := s.blobs.Delete(ctx, blob.Reference(old)); err != nil {
			result.Warning = fmt.Sprintf("previous image %s could not be removed: %v", old, err)
		}
	}
	return result, nil
}

// DeleteIdentityImage 自我门禁；实体先脱钩，blob 删除失败只留警告
func (s *MediaService) DeleteIdentityImage(ctx context.Context, caller *models.Caller, identityID string) (*MediaResult, error) {
	if err := authz.RequireSelf(caller, identityID); err != nil {
		return nil, err
	}
	identity, err := s.db.GetIdentityByID(identityID)
	if err != nil {
		return nil, err
	}
	if identity.ImageRef == "" {
		return &MediaResult{}, nil
	}

	old := identity.ImageRef
	identity.ImageRef = ""
	if err := s.db.UpdateIdentity(identity); err != nil {
		return nil, err
	}

	result := &MediaResult{}
	if err := s.blobs.Delete(ctx, blob.Reference(old)); err != nil {
		result.Warning = fmt.Sprintf("image %s could not be removed: %v", old, err)
	}
	return result, nil
}

// UploadCorporationImage 董事专属
func (s *MediaService) UploadCorporationImage(ctx context.Context, caller *models.Caller, corporationID string, data []byte, contentType string) (*MediaResult, error) {
	corp, err := authz.RequireDirectorOf(s.db, caller, corporationID)
	if err != nil {
		return nil, err
	}

	ref, err := s.blobs.Upload(ctx, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	old := corp.ImageRef
	corp.ImageRef = string(ref)
	if err := s.db.UpdateCorporation(corp); err != nil {
		_ = s.blobs.Delete(ctx, ref)
		return nil, err
	}

	result := &MediaResult{Reference: string(ref)}
	if old != "" {
		if err := s.blobs.Delete(ctx, blob.Reference(old)); err != nil {
			result.Warning = fmt.Sprintf("previous image %s could not be removed: %v", old, err)
		}
	}
	return result, nil
}

// DeleteCorporationImage 董事专属
func (s *MediaService) DeleteCorporationImage(ctx context.Context, caller *models.Caller, corporationID string) (*MediaResult, error) {
	corp, err := authz.RequireDirectorOf(s.db, caller, corporationID)
	if err != nil {
		return nil, err
	}
	if corp.ImageRef == "" {
		return &MediaResult{}, nil
	}

	old := corp.ImageRef
	corp.ImageRef = ""
	if err := s.db.UpdateCorporation(corp); err != nil {
		return nil, err
	}

	result := &MediaResult{}
	if err := s.blobs.Delete(ctx, blob.Reference(old)); err != nil {
		result.Warning = fmt.Sprintf("image %s could not be removed: %v", old, err)
	}
	return result, nil
}

// FetchImage 公开读取已存储的图片
func (s *MediaService) FetchImage(ctx context.Context, ref string) ([]byte, string, error) {
	data, contentType, err := s.blobs.Fetch(ctx, blob.Reference(ref))
	if err != nil {
		return nil, "", apperr.NotFound("image", ref)
	}
	return data, contentType, nil
}
