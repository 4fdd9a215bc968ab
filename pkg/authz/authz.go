package authz

import (
	"corporate-backend-refactor/pkg/apperr"
	"corporate-backend-refactor/pkg/models"
)

// Store 授权遍历所需的最小存储视图
// Every ownership check costs at most one extra store read.
type Store interface {
	GetCorporation(id string) (*models.Corporation, error)
	GetEmployeeByIdentity(identityID string) (*models.Employee, error)
}

// RequireAuthenticated 没有调用者或已禁用 → NotAuthenticated
// This check always runs before any store read.
func RequireAuthenticated(caller *models.Caller) error {
	if caller == nil || caller.ID == "" {
		return apperr.NotAuthenticated()
	}
	if !caller.Enabled {
		return apperr.NotAuthenticated()
	}
	return nil
}

// RequireSelf 目标身份必须是调用者本人
func RequireSelf(caller *models.Caller, targetIdentityID string) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	if caller.ID != targetIdentityID {
		return apperr.NotAuthorized("target identity is not the caller")
	}
	return nil
}

// RequireRole 调用者角色必须属于固定允许集合
func RequireRole(caller *models.Caller, allowed ...models.Authority) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	for _, a := range allowed {
		if caller.Authority == a {
			return nil
		}
	}
	return apperr.NotAuthorized("caller role is not permitted for this operation")
}

// IsDirectorOf reports whether the caller sits in the corporation's director
// set. Pure membership; no role lookup.
func IsDirectorOf(caller *models.Caller, corp *models.Corporation) bool {
	return caller != nil && corp.HasDirector(caller.ID)
}

// RequireDirector 调用者必须在公司董事列表中
func RequireDirector(caller *models.Caller, corp *models.Corporation) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	if !IsDirectorOf(caller, corp) {
		return apperr.NotDirector(corp.ID)
	}
	return nil
}

// RequireDirectorOf fetches the corporation and runs the director membership
// check in one step; the fetched aggregate is returned so the operation does
// not read it twice.
func RequireDirectorOf(store Store, caller *models.Caller, corporationID string) (*models.Corporation, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	corp, err := store.GetCorporation(corporationID)
	if err != nil {
		return nil, err
	}
	if err := RequireDirector(caller, corp); err != nil {
		return nil, err
	}
	return corp, nil
}

// RequireEmployeeOfCorporation 调用者必须通过身份链接解析为该公司名下的员工
func RequireEmployeeOfCorporation(store Store, caller *models.Caller, corporationID string) (*models.Employee, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	emp, err := store.GetEmployeeByIdentity(caller.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotEmployeeOfScope("caller has no employee record")
		}
		return nil, err
	}
	if emp.OfficeCorporationID != corporationID {
		return nil, apperr.NotEmployeeOfScope("caller's employee belongs to a different corporation")
	}
	return emp, nil
}

// RequireEmployeeOfDepartment walks from the department up to its owning
// corporation and tests employee membership there.
func RequireEmployeeOfDepartment(store Store, caller *models.Caller, dept *models.Department) (*models.Employee, error) {
	return RequireEmployeeOfCorporation(store, caller, dept.CorporationID)
}

// RequireSameCorporation 跨字段一致性：两个办公室必须同属一家公司
// Mismatch is a distinct rejection from "not a director".
func RequireSameCorporation(a, b models.OfficeKey) error {
	if a.CorporationID != b.CorporationID {
		return apperr.InvalidReference("offices belong to different corporations")
	}
	return nil
}

// RequireSelfOrDirector 目标是调用者自己的员工记录，或调用者是该公司的董事
func RequireSelfOrDirector(store Store, caller *models.Caller, targetEmployee *models.Employee) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	if targetEmployee.IdentityID == caller.ID {
		return nil
	}
	corp, err := store.GetCorporation(targetEmployee.OfficeCorporationID)
	if err != nil {
		return err
	}
	if !IsDirectorOf(caller, corp) {
		return apperr.NotDirector(corp.ID)
	}
	return nil
}
