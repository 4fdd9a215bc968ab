package models

import "time"

// Corporation 公司实体（董事列表 + 两个反规范化计数器）
// Directors always holds at least one identity id; OfficesAmount 与
// EmployeesAmount 由存储层在结构性变更的同一事务中维护。
type Corporation struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	OfficesAmount   int       `json:"offices_amount" db:"offices_amount"`
	EmployeesAmount int       `json:"employees_amount" db:"employees_amount"`
	Directors       []string  `json:"directors" db:"directors"`
	ImageRef        string    `json:"image_ref,omitempty" db:"image_ref"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// HasDirector reports whether identityID is in the director set.
func (c *Corporation) HasDirector(identityID string) bool {
	for _, d := range c.Directors {
		if d == identityID {
			return true
		}
	}
	return false
}

// CorporationRequest 公司创建/更新请求体
// DirectorID is the creating director on the create path; update merges
// name/description only (director changes go through add-director).
type CorporationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DirectorID  string `json:"director_id"`
}

// AddDirectorRequest promotes a new director onto a corporation.
// AlreadyDirectorID 必须已经在董事列表中，否则视为伪造的提权请求。
type AddDirectorRequest struct {
	AlreadyDirectorID string `json:"already_director_id"`
	NewDirectorID     string `json:"new_director_id"`
}

// CorporationResponse is the outward projection; Offices is populated only
// by the "with offices" variant.
type CorporationResponse struct {
	Corporation
	Offices []Office `json:"offices,omitempty"`
}
