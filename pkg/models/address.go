package models

import "time"

// Address 物理地址，被办公室（复合键组件）和员工引用
type Address struct {
	ID        string    `json:"id" db:"id"`
	Street    string    `json:"street" db:"street"`
	City      string    `json:"city" db:"city"`
	House     string    `json:"house" db:"house"`
	Apartment string    `json:"apartment,omitempty" db:"apartment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AddressRequest 地址创建/更新请求体
type AddressRequest struct {
	Street    string `json:"street"`
	City      string `json:"city"`
	House     string `json:"house"`
	Apartment string `json:"apartment"`
}
