package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别，出口层按类别一比一映射 HTTP 状态码
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindEmptyRequiredField
	KindInvalidReference
	KindNotAuthenticated
	KindNotAuthorized
	KindNotDirector
	KindNotEmployeeOfScope
	KindConflictingNoOp
	KindStorageIntegrity
)

// Error carries a kind plus the entity/field it concerns. Kinds are never
// swallowed or downgraded on the way to the boundary.
type Error struct {
	Kind   Kind
	Entity string
	Field  string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound 实体按键查找失败
func NotFound(entity, key string) error {
	return &Error{Kind: KindNotFound, Entity: entity, Msg: fmt.Sprintf("%s %s not found", entity, key)}
}

// EmptyRequiredField 创建路径缺少必填字段，错误信息点名字段
func EmptyRequiredField(entity, field string) error {
	return &Error{Kind: KindEmptyRequiredField, Entity: entity, Field: field,
		Msg: fmt.Sprintf("%s field %q is required", entity, field)}
}

// InvalidReference 复合键不完整或跨实体引用不一致
func InvalidReference(msg string) error {
	return &Error{Kind: KindInvalidReference, Msg: msg}
}

// NotAuthenticated 请求没有有效的调用者身份
func NotAuthenticated() error {
	return &Error{Kind: KindNotAuthenticated, Msg: "caller not authenticated"}
}

// NotAuthorized 自身归属检查失败
func NotAuthorized(msg string) error {
	if msg == "" {
		msg = "caller not authorized"
	}
	return &Error{Kind: KindNotAuthorized, Msg: msg}
}

// NotDirector 调用者不在目标公司的董事列表中
func NotDirector(corporationID string) error {
	return &Error{Kind: KindNotDirector, Entity: "corporation",
		Msg: fmt.Sprintf("caller is not a director of corporation %s", corporationID)}
}

// NotEmployeeOfScope 调用者不是目标范围内的员工
func NotEmployeeOfScope(msg string) error {
	if msg == "" {
		msg = "caller is not an employee of this scope"
	}
	return &Error{Kind: KindNotEmployeeOfScope, Msg: msg}
}

// ConflictingNoOp 与当前状态冲突的空操作（同办公室转移、重复启用等）
func ConflictingNoOp(msg string) error {
	return &Error{Kind: KindConflictingNoOp, Msg: msg}
}

// StorageIntegrity 存储层唯一性/外键约束拒绝写入，不可重试
func StorageIntegrity(err error) error {
	return &Error{Kind: KindStorageIntegrity, Msg: "storage integrity violation", Err: err}
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return is(err, KindNotFound) }

// IsEmptyRequiredField reports whether err is an EmptyRequiredField error.
func IsEmptyRequiredField(err error) bool { return is(err, KindEmptyRequiredField) }

// IsInvalidReference reports whether err is an InvalidReference error.
func IsInvalidReference(err error) bool { return is(err, KindInvalidReference) }

// IsNotAuthenticated reports whether err is a NotAuthenticated error.
func IsNotAuthenticated(err error) bool { return is(err, KindNotAuthenticated) }

// IsNotAuthorized reports whether err is a NotAuthorized error.
func IsNotAuthorized(err error) bool { return is(err, KindNotAuthorized) }

// IsNotDirector reports whether err is a NotDirector error.
func IsNotDirector(err error) bool { return is(err, KindNotDirector) }

// IsNotEmployeeOfScope reports whether err is a NotEmployeeOfScope error.
func IsNotEmployeeOfScope(err error) bool { return is(err, KindNotEmployeeOfScope) }

// IsConflictingNoOp reports whether err is a ConflictingNoOp error.
func IsConflictingNoOp(err error) bool { return is(err, KindConflictingNoOp) }

// IsStorageIntegrity reports whether err is a StorageIntegrity error.
func IsStorageIntegrity(err error) bool { return is(err, KindStorageIntegrity) }

// FieldOf returns the named field for EmptyRequiredField errors, "" otherwise.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
