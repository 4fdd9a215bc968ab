package mappers

import "strings"

// 合并助手：每种字段类型一个显式的小函数，必填与可选语义留给各实体 mapper

// pickString returns the request value unless it is empty, otherwise the
// persisted value. "Empty" means blank after trimming.
func pickString(request, current string) string {
	if strings.TrimSpace(request) != "" {
		return request
	}
	return current
}

// pickRef re-resolves a reference id through the store and substitutes it
// only when it resolves; an unresolvable or absent reference silently falls
// back to the persisted value.
func pickRef(request, current string, resolves func(id string) bool) string {
	if strings.TrimSpace(request) == "" {
		return current
	}
	if resolves != nil && resolves(request) {
		return request
	}
	return current
}

// isEmpty reports whether a required string value is missing.
func isEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}
