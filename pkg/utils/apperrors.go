package utils

import (
	"net/http"

	"corporate-backend-refactor/pkg/apperr"
)

// WriteAppErrorResponse 把领域错误一比一映射到对外状态码
// 错误种类从不被降级或吞掉。
func WriteAppErrorResponse(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		WriteNotFoundResponse(w, err.Error())
	case apperr.KindEmptyRequiredField, apperr.KindInvalidReference:
		WriteValidationErrorResponse(w, err.Error(), apperr.FieldOf(err))
	case apperr.KindNotAuthenticated:
		WriteUnauthorizedResponse(w, err.Error())
	case apperr.KindNotAuthorized, apperr.KindNotDirector, apperr.KindNotEmployeeOfScope:
		WriteForbiddenResponse(w, err.Error())
	case apperr.KindConflictingNoOp:
		WriteConflictResponse(w, err.Error())
	case apperr.KindStorageIntegrity:
		WriteErrorResponseWithCode(w, http.StatusConflict, "STORAGE_INTEGRITY", err.Error(), "")
	default:
		WriteInternalServerErrorResponse(w, err.Error())
	}
}
