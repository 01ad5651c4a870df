package common

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// HashString 計算字符串的 SHA-256 哈希值
func HashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

// NewErrorResponse 由錯誤建立 API 錯誤響應
func NewErrorResponse(err error, requestID string) ErrorResponse {
	resp := ErrorResponse{
		Code:      CodeOf(err),
		Message:   err.Error(),
		RequestID: requestID,
	}
	var ce *CustomError
	if errors.As(err, &ce) {
		resp.Message = ce.Message
		if ce.Err != nil {
			resp.Details = ce.Err.Error()
		}
	}
	return resp
}
