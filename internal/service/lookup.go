package service

import (
	"errors"

	"social-system/internal/model"
)

// orNil 把记录不存在转换为空结果，其他错误原样返回
func orNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	return v, err
}
