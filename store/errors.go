package store

import (
	"errors"

	"moneytrack/models"
)

var (
	// ErrCategoryExists 类别键已存在
	ErrCategoryExists = errors.New("类别已存在")
	// ErrUnknownCategory 记录引用了不存在的类别
	ErrUnknownCategory = errors.New("无效的交易类别，请先在类别管理中创建")
	// ErrCategoryTypeMismatch 类别不支持该收支类型
	ErrCategoryTypeMismatch = errors.New("类别与收支类型不匹配")
	// ErrInvalidWeekStart 周起始日取值错误
	ErrInvalidWeekStart = errors.New("周起始日只能为 monday 或 sunday")
)

// validationErrors 校验类错误集合，校验失败不会改变任何状态
var validationErrors = []error{
	ErrCategoryExists,
	ErrUnknownCategory,
	ErrCategoryTypeMismatch,
	ErrInvalidWeekStart,
	models.ErrInvalidType,
	models.ErrInvalidAmount,
	models.ErrMissingDate,
	models.ErrEmptyCategory,
	models.ErrBreakdownMismatch,
	models.ErrInvalidColor,
}

// IsValidation 判断是否为校验类错误（应返回 400 而非 500）
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
