package storage

import "errors"

// 各数据集合对应的存储键
const (
	KeyTransactions = "transactions"
	KeyCategories   = "transaction-categories"
	KeyProfile      = "user-profile"
	KeySettings     = "app-settings"
)

// ErrNotFound 存储键不存在
var ErrNotFound = errors.New("存储键不存在")

// Storage 键值存储介质，每个键保存一份完整的 JSON 快照
type Storage interface {
	// Get 读取键对应的值，键不存在时返回 ErrNotFound
	Get(key string) (string, error)
	// Set 写入键值，已存在则整体覆盖
	Set(key, value string) error
}
