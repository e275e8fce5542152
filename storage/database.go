package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry 键值存储表，每个存储键对应一行
type Entry struct {
	Key       string    `gorm:"primaryKey;size:64;column:data_key"`
	Value     string    `gorm:"type:longtext;column:data_value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 设置表名
func (Entry) TableName() string {
	return "storage_entries"
}

// Database 基于 MySQL 的存储实现
type Database struct {
	db *gorm.DB
}

// NewDatabase 创建数据库存储
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Get 读取键值
func (s *Database) Get(key string) (string, error) {
	var entry Entry
	if err := s.db.Where("data_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return entry.Value, nil
}

// Set 写入键值，已存在则覆盖
func (s *Database) Set(key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "data_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data_value", "updated_at"}),
	}).Create(&entry).Error
}
