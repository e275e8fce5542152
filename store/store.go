package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"moneytrack/models"
	"moneytrack/storage"

	"github.com/google/uuid"
)

// Store 记录与类别的唯一数据源。所有数据常驻内存，每次变更后
// 把完整集合同步序列化到注入的存储介质；写入失败时内存状态
// 保持不变并把错误返回给调用方，不做回滚
type Store struct {
	mu      sync.RWMutex
	storage storage.Storage

	transactions []models.Transaction
	categories   []models.Category
	profile      models.UserProfile
	settings     models.AppSettings

	now   func() time.Time
	newID func() string
}

// New 创建 Store，存储介质由调用方注入
func New(st storage.Storage) *Store {
	return &Store{
		storage:  st,
		profile:  models.DefaultProfile(),
		settings: models.DefaultAppSettings(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Load 从存储介质加载全部数据。交易记录不存在时初始化为空，
// 类别目录不存在时写入内置目录
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadKey(storage.KeyTransactions, &s.transactions); err != nil {
		return err
	}
	if s.transactions == nil {
		s.transactions = []models.Transaction{}
	}

	if err := s.loadKey(storage.KeyCategories, &s.categories); err != nil {
		return err
	}
	if s.categories == nil {
		s.categories = models.DefaultCategories()
		if err := s.persist(storage.KeyCategories, s.categories); err != nil {
			return err
		}
	}

	if err := s.loadKey(storage.KeyProfile, &s.profile); err != nil {
		return err
	}
	if err := s.loadKey(storage.KeySettings, &s.settings); err != nil {
		return err
	}
	return nil
}

// loadKey 读取并反序列化一个存储键，键不存在时保持目标不变
func (s *Store) loadKey(key string, dst interface{}) error {
	raw, err := s.storage.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("读取 %s 失败: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("解析 %s 失败: %w", key, err)
	}
	return nil
}

// persist 序列化并写入一个存储键
func (s *Store) persist(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", key, err)
	}
	if err := s.storage.Set(key, string(data)); err != nil {
		return fmt.Errorf("保存 %s 失败: %w", key, err)
	}
	return nil
}

// findCategory 按键查找类别，调用方需持有锁
func (s *Store) findCategory(value string) (models.Category, bool) {
	for _, c := range s.categories {
		if c.Value == value {
			return c, true
		}
	}
	return models.Category{}, false
}

// validateTransaction 写入前校验记录，包括类别存在性、
// 类别与收支类型的兼容性和明细合计约束
func (s *Store) validateTransaction(t models.Transaction) error {
	if err := t.Validate(); err != nil {
		if errors.Is(err, models.ErrBreakdownMismatch) {
			deficit, _ := models.BreakdownDeficit(t.Amount, t.Breakdowns)
			return fmt.Errorf("%w，相差 %.2f", models.ErrBreakdownMismatch, deficit)
		}
		return err
	}
	cat, ok := s.findCategory(t.Category)
	if !ok {
		return ErrUnknownCategory
	}
	if !cat.Allows(t.Type) {
		return ErrCategoryTypeMismatch
	}
	return nil
}

// AddTransaction 新增一条记录：校验通过后分配ID和时间戳，
// 插入队首并持久化，返回创建后的记录
func (s *Store) AddTransaction(t models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateTransaction(t); err != nil {
		return models.Transaction{}, err
	}

	now := s.now()
	t.ID = s.newID()
	t.CreatedAt = now
	t.UpdatedAt = now

	s.transactions = append([]models.Transaction{t}, s.transactions...)
	if err := s.persist(storage.KeyTransactions, s.transactions); err != nil {
		return t, err
	}
	return t, nil
}

// TransactionPatch 部分更新的字段集合，nil 字段表示不修改
type TransactionPatch struct {
	Type        *string
	Amount      *float64
	Category    *string
	Description *string
	Date        *models.Date
	Breakdowns  *[]models.Breakdown
}

// apply 把补丁合并到记录副本上
func (p TransactionPatch) apply(t models.Transaction) models.Transaction {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Breakdowns != nil {
		t.Breakdowns = *p.Breakdowns
	}
	return t
}

// UpdateTransaction 部分更新记录。ID 不存在时静默跳过（返回 nil），
// 这是约定行为：调用方不检查"未找到"
func (s *Store) UpdateTransaction(id string, patch TransactionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transactions {
		if t.ID != id {
			continue
		}
		merged := patch.apply(t)
		if err := s.validateTransaction(merged); err != nil {
			return err
		}
		merged.UpdatedAt = s.now()
		s.transactions[i] = merged
		return s.persist(storage.KeyTransactions, s.transactions)
	}
	return nil
}

// DeleteTransaction 删除记录，ID 不存在时静默跳过
func (s *Store) DeleteTransaction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return s.persist(storage.KeyTransactions, s.transactions)
		}
	}
	return nil
}

// GetTransaction 按 ID 查找记录
func (s *Store) GetTransaction(id string) (models.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.transactions {
		if t.ID == id {
			return t, true
		}
	}
	return models.Transaction{}, false
}

// AddCategory 新增类别，键重复时拒绝
func (s *Store) AddCategory(c models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateCategory(c); err != nil {
		return err
	}
	if _, ok := s.findCategory(c.Value); ok {
		return ErrCategoryExists
	}
	s.categories = append(s.categories, c)
	return s.persist(storage.KeyCategories, s.categories)
}

// UpdateCategory 更新类别并级联到引用它的记录，两个阶段在同一把
// 锁内完成：先替换目录条目，再把记录的类别改写为新键；新类别的
// 收支类型不是 both 时，受影响记录的类型一并改为新类型。
// oldValue 不存在时静默跳过
func (s *Store) UpdateCategory(oldValue string, c models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateCategory(c); err != nil {
		return err
	}
	if c.Value != oldValue {
		if _, ok := s.findCategory(c.Value); ok {
			return ErrCategoryExists
		}
	}

	found := false
	for i, cat := range s.categories {
		if cat.Value == oldValue {
			s.categories[i] = c
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	if err := s.persist(storage.KeyCategories, s.categories); err != nil {
		return err
	}

	changed := false
	now := s.now()
	for i, t := range s.transactions {
		if t.Category != oldValue {
			continue
		}
		t.Category = c.Value
		if c.Type != models.CategoryTypeBoth {
			t.Type = c.Type
		}
		t.UpdatedAt = now
		s.transactions[i] = t
		changed = true
	}
	if !changed {
		return nil
	}
	return s.persist(storage.KeyTransactions, s.transactions)
}

// DeleteCategory 删除类别并把引用它的记录归入兜底类别
// other-expense，同时把记录类型改为 expense。value 不存在时静默跳过
func (s *Store) DeleteCategory(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i, cat := range s.categories {
		if cat.Value == value {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	if err := s.persist(storage.KeyCategories, s.categories); err != nil {
		return err
	}

	changed := false
	now := s.now()
	for i, t := range s.transactions {
		if t.Category != value {
			continue
		}
		t.Category = models.FallbackCategory
		t.Type = models.TypeExpense
		t.UpdatedAt = now
		s.transactions[i] = t
		changed = true
	}
	if !changed {
		return nil
	}
	return s.persist(storage.KeyTransactions, s.transactions)
}

// validateCategory 校验类别字段
func validateCategory(c models.Category) error {
	if c.Value == "" || c.Label == "" {
		return models.ErrEmptyCategory
	}
	if !models.ValidCategoryType(c.Type) {
		return models.ErrInvalidType
	}
	return nil
}

// ListCategories 列出全部类别，附带每个类别的引用记录数和
// 推导的文字颜色。typeFilter 为 income/expense 时只返回兼容类别
func (s *Store) ListCategories(typeFilter string) []models.CategoryInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.categories))
	for _, t := range s.transactions {
		counts[t.Category]++
	}

	list := make([]models.CategoryInfo, 0, len(s.categories))
	for _, c := range s.categories {
		if typeFilter != "" && typeFilter != models.FilterAll && !c.Allows(typeFilter) {
			continue
		}
		info := models.CategoryInfo{Category: c, ExpenseCount: counts[c.Value]}
		if c.Color != "" {
			if textColor, err := models.ContrastColor(c.Color); err == nil {
				info.TextColor = textColor
			}
		}
		list = append(list, info)
	}
	return list
}

// GetCategory 按键查找类别
func (s *Store) GetCategory(value string) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findCategory(value)
}

// Profile 返回用户资料
func (s *Store) Profile() models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// ProfilePatch 用户资料的部分更新
type ProfilePatch struct {
	Username *string
	Email    *string
	Name     *string
	Avatar   *string
}

// UpdateProfile 合并更新用户资料并持久化
func (s *Store) UpdateProfile(patch ProfilePatch) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Username != nil {
		s.profile.Username = *patch.Username
	}
	if patch.Email != nil {
		s.profile.Email = *patch.Email
	}
	if patch.Name != nil {
		s.profile.Name = *patch.Name
	}
	if patch.Avatar != nil {
		s.profile.Avatar = *patch.Avatar
	}
	return s.profile, s.persist(storage.KeyProfile, s.profile)
}

// Settings 返回应用设置
func (s *Store) Settings() models.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SettingsPatch 应用设置的部分更新
type SettingsPatch struct {
	Currency      *string
	Notifications *bool
	WeekStart     *string
}

// UpdateSettings 合并更新应用设置并持久化
func (s *Store) UpdateSettings(patch SettingsPatch) (models.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.WeekStart != nil &&
		*patch.WeekStart != models.WeekStartMonday && *patch.WeekStart != models.WeekStartSunday {
		return s.settings, ErrInvalidWeekStart
	}
	if patch.Currency != nil {
		s.settings.Currency = *patch.Currency
	}
	if patch.Notifications != nil {
		s.settings.Notifications = *patch.Notifications
	}
	if patch.WeekStart != nil {
		s.settings.WeekStart = *patch.WeekStart
	}
	return s.settings, s.persist(storage.KeySettings, s.settings)
}
