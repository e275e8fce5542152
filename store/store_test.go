package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"moneytrack/models"
	"moneytrack/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStorage 可按键触发写入失败的内存存储，用于验证
// 持久化失败时内存状态的行为
type failingStorage struct {
	*storage.Memory
	failSet map[string]bool
}

func newFailingStorage() *failingStorage {
	return &failingStorage{Memory: storage.NewMemory(), failSet: make(map[string]bool)}
}

func (f *failingStorage) Set(key, value string) error {
	if f.failSet[key] {
		return errors.New("disk full")
	}
	return f.Memory.Set(key, value)
}

// newTestStore 建一个加载完内置类别目录的 Store，时间和 ID 可控
func newTestStore(t *testing.T, st storage.Storage) *Store {
	t.Helper()
	s := New(st)
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)
	s.now = func() time.Time { return now }
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("tx-%d", seq)
	}
	require.NoError(t, s.Load())
	return s
}

func expenseOn(date models.Date, amount float64, category string) models.Transaction {
	return models.Transaction{
		Type:     models.TypeExpense,
		Amount:   amount,
		Category: category,
		Date:     date,
	}
}

func TestLoadSeedsDefaultCategories(t *testing.T) {
	mem := storage.NewMemory()
	s := newTestStore(t, mem)

	// 首次加载写入内置类别目录
	list := s.ListCategories("")
	assert.Len(t, list, len(models.DefaultCategories()))

	raw, err := mem.Get(storage.KeyCategories)
	require.NoError(t, err)
	var persisted []models.Category
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Len(t, persisted, len(models.DefaultCategories()))
}

func TestLoadRestoresPersistedState(t *testing.T) {
	mem := storage.NewMemory()
	s := newTestStore(t, mem)

	created, err := s.AddTransaction(expenseOn(models.NewDate(2024, 6, 1), 25.50, "food"))
	require.NoError(t, err)

	// 用同一个存储介质重建 Store，记录应完整恢复
	reloaded := New(mem)
	require.NoError(t, reloaded.Load())
	got, ok := reloaded.GetTransaction(created.ID)
	require.True(t, ok)
	assert.Equal(t, created.Amount, got.Amount)
	assert.Equal(t, "2024-06-01", got.Date.String())
	assert.Equal(t, created.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestAddTransaction(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())

	created, err := s.AddTransaction(expenseOn(models.NewDate(2024, 6, 1), 25.50, "food"))
	require.NoError(t, err)
	assert.Equal(t, "tx-1", created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// 新记录插入队首
	second, err := s.AddTransaction(expenseOn(models.NewDate(2024, 6, 2), 35, "food"))
	require.NoError(t, err)
	list := s.ListTransactions(nil, nil)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	// 未知类别拒绝
	_, err = s.AddTransaction(expenseOn(models.NewDate(2024, 6, 1), 10, "no-such"))
	assert.ErrorIs(t, err, ErrUnknownCategory)

	// 类别与收支类型不兼容拒绝（salary 是收入类别）
	_, err = s.AddTransaction(expenseOn(models.NewDate(2024, 6, 1), 10, "salary"))
	assert.ErrorIs(t, err, ErrCategoryTypeMismatch)

	// 明细不一致拒绝，错误里带差额
	tx := expenseOn(models.NewDate(2024, 6, 1), 60, "food")
	tx.Breakdowns = []models.Breakdown{{Description: "a", Amount: 25}, {Description: "b", Amount: 15}, {Description: "c", Amount: 15}}
	_, err = s.AddTransaction(tx)
	assert.ErrorIs(t, err, models.ErrBreakdownMismatch)
	assert.Contains(t, err.Error(), "5.00")
}

func TestAddTransactionPersistFailureKeepsMemoryState(t *testing.T) {
	fs := newFailingStorage()
	s := newTestStore(t, fs)
	fs.failSet[storage.KeyTransactions] = true

	created, err := s.AddTransaction(expenseOn(models.NewDate(2024, 6, 1), 25.50, "food"))
	assert.Error(t, err)
	// 写入失败时内存状态保留，不回滚
	got, ok := s.GetTransaction(created.ID)
	assert.True(t, ok)
	assert.Equal(t, 25.50, got.Amount)
}

func TestUpdateTransaction(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	created, err := s.AddTransaction(expenseOn(models.NewDate(2024, 6, 1), 25.50, "food"))
	require.NoError(t, err)

	amount := 30.0
	desc := "晚餐"
	require.NoError(t, s.UpdateTransaction(created.ID, TransactionPatch{Amount: &amount, Description: &desc}))

	got, ok := s.GetTransaction(created.ID)
	require.True(t, ok)
	assert.Equal(t, 30.0, got.Amount)
	assert.Equal(t, "晚餐", got.Description)
	// 未修改的字段保持原值
	assert.Equal(t, "food", got.Category)

	// 非法补丁被拒绝且原记录不变
	bad := -1.0
	err = s.UpdateTransaction(created.ID, TransactionPatch{Amount: &bad})
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
	got, _ = s.GetTransaction(created.ID)
	assert.Equal(t, 30.0, got.Amount)

	// ID 不存在时静默成功
	assert.NoError(t, s.UpdateTransaction("missing", TransactionPatch{Amount: &amount}))
}

func TestDeleteTransaction(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	created, err := s.AddTransaction(expenseOn(models.NewDate(2024, 6, 1), 25.50, "food"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteTransaction(created.ID))
	_, ok := s.GetTransaction(created.ID)
	assert.False(t, ok)

	// ID 不存在时静默成功
	assert.NoError(t, s.DeleteTransaction(created.ID))
}

func TestAddCategory(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())

	c := models.Category{Value: "pets", Label: "宠物", Type: models.CategoryTypeExpense, Color: "#ffb3b3"}
	require.NoError(t, s.AddCategory(c))

	got, ok := s.GetCategory("pets")
	require.True(t, ok)
	assert.Equal(t, "宠物", got.Label)

	// 键重复拒绝
	assert.ErrorIs(t, s.AddCategory(c), ErrCategoryExists)

	// 字段缺失拒绝
	assert.ErrorIs(t, s.AddCategory(models.Category{Value: "x", Type: models.CategoryTypeExpense}), models.ErrEmptyCategory)
	assert.ErrorIs(t, s.AddCategory(models.Category{Value: "x", Label: "X", Type: "weird"}), models.ErrInvalidType)
}

func TestUpdateCategoryCascades(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	created, err := s.AddTransaction(expenseOn(models.NewDate(2024, 6, 1), 25.50, "food"))
	require.NoError(t, err)

	// 改键并把类型收窄为 income，引用记录跟着改键和改类型
	renamed := models.Category{Value: "dining", Label: "餐饮", Type: models.CategoryTypeIncome, Color: "#ffb3b3"}
	require.NoError(t, s.UpdateCategory("food", renamed))

	_, ok := s.GetCategory("food")
	assert.False(t, ok)
	got, ok := s.GetTransaction(created.ID)
	require.True(t, ok)
	assert.Equal(t, "dining", got.Category)
	assert.Equal(t, models.TypeIncome, got.Type)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))

	// 类型为 both 时记录的收支方向不变
	both := models.Category{Value: "misc", Label: "杂项", Type: models.CategoryTypeBoth}
	require.NoError(t, s.UpdateCategory("dining", both))
	got, _ = s.GetTransaction(created.ID)
	assert.Equal(t, "misc", got.Category)
	assert.Equal(t, models.TypeIncome, got.Type)

	// 改成已有键拒绝
	err = s.UpdateCategory("misc", models.Category{Value: "transportation", Label: "交通", Type: models.CategoryTypeExpense})
	assert.ErrorIs(t, err, ErrCategoryExists)

	// 旧键不存在时静默成功
	assert.NoError(t, s.UpdateCategory("ghost", models.Category{Value: "ghost2", Label: "G", Type: models.CategoryTypeExpense}))
}

func TestDeleteCategoryCascades(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	created, err := s.AddTransaction(models.Transaction{
		Type: models.TypeIncome, Amount: 100, Category: "salary", Date: models.NewDate(2024, 6, 1),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory("salary"))

	// 引用记录归入兜底类别并转为支出
	got, ok := s.GetTransaction(created.ID)
	require.True(t, ok)
	assert.Equal(t, models.FallbackCategory, got.Category)
	assert.Equal(t, models.TypeExpense, got.Type)

	_, ok = s.GetCategory("salary")
	assert.False(t, ok)

	// 键不存在时静默成功
	assert.NoError(t, s.DeleteCategory("salary"))
}

func TestListCategories(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())
	_, err := s.AddTransaction(expenseOn(models.NewDate(2024, 6, 1), 25.50, "food"))
	require.NoError(t, err)
	_, err = s.AddTransaction(expenseOn(models.NewDate(2024, 6, 2), 35, "food"))
	require.NoError(t, err)

	var food *models.CategoryInfo
	for _, info := range s.ListCategories("") {
		if info.Value == "food" {
			f := info
			food = &f
		}
		// 每个类别都推导出文字颜色
		assert.NotEmpty(t, info.TextColor, info.Value)
	}
	require.NotNil(t, food)
	assert.Equal(t, 2, food.ExpenseCount)

	// 类型筛选只返回兼容类别
	for _, info := range s.ListCategories(models.TypeIncome) {
		assert.NotEqual(t, models.CategoryTypeExpense, info.Type)
	}
}

func TestProfileAndSettings(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())

	// 默认值
	assert.Equal(t, "USD", s.Settings().Currency)
	assert.Equal(t, models.WeekStartMonday, s.Settings().WeekStart)

	name := "张三"
	profile, err := s.UpdateProfile(ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "张三", profile.Name)
	// 未修改的字段保持默认
	assert.Equal(t, "user@example.com", profile.Email)

	currency := "CNY"
	sunday := models.WeekStartSunday
	settings, err := s.UpdateSettings(SettingsPatch{Currency: &currency, WeekStart: &sunday})
	require.NoError(t, err)
	assert.Equal(t, "CNY", settings.Currency)
	assert.Equal(t, models.WeekStartSunday, settings.WeekStart)

	// 非法周首日拒绝且设置不变
	bad := "friday"
	_, err = s.UpdateSettings(SettingsPatch{WeekStart: &bad})
	assert.ErrorIs(t, err, ErrInvalidWeekStart)
	assert.Equal(t, models.WeekStartSunday, s.Settings().WeekStart)
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrUnknownCategory))
	assert.True(t, IsValidation(models.ErrInvalidAmount))
	assert.True(t, IsValidation(fmt.Errorf("包装: %w", models.ErrBreakdownMismatch)))
	assert.False(t, IsValidation(errors.New("disk full")))
	assert.False(t, IsValidation(nil))
}
