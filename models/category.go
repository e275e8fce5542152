package models

// 类别收支类型常量，both 表示收入和支出均可使用
const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
	CategoryTypeBoth    = "both"
)

// FallbackCategory 类别被删除后，引用它的记录统一归入的兜底类别
const FallbackCategory = "other-expense"

// Category 交易类别
type Category struct {
	Value string `json:"value"`           // 唯一键
	Label string `json:"label"`           // 显示名称
	Type  string `json:"type"`            // income / expense / both
	Color string `json:"color,omitempty"` // 颜色代码，如 #ef4444
}

// Allows 类别是否允许指定的收支类型
func (c Category) Allows(txType string) bool {
	return c.Type == CategoryTypeBoth || c.Type == txType
}

// ValidCategoryType 是否为合法的类别收支类型
func ValidCategoryType(t string) bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense || t == CategoryTypeBoth
}

// CategoryInfo 类别及其派生信息，ExpenseCount 为当前引用该类别的
// 记录数，每次读取时重新计算，不落盘
type CategoryInfo struct {
	Category
	ExpenseCount int    `json:"expenseCount"`
	TextColor    string `json:"textColor,omitempty"` // 根据背景色推导的文字颜色
}

// DefaultCategories 内置类别目录，首次启动时写入存储
func DefaultCategories() []Category {
	return []Category{
		// 收入类别
		{Value: "salary", Label: "Salary", Type: CategoryTypeIncome, Color: "#10b981"},
		{Value: "freelance", Label: "Freelance", Type: CategoryTypeIncome, Color: "#3b82f6"},
		{Value: "investments", Label: "Investments", Type: CategoryTypeIncome, Color: "#a855f7"},
		{Value: "rental", Label: "Rental Income", Type: CategoryTypeIncome, Color: "#f59e0b"},
		{Value: "other-income", Label: "Other Income", Type: CategoryTypeIncome, Color: "#64748b"},

		// 支出类别
		{Value: "housing", Label: "Housing", Type: CategoryTypeExpense, Color: "#14b8a6"},
		{Value: "transportation", Label: "Transportation", Type: CategoryTypeExpense, Color: "#3b82f6"},
		{Value: "food", Label: "Food & Dining", Type: CategoryTypeExpense, Color: "#ef4444"},
		{Value: "utilities", Label: "Utilities", Type: CategoryTypeExpense, Color: "#f59e0b"},
		{Value: "insurance", Label: "Insurance", Type: CategoryTypeExpense, Color: "#6366f1"},
		{Value: "healthcare", Label: "Healthcare", Type: CategoryTypeExpense, Color: "#10b981"},
		{Value: "entertainment", Label: "Entertainment", Type: CategoryTypeExpense, Color: "#ec4899"},
		{Value: "shopping", Label: "Shopping", Type: CategoryTypeExpense, Color: "#a855f7"},
		{Value: "education", Label: "Education", Type: CategoryTypeExpense, Color: "#f59e0b"},
		{Value: FallbackCategory, Label: "Other Expense", Type: CategoryTypeExpense, Color: "#64748b"},
	}
}
