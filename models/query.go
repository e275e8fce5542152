package models

// FilterAll 筛选条件中"不限"的哨兵值
const FilterAll = "all"

// 排序字段常量
const (
	SortFieldDate     = "date"
	SortFieldAmount   = "amount"
	SortFieldCategory = "category"
)

// 排序方向常量
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// FilterCriteria 记录筛选条件，所有字段均可为空，
// 空字段表示该维度不做限制
type FilterCriteria struct {
	DateFrom Date   // 起始日期（含）
	DateTo   Date   // 结束日期（含）
	Category string // 类别精确匹配，空或 "all" 表示不限
	Type     string // income / expense，空或 "all" 表示不限
}

// SortCriteria 排序条件
type SortCriteria struct {
	Field     string // date / amount / category
	Direction string // asc / desc
}
