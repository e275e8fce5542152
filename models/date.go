package models

import (
	"strings"
	"time"
)

// DateLayout 记账日期格式
const DateLayout = "2006-01-02"

// Date 记账日期，只保留年月日，不携带时分秒
type Date struct {
	time.Time
}

// NewDate 根据年月日创建日期
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

// ParseDate 解析 2006-01-02 格式的日期字符串
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String 返回 2006-01-02 格式的字符串，零值返回空串
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before 是否早于 other（按日比较）
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After 是否晚于 other（按日比较）
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// MarshalJSON 序列化为 "2006-01-02"，零值序列化为空串
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON 反序列化日期。兼容 2006-01-02 和 RFC3339 两种格式；
// 无法解析的值不报错，置为零值，由查询层按"排除该记录"处理
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		d.Time = t
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
		return nil
	}
	d.Time = time.Time{}
	return nil
}
