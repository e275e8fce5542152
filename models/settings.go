package models

// 周起始日常量
const (
	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"
)

// UserProfile 用户资料
type UserProfile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
}

// AppSettings 应用设置
type AppSettings struct {
	Currency      string `json:"currency"`
	Notifications bool   `json:"notifications"`
	WeekStart     string `json:"weekStart"`
}

// DefaultProfile 默认用户资料
func DefaultProfile() UserProfile {
	return UserProfile{
		Username: "user",
		Email:    "user@example.com",
		Name:     "User",
	}
}

// DefaultAppSettings 默认应用设置
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Currency:      "USD",
		Notifications: true,
		WeekStart:     WeekStartMonday,
	}
}
