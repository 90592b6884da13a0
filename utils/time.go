package utils

import (
	"time"
)

// DateLayout 日期统一按日历日编码
const DateLayout = "2006-01-02"

// ParseDate 解析日期字符串（格式：2006-01-02）
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// FormatDate 格式化为日期字符串
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today 返回今天的日期字符串
func Today() string {
	return time.Now().Format(DateLayout)
}

// SameCalendarDay 判断两个时间是否落在同一个日历日
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsBirthdayToday 判断生日的月/日是否与今天相同，忽略年份
func IsBirthdayToday(dob time.Time, now time.Time) bool {
	return dob.Month() == now.Month() && dob.Day() == now.Day()
}
