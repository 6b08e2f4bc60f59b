// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 周时间轴常量：一周固定 7 天，周日为第 0 天
const (
	MinutesPerDay  = 1440
	DaysPerWeek    = 7
	MinutesPerWeek = DaysPerWeek * MinutesPerDay

	// SlotGridMinutes 时段粒度：所有时间必须落在 30 分钟网格上
	SlotGridMinutes = 30
)

// weekDays 固定的星期顺序（周日开始）
var weekDays = []string{
	"sunday", "monday", "tuesday", "wednesday",
	"thursday", "friday", "saturday",
}

var dayIndexes = map[string]int{
	"sunday": 0, "monday": 1, "tuesday": 2, "wednesday": 3,
	"thursday": 4, "friday": 5, "saturday": 6,
}

// WeekDays 返回一周的星期名称，周日在前
func WeekDays() []string {
	days := make([]string, len(weekDays))
	copy(days, weekDays)
	return days
}

// ParseDayName 解析星期名称（大小写不敏感），返回规范化名称和索引
func ParseDayName(name string) (string, int, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	idx, ok := dayIndexes[normalized]
	if !ok {
		return "", 0, fmt.Errorf("无效的星期名称: %q", name)
	}
	return normalized, idx, nil
}

// DayIndex 返回星期名称对应的索引（周日=0），无效名称返回 -1
func DayIndex(name string) int {
	_, idx, err := ParseDayName(name)
	if err != nil {
		return -1
	}
	return idx
}

// ParseClock 解析 HH:MM 格式的时间，返回自午夜起的分钟数
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("无效的时间格式: %q，应为 HH:MM", s)
	}
	// Sscanf 会放过尾部垃圾，这里逐段严格转换
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("无效的时间格式: %q，应为 HH:MM", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("无效的时间格式: %q，应为 HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("时间超出范围: %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClock 将自午夜起的分钟数格式化为 HH:MM
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// OnGrid 检查分钟数是否落在 30 分钟网格上
func OnGrid(minutes int) bool {
	return minutes%SlotGridMinutes == 0
}

// ValidateWeekStart 验证周起始日期：必须是 YYYY-MM-DD 格式且为周日
func ValidateWeekStart(date string) error {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("无效的周起始日期: %q，应为 YYYY-MM-DD", date)
	}
	if t.Weekday() != time.Sunday {
		return fmt.Errorf("周起始日期 %s 不是周日", date)
	}
	return nil
}
