// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// WeeklyAvailability 员工每周可用时间申报
// 约束：同一 (员工, 周起始日期) 只能有一条记录
type WeeklyAvailability struct {
	BaseModel
	EmployeeID uuid.UUID                   `json:"employee_id" db:"employee_id"`
	CompanyID  uuid.UUID                   `json:"company_id" db:"company_id"`
	WeekStart  string                      `json:"week_start" db:"week_start"` // YYYY-MM-DD，必须为周日
	Days       map[string]*DayAvailability `json:"days" db:"days"`             // key: 星期名称（小写）
}

// DayAvailability 单日可用时间
type DayAvailability struct {
	Available bool       `json:"available"`
	Slots     []TimeSlot `json:"slots,omitempty"`
	Note      string     `json:"note,omitempty"`
}

// TimeSlot 可用时段
type TimeSlot struct {
	StartTime  string    `json:"start_time"` // HH:MM
	EndTime    string    `json:"end_time"`   // HH:MM
	StartDay   string    `json:"start_day"`  // 星期名称，允许跨日
	EndDay     string    `json:"end_day"`
	ShiftType  ShiftType `json:"shift_type"`           // day/night，可缺省由引擎推断
	Preference int       `json:"preference,omitempty"` // 偏好权重，越大越偏好
}

// Validate 检查时段的基本形状：时间格式、30分钟网格、星期名称、同日同时刻的零时长区间
// 跨日时长和重叠等需要时间轴归一化的检查由 validator 包完成
func (s *TimeSlot) Validate() error {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return err
	}
	if !OnGrid(start) || !OnGrid(end) {
		return fmt.Errorf("时段 %s-%s 未对齐 %d 分钟网格", s.StartTime, s.EndTime, SlotGridMinutes)
	}
	startDay, _, err := ParseDayName(s.StartDay)
	if err != nil {
		return err
	}
	endDay, _, err := ParseDayName(s.EndDay)
	if err != nil {
		return err
	}
	if startDay == endDay && start == end {
		return fmt.Errorf("时段 %s %s-%s 时长为零", s.StartDay, s.StartTime, s.EndTime)
	}
	return nil
}

// Validate 检查周可用性记录的基本形状
func (a *WeeklyAvailability) Validate() error {
	if a.EmployeeID == uuid.Nil {
		return fmt.Errorf("员工ID不能为空")
	}
	if err := ValidateWeekStart(a.WeekStart); err != nil {
		return err
	}
	for day, da := range a.Days {
		if _, _, err := ParseDayName(day); err != nil {
			return err
		}
		if da == nil {
			continue
		}
		if da.Available && len(da.Slots) == 0 {
			return fmt.Errorf("%s 标记为可用但没有时段", day)
		}
		for i := range da.Slots {
			if err := da.Slots[i].Validate(); err != nil {
				return fmt.Errorf("%s 第 %d 个时段无效: %w", day, i+1, err)
			}
		}
	}
	return nil
}

// DayFor 返回指定星期的可用性，未申报视为不可用
func (a *WeeklyAvailability) DayFor(day string) *DayAvailability {
	normalized, _, err := ParseDayName(day)
	if err != nil {
		return nil
	}
	return a.Days[normalized]
}
