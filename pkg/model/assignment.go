// Package model 定义排班引擎的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// ShiftAssignment 排班分配（引擎输出）
// 引擎在一次运行内创建后不再修改；后续的人工调整属于外部 CRUD 范畴
type ShiftAssignment struct {
	BaseModel
	EmployeeID   uuid.UUID `json:"employee_id" db:"employee_id"`
	DepartmentID uuid.UUID `json:"department_id" db:"department_id"`
	WeekStart    string    `json:"week_start" db:"week_start"` // YYYY-MM-DD
	Day          string    `json:"day" db:"day"`               // 星期名称（小写）
	StartTime    string    `json:"start_time" db:"start_time"` // HH:MM，实际重叠窗口的起点
	EndTime      string    `json:"end_time" db:"end_time"`     // HH:MM
	StartMinutes int       `json:"start_minutes" db:"start_minutes"` // 周时间轴上的绝对分钟
	EndMinutes   int       `json:"end_minutes" db:"end_minutes"`
	Hours        float64   `json:"hours" db:"hours"`
	Status       string    `json:"status" db:"status"` // scheduled/confirmed/cancelled
}

// DurationMinutes 返回分配时长（分钟）
func (a *ShiftAssignment) DurationMinutes() int {
	return a.EndMinutes - a.StartMinutes
}

// WorkingHours 返回分配时长（小时）
func (a *ShiftAssignment) WorkingHours() float64 {
	return a.Hours
}

// Overlaps 检查两个分配在周时间轴上是否重叠（首尾相接不算重叠）
func (a *ShiftAssignment) Overlaps(other *ShiftAssignment) bool {
	return a.StartMinutes < other.EndMinutes && other.StartMinutes < a.EndMinutes
}

// UnfulfilledRequirement 未满足的需求时段记录
// 候选人不足时由编排器生成，随报告一并返回，不视为运行失败
type UnfulfilledRequirement struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Required  int    `json:"required"`
	Assigned  int    `json:"assigned"`
	Shortfall int    `json:"shortfall"`
}
