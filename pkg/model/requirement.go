// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ShiftRequirement 部门每周的班次人力需求
type ShiftRequirement struct {
	BaseModel
	CompanyID    uuid.UUID                    `json:"company_id" db:"company_id"`
	DepartmentID uuid.UUID                    `json:"department_id" db:"department_id"`
	Days         map[string][]RequirementSlot `json:"days" db:"days"` // key: 星期名称（小写）
}

// RequirementSlot 需求时段：与 TimeSlot 同样的时间形状，附加最低人数
type RequirementSlot struct {
	StartTime    string    `json:"start_time"` // HH:MM
	EndTime      string    `json:"end_time"`   // HH:MM
	StartDay     string    `json:"start_day"`
	EndDay       string    `json:"end_day"`
	ShiftType    ShiftType `json:"shift_type"`
	MinEmployees int       `json:"min_employees"`
}

// Validate 检查需求时段的基本形状
func (s *RequirementSlot) Validate() error {
	slot := TimeSlot{
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		StartDay:  s.StartDay,
		EndDay:    s.EndDay,
	}
	if err := slot.Validate(); err != nil {
		return err
	}
	if s.MinEmployees < 1 {
		return fmt.Errorf("时段 %s %s-%s 最低人数必须 >= 1", s.StartDay, s.StartTime, s.EndTime)
	}
	return nil
}

// Validate 检查需求记录的基本形状（时段间的重叠检查由 validator 包完成）
func (r *ShiftRequirement) Validate() error {
	if r.DepartmentID == uuid.Nil {
		return fmt.Errorf("部门ID不能为空")
	}
	for day, slots := range r.Days {
		if _, _, err := ParseDayName(day); err != nil {
			return err
		}
		for i := range slots {
			if err := slots[i].Validate(); err != nil {
				return fmt.Errorf("%s 第 %d 个需求时段无效: %w", day, i+1, err)
			}
		}
	}
	return nil
}

// SlotsFor 返回指定星期的需求时段
func (r *ShiftRequirement) SlotsFor(day string) []RequirementSlot {
	normalized, _, err := ParseDayName(day)
	if err != nil {
		return nil
	}
	return r.Days[normalized]
}
