// Package constraint 提供单次排班运行内的员工约束状态跟踪
package constraint

import (
	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
)

// State 单个员工在本次运行内的累计状态
type State struct {
	EmployeeID    uuid.UUID       `json:"employee_id"`
	Hours         float64         `json:"hours"`          // 本周已分配工时
	AssignedDays  map[string]bool `json:"assigned_days"`  // 已有分配的星期
	AssignedToday bool            `json:"assigned_today"` // 当前迭代日内是否已分配，每日重置
}

// Tracker 约束跟踪器：一次排班运行的全部临时状态
//
// 由编排器独占持有，运行结束后整体丢弃，不跨运行保留记忆。
// 公平性排序和一日一班策略都依赖这里的累计值，
// 因此所有状态变更集中在 Apply/ResetDay 两处。
type Tracker struct {
	states map[uuid.UUID]*State
}

// NewTracker 创建约束跟踪器
func NewTracker() *Tracker {
	return &Tracker{states: make(map[uuid.UUID]*State)}
}

// StateFor 返回员工状态，首次访问时初始化
func (t *Tracker) StateFor(empID uuid.UUID) *State {
	s, ok := t.states[empID]
	if !ok {
		s = &State{
			EmployeeID:   empID,
			AssignedDays: make(map[string]bool),
		}
		t.states[empID] = s
	}
	return s
}

// Hours 返回员工本周已分配工时
func (t *Tracker) Hours(empID uuid.UUID) float64 {
	if s, ok := t.states[empID]; ok {
		return s.Hours
	}
	return 0
}

// AssignedToday 检查员工在当前迭代日内是否已有分配
func (t *Tracker) AssignedToday(empID uuid.UUID) bool {
	if s, ok := t.states[empID]; ok {
		return s.AssignedToday
	}
	return false
}

// Apply 记录一次分配：累计工时、标记当日已分配、记录分配日
func (t *Tracker) Apply(a *model.ShiftAssignment) {
	s := t.StateFor(a.EmployeeID)
	s.Hours += a.Hours
	s.AssignedToday = true
	s.AssignedDays[a.Day] = true
}

// ResetDay 进入新的迭代日，重置所有员工的当日标记
func (t *Tracker) ResetDay() {
	for _, s := range t.states {
		s.AssignedToday = false
	}
}

// States 返回所有员工状态（只读用途）
func (t *Tracker) States() map[uuid.UUID]*State {
	return t.states
}
