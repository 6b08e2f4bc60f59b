package constraint

import (
	"testing"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
)

func TestTracker_Apply(t *testing.T) {
	tracker := NewTracker()
	empID := uuid.New()

	if tracker.Hours(empID) != 0 {
		t.Error("初始工时应为 0")
	}
	if tracker.AssignedToday(empID) {
		t.Error("初始不应标记当日已分配")
	}

	tracker.Apply(&model.ShiftAssignment{EmployeeID: empID, Day: "monday", Hours: 8})

	if tracker.Hours(empID) != 8 {
		t.Errorf("工时 = %v, 期望 8", tracker.Hours(empID))
	}
	if !tracker.AssignedToday(empID) {
		t.Error("分配后应标记当日已分配")
	}

	tracker.Apply(&model.ShiftAssignment{EmployeeID: empID, Day: "tuesday", Hours: 4.5})

	if tracker.Hours(empID) != 12.5 {
		t.Errorf("累计工时 = %v, 期望 12.5", tracker.Hours(empID))
	}

	s := tracker.StateFor(empID)
	if !s.AssignedDays["monday"] || !s.AssignedDays["tuesday"] {
		t.Errorf("分配日记录缺失: %v", s.AssignedDays)
	}
}

func TestTracker_ResetDay(t *testing.T) {
	tracker := NewTracker()
	emp1, emp2 := uuid.New(), uuid.New()

	tracker.Apply(&model.ShiftAssignment{EmployeeID: emp1, Day: "monday", Hours: 8})
	tracker.Apply(&model.ShiftAssignment{EmployeeID: emp2, Day: "monday", Hours: 6})

	tracker.ResetDay()

	if tracker.AssignedToday(emp1) || tracker.AssignedToday(emp2) {
		t.Error("ResetDay 后当日标记应全部清除")
	}
	// 累计工时跨日保留
	if tracker.Hours(emp1) != 8 || tracker.Hours(emp2) != 6 {
		t.Error("ResetDay 不应清除累计工时")
	}
}

func TestTracker_UnknownEmployee(t *testing.T) {
	tracker := NewTracker()
	unknown := uuid.New()

	if tracker.Hours(unknown) != 0 {
		t.Error("未知员工工时应为 0")
	}
	if tracker.AssignedToday(unknown) {
		t.Error("未知员工不应标记当日已分配")
	}

	// StateFor 首次访问初始化
	s := tracker.StateFor(unknown)
	if s == nil || s.EmployeeID != unknown {
		t.Error("StateFor 应初始化员工状态")
	}
	if len(tracker.States()) != 1 {
		t.Errorf("States() 数量 = %d, 期望 1", len(tracker.States()))
	}
}
