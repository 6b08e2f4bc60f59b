package matcher

import (
	"testing"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
	"github.com/zhoupai/zhoupai/pkg/scheduler/constraint"
)

// weekAvail 构造单员工单日可用性
func weekAvail(empID uuid.UUID, day string, slots ...model.TimeSlot) *model.WeeklyAvailability {
	return &model.WeeklyAvailability{
		BaseModel:  model.NewBaseModel(),
		EmployeeID: empID,
		WeekStart:  "2026-01-04",
		Days: map[string]*model.DayAvailability{
			day: {Available: true, Slots: slots},
		},
	}
}

func daySlotOn(day, start, end string) model.TimeSlot {
	return model.TimeSlot{StartTime: start, EndTime: end, StartDay: day, EndDay: day}
}

func TestMatcher_FindCandidates_FullCoverage(t *testing.T) {
	m := NewMatcher(nil)
	empID := uuid.New()

	req := &model.RequirementSlot{
		StartTime: "09:00", EndTime: "17:00",
		StartDay: "monday", EndDay: "monday",
		MinEmployees: 1,
	}
	avails := []*model.WeeklyAvailability{
		weekAvail(empID, "monday", daySlotOn("monday", "09:00", "17:00")),
	}

	candidates, overrides, err := m.FindCandidates(req, "monday", avails, constraint.NewTracker())
	if err != nil {
		t.Fatalf("FindCandidates() 错误: %v", err)
	}
	if len(overrides) != 0 {
		t.Errorf("不应有类型覆盖: %v", overrides)
	}
	if len(candidates) != 1 {
		t.Fatalf("候选数 = %d, 期望 1", len(candidates))
	}

	c := candidates[0]
	if c.EmployeeID != empID {
		t.Error("候选员工ID不匹配")
	}
	if c.OverlapMinutes != 480 {
		t.Errorf("重叠分钟 = %d, 期望 480", c.OverlapMinutes)
	}
	if c.Coverage != 100 {
		t.Errorf("覆盖率 = %v, 期望 100", c.Coverage)
	}
	if !c.ExactMatch {
		t.Error("100%% 覆盖应标记完全匹配")
	}
	if c.StartTime != "09:00" || c.EndTime != "17:00" {
		t.Errorf("重叠窗口 = %s-%s", c.StartTime, c.EndTime)
	}
}

func TestMatcher_FindCandidates_OvernightClipping(t *testing.T) {
	m := NewMatcher(nil)
	empID := uuid.New()

	// 需求：周一 22:00 跨夜到 02:00（夜班，240 分钟）
	req := &model.RequirementSlot{
		StartTime: "22:00", EndTime: "02:00",
		StartDay: "monday", EndDay: "monday",
		MinEmployees: 1,
	}
	// 可用：周一 20:00-23:00（夜班），与需求只重叠 22:00-23:00
	avails := []*model.WeeklyAvailability{
		weekAvail(empID, "monday", daySlotOn("monday", "20:00", "23:00")),
	}

	candidates, _, err := m.FindCandidates(req, "monday", avails, constraint.NewTracker())
	if err != nil {
		t.Fatalf("FindCandidates() 错误: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("候选数 = %d, 期望 1", len(candidates))
	}

	c := candidates[0]
	if c.OverlapMinutes != 60 {
		t.Errorf("重叠分钟 = %d, 期望 60", c.OverlapMinutes)
	}
	if c.Coverage != 25 {
		t.Errorf("覆盖率 = %v, 期望 25", c.Coverage)
	}
	if c.ExactMatch {
		t.Error("25%% 覆盖不应标记完全匹配")
	}
	if c.StartTime != "22:00" || c.EndTime != "23:00" {
		t.Errorf("重叠窗口应裁剪到需求内: %s-%s", c.StartTime, c.EndTime)
	}
}

func TestMatcher_FindCandidates_SkipRules(t *testing.T) {
	m := NewMatcher(nil)

	req := &model.RequirementSlot{
		StartTime: "09:00", EndTime: "17:00",
		StartDay: "monday", EndDay: "monday",
		MinEmployees: 1,
	}

	t.Run("当日已分配员工跳过", func(t *testing.T) {
		empID := uuid.New()
		tracker := constraint.NewTracker()
		tracker.Apply(&model.ShiftAssignment{EmployeeID: empID, Day: "monday", Hours: 8})

		avails := []*model.WeeklyAvailability{
			weekAvail(empID, "monday", daySlotOn("monday", "09:00", "17:00")),
		}
		candidates, _, err := m.FindCandidates(req, "monday", avails, tracker)
		if err != nil {
			t.Fatal(err)
		}
		if len(candidates) != 0 {
			t.Errorf("候选数 = %d, 期望 0", len(candidates))
		}
	})

	t.Run("当日不可用跳过", func(t *testing.T) {
		avail := &model.WeeklyAvailability{
			BaseModel:  model.NewBaseModel(),
			EmployeeID: uuid.New(),
			WeekStart:  "2026-01-04",
			Days: map[string]*model.DayAvailability{
				"monday": {Available: false},
			},
		}
		candidates, _, err := m.FindCandidates(req, "monday", []*model.WeeklyAvailability{avail}, constraint.NewTracker())
		if err != nil {
			t.Fatal(err)
		}
		if len(candidates) != 0 {
			t.Errorf("候选数 = %d, 期望 0", len(candidates))
		}
	})

	t.Run("班次类型不兼容跳过", func(t *testing.T) {
		// 白班需求 vs 夜班可用（22:00 开始）
		avails := []*model.WeeklyAvailability{
			weekAvail(uuid.New(), "monday", daySlotOn("monday", "22:00", "06:00")),
		}
		candidates, _, err := m.FindCandidates(req, "monday", avails, constraint.NewTracker())
		if err != nil {
			t.Fatal(err)
		}
		if len(candidates) != 0 {
			t.Errorf("候选数 = %d, 期望 0", len(candidates))
		}
	})

	t.Run("未申报当日视为不可用", func(t *testing.T) {
		avails := []*model.WeeklyAvailability{
			weekAvail(uuid.New(), "tuesday", daySlotOn("tuesday", "09:00", "17:00")),
		}
		candidates, _, err := m.FindCandidates(req, "monday", avails, constraint.NewTracker())
		if err != nil {
			t.Fatal(err)
		}
		if len(candidates) != 0 {
			t.Errorf("候选数 = %d, 期望 0", len(candidates))
		}
	})
}

func TestMatcher_FindCandidates_TypeOverride(t *testing.T) {
	m := NewMatcher(nil)
	empID := uuid.New()

	req := &model.RequirementSlot{
		StartTime: "09:00", EndTime: "17:00",
		StartDay: "monday", EndDay: "monday",
		MinEmployees: 1,
	}
	// 申报夜班但 09:00 开始，推断覆盖为白班，仍与白班需求匹配
	slot := daySlotOn("monday", "09:00", "17:00")
	slot.ShiftType = model.ShiftNight
	avails := []*model.WeeklyAvailability{weekAvail(empID, "monday", slot)}

	candidates, overrides, err := m.FindCandidates(req, "monday", avails, constraint.NewTracker())
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Fatalf("候选数 = %d, 期望 1", len(candidates))
	}
	if len(overrides) != 1 {
		t.Fatalf("覆盖记录数 = %d, 期望 1", len(overrides))
	}
	ov := overrides[0]
	if ov.EmployeeID != empID || ov.Declared != model.ShiftNight || ov.Inferred != model.ShiftDay {
		t.Errorf("覆盖记录 = %+v", ov)
	}
}

func TestMatcher_FindCandidates_BestSlotPerDay(t *testing.T) {
	m := NewMatcher(nil)
	empID := uuid.New()

	req := &model.RequirementSlot{
		StartTime: "09:00", EndTime: "17:00",
		StartDay: "monday", EndDay: "monday",
		MinEmployees: 1,
	}
	// 同一员工当日两个时段，应只产出重叠更多的一个候选
	avails := []*model.WeeklyAvailability{
		weekAvail(empID, "monday",
			daySlotOn("monday", "09:00", "11:00"),
			daySlotOn("monday", "12:00", "17:00"),
		),
	}

	candidates, _, err := m.FindCandidates(req, "monday", avails, constraint.NewTracker())
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Fatalf("候选数 = %d, 期望 1", len(candidates))
	}
	if candidates[0].OverlapMinutes != 300 {
		t.Errorf("应选重叠最多的时段: %d 分钟", candidates[0].OverlapMinutes)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ExactMatchCoverage != 95.0 {
		t.Errorf("ExactMatchCoverage = %v", cfg.ExactMatchCoverage)
	}
	if cfg.MinOverlapMinutes != 30 {
		t.Errorf("MinOverlapMinutes = %d", cfg.MinOverlapMinutes)
	}
}
