package stats

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
)

func reqWithDays(days map[string][]model.RequirementSlot) *model.ShiftRequirement {
	return &model.ShiftRequirement{
		BaseModel:    model.NewBaseModel(),
		DepartmentID: uuid.New(),
		Days:         days,
	}
}

func availWithDays(days map[string]*model.DayAvailability) *model.WeeklyAvailability {
	return &model.WeeklyAvailability{
		BaseModel:  model.NewBaseModel(),
		EmployeeID: uuid.New(),
		WeekStart:  "2026-01-04",
		Days:       days,
	}
}

func TestGapAnalyzer_Analyze(t *testing.T) {
	g := NewGapAnalyzer()

	// 周一需求：8 小时 × 2 人 = 16 人时
	requirements := []*model.ShiftRequirement{
		reqWithDays(map[string][]model.RequirementSlot{
			"monday": {
				{StartTime: "09:00", EndTime: "17:00", StartDay: "monday", EndDay: "monday", MinEmployees: 2},
			},
		}),
	}

	// 两名员工各申报 8 小时 = 16 人时，恰好充足
	availabilities := []*model.WeeklyAvailability{
		availWithDays(map[string]*model.DayAvailability{
			"monday": {Available: true, Slots: []model.TimeSlot{
				{StartTime: "09:00", EndTime: "17:00", StartDay: "monday", EndDay: "monday"},
			}},
		}),
		availWithDays(map[string]*model.DayAvailability{
			"monday": {Available: true, Slots: []model.TimeSlot{
				{StartTime: "09:00", EndTime: "17:00", StartDay: "monday", EndDay: "monday"},
			}},
		}),
	}

	analysis, err := g.Analyze(requirements, availabilities)
	if err != nil {
		t.Fatalf("Analyze() 错误: %v", err)
	}

	if analysis.TotalRequiredHours != 16 {
		t.Errorf("总需求人时 = %v, 期望 16", analysis.TotalRequiredHours)
	}
	if analysis.TotalAvailableHours != 16 {
		t.Errorf("总可用人时 = %v, 期望 16", analysis.TotalAvailableHours)
	}
	if len(analysis.Days) != model.DaysPerWeek {
		t.Fatalf("天数 = %d, 期望 %d", len(analysis.Days), model.DaysPerWeek)
	}
	// 周日在前的固定顺序
	if analysis.Days[0].Day != "sunday" || analysis.Days[1].Day != "monday" {
		t.Errorf("天序错误: %s, %s", analysis.Days[0].Day, analysis.Days[1].Day)
	}

	monday := analysis.Days[1]
	if monday.Classification != CapacitySufficient {
		t.Errorf("周一分类 = %q, 期望 sufficient", monday.Classification)
	}
	if monday.ShortfallHours != 0 {
		t.Errorf("周一缺口 = %v, 期望 0", monday.ShortfallHours)
	}
	if len(analysis.Recommendations) != 0 {
		t.Errorf("充足时不应有建议: %v", analysis.Recommendations)
	}
}

func TestGapAnalyzer_Partial(t *testing.T) {
	g := NewGapAnalyzer()

	// 需求 24 人时（8小时 × 3人），可用仅 8 人时
	requirements := []*model.ShiftRequirement{
		reqWithDays(map[string][]model.RequirementSlot{
			"tuesday": {
				{StartTime: "09:00", EndTime: "17:00", StartDay: "tuesday", EndDay: "tuesday", MinEmployees: 3},
			},
		}),
	}
	availabilities := []*model.WeeklyAvailability{
		availWithDays(map[string]*model.DayAvailability{
			"tuesday": {Available: true, Slots: []model.TimeSlot{
				{StartTime: "09:00", EndTime: "17:00", StartDay: "tuesday", EndDay: "tuesday"},
			}},
		}),
	}

	analysis, err := g.Analyze(requirements, availabilities)
	if err != nil {
		t.Fatal(err)
	}

	tuesday := analysis.Days[2]
	if tuesday.Classification != CapacityPartial {
		t.Errorf("分类 = %q, 期望 partial", tuesday.Classification)
	}
	if tuesday.ShortfallHours != 16 {
		t.Errorf("缺口 = %v, 期望 16", tuesday.ShortfallHours)
	}

	// 缺口 16 小时 / 假定单班 8 小时 = 建议增加 2 人
	if len(analysis.Recommendations) != 1 {
		t.Fatalf("建议数 = %d, 期望 1", len(analysis.Recommendations))
	}
	if !strings.Contains(analysis.Recommendations[0], "2 名员工") {
		t.Errorf("建议内容 = %q", analysis.Recommendations[0])
	}
}

func TestGapAnalyzer_None(t *testing.T) {
	g := NewGapAnalyzer()

	requirements := []*model.ShiftRequirement{
		reqWithDays(map[string][]model.RequirementSlot{
			"saturday": {
				{StartTime: "09:00", EndTime: "13:00", StartDay: "saturday", EndDay: "saturday", MinEmployees: 1},
			},
		}),
	}

	analysis, err := g.Analyze(requirements, nil)
	if err != nil {
		t.Fatal(err)
	}

	saturday := analysis.Days[6]
	if saturday.Classification != CapacityNone {
		t.Errorf("分类 = %q, 期望 none", saturday.Classification)
	}
	if saturday.ShortfallHours != 4 {
		t.Errorf("缺口 = %v, 期望 4", saturday.ShortfallHours)
	}
}

func TestGapAnalyzer_SkipsUnavailableDays(t *testing.T) {
	g := NewGapAnalyzer()

	availabilities := []*model.WeeklyAvailability{
		availWithDays(map[string]*model.DayAvailability{
			"monday": {Available: false, Slots: []model.TimeSlot{
				{StartTime: "09:00", EndTime: "17:00", StartDay: "monday", EndDay: "monday"},
			}},
		}),
	}

	analysis, err := g.Analyze(nil, availabilities)
	if err != nil {
		t.Fatal(err)
	}
	if analysis.TotalAvailableHours != 0 {
		t.Errorf("不可用日的时段不应计入: %v", analysis.TotalAvailableHours)
	}
}

func TestGapAnalyzer_NoRequirementIsSufficient(t *testing.T) {
	g := NewGapAnalyzer()

	analysis, err := g.Analyze(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, dc := range analysis.Days {
		if dc.Classification != CapacitySufficient {
			t.Errorf("%s 无需求应分类为 sufficient, 得到 %q", dc.Day, dc.Classification)
		}
	}
}

func TestGapAnalyzer_BadInput(t *testing.T) {
	g := NewGapAnalyzer()

	requirements := []*model.ShiftRequirement{
		reqWithDays(map[string][]model.RequirementSlot{
			"monday": {
				{StartTime: "bad", EndTime: "17:00", StartDay: "monday", EndDay: "monday", MinEmployees: 1},
			},
		}),
	}

	if _, err := g.Analyze(requirements, nil); err == nil {
		t.Error("归一化失败应返回错误")
	}
}
