// Package matcher 提供可用性匹配：为需求时段发现候选员工
package matcher

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zhoupai/zhoupai/pkg/model"
	"github.com/zhoupai/zhoupai/pkg/scheduler/constraint"
	"github.com/zhoupai/zhoupai/pkg/scheduler/interval"
)

// Config 匹配参数
//
// 阈值沿用既有系统的取值：95% 覆盖率视为完全匹配，
// 30 分钟为有效重叠下限（过滤掉几分钟的碎片匹配）。
type Config struct {
	ExactMatchCoverage float64 // 完全匹配的覆盖率阈值（百分比）
	MinOverlapMinutes  int     // 有效重叠的最小分钟数
	CoverageTieDelta   float64 // 排序时视为平局的覆盖率差（百分点）
	HoursTieDelta      float64 // 排序时视为平局的工时差（小时）
}

// DefaultConfig 返回默认匹配参数
func DefaultConfig() *Config {
	return &Config{
		ExactMatchCoverage: 95.0,
		MinOverlapMinutes:  30,
		CoverageTieDelta:   5.0,
		HoursTieDelta:      1.0,
	}
}

// Candidate 候选匹配（单次时段匹配内的临时对象，不持久化）
type Candidate struct {
	EmployeeID     uuid.UUID         `json:"employee_id"`
	Day            string            `json:"day"`        // 需求所在星期
	Window         interval.Interval `json:"window"`     // 实际重叠窗口（已按需求窗口裁剪）
	StartTime      string            `json:"start_time"` // 重叠窗口的时钟起点
	EndTime        string            `json:"end_time"`
	OverlapMinutes int               `json:"overlap_minutes"`
	Coverage       float64           `json:"coverage"` // 覆盖需求时长的百分比
	CurrentHours   float64           `json:"current_hours"`
	Preference     int               `json:"preference"`
	ExactMatch     bool              `json:"exact_match"`
}

// TypeOverride 班次类型推断覆盖了申报值的记录，由调用方决定如何告警
type TypeOverride struct {
	EmployeeID uuid.UUID       `json:"employee_id"`
	Day        string          `json:"day"`
	StartTime  string          `json:"start_time"`
	Declared   model.ShiftType `json:"declared"`
	Inferred   model.ShiftType `json:"inferred"`
}

// Matcher 可用性匹配器
type Matcher struct {
	cfg *Config
}

// NewMatcher 创建匹配器
func NewMatcher(cfg *Config) *Matcher {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Matcher{cfg: cfg}
}

// Config 返回匹配参数
func (m *Matcher) Config() *Config {
	return m.cfg
}

// FindCandidates 为一个需求时段扫描全部周可用性，产出候选列表
//
// 跳过规则：当日已有分配的员工、当日不可用的员工、班次类型不兼容的时段、
// 重叠不足 MinOverlapMinutes 的时段。
// 候选记录的是裁剪到需求窗口内的实际重叠时间，而非完整可用窗口。
func (m *Matcher) FindCandidates(
	req *model.RequirementSlot,
	day string,
	availabilities []*model.WeeklyAvailability,
	tracker *constraint.Tracker,
) ([]Candidate, []TypeOverride, error) {
	reqIv, err := interval.NormalizeRequirement(req)
	if err != nil {
		return nil, nil, fmt.Errorf("需求时段归一化失败: %w", err)
	}

	reqType, reqOverridden := interval.ClassifyShiftType(req.ShiftType, req.StartTime)

	var candidates []Candidate
	var overrides []TypeOverride
	if reqOverridden {
		overrides = append(overrides, TypeOverride{
			Day:       day,
			StartTime: req.StartTime,
			Declared:  req.ShiftType,
			Inferred:  reqType,
		})
	}

	for _, avail := range availabilities {
		if tracker.AssignedToday(avail.EmployeeID) {
			continue
		}

		dayAvail := avail.DayFor(day)
		if dayAvail == nil || !dayAvail.Available {
			continue
		}

		best, override, found, err := m.matchDay(req, reqIv, reqType, dayAvail, avail.EmployeeID, day, tracker)
		if err != nil {
			return nil, nil, err
		}
		if override != nil {
			overrides = append(overrides, *override)
		}
		if found {
			candidates = append(candidates, best)
		}
	}

	return candidates, overrides, nil
}

// matchDay 在员工单日的全部时段中找出与需求重叠最多的一个
func (m *Matcher) matchDay(
	req *model.RequirementSlot,
	reqIv interval.Interval,
	reqType model.ShiftType,
	dayAvail *model.DayAvailability,
	empID uuid.UUID,
	day string,
	tracker *constraint.Tracker,
) (Candidate, *TypeOverride, bool, error) {
	var best Candidate
	var firstOverride *TypeOverride
	found := false

	for i := range dayAvail.Slots {
		slot := &dayAvail.Slots[i]

		slotType, overridden := interval.ClassifyShiftType(slot.ShiftType, slot.StartTime)
		if overridden && firstOverride == nil {
			firstOverride = &TypeOverride{
				EmployeeID: empID,
				Day:        day,
				StartTime:  slot.StartTime,
				Declared:   slot.ShiftType,
				Inferred:   slotType,
			}
		}
		if !interval.Compatible(reqType, slotType) {
			continue
		}

		slotIv, err := interval.NormalizeSlot(slot)
		if err != nil {
			return Candidate{}, firstOverride, false, fmt.Errorf("员工 %s %s 可用时段归一化失败: %w", empID, day, err)
		}

		window, ok := interval.Intersect(reqIv, slotIv)
		if !ok || window.Duration() < m.cfg.MinOverlapMinutes {
			continue
		}

		coverage := float64(window.Duration()) / float64(reqIv.Duration()) * 100

		cand := Candidate{
			EmployeeID:     empID,
			Day:            day,
			Window:         window,
			StartTime:      model.FormatClock(window.Start),
			EndTime:        model.FormatClock(window.End),
			OverlapMinutes: window.Duration(),
			Coverage:       coverage,
			CurrentHours:   tracker.Hours(empID),
			Preference:     slot.Preference,
			ExactMatch:     coverage >= m.cfg.ExactMatchCoverage,
		}

		if !found || cand.OverlapMinutes > best.OverlapMinutes {
			best = cand
			found = true
		}
	}

	return best, firstOverride, found, nil
}
