// Package interval 提供周时间轴上的时间区间归一化
//
// 所有跨日/跨周的星期运算集中在这里，其他组件一律依赖本包，
// 避免同样的换算逻辑散落多处产生偏差。
package interval

import (
	"fmt"

	"github.com/zhoupai/zhoupai/pkg/model"
)

// Interval 周时间轴上的绝对分钟区间，周日 00:00 为 0
// 保证 End > Start
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Duration 返回区间时长（分钟）
func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

// Hours 返回区间时长（小时）
func (iv Interval) Hours() float64 {
	return float64(iv.Duration()) / 60.0
}

// Normalize 将 (开始时间, 开始星期, 结束时间, 结束星期) 归一化为周时间轴区间
//
// 规则：分钟数 = 星期索引*1440 + 当日分钟数；
// 同一天内结束不晚于开始视为跨夜（+1440）；
// 跨天后结束仍不晚于开始视为跨周回绕（+10080）。
func Normalize(startTime, startDay, endTime, endDay string) (Interval, error) {
	startClock, err := model.ParseClock(startTime)
	if err != nil {
		return Interval{}, err
	}
	endClock, err := model.ParseClock(endTime)
	if err != nil {
		return Interval{}, err
	}
	_, startIdx, err := model.ParseDayName(startDay)
	if err != nil {
		return Interval{}, err
	}
	_, endIdx, err := model.ParseDayName(endDay)
	if err != nil {
		return Interval{}, err
	}

	start := startIdx*model.MinutesPerDay + startClock
	end := endIdx*model.MinutesPerDay + endClock

	if end <= start {
		if startIdx == endIdx {
			// 同日跨夜：22:00-06:00 之类，顺延到次日
			end += model.MinutesPerDay
		} else {
			// 跨周回绕：周六晚到周日早之类
			end += model.MinutesPerWeek
		}
	}

	if end <= start {
		return Interval{}, fmt.Errorf("区间 %s %s - %s %s 归一化后时长为零", startDay, startTime, endDay, endTime)
	}

	return Interval{Start: start, End: end}, nil
}

// NormalizeSlot 归一化可用时段
func NormalizeSlot(s *model.TimeSlot) (Interval, error) {
	return Normalize(s.StartTime, s.StartDay, s.EndTime, s.EndDay)
}

// NormalizeRequirement 归一化需求时段
func NormalizeRequirement(s *model.RequirementSlot) (Interval, error) {
	return Normalize(s.StartTime, s.StartDay, s.EndTime, s.EndDay)
}

// Overlap 计算两个区间的重叠分钟数，不重叠返回 0
func Overlap(a, b Interval) int {
	start := a.Start
	if b.Start > start {
		start = b.Start
	}
	end := a.End
	if b.End < end {
		end = b.End
	}
	if end <= start {
		return 0
	}
	return end - start
}

// Intersect 返回两个区间的交集，不相交返回 ok=false
func Intersect(a, b Interval) (Interval, bool) {
	start := a.Start
	if b.Start > start {
		start = b.Start
	}
	end := a.End
	if b.End < end {
		end = b.End
	}
	if end <= start {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// Overlaps 检查两个区间是否重叠（首尾相接不算）
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}
