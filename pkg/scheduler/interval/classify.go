package interval

import (
	"github.com/zhoupai/zhoupai/pkg/model"
)

// 夜班时段定义：开始时间在 [18:00, 24:00) 或 [00:00, 06:00)
const (
	nightStartHour = 18
	nightEndHour   = 6
)

// ClassifyShiftType 根据开始时间推断班次类型
//
// 申报的类型标签视为不可信数据：推断结果与申报不一致时以推断为准，
// overridden 返回 true，由调用方决定如何记录告警。
func ClassifyShiftType(declared model.ShiftType, startTime string) (tag model.ShiftType, overridden bool) {
	clock, err := model.ParseClock(startTime)
	if err != nil {
		// 时间格式错误在归一化阶段已被拦截，这里保守地沿用申报值
		if declared == "" {
			return model.ShiftDay, false
		}
		return declared, false
	}

	hour := clock / 60
	inferred := model.ShiftDay
	if hour >= nightStartHour || hour < nightEndHour {
		inferred = model.ShiftNight
	}

	return inferred, declared != "" && declared != inferred
}

// Compatible 检查需求与可用时段的班次类型是否兼容（均按推断后的标签比较）
func Compatible(requirement, availability model.ShiftType) bool {
	return requirement == availability
}
