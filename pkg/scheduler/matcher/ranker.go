package matcher

import (
	"math"
	"sort"
	"strings"
)

// RankCandidates 按多级比较器对候选排序（稳定排序，幂等）
//
// 优先级：完全匹配 > 覆盖率（差距 ≤ CoverageTieDelta 视为平局）
// > 累计工时升序（公平性，差距 ≤ HoursTieDelta 视为平局）> 偏好权重
// > 员工ID（保证全序，消除任何插入顺序依赖）。
//
// 分层"大差距才生效"的设计是有意为之：避免 96% 和 99% 这种覆盖率噪声
// 压过公平性排序。
func (m *Matcher) RankCandidates(candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return m.less(&ranked[i], &ranked[j])
	})

	return ranked
}

// less 候选比较器
func (m *Matcher) less(a, b *Candidate) bool {
	if a.ExactMatch != b.ExactMatch {
		return a.ExactMatch
	}
	if math.Abs(a.Coverage-b.Coverage) > m.cfg.CoverageTieDelta {
		return a.Coverage > b.Coverage
	}
	if math.Abs(a.CurrentHours-b.CurrentHours) > m.cfg.HoursTieDelta {
		return a.CurrentHours < b.CurrentHours
	}
	if a.Preference != b.Preference {
		return a.Preference > b.Preference
	}
	return strings.Compare(a.EmployeeID.String(), b.EmployeeID.String()) < 0
}
