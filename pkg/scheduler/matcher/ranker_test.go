package matcher

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestRankCandidates_ExactMatchFirst(t *testing.T) {
	m := NewMatcher(nil)

	partial := Candidate{EmployeeID: uuid.New(), Coverage: 80, OverlapMinutes: 384}
	exact := Candidate{EmployeeID: uuid.New(), Coverage: 100, OverlapMinutes: 480, ExactMatch: true}

	ranked := m.RankCandidates([]Candidate{partial, exact})

	if !ranked[0].ExactMatch {
		t.Error("完全匹配应排在最前")
	}
	if ranked[1].EmployeeID != partial.EmployeeID {
		t.Error("部分匹配应排在完全匹配之后")
	}
}

func TestRankCandidates_CoverageBeyondDelta(t *testing.T) {
	m := NewMatcher(nil)

	low := Candidate{EmployeeID: uuid.New(), Coverage: 50}
	high := Candidate{EmployeeID: uuid.New(), Coverage: 80}

	ranked := m.RankCandidates([]Candidate{low, high})

	if ranked[0].Coverage != 80 {
		t.Errorf("覆盖率差距超过平局区间时高者在前: %v", ranked[0].Coverage)
	}
}

func TestRankCandidates_FairnessOnCoverageTie(t *testing.T) {
	m := NewMatcher(nil)

	// 覆盖率差 3 个百分点在平局区间内，累计工时少者在前
	busy := Candidate{EmployeeID: uuid.New(), Coverage: 90, CurrentHours: 24}
	idle := Candidate{EmployeeID: uuid.New(), Coverage: 87, CurrentHours: 8}

	ranked := m.RankCandidates([]Candidate{busy, idle})

	if ranked[0].CurrentHours != 8 {
		t.Errorf("覆盖率平局时工时少者优先: 首位工时 = %v", ranked[0].CurrentHours)
	}
}

func TestRankCandidates_PreferenceOnFullTie(t *testing.T) {
	m := NewMatcher(nil)

	// 覆盖率与工时都在平局区间内，偏好权重高者在前
	plain := Candidate{EmployeeID: uuid.New(), Coverage: 90, CurrentHours: 8, Preference: 0}
	eager := Candidate{EmployeeID: uuid.New(), Coverage: 89, CurrentHours: 8.5, Preference: 5}

	ranked := m.RankCandidates([]Candidate{plain, eager})

	if ranked[0].Preference != 5 {
		t.Errorf("全平局时偏好高者优先: 首位偏好 = %d", ranked[0].Preference)
	}
}

func TestRankCandidates_DeterministicTotalOrder(t *testing.T) {
	m := NewMatcher(nil)

	// 所有比较维度完全相同，只剩员工ID决胜
	idA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	idB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	a := Candidate{EmployeeID: idA, Coverage: 90, CurrentHours: 8}
	b := Candidate{EmployeeID: idB, Coverage: 90, CurrentHours: 8}

	ranked1 := m.RankCandidates([]Candidate{b, a})
	ranked2 := m.RankCandidates([]Candidate{a, b})

	if ranked1[0].EmployeeID != idA {
		t.Error("员工ID字典序小者在前")
	}
	if !reflect.DeepEqual(ranked1, ranked2) {
		t.Error("不同插入顺序应产出相同排序结果")
	}
}

func TestRankCandidates_Idempotent(t *testing.T) {
	m := NewMatcher(nil)

	candidates := []Candidate{
		{EmployeeID: uuid.New(), Coverage: 100, ExactMatch: true, CurrentHours: 16},
		{EmployeeID: uuid.New(), Coverage: 70, CurrentHours: 4},
		{EmployeeID: uuid.New(), Coverage: 85, CurrentHours: 12, Preference: 3},
		{EmployeeID: uuid.New(), Coverage: 85, CurrentHours: 12},
	}

	once := m.RankCandidates(candidates)
	twice := m.RankCandidates(once)

	if !reflect.DeepEqual(once, twice) {
		t.Error("重复排序应产出相同结果")
	}
}

func TestRankCandidates_DoesNotMutateInput(t *testing.T) {
	m := NewMatcher(nil)

	original := []Candidate{
		{EmployeeID: uuid.New(), Coverage: 50},
		{EmployeeID: uuid.New(), Coverage: 100, ExactMatch: true},
	}
	snapshot := make([]Candidate, len(original))
	copy(snapshot, original)

	m.RankCandidates(original)

	if !reflect.DeepEqual(original, snapshot) {
		t.Error("RankCandidates 不应修改输入切片")
	}
}
