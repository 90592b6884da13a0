package loyalty

import (
	"strconv"
	"strings"

	bizErrors "steamsbury/pkg/errors"
)

// Tier 会员等级
type Tier struct {
	ID        string
	MinPoints int64 // 解锁该等级所需的 lifetime 积分门槛
}

// TierTable 等级表，按门槛升序排列，首档门槛必须为 0
type TierTable []Tier

// Status 某个积分值对应的等级状态
type Status struct {
	Current          Tier
	Next             *Tier // 已是最高档时为 nil
	ProgressFraction float64
	PointsToNext     int64
}

// ParseTierTable 从 "名称:门槛" 形式的条目解析等级表
func ParseTierTable(entries []string) (TierTable, error) {
	if len(entries) == 0 {
		return nil, bizErrors.TierTableInvalid
	}

	table := make(TierTable, 0, len(entries))
	for _, entry := range entries {
		name, minStr, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || name == "" {
			return nil, bizErrors.TierTableInvalid
		}
		min, err := strconv.ParseInt(strings.TrimSpace(minStr), 10, 64)
		if err != nil {
			return nil, bizErrors.TierTableInvalid
		}
		table = append(table, Tier{ID: name, MinPoints: min})
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Validate 校验等级表：非空、首档门槛为 0、门槛严格递增
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return bizErrors.TierTableInvalid
	}
	if t[0].MinPoints != 0 {
		return bizErrors.TierTableInvalid
	}
	for i := 1; i < len(t); i++ {
		if t[i].MinPoints <= t[i-1].MinPoints {
			return bizErrors.TierTableInvalid
		}
	}
	return nil
}

// Contains 判断等级表中是否存在指定名称的等级
func (t TierTable) Contains(tierID string) bool {
	for _, tier := range t {
		if tier.ID == tierID {
			return true
		}
	}
	return false
}

// Resolve 返回指定 lifetime 积分对应的当前等级、下一等级与进度。
// 负数积分按 0 处理；表不合法时返回 TIER_TABLE_INVALID。
func (t TierTable) Resolve(lifetimePoints int64) (Status, error) {
	if err := t.Validate(); err != nil {
		return Status{}, err
	}

	if lifetimePoints < 0 {
		lifetimePoints = 0
	}

	// 从高到低扫描，取第一个门槛不超过积分的等级
	idx := 0
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].MinPoints <= lifetimePoints {
			idx = i
			break
		}
	}

	status := Status{Current: t[idx]}
	if idx == len(t)-1 {
		// 已满级
		status.ProgressFraction = 1.0
		status.PointsToNext = 0
		return status, nil
	}

	next := t[idx+1]
	status.Next = &next
	status.PointsToNext = next.MinPoints - lifetimePoints

	span := next.MinPoints - t[idx].MinPoints
	frac := float64(lifetimePoints-t[idx].MinPoints) / float64(span)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	status.ProgressFraction = frac
	return status, nil
}
