package extract

import (
	"sort"
	"strings"
)

// similarityFloor 模糊匹配下限
// 取值偏保守：宁可漏配一列，也不能把 weight 配到 unit_value 这类串字段上
const similarityFloor = 0.80

// minContainmentLen 子串包含计分时较短一侧的最小长度
// 序号列 "NO." 规范化后只剩 "no"，不拦会挂到 "tracking no"/"waybill no" 上
const minContainmentLen = 3

// AliasScore 单元格对某字段的匹配得分，0 表示不匹配
// 完全相等 = 1.0；双向子串包含按长度占比计分（较短一侧至少
// minContainmentLen 个字符）；否则取词级 Jaccard 与编辑距离
// 相似度的较大者，低于 similarityFloor 视为不匹配
func AliasScore(normalizedCell string, field TargetField) float64 {
	if normalizedCell == "" {
		return 0
	}

	best := 0.0
	for _, alias := range field.Aliases {
		a := NormalizeString(alias)
		if a == "" {
			continue
		}

		var score float64
		shorter, longer := len(a), len(normalizedCell)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		switch {
		case normalizedCell == a:
			score = 1.0
		case shorter >= minContainmentLen &&
			(strings.Contains(normalizedCell, a) || strings.Contains(a, normalizedCell)):
			score = float64(shorter) / float64(longer)
		default:
			if sim := textSimilarity(normalizedCell, a); sim >= similarityFloor {
				score = sim
			}
		}

		if score > best {
			best = score
		}
	}
	return best
}

// textSimilarity 词级 Jaccard 与整串编辑距离相似度的较大者
func textSimilarity(a, b string) float64 {
	j := tokenJaccard(a, b)
	l := levenshteinRatio(a, b)
	if j > l {
		return j
	}
	return l
}

func tokenJaccard(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}

	union := make(map[string]struct{}, len(ta)+len(tb))
	for _, t := range ta {
		union[t] = struct{}{}
	}
	seen := make(map[string]struct{}, len(tb))
	inter := 0
	for _, t := range tb {
		union[t] = struct{}{}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			inter++
		}
	}

	return float64(inter) / float64(len(union))
}

func levenshteinRatio(a, b string) float64 {
	la, lb := len(a), len(b)
	if la == 0 && lb == 0 {
		return 1
	}
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

type matchCandidate struct {
	fieldIdx int
	colIdx   int
	score    float64
}

// MatchRow 将一行规范化后的单元格与目标字段集做匹配，返回 field key -> 列索引
// 每列至多被一个字段占用：所有候选按得分降序贪心分配，
// 同分时按字段声明顺序、再按列号从左到右，结果确定可复现
func MatchRow(normalizedCells []string, fields []TargetField) map[string]int {
	var candidates []matchCandidate
	for fi, field := range fields {
		for ci, cell := range normalizedCells {
			if score := AliasScore(cell, field); score > 0 {
				candidates = append(candidates, matchCandidate{fieldIdx: fi, colIdx: ci, score: score})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.fieldIdx != b.fieldIdx {
			return a.fieldIdx < b.fieldIdx
		}
		return a.colIdx < b.colIdx
	})

	mapping := make(map[string]int, len(fields))
	usedCols := make(map[int]bool, len(fields))
	for _, c := range candidates {
		key := fields[c.fieldIdx].Key
		if _, taken := mapping[key]; taken {
			continue
		}
		if usedCols[c.colIdx] {
			continue
		}
		mapping[key] = c.colIdx
		usedCols[c.colIdx] = true
	}
	return mapping
}

// matchRatio 候选的匹配率
// 统一口径：必填字段匹配数 / 必填字段总数；可选字段缺失不拉低评分
// 无必填字段的 schema 退化为 全字段匹配数 / 全字段总数
func matchRatio(mapping map[string]int, fields []TargetField) float64 {
	requiredTotal := 0
	requiredHit := 0
	for _, f := range fields {
		if !f.Required {
			continue
		}
		requiredTotal++
		if _, ok := mapping[f.Key]; ok {
			requiredHit++
		}
	}

	if requiredTotal == 0 {
		if len(fields) == 0 {
			return 0
		}
		return float64(len(mapping)) / float64(len(fields))
	}
	return float64(requiredHit) / float64(requiredTotal)
}
