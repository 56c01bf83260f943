package utils

import (
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

func B2S(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// 忽略大小写比较（Unicode case folding）
func EqualFold(a, b string) bool {
	return folder.String(a) == folder.String(b)
}

// 折叠大小写并去掉首尾空白，用于名称归一
func FoldKey(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// 在map中查找键，先精确匹配，再忽略大小写匹配
func LookupFold(m map[string]any, key string) (v any, ok bool) {
	if v, ok = m[key]; ok {
		return
	}
	fk := FoldKey(key)
	for k, val := range m {
		if FoldKey(k) == fk {
			return val, true
		}
	}
	return
}

// 按路径逐层查找嵌套map，每层均忽略大小写
func LookupPath(m map[string]any, path ...string) (v any, ok bool) {
	cur := m
	for i, key := range path {
		if v, ok = LookupFold(cur, key); !ok {
			return
		}
		if i == len(path)-1 {
			return
		}
		if cur, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

// 逗号分隔的浮点数列表，非法项跳过
func StrToFloats(s, sep string) []float64 {
	var (
		parts = strings.Split(s, sep)
		rets  = make([]float64, 0, len(parts))
	)
	for _, p := range parts {
		if f, e := strconv.ParseFloat(strings.TrimSpace(p), 64); e == nil {
			rets = append(rets, f)
		}
	}
	return rets
}

func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func HasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
