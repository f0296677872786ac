package util

import (
	"strconv"
)

// ParseID 解析路径/查询参数里的标识符。
// 非数字或非正数都算形状不合法，调用方应转成 400 而不是 404。
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ParsePositiveInt 解析分页参数，非法时回退默认值
func ParsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
