package feed

import (
	"regexp"
	"strings"
)

// Template 是描述標題結構的屬性鍵有序序列，
// 顯示時以空格串接的 <key> token 呈現。
type Template []string

// Render 將鍵序列轉為顯示字串，例如 "<brand> <color> <size>"
func (t Template) Render() string {
	if len(t) == 0 {
		return ""
	}
	tokens := make([]string, len(t))
	for i, key := range t {
		tokens[i] = "<" + key + ">"
	}
	return strings.Join(tokens, " ")
}

// Contains 判斷鍵是否在範本中
func (t Template) Contains(key string) bool {
	for _, k := range t {
		if k == key {
			return true
		}
	}
	return false
}

var templateTokenPattern = regexp.MustCompile(`<([^<>]+)>`)

// ParseTemplate 從顯示字串還原鍵序列
func ParseTemplate(display string) Template {
	matches := templateTokenPattern.FindAllStringSubmatch(display, -1)
	if len(matches) == 0 {
		return nil
	}
	t := make(Template, 0, len(matches))
	for _, m := range matches {
		t = append(t, m[1])
	}
	return t
}
