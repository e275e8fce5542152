package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultPastelRatio 与白色混合的默认比例
const DefaultPastelRatio = 0.7

// ErrInvalidColor 颜色代码格式错误
var ErrInvalidColor = errors.New("颜色格式错误，应为 #RRGGBB")

// parseHexColor 解析 #RRGGBB 颜色代码为 RGB 三个分量
func parseHexColor(hexColor string) (r, g, b int, err error) {
	hex := strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if len(hex) != 6 {
		return 0, 0, 0, ErrInvalidColor
	}
	rv, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	gv, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	bv, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, ErrInvalidColor
	}
	return int(rv), int(gv), int(bv), nil
}

// PastelColor 把颜色按 mixRatio 与白色混合，得到柔和的浅色版本。
// 每个分量计算 round(channel*(1-ratio) + 255*ratio)，四舍五入，
// 输出小写的 #rrggbb
func PastelColor(hexColor string, mixRatio float64) (string, error) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		return "", err
	}
	mix := func(channel int) int {
		return int(math.Round(float64(channel)*(1-mixRatio) + 255*mixRatio))
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(r), mix(g), mix(b)), nil
}

// ContrastColor 根据背景色亮度选择黑色或白色文字。
// 亮度 L = (0.299R + 0.587G + 0.114B) / 255，L > 0.5 用黑字，否则白字
func ContrastColor(hexBackground string) (string, error) {
	r, g, b, err := parseHexColor(hexBackground)
	if err != nil {
		return "", err
	}
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.5 {
		return "#000000", nil
	}
	return "#FFFFFF", nil
}
