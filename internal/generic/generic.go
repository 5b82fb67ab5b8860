package generic

import (
	"reflect"
	"strings"
	"unicode"
)

// TypeOf 返回 T 的 reflect.Type。
//
// 示例:
//
//	TypeOf[int]()     // reflect.TypeOf(int)
//	TypeOf[*int]()    // reflect.TypeOf(*int)
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// PtrOf 返回传入值 v 的指针。
// 用于需要获取字面量指针的场景，如可选输出字段的赋值。
//
// 典型场景:
//
//	out := TrainOut{
//	    Loss: PtrOf(0.32),	// 避免先声明局部变量再取地址
//	}
func PtrOf[T any](v T) *T {
	return &v
}

// SnakeName 把导出字段名转换为蛇形通道名。
// 连续大写字母视为一个缩写词整体处理。
//
// 示例:
//
//	SnakeName("Loss")        // "loss"
//	SnakeName("NumSteps")    // "num_steps"
//	SnakeName("ModelURI")    // "model_uri"
func SnakeName(name string) string {
	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// 词边界：前一个是小写，或者后一个是小写（缩写词结尾）
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
