package component

/*
 * error.go - 编译期与运行期错误定义
 *
 * 核心组件：
 *   - DefinitionScopeError: 函数未声明在包级作用域
 *   - SignatureError: 类型标注无法映射为有效分类
 *   - ErrUnknownArgFormat: 内部一致性被破坏（编译器缺陷，而非用户输入问题）
 *
 * 设计特点：
 *   - 编译期错误立即中止编译，在任何执行发生之前暴露给流水线装配方
 *   - 运行期使用告警不在此列：告警只记日志，调用照常成功
 *   - 被包装函数自身返回的错误原样穿透 Execute，由执行后端归类
 */

import (
	"errors"
	"fmt"
)

// ErrUnknownArgFormat 未知参数角色。
// 出现即说明执行器持有的分类记录与角色集合不一致，属于编译器自身缺陷。
var ErrUnknownArgFormat = errors.New("unknown argument format")

// DefinitionScopeError 表示函数未声明在包级作用域。
// 闭包和方法值没有稳定的限定路径，生成的执行器无法被
// 跨进程 worker 按名解析，因此在编译期直接拒绝。
type DefinitionScopeError struct {
	// Fn 函数的运行时限定名
	Fn string
}

func (e *DefinitionScopeError) Error() string {
	return fmt.Sprintf(
		"component functions must be declared at package level, got %s", e.Fn)
}

// SignatureError 表示函数签名无法映射为有效分类。
// Reason 描述首个无法归类的标注或畸形的返回声明。
type SignatureError struct {
	// Fn 函数的运行时限定名
	Fn string
	// Reason 无法分类的具体原因
	Reason string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("cannot classify function %s: %s", e.Fn, e.Reason)
}
