package component

/*
 * types.go - 参数角色与类型标记
 *
 * 核心组件：
 *   - ArgFormat: 参数角色枚举，决定调用时实参的取值方式
 *   - Input / Output: 产物对象标记，调用时传入产物本身
 *   - InputURI / OutputURI: 产物位置标记，调用时传入位置字符串
 *   - Executor: 调用适配器的统一接口
 *
 * 设计特点：
 *   - 标记类型零运行时开销：Input/Output 只包装一个产物引用，
 *     InputURI/OutputURI 就是具名字符串类型
 *   - 角色识别靠类型系统而非命名约定，分类期一次反射完成
 */

import (
	"context"
	"reflect"

	"loom/artifact"
	"loom/internal/generic"
)

// ArgFormat 是参数的语义角色，决定调用时该参数实参的取值方式。
type ArgFormat string

const (
	// ArgInputArtifact 输入产物：实参为 inputs[name] 的产物对象本身
	ArgInputArtifact ArgFormat = "InputArtifact"
	// ArgOutputArtifact 输出产物：实参为 outputs[name] 的产物对象本身
	ArgOutputArtifact ArgFormat = "OutputArtifact"
	// ArgInputLocation 输入位置：实参为 inputs[name] 产物的位置字符串
	ArgInputLocation ArgFormat = "InputLocation"
	// ArgOutputLocation 输出位置：实参为 outputs[name] 产物的位置字符串
	ArgOutputLocation ArgFormat = "OutputLocation"
	// ArgValue 标量值：实参为 inputs[name] 标量产物携带的内联值
	ArgValue ArgFormat = "Value"
)

// ====== 参数标记类型 ======

// marker 是参数标记类型的内部识别接口。
// 分类器通过它读出角色和关联的产物类型。
type marker interface {
	argFormat() ArgFormat
	artifactType() reflect.Type
}

var (
	markerType = generic.TypeOf[marker]()
	ctxType    = generic.TypeOf[context.Context]()
	errType    = generic.TypeOf[error]()
)

// Input 标记一个类型为 T 的输入产物参数。
// 组件函数通过 Artifact 字段消费该产物（通常读取其 URI 指向的内容）。
type Input[T artifact.Artifact] struct {
	Artifact T
}

func (Input[T]) argFormat() ArgFormat       { return ArgInputArtifact }
func (Input[T]) artifactType() reflect.Type { return generic.TypeOf[T]() }

// Output 标记一个类型为 T 的输出产物参数。
// 组件函数通过 Artifact 字段产出该产物（通常写入其 URI 指向的位置）。
type Output[T artifact.Artifact] struct {
	Artifact T
}

func (Output[T]) argFormat() ArgFormat       { return ArgOutputArtifact }
func (Output[T]) artifactType() reflect.Type { return generic.TypeOf[T]() }

// InputURI 标记一个输入位置参数：类型为 T 的输入产物的位置字符串。
type InputURI[T artifact.Artifact] string

func (InputURI[T]) argFormat() ArgFormat       { return ArgInputLocation }
func (InputURI[T]) artifactType() reflect.Type { return generic.TypeOf[T]() }

func (u InputURI[T]) String() string { return string(u) }

// OutputURI 标记一个输出位置参数：类型为 T 的输出产物的位置字符串。
type OutputURI[T artifact.Artifact] string

func (OutputURI[T]) argFormat() ArgFormat       { return ArgOutputLocation }
func (OutputURI[T]) artifactType() reflect.Type { return generic.TypeOf[T]() }

func (u OutputURI[T]) String() string { return string(u) }

// ====== 执行器接口 ======

// ArtifactMap 是通道名到产物集合的映射。
// 框架约定每个通道只消费集合的首个产物。
type ArtifactMap = map[string][]artifact.Artifact

// ExecProperties 是执行后端下发的执行属性。
// 函数编译出的组件没有配置参数，执行属性恒为空。
type ExecProperties = map[string]any

// Executor 是组件调用适配器的统一接口。
// 执行后端对每次执行尝试恰好调用一次 Execute，并对逃逸出的
// 错误按自身的失败策略处理；本层不做重试。
type Executor interface {
	Execute(ctx context.Context, inputs, outputs ArtifactMap, props ExecProperties) error
}
