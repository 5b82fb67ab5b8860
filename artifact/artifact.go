package artifact

/*
 * artifact.go - 产物类型系统
 *
 * 核心组件：
 *   - Kind: 产物子类型标识符
 *   - Artifact: 产物对象接口，暴露存储位置
 *   - ValueArtifact: 标量产物接口，额外暴露内联值
 *   - Base / scalar: 供具体产物类型嵌入的基础实现
 *
 * 设计特点：
 *   - 领域产物（Dataset、Model）只携带 URI，内容由外部存储负责
 *   - 标量产物（Integer、Float、String、Bytes）额外携带一个内联值
 *   - 值的读写不做类型校验，不匹配由下游消费方暴露
 */

// Kind 是产物子类型的标识符。
// 每个 Kind 在进程内唯一，并通过注册表绑定到一个具体的 Go 类型。
type Kind string

// 内置产物子类型。
const (
	// KindDataset 数据集产物，内容存放在 URI 指向的位置
	KindDataset Kind = "Dataset"
	// KindModel 模型产物，内容存放在 URI 指向的位置
	KindModel Kind = "Model"

	// KindInteger 整数标量产物
	KindInteger Kind = "Integer"
	// KindFloat 浮点标量产物
	KindFloat Kind = "Float"
	// KindString 文本标量产物
	KindString Kind = "String"
	// KindBytes 字节序列标量产物
	KindBytes Kind = "Bytes"
)

// Artifact 是组件之间传递的带类型数据单元。
// 每个产物携带一个存储位置；标量产物另见 ValueArtifact。
type Artifact interface {
	Kind() Kind
	URI() string
	SetURI(uri string)
}

// ValueArtifact 是携带内联标量值的产物。
// 值由调用适配器在执行后写入，消费方在执行前读取。
type ValueArtifact interface {
	Artifact

	// Value 返回内联值。未写入过时返回 nil。
	Value() any
	// SetValue 写入内联值。不校验值与 Kind 的匹配性。
	SetValue(v any)
	// HasValue 报告是否写入过内联值。
	HasValue() bool
}

// Base 是具体产物类型的嵌入基础，承载存储位置。
type Base struct {
	uri string
}

func (b *Base) URI() string       { return b.uri }
func (b *Base) SetURI(uri string) { b.uri = uri }

// scalar 承载标量产物的内联值。
type scalar struct {
	v   any
	set bool
}

func (s *scalar) Value() any     { return s.v }
func (s *scalar) HasValue() bool { return s.set }

func (s *scalar) SetValue(v any) {
	s.v = v
	s.set = true
}

// ====== 内置产物类型 ======

// Dataset 数据集产物。
type Dataset struct{ Base }

func (*Dataset) Kind() Kind { return KindDataset }

// Model 模型产物。
type Model struct{ Base }

func (*Model) Kind() Kind { return KindModel }

// Integer 整数标量产物。
type Integer struct {
	Base
	scalar
}

func (*Integer) Kind() Kind { return KindInteger }

// Float 浮点标量产物。
type Float struct {
	Base
	scalar
}

func (*Float) Kind() Kind { return KindFloat }

// String 文本标量产物。
type String struct {
	Base
	scalar
}

func (*String) Kind() Kind { return KindString }

// Bytes 字节序列标量产物。
type Bytes struct {
	Base
	scalar
}

func (*Bytes) Kind() Kind { return KindBytes }
