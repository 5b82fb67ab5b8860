package component

/*
 * definition.go - 组件定义
 *
 * 核心组件：
 *   - Channel: 具名、带 Kind 标签的输入/输出槽位声明
 *   - Definition: 组件的静态契约，供流水线装配 API 消费
 *
 * 设计特点：
 *   - 编译时构建一次，此后不可变
 *   - Executor 字段是执行器在进程级注册表中的稳定键，
 *     跨进程 worker 仅凭该键即可解析调用逻辑
 *   - 可导出为 JSON Schema 供装配工具内省通道结构
 */

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"loom/artifact"
)

// Channel 是组件定义上一个具名、带 Kind 标签的数据槽位。
type Channel struct {
	Name string        `json:"name"`
	Kind artifact.Kind `json:"kind"`
}

// Definition 是编译产出的组件静态契约。
// 函数编译出的组件没有配置参数，Parameters 恒为空。
type Definition struct {
	// Name 组件名，即源函数名
	Name string `json:"name"`
	// Namespace 源函数所在包的导入路径
	Namespace string `json:"namespace"`
	// Executor 执行器在进程级注册表中的键
	Executor string `json:"executor"`

	Inputs  []Channel `json:"inputs,omitempty"`
	Outputs []Channel `json:"outputs,omitempty"`
	// Parameters 配置参数通道，函数组件恒为空
	Parameters []Channel `json:"parameters,omitempty"`
}

// Input 按名查找输入通道。
func (d *Definition) Input(name string) (Channel, bool) {
	return findChannel(d.Inputs, name)
}

// Output 按名查找输出通道。
func (d *Definition) Output(name string) (Channel, bool) {
	return findChannel(d.Outputs, name)
}

func findChannel(chs []Channel, name string) (Channel, bool) {
	for _, ch := range chs {
		if ch.Name == name {
			return ch, true
		}
	}
	return Channel{}, false
}

// InputSchema 导出输入通道的 JSON Schema 描述。
func (d *Definition) InputSchema() *jsonschema.Schema {
	return channelSchema(d.Inputs)
}

// OutputSchema 导出输出通道的 JSON Schema 描述。
func (d *Definition) OutputSchema() *jsonschema.Schema {
	return channelSchema(d.Outputs)
}

// channelSchema 把通道列表转换为对象 Schema，保持声明顺序。
func channelSchema(chs []Channel) *jsonschema.Schema {
	sc := &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
		Required:   make([]string, 0, len(chs)),
	}
	for _, ch := range chs {
		sc.Properties.Set(ch.Name, kindSchema(ch.Kind))
		sc.Required = append(sc.Required, ch.Name)
	}
	return sc
}

// kindSchema 把产物 Kind 映射为字段 Schema。
// 标量 Kind 映射为对应的 JSON 基础类型，领域产物映射为位置引用对象。
func kindSchema(kind artifact.Kind) *jsonschema.Schema {
	switch kind {
	case artifact.KindInteger:
		return &jsonschema.Schema{Type: "integer", Description: string(kind)}
	case artifact.KindFloat:
		return &jsonschema.Schema{Type: "number", Description: string(kind)}
	case artifact.KindString:
		return &jsonschema.Schema{Type: "string", Description: string(kind)}
	case artifact.KindBytes:
		return &jsonschema.Schema{Type: "string", Description: string(kind)}
	default:
		props := orderedmap.New[string, *jsonschema.Schema]()
		props.Set("uri", &jsonschema.Schema{Type: "string"})
		return &jsonschema.Schema{
			Type:        "object",
			Description: string(kind),
			Properties:  props,
			Required:    []string{"uri"},
		}
	}
}

// Marshal 编码组件定义，作为可跨进程传递的序列化引用。
func (d *Definition) Marshal() ([]byte, error) {
	return sonic.Marshal(d)
}

// UnmarshalDefinition 从序列化引用还原组件定义。
func UnmarshalDefinition(data []byte) (*Definition, error) {
	d := &Definition{}
	if err := sonic.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("unmarshal component definition fail: %w", err)
	}
	return d, nil
}
