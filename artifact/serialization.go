package artifact

/*
 * serialization.go - 产物快照的序列化
 *
 * 核心组件：
 *   - Snapshot: 产物的可序列化视图（Kind + URI + 内联值）
 *   - Take / Restore: 产物对象与快照的互转
 *
 * 设计特点：
 *   - 使用 Sonic JSON 编码，与框架其余序列化路径保持一致
 *   - 标量值按 JSON 泛型标量还原（整数还原为 float64、字节还原为文本），
 *     类型收窄由调用适配器按声明字段类型完成
 */

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Snapshot 是产物的可序列化视图。
// 用于跨进程传递产物引用，或把标量产物落盘到其 URI 指向的位置。
type Snapshot struct {
	Kind  Kind   `json:"kind"`
	URI   string `json:"uri"`
	Value any    `json:"value,omitempty"`
}

// Take 生成产物 a 的快照。
func Take(a Artifact) *Snapshot {
	s := &Snapshot{
		Kind: a.Kind(),
		URI:  a.URI(),
	}
	if va, ok := a.(ValueArtifact); ok && va.HasValue() {
		s.Value = va.Value()
	}
	return s
}

// Marshal 编码快照为字节序列。
func (s *Snapshot) Marshal() ([]byte, error) {
	return sonic.Marshal(s)
}

// Restore 从字节序列还原产物对象。
// Kind 必须已注册，否则返回错误。
func Restore(data []byte) (Artifact, error) {
	s := &Snapshot{}
	if err := sonic.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("unmarshal artifact snapshot fail: %w", err)
	}

	a, err := New(s.Kind)
	if err != nil {
		return nil, err
	}
	a.SetURI(s.URI)

	if s.Value != nil {
		va, ok := a.(ValueArtifact)
		if !ok {
			return nil, fmt.Errorf("artifact kind[%s] carries no inline value", s.Kind)
		}
		va.SetValue(s.Value)
	}
	return a, nil
}
