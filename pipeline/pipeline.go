package pipeline

/*
 * pipeline.go - 流水线装配与串行执行
 *
 * 核心组件：
 *   - Pipeline: 组件节点的装配容器
 *   - Node: 流水线中的一个组件实例
 *   - Bind / Ref: 具名通道连接
 *
 * 设计特点：
 *   - 装配期校验：未绑定输入、Kind 不匹配、跨流水线引用都在
 *     任何执行发生之前报错
 *   - 节点按加入顺序串行执行（绑定只能引用已加入的节点，
 *     加入顺序天然是拓扑序）
 *   - 执行器通过注册表按名解析，不依赖内存中的编译对象
 *   - 不重试、不并发、不做缓存调度
 */

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"loom/artifact"
	"loom/component"
)

// Pipeline 是组件节点的装配容器。
type Pipeline struct {
	name  string
	nodes []*Node
}

// New 创建一条空流水线。
func New(name string) *Pipeline {
	return &Pipeline{name: name}
}

// Node 是流水线中的一个组件实例，持有其输入通道的连接关系。
type Node struct {
	p   *Pipeline
	def *component.Definition
	// bindings 输入通道名 → 上游输出引用
	bindings map[string]Ref
	// artifacts 最近一次执行为各输出通道分配的产物
	artifacts map[string]artifact.Artifact
}

// Definition 返回节点的组件定义。
func (n *Node) Definition() *component.Definition { return n.def }

// Out 引用节点的一个输出通道，用于连接下游节点的输入。
// 通道不存在时返回无效引用，在下游 Add 时报错。
func (n *Node) Out(name string) Ref {
	ch, ok := n.def.Output(name)
	if !ok {
		return Ref{node: n, channel: name}
	}
	return Ref{node: n, channel: name, kind: ch.Kind, valid: true}
}

// OutputArtifact 返回最近一次执行中分配给输出通道的产物。
// 尚未执行或通道不存在时第二个返回值为 false。
func (n *Node) OutputArtifact(name string) (artifact.Artifact, bool) {
	a, ok := n.artifacts[name]
	return a, ok
}

// Ref 是对某个节点输出通道的引用。
type Ref struct {
	node    *Node
	channel string
	kind    artifact.Kind
	valid   bool
}

// Binding 把一个输入通道连接到上游输出引用。
type Binding struct {
	Input string
	From  Ref
}

// Bind 构造一条通道连接。
func Bind(input string, from Ref) Binding {
	return Binding{Input: input, From: from}
}

// Add 把组件定义装配为流水线节点。
// 每个输入通道必须恰好绑定一次，且与上游输出的 Kind 一致；
// 违反任一约束立即报错，不会推迟到执行期。
func (p *Pipeline) Add(def *component.Definition, binds ...Binding) (*Node, error) {
	for _, n := range p.nodes {
		if n.def.Name == def.Name {
			return nil, fmt.Errorf("pipeline %s already has node %q", p.name, def.Name)
		}
	}

	n := &Node{p: p, def: def, bindings: make(map[string]Ref, len(binds))}

	for _, b := range binds {
		ch, ok := def.Input(b.Input)
		if !ok {
			return nil, fmt.Errorf("component %q has no input channel %q", def.Name, b.Input)
		}
		if _, dup := n.bindings[b.Input]; dup {
			return nil, fmt.Errorf("input channel %q bound twice", b.Input)
		}
		if !b.From.valid {
			return nil, fmt.Errorf("binding for %q references unknown output channel %q",
				b.Input, b.From.channel)
		}
		if b.From.node.p != p {
			return nil, fmt.Errorf("binding for %q references a node outside pipeline %s",
				b.Input, p.name)
		}
		if b.From.kind != ch.Kind {
			return nil, fmt.Errorf("cannot bind %s output %q to %s input %q",
				b.From.kind, b.From.channel, ch.Kind, b.Input)
		}
		n.bindings[b.Input] = b.From
	}

	for _, ch := range def.Inputs {
		if _, ok := n.bindings[ch.Name]; !ok {
			return nil, fmt.Errorf("input channel %q of component %q is unbound",
				ch.Name, def.Name)
		}
	}

	p.nodes = append(p.nodes, n)
	return n, nil
}

// Run 在 root 目录下串行执行一遍流水线。
// 为每个输出通道分配一个产物，执行器按定义中的稳定键从注册表
// 解析；首个失败的节点错误带节点名包装后返回，后续节点不再执行。
func (p *Pipeline) Run(ctx context.Context, root string) error {
	runID := uuid.NewString()

	for _, n := range p.nodes {
		ex, ok := component.ResolveExecutor(n.def.Executor)
		if !ok {
			return fmt.Errorf("node[%s]: executor %q not registered", n.def.Name, n.def.Executor)
		}

		outputs := make(component.ArtifactMap, len(n.def.Outputs))
		n.artifacts = make(map[string]artifact.Artifact, len(n.def.Outputs))
		for _, ch := range n.def.Outputs {
			a, err := artifact.New(ch.Kind)
			if err != nil {
				return fmt.Errorf("node[%s]: %w", n.def.Name, err)
			}
			a.SetURI(filepath.Join(root, runID, n.def.Name, ch.Name))
			outputs[ch.Name] = []artifact.Artifact{a}
			n.artifacts[ch.Name] = a
		}

		inputs := make(component.ArtifactMap, len(n.bindings))
		for name, ref := range n.bindings {
			up, ok := ref.node.artifacts[ref.channel]
			if !ok {
				return fmt.Errorf("node[%s]: upstream %s has not produced channel %q",
					n.def.Name, ref.node.def.Name, ref.channel)
			}
			inputs[name] = []artifact.Artifact{up}
		}

		if err := ex.Execute(ctx, inputs, outputs, nil); err != nil {
			return fmt.Errorf("node[%s]: %w", n.def.Name, err)
		}

		if err := persistValues(n); err != nil {
			return fmt.Errorf("node[%s]: %w", n.def.Name, err)
		}
	}

	return nil
}

// persistValues 把节点产出的标量产物以快照形式落盘到各自的 URI。
func persistValues(n *Node) error {
	for name, a := range n.artifacts {
		va, ok := a.(artifact.ValueArtifact)
		if !ok || !va.HasValue() {
			continue
		}
		data, err := artifact.Take(a).Marshal()
		if err != nil {
			return fmt.Errorf("marshal value of channel %q fail: %w", name, err)
		}
		if err = os.MkdirAll(filepath.Dir(a.URI()), 0o755); err != nil {
			return err
		}
		if err = os.WriteFile(a.URI(), data, 0o644); err != nil {
			return fmt.Errorf("persist value of channel %q fail: %w", name, err)
		}
	}
	return nil
}
