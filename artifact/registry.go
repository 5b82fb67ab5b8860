package artifact

/*
 * registry.go - 产物子类型注册表
 *
 * 核心组件：
 *   - Register: 泛型注册函数，建立 Kind 与具体类型的双向映射
 *   - KindOf: 类型 → Kind 的反查
 *   - New: 按 Kind 实例化产物对象
 *
 * 设计特点：
 *   - 写一次读多次：注册发生在进程初始化阶段（init 或显式调用）
 *   - 双向映射：编译期按类型求 Kind，反序列化期按 Kind 还原类型
 *   - 重复注册报错，保证 Kind 与类型一一对应
 */

import (
	"fmt"
	"reflect"
	"sync"

	"loom/internal/generic"
)

var (
	regMu sync.RWMutex
	// kinds - Kind 到具体类型的映射，用于按名实例化
	kinds = map[Kind]reflect.Type{}
	// types - 具体类型到 Kind 的映射，用于编译期反查
	types = map[reflect.Type]Kind{}
)

func init() {
	// 注册内置产物子类型，保证内置 Kind 开箱可用
	_ = Register[*Dataset](KindDataset)
	_ = Register[*Model](KindModel)
	_ = Register[*Integer](KindInteger)
	_ = Register[*Float](KindFloat)
	_ = Register[*String](KindString)
	_ = Register[*Bytes](KindBytes)
}

// Register 把产物类型 T 注册到 kind 名下。
// T 必须是指向具体产物结构体的指针类型，如 *Dataset。
// kind 或类型任意一方已被注册时返回错误。
func Register[T Artifact](kind Kind) error {
	t := generic.TypeOf[T]()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	regMu.Lock()
	defer regMu.Unlock()

	if nt, ok := kinds[kind]; ok {
		return fmt.Errorf("artifact kind[%s] already registered to %s", kind, nt.String())
	}
	if nk, ok := types[t]; ok {
		return fmt.Errorf("artifact type[%s] already registered to %s", t.String(), nk)
	}

	kinds[kind] = t
	types[t] = kind
	return nil
}

// KindOf 反查类型 t 注册的 Kind。
// 接受指针或值类型，未注册时第二个返回值为 false。
func KindOf(t reflect.Type) (Kind, bool) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	regMu.RLock()
	defer regMu.RUnlock()

	k, ok := types[t]
	return k, ok
}

// New 按 Kind 实例化一个空产物对象。
// Kind 未注册时返回错误。
func New(kind Kind) (Artifact, error) {
	regMu.RLock()
	t, ok := kinds[kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown artifact kind: %s", kind)
	}
	return reflect.New(t).Interface().(Artifact), nil
}

// IsValueKind 报告 kind 对应的产物是否携带内联标量值。
func IsValueKind(kind Kind) bool {
	regMu.RLock()
	t, ok := kinds[kind]
	regMu.RUnlock()
	if !ok {
		return false
	}
	return reflect.PointerTo(t).Implements(generic.TypeOf[ValueArtifact]())
}
