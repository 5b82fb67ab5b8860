package component

/*
 * compile.go - 组件编译器
 *
 * 核心组件：
 *   - Compile: 函数 → (组件定义, 调用适配器)
 *
 * 设计特点：
 *   - 内部调用一次分类器，编译是确定性的：同一函数
 *     （同名、同标注、同包路径）总是编译出结构一致的定义
 *   - 副作用：把适配器按 "<包路径>.<函数名>_Executor" 登记到
 *     进程级注册表，跨进程 worker 反序列化组件引用后无需重新
 *     编译即可按名解析执行逻辑
 */

import "fmt"

// Compile 把包级函数 fn 编译为组件定义和调用适配器。
// 返回值声明的每个名称同时作为标量输出通道加入定义，
// 使其可被下游组件的输入通道连接。
func Compile(fn any) (*Definition, *FunctionExecutor, error) {
	c, err := Classify(fn)
	if err != nil {
		return nil, nil, err
	}

	// Classify 已通过作用域检查，此处不会再失败
	ns, name, err := qualifiedName(fn)
	if err != nil {
		return nil, nil, err
	}

	def := &Definition{
		Name:      name,
		Namespace: ns,
		Executor:  executorKey(ns, name),
	}
	for pair := c.Inputs.Oldest(); pair != nil; pair = pair.Next() {
		def.Inputs = append(def.Inputs, Channel{Name: pair.Key, Kind: pair.Value})
	}
	for pair := c.Outputs.Oldest(); pair != nil; pair = pair.Next() {
		def.Outputs = append(def.Outputs, Channel{Name: pair.Key, Kind: pair.Value})
	}
	for pair := c.ReturnedValues.Oldest(); pair != nil; pair = pair.Next() {
		def.Outputs = append(def.Outputs, Channel{Name: pair.Key, Kind: pair.Value})
	}

	ex, err := NewFunctionExecutor(fn, c)
	if err != nil {
		return nil, nil, err
	}

	RegisterExecutor(def.Executor, ex)

	return def, ex, nil
}

// executorKey 生成执行器在注册表中的稳定键。
func executorKey(ns, name string) string {
	return fmt.Sprintf("%s.%s_Executor", ns, name)
}
