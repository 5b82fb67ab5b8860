package component

/*
 * registry.go - 执行器注册表
 *
 * 进程级的名称 → 执行器映射，编译时写入，解析/反序列化时读取。
 * 写一次读多次；并发编译不同函数是安全的，对同一函数并发编译
 * 属未定义行为，实现上采用后写覆盖。
 */

import "sync"

var (
	execMu    sync.RWMutex
	executors = map[string]Executor{}
)

// RegisterExecutor 把执行器登记到 key 名下。
// Compile 自动调用；手工构建的执行器也可借此暴露给按名解析方。
// 同名重复登记时后写覆盖。
func RegisterExecutor(key string, ex Executor) {
	execMu.Lock()
	defer execMu.Unlock()
	executors[key] = ex
}

// ResolveExecutor 按稳定键解析执行器。
// 供只持有序列化组件引用（而非内存中编译对象）的调用方使用。
func ResolveExecutor(key string) (Executor, bool) {
	execMu.RLock()
	defer execMu.RUnlock()
	ex, ok := executors[key]
	return ex, ok
}
