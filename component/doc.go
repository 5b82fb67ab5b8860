/*
Package component 把带类型标注的普通函数编译为流水线组件。

编译分两个纯粹的阶段：

 1. 签名分类（Classify）：按输入结构体字段的类型标注为每个参数指派语义角色
    （输入产物、输出产物、输入位置、输出位置、标量值），并从输出结构体字段
    推导声明的返回值集合，产出一份不可变的 Classification 记录。
 2. 组件编译（Compile）：基于 Classification 构造组件定义（具名输入/输出
    通道）和调用适配器（FunctionExecutor），并把执行器按稳定名称登记到
    进程级注册表，供只持有序列化引用的跨进程 worker 按名解析。

函数形态为

	func F(ctx context.Context, in InStruct) (OutStruct, error)

其中 ctx、in、OutStruct、error 均可省略。InStruct 字段通过标记类型
（Input、Output、InputURI、OutputURI）或基础标量类型声明语义，
OutStruct 字段声明返回值的名称和标量种类。

示例：

	type TrainIn struct {
		Data     component.Input[*artifact.Dataset]
		Model    component.Output[*artifact.Model]
		NumSteps int
	}

	type TrainOut struct {
		Loss     float64
		Accuracy float64
	}

	func Train(ctx context.Context, in TrainIn) (TrainOut, error) { ... }

	def, ex, err := component.Compile(Train)

运行期由外部执行后端按通道名提供产物集合，调用 ex.Execute 完成一次执行。
*/
package component
