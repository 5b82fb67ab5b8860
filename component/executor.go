package component

/*
 * executor.go - 函数调用适配器
 *
 * 核心组件：
 *   - FunctionExecutor: 包装源函数的调用适配器，无状态、可跨多次调用复用
 *
 * 执行流程：
 *   1. 按 ArgBindings 声明序逐个解析实参（产物本身 / 位置字符串 / 内联值）
 *   2. 组装输入结构体，反射调用源函数
 *   3. 源函数返回的 error 原样穿透
 *   4. 归一化返回值：nil 视为空映射；非声明结构体记使用告警后视为空
 *   5. 把声明的返回值逐个写回输出产物的内联值槽位；
 *      缺省（nil 指针字段）记使用告警后跳过
 *
 * 设计特点：
 *   - 每个通道只消费产物集合的首个元素；通道缺失或集合为空
 *     返回描述性错误（行为选择，见 DESIGN.md）
 *   - 返回值写入不校验与声明 Kind 的匹配性，不匹配由下游暴露
 */

import (
	"context"
	"fmt"
	"reflect"
	"runtime"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"loom/artifact"
	"loom/internal/logs"
)

// FunctionExecutor 是把产物集合翻译为一次函数调用的适配器。
// 编译时构建，独占持有源函数引用，自身无状态，可安全复用。
type FunctionExecutor struct {
	fn     reflect.Value
	fnName string

	bindings []ArgBinding
	returned *orderedmap.OrderedMap[string, artifact.Kind]

	hasCtx bool
	hasErr bool
	// inType 输入结构体类型；函数不接收输入结构体时为 nil
	inType reflect.Type
	// outType 非 error 返回值类型；函数无返回声明时为 nil
	outType reflect.Type

	// inFields 绑定名到输入结构体字段下标
	inFields map[string]int
	// outFields 返回值名到输出结构体字段下标；
	// 实际返回类型不是声明结构体时为 nil
	outFields map[string]int
}

var _ Executor = (*FunctionExecutor)(nil)

// NewFunctionExecutor 基于分类记录为函数 fn 构建调用适配器。
// 调用形态从 fn 自身的签名推导，通道绑定取自 c；
// 二者通常由同一次 Compile 产生，按名解析的场景下也可分别还原。
func NewFunctionExecutor(fn any, c *Classification) (*FunctionExecutor, error) {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("function executor expects a function, got %T", fn)
	}
	ft := fv.Type()

	e := &FunctionExecutor{
		fn:       fv,
		fnName:   runtime.FuncForPC(fv.Pointer()).Name(),
		bindings: c.ArgBindings,
		returned: c.ReturnedValues,
	}

	// ====== 参数侧形态 ======

	numIn := ft.NumIn()
	argIdx := 0
	if numIn > 0 && ft.In(0) == ctxType {
		e.hasCtx = true
		argIdx = 1
	}
	switch numIn - argIdx {
	case 0:
	case 1:
		inT := ft.In(argIdx)
		if inT.Kind() != reflect.Struct {
			return nil, fmt.Errorf("function input must be a struct, got %s", inT)
		}
		e.inType = inT
		e.inFields = fieldIndex(inT)
		for _, b := range c.ArgBindings {
			if _, ok := e.inFields[b.Name]; !ok {
				return nil, fmt.Errorf(
					"function input struct %s lacks field for channel %q", inT, b.Name)
			}
		}
	default:
		return nil, fmt.Errorf("function takes unexpected parameters: %s", ft)
	}
	if e.inType == nil && len(c.ArgBindings) > 0 {
		return nil, fmt.Errorf(
			"classification declares %d parameters but function takes none", len(c.ArgBindings))
	}

	// ====== 返回侧形态 ======

	numOut := ft.NumOut()
	if numOut > 0 && ft.Out(numOut-1) == errType {
		e.hasErr = true
		numOut--
	}
	if numOut > 1 {
		return nil, fmt.Errorf("function returns unexpected results: %s", ft)
	}
	if numOut == 1 {
		e.outType = ft.Out(0)
		outT := e.outType
		if outT.Kind() == reflect.Ptr {
			outT = outT.Elem()
		}
		if outT.Kind() == reflect.Struct {
			e.outFields = fieldIndex(outT)
		}
	}

	return e, nil
}

// fieldIndex 建立通道名到结构体字段下标的索引。
func fieldIndex(t reflect.Type) map[string]int {
	idx := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		idx[channelName(field)] = i
	}
	return idx
}

// Execute 用提供的产物集合重建实参并调用源函数。
// 每次执行尝试调用一次；执行器自身不持有可变状态，
// 但要求单次调用期间对传入的产物对象有独占访问权。
func (e *FunctionExecutor) Execute(ctx context.Context,
	inputs, outputs ArtifactMap, props ExecProperties) error {

	var args []reflect.Value
	if e.hasCtx {
		if ctx == nil {
			ctx = context.Background()
		}
		args = append(args, reflect.ValueOf(ctx))
	}

	if e.inType != nil {
		in, err := e.buildInput(inputs, outputs)
		if err != nil {
			return err
		}
		args = append(args, in)
	}

	rets := e.fn.Call(args)

	// 源函数返回的错误原样穿透，由执行后端归类为执行失败
	if e.hasErr {
		if errV := rets[len(rets)-1]; !errV.IsNil() {
			return errV.Interface().(error)
		}
	}

	return e.assignReturned(rets, outputs)
}

// buildInput 按绑定声明序组装输入结构体。
func (e *FunctionExecutor) buildInput(inputs, outputs ArtifactMap) (reflect.Value, error) {
	in := reflect.New(e.inType).Elem()

	for _, b := range e.bindings {
		field := in.Field(e.inFields[b.Name])

		switch b.Format {
		case ArgInputArtifact, ArgOutputArtifact:
			a, err := firstArtifact(b, inputs, outputs)
			if err != nil {
				return reflect.Value{}, err
			}
			target := field.FieldByName("Artifact")
			av := reflect.ValueOf(a)
			if !av.Type().AssignableTo(target.Type()) {
				return reflect.Value{}, fmt.Errorf(
					"channel %q expects artifact type %s, got %s",
					b.Name, target.Type(), av.Type())
			}
			target.Set(av)

		case ArgInputLocation, ArgOutputLocation:
			a, err := firstArtifact(b, inputs, outputs)
			if err != nil {
				return reflect.Value{}, err
			}
			field.Set(reflect.ValueOf(a.URI()).Convert(field.Type()))

		case ArgValue:
			a, err := firstArtifact(b, inputs, outputs)
			if err != nil {
				return reflect.Value{}, err
			}
			va, ok := a.(artifact.ValueArtifact)
			if !ok {
				return reflect.Value{}, fmt.Errorf(
					"channel %q artifact kind[%s] carries no inline value", b.Name, a.Kind())
			}
			if !va.HasValue() {
				return reflect.Value{}, fmt.Errorf(
					"channel %q artifact has no value set", b.Name)
			}
			rv := reflect.ValueOf(va.Value())
			if !rv.Type().ConvertibleTo(field.Type()) {
				return reflect.Value{}, fmt.Errorf(
					"channel %q value of type %s is not convertible to %s",
					b.Name, rv.Type(), field.Type())
			}
			field.Set(rv.Convert(field.Type()))

		default:
			// 分类成功后不可达；出现即属编译器自身缺陷
			return reflect.Value{}, fmt.Errorf("%w: %v", ErrUnknownArgFormat, b.Format)
		}
	}

	return in, nil
}

// firstArtifact 取出绑定对应通道集合的首个产物。
// 输入角色查 inputs，输出角色查 outputs。
func firstArtifact(b ArgBinding, inputs, outputs ArtifactMap) (artifact.Artifact, error) {
	m := inputs
	side := "input"
	if b.Format == ArgOutputArtifact || b.Format == ArgOutputLocation {
		m = outputs
		side = "output"
	}
	as, ok := m[b.Name]
	if !ok || len(as) == 0 || as[0] == nil {
		return nil, fmt.Errorf("%s channel %q has no artifact", side, b.Name)
	}
	return as[0], nil
}

// assignReturned 归一化返回值并写回输出产物。
//
// 宽松契约（刻意保留）：返回 nil 视为空映射，声明的每个返回值
// 记缺省告警；返回值不是声明结构体时记一条使用告警后整体丢弃，
// 本次调用仍算成功。
func (e *FunctionExecutor) assignReturned(rets []reflect.Value, outputs ArtifactMap) error {
	var out reflect.Value
	present := false

	if e.outType != nil {
		out = rets[0]
		if out.Kind() == reflect.Ptr {
			if out.IsNil() {
				// 返回"空"视为空映射，继续走缺省告警路径
				out = reflect.Value{}
			} else {
				out = out.Elem()
			}
		}
		if out.IsValid() {
			if out.Kind() != reflect.Struct || e.outFields == nil {
				// 整体丢弃后继续走缺省告警路径
				logs.Warnf("expected component function %s to return a struct of outputs (got %s)",
					e.fnName, rets[0].Type())
				out = reflect.Value{}
			} else {
				present = true
			}
		}
	}

	for pair := e.returned.Oldest(); pair != nil; pair = pair.Next() {
		name := pair.Key

		var fv reflect.Value
		if present {
			if idx, ok := e.outFields[name]; ok {
				fv = out.Field(idx)
				if fv.Kind() == reflect.Ptr {
					if fv.IsNil() {
						fv = reflect.Value{}
					} else {
						fv = fv.Elem()
					}
				}
			}
		}
		if !fv.IsValid() {
			logs.Warnf("did not receive expected output %q as return value from component function %s",
				name, e.fnName)
			continue
		}

		as, ok := outputs[name]
		if !ok || len(as) == 0 || as[0] == nil {
			return fmt.Errorf("output channel %q has no artifact", name)
		}
		va, ok := as[0].(artifact.ValueArtifact)
		if !ok {
			return fmt.Errorf(
				"output channel %q artifact kind[%s] carries no inline value slot",
				name, as[0].Kind())
		}
		// 不校验值与声明 Kind 的匹配性，不匹配由下游消费方暴露
		va.SetValue(fv.Interface())
	}

	return nil
}
