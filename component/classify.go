package component

/*
 * classify.go - 签名分类器
 *
 * 核心组件：
 *   - Classification: 一次分类产出的不可变记录
 *   - Classify: 检查函数的参数与返回标注，为每个参数指派语义角色
 *
 * 分类规则（按优先级）：
 *   1. Input[T]     → InputArtifact，记入 Inputs[name] = K(T)
 *   2. Output[T]    → OutputArtifact，记入 Outputs[name] = K(T)
 *   3. InputURI[T]  → InputLocation，记入 Inputs[name] = K(T)
 *   4. OutputURI[T] → OutputLocation，记入 Outputs[name] = K(T)
 *   5. int / float64 / string / []byte → Value，记入 Inputs[name] = 标量 Kind
 *   6. 其他标注 → SignatureError
 *
 * 返回声明：非 error 返回值至多一个，必须是字段全为标量
 * （或指针标量，表示运行期可缺省）的结构体，字段序即声明序。
 *
 * 结构性前提：函数必须声明在包级作用域。闭包与方法值的限定名
 * 不稳定，生成的执行器无法跨进程按名解析，直接以
 * DefinitionScopeError 拒绝。
 */

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"loom/artifact"
	"loom/internal/generic"
)

// ArgBinding 是一个参数名与其语义角色的绑定。
// 绑定序列保持函数声明的字段顺序，决定调用时实参的重组顺序。
type ArgBinding struct {
	Name   string
	Format ArgFormat
}

// Classification 是对一个组件函数签名的规范化分类。
// 编译时计算一次，此后在进程生命周期内不可变。
type Classification struct {
	// Inputs 输入通道：输入产物、输入位置以及标量值参数（按声明序）
	Inputs *orderedmap.OrderedMap[string, artifact.Kind]
	// Outputs 输出通道：输出产物与输出位置（按声明序）
	Outputs *orderedmap.OrderedMap[string, artifact.Kind]
	// ReturnedValues 声明的返回值：名称 → 标量 Kind（按声明序）
	ReturnedValues *orderedmap.OrderedMap[string, artifact.Kind]
	// ArgBindings 参数角色序列，决定调用时实参重组顺序
	ArgBindings []ArgBinding

	// HasContext 函数是否接收前导 context.Context 参数
	HasContext bool
	// HasError 函数是否带尾部 error 返回值
	HasError bool
}

// primitiveKinds 基础标量类型到标量 Kind 的映射。
var primitiveKinds = map[reflect.Type]artifact.Kind{
	generic.TypeOf[int]():     artifact.KindInteger,
	generic.TypeOf[float64](): artifact.KindFloat,
	generic.TypeOf[string]():  artifact.KindString,
	generic.TypeOf[[]byte]():  artifact.KindBytes,
}

// Classify 检查函数 fn 的签名并产出规范化分类。
// 标注无法归类或返回声明畸形时返回 *SignatureError；
// 函数未声明在包级作用域时返回 *DefinitionScopeError。
func Classify(fn any) (*Classification, error) {
	_, _, err := qualifiedName(fn)
	if err != nil {
		return nil, err
	}

	ft := reflect.TypeOf(fn)
	fnName := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()

	c := &Classification{
		Inputs:         orderedmap.New[string, artifact.Kind](),
		Outputs:        orderedmap.New[string, artifact.Kind](),
		ReturnedValues: orderedmap.New[string, artifact.Kind](),
	}

	// ====== 参数侧 ======

	numIn := ft.NumIn()
	argIdx := 0
	if numIn > 0 && ft.In(0) == ctxType {
		c.HasContext = true
		argIdx = 1
	}

	switch numIn - argIdx {
	case 0:
		// 无输入结构体
	case 1:
		inT := ft.In(argIdx)
		if inT.Kind() != reflect.Struct {
			return nil, &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
				"parameters must be gathered in a single struct, got %s", inT)}
		}
		if err = classifyInputs(c, inT, fnName); err != nil {
			return nil, err
		}
	default:
		return nil, &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
			"expect at most (context.Context, InStruct) parameters, got %d", numIn)}
	}

	// ====== 返回侧 ======

	numOut := ft.NumOut()
	if numOut > 0 && ft.Out(numOut-1) == errType {
		c.HasError = true
		numOut--
	}

	switch numOut {
	case 0:
		// 无返回声明，ReturnedValues 为空
	case 1:
		outT := ft.Out(0)
		if outT.Kind() == reflect.Ptr {
			outT = outT.Elem()
		}
		if outT.Kind() != reflect.Struct {
			return nil, &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
				"return declaration must be a struct of scalar values, got %s", ft.Out(0))}
		}
		if err = classifyReturns(c, outT, fnName); err != nil {
			return nil, err
		}
	default:
		return nil, &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
			"expect at most (OutStruct, error) results, got %d", ft.NumOut())}
	}

	return c, nil
}

// classifyInputs 逐字段分类输入结构体，填充 Inputs/Outputs/ArgBindings。
func classifyInputs(c *Classification, inT reflect.Type, fnName string) error {
	for i := 0; i < inT.NumField(); i++ {
		field := inT.Field(i)
		if field.PkgPath != "" {
			return &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
				"parameter field %s must be exported", field.Name)}
		}

		name := channelName(field)
		if _, ok := c.Inputs.Get(name); ok {
			return &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
				"duplicate parameter name %q", name)}
		}
		if _, ok := c.Outputs.Get(name); ok {
			return &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
				"duplicate parameter name %q", name)}
		}

		// 规则 1~4：标记类型
		if field.Type.Implements(markerType) {
			m := reflect.New(field.Type).Elem().Interface().(marker)
			kind, ok := artifact.KindOf(m.artifactType())
			if !ok {
				return &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
					"parameter %q references unregistered artifact type %s",
					name, m.artifactType())}
			}

			format := m.argFormat()
			switch format {
			case ArgInputArtifact, ArgInputLocation:
				c.Inputs.Set(name, kind)
			case ArgOutputArtifact, ArgOutputLocation:
				c.Outputs.Set(name, kind)
			}
			c.ArgBindings = append(c.ArgBindings, ArgBinding{Name: name, Format: format})
			continue
		}

		// 规则 5：基础标量类型
		if kind, ok := primitiveKinds[field.Type]; ok {
			c.Inputs.Set(name, kind)
			c.ArgBindings = append(c.ArgBindings, ArgBinding{Name: name, Format: ArgValue})
			continue
		}

		// 规则 6：无法归类
		return &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
			"parameter %q has unsupported type %s", name, field.Type)}
	}
	return nil
}

// classifyReturns 逐字段分类输出结构体，填充 ReturnedValues。
// 指针标量字段表示该返回值运行期可缺省。
func classifyReturns(c *Classification, outT reflect.Type, fnName string) error {
	for i := 0; i < outT.NumField(); i++ {
		field := outT.Field(i)
		if field.PkgPath != "" {
			return &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
				"returned value field %s must be exported", field.Name)}
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		kind, ok := primitiveKinds[ft]
		if !ok {
			return &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
				"returned value %q must be a scalar type, got %s",
				channelName(field), field.Type)}
		}

		name := channelName(field)
		if _, dup := c.ReturnedValues.Get(name); dup {
			return &SignatureError{Fn: fnName, Reason: fmt.Sprintf(
				"duplicate returned value name %q", name)}
		}
		c.ReturnedValues.Set(name, kind)
	}
	return nil
}

// channelName 推导字段对应的通道名：loom 标签优先，否则取字段名的蛇形。
func channelName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("loom"); ok && tag != "" {
		return tag
	}
	return generic.SnakeName(field.Name)
}

// qualifiedName 解析函数的包路径与名称，并做包级作用域检查。
// 包级函数的限定名恰为 "包路径.函数名"；闭包会追加 ".funcN" 段，
// 方法值带接收者段或 "-fm" 后缀，二者都无法稳定寻址。
func qualifiedName(fn any) (ns, name string, err error) {
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return "", "", &SignatureError{
			Fn:     fmt.Sprintf("%T", fn),
			Reason: "not a function",
		}
	}

	full := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()

	// 泛型实例化后缀里可能含点号，先剥掉
	qual := full
	if i := strings.Index(qual, "["); i >= 0 {
		qual = qual[:i]
	}

	// 包路径的目录部分不参与切分
	short := qual
	prefix := ""
	if i := strings.LastIndex(qual, "/"); i >= 0 {
		prefix = qual[:i+1]
		short = qual[i+1:]
	}

	parts := strings.Split(short, ".")
	if len(parts) != 2 || strings.HasSuffix(short, "-fm") {
		return "", "", &DefinitionScopeError{Fn: full}
	}

	return prefix + parts[0], parts[1], nil
}
