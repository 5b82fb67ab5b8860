package component

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"loom/artifact"
)

// 组件函数必须声明在包级作用域，测试用的源函数统一定义在这里。

type injectorOut struct {
	A int
	B int
	C string
	D []byte
}

func injector() injectorOut {
	return injectorOut{A: 10, B: 22, C: "unicode", D: []byte("bytes")}
}

type simpleIn struct {
	A int
	B int
	C string
	D []byte
}

type simpleOut struct {
	E float64
	F float64
}

func simple(in simpleIn) simpleOut {
	return simpleOut{E: float64(in.A + in.B), F: float64(in.A * in.B)}
}

type trainIn struct {
	Data     Input[*artifact.Dataset]
	ModelURI OutputURI[*artifact.Model]
	NumSteps int `loom:"steps"`
}

type trainOut struct {
	Loss     float64
	Accuracy *float64
}

func train(ctx context.Context, in trainIn) (*trainOut, error) {
	return &trainOut{Loss: 0.1}, nil
}

// ghost 未注册的产物类型，用于分类失败场景
type ghost struct{ artifact.Base }

func (*ghost) Kind() artifact.Kind { return "Ghost" }

type badParamIn struct{ Rate float32 }

func badParam(in badParamIn) {}

func badScalarParam(in int) {}

type badReturnIn struct{ A int }

func badReturn(in badReturnIn) int { return in.A }

type badReturnFieldOut struct{ Ch chan int }

func badReturnField() badReturnFieldOut { return badReturnFieldOut{} }

type unregisteredIn struct{ G Input[*ghost] }

func unregistered(in unregisteredIn) {}

func noop() {}

func TestClassifyPrimitiveFunction(t *testing.T) {
	c, err := Classify(simple)
	assert.NoError(t, err)

	assert.False(t, c.HasContext)
	assert.False(t, c.HasError)

	var names []string
	var kinds []artifact.Kind
	for pair := c.Inputs.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
		kinds = append(kinds, pair.Value)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
	assert.Equal(t, []artifact.Kind{
		artifact.KindInteger, artifact.KindInteger,
		artifact.KindString, artifact.KindBytes,
	}, kinds)

	assert.Equal(t, 0, c.Outputs.Len())

	assert.Equal(t, []ArgBinding{
		{Name: "a", Format: ArgValue},
		{Name: "b", Format: ArgValue},
		{Name: "c", Format: ArgValue},
		{Name: "d", Format: ArgValue},
	}, c.ArgBindings)

	e, ok := c.ReturnedValues.Get("e")
	assert.True(t, ok)
	assert.Equal(t, artifact.KindFloat, e)
	f, ok := c.ReturnedValues.Get("f")
	assert.True(t, ok)
	assert.Equal(t, artifact.KindFloat, f)
}

func TestClassifyMarkers(t *testing.T) {
	c, err := Classify(train)
	assert.NoError(t, err)

	assert.True(t, c.HasContext)
	assert.True(t, c.HasError)

	data, ok := c.Inputs.Get("data")
	assert.True(t, ok)
	assert.Equal(t, artifact.KindDataset, data)

	// loom 标签覆盖默认的蛇形命名
	steps, ok := c.Inputs.Get("steps")
	assert.True(t, ok)
	assert.Equal(t, artifact.KindInteger, steps)

	modelURI, ok := c.Outputs.Get("model_uri")
	assert.True(t, ok)
	assert.Equal(t, artifact.KindModel, modelURI)

	assert.Equal(t, []ArgBinding{
		{Name: "data", Format: ArgInputArtifact},
		{Name: "model_uri", Format: ArgOutputLocation},
		{Name: "steps", Format: ArgValue},
	}, c.ArgBindings)

	// 指针标量字段表示可缺省的返回值，Kind 取指向的标量类型
	acc, ok := c.ReturnedValues.Get("accuracy")
	assert.True(t, ok)
	assert.Equal(t, artifact.KindFloat, acc)
}

func TestClassifyNoAnnotations(t *testing.T) {
	c, err := Classify(noop)
	assert.NoError(t, err)
	assert.Equal(t, 0, c.Inputs.Len())
	assert.Equal(t, 0, c.Outputs.Len())
	assert.Equal(t, 0, c.ReturnedValues.Len())
	assert.Empty(t, c.ArgBindings)
}

func TestClassifyRejectsInvalidSignatures(t *testing.T) {
	cases := []struct {
		name string
		fn   any
	}{
		{"不支持的参数类型", badParam},
		{"参数未聚合为结构体", badScalarParam},
		{"非结构体返回声明", badReturn},
		{"非标量返回字段", badReturnField},
		{"未注册的产物类型", unregistered},
		{"非函数", 42},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Classify(tc.fn)
			assert.Error(t, err)

			var se *SignatureError
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestClassifyScopeCheck(t *testing.T) {
	// 闭包没有稳定的限定路径
	closure := func() {}
	_, err := Classify(closure)

	var de *DefinitionScopeError
	assert.True(t, errors.As(err, &de))

	// 方法值同样被拒绝
	var buf bytes.Buffer
	_, err = Classify(buf.Len)
	assert.True(t, errors.As(err, &de))
}
