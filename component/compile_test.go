package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"loom/artifact"
)

func TestCompileDefinition(t *testing.T) {
	def, ex, err := Compile(injector)
	assert.NoError(t, err)
	assert.NotNil(t, ex)

	assert.Equal(t, "injector", def.Name)
	assert.Equal(t, "loom/component", def.Namespace)
	assert.Equal(t, "loom/component.injector_Executor", def.Executor)

	assert.Empty(t, def.Inputs)
	assert.Empty(t, def.Parameters)

	// 声明的返回值同时成为标量输出通道
	assert.Equal(t, []Channel{
		{Name: "a", Kind: artifact.KindInteger},
		{Name: "b", Kind: artifact.KindInteger},
		{Name: "c", Kind: artifact.KindString},
		{Name: "d", Kind: artifact.KindBytes},
	}, def.Outputs)
}

func TestCompileMarkerChannels(t *testing.T) {
	def, _, err := Compile(train)
	assert.NoError(t, err)

	assert.Equal(t, []Channel{
		{Name: "data", Kind: artifact.KindDataset},
		{Name: "steps", Kind: artifact.KindInteger},
	}, def.Inputs)

	// 输出位置参数在前，返回值通道按声明序追加在后
	assert.Equal(t, []Channel{
		{Name: "model_uri", Kind: artifact.KindModel},
		{Name: "loss", Kind: artifact.KindFloat},
		{Name: "accuracy", Kind: artifact.KindFloat},
	}, def.Outputs)
}

// 幂等性：同一函数编译两次，通道结构完全一致
func TestCompileIdempotent(t *testing.T) {
	def1, _, err := Compile(simple)
	assert.NoError(t, err)
	def2, ex2, err := Compile(simple)
	assert.NoError(t, err)

	assert.Equal(t, def1, def2)

	// 重复编译后写覆盖注册项
	resolved, ok := ResolveExecutor(def2.Executor)
	assert.True(t, ok)
	assert.Same(t, ex2, resolved)
}

func TestCompileScopeError(t *testing.T) {
	_, _, err := Compile(func() {})

	var de *DefinitionScopeError
	assert.True(t, errors.As(err, &de))
}

// 按名解析：只凭序列化引用中的执行器键即可完成一次执行
func TestCompileResolveByName(t *testing.T) {
	def, _, err := Compile(injector)
	assert.NoError(t, err)

	data, err := def.Marshal()
	assert.NoError(t, err)
	restored, err := UnmarshalDefinition(data)
	assert.NoError(t, err)
	assert.Equal(t, def, restored)

	ex, ok := ResolveExecutor(restored.Executor)
	assert.True(t, ok)

	outputs := outputsFor(t, restored)
	err = ex.Execute(context.Background(), ArtifactMap{}, outputs, nil)
	assert.NoError(t, err)
	assert.Equal(t, 10, valueOf(t, outputs, "a"))
}
