package artifact

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"loom/internal/generic"
)

// custom 测试用的自定义产物类型
type custom struct{ Base }

func (*custom) Kind() Kind { return "Custom" }

// 验证产物子类型注册表的双向映射与冲突检查
func TestRegistry(t *testing.T) {
	convey.Convey("测试产物子类型注册表", t, func() {
		convey.Convey("内置 Kind 开箱可用", func() {
			k, ok := KindOf(generic.TypeOf[*Dataset]())
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(k, convey.ShouldEqual, KindDataset)

			a, err := New(KindInteger)
			convey.So(err, convey.ShouldBeNil)
			convey.So(a.Kind(), convey.ShouldEqual, KindInteger)
		})

		convey.Convey("重复注册同一 Kind 报错", func() {
			err := Register[*custom](KindModel)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("未注册的 Kind 无法实例化", func() {
			_, err := New("Nope")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("标量 Kind 判定", func() {
			convey.So(IsValueKind(KindInteger), convey.ShouldBeTrue)
			convey.So(IsValueKind(KindBytes), convey.ShouldBeTrue)
			convey.So(IsValueKind(KindDataset), convey.ShouldBeFalse)
			convey.So(IsValueKind("Nope"), convey.ShouldBeFalse)
		})
	})
}

// 验证标量产物的值槽位语义
func TestValueArtifact(t *testing.T) {
	convey.Convey("测试标量产物的内联值", t, func() {
		f := &Float{}

		convey.Convey("未写入时无值", func() {
			convey.So(f.HasValue(), convey.ShouldBeFalse)
			convey.So(f.Value(), convey.ShouldBeNil)
		})

		convey.Convey("写入后可读回，且不校验类型", func() {
			f.SetValue("not a float")
			convey.So(f.HasValue(), convey.ShouldBeTrue)
			convey.So(f.Value(), convey.ShouldEqual, "not a float")
		})
	})
}

// 验证快照序列化的往返还原
func TestSnapshotRoundTrip(t *testing.T) {
	convey.Convey("测试产物快照的序列化往返", t, func() {
		convey.Convey("标量产物携带值落盘", func() {
			i := &Integer{}
			i.SetURI("/store/run/a")
			i.SetValue(10)

			data, err := Take(i).Marshal()
			convey.So(err, convey.ShouldBeNil)

			restored, err := Restore(data)
			convey.So(err, convey.ShouldBeNil)
			convey.So(restored.Kind(), convey.ShouldEqual, KindInteger)
			convey.So(restored.URI(), convey.ShouldEqual, "/store/run/a")

			// JSON 泛型标量：整数还原为 float64，收窄由消费方完成
			va := restored.(ValueArtifact)
			convey.So(va.HasValue(), convey.ShouldBeTrue)
			convey.So(va.Value(), convey.ShouldEqual, float64(10))
		})

		convey.Convey("领域产物只携带位置", func() {
			d := &Dataset{}
			d.SetURI("/store/run/data")

			data, err := Take(d).Marshal()
			convey.So(err, convey.ShouldBeNil)

			restored, err := Restore(data)
			convey.So(err, convey.ShouldBeNil)
			convey.So(restored.Kind(), convey.ShouldEqual, KindDataset)
			convey.So(restored.URI(), convey.ShouldEqual, "/store/run/data")
		})

		convey.Convey("未注册 Kind 的快照无法还原", func() {
			_, err := Restore([]byte(`{"kind":"Nope","uri":"/x"}`))
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
