package logs

/*
 * logs.go - 库内部日志出口
 *
 * 核心组件：
 *   - defaultLogger: 进程级 logrus 实例，默认只输出 Warn 及以上级别
 *   - Warnf: 使用告警（usage warning）的唯一出口
 *
 * 设计特点：
 *   - 库本身保持安静：只有运行期使用告警会产生日志
 *   - 告警不致命：记录后调用方继续执行
 *   - 可替换输出：测试中通过 SetOutput 捕获告警内容
 */

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu            sync.RWMutex
	defaultLogger = newDefault()
)

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SetOutput 替换告警日志的输出目标。
// 仅用于进程初始化或测试期间，不保证与并发写日志互斥。
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger.SetOutput(w)
}

// Warnf 记录一条使用告警。
// 告警表示调用方对契约的偏离，但不会中断当前调用。
func Warnf(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	defaultLogger.Warnf(format, args...)
}
