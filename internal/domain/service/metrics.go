// Package service defines the interfaces for domain services.
package service

import (
	"time"
)

// Metrics defines the interface for collecting run metrics.
// This abstraction allows the application layer to remain independent of the specific monitoring implementation (e.g., Prometheus).
// Metrics 定义了收集运行指标的接口。
// 这种抽象使应用层能够独立于具体的监控实现（例如 Prometheus）。
type Metrics interface {
	// RecordClaimUpdate records one claim update with its outcome and error code ("" on success).
	// RecordClaimUpdate 记录一次声明更新及其结果和错误码（成功时为空）。
	RecordClaimUpdate(claim string, success bool, duration time.Duration, errorCode string)

	// RecordCredentialLoad records one credential read from the given source.
	// RecordCredentialLoad 记录一次从指定来源读取凭据的操作。
	RecordCredentialLoad(source string, success bool)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordClaimUpdate(string, bool, time.Duration, string) {}
func (NoopMetrics) RecordCredentialLoad(string, bool)                     {}
