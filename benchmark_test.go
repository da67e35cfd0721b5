// FILE: lixenwraith/daylog/benchmark_test.go
package daylog

import (
	"io"
	"testing"
	"time"
)

func newBenchLogger(b *testing.B, level Level) *Logger {
	b.Helper()
	logger := NewLogger()
	logger.SetLogThreshold(level)
	logger.AddWriterSink(io.Discard)
	b.Cleanup(func() { _ = logger.Shutdown() })
	return logger
}

func BenchmarkLoggerFiltered(b *testing.B) {
	logger := newBenchLogger(b, LevelError)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug(func() string { return "never built" })
	}
}

func BenchmarkLoggerInfo(b *testing.B) {
	logger := newBenchLogger(b, LevelInfo)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(func() string { return "benchmark message" })
	}
	_ = logger.Flush(10 * time.Second)
}

func BenchmarkLoggerInfof(b *testing.B) {
	logger := newBenchLogger(b, LevelInfo)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Infof("benchmark message %d", i)
	}
	_ = logger.Flush(10 * time.Second)
}

func BenchmarkLoggerAttachment(b *testing.B) {
	logger := newBenchLogger(b, LevelInfo)
	fields := map[string]any{"user_id": 123, "action": "login"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(func() string { return "with attachment" }, fields)
	}
	_ = logger.Flush(10 * time.Second)
}

func BenchmarkDayFileSink(b *testing.B) {
	logger := NewLogger()
	logger.SetLogThreshold(LevelInfo)
	logger.AddFileSink(b.TempDir(), 3)
	b.Cleanup(func() { _ = logger.Shutdown() })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(func() string { return "file benchmark" })
	}
	_ = logger.Flush(10 * time.Second)
}

func BenchmarkConcurrentLogging(b *testing.B) {
	logger := newBenchLogger(b, LevelInfo)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			logger.Info(func() string { return "concurrent" })
		}
	})
	_ = logger.Flush(10 * time.Second)
}
