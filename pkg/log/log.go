// Package log 提供基于 zap 的全局日志封装。
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	// 未调用 Init 时的兜底，保证测试环境可用
	logger, _ := zap.NewDevelopment()
	sugar = logger.Sugar()
}

// Init 初始化 zap logger
func Init(level, format string) {
	var zapConfig zap.Config

	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel.SetLevel(zap.InfoLevel)
	}

	if format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.Level = logLevel
	zapConfig.OutputPaths = []string{"stdout"}

	logger, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	sugar = logger.Sugar()
}

// Sync 刷新缓冲的日志
func Sync() {
	_ = sugar.Sync()
}

// Info 记录一条 info 级别的日志
func Info(msg string) {
	sugar.Info(msg)
}

// Infof 使用格式化字符串记录一条 info 级别的日志
func Infof(template string, args ...interface{}) {
	sugar.Infof(template, args...)
}

// Infow 使用键值对记录一条 info 级别的结构化日志
func Infow(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, keysAndValues...)
}

// Warnf 使用格式化字符串记录一条 warn 级别的日志
func Warnf(template string, args ...interface{}) {
	sugar.Warnf(template, args...)
}

// Error 记录一条 error 级别的日志
func Error(msg string) {
	sugar.Error(msg)
}

// Errorf 使用格式化字符串记录一条 error 级别的日志
func Errorf(template string, args ...interface{}) {
	sugar.Errorf(template, args...)
}

// Errorw 使用键值对记录一条 error 级别的结构化日志
func Errorw(msg string, keysAndValues ...interface{}) {
	sugar.Errorw(msg, keysAndValues...)
}

// Fatalf 记录一条 fatal 级别的日志并退出进程
func Fatalf(template string, args ...interface{}) {
	sugar.Fatalf(template, args...)
}
