// Package logger 提供统一的日志框架
package logger

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level 日志级别
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config 日志配置
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json/console
	Output     string `yaml:"output" json:"output"` // stdout/stderr/file
	FilePath   string `yaml:"file_path,omitempty" json:"file_path,omitempty"`
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init 初始化日志器
func Init(cfg Config) {
	once.Do(func() {
		level := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		case "file":
			if cfg.FilePath != "" {
				f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					output = f
				} else {
					output = os.Stdout
				}
			} else {
				output = os.Stdout
			}
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

// parseLevel 解析日志级别
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get 获取日志器
func Get() *zerolog.Logger {
	if logger.GetLevel() == zerolog.Disabled {
		Init(DefaultConfig())
	}
	return &logger
}

// WithContext 从上下文创建日志器
func WithContext(ctx context.Context) *zerolog.Logger {
	l := Get().With().Logger()
	
	// 添加请求ID
	if reqID, ok := ctx.Value("request_id").(string); ok {
		l = l.With().Str("request_id", reqID).Logger()
	}
	
	// 添加公司ID
	if companyID, ok := ctx.Value("company_id").(string); ok {
		l = l.With().Str("company_id", companyID).Logger()
	}

	return &l
}

// Debug 记录调试日志
func Debug() *zerolog.Event {
	return Get().Debug()
}

// Info 记录信息日志
func Info() *zerolog.Event {
	return Get().Info()
}

// Warn 记录警告日志
func Warn() *zerolog.Event {
	return Get().Warn()
}

// Error 记录错误日志
func Error() *zerolog.Event {
	return Get().Error()
}

// Fatal 记录致命错误日志
func Fatal() *zerolog.Event {
	return Get().Fatal()
}

// WithError 添加错误信息
func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// WithField 添加字段
func WithField(key string, value interface{}) *zerolog.Logger {
	l := Get().With().Interface(key, value).Logger()
	return &l
}

// WithFields 添加多个字段
func WithFields(fields map[string]interface{}) *zerolog.Logger {
	ctx := Get().With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	l := ctx.Logger()
	return &l
}

// EngineLogger 匹配引擎专用日志器
type EngineLogger struct {
	base *zerolog.Logger
}

// NewEngineLogger 创建匹配引擎日志器
func NewEngineLogger() *EngineLogger {
	l := Get().With().Str("component", "engine").Logger()
	return &EngineLogger{base: &l}
}

// StartRun 记录运行开始
func (l *EngineLogger) StartRun(runID, weekStart string, employees, requirements int) {
	l.base.Info().
		Str("run_id", runID).
		Str("week_start", weekStart).
		Int("employees", employees).
		Int("requirements", requirements).
		Msg("开始排班运行")
}

// DayComplete 记录单日处理完成
func (l *EngineLogger) DayComplete(runID, day string, assigned, unfulfilled int) {
	l.base.Debug().
		Str("run_id", runID).
		Str("day", day).
		Int("assigned", assigned).
		Int("unfulfilled", unfulfilled).
		Msg("单日排班完成")
}

// TypeOverride 记录班次类型推断覆盖申报值
func (l *EngineLogger) TypeOverride(employeeID, day, startTime, declared, inferred string) {
	l.base.Warn().
		Str("employee_id", employeeID).
		Str("day", day).
		Str("start_time", startTime).
		Str("declared", declared).
		Str("inferred", inferred).
		Msg("班次类型以推断结果为准")
}

// UnfulfilledSlot 记录未满足的需求时段
func (l *EngineLogger) UnfulfilledSlot(runID, day, window string, required, assigned int) {
	l.base.Warn().
		Str("run_id", runID).
		Str("day", day).
		Str("window", window).
		Int("required", required).
		Int("assigned", assigned).
		Msg("需求时段未满足")
}

// RunComplete 记录运行完成
func (l *EngineLogger) RunComplete(runID string, duration time.Duration, assignments, conflicts, unfulfilled int) {
	l.base.Info().
		Str("run_id", runID).
		Dur("duration", duration).
		Int("assignments", assignments).
		Int("conflicts", conflicts).
		Int("unfulfilled", unfulfilled).
		Msg("排班运行完成")
}

// RunFailed 记录运行失败
func (l *EngineLogger) RunFailed(runID string, err error) {
	l.base.Error().
		Str("run_id", runID).
		Err(err).
		Msg("排班运行失败")
}

