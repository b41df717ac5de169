package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ogurasousui/hrsync/internal/platform/config"
)

// Output はロガーの出力先です。Close はローテーション中のファイルを閉じます。
type Output struct {
	io.Writer
	file *lumberjack.Logger
}

// Close はファイル出力を閉じます。標準エラー出力のみの場合は何もしません。
func (o *Output) Close() error {
	if o == nil || o.file == nil {
		return nil
	}
	return o.file.Close()
}

// NewOutput は設定に従って出力先を構築します。log.file が設定されていれば
// lumberjack でローテーションしつつ、標準エラー出力にも書き出します。
func NewOutput(cfg config.LogConfig, stderr io.Writer) *Output {
	if stderr == nil {
		stderr = os.Stderr
	}
	if cfg.File == "" {
		return &Output{Writer: stderr}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return &Output{Writer: io.MultiWriter(stderr, file), file: file}
}

// New は component をプレフィックスに持つロガーを返します。
func (o *Output) New(component string) *log.Logger {
	return log.New(o, "["+component+"] ", log.LstdFlags|log.Lmsgprefix)
}
