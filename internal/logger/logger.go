// Package logger はlogrusの設定をまとめる。
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New は環境に合わせたロガーを返す。prodはJSON、それ以外はテキスト。
func New(goEnv string, level string) *logrus.Logger {
	return NewWithWriter(os.Stdout, goEnv, level)
}

func NewWithWriter(w io.Writer, goEnv string, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	if goEnv == "prod" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lv, err := logrus.ParseLevel(level)
	if err != nil {
		lv = logrus.InfoLevel
	}
	l.SetLevel(lv)
	return l
}

// Discard はテスト用の何も出力しないロガー。
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
