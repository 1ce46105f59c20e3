// Package orderno は人が読める注文番号（ORD-NNNNNN）を作る。
package orderno

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"time"
)

const Prefix = "ORD-"

const space = 1_000_000

var format = regexp.MustCompile(`^ORD-\d{6}$`)

// 一覧フィルタがダミーとして隠す番号。採番しない
var reserved = map[int64]struct{}{
	0:      {},
	111111: {},
	999999: {},
}

// Generator は注文番号を作る。
// 1回目はエポックミリ秒の下6桁、衝突後の再試行では乱数6桁を使う。
type Generator struct {
	rand io.Reader
}

func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewGeneratorWithReader はテスト用に乱数源を差し替える。
func NewGeneratorWithReader(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Next はattempt回目（0始まり）の候補を返す。
func (g *Generator) Next(now time.Time, attempt int) (string, error) {
	if attempt == 0 {
		n := now.UnixMilli() % space
		if _, ng := reserved[n]; !ng {
			return render(n), nil
		}
	}

	for i := 0; i < 16; i++ {
		b, err := rand.Int(g.rand, big.NewInt(space))
		if err != nil {
			return "", fmt.Errorf("order number: %w", err)
		}
		n := b.Int64()
		if _, ng := reserved[n]; ng {
			continue
		}
		return render(n), nil
	}
	return "", fmt.Errorf("order number: no candidate")
}

// FromTime は旧形式（ミリ秒の下6桁）の番号を返す。
func FromTime(now time.Time) string {
	return render(now.UnixMilli() % space)
}

func Valid(s string) bool {
	return format.MatchString(s)
}

func render(n int64) string {
	return fmt.Sprintf("%s%06d", Prefix, n)
}
