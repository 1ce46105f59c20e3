// Package legitimacy は、シードやテスト用に作られた注文を一覧から隠すための
// ルール表を提供する。行の削除や更新は行わない（表示専用）。
package legitimacy

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ルールが見る項目
type Field string

const (
	FieldEmail       Field = "email"
	FieldOrderNumber Field = "order_number"
	FieldTotal       Field = "total"
	FieldItemCount   Field = "item_count"
)

// 一致したときの扱い
type Action int

const (
	Exclude Action = iota
	Allow
)

func (a Action) String() string {
	if a == Allow {
		return "allow"
	}
	return "exclude"
}

// Candidate はルールが判定に使う値だけを持つ。
type Candidate struct {
	Email       string
	OrderNumber string
	Total       decimal.Decimal
	ItemCount   int
}

// Rule は (field, pattern, action) の1行。
type Rule struct {
	Name   string
	Field  Field
	Action Action
	match  func(Candidate) bool
}

// Matches はcがこのルールの条件に当てはまるかを返す。
func (r Rule) Matches(c Candidate) bool {
	if r.match == nil {
		return false
	}
	return r.match(c)
}

// EmailPattern はメールアドレスを大文字小文字を無視した正規表現で判定する。
func EmailPattern(expr string) Rule {
	re := regexp.MustCompile("(?i)" + expr)
	return Rule{
		Name:  "email~" + expr,
		Field: FieldEmail,
		match: func(c Candidate) bool { return re.MatchString(c.Email) },
	}
}

// EmailContains は部分一致（大文字小文字は無視）。
func EmailContains(sub string) Rule {
	needle := strings.ToLower(sub)
	return Rule{
		Name:  "email*" + sub,
		Field: FieldEmail,
		match: func(c Candidate) bool { return strings.Contains(strings.ToLower(c.Email), needle) },
	}
}

// AllowEmail は指定アドレスを常に残す。後続の除外ルールより前に置くこと。
func AllowEmail(email string) Rule {
	return Rule{
		Name:   "email=" + email,
		Field:  FieldEmail,
		Action: Allow,
		match:  func(c Candidate) bool { return email != "" && strings.EqualFold(c.Email, email) },
	}
}

// OrderNumberPattern は注文番号を大文字小文字を無視した正規表現で判定する。
func OrderNumberPattern(expr string) Rule {
	re := regexp.MustCompile("(?i)" + expr)
	return Rule{
		Name:  "order_number~" + expr,
		Field: FieldOrderNumber,
		match: func(c Candidate) bool { return re.MatchString(c.OrderNumber) },
	}
}

// OrderNumberIn は完全一致（大文字小文字は無視）。
func OrderNumberIn(values ...string) Rule {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToUpper(v)] = struct{}{}
	}
	return Rule{
		Name:  "order_number in " + strings.Join(values, ","),
		Field: FieldOrderNumber,
		match: func(c Candidate) bool {
			_, ok := set[strings.ToUpper(c.OrderNumber)]
			return ok
		},
	}
}

// NonPositiveTotal は total <= 0 を除外する。
func NonPositiveTotal() Rule {
	return Rule{
		Name:  "total<=0",
		Field: FieldTotal,
		match: func(c Candidate) bool { return c.Total.LessThanOrEqual(decimal.Zero) },
	}
}

// NoItems は明細0件を除外する。
func NoItems() Rule {
	return Rule{
		Name:  "items=0",
		Field: FieldItemCount,
		match: func(c Candidate) bool { return c.ItemCount == 0 },
	}
}

// Policy は順序付きのルール表。
// 最初に一致したルールのActionで決まり、どれにも一致しなければ残す。
type Policy struct {
	rules []Rule
}

func NewPolicy(rules ...Rule) Policy {
	return Policy{rules: append([]Rule(nil), rules...)}
}

func (p Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// Verdict は残すかどうかと、決め手になったルール名を返す。
func (p Policy) Verdict(c Candidate) (bool, string) {
	for _, r := range p.rules {
		if r.Matches(c) {
			return r.Action == Allow, r.Name
		}
	}
	return true, ""
}

// Result はフィルタ結果と件数。
type Result[T any] struct {
	Kept     []T
	Total    int
	Filtered int
}

// Filter はitemsにポリシーを適用する。元のスライスは変更しない。
func Filter[T any](p Policy, items []T, view func(T) Candidate) Result[T] {
	kept := make([]T, 0, len(items))
	for _, it := range items {
		if keep, _ := p.Verdict(view(it)); keep {
			kept = append(kept, it)
		}
	}
	return Result[T]{
		Kept:     kept,
		Total:    len(items),
		Filtered: len(items) - len(kept),
	}
}
