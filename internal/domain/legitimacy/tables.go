package legitimacy

// StorefrontOrders は購入者向け注文一覧のルール表。
func StorefrontOrders() Policy {
	return NewPolicy(
		NoItems(),
		EmailPattern(`^demo@example\.`),
		EmailPattern(`^dummy@`),
		EmailPattern(`^sample@`),
		EmailPattern(`^fake@`),
		EmailPattern(`^placeholder@`),
		OrderNumberPattern(`^DEMO-`),
		OrderNumberPattern(`^DUMMY-`),
		OrderNumberPattern(`^SAMPLE-`),
		OrderNumberIn("ORD-000000", "ORD-111111", "ORD-999999"),
		NonPositiveTotal(),
	)
}

// AdminCustomOrders は管理画面のカスタム受注一覧のルール表。
// allowEmailは部分一致の除外より先に評価される。
func AdminCustomOrders(allowEmail string) Policy {
	rules := make([]Rule, 0, 8)
	if allowEmail != "" {
		rules = append(rules, AllowEmail(allowEmail))
	}
	rules = append(rules,
		EmailContains("dummy"),
		EmailContains("sample"),
		EmailContains("fake"),
		EmailContains("placeholder"),
		EmailContains("test@"),
		EmailContains("@example."),
	)
	return NewPolicy(rules...)
}
