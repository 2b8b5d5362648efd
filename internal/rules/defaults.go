package rules

func ptr(s string) *string { return &s }

// Default returns the starter rule table written by `payeeclean init`.
func Default() File {
	return File{Rules: []Rule{
		{
			Description: "leading XY9 reference goes to metadata id",
			Pattern:     `(?i)^(XY9\d+)\s+`,
			Actions:     []ActionSpec{{Meta: "id"}, {Clear: true}},
		},
		{
			Description: "card purchase prefix becomes the card tag",
			Pattern:     `(?i)^(?:POS|CARD PURCHASE)\s+`,
			Actions:     []ActionSpec{{Tag: ptr("card")}, {Clear: true}},
		},
		{
			Description: "asterisk separators become spaces",
			Pattern:     `\s*\*\s*`,
			Actions:     []ActionSpec{{Payee: ptr(" ")}},
		},
		{
			Description: "foreign amount adds a currency symbol tag",
			Pattern:     ` [\d.]+ ([A-Z]{3})@ [\d.]+ *$`,
			Actions: []ActionSpec{
				{Tag: ptr(`\1`), Translation: map[string]string{"jpy": "¥", "eur": "€", "gbp": "£", "usd": "$"}},
				{Payee: ptr(`\g<0>`)},
			},
		},
		{
			Description: "exchange rate suffix is spelled out",
			Pattern:     `@ ([\d.]+)$`,
			Actions:     []ActionSpec{{Payee: ptr(` (\1 each)`)}},
		},
		{
			Description: "trailing city goes to metadata city",
			Pattern:     `(?i)\s+(LONDON|PARIS|NEW YORK)$`,
			Actions:     []ActionSpec{{Meta: "city", Transform: []string{"title"}}, {Clear: true}},
		},
		{
			Description: "runs of whitespace collapse to one space",
			Pattern:     `\s{2,}`,
			Actions:     []ActionSpec{{Payee: ptr(" ")}},
		},
	}}
}
