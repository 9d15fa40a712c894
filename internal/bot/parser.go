package bot

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ParseErrorKind classifies user-correctable input failures.
type ParseErrorKind string

// Parse failure kinds.
const (
	ErrInvalidFormat   ParseErrorKind = "invalid_format"
	ErrInvalidAmount   ParseErrorKind = "invalid_amount"
	ErrInvalidCategory ParseErrorKind = "invalid_category"
)

// ParseError is a validation failure with a user-facing message describing
// the expected format.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// ParsedPurchase is the validated result of a one-shot purchase line. Note is
// empty when the line had no trailing parts.
type ParsedPurchase struct {
	Amount   decimal.Decimal
	Category string
	Note     string
}

// ParsedLimit is the validated result of a one-shot limit line.
type ParsedLimit struct {
	Category string
	Amount   decimal.Decimal
}

// minCategoryLength is the shortest accepted category name, in runes.
const minCategoryLength = 2

var (
	spaceRunRegex    = regexp.MustCompile(` +`)
	purchaseSplitter = regexp.MustCompile(`[;|,]`)
	limitSplitter    = regexp.MustCompile(`[;|]`)
	amountKeepRegex  = regexp.MustCompile(`[^0-9.,]`)
)

// ParsePurchaseLine parses "amount; category; note" (separators ; | ,).
//
// The decimal comma is rewritten to a dot before splitting; doing it after
// would break inputs like "1,5; Coffee" because the comma doubles as a
// separator.
func ParsePurchaseLine(raw string) (*ParsedPurchase, error) {
	cleaned := strings.Replace(raw, ",", ".", 1)
	cleaned = spaceRunRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	parts := splitAndTrim(purchaseSplitter, cleaned)
	if len(parts) < 2 {
		return nil, &ParseError{
			Kind:    ErrInvalidFormat,
			Message: "Use the format: amount; category; note (optional). Separators: ; , |",
		}
	}

	amount, err := decimal.NewFromString(parts[0])
	if err != nil || !amount.IsPositive() {
		return nil, &ParseError{
			Kind:    ErrInvalidAmount,
			Message: "The amount must be a positive number.",
		}
	}

	category := parts[1]
	if utf8.RuneCountInString(category) < minCategoryLength {
		return nil, &ParseError{
			Kind:    ErrInvalidCategory,
			Message: "The category name must be at least 2 characters long.",
		}
	}

	return &ParsedPurchase{
		Amount:   amount,
		Category: category,
		Note:     strings.Join(parts[2:], " · "),
	}, nil
}

// ParseLimitLine parses "category; amount" (separators ; | only, since
// category names may contain commas).
func ParseLimitLine(raw string) (*ParsedLimit, error) {
	cleaned := strings.TrimSpace(strings.Replace(raw, ",", ".", 1))

	parts := splitAndTrim(limitSplitter, cleaned)
	if len(parts) < 2 {
		return nil, &ParseError{
			Kind:    ErrInvalidFormat,
			Message: "Limit format: category; amount. Example: Groceries; 15000",
		}
	}

	amount, err := decimal.NewFromString(parts[1])
	if err != nil || !amount.IsPositive() {
		return nil, &ParseError{
			Kind:    ErrInvalidAmount,
			Message: "The limit amount must be a positive number.",
		}
	}

	if utf8.RuneCountInString(parts[0]) < minCategoryLength {
		return nil, &ParseError{
			Kind:    ErrInvalidCategory,
			Message: "The category name must be at least 2 characters long.",
		}
	}

	return &ParsedLimit{Category: parts[0], Amount: amount}, nil
}

// ParseAmount parses a bare amount typed during a guided flow. Currency
// symbols and other noise are stripped before parsing.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := amountKeepRegex.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	amount, err := decimal.NewFromString(cleaned)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, &ParseError{
			Kind:    ErrInvalidAmount,
			Message: "Invalid amount. Enter a number, e.g. 650 or 1250.50:",
		}
	}
	return amount, nil
}

func splitAndTrim(re *regexp.Regexp, s string) []string {
	raw := re.Split(s, -1)
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		parts = append(parts, strings.TrimSpace(part))
	}
	return parts
}
