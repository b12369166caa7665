package printing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
)

// MaxWordsAmount is the exclusive upper bound accepted by WordsOf
const MaxWordsAmount int64 = 999_999_999_999

// ErrInvalidAmount is returned for amounts outside [0, MaxWordsAmount)
var ErrInvalidAmount = shared.NewDomainError("INVALID_AMOUNT", "Amount must be between 0 and 999999999998")

var (
	onesWords  = [10]string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teensWords = [10]string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tensWords  = [10]string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
	scaleWords = [4]string{"", "Thousand", "Million", "Billion"}
)

// WordsOf spells out n in English words the way it is printed under a receipt
// total, e.g. 105 -> "One Hundred Five", 2000 -> "Two Thousand".
// No "and" is inserted and all-zero groups are skipped, so 1000001 reads
// "One Million One".
func WordsOf(n int64) (string, error) {
	if n < 0 || n >= MaxWordsAmount {
		return "", ErrInvalidAmount
	}
	if n == 0 {
		return "Zero", nil
	}

	var groups []string
	for scale := 0; n > 0; scale++ {
		if g := int(n % 1000); g != 0 {
			groups = append(groups, hundredsWords(g)+scaleWords[scale])
		}
		n /= 1000
	}

	var b strings.Builder
	for i := len(groups) - 1; i >= 0; i-- {
		b.WriteString(groups[i])
		b.WriteByte(' ')
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}

// hundredsWords renders v in [1, 999] with a trailing space after every word.
// Teens consume the ones digit, so nothing follows them.
func hundredsWords(v int) string {
	var b strings.Builder
	if v >= 100 {
		b.WriteString(onesWords[v/100])
		b.WriteString(" Hundred ")
		v %= 100
	}
	if v >= 20 {
		b.WriteString(tensWords[v/10])
		b.WriteByte(' ')
		v %= 10
	} else if v >= 10 {
		b.WriteString(teensWords[v-10])
		b.WriteByte(' ')
		return b.String()
	}
	if v > 0 {
		b.WriteString(onesWords[v])
		b.WriteByte(' ')
	}
	return b.String()
}

// AmountInWords floors a monetary amount to whole rupees and spells it out.
// Paise are dropped, matching the "Rupees ... Only" line on the receipt.
func AmountInWords(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", ErrInvalidAmount
	}
	whole := amount.Floor()
	if whole.GreaterThanOrEqual(decimal.NewFromInt(MaxWordsAmount)) {
		return "", ErrInvalidAmount
	}
	return WordsOf(whole.IntPart())
}
