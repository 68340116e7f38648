package domain

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	MaxSearchLength = 200
	MaxIDLength     = 40
	MaxLimit        = 120
	DefaultLimit    = 60
)

// PrintType — вариант печати, по которому фильтруется каталог.
type PrintType string

const (
	PrintAny   PrintType = ""
	PrintColor PrintType = "color"
	PrintBW    PrintType = "bw"
)

// ParsePrintType принимает только "color" и "bw", остальное считается отсутствием фильтра.
func ParsePrintType(raw string) PrintType {
	switch PrintType(raw) {
	case PrintColor:
		return PrintColor
	case PrintBW:
		return PrintBW
	default:
		return PrintAny
	}
}

// Label возвращает подпись варианта печати для сообщений клиенту.
func (p PrintType) Label() string {
	switch p {
	case PrintColor:
		return "Color"
	case PrintBW:
		return "B/W"
	default:
		return ""
	}
}

// FilterQuery — типизированные параметры запроса каталога.
// Живет только в рамках одного запроса.
type FilterQuery struct {
	Q          string
	CategoryID string
	SubID      string
	Print      PrintType
	Limit      int
	Offset     int
}

// RawFilterQuery — сырые строковые параметры, как они пришли в URL.
type RawFilterQuery struct {
	Q        string
	Category string
	Sub      string
	Print    string
	Limit    string
	Offset   string
}

// NewFilterQuery разбирает сырые параметры за один проход.
// Некорректные значения не отклоняются, а заменяются значениями по умолчанию или обрезаются.
func NewFilterQuery(raw RawFilterQuery) FilterQuery {
	return FilterQuery{
		Q:          truncateRunes(strings.TrimSpace(raw.Q), MaxSearchLength),
		CategoryID: SanitizeID(strings.TrimSpace(raw.Category)),
		SubID:      SanitizeID(strings.TrimSpace(raw.Sub)),
		Print:      ParsePrintType(raw.Print),
		Limit:      ClampLimit(raw.Limit),
		Offset:     ClampOffset(raw.Offset),
	}
}

// SanitizeID оставляет в идентификаторе только [A-Za-z0-9_-] и обрезает его до MaxIDLength.
func SanitizeID(raw string) string {
	var b strings.Builder
	b.Grow(min(len(raw), MaxIDLength))

	for i := 0; i < len(raw) && b.Len() < MaxIDLength; i++ {
		c := raw[i]
		if isIDChar(c) {
			b.WriteByte(c)
		}
	}

	return b.String()
}

// ClampLimit возвращает размер страницы в диапазоне [1, MaxLimit], DefaultLimit при нечисловом вводе.
func ClampLimit(raw string) int {
	n, ok := parseLeadingInt(raw)
	if !ok {
		return DefaultLimit
	}

	return min(max(n, 1), MaxLimit)
}

// ClampOffset возвращает неотрицательное смещение, 0 при нечисловом вводе.
func ClampOffset(raw string) int {
	n, ok := parseLeadingInt(raw)
	if !ok {
		return 0
	}

	return max(n, 0)
}

func isIDChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '-'
}

// parseLeadingInt читает целое число из начала строки: "12abc" -> 12, "  -3" -> -3.
// Переполнение насыщается до math.MaxInt.
func parseLeadingInt(raw string) (int, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		n = math.MaxInt
	}
	if neg {
		n = -n
	}

	return n, true
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
