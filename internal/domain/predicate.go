package domain

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Field — поле товара, на которое может ссылаться условие фильтра.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldCategoryID  Field = "category_id"
	FieldColorPrice  Field = "color_price"
	FieldBWPrice     Field = "bw_price"
)

// Clause — одно условие фильтра. Набор реализаций закрыт:
// TextSearch, IDEquals, IDIn, NumericGreater.
type Clause interface {
	isClause()
}

// TextSearch — регистронезависимое вхождение Term хотя бы в одно из полей (OR).
type TextSearch struct {
	Fields []Field
	Term   string
}

// IDEquals — точное совпадение идентификатора.
type IDEquals struct {
	Field Field
	Value string
}

// IDIn — идентификатор входит в множество.
type IDIn struct {
	Field  Field
	Values []string
}

// NumericGreater — значение поля строго больше Than.
type NumericGreater struct {
	Field Field
	Than  decimal.Decimal
}

func (TextSearch) isClause()     {}
func (IDEquals) isClause()       {}
func (IDIn) isClause()           {}
func (NumericGreater) isClause() {}

// Predicate — конъюнкция условий. Пустой предикат пропускает все товары.
type Predicate struct {
	Clauses []Clause
}

// NeedsExpansion сообщает, нужно ли раскрывать дерево категорий для запроса.
// Подкатегория всегда важнее категории, и тогда раскрытие не выполняется.
func (q FilterQuery) NeedsExpansion() bool {
	return q.SubID == "" && q.CategoryID != ""
}

// BuildPredicate собирает предикат из параметров запроса.
// categoryIDs — результат раскрытия дерева, используется только без подкатегории.
func BuildPredicate(q FilterQuery, categoryIDs []string) Predicate {
	var clauses []Clause

	switch {
	case q.SubID != "":
		clauses = append(clauses, IDEquals{Field: FieldCategoryID, Value: q.SubID})
	case q.CategoryID != "":
		ids := categoryIDs
		if len(ids) == 0 {
			ids = []string{q.CategoryID}
		}
		clauses = append(clauses, IDIn{Field: FieldCategoryID, Values: ids})
	}

	switch q.Print {
	case PrintColor:
		clauses = append(clauses, NumericGreater{Field: FieldColorPrice, Than: decimal.Zero})
	case PrintBW:
		clauses = append(clauses, NumericGreater{Field: FieldBWPrice, Than: decimal.Zero})
	}

	if q.Q != "" {
		clauses = append(clauses, TextSearch{Fields: []Field{FieldName, FieldDescription}, Term: q.Q})
	}

	return Predicate{Clauses: clauses}
}

// Matches проверяет товар на соответствие предикату в памяти.
func (p Predicate) Matches(pr *Product) bool {
	for _, c := range p.Clauses {
		if !clauseMatches(c, pr) {
			return false
		}
	}

	return true
}

func clauseMatches(c Clause, pr *Product) bool {
	switch c := c.(type) {
	case TextSearch:
		term := strings.ToLower(c.Term)
		for _, f := range c.Fields {
			if v, ok := textValue(f, pr); ok && strings.Contains(strings.ToLower(v), term) {
				return true
			}
		}
		return false
	case IDEquals:
		v, ok := textValue(c.Field, pr)
		return ok && v == c.Value
	case IDIn:
		v, ok := textValue(c.Field, pr)
		return ok && slices.Contains(c.Values, v)
	case NumericGreater:
		v, ok := numericValue(c.Field, pr)
		return ok && v.GreaterThan(c.Than)
	default:
		return false
	}
}

func textValue(f Field, pr *Product) (string, bool) {
	switch f {
	case FieldName:
		return pr.Name, true
	case FieldDescription:
		if pr.Description == nil {
			return "", false
		}
		return *pr.Description, true
	case FieldCategoryID:
		return pr.CategoryID, true
	default:
		return "", false
	}
}

func numericValue(f Field, pr *Product) (decimal.Decimal, bool) {
	switch f {
	case FieldColorPrice:
		return pr.ColorPrice, true
	case FieldBWPrice:
		return pr.BWPrice, true
	default:
		return decimal.Zero, false
	}
}
