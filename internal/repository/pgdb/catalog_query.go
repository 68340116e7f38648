package pgdb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
)

// columns — допустимые поля фильтра и их колонки в запросе каталога.
var columns = map[domain.Field]string{
	domain.FieldName:        "p.name",
	domain.FieldDescription: "p.description",
	domain.FieldCategoryID:  "p.category_id",
	domain.FieldColorPrice:  "p.color_price",
	domain.FieldBWPrice:     "p.bw_price",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereBuilder собирает WHERE с позиционными параметрами $1..$n.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

// compilePredicate переводит предикат в SQL-условие. Пустой предикат дает пустую строку.
func compilePredicate(pred domain.Predicate) (string, []any, error) {
	w := &whereBuilder{}

	for _, clause := range pred.Clauses {
		cond, err := w.compile(clause)
		if err != nil {
			return "", nil, err
		}
		w.conds = append(w.conds, cond)
	}

	if len(w.conds) == 0 {
		return "", w.args, nil
	}

	return "WHERE " + strings.Join(w.conds, " AND "), w.args, nil
}

func (w *whereBuilder) compile(clause domain.Clause) (string, error) {
	switch c := clause.(type) {
	case domain.TextSearch:
		if len(c.Fields) == 0 {
			return "", fmt.Errorf("text search without fields")
		}
		pattern := w.arg("%" + likeEscaper.Replace(c.Term) + "%")
		parts := make([]string, 0, len(c.Fields))
		for _, f := range c.Fields {
			col, err := column(f)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, col, pattern))
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	case domain.IDEquals:
		col, err := column(c.Field)
		if err != nil {
			return "", err
		}
		return col + " = " + w.arg(c.Value), nil
	case domain.IDIn:
		col, err := column(c.Field)
		if err != nil {
			return "", err
		}
		return col + " = ANY(" + w.arg(c.Values) + ")", nil
	case domain.NumericGreater:
		col, err := column(c.Field)
		if err != nil {
			return "", err
		}
		return col + " > " + w.arg(c.Than), nil
	default:
		return "", fmt.Errorf("unsupported clause %T", clause)
	}
}

func column(f domain.Field) (string, error) {
	col, ok := columns[f]
	if !ok {
		return "", fmt.Errorf("unsupported filter field %q", f)
	}

	return col, nil
}
