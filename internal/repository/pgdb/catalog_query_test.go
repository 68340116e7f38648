package pgdb

import (
	"testing"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePredicate_Empty(t *testing.T) {
	where, args, err := compilePredicate(domain.Predicate{})

	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestCompilePredicate_AllClauses(t *testing.T) {
	pred := domain.BuildPredicate(domain.FilterQuery{
		Q:          "pen",
		CategoryID: "root1",
		Print:      domain.PrintColor,
	}, []string{"root1", "child1"})

	where, args, err := compilePredicate(pred)
	require.NoError(t, err)

	assert.Equal(t,
		`WHERE p.category_id = ANY($1) AND p.color_price > $2 AND `+
			`(p.name ILIKE $3 ESCAPE '\' OR p.description ILIKE $3 ESCAPE '\')`,
		where,
	)
	require.Len(t, args, 3)
	assert.Equal(t, []string{"root1", "child1"}, args[0])
	assert.True(t, decimal.Zero.Equal(args[1].(decimal.Decimal)))
	assert.Equal(t, "%pen%", args[2])
}

func TestCompilePredicate_SubCategory(t *testing.T) {
	pred := domain.BuildPredicate(domain.FilterQuery{CategoryID: "root2", SubID: "child1", Print: domain.PrintBW}, nil)

	where, args, err := compilePredicate(pred)
	require.NoError(t, err)

	assert.Equal(t, "WHERE p.category_id = $1 AND p.bw_price > $2", where)
	assert.Equal(t, "child1", args[0])
}

func TestCompilePredicate_EscapesLikeWildcards(t *testing.T) {
	pred := domain.Predicate{Clauses: []domain.Clause{
		domain.TextSearch{Fields: []domain.Field{domain.FieldName}, Term: `50%_off\`},
	}}

	where, args, err := compilePredicate(pred)
	require.NoError(t, err)

	assert.Equal(t, `WHERE (p.name ILIKE $1 ESCAPE '\')`, where)
	assert.Equal(t, `%50\%\_off\\%`, args[0])
}

func TestCompilePredicate_UnknownField(t *testing.T) {
	pred := domain.Predicate{Clauses: []domain.Clause{
		domain.IDEquals{Field: domain.Field("password"), Value: "x"},
	}}

	_, _, err := compilePredicate(pred)
	assert.Error(t, err)
}

func TestCompilePredicate_TextSearchWithoutFields(t *testing.T) {
	pred := domain.Predicate{Clauses: []domain.Clause{domain.TextSearch{Term: "pen"}}}

	_, _, err := compilePredicate(pred)
	assert.Error(t, err)
}
