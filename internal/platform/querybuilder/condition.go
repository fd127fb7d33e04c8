package querybuilder

import (
	"strconv"
	"strings"
)

// Condition renders one predicate of a WHERE clause. Predicates are joined with AND.
type Condition interface {
	render(w *writer)
}

type eqCondition struct {
	column string
	value  any
	fold   bool
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

// EqFold compares column and value case-insensitively through lower().
func EqFold(column string, value any) Condition {
	return eqCondition{column: column, value: value, fold: true}
}

func (c eqCondition) render(w *writer) {
	if !c.fold {
		w.sql.WriteString(c.column)
		w.sql.WriteString(" = ")
		w.bind(c.value)
		return
	}
	w.sql.WriteString("lower(")
	w.sql.WriteString(c.column)
	w.sql.WriteString(") = lower(")
	w.bind(c.value)
	w.sql.WriteString(")")
}

// writer accumulates SQL text and its positional arguments ($1, $2, ...).
type writer struct {
	sql  strings.Builder
	args []any
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.sql.WriteString("$")
	w.sql.WriteString(strconv.Itoa(len(w.args)))
}

func (w *writer) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.sql.WriteString(" WHERE ")
		} else {
			w.sql.WriteString(" AND ")
		}
		c.render(w)
	}
}

func (w *writer) list(keyword string, items []string) {
	if len(items) == 0 {
		return
	}
	w.sql.WriteString(keyword)
	w.sql.WriteString(strings.Join(items, ", "))
}

func (w *writer) returning(columns []string) {
	w.list(" RETURNING ", columns)
}

func (w *writer) result() (string, []any, error) {
	return w.sql.String(), w.args, nil
}
