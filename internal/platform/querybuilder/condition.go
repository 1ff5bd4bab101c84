package querybuilder

import (
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Condition renders one predicate of a WHERE clause with $N placeholders.
type Condition interface {
	render(w *writer)
}

type writer struct {
	buf  strings.Builder
	args []any
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

type eq struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eq{column: column, value: value}
}

func (c eq) render(w *writer) {
	w.buf.WriteString(c.column)
	w.buf.WriteString(" = ")
	w.bind(c.value)
}

type anyOf struct {
	column string
	values any
}

// AnyOf matches column against a Postgres array bound as a single argument.
// values must be a slice pq.Array understands, such as []int64 or []string.
func AnyOf(column string, values any) Condition {
	return anyOf{column: column, values: values}
}

func (c anyOf) render(w *writer) {
	w.buf.WriteString(c.column)
	w.buf.WriteString(" = ANY(")
	w.bind(pq.Array(c.values))
	w.buf.WriteString(")")
}

type notNull struct {
	column string
}

func NotNull(column string) Condition {
	return notNull{column: column}
}

func (c notNull) render(w *writer) {
	w.buf.WriteString(c.column)
	w.buf.WriteString(" IS NOT NULL")
}

type expr struct {
	sql  string
	args []any
}

// Expr embeds raw SQL, rewriting each ? into the next $N placeholder.
func Expr(sql string, args ...any) Condition {
	return expr{sql: sql, args: args}
}

func (c expr) render(w *writer) {
	next := 0
	for i := 0; i < len(c.sql); i++ {
		if c.sql[i] == '?' && next < len(c.args) {
			w.bind(c.args[next])
			next++
			continue
		}
		w.buf.WriteByte(c.sql[i])
	}
}

func renderWhere(w *writer, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.buf.WriteString(" AND ")
		}
		c.render(w)
	}
}
