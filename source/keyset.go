package source

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

var _encoder = base64.RawURLEncoding

// Getters map ordering columns to accessors on the row type. Every column of
// the ordering needs one to build the next page token.
//
//	source.Getters[User]{
//		"id":         func(u User) any { return u.ID },
//		"created_at": func(u User) any { return u.CreatedAt },
//	}
type Getters[E any] map[string]func(E) any

// CursorElement is one (column, value, operator) triple of a keyset token.
type CursorElement struct {
	Column   string   `json:"c"`
	Value    any      `json:"v"`
	Operator Operator `json:"o"`
}

// KeysetCursor is the decoded form of a keyset page token: the position right
// after the last row of the previous page. A nil or empty cursor means the
// start of the dataset.
//
// The elements [(C1, O1, V1), (C2, O2, V2) ... (Cn, On, Vn)] expand to
//
//	(C1 O1 V1) OR (C1 = V1 AND C2 O2 V2) OR ... OR (C1 = V1 AND ... AND Cn On Vn)
type KeysetCursor struct {
	elements []CursorElement
}

func NewKeysetCursor(elements ...CursorElement) *KeysetCursor {
	return &KeysetCursor{elements: elements}
}

// DecodeKeysetCursor parses a token produced by KeysetCursor.String. An empty
// token yields a nil cursor.
func DecodeKeysetCursor(token string) (*KeysetCursor, error) {
	if len(token) == 0 {
		return nil, nil
	}

	jsonData, err := _encoder.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded cursor: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()

	var elems []CursorElement
	if err = decoder.Decode(&elems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json encoded cursor: %w", err)
	}

	for i := range elems {
		elems[i].Value = normalizeValue(elems[i].Value)
	}

	return &KeysetCursor{elements: elems}, nil
}

// String encodes the cursor as an opaque URL-safe token. Empty for an empty cursor.
func (c *KeysetCursor) String() string {
	if c.IsEmpty() {
		return ""
	}

	jTok, err := json.Marshal(c.elements)
	if err != nil {
		panic(fmt.Errorf("cannot marshal cursor value: %w", err))
	}

	return _encoder.EncodeToString(jTok)
}

func (c *KeysetCursor) IsEmpty() bool {
	return c == nil || len(c.elements) == 0
}

func (c *KeysetCursor) Elements() []CursorElement {
	if c == nil {
		return nil
	}

	return c.elements
}

// validate checks the token against the ordering it is applied with.
func (c *KeysetCursor) validate(orderings Orderings) error {
	if c.IsEmpty() {
		return nil
	}

	if len(c.elements) != len(orderings) {
		return fmt.Errorf("cursor column number mismatch")
	}

	for i, cond := range c.elements {
		orderBy := orderings[i]

		if cond.Column != orderBy.Column {
			return fmt.Errorf("unexpected cursor column '%s'", cond.Column)
		}

		if !cond.Operator.Valid() {
			return fmt.Errorf("invalid cursor operator '%s'", cond.Operator)
		} else if cond.Operator.ForOrdering() != orderBy.Direction {
			return fmt.Errorf("unexpected cursor operator '%s'", cond.Operator)
		}
	}

	return nil
}

// expression expands the cursor into a gorm condition. Nil for an empty cursor.
func (c *KeysetCursor) expression() clause.Expression {
	if c.IsEmpty() {
		return nil
	}

	disjuncts := make([]clause.Expression, 0, len(c.elements))
	for i, elem := range c.elements {
		conjuncts := lo.Map(c.elements[:i], func(prev CursorElement, _ int) clause.Expression {
			return condition(prev.Column, operatorEq, prev.Value)
		})
		conjuncts = append(conjuncts, condition(elem.Column, elem.Operator, elem.Value))

		disjuncts = append(disjuncts, lo.Ternary(len(conjuncts) == 1, conjuncts[0], clause.And(conjuncts...)))
	}

	if len(disjuncts) == 1 {
		return disjuncts[0]
	}

	return clause.Or(disjuncts...)
}

// condition renders "column operator ?".
func condition(column string, operator Operator, value any) clause.Expression {
	return clause.Expr{
		SQL:  fmt.Sprintf("%s %s ?", column, operator),
		Vars: []any{value},
	}
}

// nextKeysetCursor builds the token that continues after last.
func nextKeysetCursor[E any](orderings Orderings, last E, getters Getters[E]) (*KeysetCursor, error) {
	ret := &KeysetCursor{elements: make([]CursorElement, 0, len(orderings))}
	for _, orderBy := range orderings {
		getter, ok := getters[orderBy.Column]
		if !ok {
			return nil, fmt.Errorf("cannot find getter for column '%s' met in ordering", orderBy.Column)
		}

		ret.elements = append(ret.elements, CursorElement{
			Column:   orderBy.Column,
			Value:    getter(last),
			Operator: orderBy.Direction.ForOperator(),
		})
	}

	return ret, nil
}

// normalizeValue restores the Go type of a value that went through JSON:
// numbers become int64 or float64 and RFC 3339 strings become time.Time.
func normalizeValue(v any) any {
	switch vt := v.(type) {
	case json.Number:
		if i, err := vt.Int64(); err == nil {
			return i
		}
		if f, err := vt.Float64(); err == nil {
			return f
		}
		return vt.String()
	case string:
		var ts time.Time
		if err := ts.UnmarshalText([]byte(vt)); err == nil {
			return ts
		}
		return vt
	default:
		return v
	}
}
