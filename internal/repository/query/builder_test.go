package query

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestBuild_NoFilters(t *testing.T) {
	var channel *string
	q, params := New("sym_outgoing_batch").
		Where("status = ?", nil).
		Where("channel_id = ?", channel).
		Where("node_id = ?", (*string)(nil)).
		Order("create_time", "").
		Limit(100).
		Build()

	want := "SELECT * FROM sym_outgoing_batch ORDER BY create_time DESC LIMIT 100"
	if q != want {
		t.Errorf("Build() = %q, ожидается %q", q, want)
	}
	if len(params) != 0 {
		t.Errorf("params = %v, ожидается пустой список", params)
	}
}

func TestBuild_ZeroValuesArePresent(t *testing.T) {
	q, params := New("t").
		Where("a = ?", "").
		Where("b = ?", 0).
		Build()

	want := "SELECT * FROM t WHERE a = ? AND b = ?"
	if q != want {
		t.Errorf("Build() = %q, ожидается %q", q, want)
	}
	if !reflect.DeepEqual(params, []any{"", 0}) {
		t.Errorf("params = %#v, ожидается [\"\" 0]", params)
	}
}

func TestBuild_PointerDereferenced(t *testing.T) {
	_, params := New("t").Where("status = ?", strPtr("ER")).Build()
	if !reflect.DeepEqual(params, []any{"ER"}) {
		t.Errorf("params = %#v, ожидается [\"ER\"]", params)
	}
}

func TestBuild_ClauseOrder(t *testing.T) {
	// Методы вызываются в произвольном порядке, секции - в фиксированном.
	q, params := New("sym_incoming_batch").
		Limit(10).
		Order("status", "asc").
		Group("status").
		Where("channel_id = ?", "sales").
		Select("status, COUNT(*) AS count").
		Build()

	want := "SELECT status, COUNT(*) AS count FROM sym_incoming_batch WHERE channel_id = ? GROUP BY status ORDER BY status ASC LIMIT 10"
	if q != want {
		t.Errorf("Build() = %q, ожидается %q", q, want)
	}
	if !reflect.DeepEqual(params, []any{"sales"}) {
		t.Errorf("params = %#v", params)
	}
}

func TestBuild_SettersOverwrite(t *testing.T) {
	q, _ := New("t").
		Order("a", Asc).Order("b", Desc).
		Group("x").Group("y").
		Limit(5).Limit(7).
		Build()

	want := "SELECT * FROM t GROUP BY y ORDER BY b DESC LIMIT 7"
	if q != want {
		t.Errorf("Build() = %q, ожидается %q", q, want)
	}
}

func TestFilters_Declarative(t *testing.T) {
	var node *string
	q, params := New("sym_outgoing_batch").
		Filters(
			Filter{Cond: "status = ?", Value: strPtr("ER")},
			Filter{Cond: "channel_id = ?", Value: strPtr("sales")},
			Filter{Cond: "node_id = ?", Value: node},
		).
		Build()

	want := "SELECT * FROM sym_outgoing_batch WHERE status = ? AND channel_id = ?"
	if q != want {
		t.Errorf("Build() = %q, ожидается %q", q, want)
	}
	if !reflect.DeepEqual(params, []any{"ER", "sales"}) {
		t.Errorf("params = %#v, ожидается [ER sales]", params)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	b := New("t").Where("a = ?", 1)
	q1, p1 := b.Build()
	q2, p2 := b.Build()
	if q1 != q2 || !reflect.DeepEqual(p1, p2) {
		t.Errorf("повторный Build() дал другой результат: %q %v / %q %v", q1, p1, q2, p2)
	}
	p1[0] = 99
	if _, p3 := b.Build(); p3[0] != 1 {
		t.Errorf("Build() вернул общий срез параметров: %v", p3)
	}
}
