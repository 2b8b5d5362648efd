package cleanup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/payeeclean/internal/model"
)

func TestActions_AreClosedSet(t *testing.T) {
	actions := []Action{Payee(Template("x")), Tag(Template(`\1`)), Meta("id"), Clear()}
	for _, a := range actions {
		switch a.(type) {
		case *PayeeAction, *TagAction, *MetaAction:
		default:
			t.Fatalf("unexpected action type %T", a)
		}
	}
}

func TestConstructors_Defaults(t *testing.T) {
	assert.Equal(t, Payee(Template("")), Clear())
	assert.Equal(t, `\1`, Meta("id").value.String())
	assert.Equal(t, "id", Meta("id").Name())
	assert.Equal(t, `v-\1`, Meta("id", WithValue(Template(`v-\1`))).value.String())
}

func TestApply_Pipeline(t *testing.T) {
	m := find(t, `ref:(.*)$`, "shop ref:  Jpy  ")

	plain := Tag(Template(`\1`))
	assert.Equal(t, "Jpy", plain.Apply(m), "value is trimmed")

	upper := Tag(Template(`\1`), WithTransformer(strings.ToUpper))
	assert.Equal(t, "JPY", upper.Apply(m))

	translated := Tag(Template(`\1`), WithTranslation(map[string]string{"JPY": "¥"}))
	assert.Equal(t, "¥", translated.Apply(m), "lookup is case-insensitive")

	missing := Tag(Template(`\1`), WithTranslation(map[string]string{"usd": "$"}))
	assert.Equal(t, "Jpy", missing.Apply(m), "unknown values pass through")

	chained := Tag(Template(`\1`), WithTransformer(strings.ToLower), WithTranslation(map[string]string{"jpy": "yen"}))
	assert.Equal(t, "yen", chained.Apply(m))
}

func TestPayeeAction_Execute(t *testing.T) {
	m := find(t, `@ ([\d.]+)$`, "Coffee JPY@ 0.13")
	txn := model.NewTransaction(testDate, "Coffee JPY@ 0.13")

	got := Payee(Template(` (\1 each)`)).Execute(m, txn)
	assert.Equal(t, "Coffee JPY (0.13 each)", got.Payee)
	assert.Equal(t, "Coffee JPY@ 0.13", txn.Payee)
}

func TestPayeeAction_UsesCurrentPayee(t *testing.T) {
	// The match came from an earlier text; substitution runs on the current payee.
	m := find(t, `\d+`, "old 1")
	txn := model.NewTransaction(testDate, "new 22 and 333")
	got := Clear().Execute(m, txn)
	assert.Equal(t, "new  and", got.Payee)
}

func TestTagAction_Execute(t *testing.T) {
	m := find(t, `#(\w+)`, "lunch #work")
	txn := model.NewTransaction(testDate, "lunch #work")

	got := Tag(Template(`\1`)).Execute(m, txn)
	assert.Equal(t, model.Tags{"work"}, got.Tags)

	again := Tag(Template(`\1`)).Execute(m, got)
	assert.Equal(t, model.Tags{"work"}, again.Tags)
	assert.Nil(t, txn.Tags)
}

func TestMetaAction_Execute(t *testing.T) {
	m := find(t, `(XY\d+)`, "XY90210 Happy Days")
	txn := model.NewTransaction(testDate, "XY90210 Happy Days")

	got := Meta("id").Execute(m, txn)
	assert.Equal(t, model.Meta{{Key: "id", Value: "XY90210"}}, got.Meta)

	appended := Meta("id").Execute(m, got)
	assert.Equal(t, model.Meta{{Key: "id", Value: "XY90210, XY90210"}}, appended.Meta)
	assert.Nil(t, txn.Meta)
}
