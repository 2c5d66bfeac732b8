package flatrows

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	parent string
	child  *string
	order  int
}

type item struct {
	name  string
	order int
}

type parent struct {
	name     string
	children []item
}

var testShape = Shape[row, string, parent, item]{
	Key:    func(r row) string { return r.parent },
	Parent: func(r row) parent { return parent{name: r.parent} },
	Child: func(r row) (item, bool) {
		if r.child == nil {
			return item{}, false
		}
		return item{name: *r.child, order: r.order}, true
	},
	Order:  func(i item) int { return i.order },
	Attach: func(p *parent, c []item) { p.children = c },
}

func s(v string) *string { return &v }

func TestReconstruct(t *testing.T) {
	rows := []row{
		{parent: "b", child: s("b2"), order: 2},
		{parent: "a", child: nil},
		{parent: "b", child: s("b1"), order: 1},
		{parent: "c", child: s("c1"), order: 5},
		{parent: "b", child: s("b1-dup"), order: 1},
	}

	result := ReconstructSlice(rows, testShape)
	require.Len(t, result, 3)

	assert.Equal(t, "b", result[0].name)
	assert.Equal(t, []item{{"b1", 1}, {"b1-dup", 1}, {"b2", 2}}, result[0].children)

	assert.Equal(t, "a", result[1].name)
	assert.NotNil(t, result[1].children)
	assert.Empty(t, result[1].children)

	assert.Equal(t, "c", result[2].name)
	assert.Len(t, result[2].children, 1)
}

func TestReconstructEmpty(t *testing.T) {
	result := Reconstruct(slices.Values([]row(nil)), testShape)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
