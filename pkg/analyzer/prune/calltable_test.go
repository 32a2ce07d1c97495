package prune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallTableCounts(t *testing.T) {
	table := NewCallTable()
	table.Add("foo")
	table.Add("bar")
	table.Add("foo")
	table.AddN("baz", 3)
	table.Add("")
	table.AddN("zero", 0)

	assert.Equal(t, 2, table.Count("foo"))
	assert.Equal(t, 1, table.Count("bar"))
	assert.Equal(t, 3, table.Count("baz"))
	assert.Equal(t, 0, table.Count("missing"))
	assert.Equal(t, []string{"foo", "bar", "baz"}, table.Names())
	assert.Equal(t, 3, table.Len())
	assert.Nil(t, table.Get("zero"))
}

func TestCallTableDecrementClamps(t *testing.T) {
	table := NewCallTable()
	table.AddN("foo", 2)

	assert.Equal(t, 1, table.Decrement("foo", 1))
	assert.True(t, table.Live("foo"))
	assert.Equal(t, 0, table.Decrement("foo", 5))
	assert.False(t, table.Live("foo"))
	assert.Equal(t, 0, table.Decrement("unknown", 1))

	rec := table.Get("foo")
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.Count)
}

func TestCallTableExternAlwaysLive(t *testing.T) {
	table := NewCallTable()
	table.AddExtern("init")
	table.Decrement("init", 10)

	assert.True(t, table.Live("init"))
	assert.Equal(t, []CallRecord{{Name: "init", Count: 0, Extern: true}}, table.Records())
}

func TestUsageListOrder(t *testing.T) {
	var l usageList
	l.Add("b")
	l.Add("a")
	l.Add("b")
	l.Add("")

	assert.Equal(t, []usage{{name: "b", count: 2}, {name: "a", count: 1}}, l.items)
}
