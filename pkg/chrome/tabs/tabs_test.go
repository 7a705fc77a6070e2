package tabs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTabs(t *testing.T) {
	tabs := New("file:///android_asset/")
	expected := Tab{ID: 1, Active: true, URL: "file:///android_asset/index.html", Title: "Mochi Wallet"}

	var fromCallback []Tab
	res, ok := tabs.Query(QueryInfo{Active: true, CurrentWindow: true}, func(ts []Tab) { fromCallback = ts }).Value()
	require.True(t, ok)
	require.Equal(t, []Tab{expected}, res)
	require.Equal(t, res, fromCallback)

	var current Tab
	tab, ok := tabs.GetCurrent(func(tab Tab) { current = tab }).Value()
	require.True(t, ok)
	require.Equal(t, expected, tab)
	require.Equal(t, expected, current)

	_, ok = tabs.GetCurrent(nil).Value()
	require.True(t, ok)
}
