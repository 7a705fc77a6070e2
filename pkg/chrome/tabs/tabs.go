/*
Package tabs implements the extension tabs API for a host with a single
page. The only tab is the wallet page itself.
*/
package tabs

import (
	"github.com/mochimo/mochiwallet-shell/pkg/future"
)

// Tab describes a browser tab.
type Tab struct {
	ID     int    `json:"id"`
	Active bool   `json:"active"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// QueryInfo is the Query filter. Every filter matches the only tab.
type QueryInfo struct {
	Active        bool
	CurrentWindow bool
}

// Tabs is the tabs API.
type Tabs struct {
	current Tab
}

// New creates Tabs with the wallet page located under assetRoot.
func New(assetRoot string) *Tabs {
	return &Tabs{current: Tab{
		ID:     1,
		Active: true,
		URL:    assetRoot + "index.html",
		Title:  "Mochi Wallet",
	}}
}

// Query returns the tabs matching info. cb (if not nil) is called before
// returning.
func (t *Tabs) Query(_ QueryInfo, cb func([]Tab)) *future.Future[[]Tab] {
	res := []Tab{t.current}
	if cb != nil {
		cb(res)
	}
	return future.Resolved(res)
}

// GetCurrent returns the current tab. cb (if not nil) is called before
// returning.
func (t *Tabs) GetCurrent(cb func(Tab)) *future.Future[Tab] {
	if cb != nil {
		cb(t.current)
	}
	return future.Resolved(t.current)
}
