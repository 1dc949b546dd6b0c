// Package uistate holds transient, client-only interface state. Nothing
// here is persisted or derived from the server; server data lives in the
// query cache.
package uistate

import (
	"slices"
	"sync"
)

// DefaultSidebarWidth is the sidebar width in pixels on startup.
const DefaultSidebarWidth = 240

// PageState is a point-in-time copy of PageStore.
type PageState struct {
	SelectedPageID  string
	SidebarOpen     bool
	SidebarWidth    int
	ExpandedPageIDs []string
	DraggingPageID  string
}

// PageStore tracks selection, sidebar and tree expansion state.
type PageStore struct {
	mu        sync.RWMutex
	selected  string
	open      bool
	width     int
	expanded  map[string]struct{}
	dragging  string
	listeners listeners[PageState]
}

// NewPageStore returns a store with the sidebar open at its default width.
func NewPageStore() *PageStore {
	return &PageStore{
		open:     true,
		width:    DefaultSidebarWidth,
		expanded: make(map[string]struct{}),
	}
}

// Subscribe registers fn to run after every change; the returned func
// unsubscribes.
func (s *PageStore) Subscribe(fn func(PageState)) func() {
	return s.listeners.add(fn)
}

func (s *PageStore) update(fn func()) {
	s.mu.Lock()
	fn()
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.listeners.notify(state)
}

// Snapshot returns a copy of the current state with expanded ids sorted.
func (s *PageStore) Snapshot() PageState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *PageStore) snapshotLocked() PageState {
	ids := make([]string, 0, len(s.expanded))
	for id := range s.expanded {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return PageState{
		SelectedPageID:  s.selected,
		SidebarOpen:     s.open,
		SidebarWidth:    s.width,
		ExpandedPageIDs: ids,
		DraggingPageID:  s.dragging,
	}
}

func (s *PageStore) SelectedPageID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SetSelectedPageID selects a page; "" clears the selection.
func (s *PageStore) SetSelectedPageID(id string) {
	s.update(func() { s.selected = id })
}

func (s *PageStore) SidebarOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

func (s *PageStore) SetSidebarOpen(open bool) {
	s.update(func() { s.open = open })
}

func (s *PageStore) ToggleSidebar() {
	s.update(func() { s.open = !s.open })
}

func (s *PageStore) SidebarWidth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width
}

func (s *PageStore) SetSidebarWidth(width int) {
	s.update(func() { s.width = width })
}

func (s *PageStore) IsExpanded(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.expanded[id]
	return ok
}

// ToggleExpanded flips a tree node between expanded and collapsed.
func (s *PageStore) ToggleExpanded(id string) {
	s.update(func() {
		if _, ok := s.expanded[id]; ok {
			delete(s.expanded, id)
			return
		}
		s.expanded[id] = struct{}{}
	})
}

func (s *PageStore) SetExpanded(id string, expanded bool) {
	s.update(func() {
		if expanded {
			s.expanded[id] = struct{}{}
		} else {
			delete(s.expanded, id)
		}
	})
}

func (s *PageStore) DraggingPageID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragging
}

// SetDraggingPageID marks the page being dragged; "" ends the drag.
func (s *PageStore) SetDraggingPageID(id string) {
	s.update(func() { s.dragging = id })
}

// Reset restores the startup state.
func (s *PageStore) Reset() {
	s.update(func() {
		s.selected = ""
		s.open = true
		s.width = DefaultSidebarWidth
		s.expanded = make(map[string]struct{})
		s.dragging = ""
	})
}
