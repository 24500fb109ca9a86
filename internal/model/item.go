package model

import "time"

// Item is a single entry owned by a user and filed under one category.
// Items are only ever replaced wholesale after a server round trip.
type Item struct {
	ID          ID        `json:"id" yaml:"id"`
	UserID      ID        `json:"userId" yaml:"user_id"`
	CategoryID  ID        `json:"categoryId" yaml:"category_id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Category groups items. Read-only from the client's point of view.
type Category struct {
	ID   ID     `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ItemInput is the body sent when creating or updating an item.
type ItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  ID     `json:"categoryId"`
}

// FilterByCategory returns the items whose category equals id.
// An empty id selects everything.
func FilterByCategory(items []Item, id ID) []Item {
	if id.IsZero() {
		out := make([]Item, len(items))
		copy(out, items)
		return out
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.CategoryID == id {
			out = append(out, it)
		}
	}
	return out
}

// FindItem looks up an item by id.
func FindItem(items []Item, id ID) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// CategoryName returns the display name for id, or the id itself when unknown.
func CategoryName(categories []Category, id ID) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id.String()
}
