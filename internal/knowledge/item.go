// Package knowledge holds the append-only records accumulated during a
// research run: knowledge items and diary entries.
package knowledge

import "go-deepresearch/internal/types"

// ItemType is the closed set of knowledge-item kinds.
type ItemType string

const (
	ItemQa           ItemType = "qa"
	ItemSideInfo     ItemType = "side_info"
	ItemChatHistory  ItemType = "chat_history"
	ItemURL          ItemType = "url"
	ItemCoding       ItemType = "coding"
	ItemError        ItemType = "error"
	ItemHistory      ItemType = "history"
	ItemUserProvided ItemType = "user_provided"
)

// Item is a single accumulated fact. Items are deduplicated within a run by
// (Question, Answer) equality.
type Item struct {
	Question   string
	Answer     string
	ItemType   ItemType
	References []types.Reference
}

// Key is the dedup key for this item: (question, answer).
func (i Item) Key() [2]string {
	return [2]string{i.Question, i.Answer}
}
