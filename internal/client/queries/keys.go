package queries

import (
	"github.com/dm0114/capacitor-push-prototype/internal/client/gateway"
	"github.com/dm0114/capacitor-push-prototype/internal/client/querycache"
)

var (
	PagesKey      = querycache.Key{"pages"}
	PageListsKey  = PagesKey.With("list")
	PageDetailKey = PagesKey.With("detail")

	BlocksKey = querycache.Key{"blocks"}

	DatabaseKey = querycache.Key{"database"}

	AuthKey = querycache.Key{"auth"}
	MeKey   = AuthKey.With("me")

	RemindersKey      = querycache.Key{"reminders"}
	ReminderConfigKey = RemindersKey.With("config")
)

// PageListKey keys one filtered listing. Absent and null parents get
// distinct keys.
func PageListKey(filter gateway.PageFilter) querycache.Key {
	parent := "*"
	if v, ok := filter.Parent.QueryValue(); ok {
		parent = "parent=" + v
	}
	db := "*"
	if filter.DatabaseID != "" {
		db = "db=" + filter.DatabaseID
	}
	return PageListsKey.With(parent, db)
}

func PageKey(id string) querycache.Key {
	return PageDetailKey.With(id)
}

func PageBlocksKey(pageID string) querycache.Key {
	return BlocksKey.With("page", pageID)
}

func PropertiesKey(databaseID string) querycache.Key {
	return DatabaseKey.With("properties", databaseID)
}

func RowsKey(databaseID string) querycache.Key {
	return DatabaseKey.With("rows", databaseID)
}

func ViewsKey(databaseID string) querycache.Key {
	return DatabaseKey.With("views", databaseID)
}
