package workspace

import "encoding/json"

// BlockType enumerates the editor block kinds.
type BlockType string

const (
	BlockText              BlockType = "text"
	BlockHeading1          BlockType = "heading_1"
	BlockHeading2          BlockType = "heading_2"
	BlockHeading3          BlockType = "heading_3"
	BlockBulletedList      BlockType = "bulleted_list"
	BlockNumberedList      BlockType = "numbered_list"
	BlockTodo              BlockType = "todo"
	BlockToggle            BlockType = "toggle"
	BlockQuote             BlockType = "quote"
	BlockDivider           BlockType = "divider"
	BlockCallout           BlockType = "callout"
	BlockCode              BlockType = "code"
	BlockImage             BlockType = "image"
	BlockDatabaseReference BlockType = "database_reference"
)

// Blocks is the editor document of a single page. Each element is an opaque
// editor block; the set is always replaced wholesale.
type Blocks []json.RawMessage

// Normalize returns an empty, non-nil slice for a nil document so it
// encodes as [] rather than null.
func (b Blocks) Normalize() Blocks {
	if b == nil {
		return Blocks{}
	}
	return b
}
