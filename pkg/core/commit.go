package core

// Commit carries serialized commit metadata (tree, parents, author, message).
type Commit struct {
	raw []byte
}

func NewCommit(raw []byte) *Commit {
	if raw == nil {
		raw = []byte{}
	}
	return &Commit{raw: raw}
}

func (c *Commit) Type() ObjectType { return TypeCommit }
func (c *Commit) Payload() []byte  { return c.raw }

// Tag carries a serialized annotated tag.
type Tag struct {
	raw []byte
}

func NewTag(raw []byte) *Tag {
	if raw == nil {
		raw = []byte{}
	}
	return &Tag{raw: raw}
}

func (t *Tag) Type() ObjectType { return TypeTag }
func (t *Tag) Payload() []byte  { return t.raw }
