package core

// Tree is a directory listing. Entry parsing is left to higher layers,
// the store carries the serialized entries as-is.
type Tree struct {
	raw []byte
}

func NewTree(raw []byte) *Tree {
	if raw == nil {
		raw = []byte{}
	}
	return &Tree{raw: raw}
}

func (t *Tree) Type() ObjectType { return TypeTree }
func (t *Tree) Payload() []byte  { return t.raw }
