package core

// Blob holds raw file contents. It is the leaf of the object graph.
type Blob struct {
	data []byte
}

func NewBlob(data []byte) *Blob {
	if data == nil {
		data = []byte{}
	}
	return &Blob{data: data}
}

func (b *Blob) Type() ObjectType { return TypeBlob }
func (b *Blob) Payload() []byte  { return b.data }
