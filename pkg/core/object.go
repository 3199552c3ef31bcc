package core

import (
	"bytes"
	"fmt"
)

// ObjectType is the type tag written at the head of every object.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"   // opaque file contents
	TypeTree   ObjectType = "tree"   // directory listing
	TypeCommit ObjectType = "commit" // snapshot metadata
	TypeTag    ObjectType = "tag"    // annotated tag
)

// ParseObjectType maps a raw tag to one of the four known types.
func ParseObjectType(tag []byte) (ObjectType, error) {
	switch t := ObjectType(tag); t {
	case TypeBlob, TypeTree, TypeCommit, TypeTag:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, tag)
	}
}

func (t ObjectType) String() string { return string(t) }

// Object is an immutable, typed unit of content.
// Its identity is the SHA-1 of Encode(obj), see Hash.
type Object interface {
	// Type returns the object's type tag.
	Type() ObjectType

	// Payload returns the serialized body, without the header.
	// Callers must not modify the returned slice.
	Payload() []byte
}

// New builds the variant matching t around payload.
func New(t ObjectType, payload []byte) (Object, error) {
	switch t {
	case TypeBlob:
		return NewBlob(payload), nil
	case TypeTree:
		return NewTree(payload), nil
	case TypeCommit:
		return NewCommit(payload), nil
	case TypeTag:
		return NewTag(payload), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
}

// Equal reports whether a and b have the same type and payload,
// i.e. whether they would be stored under the same name.
func Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Type() == b.Type() && bytes.Equal(a.Payload(), b.Payload())
}
