package cell

import "fmt"

// Kind identifies the concrete type of a cell.
type Kind uint8

const (
	KindUninitialized Kind = iota
	KindFiller
	KindExternalASCIIString
	KindArrayStorage
	KindStringIterator

	numKinds
)

var kindNames = [numKinds]string{
	KindUninitialized:       "Uninitialized",
	KindFiller:              "Filler",
	KindExternalASCIIString: "ExternalASCIIString",
	KindArrayStorage:        "ArrayStorage",
	KindStringIterator:      "StringIterator",
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k < numKinds
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Kinds returns every declared kind in tag order.
func Kinds() []Kind {
	ks := make([]Kind, numKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}
