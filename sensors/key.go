// Copyright © 2026 The tempchart Authors

package sensors

import "strconv"

// KeyKind tells which identity a sensor key was derived from. Firmware
// revisions identify probes by 1-Wire address, bus position or a plain id.
type KeyKind int

const (
	Address KeyKind = iota
	Index
	ID
)

func (k KeyKind) String() string {
	switch k {
	case Address:
		return "address"
	case Index:
		return "index"
	case ID:
		return "id"
	}
	return "unknown"
}

type Key struct {
	Kind    KeyKind
	Address string
	Number  int
}

func AddressKey(address string) Key {
	return Key{Kind: Address, Address: address}
}

func IndexKey(index int) Key {
	return Key{Kind: Index, Number: index}
}

func IDKey(id int) Key {
	return Key{Kind: ID, Number: id}
}

// String renders the key in the opaque form used by history records.
func (k Key) String() string {
	if k.Kind == Address {
		return k.Address
	}
	return strconv.Itoa(k.Number)
}
