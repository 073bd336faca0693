package txmodel

import (
	"github.com/blinklabs-io/praos-ledger/internal/address"
	"github.com/blinklabs-io/praos-ledger/internal/common"
)

// Output is a transaction output: an address and the value it carries.
type Output struct {
	Address address.Address
	Value   common.Value
}

func (o Output) bytes() []byte {
	addrBytes := o.Address.Bytes()
	valBytes := o.Value.Bytes()
	buf := make([]byte, 0, 1+len(addrBytes)+8)
	buf = append(buf, byte(len(addrBytes)))
	buf = append(buf, addrBytes...)
	buf = append(buf, valBytes[:]...)
	return buf
}
