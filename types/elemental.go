package types

import (
	"fmt"
	"math"
)

/*
EdgeKey names an undirected mesh edge: both vertex indices packed into
one comparable value with the smaller index in the low bits, so both
orientations of an edge produce the same key
*/
type EdgeKey uint64

func NewEdgeKey(v1, v2 int) (packed EdgeKey) {
	// Packs two index coordinates into one uint64 to act as a hash and an indirect access method
	if v1 < 0 || v2 < 0 || v1 > math.MaxUint32 || v2 > math.MaxUint32 {
		panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
			v1, v2))
	}
	if v2 < v1 {
		v1, v2 = v2, v1
	}
	packed = EdgeKey(v1) + EdgeKey(v2)<<32
	return
}

// Vertices unpacks the edge ends, low index first
func (ek EdgeKey) Vertices() (v1, v2 int) {
	v2 = int(ek >> 32)
	v1 = int(ek & math.MaxUint32)
	return
}
