package resp

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Canonical order contract
//
// Values are totally ordered so they can serve as map keys and set
// members. The order is:
//
//  1. Variants compare by a fixed rank:
//     Null < Bool < Integer < Double < BigNumber < SimpleString <
//     SimpleError < BulkString < BulkError < VerbatimString < Array <
//     Map < Set < Push.
//  2. Within a variant, payloads compare naturally: byte payloads
//     lexicographically, integers and doubles numerically, aggregates
//     element-wise and then by length.
//  3. NaN is equal to NaN and greater than every other double.
//     Negative and positive zero are equal.
//  4. The null bulk string and null array sort before every non-null
//     value of the same variant.
//
// Hash is consistent with this order: Compare(a, b) == 0 implies
// Hash(a) == Hash(b).

var typeRank = map[ValueType]int{
	TypeNull:           0,
	TypeBool:           1,
	TypeInteger:        2,
	TypeDouble:         3,
	TypeBigNumber:      4,
	TypeSimpleString:   5,
	TypeSimpleError:    6,
	TypeBulkString:     7,
	TypeBulkError:      8,
	TypeVerbatimString: 9,
	TypeArray:          10,
	TypeMap:            11,
	TypeSet:            12,
	TypePush:           13,
}

// Compare returns -1, 0 or 1 ordering a against b under the canonical
// order contract documented above.
func Compare(a, b Value) int {
	ra, rb := typeRank[a.Type], typeRank[b.Type]
	if ra != rb {
		return cmpInt(int64(ra), int64(rb))
	}

	switch a.Type {
	case TypeNull:
		return 0
	case TypeBool:
		if a.Boolean == b.Boolean {
			return 0
		}
		if !a.Boolean {
			return -1
		}
		return 1
	case TypeInteger:
		return cmpInt(a.Integer, b.Integer)
	case TypeDouble:
		return cmpDouble(a.Float, b.Float)
	case TypeBigNumber:
		return cmpBigNumber(a, b)
	case TypeSimpleString, TypeSimpleError, TypeBulkError:
		return bytes.Compare(a.Data, b.Data)
	case TypeBulkString:
		if a.IsNull || b.IsNull {
			return cmpNull(a.IsNull, b.IsNull)
		}
		return bytes.Compare(a.Data, b.Data)
	case TypeVerbatimString:
		if c := bytes.Compare([]byte(a.Format), []byte(b.Format)); c != 0 {
			return c
		}
		return bytes.Compare(a.Data, b.Data)
	case TypeArray:
		if a.IsNull || b.IsNull {
			return cmpNull(a.IsNull, b.IsNull)
		}
		return cmpValues(a.Array, b.Array)
	case TypeMap, TypeSet, TypePush:
		return cmpValues(a.Array, b.Array)
	default:
		return 0
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpNull(aNull, bNull bool) int {
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	default:
		return 1
	}
}

func cmpDouble(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		// Covers -0 == +0.
		return 0
	}
}

func cmpBigNumber(a, b Value) int {
	da, db := trimLeadingZeros(a.Data), trimLeadingZeros(b.Data)
	negA := a.Negative && !digitsZero(da)
	negB := b.Negative && !digitsZero(db)
	if negA != negB {
		if negA {
			return -1
		}
		return 1
	}
	c := cmpDigits(da, db)
	if negA {
		return -c
	}
	return c
}

// cmpDigits compares two unsigned decimal digit strings numerically.
func cmpDigits(a, b []byte) int {
	if len(a) != len(b) {
		return cmpInt(int64(len(a)), int64(len(b)))
	}
	return bytes.Compare(a, b)
}

func digitsZero(digits []byte) bool {
	return len(digits) == 0 || (len(digits) == 1 && digits[0] == '0')
}

func trimLeadingZeros(digits []byte) []byte {
	i := 0
	for i < len(digits)-1 && digits[i] == '0' {
		i++
	}
	return digits[i:]
}

func cmpValues(a, b []Value) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(int64(len(a)), int64(len(b)))
}

// Hash returns a stable 64-bit hash of v, consistent with Compare:
// values that compare equal hash equal.
func Hash(v Value) uint64 {
	d := xxhash.New()
	hashValue(d, v)
	return d.Sum64()
}

func hashValue(d *xxhash.Digest, v Value) {
	_, _ = d.Write([]byte{byte(v.Type)})
	switch v.Type {
	case TypeNull:
	case TypeBool:
		if v.Boolean {
			_, _ = d.WriteString("t")
		} else {
			_, _ = d.WriteString("f")
		}
	case TypeInteger:
		hashUint64(d, uint64(v.Integer))
	case TypeDouble:
		f := v.Float
		if math.IsNaN(f) {
			f = math.NaN()
		} else if f == 0 {
			// Normalize -0 so it hashes like +0.
			f = 0
		}
		hashUint64(d, math.Float64bits(f))
	case TypeBigNumber:
		digits := trimLeadingZeros(v.Data)
		if v.Negative && !digitsZero(digits) {
			_, _ = d.WriteString("-")
		}
		_, _ = d.Write(digits)
	case TypeBulkString, TypeArray:
		if v.IsNull {
			_, _ = d.WriteString("N")
			return
		}
		hashPayload(d, v)
	default:
		hashPayload(d, v)
	}
}

func hashPayload(d *xxhash.Digest, v Value) {
	switch v.Type {
	case TypeVerbatimString:
		_, _ = d.WriteString(v.Format)
		_, _ = d.WriteString(":")
		_, _ = d.Write(v.Data)
	case TypeArray, TypeMap, TypeSet, TypePush:
		hashUint64(d, uint64(len(v.Array)))
		for _, elem := range v.Array {
			hashValue(d, elem)
		}
	default:
		hashUint64(d, uint64(len(v.Data)))
		_, _ = d.Write(v.Data)
	}
}

func hashUint64(d *xxhash.Digest, n uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	_, _ = d.Write(buf[:])
}

// sortValues returns a copy of values sorted in canonical order.
func sortValues(values []Value) []Value {
	out := append([]Value(nil), values...)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}
