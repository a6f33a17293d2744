package ledger

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Hardened marks a hardened BIP32 path element.
const Hardened uint32 = 0x80000000

// DerivationPath is a BIP44 key path appended to every key-bound command.
type DerivationPath []uint32

// DefaultDerivationPath is m/44'/888'/0'/0/0, the first NEO account.
var DefaultDerivationPath = DerivationPath{44 | Hardened, 888 | Hardened, 0 | Hardened, 0, 0}

// ParseDerivationPath parses paths such as "m/44'/888'/0'/0/0". The "m/"
// prefix is optional and "h" is accepted as the hardened marker.
func ParseDerivationPath(s string) (DerivationPath, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "m/")
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	parts := strings.Split(s, "/")
	path := make(DerivationPath, 0, len(parts))
	for _, p := range parts {
		var hardened bool
		if strings.HasSuffix(p, "'") || strings.HasSuffix(p, "h") {
			hardened = true
			p = p[:len(p)-1]
		}
		n, err := strconv.ParseUint(p, 10, 31)
		if err != nil {
			return nil, fmt.Errorf("%w: element %q", ErrInvalidPath, p)
		}
		v := uint32(n)
		if hardened {
			v |= Hardened
		}
		path = append(path, v)
	}
	return path, nil
}

// Bytes encodes each element as a big-endian uint32.
func (p DerivationPath) Bytes() []byte {
	out := make([]byte, 4*len(p))
	for i, v := range p {
		binary.BigEndian.PutUint32(out[4*i:], v)
	}
	return out
}

func (p DerivationPath) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, v := range p {
		sb.WriteString("/")
		sb.WriteString(strconv.FormatUint(uint64(v&^Hardened), 10))
		if v&Hardened != 0 {
			sb.WriteString("'")
		}
	}
	return sb.String()
}
