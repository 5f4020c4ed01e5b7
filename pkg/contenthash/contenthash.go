// Package contenthash derives content identifiers for CLDF archives.
//
// Hashes are CIDv1 strings with the raw multicodec and a sha2-256
// multihash, the same addressing IPFS uses for a single raw block, so a
// payload's cldf field can be resolved through any IPFS gateway.
package contenthash

import (
	"github.com/cockroachdb/errors"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ErrInvalidHash is returned when a string is not a CID.
var ErrInvalidHash = errors.New("contenthash: invalid content identifier")

// Compute returns the CIDv1 (raw, sha2-256) of data.
func Compute(data []byte) (string, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", errors.Wrap(err, "contenthash: sum")
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}

// Validate reports whether s decodes as a CID of any version.
func Validate(s string) error {
	if _, err := cid.Decode(s); err != nil {
		return errors.Wrapf(ErrInvalidHash, "%q: %v", s, err)
	}
	return nil
}

// Verify checks that s is the content identifier of data.
func Verify(s string, data []byte) (bool, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return false, errors.Wrapf(ErrInvalidHash, "%q: %v", s, err)
	}
	want, err := c.Prefix().Sum(data)
	if err != nil {
		return false, errors.Wrap(err, "contenthash: sum")
	}
	return want.Equals(c), nil
}
