package store

import (
	bscid "github.com/samkim-crypto/bsaggots/internal/cid"
)

// generateCID addresses raw bytes for storage under the bsots domain's
// content-addressing scheme.
func generateCID(data []byte) (string, error) {
	c, err := bscid.NewCIDGenerator().GenerateFromBytes(data)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}
