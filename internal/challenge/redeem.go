package challenge

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// RedeemCode returns the prize code handed to the user who finished in place.
// It is the hex SHA-224 digest of "<username>_<place>\n", so the organizer
// can recompute it from the leaderboard.
func RedeemCode(username string, place int) string {
	sum := sha256.Sum224(fmt.Appendf(nil, "%s_%d\n", username, place))
	return hex.EncodeToString(sum[:])
}
