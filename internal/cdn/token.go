package cdn

import (
	"encoding/hex"
	"path"

	"github.com/zeebo/blake3"
)

// tokenHashLen is the number of hex characters of the digest kept in paths.
const tokenHashLen = 12

// contentDomainKey separates asset digests from any other BLAKE3 use. Changing
// it changes every published path.
var contentDomainKey = [32]byte{
	'a', 's', 's', 'e', 't', 'p', 'i', 'p', 'e', '.', 'c', 'd', 'n', '.',
	'c', 'o', 'n', 't', 'e', 'n', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// ContentHash returns the full hex BLAKE3 keyed digest of content.
func ContentHash(content []byte) string {
	hasher, err := blake3.NewKeyed(contentDomainKey[:])
	if err != nil {
		panic("cdn: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	_, _ = hasher.Write(content)
	return hex.EncodeToString(hasher.Sum(nil))
}

// Token returns the cache-busting token for content under version.
func Token(version string, content []byte) string {
	return tokenFromHash(version, ContentHash(content))
}

func tokenFromHash(version, hash string) string {
	short := hash
	if len(short) > tokenHashLen {
		short = short[:tokenHashLen]
	}
	if version == "" {
		return short
	}
	return version + "-" + short
}

// RelPath joins the published location of an artifact.
func RelPath(contextDir, id, token, ext string) string {
	return path.Join(contextDir, id+"-"+token+ext)
}
