package ffmeta

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// chunkWidth is the line width used for base64 blocks inside tag values.
const chunkWidth = 76

// ChunkEncode renders bytes as an unpadded base64 block: standard alphabet,
// no `=` padding, wrapped to 76-character lines, exactly one trailing
// newline. Empty input yields a single newline (zero data lines).
func ChunkEncode(data []byte) string {
	b64 := base64.RawStdEncoding.EncodeToString(data)

	var sb strings.Builder
	for len(b64) > chunkWidth {
		sb.WriteString(b64[:chunkWidth])
		sb.WriteByte('\n')
		b64 = b64[chunkWidth:]
	}
	sb.WriteString(b64)
	sb.WriteByte('\n')
	return sb.String()
}

// ChunkDecode reverses ChunkEncode: newlines are stripped and the unpadded
// base64 text is decoded back to the original bytes.
func ChunkDecode(block string) ([]byte, error) {
	joined := strings.ReplaceAll(block, "\n", "")
	data, err := base64.RawStdEncoding.DecodeString(joined)
	if err != nil {
		return nil, fmt.Errorf("malformed base64 block: %w", err)
	}
	return data, nil
}
