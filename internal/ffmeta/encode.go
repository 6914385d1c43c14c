// Package ffmeta implements the glyph metadata encoding pipeline: glyph
// script normalization, zlib compression, the unpadded chunked base64 block
// form, and the ffmetadata document grammar the blocks are embedded in.
package ffmeta

// EncodeBytes compresses raw bytes and renders them as an encoded block:
// zlib at best compression, then the unpadded 76-column base64 form.
func EncodeBytes(data []byte) (string, error) {
	compressed, err := Deflate(data)
	if err != nil {
		return "", err
	}
	return ChunkEncode(compressed), nil
}

// EncodeScript normalizes a glyph script and encodes it for the AUTHOR tag.
func EncodeScript(text string) (string, error) {
	return EncodeBytes(NormalizeScript(text))
}

// DecodeBlock reverses EncodeBytes: the block is base64-decoded and inflated
// back to the original bytes.
func DecodeBlock(block string) ([]byte, error) {
	compressed, err := ChunkDecode(block)
	if err != nil {
		return nil, err
	}
	return Inflate(compressed)
}
