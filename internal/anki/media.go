package anki

import (
	"bytes"
	"context"
	"fmt"
	"os"
)

// minMediaFileSize is the smallest size a generated MP3 is expected to have.
// Anything smaller is treated as a failed or truncated upload.
const minMediaFileSize = 1024

var mp3Magics = [][]byte{
	[]byte("ID3"),
	{0xFF, 0xFB},
	{0xFF, 0xFA},
	{0xFF, 0xF3},
	{0xFF, 0xF2},
}

// MediaFileExists reports whether filename exists in Anki's media collection
// and holds plausible MP3 data. Corrupt or undersized files count as absent
// so they get regenerated.
func (c *Client) MediaFileExists(ctx context.Context, filename string) (bool, error) {
	data, err := c.RetrieveMediaFile(ctx, filename)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}

	if len(data) < minMediaFileSize {
		fmt.Fprintf(os.Stderr, "Warning: media file %q exists but is too small (%d bytes), treating as missing\n", filename, len(data))
		return false, nil
	}

	if !looksLikeMP3(data) {
		fmt.Fprintf(os.Stderr, "Warning: media file %q exists but is not valid MP3 data, treating as missing\n", filename)
		return false, nil
	}

	return true, nil
}

func looksLikeMP3(data []byte) bool {
	for _, magic := range mp3Magics {
		if bytes.HasPrefix(data, magic) {
			return true
		}
	}
	return false
}
