package tray

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/png"
	"testing"

	"github.com/soar/touchjoy/internal/test"
)

func TestIcon(t *testing.T) {
	data := GetIcon()
	test.ExpectSuccess(t, len(data) > 22)

	test.ExpectEquality(t, binary.LittleEndian.Uint16(data[2:]), uint16(1))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(data[4:]), uint16(1))
	test.ExpectEquality(t, data[6], uint8(iconSize))

	size := binary.LittleEndian.Uint32(data[14:])
	offset := binary.LittleEndian.Uint32(data[18:])
	test.ExpectEquality(t, int(offset+size), len(data))

	img, err := png.Decode(bytes.NewReader(data[offset:]))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, img.Bounds().Dx(), iconSize)

	// corners are transparent, the centre is painted
	_, _, _, a := img.At(0, 0).RGBA()
	test.ExpectEquality(t, a, uint32(0))
	_, _, _, a = img.At(iconSize/2, iconSize/2).RGBA()
	test.ExpectEquality(t, a, uint32(0xffff))
}

type failWriter struct{ after int }

func (w *failWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestEncodeICOWriteError(t *testing.T) {
	// header, entry and image are separate writes; each may fail
	for after := 0; after < 3; after++ {
		test.ExpectFailure(t, encodeICO(&failWriter{after: after}, []byte{1, 2, 3}))
	}
	test.ExpectSuccess(t, encodeICO(&failWriter{after: 3}, []byte{1, 2, 3}))
}
