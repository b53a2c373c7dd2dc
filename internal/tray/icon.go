package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"math"
)

const iconSize = 32

var iconData = buildIcon()

// GetIcon returns the tray icon as an ICO file with a single PNG image.
func GetIcon() []byte {
	return iconData
}

// drawIcon paints a joystick base with its handle pushed up and right.
func drawIcon() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	base := color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	handle := color.NRGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}

	c := float64(iconSize-1) / 2
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			fx, fy := float64(x), float64(y)
			switch {
			case math.Hypot(fx-c-5, fy-c+5) <= 6:
				img.SetNRGBA(x, y, handle)
			case math.Hypot(fx-c, fy-c) <= c:
				img.SetNRGBA(x, y, base)
			}
		}
	}
	return img
}

func buildIcon() []byte {
	var pngData bytes.Buffer
	if err := png.Encode(&pngData, drawIcon()); err != nil {
		log.Printf("Error encoding tray icon: %v", err)
		return nil
	}

	var buf bytes.Buffer
	if err := encodeICO(&buf, pngData.Bytes()); err != nil {
		log.Printf("Error encoding tray icon: %v", err)
		return nil
	}
	return buf.Bytes()
}

// encodeICO writes an ICONDIR followed by one ICONDIRENTRY pointing at the
// PNG image.
func encodeICO(w io.Writer, pngData []byte) error {
	header := struct {
		Reserved, Type, Count uint16
	}{0, 1, 1}
	entry := struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{iconSize, iconSize, 0, 0, 1, 32, uint32(len(pngData)), 6 + 16}

	for _, part := range []any{header, entry} {
		if err := binary.Write(w, binary.LittleEndian, part); err != nil {
			return err
		}
	}
	_, err := w.Write(pngData)
	return err
}
